package service

import (
	"errors"
	"testing"
	"time"

	"aviation_exam_backend/internal/config"
	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/repository"
	"aviation_exam_backend/internal/util"

	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(RegisterRequest{Name: "张伟", Email: "pilot@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Fatalf("expected default role USER, got %s", user.Role)
	}
	if user.Password == "hunter2hunter2" {
		t.Fatalf("password must be stored hashed")
	}

	token, logged, err := svc.Login("pilot@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || logged.ID != user.ID {
		t.Fatalf("expected token for user %d", user.ID)
	}

	claims, err := util.ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected claims for user %d, got %d", user.ID, claims.UserID)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	req := RegisterRequest{Name: "张伟", Email: "pilot@example.com", Password: "hunter2hunter2"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := svc.Register(req)
	if !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(RegisterRequest{Name: "张伟", Email: "pilot@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, wrongPass := svc.Login("pilot@example.com", "wrong-password")
	_, _, unknown := svc.Login("nobody@example.com", "hunter2hunter2")

	if _, err := svc.SetUserDisabled(user.ID, true); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	_, _, disabled := svc.Login("pilot@example.com", "hunter2hunter2")

	// 禁用、不存在、口令错误对外不可区分
	for _, err := range []error{wrongPass, unknown, disabled} {
		if err == nil || err.Error() != "invalid credentials" {
			t.Fatalf("expected uniform invalid credentials error, got %v", err)
		}
	}
}

func TestSetUserRoleValidatesEnum(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(RegisterRequest{Name: "张伟", Email: "pilot@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.SetUserRole(user.ID, "ROOT"); !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed for bad role, got %v", err)
	}
	updated, err := svc.SetUserRole(user.ID, model.RoleAdmin)
	if err != nil {
		t.Fatalf("set role failed: %v", err)
	}
	if updated.Role != model.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", updated.Role)
	}
}
