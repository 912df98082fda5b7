package service

import (
	"errors"
	"testing"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/util"
)

func TestCreatePaperDuplicateCodeConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newModuleService(db)

	req := ExamPaperRequest{Code: "ICAO4-A", Name: "等级测试 A 卷", TotalDurationMin: 90}
	if _, err := svc.CreatePaper(req); err != nil {
		t.Fatalf("create paper failed: %v", err)
	}
	_, err := svc.CreatePaper(req)
	if !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate code, got %v", err)
	}
}

func TestDeletePaperBlockedByModules(t *testing.T) {
	db := newTestDB(t)
	svc := newModuleService(db)
	paper := seedPaper(t, db)
	seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)

	err := svc.DeletePaper(paper.ID)
	if !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict while modules exist, got %v", err)
	}
}

func TestDeletePaperBlockedByRecords(t *testing.T) {
	db := newTestDB(t)
	svc := newModuleService(db)
	paper := seedPaper(t, db)
	if err := db.Create(&model.ExamRecord{ExamPaperID: paper.ID, UserID: 7}).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}

	err := svc.DeletePaper(paper.ID)
	if !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict while records exist, got %v", err)
	}
}

func TestCreateModuleValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newModuleService(db)
	paper := seedPaper(t, db)

	if _, err := svc.CreateModule(ExamModuleRequest{ExamPaperID: paper.ID, ModuleType: "QUIZ"}); !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed for bad type, got %v", err)
	}
	if _, err := svc.CreateModule(ExamModuleRequest{ExamPaperID: 99999, ModuleType: model.ModuleOpi}); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing paper, got %v", err)
	}

	m, err := svc.CreateModule(ExamModuleRequest{ExamPaperID: paper.ID, ModuleType: model.ModuleOpi, DisplayOrder: 5, Score: 20})
	if err != nil {
		t.Fatalf("create module failed: %v", err)
	}
	if !m.IsActive {
		t.Fatalf("new module must start active")
	}
	if m.ConfigJSON == "" {
		t.Fatalf("expected default config to be materialized")
	}
}

func TestReorderModulesRenumbersSequentially(t *testing.T) {
	db := newTestDB(t)
	svc := newModuleService(db)
	paper := seedPaper(t, db)
	m1 := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	m2 := seedModule(t, db, paper.ID, model.ModuleStoryRetell, 2)
	m3 := seedModule(t, db, paper.ID, model.ModuleOpi, 3)

	modules, err := svc.ReorderModules(paper.ID, []uint{m3.ID, m1.ID, m2.ID})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	got := map[uint]int{}
	for _, m := range modules {
		got[m.ID] = m.DisplayOrder
	}
	if got[m3.ID] != 1 || got[m1.ID] != 2 || got[m2.ID] != 3 {
		t.Fatalf("expected 1..3 in given order, got %v", got)
	}
}

func TestReorderModulesIgnoresForeignAndKeepsOmitted(t *testing.T) {
	db := newTestDB(t)
	svc := newModuleService(db)
	paper := seedPaper(t, db)
	other := seedPaper(t, db)
	m1 := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	m2 := seedModule(t, db, paper.ID, model.ModuleStoryRetell, 2)
	foreign := seedModule(t, db, other.ID, model.ModuleOpi, 1)

	modules, err := svc.ReorderModules(paper.ID, []uint{foreign.ID, m2.ID})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	got := map[uint]int{}
	for _, m := range modules {
		got[m.ID] = m.DisplayOrder
	}
	if got[m2.ID] != 1 {
		t.Fatalf("expected listed module renumbered to 1, got %d", got[m2.ID])
	}
	// 未列出的模块保持原顺序值
	if got[m1.ID] != 1 {
		t.Fatalf("expected omitted module to keep order 1, got %d", got[m1.ID])
	}

	var fresh model.ExamModule
	if err := db.First(&fresh, foreign.ID).Error; err != nil {
		t.Fatalf("read foreign module: %v", err)
	}
	if fresh.DisplayOrder != 1 {
		t.Fatalf("foreign module must be untouched, got order %d", fresh.DisplayOrder)
	}
}

func TestCopyModuleWithinPaper(t *testing.T) {
	db := newTestDB(t)
	svc := newModuleService(db)
	paper := seedPaper(t, db)
	src := seedModule(t, db, paper.ID, model.ModuleAtcSim, 3)

	dup, err := svc.CopyModule(src.ID)
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if dup.ID == src.ID {
		t.Fatalf("copy must create a new row")
	}
	if dup.ExamPaperID != paper.ID || dup.ModuleType != src.ModuleType {
		t.Fatalf("copy must preserve paper and type, got %+v", dup)
	}
	if dup.DisplayOrder != src.DisplayOrder+1 {
		t.Fatalf("expected copy ordered right after source, got %d", dup.DisplayOrder)
	}
}

func TestCopyModuleToOtherPaper(t *testing.T) {
	db := newTestDB(t)
	svc := newModuleService(db)
	paper := seedPaper(t, db)
	target := seedPaper(t, db)
	src := seedModule(t, db, paper.ID, model.ModuleListeningSa, 2)

	dup, err := svc.CopyModuleToExamPaper(src.ID, target.ID)
	if err != nil {
		t.Fatalf("copy to paper failed: %v", err)
	}
	if dup.ExamPaperID != target.ID {
		t.Fatalf("expected copy attached to target paper, got %d", dup.ExamPaperID)
	}

	_, err = svc.CopyModuleToExamPaper(src.ID, 99999)
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing target, got %v", err)
	}
}

func TestToggleModuleActivation(t *testing.T) {
	db := newTestDB(t)
	svc := newModuleService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	seedModule(t, db, paper.ID, model.ModuleOpi, 2)

	if _, err := svc.ToggleModuleActivation(m.ID, false); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	active, err := svc.ListModules(paper.ID, true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active module, got %d", len(active))
	}
	all, err := svc.ListModules(paper.ID, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 modules in total, got %d", len(all))
	}

	if _, err := svc.ToggleModuleActivation(m.ID, true); err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}
	active, err = svc.ListModules(paper.ID, true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active modules after reactivation, got %d", len(active))
	}
}

func TestUpdateModuleRejectsInvalidConfig(t *testing.T) {
	db := newTestDB(t)
	svc := newModuleService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)

	bad := `{"playTimes": 0, "secondsPerQuestion": 30}`
	if _, err := svc.UpdateModule(m.ID, ModuleUpdateRequest{ConfigJSON: &bad}); !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed for bad config, got %v", err)
	}

	negative := -1.0
	if _, err := svc.UpdateModule(m.ID, ModuleUpdateRequest{Score: &negative}); !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed for negative score, got %v", err)
	}
}
