package service

import (
	"errors"
	"testing"
	"time"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/util"
)

func TestExamRecordLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newRecordService(db)
	paper := seedPaper(t, db)

	record, err := svc.CreateRecord(7, paper.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if record.StartedAt != nil || record.IsFinished {
		t.Fatalf("new record must be unstarted, got %+v", record)
	}

	started, err := svc.StartRecord(record.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if started.StartedAt == nil {
		t.Fatalf("start must stamp StartedAt")
	}

	// 重复开始幂等，不刷新时间戳。把开始时间拨到一小时前再重复开始以便观察。
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&model.ExamRecord{}).Where("id = ?", record.ID).Update("started_at", past).Error; err != nil {
		t.Fatalf("backdate record: %v", err)
	}
	restarted, err := svc.StartRecord(record.ID)
	if err != nil {
		t.Fatalf("repeated start failed: %v", err)
	}
	if time.Since(*restarted.StartedAt) < 30*time.Minute {
		t.Fatalf("repeated start must not refresh StartedAt, got %v", restarted.StartedAt)
	}

	finished, err := svc.FinishRecord(record.ID)
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if !finished.IsFinished {
		t.Fatalf("expected finished record")
	}

	// 结束幂等
	if _, err := svc.FinishRecord(record.ID); err != nil {
		t.Fatalf("repeated finish must be idempotent: %v", err)
	}

	// 终态后不可重新开始
	_, err = svc.StartRecord(record.ID)
	if !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict starting a finished record, got %v", err)
	}
}

func TestFinishUnstartedRecordRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newRecordService(db)
	paper := seedPaper(t, db)

	record, err := svc.CreateRecord(7, paper.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err = svc.FinishRecord(record.ID)
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestUpdateStatusForceFinishBackfillsStart(t *testing.T) {
	db := newTestDB(t)
	svc := newRecordService(db)
	paper := seedPaper(t, db)

	record, err := svc.CreateRecord(7, paper.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	finished, err := svc.UpdateRecordStatus(record.ID, true)
	if err != nil {
		t.Fatalf("force finish failed: %v", err)
	}
	if !finished.IsFinished || finished.StartedAt == nil {
		t.Fatalf("force finish must stamp start and finish, got %+v", finished)
	}
}

func TestUpdateStatusReopensFinishedRecord(t *testing.T) {
	db := newTestDB(t)
	svc := newRecordService(db)
	paper := seedPaper(t, db)

	record, err := svc.CreateRecord(7, paper.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.StartRecord(record.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := svc.FinishRecord(record.ID); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	// 正常流程里结束是终态，管理员改写可以撤销
	reopened, err := svc.UpdateRecordStatus(record.ID, false)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reopened.IsFinished {
		t.Fatalf("record must be unfinished after reopening, got %+v", reopened)
	}
	if reopened.StartedAt == nil {
		t.Fatalf("reopening must not clear the start stamp")
	}

	var persisted model.ExamRecord
	if err := db.First(&persisted, record.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if persisted.IsFinished {
		t.Fatalf("unfinished state must be persisted")
	}
	if _, err := svc.FinishRecord(record.ID); err != nil {
		t.Fatalf("finishing a reopened record failed: %v", err)
	}
}

func TestCreateRecordRequiresExistingPaper(t *testing.T) {
	db := newTestDB(t)
	svc := newRecordService(db)

	_, err := svc.CreateRecord(7, 99999)
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRecordsByUserAndPaper(t *testing.T) {
	db := newTestDB(t)
	svc := newRecordService(db)
	paper := seedPaper(t, db)
	other := seedPaper(t, db)

	if _, err := svc.CreateRecord(7, paper.ID); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreateRecord(7, other.ID); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreateRecord(8, paper.ID); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	mine, total, err := svc.ListByUser(7, 1, 10)
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 2 || len(mine) != 2 {
		t.Fatalf("expected 2 records for user, got total=%d len=%d", total, len(mine))
	}

	byPaper, total, err := svc.ListByPaper(paper.ID, 1, 10)
	if err != nil {
		t.Fatalf("list by paper failed: %v", err)
	}
	if total != 2 || len(byPaper) != 2 {
		t.Fatalf("expected 2 records for paper, got total=%d len=%d", total, len(byPaper))
	}

	if _, _, err := svc.ListByPaper(99999, 1, 10); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing paper, got %v", err)
	}
}
