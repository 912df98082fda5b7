package service

import (
	"time"

	"gorm.io/gorm"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/repository"
	"aviation_exam_backend/internal/util"
)

// ExamRecordService 考试记录生命周期：创建 → 开始 → 结束（终态）
type ExamRecordService struct {
	RecordRepo *repository.ExamRecordRepository
	PaperRepo  *repository.ExamPaperRepository
	DB         *gorm.DB
}

func NewExamRecordService(recordRepo *repository.ExamRecordRepository, paperRepo *repository.ExamPaperRepository, db *gorm.DB) *ExamRecordService {
	return &ExamRecordService{RecordRepo: recordRepo, PaperRepo: paperRepo, DB: db}
}

// CreateRecord 为用户在某份试卷上开一次考试尝试，此时尚未开始计时
func (s *ExamRecordService) CreateRecord(userID, examPaperID uint) (*model.ExamRecord, error) {
	if examPaperID == 0 {
		return nil, util.ValidationErrorf("examPaperId required")
	}
	if _, err := s.PaperRepo.FindByID(examPaperID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	record := &model.ExamRecord{
		ExamPaperID: examPaperID,
		UserID:      userID,
	}
	if err := s.RecordRepo.Create(record); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return record, nil
}

func (s *ExamRecordService) GetRecord(id uint) (*model.ExamRecord, error) {
	record, err := s.RecordRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return record, nil
}

// StartRecord 落开始时间。已结束的记录不可重新开始，重复开始不刷新时间戳。
func (s *ExamRecordService) StartRecord(id uint) (*model.ExamRecord, error) {
	record, err := s.RecordRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if record.IsFinished {
		return nil, util.Conflictf("exam record %d is already finished", id)
	}
	if record.StartedAt != nil {
		return record, nil
	}
	now := time.Now()
	record.StartedAt = &now
	if err := s.RecordRepo.Update(record); err != nil {
		return nil, err
	}
	return record, nil
}

// FinishRecord 置终态。未开始的记录不能直接结束，结束后幂等返回。
func (s *ExamRecordService) FinishRecord(id uint) (*model.ExamRecord, error) {
	record, err := s.RecordRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if record.IsFinished {
		return record, nil
	}
	if record.StartedAt == nil {
		return nil, util.ValidationErrorf("exam record %d has not been started", id)
	}
	record.IsFinished = true
	if err := s.RecordRepo.Update(record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateRecordStatus 管理员改写结束标志，两个方向都可以：
// 强制结束跳过未开始校验并补落开始时间，强制重开撤销终态让考生继续作答。
func (s *ExamRecordService) UpdateRecordStatus(id uint, isFinished bool) (*model.ExamRecord, error) {
	record, err := s.RecordRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if record.IsFinished == isFinished {
		return record, nil
	}
	if isFinished && record.StartedAt == nil {
		now := time.Now()
		record.StartedAt = &now
	}
	record.IsFinished = isFinished
	if err := s.RecordRepo.Update(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *ExamRecordService) ListByUser(userID uint, page, limit int) ([]model.ExamRecord, int64, error) {
	return s.RecordRepo.ListByUser(userID, page, limit)
}

func (s *ExamRecordService) ListByPaper(paperID uint, page, limit int) ([]model.ExamRecord, int64, error) {
	if _, err := s.PaperRepo.FindByID(paperID); err != nil {
		return nil, 0, util.TranslateDBError(err)
	}
	return s.RecordRepo.ListByPaper(paperID, page, limit)
}
