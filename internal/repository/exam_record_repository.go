package repository

import (
	"aviation_exam_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRecordRepository struct {
	DB *gorm.DB
}

func NewExamRecordRepository(db *gorm.DB) *ExamRecordRepository {
	return &ExamRecordRepository{DB: db}
}

func (r *ExamRecordRepository) Create(record *model.ExamRecord) error {
	return r.DB.Create(record).Error
}

func (r *ExamRecordRepository) FindByID(id uint) (*model.ExamRecord, error) {
	var rec model.ExamRecord
	err := r.DB.First(&rec, id).Error
	return &rec, err
}

func (r *ExamRecordRepository) Update(record *model.ExamRecord) error {
	return r.DB.Save(record).Error
}

func (r *ExamRecordRepository) ListByUser(userID uint, page, limit int) ([]model.ExamRecord, int64, error) {
	var recs []model.ExamRecord
	var total int64
	query := r.DB.Model(&model.ExamRecord{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&recs).Error
	return recs, total, err
}

func (r *ExamRecordRepository) ListByPaper(paperID uint, page, limit int) ([]model.ExamRecord, int64, error) {
	var recs []model.ExamRecord
	var total int64
	query := r.DB.Model(&model.ExamRecord{}).Where("exam_paper_id = ?", paperID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&recs).Error
	return recs, total, err
}
