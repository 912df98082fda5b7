package repository

import (
	"aviation_exam_backend/internal/model"

	"gorm.io/gorm"
)

type ExamPaperRepository struct {
	DB *gorm.DB
}

func NewExamPaperRepository(db *gorm.DB) *ExamPaperRepository {
	return &ExamPaperRepository{DB: db}
}

func (r *ExamPaperRepository) Create(paper *model.ExamPaper) error {
	return r.DB.Create(paper).Error
}

func (r *ExamPaperRepository) FindByID(id uint) (*model.ExamPaper, error) {
	var p model.ExamPaper
	err := r.DB.First(&p, id).Error
	return &p, err
}

func (r *ExamPaperRepository) FindByCode(code string) (*model.ExamPaper, error) {
	var p model.ExamPaper
	err := r.DB.Where("code = ?", code).First(&p).Error
	return &p, err
}

func (r *ExamPaperRepository) List(page, limit int, keyword string) ([]model.ExamPaper, int64, error) {
	var papers []model.ExamPaper
	var total int64
	query := r.DB.Model(&model.ExamPaper{})
	if keyword != "" {
		query = query.Where("code LIKE ? OR name LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&papers).Error
	return papers, total, err
}

func (r *ExamPaperRepository) Update(paper *model.ExamPaper) error {
	return r.DB.Save(paper).Error
}

func (r *ExamPaperRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ExamPaper{}, id).Error
}

// CountModules 试卷下的模块数，删除前校验引用
func (r *ExamPaperRepository) CountModules(paperID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ExamModule{}).Where("exam_paper_id = ?", paperID).Count(&count).Error
	return count, err
}

// CountRecords 试卷下的考试记录数
func (r *ExamPaperRepository) CountRecords(paperID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ExamRecord{}).Where("exam_paper_id = ?", paperID).Count(&count).Error
	return count, err
}
