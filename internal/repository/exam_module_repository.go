package repository

import (
	"aviation_exam_backend/internal/model"

	"gorm.io/gorm"
)

type ExamModuleRepository struct {
	DB *gorm.DB
}

func NewExamModuleRepository(db *gorm.DB) *ExamModuleRepository {
	return &ExamModuleRepository{DB: db}
}

func (r *ExamModuleRepository) Create(m *model.ExamModule) error {
	return r.DB.Create(m).Error
}

func (r *ExamModuleRepository) FindByID(id uint) (*model.ExamModule, error) {
	var m model.ExamModule
	err := r.DB.First(&m, id).Error
	return &m, err
}

// ListByPaper 按展示顺序返回试卷模块；activeOnly 时排除停用模块（考试端视图）
func (r *ExamModuleRepository) ListByPaper(paperID uint, activeOnly bool) ([]model.ExamModule, error) {
	var modules []model.ExamModule
	query := r.DB.Where("exam_paper_id = ?", paperID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("display_order asc, id asc").Find(&modules).Error
	return modules, err
}

func (r *ExamModuleRepository) Update(m *model.ExamModule) error {
	return r.DB.Save(m).Error
}

func (r *ExamModuleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ExamModule{}, id).Error
}
