package repository

import (
	"aviation_exam_backend/internal/model"

	"gorm.io/gorm"
)

type LsaRepository struct {
	DB *gorm.DB
}

func NewLsaRepository(db *gorm.DB) *LsaRepository {
	return &LsaRepository{DB: db}
}

func (r *LsaRepository) CreateDialog(d *model.LsaDialog) error {
	return r.DB.Create(d).Error
}

func (r *LsaRepository) FindDialogByID(id uint) (*model.LsaDialog, error) {
	var d model.LsaDialog
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("q_order asc, id asc")
	}).First(&d, id).Error
	return &d, err
}

func (r *LsaRepository) ListDialogsByModule(moduleID uint) ([]model.LsaDialog, error) {
	var ds []model.LsaDialog
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("q_order asc, id asc")
	}).Where("exam_module_id = ?", moduleID).
		Order("display_order asc, id asc").Find(&ds).Error
	return ds, err
}

func (r *LsaRepository) UpdateDialog(d *model.LsaDialog) error {
	return r.DB.Save(d).Error
}

func (r *LsaRepository) DeleteDialog(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dialog_id = ?", id).Delete(&model.LsaQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.LsaDialog{}, id).Error
	})
}

func (r *LsaRepository) CreateQuestion(q *model.LsaQuestion) error {
	return r.DB.Create(q).Error
}

func (r *LsaRepository) FindQuestionByID(id uint) (*model.LsaQuestion, error) {
	var q model.LsaQuestion
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *LsaRepository) UpdateQuestion(q *model.LsaQuestion) error {
	return r.DB.Save(q).Error
}

func (r *LsaRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.LsaQuestion{}, id).Error
}

func (r *LsaRepository) CreateResponse(resp *model.LsaResponse) error {
	return r.DB.Create(resp).Error
}

func (r *LsaRepository) FindResponseByID(id uint) (*model.LsaResponse, error) {
	var resp model.LsaResponse
	err := r.DB.First(&resp, id).Error
	return &resp, err
}

func (r *LsaRepository) ListResponsesByQuestion(questionID uint) ([]model.LsaResponse, error) {
	var resps []model.LsaResponse
	err := r.DB.Where("question_id = ?", questionID).Order("answered_at asc").Find(&resps).Error
	return resps, err
}

func (r *LsaRepository) UpdateResponse(resp *model.LsaResponse) error {
	return r.DB.Save(resp).Error
}
