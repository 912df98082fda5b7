package repository

import (
	"aviation_exam_backend/internal/model"

	"gorm.io/gorm"
)

type McqRepository struct {
	DB *gorm.DB
}

func NewMcqRepository(db *gorm.DB) *McqRepository {
	return &McqRepository{DB: db}
}

func (r *McqRepository) CreateQuestion(q *model.McqQuestion) error {
	return r.DB.Create(q).Error
}

func (r *McqRepository) FindQuestionByID(id uint) (*model.McqQuestion, error) {
	var q model.McqQuestion
	err := r.DB.Preload("Choices").First(&q, id).Error
	return &q, err
}

func (r *McqRepository) ListQuestionsByModule(moduleID uint) ([]model.McqQuestion, error) {
	var qs []model.McqQuestion
	err := r.DB.Preload("Choices").Where("exam_module_id = ?", moduleID).
		Order("display_order asc, id asc").Find(&qs).Error
	return qs, err
}

func (r *McqRepository) UpdateQuestion(q *model.McqQuestion) error {
	return r.DB.Save(q).Error
}

func (r *McqRepository) DeleteQuestion(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.McqChoice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.McqQuestion{}, id).Error
	})
}

func (r *McqRepository) CreateChoice(c *model.McqChoice) error {
	return r.DB.Create(c).Error
}

func (r *McqRepository) FindChoiceByID(id uint) (*model.McqChoice, error) {
	var c model.McqChoice
	err := r.DB.First(&c, id).Error
	return &c, err
}

func (r *McqRepository) UpdateChoice(c *model.McqChoice) error {
	return r.DB.Save(c).Error
}

func (r *McqRepository) DeleteChoice(id uint) error {
	return r.DB.Delete(&model.McqChoice{}, id).Error
}

// FindCorrectChoice 返回当前标志位为正确的选项，没有则 gorm.ErrRecordNotFound
func (r *McqRepository) FindCorrectChoice(questionID uint) (*model.McqChoice, error) {
	var c model.McqChoice
	err := r.DB.Where("question_id = ? AND is_correct = ?", questionID, true).First(&c).Error
	return &c, err
}

// SetCorrectChoice 把正确标志原子地挪到指定选项上，保证每题只有一个
func (r *McqRepository) SetCorrectChoice(questionID, choiceID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.McqChoice{}).
			Where("question_id = ?", questionID).
			Update("is_correct", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.McqChoice{}).
			Where("id = ? AND question_id = ?", choiceID, questionID).
			Update("is_correct", true).Error
	})
}

func (r *McqRepository) CreateResponse(resp *model.McqResponse) error {
	return r.DB.Create(resp).Error
}

func (r *McqRepository) FindResponseByID(id uint) (*model.McqResponse, error) {
	var resp model.McqResponse
	err := r.DB.First(&resp, id).Error
	return &resp, err
}

func (r *McqRepository) ListResponsesByQuestion(questionID uint) ([]model.McqResponse, error) {
	var resps []model.McqResponse
	err := r.DB.Where("question_id = ?", questionID).Order("answered_at asc").Find(&resps).Error
	return resps, err
}

func (r *McqRepository) UpdateResponse(resp *model.McqResponse) error {
	return r.DB.Save(resp).Error
}
