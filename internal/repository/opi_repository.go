package repository

import (
	"aviation_exam_backend/internal/model"

	"gorm.io/gorm"
)

type OpiRepository struct {
	DB *gorm.DB
}

func NewOpiRepository(db *gorm.DB) *OpiRepository {
	return &OpiRepository{DB: db}
}

func (r *OpiRepository) CreateTopic(t *model.OpiTopic) error {
	return r.DB.Create(t).Error
}

func (r *OpiRepository) FindTopicByID(id uint) (*model.OpiTopic, error) {
	var t model.OpiTopic
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("q_order asc, id asc")
	}).First(&t, id).Error
	return &t, err
}

func (r *OpiRepository) ListTopicsByModule(moduleID uint) ([]model.OpiTopic, error) {
	var ts []model.OpiTopic
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("q_order asc, id asc")
	}).Where("exam_module_id = ?", moduleID).
		Order("display_order asc, id asc").Find(&ts).Error
	return ts, err
}

func (r *OpiRepository) UpdateTopic(t *model.OpiTopic) error {
	return r.DB.Save(t).Error
}

func (r *OpiRepository) DeleteTopic(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", id).Delete(&model.OpiQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.OpiTopic{}, id).Error
	})
}

func (r *OpiRepository) CreateQuestion(q *model.OpiQuestion) error {
	return r.DB.Create(q).Error
}

func (r *OpiRepository) FindQuestionByID(id uint) (*model.OpiQuestion, error) {
	var q model.OpiQuestion
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *OpiRepository) UpdateQuestion(q *model.OpiQuestion) error {
	return r.DB.Save(q).Error
}

func (r *OpiRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.OpiQuestion{}, id).Error
}

// CreateResponse 写入面试作答；question_id 唯一索引兜底并发下的重复提交
func (r *OpiRepository) CreateResponse(resp *model.OpiResponse) error {
	return r.DB.Create(resp).Error
}

func (r *OpiRepository) FindResponseByID(id uint) (*model.OpiResponse, error) {
	var resp model.OpiResponse
	err := r.DB.First(&resp, id).Error
	return &resp, err
}

// FindResponseByQuestion 每题至多一条作答
func (r *OpiRepository) FindResponseByQuestion(questionID uint) (*model.OpiResponse, error) {
	var resp model.OpiResponse
	err := r.DB.Where("question_id = ?", questionID).First(&resp).Error
	return &resp, err
}

func (r *OpiRepository) UpdateResponse(resp *model.OpiResponse) error {
	return r.DB.Save(resp).Error
}
