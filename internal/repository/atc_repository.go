package repository

import (
	"aviation_exam_backend/internal/model"

	"gorm.io/gorm"
)

type AtcRepository struct {
	DB *gorm.DB
}

func NewAtcRepository(db *gorm.DB) *AtcRepository {
	return &AtcRepository{DB: db}
}

func (r *AtcRepository) CreateScenario(s *model.AtcScenario) error {
	return r.DB.Create(s).Error
}

func (r *AtcRepository) FindScenarioByID(id uint) (*model.AtcScenario, error) {
	var s model.AtcScenario
	err := r.DB.Preload("Turns", func(db *gorm.DB) *gorm.DB {
		return db.Order("turn_number asc, id asc")
	}).First(&s, id).Error
	return &s, err
}

func (r *AtcRepository) ListScenariosByModule(moduleID uint) ([]model.AtcScenario, error) {
	var ss []model.AtcScenario
	err := r.DB.Preload("Turns", func(db *gorm.DB) *gorm.DB {
		return db.Order("turn_number asc, id asc")
	}).Where("exam_module_id = ?", moduleID).
		Order("display_order asc, id asc").Find(&ss).Error
	return ss, err
}

func (r *AtcRepository) UpdateScenario(s *model.AtcScenario) error {
	return r.DB.Save(s).Error
}

func (r *AtcRepository) DeleteScenario(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scenario_id = ?", id).Delete(&model.AtcTurn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.AtcScenario{}, id).Error
	})
}

func (r *AtcRepository) CreateTurn(t *model.AtcTurn) error {
	return r.DB.Create(t).Error
}

func (r *AtcRepository) FindTurnByID(id uint) (*model.AtcTurn, error) {
	var t model.AtcTurn
	err := r.DB.First(&t, id).Error
	return &t, err
}

func (r *AtcRepository) UpdateTurn(t *model.AtcTurn) error {
	return r.DB.Save(t).Error
}

func (r *AtcRepository) DeleteTurn(id uint) error {
	return r.DB.Delete(&model.AtcTurn{}, id).Error
}

func (r *AtcRepository) CreateResponse(resp *model.AtcTurnResponse) error {
	return r.DB.Create(resp).Error
}

func (r *AtcRepository) FindResponseByID(id uint) (*model.AtcTurnResponse, error) {
	var resp model.AtcTurnResponse
	err := r.DB.First(&resp, id).Error
	return &resp, err
}

func (r *AtcRepository) ListResponsesByTurn(turnID uint) ([]model.AtcTurnResponse, error) {
	var resps []model.AtcTurnResponse
	err := r.DB.Where("turn_id = ?", turnID).Order("answered_at asc").Find(&resps).Error
	return resps, err
}

func (r *AtcRepository) UpdateResponse(resp *model.AtcTurnResponse) error {
	return r.DB.Save(resp).Error
}
