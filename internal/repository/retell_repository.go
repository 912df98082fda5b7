package repository

import (
	"aviation_exam_backend/internal/model"

	"gorm.io/gorm"
)

type RetellRepository struct {
	DB *gorm.DB
}

func NewRetellRepository(db *gorm.DB) *RetellRepository {
	return &RetellRepository{DB: db}
}

func (r *RetellRepository) CreateItem(item *model.RetellItem) error {
	return r.DB.Create(item).Error
}

func (r *RetellRepository) FindItemByID(id uint) (*model.RetellItem, error) {
	var item model.RetellItem
	err := r.DB.First(&item, id).Error
	return &item, err
}

func (r *RetellRepository) ListItemsByModule(moduleID uint) ([]model.RetellItem, error) {
	var items []model.RetellItem
	err := r.DB.Where("exam_module_id = ?", moduleID).
		Order("display_order asc, id asc").Find(&items).Error
	return items, err
}

func (r *RetellRepository) UpdateItem(item *model.RetellItem) error {
	return r.DB.Save(item).Error
}

func (r *RetellRepository) DeleteItem(id uint) error {
	return r.DB.Delete(&model.RetellItem{}, id).Error
}

func (r *RetellRepository) CreateResponse(resp *model.RetellResponse) error {
	return r.DB.Create(resp).Error
}

func (r *RetellRepository) FindResponseByID(id uint) (*model.RetellResponse, error) {
	var resp model.RetellResponse
	err := r.DB.First(&resp, id).Error
	return &resp, err
}

func (r *RetellRepository) ListResponsesByItem(itemID uint) ([]model.RetellResponse, error) {
	var resps []model.RetellResponse
	err := r.DB.Where("item_id = ?", itemID).Order("answered_at asc").Find(&resps).Error
	return resps, err
}

func (r *RetellRepository) UpdateResponse(resp *model.RetellResponse) error {
	return r.DB.Save(resp).Error
}
