package repository

import (
	"aviation_exam_backend/internal/model"

	"gorm.io/gorm"
)

type MediaRepository struct {
	DB *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{DB: db}
}

func (r *MediaRepository) Create(asset *model.MediaAsset) error {
	return r.DB.Create(asset).Error
}

func (r *MediaRepository) FindByID(id uint) (*model.MediaAsset, error) {
	var a model.MediaAsset
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *MediaRepository) List(kind model.MediaAssetKind, page, limit int) ([]model.MediaAsset, int64, error) {
	var assets []model.MediaAsset
	var total int64
	query := r.DB.Model(&model.MediaAsset{})
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&assets).Error
	return assets, total, err
}

func (r *MediaRepository) Delete(id uint) error {
	return r.DB.Delete(&model.MediaAsset{}, id).Error
}
