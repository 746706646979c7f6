package repository

import (
	"context"
	"fmt"
	"time"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdvertisementRepo struct {
	db *gorm.DB
}

func NewAdvertisementRepo(db *gorm.DB) *AdvertisementRepo {
	return &AdvertisementRepo{db: db}
}

func (r *AdvertisementRepo) GetAll(ctx context.Context) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	if err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Find(&ads).Error; err != nil {
		return nil, fmt.Errorf("list advertisements: %w", err)
	}
	return ads, nil
}

func (r *AdvertisementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Advertisement, error) {
	var a models.Advertisement
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdvertisementRepo) Create(ctx context.Context, a *models.Advertisement) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create advertisement: %w", err)
	}
	return nil
}

func (r *AdvertisementRepo) Update(ctx context.Context, a *models.Advertisement) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("update advertisement: %w", err)
	}
	return nil
}

func (r *AdvertisementRepo) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Advertisement{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("delete advertisement: %w", err)
	}
	return nil
}
