package repository

import (
	"context"
	"fmt"
	"time"

	"comichub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type LevelRepo struct {
	db *gorm.DB
}

func NewLevelRepo(db *gorm.DB) *LevelRepo {
	return &LevelRepo{db: db}
}

func (r *LevelRepo) GetAll(ctx context.Context) ([]models.Level, error) {
	var levels []models.Level
	if err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("number ASC").
		Find(&levels).Error; err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	return levels, nil
}

func (r *LevelRepo) GetByID(ctx context.Context, id int64) (*models.Level, error) {
	var l models.Level
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LevelRepo) Create(ctx context.Context, l *models.Level) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("create level: %w", err)
	}
	return nil
}

func (r *LevelRepo) Update(ctx context.Context, l *models.Level) error {
	if err := r.db.WithContext(ctx).Save(l).Error; err != nil {
		return fmt.Errorf("update level: %w", err)
	}
	return nil
}

func (r *LevelRepo) SoftDelete(ctx context.Context, id int64, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Level{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("delete level: %w", err)
	}
	return nil
}
