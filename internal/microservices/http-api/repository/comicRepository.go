package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComicRepo struct {
	db *gorm.DB
}

func NewComicRepo(db *gorm.DB) *ComicRepo {
	return &ComicRepo{db: db}
}

func (r *ComicRepo) GetAll(ctx context.Context, page, pageSize int) ([]models.Comic, int64, error) {
	var list []models.Comic
	var total int64

	if err := r.db.WithContext(ctx).
		Model(&models.Comic{}).
		Where("deleted_at IS NULL").
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := r.db.WithContext(ctx).
		Preload("Genres").
		Where("deleted_at IS NULL").
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *ComicRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Comic, error) {
	var c models.Comic
	if err := r.db.WithContext(ctx).
		Preload("Genres").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ComicRepo) Create(ctx context.Context, c *models.Comic) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create comic: %w", err)
	}
	return nil
}

func (r *ComicRepo) Update(ctx context.Context, c *models.Comic) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("update comic: %w", err)
	}
	return nil
}

func (r *ComicRepo) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Comic{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("delete comic: %w", err)
	}
	return nil
}

// SearchByTitle performs case-insensitive partial match on title and author.
// Splits query into tokens and requires each token to appear in at least one field.
func (r *ComicRepo) SearchByTitle(ctx context.Context, title string) ([]models.Comic, error) {
	var list []models.Comic
	tokens := strings.Fields(title)
	db := r.db.WithContext(ctx)

	if len(tokens) == 0 {
		return list, nil
	}

	clauses := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens)*2)
	for _, t := range tokens {
		p := "%" + t + "%"
		// COALESCE avoids NULL author breaking ILIKE
		clauses = append(clauses, "(title ILIKE ? OR COALESCE(author,'') ILIKE ?)")
		args = append(args, p, p)
	}

	where := "deleted_at IS NULL AND " + strings.Join(clauses, " AND ")
	if err := db.Where(where, args...).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search comics: %w", err)
	}
	return list, nil
}
