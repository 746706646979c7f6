package repository

import (
	"context"
	"fmt"
	"time"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChapterRepository interface {
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error)
	ListByComic(ctx context.Context, comicID uuid.UUID, publishedOnly bool) ([]models.Chapter, error)
	Update(ctx context.Context, chapter *models.Chapter) error
	SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error
	NumberExists(ctx context.Context, comicID uuid.UUID, number int) (bool, error)
	FindDueUnpublished(ctx context.Context, now time.Time) ([]models.Chapter, error)
	MarkPublished(ctx context.Context, id uuid.UUID, now time.Time) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type chapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	if err := r.db.WithContext(ctx).Create(chapter).Error; err != nil {
		return fmt.Errorf("create chapter: %w", err)
	}
	return nil
}

func (r *chapterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error) {
	var c models.Chapter
	err := r.db.WithContext(ctx).
		Preload("Comic").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *chapterRepository) ListByComic(ctx context.Context, comicID uuid.UUID, publishedOnly bool) ([]models.Chapter, error) {
	var chapters []models.Chapter
	q := r.db.WithContext(ctx).
		Where("comic_id = ? AND deleted_at IS NULL", comicID)
	if publishedOnly {
		q = q.Where("is_published = true")
	}
	if err := q.Order("number ASC").Find(&chapters).Error; err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return chapters, nil
}

func (r *chapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	if err := r.db.WithContext(ctx).Save(chapter).Error; err != nil {
		return fmt.Errorf("update chapter: %w", err)
	}
	return nil
}

func (r *chapterRepository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Chapter{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}
	return nil
}

// NumberExists reports whether an alive chapter with this number already
// exists for the comic. Chapter numbers are unique among non-deleted chapters.
func (r *chapterRepository) NumberExists(ctx context.Context, comicID uuid.UUID, number int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Chapter{}).
		Where("comic_id = ? AND number = ? AND deleted_at IS NULL", comicID, number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindDueUnpublished returns every alive chapter whose scheduled publish time
// has passed but whose published flag is still false. The comic association is
// preloaded because the fan-out message needs the comic title.
func (r *chapterRepository) FindDueUnpublished(ctx context.Context, now time.Time) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := r.db.WithContext(ctx).
		Preload("Comic").
		Where("is_published = false AND deleted_at IS NULL AND published_at IS NOT NULL AND published_at <= ?", now).
		Find(&chapters).Error
	if err != nil {
		return nil, fmt.Errorf("find due chapters: %w", err)
	}
	return chapters, nil
}

func (r *chapterRepository) MarkPublished(ctx context.Context, id uuid.UUID, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Chapter{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_published": true, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("mark chapter published: %w", err)
	}
	return nil
}

func (r *chapterRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&models.Chapter{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return fmt.Errorf("increment chapter views: %w", err)
	}
	return nil
}
