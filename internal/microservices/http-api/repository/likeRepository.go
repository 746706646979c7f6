package repository

import (
	"context"
	"errors"
	"fmt"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateLike signals the (comic, user) pair already exists. Surfaced
// from the primary key so a concurrent double-like loses cleanly.
var ErrDuplicateLike = errors.New("like already exists")

type LikeRepository interface {
	Add(ctx context.Context, comicID, userID uuid.UUID) error
	Remove(ctx context.Context, comicID, userID uuid.UUID) error
	Exists(ctx context.Context, comicID, userID uuid.UUID) (bool, error)
	CountForComic(ctx context.Context, comicID uuid.UUID) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Add(ctx context.Context, comicID, userID uuid.UUID) error {
	like := &models.Like{
		ComicID: comicID,
		UserID:  userID,
	}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateLike
		}
		return fmt.Errorf("add like: %w", err)
	}
	return nil
}

func (r *likeRepository) Remove(ctx context.Context, comicID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("comic_id = ? AND user_id = ?", comicID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return fmt.Errorf("remove like: %w", result.Error)
	}
	return nil
}

func (r *likeRepository) Exists(ctx context.Context, comicID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("comic_id = ? AND user_id = ?", comicID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) CountForComic(ctx context.Context, comicID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("comic_id = ?", comicID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}
