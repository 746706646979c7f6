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

// ErrDuplicateFollow signals the (comic, user) pair already exists. Surfaced
// from the primary key so a concurrent double-follow loses cleanly.
var ErrDuplicateFollow = errors.New("follow already exists")

type FollowRepository interface {
	Add(ctx context.Context, comicID, userID uuid.UUID) error
	Remove(ctx context.Context, comicID, userID uuid.UUID) error
	Exists(ctx context.Context, comicID, userID uuid.UUID) (bool, error)
	FollowersOf(ctx context.Context, comicID uuid.UUID) ([]uuid.UUID, error)
	CountForComic(ctx context.Context, comicID uuid.UUID) (int64, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Add(ctx context.Context, comicID, userID uuid.UUID) error {
	follow := &models.Follow{
		ComicID: comicID,
		UserID:  userID,
	}
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateFollow
		}
		return fmt.Errorf("add follow: %w", err)
	}
	return nil
}

func (r *followRepository) Remove(ctx context.Context, comicID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("comic_id = ? AND user_id = ?", comicID, userID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return fmt.Errorf("remove follow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("comic not followed")
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, comicID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("comic_id = ? AND user_id = ?", comicID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowersOf returns the user ids following a comic. Uses Pluck so only the
// id column crosses the wire; large follower sets stay cheap to load.
func (r *followRepository) FollowersOf(ctx context.Context, comicID uuid.UUID) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("comic_id = ?", comicID).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return userIDs, nil
}

func (r *followRepository) CountForComic(ctx context.Context, comicID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("comic_id = ?", comicID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return count, nil
}

func (r *followRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.WithContext(ctx).
		Preload("Comic").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&follows).Error
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	return follows, nil
}
