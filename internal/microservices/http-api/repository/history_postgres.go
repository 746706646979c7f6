package repository

import (
	"context"
	"fmt"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryPostgresRepo is the durable side of read-history tracking.
type HistoryPostgresRepo struct {
	db *gorm.DB
}

func NewHistoryPostgresRepo(db *gorm.DB) *HistoryPostgresRepo {
	return &HistoryPostgresRepo{db: db}
}

// Save upserts on the (user_id, comic_id) unique index.
func (r *HistoryPostgresRepo) Save(ctx context.Context, entry *HistoryEntry) error {
	record := &models.ReadHistory{
		UserID:    entry.UserID,
		ComicID:   entry.ComicID,
		ChapterID: entry.ChapterID,
		ReadAt:    entry.ReadAt,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "comic_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"chapter_id", "read_at"}),
		}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("save read history: %w", err)
	}
	return nil
}

func (r *HistoryPostgresRepo) Get(ctx context.Context, userID, comicID uuid.UUID) (*HistoryEntry, error) {
	var record models.ReadHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND comic_id = ?", userID, comicID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &HistoryEntry{
		UserID:    record.UserID,
		ComicID:   record.ComicID,
		ChapterID: record.ChapterID,
		ReadAt:    record.ReadAt,
	}, nil
}

// ListForUser returns the durable history with comic and chapter preloaded,
// most recently read first.
func (r *HistoryPostgresRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.ReadHistory, error) {
	var records []models.ReadHistory
	err := r.db.WithContext(ctx).
		Preload("Comic").
		Preload("Chapter").
		Where("user_id = ?", userID).
		Order("read_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list read history: %w", err)
	}
	return records, nil
}
