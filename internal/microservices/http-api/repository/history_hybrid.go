package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// HybridHistoryRepo combines Redis and PostgreSQL for read-history tracking.
// Redis: fast cache for the reader UI. PostgreSQL: durable record.
// Writes go to Redis immediately and are queued for async PostgreSQL writes;
// when the queue is full the write falls back to a direct synchronous save.
type HybridHistoryRepo struct {
	redis     *HistoryRedisRepo
	postgres  *HistoryPostgresRepo
	writeChan chan *HistoryEntry
	stopChan  chan struct{}
	logger    *slog.Logger
	closed    atomic.Bool
}

func NewHybridHistoryRepo(redisRepo *HistoryRedisRepo, postgresRepo *HistoryPostgresRepo) *HybridHistoryRepo {
	r := &HybridHistoryRepo{
		redis:     redisRepo,
		postgres:  postgresRepo,
		writeChan: make(chan *HistoryEntry, 4096),
		stopChan:  make(chan struct{}),
		logger:    slog.Default(),
	}
	go r.writer()
	return r
}

func (r *HybridHistoryRepo) Save(ctx context.Context, entry *HistoryEntry) error {
	if r.closed.Load() {
		return fmt.Errorf("repository is closed")
	}
	if entry.ReadAt.IsZero() {
		entry.ReadAt = time.Now()
	}

	if err := r.redis.Save(ctx, entry); err != nil {
		// Cache write failures are not fatal, postgres still gets the row.
		r.logger.Warn("redis_history_save_failed",
			"user_id", entry.UserID,
			"comic_id", entry.ComicID,
			"error", err,
		)
	}

	select {
	case r.writeChan <- entry:
	default:
		// Queue full - direct write with a short timeout instead of blocking
		r.logger.Warn("history_write_queue_full, attempting direct postgres write",
			"user_id", entry.UserID,
		)
		directCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		if err := r.postgres.Save(directCtx, entry); err != nil {
			return fmt.Errorf("postgres direct write failed: %w", err)
		}
	}
	return nil
}

// Get tries Redis first and falls back to PostgreSQL on a miss.
func (r *HybridHistoryRepo) Get(ctx context.Context, userID, comicID uuid.UUID) (*HistoryEntry, error) {
	entry, err := r.redis.Get(ctx, userID, comicID)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, redis.Nil) {
		r.logger.Warn("redis_history_get_failed", "user_id", userID, "error", err)
	}

	entry, err = r.postgres.Get(ctx, userID, comicID)
	if err != nil {
		return nil, err
	}
	// repopulate the cache, best effort
	if cacheErr := r.redis.Save(ctx, entry); cacheErr != nil {
		r.logger.Warn("redis_history_backfill_failed", "user_id", userID, "error", cacheErr)
	}
	return entry, nil
}

func (r *HybridHistoryRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.ReadHistory, error) {
	return r.postgres.ListForUser(ctx, userID)
}

// writer drains the queue into PostgreSQL.
func (r *HybridHistoryRepo) writer() {
	for {
		select {
		case entry := <-r.writeChan:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := r.postgres.Save(ctx, entry); err != nil {
				r.logger.Error("postgres_history_save_failed",
					"user_id", entry.UserID,
					"comic_id", entry.ComicID,
					"error", err,
				)
			}
			cancel()
		case <-r.stopChan:
			// drain what is left before exiting
			for {
				select {
				case entry := <-r.writeChan:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					if err := r.postgres.Save(ctx, entry); err != nil {
						r.logger.Error("postgres_history_save_failed", "error", err)
					}
					cancel()
				default:
					return
				}
			}
		}
	}
}

// Close stops the background writer after draining pending entries.
func (r *HybridHistoryRepo) Close() {
	if r.closed.CompareAndSwap(false, true) {
		close(r.stopChan)
	}
}
