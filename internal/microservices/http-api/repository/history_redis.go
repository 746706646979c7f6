package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// HistoryEntry is the cache-side shape of a last-read record.
type HistoryEntry struct {
	UserID    uuid.UUID `json:"user_id"`
	ComicID   uuid.UUID `json:"comic_id"`
	ChapterID uuid.UUID `json:"chapter_id"`
	ReadAt    time.Time `json:"read_at"`
}

// HistoryRedisRepo keeps the hot copy of read history in Redis. A nil repo is
// valid and turns every operation into a no-op so the API can run without Redis.
type HistoryRedisRepo struct {
	client *redis.Client
}

func NewHistoryRedisRepo(redisAddr, password string) (*HistoryRedisRepo, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &HistoryRedisRepo{client: rdb}, nil
}

func historyKey(userID, comicID uuid.UUID) string {
	return fmt.Sprintf("history:user:%s:comic:%s", userID, comicID)
}

// Save upserts the entry hash and refreshes its expiry.
func (r *HistoryRedisRepo) Save(ctx context.Context, entry *HistoryEntry) error {
	if r == nil || r.client == nil {
		return nil
	}
	key := historyKey(entry.UserID, entry.ComicID)

	fields := map[string]any{
		"user_id":    entry.UserID.String(),
		"comic_id":   entry.ComicID.String(),
		"chapter_id": entry.ChapterID.String(),
		"read_at":    entry.ReadAt.Format(time.RFC3339Nano),
	}

	if err := r.client.HSet(ctx, key, fields).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, 90*24*time.Hour).Err()
}

func (r *HistoryRedisRepo) Get(ctx context.Context, userID, comicID uuid.UUID) (*HistoryEntry, error) {
	if r == nil || r.client == nil {
		return nil, redis.Nil
	}
	key := historyKey(userID, comicID)

	values, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, redis.Nil
	}

	chapterID, err := uuid.Parse(values["chapter_id"])
	if err != nil {
		return nil, fmt.Errorf("corrupt history entry %s: %w", key, err)
	}
	readAt, err := time.Parse(time.RFC3339Nano, values["read_at"])
	if err != nil {
		return nil, fmt.Errorf("corrupt history entry %s: %w", key, err)
	}

	return &HistoryEntry{
		UserID:    userID,
		ComicID:   comicID,
		ChapterID: chapterID,
		ReadAt:    readAt,
	}, nil
}

func (r *HistoryRedisRepo) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
