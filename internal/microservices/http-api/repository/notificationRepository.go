package repository

import (
	"context"
	"fmt"
	"time"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationScope is the visibility boundary of notification reads/writes:
// a specific user, or the admin broadcast rows (user_id IS NULL).
// Handlers build the scope from explicit caller identity, never from globals.
type NotificationScope struct {
	UserID *uuid.UUID
}

func UserScope(userID uuid.UUID) NotificationScope {
	return NotificationScope{UserID: &userID}
}

func AdminScope() NotificationScope {
	return NotificationScope{}
}

func (s NotificationScope) IsAdmin() bool {
	return s.UserID == nil
}

// apply adds the scope predicate to a query. Soft-deleted rows are excluded
// explicitly in every query rather than through a gorm scope.
func (s NotificationScope) apply(db *gorm.DB) *gorm.DB {
	if s.UserID == nil {
		return db.Where("user_id IS NULL")
	}
	return db.Where("user_id = ?", *s.UserID)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateMany(ctx context.Context, notifications []*models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID, scope NotificationScope) (*models.Notification, error)
	ListVisible(ctx context.Context, scope NotificationScope, page, pageSize int) ([]models.Notification, int64, error)
	ListUnread(ctx context.Context, scope NotificationScope) ([]models.Notification, error)
	CountUnread(ctx context.Context, scope NotificationScope) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID, now time.Time) error
	MarkAllRead(ctx context.Context, scope NotificationScope, now time.Time) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error
	SoftDeleteAll(ctx context.Context, scope NotificationScope, now time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) CreateMany(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(notifications).Error; err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}
	return nil
}

// GetByID fetches a single alive notification inside the given scope.
// A row outside the scope is indistinguishable from a missing one.
func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID, scope NotificationScope) (*models.Notification, error) {
	var n models.Notification
	err := scope.apply(r.db.WithContext(ctx)).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListVisible(ctx context.Context, scope NotificationScope, page, pageSize int) ([]models.Notification, int64, error) {
	var total int64
	base := scope.apply(r.db.WithContext(ctx).Model(&models.Notification{})).
		Where("deleted_at IS NULL")

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	var notifications []models.Notification
	offset := (page - 1) * pageSize
	err := scope.apply(r.db.WithContext(ctx)).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, total, nil
}

func (r *notificationRepository) ListUnread(ctx context.Context, scope NotificationScope) ([]models.Notification, error) {
	var notifications []models.Notification
	err := scope.apply(r.db.WithContext(ctx)).
		Where("deleted_at IS NULL AND is_read = false").
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread is always computed fresh from the store so callers see the
// latest committed state even if a live push was missed.
func (r *notificationRepository) CountUnread(ctx context.Context, scope NotificationScope) (int64, error) {
	var count int64
	err := scope.apply(r.db.WithContext(ctx).Model(&models.Notification{})).
		Where("deleted_at IS NULL AND is_read = false").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"is_read": true, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, scope NotificationScope, now time.Time) (int64, error) {
	result := scope.apply(r.db.WithContext(ctx).Model(&models.Notification{})).
		Where("deleted_at IS NULL AND is_read = false").
		Updates(map[string]interface{}{"is_read": true, "updated_at": now})
	if result.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("dismiss notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) SoftDeleteAll(ctx context.Context, scope NotificationScope, now time.Time) (int64, error) {
	result := scope.apply(r.db.WithContext(ctx).Model(&models.Notification{})).
		Where("deleted_at IS NULL").
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now})
	if result.Error != nil {
		return 0, fmt.Errorf("clear notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}
