package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"comichub/internal/microservices/http-api/dto"
	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/repository"
	"comichub/internal/microservices/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const notAccessibleMessage = "Notification not found or not accessible."

// NotificationService owns the read/unread/dismiss state machine.
// Every operation takes an explicit scope built by the handler from the
// caller's identity; nothing here reads ambient request state. After each
// mutation the fresh unread count is pushed to the caller's own channel -
// the count is always recomputed from the store, never cached.
type NotificationService interface {
	List(ctx context.Context, scope repository.NotificationScope, page, pageSize int) ([]models.Notification, int64, int64, error)
	UnreadCount(ctx context.Context, scope repository.NotificationScope) (int64, error)
	MarkAsRead(ctx context.Context, scope repository.NotificationScope, id uuid.UUID) (*dto.NotificationActionResult, error)
	MarkAllAsRead(ctx context.Context, scope repository.NotificationScope) (*dto.NotificationActionResult, error)
	Dismiss(ctx context.Context, scope repository.NotificationScope, id uuid.UUID) (*dto.NotificationActionResult, error)
	ClearAll(ctx context.Context, scope repository.NotificationScope) (*dto.NotificationActionResult, error)
	NotifyAdmins(ctx context.Context, title, message, notifType, icon, link string) error
}

type notificationService struct {
	repo   repository.NotificationRepository
	pusher websocket.Pusher
	now    func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, pusher websocket.Pusher) NotificationService {
	return &notificationService{
		repo:   repo,
		pusher: pusher,
		now:    time.Now,
	}
}

// push sends to whichever channel the scope addresses: the user's own group
// or the admins group. Push is a void side effect of the committed write.
func (s *notificationService) push(scope repository.NotificationScope, event string, payload any) {
	if scope.IsAdmin() {
		s.pusher.PushToAdmins(event, payload)
		return
	}
	s.pusher.PushToUser(*scope.UserID, event, payload)
}

func (s *notificationService) List(ctx context.Context, scope repository.NotificationScope, page, pageSize int) ([]models.Notification, int64, int64, error) {
	notifications, total, err := s.repo.ListVisible(ctx, scope, page, pageSize)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, scope)
	if err != nil {
		return nil, 0, 0, err
	}
	return notifications, total, unread, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, scope repository.NotificationScope) (int64, error) {
	return s.repo.CountUnread(ctx, scope)
}

func (s *notificationService) MarkAsRead(ctx context.Context, scope repository.NotificationScope, id uuid.UUID) (*dto.NotificationActionResult, error) {
	notification, err := s.repo.GetByID(ctx, id, scope)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.NotificationActionResult{Success: false, Message: notAccessibleMessage}, nil
		}
		return nil, err
	}

	if notification.IsRead {
		// idempotent: no write, no UpdatedAt bump, no pushes
		return &dto.NotificationActionResult{Success: true, Message: "Notification already marked as read."}, nil
	}

	if err := s.repo.MarkRead(ctx, id, s.now()); err != nil {
		return nil, err
	}

	count, err := s.repo.CountUnread(ctx, scope)
	if err != nil {
		return nil, err
	}
	s.push(scope, websocket.EventUpdateUnreadCount, count)
	s.push(scope, websocket.EventMarkNotificationAsRead, id.String())

	return &dto.NotificationActionResult{Success: true, UnreadCount: &count}, nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, scope repository.NotificationScope) (*dto.NotificationActionResult, error) {
	unread, err := s.repo.ListUnread(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(unread) == 0 {
		return &dto.NotificationActionResult{Success: true, Message: "No unread notifications."}, nil
	}

	if _, err := s.repo.MarkAllRead(ctx, scope, s.now()); err != nil {
		return nil, err
	}

	count, err := s.repo.CountUnread(ctx, scope)
	if err != nil {
		return nil, err
	}
	s.push(scope, websocket.EventUpdateUnreadCount, count)
	for _, n := range unread {
		s.push(scope, websocket.EventMarkNotificationAsRead, n.ID.String())
	}

	return &dto.NotificationActionResult{
		Success:     true,
		Message:     fmt.Sprintf("Marked %d notification(s) as read.", len(unread)),
		UnreadCount: &count,
	}, nil
}

func (s *notificationService) Dismiss(ctx context.Context, scope repository.NotificationScope, id uuid.UUID) (*dto.NotificationActionResult, error) {
	if _, err := s.repo.GetByID(ctx, id, scope); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.NotificationActionResult{Success: false, Message: notAccessibleMessage}, nil
		}
		return nil, err
	}

	if err := s.repo.SoftDelete(ctx, id, s.now()); err != nil {
		return nil, err
	}

	count, err := s.repo.CountUnread(ctx, scope)
	if err != nil {
		return nil, err
	}
	s.push(scope, websocket.EventUpdateUnreadCount, count)

	return &dto.NotificationActionResult{Success: true, UnreadCount: &count}, nil
}

func (s *notificationService) ClearAll(ctx context.Context, scope repository.NotificationScope) (*dto.NotificationActionResult, error) {
	affected, err := s.repo.SoftDeleteAll(ctx, scope, s.now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return &dto.NotificationActionResult{Success: true, Message: "No notifications to clear."}, nil
	}

	count, err := s.repo.CountUnread(ctx, scope)
	if err != nil {
		return nil, err
	}
	// only the final count update, no per-item deleted events
	s.push(scope, websocket.EventUpdateUnreadCount, count)

	return &dto.NotificationActionResult{
		Success:     true,
		Message:     fmt.Sprintf("Cleared %d notification(s).", affected),
		UnreadCount: &count,
	}, nil
}

// NotifyAdmins writes an admin-broadcast audit notification and pushes it to
// the admins group. Used by the back-office mutations (comics, chapters,
// genres, levels).
func (s *notificationService) NotifyAdmins(ctx context.Context, title, message, notifType, icon, link string) error {
	notification := &models.Notification{
		ID:      uuid.New(),
		UserID:  nil,
		Title:   title,
		Message: message,
		Type:    notifType,
		Icon:    icon,
		Link:    link,
		IsRead:  false,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	s.pusher.PushToAdmins(websocket.EventReceiveNotification, websocket.NotificationEvent{
		ID:      notification.ID,
		Title:   notification.Title,
		Message: notification.Message,
		Type:    notification.Type,
		Icon:    notification.Icon,
		Link:    notification.Link,
	})
	slog.Info("admin notification created", "title", title)
	return nil
}
