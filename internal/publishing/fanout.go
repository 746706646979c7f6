package publishing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/websocket"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// FollowIndex resolves the followers of a comic.
type FollowIndex interface {
	FollowersOf(ctx context.Context, comicID uuid.UUID) ([]uuid.UUID, error)
}

// NotificationStore persists the fan-out batch. The fan-out only appends.
type NotificationStore interface {
	CreateMany(ctx context.Context, notifications []*models.Notification) error
}

// ReaderLink builds the deep-link path carried inside a new-chapter notification.
func ReaderLink(chapterID uuid.UUID) string {
	return "/chapters/" + chapterID.String() + "/read"
}

// FanOut converts "chapter just became published" into one durable notification
// per follower and attempts immediate live delivery. Pushes happen after the
// batch is committed and are allowed to fail independently of it; their
// outcome never surfaces to the caller.
type FanOut struct {
	follows       FollowIndex
	notifications NotificationStore
	pusher        websocket.Pusher

	limiter     *rate.Limiter
	concurrency int
}

func NewFanOut(follows FollowIndex, notifications NotificationStore, pusher websocket.Pusher) *FanOut {
	return &FanOut{
		follows:       follows,
		notifications: notifications,
		pusher:        pusher,
		// cap push bursts so a huge follower list cannot monopolize the hub
		limiter:     rate.NewLimiter(rate.Limit(200), 50),
		concurrency: 10,
	}
}

// NotifyFollowers creates one notification per follower of the comic and
// pushes each to that user's live connections. Zero followers is a no-op.
// Creation is at-least-once: nothing ties a (chapter, follower) pair to a
// single row, so a retried invocation can double-notify.
func (f *FanOut) NotifyFollowers(ctx context.Context, chapterID, comicID uuid.UUID, chapterTitle, comicTitle string) error {
	chapterTitle = strings.TrimSpace(chapterTitle)
	comicTitle = strings.TrimSpace(comicTitle)
	if chapterID == uuid.Nil || comicID == uuid.Nil {
		return fmt.Errorf("fan-out requires chapter and comic ids")
	}
	if chapterTitle == "" || comicTitle == "" {
		return fmt.Errorf("fan-out requires chapter and comic titles")
	}

	followers, err := f.follows.FollowersOf(ctx, comicID)
	if err != nil {
		return fmt.Errorf("resolve followers: %w", err)
	}
	if len(followers) == 0 {
		return nil
	}

	notifications := make([]*models.Notification, 0, len(followers))
	for _, userID := range followers {
		uid := userID
		notifications = append(notifications, &models.Notification{
			ID:      uuid.New(),
			UserID:  &uid,
			Title:   "New chapter released",
			Message: fmt.Sprintf("Chapter '%s' of '%s' has been published.", chapterTitle, comicTitle),
			Type:    models.NotificationSuccess,
			Icon:    "check-circle",
			Link:    ReaderLink(chapterID),
			IsRead:  false,
		})
	}

	if err := f.notifications.CreateMany(ctx, notifications); err != nil {
		return fmt.Errorf("persist notifications: %w", err)
	}

	f.pushAll(ctx, notifications)
	return nil
}

// pushAll pushes the already-persisted batch with bounded concurrency.
// Fire-and-forget: a missed push is recovered when the user re-reads the store.
func (f *FanOut) pushAll(ctx context.Context, notifications []*models.Notification) {
	sem := make(chan struct{}, f.concurrency)
	var wg sync.WaitGroup

	for _, n := range notifications {
		if err := f.limiter.Wait(ctx); err != nil {
			// shutdown mid-fan-out, remaining pushes are skipped
			log.Printf("[FanOut] push loop interrupted: %v", err)
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(n *models.Notification) {
			defer wg.Done()
			defer func() { <-sem }()
			f.pusher.PushToUser(*n.UserID, websocket.EventReceiveNotification, websocket.NotificationEvent{
				ID:      n.ID,
				Title:   n.Title,
				Message: n.Message,
				Type:    n.Type,
				Icon:    n.Icon,
				Link:    n.Link,
			})
		}(n)
	}

	wg.Wait()
}
