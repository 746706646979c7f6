package publishing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- FAKES ---

type fakeFollowIndex struct {
	followers map[uuid.UUID][]uuid.UUID
	err       error
}

func (f *fakeFollowIndex) FollowersOf(ctx context.Context, comicID uuid.UUID) ([]uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.followers[comicID], nil
}

type fakeNotificationStore struct {
	mu      sync.Mutex
	batches [][]*models.Notification
	err     error
}

func (f *fakeNotificationStore) CreateMany(ctx context.Context, notifications []*models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, notifications)
	return nil
}

func (f *fakeNotificationStore) created() []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*models.Notification
	for _, b := range f.batches {
		all = append(all, b...)
	}
	return all
}

type fakePusher struct {
	mu         sync.Mutex
	userPushes map[uuid.UUID][]string // userID -> event names
	admin      []string
}

func newFakePusher() *fakePusher {
	return &fakePusher{userPushes: make(map[uuid.UUID][]string)}
}

func (f *fakePusher) PushToUser(userID uuid.UUID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userPushes[userID] = append(f.userPushes[userID], event)
}

func (f *fakePusher) PushToAdmins(event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admin = append(f.admin, event)
}

func (f *fakePusher) eventsFor(userID uuid.UUID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userPushes[userID]
}

// --- TESTS ---

func TestNotifyFollowers_OneNotificationPerFollower(t *testing.T) {
	comicID := uuid.New()
	chapterID := uuid.New()
	followers := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	store := &fakeNotificationStore{}
	pusher := newFakePusher()
	fanout := NewFanOut(&fakeFollowIndex{followers: map[uuid.UUID][]uuid.UUID{comicID: followers}}, store, pusher)

	err := fanout.NotifyFollowers(context.Background(), chapterID, comicID, "Chapter 5", "One Piece")
	require.NoError(t, err)

	created := store.created()
	require.Len(t, created, 3)

	seen := make(map[uuid.UUID]bool)
	for _, n := range created {
		require.NotNil(t, n.UserID)
		seen[*n.UserID] = true
		assert.Equal(t, "New chapter released", n.Title)
		assert.Equal(t, "Chapter 'Chapter 5' of 'One Piece' has been published.", n.Message)
		assert.Equal(t, models.NotificationSuccess, n.Type)
		assert.Equal(t, ReaderLink(chapterID), n.Link)
		assert.False(t, n.IsRead)
	}
	for _, f := range followers {
		assert.True(t, seen[f], "follower %s should have a notification", f)
	}

	// every follower also got a live push
	for _, f := range followers {
		assert.Len(t, pusher.eventsFor(f), 1)
	}
}

func TestNotifyFollowers_NoFollowersIsNoOp(t *testing.T) {
	store := &fakeNotificationStore{}
	pusher := newFakePusher()
	fanout := NewFanOut(&fakeFollowIndex{followers: map[uuid.UUID][]uuid.UUID{}}, store, pusher)

	err := fanout.NotifyFollowers(context.Background(), uuid.New(), uuid.New(), "Ch", "Comic")
	require.NoError(t, err)
	assert.Empty(t, store.created())
	assert.Empty(t, pusher.admin)
}

func TestNotifyFollowers_RejectsBlankTitles(t *testing.T) {
	fanout := NewFanOut(&fakeFollowIndex{}, &fakeNotificationStore{}, newFakePusher())

	err := fanout.NotifyFollowers(context.Background(), uuid.New(), uuid.New(), "  ", "Comic")
	assert.Error(t, err)

	err = fanout.NotifyFollowers(context.Background(), uuid.New(), uuid.New(), "Ch", "")
	assert.Error(t, err)

	err = fanout.NotifyFollowers(context.Background(), uuid.Nil, uuid.New(), "Ch", "Comic")
	assert.Error(t, err)
}

func TestNotifyFollowers_StoreFailureSkipsPushes(t *testing.T) {
	comicID := uuid.New()
	follower := uuid.New()
	store := &fakeNotificationStore{err: errors.New("db down")}
	pusher := newFakePusher()
	fanout := NewFanOut(&fakeFollowIndex{followers: map[uuid.UUID][]uuid.UUID{comicID: {follower}}}, store, pusher)

	err := fanout.NotifyFollowers(context.Background(), uuid.New(), comicID, "Ch", "Comic")
	assert.Error(t, err)
	assert.Empty(t, pusher.eventsFor(follower), "nothing may be pushed when the batch was not persisted")
}
