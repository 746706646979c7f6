package publishing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChapterStore struct {
	mu        sync.Mutex
	chapters  []models.Chapter
	published []uuid.UUID
	findErr   error
	markErr   map[uuid.UUID]error
}

func (f *fakeChapterStore) FindDueUnpublished(ctx context.Context, now time.Time) ([]models.Chapter, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []models.Chapter
	for _, c := range f.chapters {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}
	return due, nil
}

func (f *fakeChapterStore) MarkPublished(ctx context.Context, id uuid.UUID, now time.Time) error {
	if err := f.markErr[id]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.chapters {
		if f.chapters[i].ID == id {
			f.chapters[i].IsPublished = true
		}
	}
	f.published = append(f.published, id)
	return nil
}

func (f *fakeChapterStore) publishedIDs() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.published...)
}

func scheduledChapter(comic *models.Comic, number int, publishedAt time.Time) models.Chapter {
	return models.Chapter{
		ID:          uuid.New(),
		ComicID:     comic.ID,
		Number:      number,
		Title:       "Chapter",
		PublishedAt: &publishedAt,
		Comic:       comic,
	}
}

func newTestScheduler(store *fakeChapterStore, fanout *FanOut, now time.Time) *Scheduler {
	s := NewScheduler(store, fanout, time.Minute)
	s.now = func() time.Time { return now }
	return s
}

func TestRunPublishCycle_PublishesDueChapters(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	comic := &models.Comic{ID: uuid.New(), Title: "Solo Leveling"}

	due := scheduledChapter(comic, 1, now.Add(-time.Minute))
	alsoDue := scheduledChapter(comic, 2, now) // boundary: exactly due now
	future := scheduledChapter(comic, 3, now.Add(time.Hour))

	store := &fakeChapterStore{chapters: []models.Chapter{due, alsoDue, future}}
	follower := uuid.New()
	notifStore := &fakeNotificationStore{}
	pusher := newFakePusher()
	fanout := NewFanOut(&fakeFollowIndex{followers: map[uuid.UUID][]uuid.UUID{comic.ID: {follower}}}, notifStore, pusher)

	s := newTestScheduler(store, fanout, now)
	published, err := s.RunPublishCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, published)
	assert.ElementsMatch(t, []uuid.UUID{due.ID, alsoDue.ID}, store.publishedIDs())

	// one notification per published chapter for the single follower
	assert.Len(t, notifStore.created(), 2)
	assert.Len(t, pusher.eventsFor(follower), 2)
}

func TestRunPublishCycle_NothingDue(t *testing.T) {
	now := time.Now()
	comic := &models.Comic{ID: uuid.New(), Title: "Comic"}
	store := &fakeChapterStore{chapters: []models.Chapter{
		scheduledChapter(comic, 1, now.Add(time.Hour)),
	}}
	fanout := NewFanOut(&fakeFollowIndex{}, &fakeNotificationStore{}, newFakePusher())

	s := newTestScheduler(store, fanout, now)
	published, err := s.RunPublishCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, published)
}

func TestRunPublishCycle_QueryFailure(t *testing.T) {
	store := &fakeChapterStore{findErr: errors.New("db down")}
	fanout := NewFanOut(&fakeFollowIndex{}, &fakeNotificationStore{}, newFakePusher())

	s := newTestScheduler(store, fanout, time.Now())
	published, err := s.RunPublishCycle(context.Background())
	assert.Error(t, err)
	assert.Zero(t, published)
}

func TestRunPublishCycle_MarkFailureSkipsChapterOnly(t *testing.T) {
	now := time.Now()
	comic := &models.Comic{ID: uuid.New(), Title: "Comic"}
	broken := scheduledChapter(comic, 1, now.Add(-time.Minute))
	fine := scheduledChapter(comic, 2, now.Add(-time.Minute))

	store := &fakeChapterStore{
		chapters: []models.Chapter{broken, fine},
		markErr:  map[uuid.UUID]error{broken.ID: errors.New("lock timeout")},
	}
	fanout := NewFanOut(&fakeFollowIndex{}, &fakeNotificationStore{}, newFakePusher())

	s := newTestScheduler(store, fanout, now)
	published, err := s.RunPublishCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, published)
	assert.Equal(t, []uuid.UUID{fine.ID}, store.publishedIDs())
}

func TestRunPublishCycle_FanOutFailureDoesNotUnpublish(t *testing.T) {
	now := time.Now()
	comic := &models.Comic{ID: uuid.New(), Title: "Comic"}
	due := scheduledChapter(comic, 1, now.Add(-time.Minute))

	store := &fakeChapterStore{chapters: []models.Chapter{due}}
	follows := &fakeFollowIndex{err: errors.New("follower query failed")}
	fanout := NewFanOut(follows, &fakeNotificationStore{}, newFakePusher())

	s := newTestScheduler(store, fanout, now)
	published, err := s.RunPublishCycle(context.Background())
	require.NoError(t, err, "fan-out failures stay inside the cycle")
	assert.Equal(t, 1, published)
	assert.Equal(t, []uuid.UUID{due.ID}, store.publishedIDs())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	store := &fakeChapterStore{}
	fanout := NewFanOut(&fakeFollowIndex{}, &fakeNotificationStore{}, newFakePusher())
	s := NewScheduler(store, fanout, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}

func TestNewScheduler_DefaultsInterval(t *testing.T) {
	s := NewScheduler(&fakeChapterStore{}, nil, 0)
	assert.Equal(t, DefaultInterval, s.interval)
}
