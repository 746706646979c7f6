package publishing

import (
	"context"
	"fmt"
	"log"
	"time"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
)

// ChapterStore is the narrow contract the worker needs from persistence.
type ChapterStore interface {
	FindDueUnpublished(ctx context.Context, now time.Time) ([]models.Chapter, error)
	MarkPublished(ctx context.Context, id uuid.UUID, now time.Time) error
}

// DefaultInterval is the fixed sleep between publish cycles.
const DefaultInterval = time.Minute

// Scheduler closes the gap between "chapter is past its scheduled publish
// time" and "chapter is marked published and its followers are told".
// One instance runs per deployment; cycles never overlap because the sleep
// starts only after the previous cycle finishes.
type Scheduler struct {
	chapters ChapterStore
	fanout   *FanOut
	interval time.Duration
	now      func() time.Time
}

func NewScheduler(chapters ChapterStore, fanout *FanOut, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		chapters: chapters,
		fanout:   fanout,
		interval: interval,
		now:      time.Now,
	}
}

// Run loops until the context is cancelled. Every cycle error is logged and
// swallowed; the next tick retries from scratch.
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("[PublishWorker] started, interval %s", s.interval)
	for {
		published, err := s.RunPublishCycle(ctx)
		if err != nil {
			log.Printf("[PublishWorker] cycle failed: %v", err)
		} else if published > 0 {
			log.Printf("[PublishWorker] published %d chapter(s)", published)
		}

		select {
		case <-ctx.Done():
			log.Printf("[PublishWorker] stopped")
			return
		case <-time.After(s.interval):
		}
	}
}

// RunPublishCycle publishes every currently-due chapter and fans out follower
// notifications. Each chapter is its own unit of work: a failure on one
// chapter does not abandon the rest of the cycle, and a crash between the
// publish flag and the fan-out is repaired only by the at-least-once retry on
// the next tick. Returns the number of chapters flipped to published.
func (s *Scheduler) RunPublishCycle(ctx context.Context) (int, error) {
	now := s.now()

	due, err := s.chapters.FindDueUnpublished(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("query due chapters: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	published := 0
	for i := range due {
		chapter := &due[i]

		if err := s.chapters.MarkPublished(ctx, chapter.ID, now); err != nil {
			log.Printf("[PublishWorker] mark published failed for chapter %s: %v", chapter.ID, err)
			continue
		}
		published++
		log.Printf("[PublishWorker] chapter %d of comic %s published", chapter.Number, chapter.ComicID)

		comicTitle := ""
		if chapter.Comic != nil {
			comicTitle = chapter.Comic.Title
		}
		if err := s.fanout.NotifyFollowers(ctx, chapter.ID, chapter.ComicID, chapter.Title, comicTitle); err != nil {
			// chapter stays published; followers discover it from the store
			log.Printf("[PublishWorker] fan-out failed for chapter %s: %v", chapter.ID, err)
		}
	}
	return published, nil
}
