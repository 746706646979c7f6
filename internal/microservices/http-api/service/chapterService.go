package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/repository"
	"comichub/internal/publishing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrComicNotFound      = errors.New("comic not found")
	ErrChapterNotFound    = errors.New("chapter not found")
	ErrChapterNumberTaken = errors.New("chapter number already in use")
	ErrTitleRequired      = errors.New("title required")
)

type ChapterService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Chapter, error)
	Read(ctx context.Context, id uuid.UUID, callerIsAdmin bool) (*models.Chapter, error)
	ListByComic(ctx context.Context, comicID uuid.UUID, includeUnpublished bool) ([]models.Chapter, error)
	Create(ctx context.Context, chapter *models.Chapter) error
	Update(ctx context.Context, id uuid.UUID, title string, number int, publishedAt *time.Time) (*models.Chapter, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// comicStore is the slice of the comic repository the chapter flow needs.
type comicStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comic, error)
}

type chapterService struct {
	chapters      repository.ChapterRepository
	comics        comicStore
	notifications NotificationService
	now           func() time.Time
}

func NewChapterService(chapters repository.ChapterRepository, comics comicStore, notifications NotificationService) ChapterService {
	return &chapterService{
		chapters:      chapters,
		comics:        comics,
		notifications: notifications,
		now:           time.Now,
	}
}

func (s *chapterService) Get(ctx context.Context, id uuid.UUID) (*models.Chapter, error) {
	chapter, err := s.chapters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	return chapter, nil
}

// Read resolves a chapter for the reader surface. Unpublished chapters stay
// invisible to regular users until the publish worker flips them; admins can
// preview. Views only count for published chapters.
func (s *chapterService) Read(ctx context.Context, id uuid.UUID, callerIsAdmin bool) (*models.Chapter, error) {
	chapter, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !chapter.IsPublished && !callerIsAdmin {
		return nil, ErrChapterNotFound
	}
	if chapter.IsPublished {
		if err := s.chapters.IncrementViews(ctx, id); err != nil {
			return nil, err
		}
		chapter.Views++
	}
	return chapter, nil
}

func (s *chapterService) ListByComic(ctx context.Context, comicID uuid.UUID, includeUnpublished bool) ([]models.Chapter, error) {
	return s.chapters.ListByComic(ctx, comicID, !includeUnpublished)
}

// Create stores a new chapter. Without a schedule the chapter is published
// immediately; with a future schedule it stays unpublished until the publish
// worker flips it. Immediate publication does not fan out to followers - only
// the worker path does.
func (s *chapterService) Create(ctx context.Context, chapter *models.Chapter) error {
	chapter.Title = strings.TrimSpace(chapter.Title)
	if chapter.Title == "" {
		return ErrTitleRequired
	}

	comic, err := s.comics.GetByID(ctx, chapter.ComicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComicNotFound
		}
		return err
	}

	taken, err := s.chapters.NumberExists(ctx, chapter.ComicID, chapter.Number)
	if err != nil {
		return err
	}
	if taken {
		return ErrChapterNumberTaken
	}

	now := s.now()
	if chapter.PublishedAt == nil {
		chapter.PublishedAt = &now
		chapter.IsPublished = true
	} else if !chapter.PublishedAt.After(now) {
		chapter.IsPublished = true
	} else {
		chapter.IsPublished = false
	}

	if err := s.chapters.Create(ctx, chapter); err != nil {
		return err
	}

	// audit broadcast for the back office; failure must not fail the create
	auditAdmins(ctx, s.notifications,
		"Chapter created",
		fmt.Sprintf("Chapter '%s' of '%s' has been created.", chapter.Title, comic.Title),
		models.NotificationInfo,
		"info-circle",
		publishing.ReaderLink(chapter.ID),
	)
	return nil
}

func (s *chapterService) Update(ctx context.Context, id uuid.UUID, title string, number int, publishedAt *time.Time) (*models.Chapter, error) {
	chapter, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if number != chapter.Number {
		taken, err := s.chapters.NumberExists(ctx, chapter.ComicID, number)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrChapterNumberTaken
		}
	}

	chapter.Title = title
	chapter.Number = number
	if publishedAt != nil {
		chapter.PublishedAt = publishedAt
		// pushing the schedule into the future un-publishes nothing:
		// the published flag never goes back through this path
		if !chapter.IsPublished && !publishedAt.After(s.now()) {
			chapter.IsPublished = true
		}
	}

	if err := s.chapters.Update(ctx, chapter); err != nil {
		return nil, err
	}

	comicTitle := ""
	if chapter.Comic != nil {
		comicTitle = chapter.Comic.Title
	}
	auditAdmins(ctx, s.notifications,
		"Chapter updated",
		fmt.Sprintf("Chapter '%s' of '%s' has been updated.", chapter.Title, comicTitle),
		models.NotificationInfo,
		"info-circle",
		publishing.ReaderLink(chapter.ID),
	)
	return chapter, nil
}

func (s *chapterService) Delete(ctx context.Context, id uuid.UUID) error {
	chapter, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.chapters.SoftDelete(ctx, id, s.now()); err != nil {
		return err
	}

	auditAdmins(ctx, s.notifications,
		"Chapter deleted",
		fmt.Sprintf("Chapter '%s' has been deleted.", chapter.Title),
		models.NotificationWarning,
		"exclamation-circle",
		"",
	)
	return nil
}
