package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComicService interface {
	GetAll(ctx context.Context, page, pageSize int) ([]models.Comic, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comic, error)
	SearchByTitle(ctx context.Context, title string) ([]models.Comic, error)
	Create(ctx context.Context, comic *models.Comic) error
	Update(ctx context.Context, comic *models.Comic) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type comicService struct {
	repo          *repository.ComicRepo
	notifications NotificationService
	now           func() time.Time
}

func NewComicService(repo *repository.ComicRepo, notifications NotificationService) ComicService {
	return &comicService{
		repo:          repo,
		notifications: notifications,
		now:           time.Now,
	}
}

func (s *comicService) GetAll(ctx context.Context, page, pageSize int) ([]models.Comic, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.GetAll(ctx, page, pageSize)
}

func (s *comicService) GetByID(ctx context.Context, id uuid.UUID) (*models.Comic, error) {
	comic, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComicNotFound
		}
		return nil, err
	}
	return comic, nil
}

func (s *comicService) SearchByTitle(ctx context.Context, title string) ([]models.Comic, error) {
	return s.repo.SearchByTitle(ctx, title)
}

func (s *comicService) Create(ctx context.Context, comic *models.Comic) error {
	comic.Title = strings.TrimSpace(comic.Title)
	if comic.Title == "" {
		return ErrTitleRequired
	}
	if err := s.repo.Create(ctx, comic); err != nil {
		return err
	}

	auditAdmins(ctx, s.notifications,
		"Comic created",
		fmt.Sprintf("Comic '%s' has been created.", comic.Title),
		models.NotificationInfo,
		"info-circle",
		"/comics/"+comic.ID.String(),
	)
	return nil
}

func (s *comicService) Update(ctx context.Context, comic *models.Comic) error {
	comic.Title = strings.TrimSpace(comic.Title)
	if comic.Title == "" {
		return ErrTitleRequired
	}

	// merge into the stored row so views, timestamps and liveness survive
	existing, err := s.GetByID(ctx, comic.ID)
	if err != nil {
		return err
	}
	existing.Title = comic.Title
	existing.Author = comic.Author
	existing.Description = comic.Description
	existing.Status = comic.Status
	existing.CoverURL = comic.CoverURL

	if err := s.repo.Update(ctx, existing); err != nil {
		return err
	}
	*comic = *existing

	auditAdmins(ctx, s.notifications,
		"Comic updated",
		fmt.Sprintf("Comic '%s' has been updated.", comic.Title),
		models.NotificationInfo,
		"info-circle",
		"/comics/"+comic.ID.String(),
	)
	return nil
}

func (s *comicService) Delete(ctx context.Context, id uuid.UUID) error {
	comic, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id, s.now()); err != nil {
		return err
	}

	auditAdmins(ctx, s.notifications,
		"Comic deleted",
		fmt.Sprintf("Comic '%s' has been deleted.", comic.Title),
		models.NotificationWarning,
		"exclamation-circle",
		"",
	)
	return nil
}
