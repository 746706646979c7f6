package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

var ErrGenreNotFound = errors.New("genre not found")

type GenreService interface {
	GetAll(ctx context.Context) ([]models.Genre, error)
	Create(ctx context.Context, g *models.Genre) error
	Update(ctx context.Context, id int64, name string) (*models.Genre, error)
	Delete(ctx context.Context, id int64) error
}

type genreService struct {
	repo          *repository.GenreRepo
	notifications NotificationService
	now           func() time.Time
}

func NewGenreService(r *repository.GenreRepo, notifications NotificationService) GenreService {
	return &genreService{repo: r, notifications: notifications, now: time.Now}
}

func (s *genreService) GetAll(ctx context.Context) ([]models.Genre, error) {
	return s.repo.GetAll(ctx)
}

func (s *genreService) Create(ctx context.Context, g *models.Genre) error {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return errors.New("genre name required")
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return err
	}

	auditAdmins(ctx, s.notifications,
		"Genre created",
		fmt.Sprintf("Genre '%s' has been created.", g.Name),
		models.NotificationInfo,
		"info-circle",
		"/admin/genres",
	)
	return nil
}

func (s *genreService) Update(ctx context.Context, id int64, name string) (*models.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("genre name required")
	}

	genre, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}

	genre.Name = name
	if err := s.repo.Update(ctx, genre); err != nil {
		return nil, err
	}

	auditAdmins(ctx, s.notifications,
		"Genre updated",
		fmt.Sprintf("Genre '%s' has been updated.", genre.Name),
		models.NotificationInfo,
		"info-circle",
		"/admin/genres",
	)
	return genre, nil
}

func (s *genreService) Delete(ctx context.Context, id int64) error {
	genre, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}

	if err := s.repo.SoftDelete(ctx, id, s.now()); err != nil {
		return err
	}

	auditAdmins(ctx, s.notifications,
		"Genre deleted",
		fmt.Sprintf("Genre '%s' has been deleted.", genre.Name),
		models.NotificationWarning,
		"exclamation-circle",
		"/admin/genres",
	)
	return nil
}
