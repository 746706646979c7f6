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

var ErrLevelNotFound = errors.New("level not found")

type LevelService interface {
	GetAll(ctx context.Context) ([]models.Level, error)
	Create(ctx context.Context, l *models.Level) error
	Update(ctx context.Context, id int64, name string, requiredExp int) (*models.Level, error)
	Delete(ctx context.Context, id int64) error
}

type levelService struct {
	repo          *repository.LevelRepo
	notifications NotificationService
	now           func() time.Time
}

func NewLevelService(r *repository.LevelRepo, notifications NotificationService) LevelService {
	return &levelService{repo: r, notifications: notifications, now: time.Now}
}

func (s *levelService) GetAll(ctx context.Context) ([]models.Level, error) {
	return s.repo.GetAll(ctx)
}

func (s *levelService) Create(ctx context.Context, l *models.Level) error {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return errors.New("level name required")
	}
	if l.RequiredExp < 0 {
		return errors.New("required exp must not be negative")
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return err
	}

	auditAdmins(ctx, s.notifications,
		"Level created",
		fmt.Sprintf("Level '%s' has been created.", l.Name),
		models.NotificationInfo,
		"info-circle",
		"/admin/levels",
	)
	return nil
}

func (s *levelService) Update(ctx context.Context, id int64, name string, requiredExp int) (*models.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("level name required")
	}

	level, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevelNotFound
		}
		return nil, err
	}

	level.Name = name
	level.RequiredExp = requiredExp
	if err := s.repo.Update(ctx, level); err != nil {
		return nil, err
	}

	auditAdmins(ctx, s.notifications,
		"Level updated",
		fmt.Sprintf("Level '%s' has been updated.", level.Name),
		models.NotificationInfo,
		"info-circle",
		"/admin/levels",
	)
	return level, nil
}

func (s *levelService) Delete(ctx context.Context, id int64) error {
	level, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLevelNotFound
		}
		return err
	}

	if err := s.repo.SoftDelete(ctx, id, s.now()); err != nil {
		return err
	}

	auditAdmins(ctx, s.notifications,
		"Level deleted",
		fmt.Sprintf("Level '%s' has been deleted.", level.Name),
		models.NotificationWarning,
		"exclamation-circle",
		"/admin/levels",
	)
	return nil
}
