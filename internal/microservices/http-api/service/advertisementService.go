package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAdvertisementNotFound = errors.New("advertisement not found")

type AdvertisementService interface {
	GetAll(ctx context.Context) ([]models.Advertisement, error)
	Create(ctx context.Context, a *models.Advertisement) error
	Update(ctx context.Context, id uuid.UUID, title, linkTo string, imageURL *string) (*models.Advertisement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// advertisementStore is the slice of the advertisement repository the
// back-office flow needs.
type advertisementStore interface {
	GetAll(ctx context.Context) ([]models.Advertisement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Advertisement, error)
	Create(ctx context.Context, a *models.Advertisement) error
	Update(ctx context.Context, a *models.Advertisement) error
	SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error
}

type advertisementService struct {
	repo          advertisementStore
	notifications NotificationService
	now           func() time.Time
}

func NewAdvertisementService(r advertisementStore, notifications NotificationService) AdvertisementService {
	return &advertisementService{repo: r, notifications: notifications, now: time.Now}
}

func (s *advertisementService) GetAll(ctx context.Context) ([]models.Advertisement, error) {
	return s.repo.GetAll(ctx)
}

func (s *advertisementService) Create(ctx context.Context, a *models.Advertisement) error {
	a.Title = strings.TrimSpace(a.Title)
	a.LinkTo = strings.TrimSpace(a.LinkTo)
	if a.Title == "" {
		return errors.New("advertisement title required")
	}
	if a.LinkTo == "" {
		return errors.New("advertisement link required")
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}

	auditAdmins(ctx, s.notifications,
		"Advertisement created",
		fmt.Sprintf("Advertisement '%s' has been created.", a.Title),
		models.NotificationInfo,
		"info-circle",
		"/admin/advertisements",
	)
	return nil
}

func (s *advertisementService) Update(ctx context.Context, id uuid.UUID, title, linkTo string, imageURL *string) (*models.Advertisement, error) {
	title = strings.TrimSpace(title)
	linkTo = strings.TrimSpace(linkTo)
	if title == "" {
		return nil, errors.New("advertisement title required")
	}
	if linkTo == "" {
		return nil, errors.New("advertisement link required")
	}

	ad, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdvertisementNotFound
		}
		return nil, err
	}

	ad.Title = title
	ad.LinkTo = linkTo
	if imageURL != nil {
		ad.ImageURL = imageURL
	}
	if err := s.repo.Update(ctx, ad); err != nil {
		return nil, err
	}

	auditAdmins(ctx, s.notifications,
		"Advertisement updated",
		fmt.Sprintf("Advertisement '%s' has been updated.", ad.Title),
		models.NotificationInfo,
		"info-circle",
		"/admin/advertisements",
	)
	return ad, nil
}

func (s *advertisementService) Delete(ctx context.Context, id uuid.UUID) error {
	ad, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdvertisementNotFound
		}
		return err
	}

	if err := s.repo.SoftDelete(ctx, id, s.now()); err != nil {
		return err
	}

	auditAdmins(ctx, s.notifications,
		"Advertisement deleted",
		fmt.Sprintf("Advertisement '%s' has been deleted.", ad.Title),
		models.NotificationWarning,
		"exclamation-circle",
		"/admin/advertisements",
	)
	return nil
}
