package service

import (
	"context"
	"errors"

	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAlreadyFollowing = errors.New("already following this comic")

type FollowService interface {
	Follow(ctx context.Context, comicID, userID uuid.UUID) error
	Unfollow(ctx context.Context, comicID, userID uuid.UUID) error
	Status(ctx context.Context, comicID, userID uuid.UUID) (following bool, followers int64, err error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Follow, error)
}

type followService struct {
	follows repository.FollowRepository
	comics  *repository.ComicRepo
}

func NewFollowService(follows repository.FollowRepository, comics *repository.ComicRepo) FollowService {
	return &followService{follows: follows, comics: comics}
}

func (s *followService) Follow(ctx context.Context, comicID, userID uuid.UUID) error {
	// only alive comics can be followed
	if _, err := s.comics.GetByID(ctx, comicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComicNotFound
		}
		return err
	}

	exists, err := s.follows.Exists(ctx, comicID, userID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollowing
	}

	if err := s.follows.Add(ctx, comicID, userID); err != nil {
		// lost a race against another request from the same user
		if errors.Is(err, repository.ErrDuplicateFollow) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, comicID, userID uuid.UUID) error {
	return s.follows.Remove(ctx, comicID, userID)
}

func (s *followService) Status(ctx context.Context, comicID, userID uuid.UUID) (bool, int64, error) {
	following, err := s.follows.Exists(ctx, comicID, userID)
	if err != nil {
		return false, 0, err
	}
	count, err := s.follows.CountForComic(ctx, comicID)
	if err != nil {
		return false, 0, err
	}
	return following, count, nil
}

func (s *followService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Follow, error) {
	return s.follows.ListForUser(ctx, userID)
}
