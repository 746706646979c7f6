package service

import (
	"context"
	"errors"

	"comichub/internal/microservices/http-api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeService interface {
	Toggle(ctx context.Context, comicID, userID uuid.UUID) (liked bool, likes int64, err error)
	Status(ctx context.Context, comicID, userID uuid.UUID) (liked bool, likes int64, err error)
}

type likeService struct {
	likes  repository.LikeRepository
	comics comicStore
}

func NewLikeService(likes repository.LikeRepository, comics comicStore) LikeService {
	return &likeService{likes: likes, comics: comics}
}

// Toggle flips the caller's like on a comic and returns the resulting state
// together with the fresh like count.
func (s *likeService) Toggle(ctx context.Context, comicID, userID uuid.UUID) (bool, int64, error) {
	// only alive comics can be liked
	if _, err := s.comics.GetByID(ctx, comicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrComicNotFound
		}
		return false, 0, err
	}

	exists, err := s.likes.Exists(ctx, comicID, userID)
	if err != nil {
		return false, 0, err
	}

	liked := !exists
	if exists {
		if err := s.likes.Remove(ctx, comicID, userID); err != nil {
			return false, 0, err
		}
	} else {
		if err := s.likes.Add(ctx, comicID, userID); err != nil {
			// lost a race against another request from the same user;
			// the row is there, so the toggle still lands on liked
			if !errors.Is(err, repository.ErrDuplicateLike) {
				return false, 0, err
			}
		}
	}

	count, err := s.likes.CountForComic(ctx, comicID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (s *likeService) Status(ctx context.Context, comicID, userID uuid.UUID) (bool, int64, error) {
	liked, err := s.likes.Exists(ctx, comicID, userID)
	if err != nil {
		return false, 0, err
	}
	count, err := s.likes.CountForComic(ctx, comicID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}
