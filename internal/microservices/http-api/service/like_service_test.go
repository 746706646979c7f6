package service

import (
	"context"
	"testing"

	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- MOCKS ---

type MockLikeRepo struct {
	mock.Mock
}

func (m *MockLikeRepo) Add(ctx context.Context, comicID, userID uuid.UUID) error {
	args := m.Called(ctx, comicID, userID)
	return args.Error(0)
}

func (m *MockLikeRepo) Remove(ctx context.Context, comicID, userID uuid.UUID) error {
	args := m.Called(ctx, comicID, userID)
	return args.Error(0)
}

func (m *MockLikeRepo) Exists(ctx context.Context, comicID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, comicID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepo) CountForComic(ctx context.Context, comicID uuid.UUID) (int64, error) {
	args := m.Called(ctx, comicID)
	return args.Get(0).(int64), args.Error(1)
}

// --- TESTS ---

func TestLikeToggle_LikesWhenNotLiked(t *testing.T) {
	comic := &models.Comic{ID: uuid.New(), Title: "Vagabond"}
	userID := uuid.New()

	likes := new(MockLikeRepo)
	comics := new(MockComicStore)
	comics.On("GetByID", mock.Anything, comic.ID).Return(comic, nil).Once()
	likes.On("Exists", mock.Anything, comic.ID, userID).Return(false, nil).Once()
	likes.On("Add", mock.Anything, comic.ID, userID).Return(nil).Once()
	likes.On("CountForComic", mock.Anything, comic.ID).Return(int64(8), nil).Once()

	svc := NewLikeService(likes, comics)
	liked, count, err := svc.Toggle(context.Background(), comic.ID, userID)

	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(8), count)
	likes.AssertExpectations(t)
}

func TestLikeToggle_UnlikesWhenAlreadyLiked(t *testing.T) {
	comic := &models.Comic{ID: uuid.New(), Title: "Vagabond"}
	userID := uuid.New()

	likes := new(MockLikeRepo)
	comics := new(MockComicStore)
	comics.On("GetByID", mock.Anything, comic.ID).Return(comic, nil).Once()
	likes.On("Exists", mock.Anything, comic.ID, userID).Return(true, nil).Once()
	likes.On("Remove", mock.Anything, comic.ID, userID).Return(nil).Once()
	likes.On("CountForComic", mock.Anything, comic.ID).Return(int64(7), nil).Once()

	svc := NewLikeService(likes, comics)
	liked, count, err := svc.Toggle(context.Background(), comic.ID, userID)

	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(7), count)
	likes.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestLikeToggle_UnknownComic(t *testing.T) {
	comicID := uuid.New()
	userID := uuid.New()

	likes := new(MockLikeRepo)
	comics := new(MockComicStore)
	comics.On("GetByID", mock.Anything, comicID).Return(nil, gorm.ErrRecordNotFound).Once()

	svc := NewLikeService(likes, comics)
	_, _, err := svc.Toggle(context.Background(), comicID, userID)

	assert.ErrorIs(t, err, ErrComicNotFound)
	likes.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestLikeToggle_ConcurrentDoubleLikeLandsLiked(t *testing.T) {
	comic := &models.Comic{ID: uuid.New(), Title: "Vagabond"}
	userID := uuid.New()

	likes := new(MockLikeRepo)
	comics := new(MockComicStore)
	comics.On("GetByID", mock.Anything, comic.ID).Return(comic, nil).Once()
	likes.On("Exists", mock.Anything, comic.ID, userID).Return(false, nil).Once()
	likes.On("Add", mock.Anything, comic.ID, userID).Return(repository.ErrDuplicateLike).Once()
	likes.On("CountForComic", mock.Anything, comic.ID).Return(int64(1), nil).Once()

	svc := NewLikeService(likes, comics)
	liked, count, err := svc.Toggle(context.Background(), comic.ID, userID)

	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)
}

func TestLikeStatus(t *testing.T) {
	comicID := uuid.New()
	userID := uuid.New()

	likes := new(MockLikeRepo)
	comics := new(MockComicStore)
	likes.On("Exists", mock.Anything, comicID, userID).Return(true, nil).Once()
	likes.On("CountForComic", mock.Anything, comicID).Return(int64(42), nil).Once()

	svc := NewLikeService(likes, comics)
	liked, count, err := svc.Status(context.Background(), comicID, userID)

	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(42), count)
}
