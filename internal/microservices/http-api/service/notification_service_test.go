package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/repository"
	"comichub/internal/microservices/websocket"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- MOCK REPOSITORY ---

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepo) CreateMany(ctx context.Context, ns []*models.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func (m *MockNotificationRepo) GetByID(ctx context.Context, id uuid.UUID, scope repository.NotificationScope) (*models.Notification, error) {
	args := m.Called(ctx, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepo) ListVisible(ctx context.Context, scope repository.NotificationScope, page, pageSize int) ([]models.Notification, int64, error) {
	args := m.Called(ctx, scope, page, pageSize)
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepo) ListUnread(ctx context.Context, scope repository.NotificationScope) ([]models.Notification, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepo) CountUnread(ctx context.Context, scope repository.NotificationScope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, scope repository.NotificationScope, now time.Time) (int64, error) {
	args := m.Called(ctx, scope, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *MockNotificationRepo) SoftDeleteAll(ctx context.Context, scope repository.NotificationScope, now time.Time) (int64, error) {
	args := m.Called(ctx, scope, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- RECORDING PUSHER ---

type recordedPush struct {
	event   string
	payload any
}

type recordingPusher struct {
	mu    sync.Mutex
	user  map[uuid.UUID][]recordedPush
	admin []recordedPush
}

func newRecordingPusher() *recordingPusher {
	return &recordingPusher{user: make(map[uuid.UUID][]recordedPush)}
}

func (p *recordingPusher) PushToUser(userID uuid.UUID, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.user[userID] = append(p.user[userID], recordedPush{event, payload})
}

func (p *recordingPusher) PushToAdmins(event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.admin = append(p.admin, recordedPush{event, payload})
}

// --- TESTS ---

func TestMarkAsRead_Success(t *testing.T) {
	repo := new(MockNotificationRepo)
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, pusher)

	userID := uuid.New()
	scope := repository.UserScope(userID)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id, scope).
		Return(&models.Notification{ID: id, UserID: &userID, IsRead: false}, nil).Once()
	repo.On("MarkRead", mock.Anything, id, mock.Anything).Return(nil).Once()
	repo.On("CountUnread", mock.Anything, scope).Return(int64(4), nil).Once()

	result, err := svc.MarkAsRead(context.Background(), scope, id)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.UnreadCount)
	assert.Equal(t, int64(4), *result.UnreadCount)

	// count update plus the per-notification read event, on the user's channel
	require.Len(t, pusher.user[userID], 2)
	assert.Equal(t, websocket.EventUpdateUnreadCount, pusher.user[userID][0].event)
	assert.Equal(t, int64(4), pusher.user[userID][0].payload)
	assert.Equal(t, websocket.EventMarkNotificationAsRead, pusher.user[userID][1].event)
	assert.Equal(t, id.String(), pusher.user[userID][1].payload)
	assert.Empty(t, pusher.admin)

	repo.AssertExpectations(t)
}

func TestMarkAsRead_AlreadyReadIsIdempotent(t *testing.T) {
	repo := new(MockNotificationRepo)
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, pusher)

	userID := uuid.New()
	scope := repository.UserScope(userID)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id, scope).
		Return(&models.Notification{ID: id, UserID: &userID, IsRead: true}, nil).Once()

	result, err := svc.MarkAsRead(context.Background(), scope, id)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.UnreadCount)

	// no write, no pushes
	repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, pusher.user[userID])
	repo.AssertExpectations(t)
}

func TestMarkAsRead_NotAccessible(t *testing.T) {
	repo := new(MockNotificationRepo)
	svc := NewNotificationService(repo, newRecordingPusher())

	scope := repository.UserScope(uuid.New())
	id := uuid.New()

	// a notification owned by someone else surfaces as not found
	repo.On("GetByID", mock.Anything, id, scope).Return(nil, gorm.ErrRecordNotFound).Once()

	result, err := svc.MarkAsRead(context.Background(), scope, id)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Notification not found or not accessible.", result.Message)
	repo.AssertExpectations(t)
}

func TestMarkAllAsRead_PushesCountThenEachID(t *testing.T) {
	repo := new(MockNotificationRepo)
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, pusher)

	userID := uuid.New()
	scope := repository.UserScope(userID)
	unread := []models.Notification{
		{ID: uuid.New(), UserID: &userID},
		{ID: uuid.New(), UserID: &userID},
	}

	repo.On("ListUnread", mock.Anything, scope).Return(unread, nil).Once()
	repo.On("MarkAllRead", mock.Anything, scope, mock.Anything).Return(int64(2), nil).Once()
	repo.On("CountUnread", mock.Anything, scope).Return(int64(0), nil).Once()

	result, err := svc.MarkAllAsRead(context.Background(), scope)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(0), *result.UnreadCount)

	pushes := pusher.user[userID]
	require.Len(t, pushes, 3)
	assert.Equal(t, websocket.EventUpdateUnreadCount, pushes[0].event)
	assert.Equal(t, websocket.EventMarkNotificationAsRead, pushes[1].event)
	assert.Equal(t, unread[0].ID.String(), pushes[1].payload)
	assert.Equal(t, unread[1].ID.String(), pushes[2].payload)
	repo.AssertExpectations(t)
}

func TestMarkAllAsRead_NothingUnread(t *testing.T) {
	repo := new(MockNotificationRepo)
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, pusher)

	userID := uuid.New()
	scope := repository.UserScope(userID)
	repo.On("ListUnread", mock.Anything, scope).Return([]models.Notification{}, nil).Once()

	result, err := svc.MarkAllAsRead(context.Background(), scope)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "No unread notifications.", result.Message)

	repo.AssertNotCalled(t, "MarkAllRead", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, pusher.user[userID])
	repo.AssertExpectations(t)
}

func TestDismiss_Success(t *testing.T) {
	repo := new(MockNotificationRepo)
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, pusher)

	userID := uuid.New()
	scope := repository.UserScope(userID)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id, scope).
		Return(&models.Notification{ID: id, UserID: &userID}, nil).Once()
	repo.On("SoftDelete", mock.Anything, id, mock.Anything).Return(nil).Once()
	repo.On("CountUnread", mock.Anything, scope).Return(int64(1), nil).Once()

	result, err := svc.Dismiss(context.Background(), scope, id)
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Len(t, pusher.user[userID], 1)
	assert.Equal(t, websocket.EventUpdateUnreadCount, pusher.user[userID][0].event)
	repo.AssertExpectations(t)
}

func TestClearAll_EmptyPushesNothing(t *testing.T) {
	repo := new(MockNotificationRepo)
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, pusher)

	userID := uuid.New()
	scope := repository.UserScope(userID)
	repo.On("SoftDeleteAll", mock.Anything, scope, mock.Anything).Return(int64(0), nil).Once()

	result, err := svc.ClearAll(context.Background(), scope)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, pusher.user[userID])
	repo.AssertExpectations(t)
}

func TestClearAll_PushesOnlyFinalCount(t *testing.T) {
	repo := new(MockNotificationRepo)
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, pusher)

	userID := uuid.New()
	scope := repository.UserScope(userID)
	repo.On("SoftDeleteAll", mock.Anything, scope, mock.Anything).Return(int64(5), nil).Once()
	repo.On("CountUnread", mock.Anything, scope).Return(int64(0), nil).Once()

	result, err := svc.ClearAll(context.Background(), scope)
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Len(t, pusher.user[userID], 1)
	assert.Equal(t, websocket.EventUpdateUnreadCount, pusher.user[userID][0].event)
	repo.AssertExpectations(t)
}

func TestAdminScope_RoutesToAdminChannel(t *testing.T) {
	repo := new(MockNotificationRepo)
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, pusher)

	scope := repository.AdminScope()
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id, scope).
		Return(&models.Notification{ID: id, UserID: nil, IsRead: false}, nil).Once()
	repo.On("MarkRead", mock.Anything, id, mock.Anything).Return(nil).Once()
	repo.On("CountUnread", mock.Anything, scope).Return(int64(0), nil).Once()

	_, err := svc.MarkAsRead(context.Background(), scope, id)
	require.NoError(t, err)

	assert.Empty(t, pusher.user)
	assert.Len(t, pusher.admin, 2)
	repo.AssertExpectations(t)
}

func TestNotifyAdmins_PersistsBroadcastRow(t *testing.T) {
	repo := new(MockNotificationRepo)
	pusher := newRecordingPusher()
	svc := NewNotificationService(repo, pusher)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == nil && n.Title == "Chapter created" && !n.IsRead
	})).Return(nil).Once()

	err := svc.NotifyAdmins(context.Background(), "Chapter created", "Chapter 'X' of 'Y' has been created.", models.NotificationInfo, "info-circle", "/chapters/abc/read")
	require.NoError(t, err)

	require.Len(t, pusher.admin, 1)
	assert.Equal(t, websocket.EventReceiveNotification, pusher.admin[0].event)
	repo.AssertExpectations(t)
}
