package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"comichub/internal/microservices/http-api/dto"
	"comichub/internal/microservices/http-api/handler"
	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- HELPER FUNCTIONS FOR POINTERS ---
func int64Ptr(i int64) *int64 { return &i }

// --- MOCK SERVICE ---

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, scope repository.NotificationScope, page, pageSize int) ([]models.Notification, int64, int64, error) {
	args := m.Called(ctx, scope, page, pageSize)
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Get(2).(int64), args.Error(3)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, scope repository.NotificationScope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, scope repository.NotificationScope, id uuid.UUID) (*dto.NotificationActionResult, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NotificationActionResult), args.Error(1)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, scope repository.NotificationScope) (*dto.NotificationActionResult, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NotificationActionResult), args.Error(1)
}

func (m *MockNotificationService) Dismiss(ctx context.Context, scope repository.NotificationScope, id uuid.UUID) (*dto.NotificationActionResult, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NotificationActionResult), args.Error(1)
}

func (m *MockNotificationService) ClearAll(ctx context.Context, scope repository.NotificationScope) (*dto.NotificationActionResult, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NotificationActionResult), args.Error(1)
}

func (m *MockNotificationService) NotifyAdmins(ctx context.Context, title, message, notifType, icon, link string) error {
	args := m.Called(ctx, title, message, notifType, icon, link)
	return args.Error(0)
}

// --- SETUP ---

func mockAuthMiddleware(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("username", "testuser")
		c.Set("role", role)
		c.Next()
	}
}

func setupNotificationRouter(mockService *MockNotificationService, userID uuid.UUID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewNotificationHandler(mockService)

	user := r.Group("/api/notifications", mockAuthMiddleware(userID, role))
	h.RegisterUserRoutes(user)

	admin := r.Group("/api/admin/notifications", mockAuthMiddleware(userID, role))
	h.RegisterAdminRoutes(admin)
	return r
}

// --- TESTS ---

func TestNotificationHandler_List(t *testing.T) {
	userID := uuid.New()
	mockService := new(MockNotificationService)
	r := setupNotificationRouter(mockService, userID, "user")

	scope := repository.UserScope(userID)
	notifications := []models.Notification{
		{ID: uuid.New(), UserID: &userID, Title: "New chapter released", Type: models.NotificationSuccess},
		{ID: uuid.New(), UserID: &userID, Title: "Welcome", IsRead: true},
	}

	t.Run("Success", func(t *testing.T) {
		mockService.On("List", mock.Anything, scope, 1, 10).
			Return(notifications, int64(12), int64(3), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/notifications", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.NotificationListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Notifications, 2)
		assert.Equal(t, int64(12), resp.Total)
		assert.Equal(t, int64(3), resp.UnreadCount)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 2, resp.TotalPages)
	})

	t.Run("BadPageFallsBackToFirst", func(t *testing.T) {
		mockService.On("List", mock.Anything, scope, 1, 10).
			Return([]models.Notification{}, int64(0), int64(0), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/notifications?page=zero", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		mockService.On("List", mock.Anything, scope, 1, 10).
			Return([]models.Notification{}, int64(0), int64(0), errors.New("db down")).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/notifications", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	mockService.AssertExpectations(t)
}

func TestNotificationHandler_MarkAsRead(t *testing.T) {
	userID := uuid.New()
	mockService := new(MockNotificationService)
	r := setupNotificationRouter(mockService, userID, "user")

	scope := repository.UserScope(userID)
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService.On("MarkAsRead", mock.Anything, scope, id).
			Return(&dto.NotificationActionResult{Success: true, UnreadCount: int64Ptr(2)}, nil).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/notifications/"+id.String()+"/read", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var result dto.NotificationActionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Equal(t, int64(2), *result.UnreadCount)
	})

	t.Run("NotAccessibleIsStillOK", func(t *testing.T) {
		// someone else's notification: structured failure, not an HTTP error
		mockService.On("MarkAsRead", mock.Anything, scope, id).
			Return(&dto.NotificationActionResult{Success: false, Message: "Notification not found or not accessible."}, nil).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/notifications/"+id.String()+"/read", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var result dto.NotificationActionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.False(t, result.Success)
	})

	t.Run("InvalidID", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, "/api/notifications/not-a-uuid/read", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	mockService.AssertExpectations(t)
}

func TestNotificationHandler_MarkAllAsRead(t *testing.T) {
	userID := uuid.New()
	mockService := new(MockNotificationService)
	r := setupNotificationRouter(mockService, userID, "user")

	mockService.On("MarkAllAsRead", mock.Anything, repository.UserScope(userID)).
		Return(&dto.NotificationActionResult{Success: true, Message: "Marked 3 notification(s) as read.", UnreadCount: int64Ptr(0)}, nil).Once()

	req, _ := http.NewRequest(http.MethodPut, "/api/notifications/read-all", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestNotificationHandler_DismissAndClear(t *testing.T) {
	userID := uuid.New()
	mockService := new(MockNotificationService)
	r := setupNotificationRouter(mockService, userID, "user")

	scope := repository.UserScope(userID)
	id := uuid.New()

	t.Run("Dismiss", func(t *testing.T) {
		mockService.On("Dismiss", mock.Anything, scope, id).
			Return(&dto.NotificationActionResult{Success: true, UnreadCount: int64Ptr(1)}, nil).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/notifications/"+id.String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ClearAll", func(t *testing.T) {
		mockService.On("ClearAll", mock.Anything, scope).
			Return(&dto.NotificationActionResult{Success: true, Message: "Cleared 4 notification(s)."}, nil).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/notifications", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	mockService.AssertExpectations(t)
}

func TestNotificationHandler_UnreadCount(t *testing.T) {
	userID := uuid.New()
	mockService := new(MockNotificationService)
	r := setupNotificationRouter(mockService, userID, "user")

	mockService.On("UnreadCount", mock.Anything, repository.UserScope(userID)).
		Return(int64(9), nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/notifications/unread-count", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(9), body["unread_count"])
	mockService.AssertExpectations(t)
}

func TestNotificationHandler_AdminSurfaceUsesAdminScope(t *testing.T) {
	userID := uuid.New()
	mockService := new(MockNotificationService)
	r := setupNotificationRouter(mockService, userID, models.RoleAdmin)

	// the admin surface always addresses the broadcast rows, never the
	// admin's personal rows
	mockService.On("UnreadCount", mock.Anything, repository.AdminScope()).
		Return(int64(1), nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/admin/notifications/unread-count", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestNotificationHandler_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockService := new(MockNotificationService)
	r := gin.New()
	h := handler.NewNotificationHandler(mockService)
	h.RegisterUserRoutes(r.Group("/api/notifications"))

	req, _ := http.NewRequest(http.MethodGet, "/api/notifications", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
