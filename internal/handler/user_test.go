package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/TapQuest_Go/internal/domain"
)

func TestHandleGetUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockUserService)
		u := domain.NewUserProgress("tg-1", "Alice", false)
		u.Balance = 42
		svc.On("GetUser", mock.Anything, "tg-1").Return(&u, nil)

		rr := httptest.NewRecorder()
		HandleGetUser(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/user?id=tg-1", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		got := decodeBody[domain.UserProgress](t, rr)
		assert.Equal(t, "tg-1", got.Identity)
		assert.Equal(t, int64(42), got.Balance)
		svc.AssertExpectations(t)
	})

	t.Run("missing id", func(t *testing.T) {
		svc := new(MockUserService)

		rr := httptest.NewRecorder()
		HandleGetUser(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/user", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, rr).Error, "id")
		svc.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("GetUser", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

		rr := httptest.NewRecorder()
		HandleGetUser(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/user?id=ghost", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, ErrMsgUserNotFoundError, decodeBody[ErrorResponse](t, rr).Error)
	})
}

func TestHandleGetProfile(t *testing.T) {
	svc := new(MockUserService)
	u := domain.NewUserProgress("tg-1", "Alice", false)
	u.TotalEarned = 12000
	p := &domain.Profile{UserProgress: u, LevelInfo: domain.ComputeLevel(u.TotalEarned)}
	svc.On("GetProfile", mock.Anything, "tg-1").Return(p, nil)

	rr := httptest.NewRecorder()
	HandleGetProfile(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/user/profile?id=tg-1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody[domain.Profile](t, rr)
	assert.Equal(t, p.LevelInfo, got.LevelInfo)
	assert.Equal(t, int64(12000), got.TotalEarned)
}

func TestHandleRegisterUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockUserService)
		u := domain.NewUserProgress("tg-1", "Alice", true)
		svc.On("RegisterUser", mock.Anything, "tg-1", "Alice", true).Return(&u, nil)

		req := jsonRequest(t, http.MethodPost, "/user/register", RegisterUserRequest{
			Identity: "tg-1", Name: "Alice", IsPremium: true,
		})
		rr := httptest.NewRecorder()
		HandleRegisterUser(svc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decodeBody[domain.UserProgress](t, rr).IsPremium)
		svc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(MockUserService)

		rr := httptest.NewRecorder()
		HandleRegisterUser(svc).ServeHTTP(rr, jsonRequest(t, http.MethodPost, "/user/register", "{not json"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, ErrMsgInvalidRequest, decodeBody[ErrorResponse](t, rr).Error)
	})

	t.Run("missing identity", func(t *testing.T) {
		svc := new(MockUserService)

		rr := httptest.NewRecorder()
		HandleRegisterUser(svc).ServeHTTP(rr, jsonRequest(t, http.MethodPost, "/user/register",
			RegisterUserRequest{Name: "Alice"}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeBody[ValidationErrorResponse](t, rr)
		assert.Equal(t, "This field is required", resp.Fields["identity"])
	})
}

func TestHandleUpdateUser(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		setup      func(*MockUserService)
		wantStatus int
		wantError  string
	}{
		{
			name: "success",
			body: UpdateUserRequest{UserID: "tg-1", Balance: 150, TotalEarned: 300},
			setup: func(m *MockUserService) {
				u := domain.NewUserProgress("tg-1", "", false)
				u.Balance, u.TotalEarned = 150, 300
				m.On("UpdateProgress", mock.Anything, "tg-1", int64(150), int64(300)).Return(&u, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "negative balance rejected before service",
			body:       `{"user_id":"tg-1","balance":-1,"total_earned":10}`,
			wantStatus: http.StatusBadRequest,
			wantError:  ErrMsgInvalidRequestSummary,
		},
		{
			name:       "missing user id",
			body:       `{"balance":1,"total_earned":1}`,
			wantStatus: http.StatusBadRequest,
			wantError:  ErrMsgInvalidRequestSummary,
		},
		{
			name: "total earned decrease",
			body: UpdateUserRequest{UserID: "tg-1", Balance: 1, TotalEarned: 1},
			setup: func(m *MockUserService) {
				m.On("UpdateProgress", mock.Anything, "tg-1", int64(1), int64(1)).Return(nil, domain.ErrTotalEarnedDecrease)
			},
			wantStatus: http.StatusConflict,
			wantError:  ErrMsgTotalEarnedDecreaseError,
		},
		{
			name: "unknown user",
			body: UpdateUserRequest{UserID: "ghost", Balance: 1, TotalEarned: 1},
			setup: func(m *MockUserService) {
				m.On("UpdateProgress", mock.Anything, "ghost", int64(1), int64(1)).Return(nil, domain.ErrUserNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantError:  ErrMsgUserNotFoundError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			if tt.setup != nil {
				tt.setup(svc)
			}

			rr := httptest.NewRecorder()
			HandleUpdateUser(svc).ServeHTTP(rr, jsonRequest(t, http.MethodPost, "/user/update", tt.body))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody[ErrorResponse](t, rr).Error)
			}
			svc.AssertExpectations(t)
		})
	}
}
