package register

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/task-tracker/internal/errs"
	"github.com/magabrotheeeer/task-tracker/internal/http/session"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
		wantCookie     bool
	}{
		{
			name: "успешная регистрация",
			body: `{"email":"new@example.com","password":"Password123"}`,
			setupMock: func(m *MockService) {
				user := &models.User{UID: "uid-1", Email: "new@example.com"}
				m.On("Register", mock.Anything, "new@example.com", "Password123").
					Return(user, "issued.jwt.token", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"email":"new@example.com"`,
			wantCookie:     true,
		},
		{
			name:           "битый JSON",
			body:           `{"email":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"code":"VALIDATION_ERROR"`,
		},
		{
			name:           "невалидный email",
			body:           `{"email":"not-an-email","password":"Password123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Email must be a valid email`,
		},
		{
			name:           "короткий пароль",
			body:           `{"email":"new@example.com","password":"Pw1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Password is too short`,
		},
		{
			name:           "пароль без цифры",
			body:           `{"email":"new@example.com","password":"Passwordonly"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Password must include upper and lower case letters and a number`,
		},
		{
			name: "email уже занят",
			body: `{"email":"taken@example.com","password":"Password123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "taken@example.com", "Password123").
					Return(nil, "", errs.ErrEmailTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"code":"EMAIL_CONFLICT"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, false)

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			res := w.Result()
			defer func() { _ = res.Body.Close() }()
			var gotCookie bool
			for _, c := range res.Cookies() {
				if c.Name == session.CookieName && c.Value != "" {
					gotCookie = true
				}
			}
			assert.Equal(t, tt.wantCookie, gotCookie)

			mockService.AssertExpectations(t)
		})
	}
}

func TestRegisterHandler_NoPasswordHashInResponse(t *testing.T) {
	mockService := new(MockService)
	user := &models.User{UID: "uid-1", Email: "new@example.com", PasswordHash: "$2a$12$secret"}
	mockService.On("Register", mock.Anything, "new@example.com", "Password123").
		Return(user, "issued.jwt.token", nil)

	handler := New(newNoopLogger(), mockService, false)
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"new@example.com","password":"Password123"}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.NotContains(t, w.Body.String(), "password")
}
