package middlewarectx

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

	"github.com/ivankoval/subscription-dashboard/internal/apperrors"
	"github.com/ivankoval/subscription-dashboard/internal/models"
)

type AuthServiceMock struct{ mock.Mock }

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(m *AuthServiceMock)
		expectedStatus int
		expectedBody   string
		wantNextCalled bool
	}{
		{
			name:           "missing header",
			authHeader:     "",
			setupMock:      func(_ *AuthServiceMock) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "missing or invalid authorization header",
		},
		{
			name:           "not a bearer header",
			authHeader:     "Basic abc",
			setupMock:      func(_ *AuthServiceMock) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "missing or invalid authorization header",
		},
		{
			name:       "expired token carries TOKEN_EXPIRED code",
			authHeader: "Bearer expired-token",
			setupMock: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "expired-token").
					Return(nil, apperrors.ErrTokenExpired).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"code":"TOKEN_EXPIRED"`,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			setupMock: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "bad-token").
					Return(nil, apperrors.ErrTokenInvalid).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "invalid token",
		},
		{
			name:       "valid token passes user to context",
			authHeader: "Bearer good-token",
			setupMock: func(m *AuthServiceMock) {
				m.On("ValidateToken", mock.Anything, "good-token").Return(&models.User{
					UID:  "550e8400-e29b-41d4-a716-446655440000",
					Role: models.RoleUser,
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			wantNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			tt.setupMock(authMock)

			var nextCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", r.Context().Value(UserUID))
				assert.Equal(t, models.RoleUser, r.Context().Value(Role))
				w.WriteHeader(http.StatusOK)
			})

			handler := JWTMiddleware(authMock, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			if tt.expectedBody != "" {
				assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
					"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			}
			authMock.AssertExpectations(t)
		})
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		role           any
		expectedStatus int
		wantNextCalled bool
	}{
		{
			name:           "admin passes",
			role:           models.RoleAdmin,
			expectedStatus: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "user forbidden",
			role:           models.RoleUser,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing role forbidden",
			role:           nil,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nextCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})
			handler := AdminOnlyMiddleware(newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/admin/statistics", nil)
			if tt.role != nil {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.role))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
		})
	}
}
