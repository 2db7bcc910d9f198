package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appidentity "github.com/fieldops/backend/internal/application/identity"
	"github.com/fieldops/backend/internal/domain/identity"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/auth"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSupervisorRepository is a mock implementation of identity.SupervisorRepository
type MockSupervisorRepository struct {
	mock.Mock
}

func (m *MockSupervisorRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Supervisor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Supervisor), args.Error(1)
}

func (m *MockSupervisorRepository) FindByEmail(ctx context.Context, email string) (*identity.Supervisor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Supervisor), args.Error(1)
}

func (m *MockSupervisorRepository) Save(ctx context.Context, supervisor *identity.Supervisor) error {
	return m.Called(ctx, supervisor).Error(0)
}

func newAuthHandler(repo *MockSupervisorRepository) *AuthHandler {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-32-characters-long",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
	return NewAuthHandler(appidentity.NewAuthService(repo, jwtService, nil, zap.NewNop()))
}

func TestAuthHandler_Login(t *testing.T) {
	supervisor, err := identity.NewSupervisor("lead@example.com", "Lead", "password123")
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		setup      func(*MockSupervisorRepository)
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"email":"Lead@Example.com","password":"password123"}`,
			setup: func(r *MockSupervisorRepository) {
				r.On("FindByEmail", mock.Anything, "lead@example.com").Return(supervisor, nil)
				r.On("Save", mock.Anything, supervisor).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			body: `{"email":"lead@example.com","password":"nope-nope"}`,
			setup: func(r *MockSupervisorRepository) {
				r.On("FindByEmail", mock.Anything, "lead@example.com").Return(supervisor, nil)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
		{
			name: "unknown email",
			body: `{"email":"ghost@example.com","password":"password123"}`,
			setup: func(r *MockSupervisorRepository) {
				r.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, shared.ErrNotFound)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
		{
			name:       "invalid body",
			body:       `{"email":"not-an-email"}`,
			setup:      func(*MockSupervisorRepository) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ERR_VALIDATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSupervisorRepository)
			tt.setup(repo)
			h := newAuthHandler(repo)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			h.Login(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			if tt.wantCode == "" {
				assert.True(t, resp.Success)
				data := resp.Data.(map[string]any)
				assert.NotEmpty(t, data["access_token"])
				assert.Equal(t, "lead@example.com", data["supervisor"].(map[string]any)["email"])
			} else {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	supervisor, err := identity.NewSupervisor("lead@example.com", "Lead", "password123")
	require.NoError(t, err)

	repo := new(MockSupervisorRepository)
	repo.On("FindByID", mock.Anything, supervisor.ID).Return(supervisor, nil)
	h := newAuthHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	setSupervisor(c, supervisor.ID)

	h.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Lead", resp.Data.(map[string]any)["name"])
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := newAuthHandler(new(MockSupervisorRepository))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)

	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	h := newAuthHandler(new(MockSupervisorRepository))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	setSupervisor(c, uuid.New())

	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Logged out successfully", resp.Data.(map[string]any)["message"])
}
