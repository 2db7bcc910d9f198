package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/infrastructure/auth"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "fieldops-test",
	})
}

func protectedRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/auth/me", func(c *gin.Context) {
		id, ok := GetSupervisorID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "username": GetJWTUsername(c)})
	})
	router.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/swagger/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	supervisorID := uuid.New()
	token, err := svc.GenerateAccessToken(supervisorID, "sam@fieldops.test")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token.Token)
	w := httptest.NewRecorder()
	protectedRouter(DefaultJWTConfig(svc)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, supervisorID.String(), body["id"])
	assert.Equal(t, "sam@fieldops.test", body["username"])
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	expired, err := newTestJWTService(-time.Minute).GenerateAccessToken(uuid.New(), "old")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "INVALID_TOKEN"},
		{"wrong scheme", "Basic abc", "INVALID_TOKEN"},
		{"empty token", "Bearer ", "INVALID_TOKEN"},
		{"garbage token", "Bearer not-a-jwt", "INVALID_TOKEN"},
		{"expired token", "Bearer " + expired.Token, "TOKEN_EXPIRED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			protectedRouter(DefaultJWTConfig(svc)).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	token, err := svc.GenerateAccessToken(uuid.New(), "sam")
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(token.Token)
	require.NoError(t, err)

	blacklist := auth.NewInMemoryTokenBlacklist()
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = blacklist

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token.Token)
	w := httptest.NewRecorder()
	protectedRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_REVOKED", errorCode(t, w))
}

func TestJWTAuthMiddleware_SkipsPublicRoutes(t *testing.T) {
	router := protectedRouter(DefaultJWTConfig(newTestJWTService(time.Minute)))

	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/auth/login"},
		{http.MethodGet, "/swagger/index.html"},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(r.method, r.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, r.path)
	}
}

func TestJWTAuthMiddleware_SkipsPreflight(t *testing.T) {
	router := gin.New()
	router.Use(JWTAuthMiddleware(newTestJWTService(time.Minute)))
	router.OPTIONS("/api/v1/optimoroute/search", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/optimoroute/search", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetSupervisorID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetSupervisorID(c)
	assert.False(t, ok)
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUsername(c))
}
