package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRouter(cfg CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/api/v1/work-orders", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.OPTIONS("/api/v1/optimoroute/search", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestCORS_DefaultRejectsCrossOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/api/v1/work-orders", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/work-orders", nil)
	req.Header.Set("Origin", "http://elsewhere.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"http://dashboard.local"}
	cfg.PreflightPassthrough = []string{"/api/v1/optimoroute/search"}
	router := corsRouter(cfg)

	t.Run("allowed origin gets headers and credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/work-orders", nil)
		req.Header.Set("Origin", "http://dashboard.local")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "http://dashboard.local", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/work-orders", nil)
		req.Header.Set("Origin", "http://elsewhere.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is answered with 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/work-orders", nil)
		req.Header.Set("Origin", "http://dashboard.local")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	})

	t.Run("passthrough preflight reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/optimoroute/search", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})
}

func TestCORSWithConfig_Wildcard(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"*"}
	router := corsRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/work-orders", nil)
	req.Header.Set("Origin", "http://any.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Body.String())
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("generates one when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Body.String(), 36)
		assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})
}

func TestSecure(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	router := gin.New()
	router.Use(SecureWithConfig(cfg))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/swagger/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}

func TestTimeout(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(50 * time.Millisecond))
	var deadline time.Time
	var hasDeadline bool
	router.GET("/slow", func(c *gin.Context) {
		deadline, hasDeadline = c.Request.Context().Deadline()
		<-c.Request.Context().Done()
		assert.ErrorIs(t, c.Request.Context().Err(), context.DeadlineExceeded)
		c.Status(http.StatusGatewayTimeout)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	require.True(t, hasDeadline)
	assert.False(t, deadline.IsZero())
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
