package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type ctxMarker struct{}

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.skips("/health"))
	assert.True(t, cfg.skips("/metrics"))
	assert.True(t, cfg.skips("/swagger/index.html"))
	assert.False(t, cfg.skips("/api/v1/work-orders"))
}

func TestProfilingMiddleware_RunsHandler(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		called := false
		router := gin.New()
		router.Use(ProfilingWithConfig(ProfilingConfig{Enabled: enabled}))
		router.GET("/api/v1/materials", func(c *gin.Context) {
			called = true
			c.Status(http.StatusOK)
		})

		assert.Equal(t, http.StatusOK, get(router, "/api/v1/materials").Code)
		assert.True(t, called)
	}
}

func TestProfilingMiddleware_PreservesContext(t *testing.T) {
	var got any
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxMarker{}, "kept"))
		c.Next()
	}, Profiling())
	router.GET("/api/v1/groups", func(c *gin.Context) {
		got = c.Request.Context().Value(ctxMarker{})
		c.Status(http.StatusOK)
	})

	get(router, "/api/v1/groups")
	assert.Equal(t, "kept", got)
}

func TestProfilingLabels(t *testing.T) {
	var labels map[string]string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, "sup-7")
		c.Next()
	})
	router.GET("/api/v1/work-orders/:id/images", func(c *gin.Context) {
		labels = profilingLabels(c)
		c.Status(http.StatusOK)
	})

	get(router, "/api/v1/work-orders/9/images")

	assert.Equal(t, map[string]string{
		"method":        http.MethodGet,
		"route":         "/api/v1/work-orders/:id/images",
		"controller":    "work-orders",
		"supervisor_id": "sup-7",
	}, labels)
}

func TestControllerFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/work-orders/:id":         "work-orders",
		"/api/v1/optimoroute/bulk-orders": "optimoroute",
		"/api/v2/technicians":             "technicians",
		"/health":                         "health",
		"/api/v1/:id":                     "",
		"":                                "",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerFromRoute(route), route)
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vendors"))
	assert.False(t, isVersionSegment("1"))
}
