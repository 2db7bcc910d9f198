package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func findEntry(entries []observer.LoggedEntry, msg string) *observer.LoggedEntry {
	for i := range entries {
		if entries[i].Message == msg {
			return &entries[i]
		}
	}
	return nil
}

func TestGinMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{name: "logs success at info", status: http.StatusOK, wantLevel: zapcore.InfoLevel},
		{name: "logs client errors at warn", status: http.StatusNotFound, wantLevel: zapcore.WarnLevel},
		{name: "logs server errors at error", status: http.StatusBadGateway, wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)

			router := gin.New()
			router.Use(func(c *gin.Context) {
				c.Set("request_id", "req-123")
				c.Next()
			})
			router.Use(GinMiddleware(zap.New(core)))
			router.GET("/test", func(c *gin.Context) {
				assert.Equal(t, "req-123", GetRequestID(c.Request.Context()))
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?x=1", nil))

			entry := findEntry(recorded.All(), "HTTP Request")
			require.NotNil(t, entry)
			assert.Equal(t, tt.wantLevel, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, "req-123", fields["request_id"])
			assert.Equal(t, "x=1", fields["query"])
			assert.Equal(t, int64(tt.status), fields["status"])
		})
	}
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotNil(t, findEntry(recorded.All(), "Panic recovered"))
}

func TestGetGinLogger(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))

	l := zap.NewExample()
	c.Set(ginLoggerKey, l)
	assert.Same(t, l, GetGinLogger(c))
}
