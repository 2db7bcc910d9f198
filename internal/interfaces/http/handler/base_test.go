package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldops/backend/internal/domain/routing"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// setSupervisor simulates an authenticated request without a real token
func setSupervisor(c *gin.Context, id uuid.UUID) {
	c.Set(middleware.JWTUserIDKey, id.String())
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{
			name:  "from context",
			setup: func(c *gin.Context) { c.Set(middleware.RequestIDKey, "ctx-id") },
			want:  "ctx-id",
		},
		{
			name:  "from header",
			setup: func(c *gin.Context) { c.Request.Header.Set(middleware.RequestIDHeader, "hdr-id") },
			want:  "hdr-id",
		},
		{
			name:  "unset",
			setup: func(*gin.Context) {},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)
			assert.Equal(t, tt.want, getRequestID(c))
		})
	}
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped domain error", fmt.Errorf("get: %w", shared.ErrInvalidState), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"specific code", shared.NewDomainError("UNASSIGNED_GROUP_PROTECTED", "no"), http.StatusUnprocessableEntity, "UNASSIGNED_GROUP_PROTECTED"},
		{"shape fallback", shared.NewDomainError("INVALID_DATE_RANGE", "no"), http.StatusBadRequest, "INVALID_DATE_RANGE"},
		{"no api key", routing.ErrAPIKeyNotConfigured, http.StatusServiceUnavailable, dto.ErrCodeRoutingNotConfigured},
		{"upstream down", fmt.Errorf("%w: HTTP 503", routing.ErrUpstreamUnavailable), http.StatusBadGateway, dto.ErrCodeUpstreamUnavailable},
		{"upstream rejected", fmt.Errorf("%w: HTTP 400", routing.ErrUpstreamRequestFailed), http.StatusBadGateway, dto.ErrCodeUpstreamFailed},
		{"bad payload", routing.ErrInvalidResponse, http.StatusBadGateway, dto.ErrCodeUpstreamFailed},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, dto.ErrCodeTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDKey, "req-1")

			var h BaseHandler
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	var h BaseHandler
	h.HandleError(c, nil)

	assert.False(t, c.Writer.Written())
}

func TestBaseHandler_SupervisorID(t *testing.T) {
	var h BaseHandler

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		_, ok := h.supervisorID(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("present", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		want := uuid.New()
		setSupervisor(c, want)

		got, ok := h.supervisorID(c)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})
}

func TestBaseHandler_PathID(t *testing.T) {
	var h BaseHandler
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, ok := h.pathID(c, "group")

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	assert.Equal(t, "Invalid group ID format", resp.Error.Message)
}

func TestQueryInt(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&page_size=-1&bad=x", nil)

	assert.Equal(t, 3, queryInt(c, "page", 1))
	assert.Equal(t, 20, queryInt(c, "page_size", 20))
	assert.Equal(t, 7, queryInt(c, "bad", 7))
	assert.Equal(t, 1, queryInt(c, "missing", 1))
}
