package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger func(ctx context.Context) error

// SystemHandler serves health and version information
type SystemHandler struct {
	BaseHandler
	version   string
	startTime time.Time
	database  Pinger
}

// NewSystemHandler creates a new SystemHandler. database may be nil.
func NewSystemHandler(version string, database Pinger) *SystemHandler {
	return &SystemHandler{
		version:   version,
		startTime: time.Now(),
		database:  database,
	}
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
	Database  string `json:"database" example:"up"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports service status and database reachability
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  "up",
	}
	status := http.StatusOK

	if h.database != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.database(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "down"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @Summary      Ping the API
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
