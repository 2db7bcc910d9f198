package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/fieldops/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips health, metrics and documentation routes
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/api/v1/health", "/metrics"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// Profiling returns profiling middleware with default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig tags the request's Pyroscope samples with:
//   - method
//   - route: matched pattern, e.g. "/api/v1/work-orders/:id"
//   - controller: first resource segment, e.g. "work-orders"
//   - supervisor_id: when the JWT middleware has already run
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}

	return func(c *gin.Context) {
		if cfg.skips(c.Request.URL.Path) {
			c.Next()
			return
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func (cfg ProfilingConfig) skips(path string) bool {
	if slices.Contains(cfg.SkipPaths, path) {
		return true
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 4)
	if c.Request.Method != "" {
		labels[telemetry.ProfilingLabelMethod] = c.Request.Method
	}
	if route := c.FullPath(); route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
		if controller := controllerFromRoute(route); controller != "" {
			labels[telemetry.ProfilingLabelController] = controller
		}
	}
	if supervisorID := GetJWTUserID(c); supervisorID != "" {
		labels[telemetry.ProfilingLabelSupervisor] = supervisorID
	}
	return labels
}

// controllerFromRoute returns the first segment that is not "api", a version
// or a path parameter.
// "/api/v1/optimoroute/bulk-orders" -> "optimoroute"
func controllerFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}

// isVersionSegment reports whether segment looks like v1, v2, ...
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ProfilingAttributeInjector is Profiling placed after the JWT middleware
func ProfilingAttributeInjector() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}
