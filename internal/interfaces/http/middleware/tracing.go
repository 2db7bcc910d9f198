package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps request IDs taken from headers
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "fieldops-backend",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin. Spans are named after the matched route;
// request_id and supervisor_id are added by TracingAttributeInjector once
// the JWT middleware has run.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}

	return otelgin.Middleware(cfg.ServiceName)
}

// enrichSpan adds request and supervisor attributes to span
func enrichSpan(c *gin.Context, span trace.Span) {
	if requestID := getRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if supervisorID := GetJWTUserID(c); supervisorID != "" {
		span.SetAttributes(attribute.String("supervisor_id", supervisorID))
	}
}

// getRequestID prefers the value set by RequestID and falls back to the header
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	headerID := c.GetHeader(RequestIDHeader)
	if len(headerID) > MaxRequestIDLength {
		return headerID[:MaxRequestIDLength]
	}
	return headerID
}

// SpanErrorMarker marks the request span as failed for 4xx and 5xx responses.
// Place it after Tracing.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		var message string
		switch {
		case status >= http.StatusInternalServerError:
			message = "Internal Server Error"
		case status == http.StatusUnauthorized:
			message = "Unauthorized"
		case status == http.StatusNotFound:
			message = "Not Found"
		case status == http.StatusTooManyRequests:
			message = "Too Many Requests"
		default:
			message = "Client Error"
		}
		span.SetStatus(codes.Error, message)
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

// TracingAttributeInjector enriches the current span after authentication.
// Place it after both Tracing and JWT middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
		c.Next()
	}
}
