// Package middleware provides HTTP middleware for the field operations API.
package middleware

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrHTTPMethod     = attribute.Key("http.method")
	attrHTTPRoute      = attribute.Key("http.route")
	attrHTTPStatusCode = attribute.Key("http.status_code")
)

// httpDurationBuckets are the latency boundaries in seconds
var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
type HTTPMetricsConfig struct {
	// MeterProvider exports OpenTelemetry instruments. Optional.
	MeterProvider *telemetry.MeterProvider
	// Prometheus backs the /metrics endpoint. Optional.
	Prometheus *telemetry.PrometheusCollector
	Enabled    bool
}

type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestDuration *telemetry.Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestTotal, err := telemetry.NewCounter(
		meter,
		"http_server_request_total",
		"Total number of HTTP requests",
		"{request}",
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  httpDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics returns a Gin middleware that records every request to the
// configured OpenTelemetry meter and Prometheus collector.
// Labels use the matched route pattern, never the raw path.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}

	var otelMetrics *httpMetrics
	if cfg.MeterProvider != nil && cfg.MeterProvider.IsEnabled() {
		m, err := newHTTPMetrics(cfg.MeterProvider.Meter("http.server"))
		if err == nil {
			otelMetrics = m
		}
	}
	if otelMetrics == nil && cfg.Prometheus == nil {
		return passthrough
	}
	return httpMetricsMiddleware(otelMetrics, cfg.Prometheus)
}

// HTTPMetricsWithMeter returns HTTP metrics middleware recording to meter
// and, when non-nil, prom.
func HTTPMetricsWithMeter(meter metric.Meter, prom *telemetry.PrometheusCollector) gin.HandlerFunc {
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return passthrough
	}
	return httpMetricsMiddleware(m, prom)
}

func httpMetricsMiddleware(m *httpMetrics, prom *telemetry.PrometheusCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		start := time.Now()

		if m != nil {
			m.activeRequests.Add(ctx, 1)
		}
		if prom != nil {
			prom.RequestStarted()
		}

		c.Next()

		duration := time.Since(start)
		method := c.Request.Method
		route := getRoutePattern(c)
		status := c.Writer.Status()

		if m != nil {
			m.activeRequests.Add(ctx, -1)
			recordHTTPMetrics(ctx, m, method, route, status, duration)
		}
		if prom != nil {
			prom.RequestFinished(method, route, status, duration)
		}
	}
}

func recordHTTPMetrics(ctx context.Context, m *httpMetrics, method, route string, status int, d time.Duration) {
	m.requestTotal.Inc(ctx,
		attrHTTPMethod.String(method),
		attrHTTPRoute.String(route),
		attrHTTPStatusCode.Int(status),
	)
	m.requestDuration.RecordDuration(ctx, d,
		attrHTTPMethod.String(method),
		attrHTTPRoute.String(route),
	)
}

// MetricsHandler serves the Prometheus scrape endpoint
func MetricsHandler(prom *telemetry.PrometheusCollector) gin.HandlerFunc {
	return gin.WrapH(prom.Handler())
}

// getRoutePattern returns the matched route (e.g. "/api/v1/work-orders/:id")
func getRoutePattern(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		return "unknown"
	}
	return route
}

func passthrough(c *gin.Context) {
	c.Next()
}
