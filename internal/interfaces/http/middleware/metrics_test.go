package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldops/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return mp, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetricByName(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func metricsRouter(handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(handler)
	router.GET("/api/v1/work-orders/:id", func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHTTPMetrics_Disabled(t *testing.T) {
	router := metricsRouter(HTTPMetrics(HTTPMetricsConfig{Enabled: false}))
	assert.Equal(t, http.StatusOK, get(router, "/api/v1/work-orders/1").Code)
}

func TestHTTPMetrics_NoSinks(t *testing.T) {
	router := metricsRouter(HTTPMetrics(HTTPMetricsConfig{Enabled: true}))
	assert.Equal(t, http.StatusOK, get(router, "/api/v1/work-orders/1").Code)
}

func TestHTTPMetricsWithMeter_RequestCounterByRoute(t *testing.T) {
	mp, reader := setupTestMeter(t)
	router := metricsRouter(HTTPMetricsWithMeter(mp.Meter("test"), nil))

	get(router, "/api/v1/work-orders/1")
	get(router, "/api/v1/work-orders/2")
	get(router, "/api/v1/work-orders/missing")

	rm := collectMetrics(t, reader)
	m := findMetricByName(rm, "http_server_request_total")
	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byStatus := map[int64]int64{}
	for _, dp := range sum.DataPoints {
		route, _ := dp.Attributes.Value(attribute.Key("http.route"))
		assert.Equal(t, "/api/v1/work-orders/:id", route.AsString())
		status, _ := dp.Attributes.Value(attribute.Key("http.status_code"))
		byStatus[status.AsInt64()] += dp.Value
	}
	assert.Equal(t, int64(2), byStatus[http.StatusOK])
	assert.Equal(t, int64(1), byStatus[http.StatusNotFound])
}

func TestHTTPMetricsWithMeter_DurationAndActive(t *testing.T) {
	mp, reader := setupTestMeter(t)
	router := metricsRouter(HTTPMetricsWithMeter(mp.Meter("test"), nil))

	get(router, "/api/v1/work-orders/1")

	rm := collectMetrics(t, reader)
	duration := findMetricByName(rm, "http_server_request_duration_seconds")
	require.NotNil(t, duration)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)

	active := findMetricByName(rm, "http_server_active_requests")
	require.NotNil(t, active)
	activeSum, ok := active.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, activeSum.DataPoints, 1)
	assert.Equal(t, int64(0), activeSum.DataPoints[0].Value)
}

func TestHTTPMetrics_Prometheus(t *testing.T) {
	prom := telemetry.NewPrometheusCollector("test")
	router := metricsRouter(HTTPMetrics(HTTPMetricsConfig{Enabled: true, Prometheus: prom}))
	router.GET("/metrics", MetricsHandler(prom))

	get(router, "/api/v1/work-orders/1")
	get(router, "/api/v1/work-orders/missing")

	count, err := testutil.GatherAndCount(prom.Registry(), "test_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	w := get(router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_http_requests_total{method="GET",route="/api/v1/work-orders/:id",status="404"} 1`)
	assert.NotContains(t, w.Body.String(), `route="/metrics"`)
}

func TestGetRoutePattern(t *testing.T) {
	var matched, unmatched string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Next()
		if c.Writer.Status() == http.StatusNotFound {
			unmatched = getRoutePattern(c)
		}
	})
	router.GET("/api/v1/technicians/:id", func(c *gin.Context) {
		matched = getRoutePattern(c)
		c.Status(http.StatusOK)
	})

	get(router, "/api/v1/technicians/abc")
	get(router, "/nowhere")

	assert.Equal(t, "/api/v1/technicians/:id", matched)
	assert.Equal(t, "unknown", unmatched)
}
