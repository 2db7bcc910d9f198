package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector owns a private registry with the HTTP and upstream
// collectors scraped from /metrics.
type PrometheusCollector struct {
	registry *prometheus.Registry

	httpInFlight  prometheus.Gauge
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	upstreamCalls *prometheus.CounterVec
}

// NewPrometheusCollector creates and registers the collectors under namespace
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	if namespace == "" {
		namespace = "fieldops"
	}

	p := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}, []string{"method", "route"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimoroute",
			Name:      "calls_total",
			Help:      "Total number of OptimoRoute API calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}

	p.registry.MustRegister(
		p.httpInFlight,
		p.httpRequests,
		p.httpDuration,
		p.upstreamCalls,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return p
}

// Handler exposes the registry in the Prometheus text format
func (p *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry returns the underlying registry
func (p *PrometheusCollector) Registry() *prometheus.Registry {
	return p.registry
}

// RequestStarted marks a request in flight
func (p *PrometheusCollector) RequestStarted() {
	p.httpInFlight.Inc()
}

// RequestFinished records a completed request
func (p *PrometheusCollector) RequestFinished(method, route string, status int, d time.Duration) {
	p.httpInFlight.Dec()
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// UpstreamCall counts one OptimoRoute call. Safe on a nil collector.
func (p *PrometheusCollector) UpstreamCall(operation string, err error) {
	if p == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	p.upstreamCalls.WithLabelValues(operation, outcome).Inc()
}
