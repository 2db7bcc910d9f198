package optimoroute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fieldops/backend/internal/domain/routing"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/infrastructure/telemetry"
)

// maxResponseSize limits the response body size read from the API
const maxResponseSize = 20 * 1024 * 1024

const defaultTimeout = 30 * time.Second

// Client calls the OptimoRoute REST API.
// Requests are throttled by a shared token bucket and never retried.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *telemetry.BusinessMetrics
	prom       *telemetry.PrometheusCollector
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics records every request on bm
func WithMetrics(bm *telemetry.BusinessMetrics) Option {
	return func(c *Client) {
		c.metrics = bm
	}
}

// WithPrometheus counts every request on the /metrics collector
func WithPrometheus(p *telemetry.PrometheusCollector) Option {
	return func(c *Client) {
		c.prom = p
	}
}

// NewClient creates a client from configuration.
// A zero RequestsPerSecond disables throttling.
func NewClient(cfg config.OptimoRouteConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SearchOrderRaw looks up one order number with order data and schedule information included
func (c *Client) SearchOrderRaw(ctx context.Context, orderNo string) (json.RawMessage, error) {
	body, err := c.post(ctx, "search_orders", pathSearchOrders, SearchOrdersRequest{
		Orders:                     []OrderRef{{OrderNo: orderNo}},
		IncludeOrderData:           true,
		IncludeScheduleInformation: true,
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// CompletionDetailsRaw fetches completion details for a single order id
func (c *Client) CompletionDetailsRaw(ctx context.Context, orderID string) (json.RawMessage, error) {
	body, err := c.post(ctx, "get_completion_details", pathCompletionDetails, CompletionDetailsRequest{
		OrderID: orderID,
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// SearchOrders fetches one page of orders in a date range
func (c *Client) SearchOrders(ctx context.Context, req routing.SearchRequest) (routing.SearchPage, error) {
	body, err := c.post(ctx, "search_orders", pathSearchOrders, SearchOrdersRequest{
		DateRange:                  &DateRange{From: req.From, To: req.To},
		AfterTag:                   req.AfterTag,
		IncludeOrderData:           true,
		IncludeScheduleInformation: true,
	})
	if err != nil {
		return routing.SearchPage{}, err
	}
	if msg := apiError(body); msg != "" {
		return routing.SearchPage{}, fmt.Errorf("%w: %s", routing.ErrUpstreamRequestFailed, msg)
	}
	return parseSearchPage(body), nil
}

// GetCompletionDetails fetches completion details for orderNos, batching large lists.
// Returns one map across all batches.
func (c *Client) GetCompletionDetails(ctx context.Context, orderNos []string) (map[string]*routing.CompletionDetails, error) {
	out := make(map[string]*routing.CompletionDetails, len(orderNos))
	for start := 0; start < len(orderNos); start += maxCompletionBatch {
		end := min(start+maxCompletionBatch, len(orderNos))

		body, err := c.post(ctx, "get_completion_details", pathCompletionDetails, CompletionDetailsRequest{
			Orders: orderRefs(orderNos[start:end]),
		})
		if err != nil {
			return nil, err
		}
		if msg := apiError(body); msg != "" {
			return nil, fmt.Errorf("%w: %s", routing.ErrUpstreamRequestFailed, msg)
		}
		parseCompletionDetails(body, out)
	}
	return out, nil
}

// post sends payload as JSON to path and returns the response body
func (c *Client) post(ctx context.Context, operation, path string, payload any) (body []byte, err error) {
	if !c.Configured() {
		return nil, routing.ErrAPIKeyNotConfigured
	}

	ctx, span := telemetry.StartClientSpan(ctx, "optimoroute."+operation,
		attribute.String("optimoroute.operation", operation),
	)
	start := time.Now()
	defer func() {
		c.metrics.RecordUpstreamCall(ctx, operation, err == nil, time.Since(start))
		c.prom.UpstreamCall(operation, err)
		telemetry.EndSpan(span, err)
	}()

	if err = c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("optimoroute: rate limiter: %w", err)
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("optimoroute: failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + path + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("optimoroute: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the transport error embeds the URL, which carries the key
		return nil, fmt.Errorf("%w: %s", routing.ErrUpstreamUnavailable, redact(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("optimoroute: failed to read response: %w", err)
	}

	logger.L(ctx).Debug("OptimoRoute response",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: HTTP %d", routing.ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("%w: HTTP %d", routing.ErrUpstreamRequestFailed, resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, routing.ErrInvalidResponse
	}
	return body, nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(secret), "REDACTED")
	return strings.ReplaceAll(s, secret, "REDACTED")
}

var _ routing.Gateway = (*Client)(nil)
