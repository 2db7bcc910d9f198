package routing

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrAPIKeyNotConfigured   = errors.New("routing: API key not configured")
	ErrUpstreamUnavailable   = errors.New("routing: routing API temporarily unavailable")
	ErrUpstreamRequestFailed = errors.New("routing: routing API request failed")
	ErrInvalidResponse       = errors.New("routing: invalid routing API response")
)

// SearchRequest selects orders by date range, resuming from AfterTag when set
type SearchRequest struct {
	From     string
	To       string
	AfterTag string
}

// Gateway is the port to the OptimoRoute API
type Gateway interface {
	// Configured reports whether an API key is available
	Configured() bool

	// SearchOrderRaw looks up an order number and returns the unparsed search_orders body
	SearchOrderRaw(ctx context.Context, orderNo string) (json.RawMessage, error)

	// CompletionDetailsRaw returns the unparsed get_completion_details body for one order id
	CompletionDetailsRaw(ctx context.Context, orderID string) (json.RawMessage, error)

	// SearchOrders returns one page of orders scheduled within the request's date range
	SearchOrders(ctx context.Context, req SearchRequest) (SearchPage, error)

	// GetCompletionDetails returns completion details keyed by order number.
	// Orders the API has no completion data for are absent from the map.
	GetCompletionDetails(ctx context.Context, orderNos []string) (map[string]*CompletionDetails, error)
}
