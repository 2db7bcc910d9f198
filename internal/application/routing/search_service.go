package routing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/routing"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var (
	// ErrOrderNotFound is returned when a lookup matches no orders
	ErrOrderNotFound = errors.New("routing: order not found")
	// ErrSearchQueryRequired is returned for a blank order number
	ErrSearchQueryRequired = errors.New("searchQuery is required")
)

const searchCachePrefix = "optimoroute:search:"

// ResponseCache stores serialized lookup results
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// SearchService looks up a single order and its completion details
type SearchService struct {
	gateway routing.Gateway
	cache   ResponseCache
	ttl     time.Duration
}

// NewSearchService creates a new SearchService. A nil cache or non-positive ttl disables caching.
func NewSearchService(gateway routing.Gateway, cache ResponseCache, ttl time.Duration) *SearchService {
	return &SearchService{
		gateway: gateway,
		cache:   cache,
		ttl:     ttl,
	}
}

// Search runs search_orders for the order number, then get_completion_details with it as order id
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if !s.gateway.Configured() {
		return nil, routing.ErrAPIKeyNotConfigured
	}
	if query == "" {
		return nil, ErrSearchQueryRequired
	}
	if cached, ok := s.cached(ctx, query); ok {
		return cached, nil
	}

	searchBody, err := s.gateway.SearchOrderRaw(ctx, query)
	if err != nil {
		return nil, err
	}
	orders := gjson.GetBytes(searchBody, "orders")
	if !orders.IsArray() || len(orders.Array()) == 0 {
		return nil, ErrOrderNotFound
	}

	completion, err := s.gateway.CompletionDetailsRaw(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Orders:         json.RawMessage(orders.Raw),
		CompletionData: completion,
	}
	s.store(ctx, query, result)
	return result, nil
}

func (s *SearchService) cached(ctx context.Context, query string) (*SearchResult, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, searchCachePrefix+query)
	if err != nil {
		logger.L(ctx).Warn("Search cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var result SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (s *SearchService) store(ctx context.Context, query string, result *SearchResult) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, searchCachePrefix+query, data, s.ttl); err != nil {
		logger.L(ctx).Warn("Search cache write failed", zap.Error(err))
	}
}
