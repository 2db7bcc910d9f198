package routing

import (
	"context"

	"github.com/fieldops/backend/internal/domain/routing"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultMaxPages bounds a bulk fetch when neither the request nor the config sets a limit
const DefaultMaxPages = 50

// BulkRecorder records bulk fetch outcomes
type BulkRecorder interface {
	RecordBulkFetch(ctx context.Context, mode string, pages, kept int)
}

// BulkFetchService retrieves every order of a date range page by page
type BulkFetchService struct {
	gateway  routing.Gateway
	maxPages int
	recorder BulkRecorder
}

// NewBulkFetchService creates a new BulkFetchService; recorder may be nil
func NewBulkFetchService(gateway routing.Gateway, maxPages int, recorder BulkRecorder) *BulkFetchService {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &BulkFetchService{
		gateway:  gateway,
		maxPages: maxPages,
		recorder: recorder,
	}
}

// FetchOrders runs a bulk fetch described by req
func (s *BulkFetchService) FetchOrders(ctx context.Context, req BulkOrdersRequest) (*BulkOrdersResponse, error) {
	query, err := routing.NewBulkQuery(req.StartDate, req.EndDate, routing.FetchMode(req.Mode), req.AfterTag, req.MaxPages)
	if err != nil {
		return nil, err
	}
	result, err := s.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	response := ToBulkOrdersResponse(result)
	return &response, nil
}

// Fetch pages through search_orders until the cursor runs out or the page limit is hit.
// Each page's cursor comes from the previous page, so pages are requested one at a time.
func (s *BulkFetchService) Fetch(ctx context.Context, q routing.BulkQuery) (*routing.BulkResult, error) {
	if !s.gateway.Configured() {
		return nil, routing.ErrAPIKeyNotConfigured
	}
	maxPages := q.MaxPages
	if maxPages <= 0 || maxPages > s.maxPages {
		maxPages = s.maxPages
	}

	log := logger.L(ctx).With(
		zap.String("start_date", q.StartDate),
		zap.String("end_date", q.EndDate),
		zap.String("mode", string(q.Mode)),
	)

	result := &routing.BulkResult{}
	collected := make([]routing.Order, 0)
	cursor := q.AfterTag

	for result.Progress.PagesRetrieved < maxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := s.gateway.SearchOrders(ctx, routing.SearchRequest{From: q.StartDate, To: q.EndDate, AfterTag: cursor})
		if err != nil {
			return nil, err
		}
		result.DataFlow.APIRequests++
		result.Progress.PagesRetrieved++
		result.DataFlow.TotalOrdersFromAPI += len(page.Orders)

		kept := page.Orders
		if q.Mode == routing.ModeWithCompletion && len(page.Orders) > 0 {
			orderNos := routing.OrderNumbers(page.Orders)
			details, err := s.gateway.GetCompletionDetails(ctx, orderNos)
			if err != nil {
				return nil, err
			}
			result.DataFlow.APIRequests += completionRequests(len(orderNos))
			for i := range kept {
				kept[i].Completion = details[kept[i].OrderNo]
			}
			kept = routing.FilterCompleted(kept)
		}
		collected = append(collected, kept...)

		log.Debug("Bulk page retrieved",
			zap.Int("page", result.Progress.PagesRetrieved),
			zap.Int("orders", len(page.Orders)),
			zap.Int("kept", len(kept)),
		)

		cursor = page.AfterTag
		if cursor == "" {
			break
		}
	}

	result.TotalCount = result.DataFlow.TotalOrdersFromAPI
	result.Orders, result.Dedup = routing.Deduplicate(collected)
	result.FilteredCount = len(result.Orders)
	result.Progress.IsComplete = cursor == ""
	result.Progress.AfterTag = cursor

	if s.recorder != nil {
		s.recorder.RecordBulkFetch(ctx, string(q.Mode), result.Progress.PagesRetrieved, result.FilteredCount)
	}
	log.Info("Bulk fetch finished",
		zap.Int("pages", result.Progress.PagesRetrieved),
		zap.Int("total", result.TotalCount),
		zap.Int("kept", result.FilteredCount),
		zap.Int("duplicates", result.Dedup.RemovedCount),
		zap.Bool("complete", result.Progress.IsComplete),
	)
	return result, nil
}

// completionRequests is the number of get_completion_details calls needed for n orders
func completionRequests(n int) int {
	const batch = 500
	return (n + batch - 1) / batch
}
