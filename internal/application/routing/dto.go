package routing

import (
	"encoding/json"

	"github.com/fieldops/backend/internal/domain/routing"
)

// SearchRequest is the body of an order number lookup
type SearchRequest struct {
	SearchQuery string `json:"searchQuery"`
}

// SearchResult carries the routing API payloads unchanged
type SearchResult struct {
	Orders         json.RawMessage `json:"orders"`
	CompletionData json.RawMessage `json:"completion_data"`
}

// BulkOrdersRequest asks for every order between two dates
type BulkOrdersRequest struct {
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
	Mode      string `json:"mode" binding:"omitempty,oneof=with-completion plain"`
	AfterTag  string `json:"afterTag"`
	MaxPages  int    `json:"maxPages" binding:"omitempty,min=1,max=500"`
}

// PaginationStats summarizes pagination
type PaginationStats struct {
	PagesRetrieved int `json:"pagesRetrieved"`
}

// BulkOrdersResponse is the result of a bulk fetch
type BulkOrdersResponse struct {
	Orders             []routing.Order            `json:"orders"`
	TotalCount         int                        `json:"totalCount"`
	FilteredCount      int                        `json:"filteredCount"`
	PaginationProgress routing.PaginationProgress `json:"paginationProgress"`
	DataFlowLogging    routing.DataFlowLogging    `json:"dataFlowLogging"`
	PaginationStats    PaginationStats            `json:"paginationStats"`
	DeduplicationStats routing.DedupStats         `json:"deduplicationStats"`
}

// ImportRequest asks for completed orders of a date range to be imported as work orders
type ImportRequest struct {
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// ImportResponse reports an import run
type ImportResponse struct {
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Fetched    int    `json:"fetched"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	Skipped    int    `json:"skipped"`
	Images     int    `json:"images"`
	IsComplete bool   `json:"isComplete"`
}

// ToBulkOrdersResponse converts a domain BulkResult to a response DTO
func ToBulkOrdersResponse(r *routing.BulkResult) BulkOrdersResponse {
	orders := r.Orders
	if orders == nil {
		orders = []routing.Order{}
	}
	return BulkOrdersResponse{
		Orders:             orders,
		TotalCount:         r.TotalCount,
		FilteredCount:      r.FilteredCount,
		PaginationProgress: r.Progress,
		DataFlowLogging:    r.DataFlow,
		PaginationStats:    PaginationStats{PagesRetrieved: r.Progress.PagesRetrieved},
		DeduplicationStats: r.Dedup,
	}
}
