package routing

import (
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
)

// DateLayout is the date format the routing API expects
const DateLayout = "2006-01-02"

// FetchMode selects which orders a bulk fetch keeps
type FetchMode string

const (
	// ModeWithCompletion loads completion details and keeps successfully completed orders
	ModeWithCompletion FetchMode = "with-completion"
	// ModePlain keeps every order without loading completion details
	ModePlain FetchMode = "plain"
)

// IsValid reports whether m is a known mode
func (m FetchMode) IsValid() bool {
	return m == ModeWithCompletion || m == ModePlain
}

// BulkQuery describes one bulk retrieval
type BulkQuery struct {
	StartDate string
	EndDate   string
	Mode      FetchMode
	AfterTag  string
	MaxPages  int
}

// NewBulkQuery validates and normalizes a bulk retrieval request
func NewBulkQuery(startDate, endDate string, mode FetchMode, afterTag string, maxPages int) (BulkQuery, error) {
	start, err := time.Parse(DateLayout, strings.TrimSpace(startDate))
	if err != nil {
		return BulkQuery{}, shared.NewDomainError("INVALID_START_DATE", "Start date must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(endDate))
	if err != nil {
		return BulkQuery{}, shared.NewDomainError("INVALID_END_DATE", "End date must be formatted as YYYY-MM-DD")
	}
	if end.Before(start) {
		return BulkQuery{}, shared.NewDomainError("INVALID_DATE_RANGE", "End date must not be before start date")
	}
	if mode == "" {
		mode = ModeWithCompletion
	}
	if !mode.IsValid() {
		return BulkQuery{}, shared.NewDomainError("INVALID_FETCH_MODE", "Mode must be with-completion or plain")
	}
	if maxPages < 0 {
		return BulkQuery{}, shared.NewDomainError("INVALID_MAX_PAGES", "Max pages cannot be negative")
	}

	return BulkQuery{
		StartDate: start.Format(DateLayout),
		EndDate:   end.Format(DateLayout),
		Mode:      mode,
		AfterTag:  strings.TrimSpace(afterTag),
		MaxPages:  maxPages,
	}, nil
}

// SearchPage is one page of search results
type SearchPage struct {
	Orders   []Order
	AfterTag string
}

// PaginationProgress reports where a bulk fetch stopped
type PaginationProgress struct {
	IsComplete     bool   `json:"isComplete"`
	PagesRetrieved int    `json:"pagesRetrieved"`
	AfterTag       string `json:"afterTag,omitempty"`
}

// DataFlowLogging counts the traffic a bulk fetch generated
type DataFlowLogging struct {
	APIRequests        int `json:"apiRequests"`
	TotalOrdersFromAPI int `json:"totalOrdersFromAPI"`
}

// BulkResult is the outcome of a bulk fetch
type BulkResult struct {
	Orders        []Order
	TotalCount    int
	FilteredCount int
	Progress      PaginationProgress
	DataFlow      DataFlowLogging
	Dedup         DedupStats
}
