package routing

import (
	"encoding/json"
	"math"
	"strings"
)

// CompletionStatusSuccess is the completion status of a successfully finished order
const CompletionStatusSuccess = "success"

// Location is the stop an order is delivered to
type Location struct {
	LocationNo   string  `json:"locationNo,omitempty"`
	LocationName string  `json:"locationName,omitempty"`
	Address      string  `json:"address,omitempty"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
}

// ScheduleInformation is the routing plan for an order
type ScheduleInformation struct {
	DriverName  string `json:"driverName,omitempty"`
	DriverID    string `json:"driverExternalId,omitempty"`
	VehicleName string `json:"vehicleLabel,omitempty"`
	StopNumber  int    `json:"stopNumber,omitempty"`
	ScheduledAt string `json:"scheduledAt,omitempty"`
	Status      string `json:"status,omitempty"`
}

// CompletionDetails is the proof-of-delivery data recorded by the driver app
type CompletionDetails struct {
	Status    string          `json:"status"`
	StartTime string          `json:"startTime,omitempty"`
	EndTime   string          `json:"endTime,omitempty"`
	Form      json.RawMessage `json:"form,omitempty"`
	ImageURLs []string        `json:"imageUrls,omitempty"`
}

// IsSuccess reports whether the order was completed successfully
func (c *CompletionDetails) IsSuccess() bool {
	return c != nil && strings.EqualFold(c.Status, CompletionStatusSuccess)
}

// Order is the bulk order shape retrieved from the routing API
type Order struct {
	ID         string               `json:"id"`
	OrderNo    string               `json:"orderNo"`
	Date       string               `json:"date,omitempty"`
	Type       string               `json:"type,omitempty"`
	Location   Location             `json:"location"`
	Duration   int                  `json:"duration,omitempty"`
	Notes      string               `json:"notes,omitempty"`
	Schedule   *ScheduleInformation `json:"scheduleInformation,omitempty"`
	Completion *CompletionDetails   `json:"completionDetails,omitempty"`
}

// Key returns the identity used for deduplication: the id, or the order number when the id is empty
func (o Order) Key() string {
	if o.ID != "" {
		return o.ID
	}
	return o.OrderNo
}

// DedupStats reports how many orders deduplication removed
type DedupStats struct {
	OriginalCount  int `json:"originalCount"`
	RemovedCount   int `json:"removedCount"`
	RemovedPercent int `json:"removedPercent"`
}

// Deduplicate drops repeated orders, keeping the first occurrence of each key.
// Orders without id and order number are kept as-is.
func Deduplicate(orders []Order) ([]Order, DedupStats) {
	seen := make(map[string]struct{}, len(orders))
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		key := o.Key()
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, o)
	}

	stats := DedupStats{
		OriginalCount: len(orders),
		RemovedCount:  len(orders) - len(out),
	}
	if stats.OriginalCount > 0 {
		stats.RemovedPercent = int(math.Round(float64(stats.RemovedCount) / float64(stats.OriginalCount) * 100))
	}
	return out, stats
}

// FilterCompleted keeps orders whose completion status is success
func FilterCompleted(orders []Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Completion.IsSuccess() {
			out = append(out, o)
		}
	}
	return out
}

// OrderNumbers returns the non-empty order numbers of orders
func OrderNumbers(orders []Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		if o.OrderNo != "" {
			out = append(out, o.OrderNo)
		}
	}
	return out
}
