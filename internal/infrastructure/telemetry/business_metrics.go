package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics records field operation activity.
// A nil *BusinessMetrics is valid and records nothing.
type BusinessMetrics struct {
	upstreamCalls    *Counter
	upstreamDuration *Histogram
	bulkPages        *Counter
	bulkOrders       *Counter
	statusChanges    *Counter
	importedOrders   *Counter
	attendanceMarks  *Counter
}

// NewBusinessMetrics creates the business instruments on meter.
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		bm  BusinessMetrics
		err error
	)

	if bm.upstreamCalls, err = NewCounter(meter, "optimoroute_requests_total",
		"Requests sent to the OptimoRoute API", "{request}"); err != nil {
		return nil, err
	}
	if bm.upstreamDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "optimoroute_request_duration_seconds",
		Description: "Latency of OptimoRoute API requests",
		Unit:        "s",
		Boundaries:  []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}); err != nil {
		return nil, err
	}
	if bm.bulkPages, err = NewCounter(meter, "bulk_fetch_pages_total",
		"Pages retrieved by bulk order fetches", "{page}"); err != nil {
		return nil, err
	}
	if bm.bulkOrders, err = NewCounter(meter, "bulk_fetch_orders_total",
		"Orders kept by bulk order fetches", "{order}"); err != nil {
		return nil, err
	}
	if bm.statusChanges, err = NewCounter(meter, "work_order_status_changes_total",
		"Work order review status changes", "{change}"); err != nil {
		return nil, err
	}
	if bm.importedOrders, err = NewCounter(meter, "work_order_imports_total",
		"Work orders created or refreshed by the order import", "{order}"); err != nil {
		return nil, err
	}
	if bm.attendanceMarks, err = NewCounter(meter, "attendance_marks_total",
		"Attendance records written", "{record}"); err != nil {
		return nil, err
	}

	return &bm, nil
}

// RecordUpstreamCall records one OptimoRoute request.
func (bm *BusinessMetrics) RecordUpstreamCall(ctx context.Context, operation string, success bool, d time.Duration) {
	if bm == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	}
	bm.upstreamCalls.Inc(ctx, attrs...)
	bm.upstreamDuration.RecordDuration(ctx, d, attrs...)
}

// RecordBulkFetch records the pages and kept orders of a bulk fetch.
func (bm *BusinessMetrics) RecordBulkFetch(ctx context.Context, mode string, pages, kept int) {
	if bm == nil {
		return
	}
	attr := attribute.String("mode", mode)
	bm.bulkPages.Add(ctx, int64(pages), attr)
	bm.bulkOrders.Add(ctx, int64(kept), attr)
}

// RecordStatusChange records a work order review decision.
func (bm *BusinessMetrics) RecordStatusChange(ctx context.Context, from, to string) {
	if bm == nil {
		return
	}
	bm.statusChanges.Inc(ctx, attribute.String("from", from), attribute.String("to", to))
}

// RecordImport records work orders touched by the order import.
func (bm *BusinessMetrics) RecordImport(ctx context.Context, created, updated int) {
	if bm == nil {
		return
	}
	bm.importedOrders.Add(ctx, int64(created), attribute.String("result", "created"))
	bm.importedOrders.Add(ctx, int64(updated), attribute.String("result", "updated"))
}

// RecordAttendance records attendance marks by status.
func (bm *BusinessMetrics) RecordAttendance(ctx context.Context, status string, count int) {
	if bm == nil {
		return
	}
	bm.attendanceMarks.Add(ctx, int64(count), attribute.String("status", status))
}
