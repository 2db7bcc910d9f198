package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HistoryFilter narrows attendance history
type HistoryFilter struct {
	SupervisorID uuid.UUID
	TechnicianID *uuid.UUID
	From         *time.Time
	To           *time.Time
	Limit        int
}

// Repository defines persistence operations for attendance records
type Repository interface {
	FindByTechnicianAndDate(ctx context.Context, technicianID uuid.UUID, date time.Time) (*Record, error)
	// FindHistory returns records ordered by date descending
	FindHistory(ctx context.Context, filter HistoryFilter) ([]Record, error)
	// Upsert inserts the records or updates status and note on (technician, date) conflicts
	Upsert(ctx context.Context, records ...*Record) error
}
