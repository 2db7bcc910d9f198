package workorder

import (
	"context"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter narrows work order listings
type Filter struct {
	shared.Filter
	Status       Status
	TechnicianID *uuid.UUID
	DateFrom     string // inclusive, YYYY-MM-DD
	DateTo       string // inclusive, YYYY-MM-DD
}

// StatusCount holds the number of work orders per status
type StatusCount struct {
	Status Status
	Count  int64
}

// Repository defines persistence operations for work orders
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	FindByExternalID(ctx context.Context, externalID string) (*WorkOrder, error)
	FindAll(ctx context.Context, filter Filter) ([]WorkOrder, int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	Save(ctx context.Context, wo *WorkOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageRepository defines persistence operations for work order images
type ImageRepository interface {
	FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]Image, error)
	Save(ctx context.Context, image *Image) error
	// SaveLinked stores linked images, skipping URLs already attached to the work order.
	// Returns the number of images inserted.
	SaveLinked(ctx context.Context, workOrderID uuid.UUID, urls []string) (int, error)
}
