package material

import (
	"context"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter narrows material listings
type Filter struct {
	shared.Filter
	Type        string
	WorkOrderID *uuid.UUID
}

// Repository defines persistence operations for material items
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindAll(ctx context.Context, filter Filter) ([]Item, int64, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}
