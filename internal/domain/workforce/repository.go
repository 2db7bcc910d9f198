package workforce

import (
	"context"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TechnicianFilter narrows technician listings
type TechnicianFilter struct {
	shared.Filter
	SupervisorID uuid.UUID
	GroupID      *uuid.UUID
	ActiveOnly   bool
}

// TechnicianRepository defines persistence operations for technicians
type TechnicianRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Technician, error)
	FindAll(ctx context.Context, filter TechnicianFilter) ([]Technician, int64, error)
	// FindByIDs returns the technicians with the given ids; missing ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Technician, error)
	Save(ctx context.Context, t *Technician) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupRepository defines persistence operations for technician groups
type GroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Group, error)
	FindByName(ctx context.Context, name string) (*Group, error)
	FindAll(ctx context.Context) ([]Group, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, g *Group) error
	// EnsureUnassigned returns the Unassigned group, creating it when missing
	EnsureUnassigned(ctx context.Context) (*Group, error)
	// DeleteAndReassign moves every member of groupID into unassignedID and
	// deletes the group in a single transaction. Returns the number of moved technicians.
	DeleteAndReassign(ctx context.Context, groupID, unassignedID uuid.UUID) (int64, error)
}
