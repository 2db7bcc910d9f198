package identity

import (
	"context"

	"github.com/google/uuid"
)

// SupervisorRepository defines the interface for supervisor persistence
type SupervisorRepository interface {
	// FindByID finds a supervisor by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supervisor, error)

	// FindByEmail finds a supervisor by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*Supervisor, error)

	// Save creates or updates a supervisor
	Save(ctx context.Context, supervisor *Supervisor) error
}
