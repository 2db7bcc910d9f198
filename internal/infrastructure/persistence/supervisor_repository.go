package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fieldops/backend/internal/domain/identity"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupervisorRepository implements identity.SupervisorRepository using GORM
type GormSupervisorRepository struct {
	db *gorm.DB
}

// NewGormSupervisorRepository creates a new GormSupervisorRepository
func NewGormSupervisorRepository(db *gorm.DB) *GormSupervisorRepository {
	return &GormSupervisorRepository{db: db}
}

// FindByID finds a supervisor by ID
func (r *GormSupervisorRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Supervisor, error) {
	var s identity.Supervisor
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByEmail finds a supervisor by email. Emails are stored lowercased.
func (r *GormSupervisorRepository) FindByEmail(ctx context.Context, email string) (*identity.Supervisor, error) {
	var s identity.Supervisor
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Save creates or updates a supervisor
func (r *GormSupervisorRepository) Save(ctx context.Context, supervisor *identity.Supervisor) error {
	return r.db.WithContext(ctx).Save(supervisor).Error
}

var _ identity.SupervisorRepository = (*GormSupervisorRepository)(nil)
