package persistence

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGroupRepository implements workforce.GroupRepository using GORM
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// FindByID finds a group by ID
func (r *GormGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.Group, error) {
	var g workforce.Group
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// FindByName finds a group by name, case-insensitively
func (r *GormGroupRepository) FindByName(ctx context.Context, name string) (*workforce.Group, error) {
	var g workforce.Group
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// FindAll returns every group ordered by name
func (r *GormGroupRepository) FindAll(ctx context.Context) ([]workforce.Group, error) {
	groups := []workforce.Group{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// ExistsByName reports whether another group already uses name
func (r *GormGroupRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&workforce.Group{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a group
func (r *GormGroupRepository) Save(ctx context.Context, g *workforce.Group) error {
	return r.db.WithContext(ctx).Save(g).Error
}

// EnsureUnassigned returns the Unassigned group, creating it when missing
func (r *GormGroupRepository) EnsureUnassigned(ctx context.Context) (*workforce.Group, error) {
	g, err := r.FindByName(ctx, workforce.UnassignedGroupName)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	// a concurrent caller may create it first; the unique name index keeps a single row
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(workforce.NewUnassignedGroup()).Error; err != nil {
		return nil, err
	}
	return r.FindByName(ctx, workforce.UnassignedGroupName)
}

// DeleteAndReassign moves every member of groupID into unassignedID and deletes the group
func (r *GormGroupRepository) DeleteAndReassign(ctx context.Context, groupID, unassignedID uuid.UUID) (int64, error) {
	var moved int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&workforce.Technician{}).
			Where("group_id = ?", groupID).
			Update("group_id", unassignedID)
		if update.Error != nil {
			return update.Error
		}
		moved = update.RowsAffected

		result := tx.Delete(&workforce.Group{}, "id = ?", groupID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

var _ workforce.GroupRepository = (*GormGroupRepository)(nil)
