package persistence

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTechnicianRepository implements workforce.TechnicianRepository using GORM
type GormTechnicianRepository struct {
	db *gorm.DB
}

// NewGormTechnicianRepository creates a new GormTechnicianRepository
func NewGormTechnicianRepository(db *gorm.DB) *GormTechnicianRepository {
	return &GormTechnicianRepository{db: db}
}

// FindByID finds a technician by ID
func (r *GormTechnicianRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.Technician, error) {
	var t workforce.Technician
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll lists technicians matching the filter
func (r *GormTechnicianRepository) FindAll(ctx context.Context, filter workforce.TechnicianFilter) ([]workforce.Technician, int64, error) {
	var total int64
	if err := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&workforce.Technician{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	technicians := []workforce.Technician{}
	if total == 0 {
		return technicians, 0, nil
	}

	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&workforce.Technician{}), filter)
	if filter.Paged() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderDir := "ASC"
	if filter.OrderDir != "" {
		orderDir = ValidateSortOrder(filter.OrderDir)
	}
	query = query.Order(ValidateSortField(filter.OrderBy, TechnicianSortFields, "name") + " " + orderDir)

	if err := query.Find(&technicians).Error; err != nil {
		return nil, 0, err
	}
	return technicians, total, nil
}

// FindByIDs returns the technicians with the given ids
func (r *GormTechnicianRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]workforce.Technician, error) {
	if len(ids) == 0 {
		return []workforce.Technician{}, nil
	}

	var technicians []workforce.Technician
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&technicians).Error; err != nil {
		return nil, err
	}
	return technicians, nil
}

// Save creates or updates a technician
func (r *GormTechnicianRepository) Save(ctx context.Context, t *workforce.Technician) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete deletes a technician
func (r *GormTechnicianRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&workforce.Technician{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormTechnicianRepository) applyFilterWithoutPagination(query *gorm.DB, filter workforce.TechnicianFilter) *gorm.DB {
	if filter.SupervisorID != uuid.Nil {
		query = query.Where("supervisor_id = ?", filter.SupervisorID)
	}
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	return query
}

var _ workforce.TechnicianRepository = (*GormTechnicianRepository)(nil)
