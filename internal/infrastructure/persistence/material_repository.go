package persistence

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/material"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMaterialRepository implements material.Repository using GORM
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// FindByID finds a material item by ID
func (r *GormMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.Item, error) {
	var item material.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll lists material items matching the filter
func (r *GormMaterialRepository) FindAll(ctx context.Context, filter material.Filter) ([]material.Item, int64, error) {
	base := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&material.Item{})
		if filter.Type != "" {
			query = query.Where("type = ?", filter.Type)
		}
		if filter.WorkOrderID != nil {
			query = query.Where("work_order_id = ?", *filter.WorkOrderID)
		}
		if filter.Search != "" {
			query = query.Where("type ILIKE ?", "%"+filter.Search+"%")
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := []material.Item{}
	if total == 0 {
		return items, 0, nil
	}

	query := base()
	if filter.Paged() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	query = query.Order(ValidateSortField(filter.OrderBy, MaterialSortFields, "created_at") + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Save creates or updates a material item
func (r *GormMaterialRepository) Save(ctx context.Context, item *material.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes a material item
func (r *GormMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&material.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ material.Repository = (*GormMaterialRepository)(nil)
