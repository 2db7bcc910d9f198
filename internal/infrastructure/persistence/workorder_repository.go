package persistence

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workorder"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// workOrderColumns selects work order columns plus the joined technician name
const workOrderColumns = `work_orders.*, COALESCE(technicians.name, '') AS technician_name`

// GormWorkOrderRepository implements workorder.Repository using GORM
type GormWorkOrderRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderRepository creates a new GormWorkOrderRepository
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

func (r *GormWorkOrderRepository) withTechnician(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&workorder.WorkOrder{}).
		Select(workOrderColumns).
		Joins("LEFT JOIN technicians ON technicians.id = work_orders.technician_id")
}

// FindByID finds a work order by ID
func (r *GormWorkOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	var wo workorder.WorkOrder
	if err := r.withTechnician(ctx).Where("work_orders.id = ?", id).First(&wo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

// FindByExternalID finds a work order by the routing system's order id
func (r *GormWorkOrderRepository) FindByExternalID(ctx context.Context, externalID string) (*workorder.WorkOrder, error) {
	var wo workorder.WorkOrder
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&wo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

// FindAll lists work orders matching the filter and returns the total count before pagination
func (r *GormWorkOrderRepository) FindAll(ctx context.Context, filter workorder.Filter) ([]workorder.WorkOrder, int64, error) {
	var total int64
	countQuery := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&workorder.WorkOrder{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := []workorder.WorkOrder{}
	if total == 0 {
		return orders, 0, nil
	}

	query := r.applyFilter(r.withTechnician(ctx), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CountByStatus returns the number of work orders per status
func (r *GormWorkOrderRepository) CountByStatus(ctx context.Context) ([]workorder.StatusCount, error) {
	var counts []workorder.StatusCount
	if err := r.db.WithContext(ctx).
		Model(&workorder.WorkOrder{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Save creates or updates a work order
func (r *GormWorkOrderRepository) Save(ctx context.Context, wo *workorder.WorkOrder) error {
	return r.db.WithContext(ctx).Omit("TechnicianName").Save(wo).Error
}

// Delete deletes a work order and its images
func (r *GormWorkOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_order_id = ?", id).Delete(&workorder.Image{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&workorder.WorkOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormWorkOrderRepository) applyFilter(query *gorm.DB, filter workorder.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Paged() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, WorkOrderSortFields, "service_date")
	return query.Order("work_orders." + field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormWorkOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter workorder.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(work_orders.order_no ILIKE ? OR work_orders.external_id ILIKE ?)", pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("work_orders.status = ?", filter.Status)
	}
	if filter.TechnicianID != nil {
		query = query.Where("work_orders.technician_id = ?", *filter.TechnicianID)
	}
	if filter.DateFrom != "" {
		query = query.Where("work_orders.service_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("work_orders.service_date <= ?", filter.DateTo)
	}
	return query
}

var _ workorder.Repository = (*GormWorkOrderRepository)(nil)
