package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fieldops/backend/internal/domain/attendance"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAttendanceRepository implements attendance.Repository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// FindByTechnicianAndDate finds the record of a technician for one day
func (r *GormAttendanceRepository) FindByTechnicianAndDate(ctx context.Context, technicianID uuid.UUID, date time.Time) (*attendance.Record, error) {
	var rec attendance.Record
	if err := r.db.WithContext(ctx).
		Where("technician_id = ? AND date = ?", technicianID, attendance.TruncateDay(date)).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindHistory returns records ordered by date descending
func (r *GormAttendanceRepository) FindHistory(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.Record, error) {
	query := r.db.WithContext(ctx).Model(&attendance.Record{})
	if filter.SupervisorID != uuid.Nil {
		query = query.Where("supervisor_id = ?", filter.SupervisorID)
	}
	if filter.TechnicianID != nil {
		query = query.Where("technician_id = ?", *filter.TechnicianID)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", attendance.TruncateDay(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("date <= ?", attendance.TruncateDay(*filter.To))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	records := []attendance.Record{}
	if err := query.Order("date DESC, created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Upsert inserts the records or updates status and note on (technician, date) conflicts
func (r *GormAttendanceRepository) Upsert(ctx context.Context, records ...*attendance.Record) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "technician_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "note", "supervisor_id", "updated_at"}),
		}).
		Create(records).Error
}

var _ attendance.Repository = (*GormAttendanceRepository)(nil)
