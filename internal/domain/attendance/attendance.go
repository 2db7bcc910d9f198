package attendance

import (
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DateLayout is the wire and storage layout of attendance dates
const DateLayout = "2006-01-02"

// Status is a technician's attendance on a given day
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusExcused Status = "excused"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

// Record is one technician's attendance for one day
type Record struct {
	shared.BaseEntity
	TechnicianID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_technician_date,priority:1"`
	SupervisorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_technician_date,priority:2;index"`
	Status       Status    `gorm:"type:varchar(20);not null"`
	Note         string    `gorm:"type:text"`

	// TechnicianName is resolved when reading history and never persisted
	TechnicianName string `gorm:"-"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "attendance_records"
}

// NewRecord creates an attendance record. The date is truncated to the calendar day.
func NewRecord(supervisorID, technicianID uuid.UUID, date time.Time, status Status) (*Record, error) {
	if supervisorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPERVISOR", "Supervisor ID cannot be empty")
	}
	if technicianID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TECHNICIAN", "Technician ID cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_ATTENDANCE_STATUS", "Status must be one of present, absent, excused")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Date cannot be empty")
	}

	return &Record{
		BaseEntity:   shared.NewBaseEntity(),
		TechnicianID: technicianID,
		SupervisorID: supervisorID,
		Date:         TruncateDay(date),
		Status:       status,
	}, nil
}

// ChangeStatus updates the recorded status
func (r *Record) ChangeStatus(status Status, note string) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_ATTENDANCE_STATUS", "Status must be one of present, absent, excused")
	}
	r.Status = status
	r.Note = strings.TrimSpace(note)
	r.Touch()
	return nil
}

// DateString returns the record date as YYYY-MM-DD
func (r *Record) DateString() string {
	return r.Date.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

// TruncateDay drops the time of day, keeping the calendar date in UTC
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
