package workforce

import (
	"regexp"
	"strings"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9+\-\s()]+$`)
)

// UnknownTechnicianName is displayed for records whose technician no longer exists
const UnknownTechnicianName = "Unknown Technician"

// Technician is a field worker managed by a supervisor
type Technician struct {
	shared.BaseAggregateRoot
	Name         string     `gorm:"type:varchar(200);not null"`
	Email        string     `gorm:"type:varchar(200)"`
	Phone        string     `gorm:"type:varchar(50)"`
	SupervisorID uuid.UUID  `gorm:"type:uuid;not null;index"`
	GroupID      *uuid.UUID `gorm:"type:uuid;index"`
	Active       bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Technician) TableName() string {
	return "technicians"
}

// NewTechnician creates an active technician owned by supervisorID
func NewTechnician(supervisorID uuid.UUID, name string) (*Technician, error) {
	if supervisorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPERVISOR", "Supervisor ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if err := validateTechnicianName(name); err != nil {
		return nil, err
	}

	t := &Technician{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SupervisorID:      supervisorID,
		Active:            true,
	}
	t.AddDomainEvent(NewTechnicianCreatedEvent(t))
	return t, nil
}

// Rename changes the technician's display name
func (t *Technician) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateTechnicianName(name); err != nil {
		return err
	}
	t.Name = name
	t.MarkModified()
	return nil
}

// SetContact sets email and phone. Empty values clear them.
func (t *Technician) SetContact(email, phone string) error {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email != "" && !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if phone != "" && (len(phone) > 50 || !phoneRegex.MatchString(phone)) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
	}
	t.Email = email
	t.Phone = phone
	t.Touch()
	return nil
}

// AssignToGroup moves the technician into a group
func (t *Technician) AssignToGroup(groupID uuid.UUID) {
	if t.GroupID != nil && *t.GroupID == groupID {
		return
	}
	t.GroupID = &groupID
	t.MarkModified()
}

// SetActive toggles whether the technician shows up on attendance cards
func (t *Technician) SetActive(active bool) {
	t.Active = active
	t.Touch()
}

// IsOwnedBy reports whether the technician belongs to the supervisor
func (t *Technician) IsOwnedBy(supervisorID uuid.UUID) bool {
	return t.SupervisorID == supervisorID
}

func validateTechnicianName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_TECHNICIAN_NAME", "Technician name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_TECHNICIAN_NAME", "Technician name cannot exceed 200 characters")
	}
	return nil
}
