package workorder

import (
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the review status of a work order
type Status string

const (
	StatusApproved      Status = "approved"
	StatusPendingReview Status = "pending_review"
	StatusFlagged       Status = "flagged"
)

// AllStatuses lists the statuses in the order the dashboard shows them
var AllStatuses = []Status{StatusApproved, StatusPendingReview, StatusFlagged}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusApproved, StatusPendingReview, StatusFlagged:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// Driver is the driver assigned to a work order by the routing system
type Driver struct {
	Name string `json:"name,omitempty"`
}

// Location is where the work order is performed.
// The routing system fills Name/LocationName; imported store data fills StoreName/Address.
type Location struct {
	Name         string `json:"name,omitempty"`
	LocationName string `json:"locationName,omitempty"`
	StoreName    string `json:"store_name,omitempty"`
	Address      string `json:"address,omitempty"`
}

// WorkOrder is the aggregate root for a scheduled service job
type WorkOrder struct {
	shared.BaseAggregateRoot
	ExternalID      *string    `gorm:"type:varchar(100);uniqueIndex"`
	OrderNo         string     `gorm:"type:varchar(100);not null;index"`
	ServiceDate     string     `gorm:"type:varchar(32);index"` // YYYY-MM-DD, may be empty or malformed
	Status          Status     `gorm:"type:varchar(20);not null;default:'pending_review';index"`
	TechnicianID    *uuid.UUID `gorm:"type:uuid;index"`
	Driver          *Driver    `gorm:"type:jsonb;serializer:json"`
	Location        *Location  `gorm:"type:jsonb;serializer:json"`
	Notes           string     `gorm:"type:text"`
	ResolutionNotes string     `gorm:"type:text"`
	CompletionData  string     `gorm:"type:text"` // raw JSON from the routing system

	// TechnicianName is populated by repository joins and never persisted
	TechnicianName string `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (WorkOrder) TableName() string {
	return "work_orders"
}

// NewWorkOrder creates a work order awaiting review
func NewWorkOrder(orderNo, serviceDate string) (*WorkOrder, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NO", "Order number cannot be empty")
	}
	if len(orderNo) > 100 {
		return nil, shared.NewDomainError("INVALID_ORDER_NO", "Order number cannot exceed 100 characters")
	}

	wo := &WorkOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNo:           orderNo,
		ServiceDate:       strings.TrimSpace(serviceDate),
		Status:            StatusPendingReview,
	}

	wo.AddDomainEvent(NewWorkOrderCreatedEvent(wo))

	return wo, nil
}

// SetExternalID links the work order to its routing system order id
func (w *WorkOrder) SetExternalID(externalID string) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		w.ExternalID = nil
		return
	}
	w.ExternalID = &externalID
}

// GetExternalID returns the external id or an empty string
func (w *WorkOrder) GetExternalID() string {
	if w.ExternalID == nil {
		return ""
	}
	return *w.ExternalID
}

// AssignTechnician sets or clears the responsible technician
func (w *WorkOrder) AssignTechnician(technicianID *uuid.UUID) {
	w.TechnicianID = technicianID
	w.Touch()
}

// SetDetails replaces the routing details shown on the dashboard
func (w *WorkOrder) SetDetails(driver *Driver, location *Location, notes string) {
	w.Driver = driver
	w.Location = location
	w.Notes = notes
	w.Touch()
}

// SetCompletionData stores the raw completion payload from the routing system
func (w *WorkOrder) SetCompletionData(raw string) {
	w.CompletionData = raw
	w.Touch()
}

// UpdateStatus moves the work order to a new review status
func (w *WorkOrder) UpdateStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Status must be one of approved, pending_review, flagged")
	}
	if w.Status == status {
		return shared.NewDomainError("INVALID_STATE", "Work order already has status "+status.String())
	}

	from := w.Status
	w.Status = status
	w.MarkModified()

	w.AddDomainEvent(NewWorkOrderStatusChangedEvent(w, from, status))

	return nil
}

// Approve marks the work order as approved
func (w *WorkOrder) Approve() error {
	return w.UpdateStatus(StatusApproved)
}

// Flag marks the work order for follow-up
func (w *WorkOrder) Flag() error {
	return w.UpdateStatus(StatusFlagged)
}

// UpdateResolutionNotes saves the supervisor's resolution notes. Empty notes clear them.
func (w *WorkOrder) UpdateResolutionNotes(notes string) error {
	if len(notes) > 10000 {
		return shared.NewDomainError("INVALID_NOTES", "Resolution notes cannot exceed 10000 characters")
	}
	w.ResolutionNotes = notes
	w.MarkModified()
	return nil
}

// DriverName returns the display name of the driver
func (w *WorkOrder) DriverName() string {
	if w.Driver == nil {
		return "No Driver Assigned"
	}
	if w.Driver.Name != "" {
		return w.Driver.Name
	}
	return "No Driver Name"
}

// LocationName returns the display name of the location
func (w *WorkOrder) LocationName() string {
	if w.Location == nil {
		return "N/A"
	}
	if w.Location.Name != "" {
		return w.Location.Name
	}
	if w.Location.LocationName != "" {
		return w.Location.LocationName
	}
	return "N/A"
}

// ParsedServiceDate parses the service date. ok is false for empty or malformed dates.
func (w *WorkOrder) ParsedServiceDate() (t time.Time, ok bool) {
	return ParseServiceDate(w.ServiceDate)
}

// serviceDateLayouts are the layouts accepted for service dates, most specific last
var serviceDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseServiceDate parses a service date string in any accepted layout
func ParseServiceDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range serviceDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
