package workorder

import (
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for WorkOrder
const AggregateTypeWorkOrder = "WorkOrder"

// Event type constants for WorkOrder
const (
	EventTypeWorkOrderCreated       = "WorkOrderCreated"
	EventTypeWorkOrderStatusChanged = "WorkOrderStatusChanged"
	EventTypeWorkOrderImported      = "WorkOrderImported"
)

// WorkOrderCreatedEvent is published when a work order is created
type WorkOrderCreatedEvent struct {
	shared.BaseDomainEvent
	WorkOrderID uuid.UUID `json:"work_order_id"`
	OrderNo     string    `json:"order_no"`
	ServiceDate string    `json:"service_date"`
}

// NewWorkOrderCreatedEvent creates a new WorkOrderCreatedEvent
func NewWorkOrderCreatedEvent(wo *WorkOrder) *WorkOrderCreatedEvent {
	return &WorkOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderCreated, AggregateTypeWorkOrder, wo.ID),
		WorkOrderID:     wo.ID,
		OrderNo:         wo.OrderNo,
		ServiceDate:     wo.ServiceDate,
	}
}

// WorkOrderStatusChangedEvent is published when a supervisor changes the review status
type WorkOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	WorkOrderID uuid.UUID `json:"work_order_id"`
	OrderNo     string    `json:"order_no"`
	OldStatus   Status    `json:"old_status"`
	NewStatus   Status    `json:"new_status"`
}

// NewWorkOrderStatusChangedEvent creates a new WorkOrderStatusChangedEvent
func NewWorkOrderStatusChangedEvent(wo *WorkOrder, from, to Status) *WorkOrderStatusChangedEvent {
	return &WorkOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderStatusChanged, AggregateTypeWorkOrder, wo.ID),
		WorkOrderID:     wo.ID,
		OrderNo:         wo.OrderNo,
		OldStatus:       from,
		NewStatus:       to,
	}
}

// WorkOrderImportedEvent is published when the order import creates or refreshes a work order
type WorkOrderImportedEvent struct {
	shared.BaseDomainEvent
	WorkOrderID uuid.UUID `json:"work_order_id"`
	ExternalID  string    `json:"external_id"`
	Created     bool      `json:"created"`
	ImageCount  int       `json:"image_count"`
}

// NewWorkOrderImportedEvent creates a new WorkOrderImportedEvent
func NewWorkOrderImportedEvent(wo *WorkOrder, created bool, imageCount int) *WorkOrderImportedEvent {
	return &WorkOrderImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderImported, AggregateTypeWorkOrder, wo.ID),
		WorkOrderID:     wo.ID,
		ExternalID:      wo.GetExternalID(),
		Created:         created,
		ImageCount:      imageCount,
	}
}
