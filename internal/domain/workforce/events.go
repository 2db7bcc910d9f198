package workforce

import (
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeTechnician = "Technician"
	AggregateTypeGroup      = "TechnicianGroup"
)

// Event type constants
const (
	EventTypeTechnicianCreated = "TechnicianCreated"
	EventTypeGroupCreated      = "GroupCreated"
	EventTypeGroupDeleted      = "GroupDeleted"
)

// TechnicianCreatedEvent is published when a technician is added
type TechnicianCreatedEvent struct {
	shared.BaseDomainEvent
	TechnicianID uuid.UUID `json:"technician_id"`
	SupervisorID uuid.UUID `json:"supervisor_id"`
	Name         string    `json:"name"`
}

// NewTechnicianCreatedEvent creates a new TechnicianCreatedEvent
func NewTechnicianCreatedEvent(t *Technician) *TechnicianCreatedEvent {
	return &TechnicianCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTechnicianCreated, AggregateTypeTechnician, t.ID),
		TechnicianID:    t.ID,
		SupervisorID:    t.SupervisorID,
		Name:            t.Name,
	}
}

// GroupCreatedEvent is published when a group is added
type GroupCreatedEvent struct {
	shared.BaseDomainEvent
	GroupID uuid.UUID `json:"group_id"`
	Name    string    `json:"name"`
}

// NewGroupCreatedEvent creates a new GroupCreatedEvent
func NewGroupCreatedEvent(g *Group) *GroupCreatedEvent {
	return &GroupCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGroupCreated, AggregateTypeGroup, g.ID),
		GroupID:         g.ID,
		Name:            g.Name,
	}
}

// GroupDeletedEvent is published after a group is removed and its members reassigned
type GroupDeletedEvent struct {
	shared.BaseDomainEvent
	GroupID           uuid.UUID `json:"group_id"`
	Name              string    `json:"name"`
	ReassignedTo      uuid.UUID `json:"reassigned_to"`
	ReassignedMembers int64     `json:"reassigned_members"`
}

// NewGroupDeletedEvent creates a new GroupDeletedEvent
func NewGroupDeletedEvent(g *Group, unassignedID uuid.UUID, moved int64) *GroupDeletedEvent {
	return &GroupDeletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeGroupDeleted, AggregateTypeGroup, g.ID),
		GroupID:           g.ID,
		Name:              g.Name,
		ReassignedTo:      unassignedID,
		ReassignedMembers: moved,
	}
}
