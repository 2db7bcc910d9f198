package shared

// AggregateRoot is an entity that owns a consistency boundary and records
// the events raised while it was changed.
type AggregateRoot interface {
	Entity
	GetVersion() int
	MarkModified()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	PullDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot carries the version column and pending events
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot starts a fresh aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion bumps the version without touching the timestamp
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// MarkModified records a state change: UpdatedAt moves and the version is bumped
func (a *BaseAggregateRoot) MarkModified() {
	a.Touch()
	a.Version++
}

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	if event == nil {
		return
	}
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the pending events without clearing them
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// PullDomainEvents returns the pending events and clears them
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.domainEvents
	a.domainEvents = nil
	return events
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
