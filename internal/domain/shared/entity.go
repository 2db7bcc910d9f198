package shared

import (
	"time"

	"github.com/google/uuid"
)

// Now is the clock used for entity timestamps. Timestamps are kept in UTC.
var Now = func() time.Time {
	return time.Now().UTC()
}

// Entity is anything with an identity and audit timestamps
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries the uuid primary key and the created/updated columns
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity assigns a fresh id and stamps both timestamps with the same instant
func NewBaseEntity() BaseEntity {
	now := Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Touch bumps the update timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = Now()
}
