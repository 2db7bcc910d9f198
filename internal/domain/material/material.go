package material

import (
	"strings"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnknownWorkOrder is displayed for materials not linked to a work order
const UnknownWorkOrder = "Unknown"

// Item is a quantity of one material type used on a job
type Item struct {
	shared.BaseAggregateRoot
	Type        string          `gorm:"type:varchar(100);not null;index"`
	WorkOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "material_items"
}

// NewItem creates a material item
func NewItem(materialType string, workOrderID *uuid.UUID, quantity decimal.Decimal) (*Item, error) {
	materialType = strings.TrimSpace(materialType)
	if err := validateType(materialType); err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              materialType,
		WorkOrderID:       workOrderID,
		Quantity:          quantity,
	}, nil
}

// Update replaces type, work order and quantity
func (i *Item) Update(materialType string, workOrderID *uuid.UUID, quantity decimal.Decimal) error {
	materialType = strings.TrimSpace(materialType)
	if err := validateType(materialType); err != nil {
		return err
	}
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	i.Type = materialType
	i.WorkOrderID = workOrderID
	i.Quantity = quantity
	i.MarkModified()
	return nil
}

// Label returns the display label of the item's type
func (i *Item) Label() string {
	return TypeLabel(i.Type)
}

// WorkOrderDisplay returns the work order id, or Unknown when missing
func (i *Item) WorkOrderDisplay() string {
	if i.WorkOrderID == nil || *i.WorkOrderID == uuid.Nil {
		return UnknownWorkOrder
	}
	return i.WorkOrderID.String()
}

// TypeLabel maps a raw material type code to its display label.
// Rules are checked in order and are case-sensitive; unmatched codes are returned as-is.
func TypeLabel(materialType string) string {
	switch {
	case strings.Contains(materialType, "FREEZER"), strings.Contains(materialType, "FREEZECOOL"):
		return "Freezer Filter"
	case strings.Contains(materialType, "COOLER"):
		return "Cooler Filter"
	case strings.Contains(materialType, "CONDCOIL"):
		return "Condenser Coil"
	case strings.HasPrefix(materialType, "G"):
		return "Standard Filter"
	case strings.HasPrefix(materialType, "S"):
		return "Specialty Filter"
	case materialType == "P-TRAP":
		return "P-Trap"
	case materialType == "PRODUCE":
		return "Produce Filter"
	}
	return materialType
}

func validateType(materialType string) error {
	if materialType == "" {
		return shared.NewDomainError("INVALID_MATERIAL_TYPE", "Material type cannot be empty")
	}
	if len(materialType) > 100 {
		return shared.NewDomainError("INVALID_MATERIAL_TYPE", "Material type cannot exceed 100 characters")
	}
	return nil
}

func validateQuantity(q decimal.Decimal) error {
	if q.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	return nil
}
