package material

import (
	"time"

	"github.com/fieldops/backend/internal/domain/material"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRequest represents a request to create or replace a material item
type ItemRequest struct {
	Type        string          `json:"type" binding:"required,notblank,max=100"`
	WorkOrderID *uuid.UUID      `json:"work_order_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ListFilter represents material list query parameters
type ListFilter struct {
	Type        string `form:"type" binding:"omitempty,max=100"`
	WorkOrderID string `form:"work_order_id" binding:"omitempty,uuid"`
	Search      string `form:"search"`
	OrderBy     string `form:"order_by" binding:"omitempty,oneof=type quantity created_at updated_at"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// ItemResponse represents a material item in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Label       string          `json:"label"`
	WorkOrderID *uuid.UUID      `json:"work_order_id"`
	WorkOrder   string          `json:"work_order"`
	Quantity    decimal.Decimal `json:"quantity"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SummaryResponse is the total quantity of one display label
type SummaryResponse struct {
	Label     string          `json:"label"`
	Quantity  decimal.Decimal `json:"quantity"`
	ItemCount int             `json:"item_count"`
}

// ToItemResponse converts a domain Item to a response DTO
func ToItemResponse(i *material.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Type:        i.Type,
		Label:       i.Label(),
		WorkOrderID: i.WorkOrderID,
		WorkOrder:   i.WorkOrderDisplay(),
		Quantity:    i.Quantity,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// ToItemResponses converts a slice of items
func ToItemResponses(items []material.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out
}

// ToSummaryResponses converts label totals
func ToSummaryResponses(totals []material.LabelTotal) []SummaryResponse {
	out := make([]SummaryResponse, len(totals))
	for i, t := range totals {
		out[i] = SummaryResponse{Label: t.Label, Quantity: t.Quantity, ItemCount: t.ItemCount}
	}
	return out
}
