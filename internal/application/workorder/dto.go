package workorder

import (
	"time"

	"github.com/fieldops/backend/internal/domain/workorder"
	"github.com/google/uuid"
)

// CreateWorkOrderRequest represents a request to create a work order
type CreateWorkOrderRequest struct {
	OrderNo      string              `json:"order_no" binding:"required,min=1,max=100"`
	ExternalID   string              `json:"external_id" binding:"max=100"`
	ServiceDate  string              `json:"service_date" binding:"max=32"`
	TechnicianID *uuid.UUID          `json:"technician_id"`
	Driver       *workorder.Driver   `json:"driver"`
	Location     *workorder.Location `json:"location"`
	Notes        string              `json:"notes" binding:"max=10000"`
}

// ListWorkOrdersFilter represents list query parameters
type ListWorkOrdersFilter struct {
	Search        string `form:"search"`
	Status        string `form:"status" binding:"omitempty,oneof=approved pending_review flagged"`
	TechnicianID  string `form:"technician_id" binding:"omitempty,uuid"`
	DateFrom      string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo        string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	SortField     string `form:"sort_field" binding:"omitempty,oneof=order_no service_date driver location status"`
	SortDirection string `form:"sort_direction" binding:"omitempty,oneof=asc desc"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// UpdateStatusRequest represents a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved pending_review flagged"`
}

// UpdateResolutionNotesRequest carries the supervisor's resolution notes
type UpdateResolutionNotesRequest struct {
	ResolutionNotes string `json:"resolution_notes" binding:"max=10000"`
}

// NavigateRequest asks for the neighbours of a work order in the list being reviewed
type NavigateRequest struct {
	CurrentID  uuid.UUID   `json:"current_id" binding:"required"`
	OrderedIDs []uuid.UUID `json:"ordered_ids" binding:"required,min=1"`
}

// NavigateResponse is the position of a work order in the reviewed list
type NavigateResponse struct {
	CurrentID  uuid.UUID  `json:"current_id"`
	PreviousID *uuid.UUID `json:"previous_id"`
	NextID     *uuid.UUID `json:"next_id"`
	Index      int        `json:"index"`
	Total      int        `json:"total"`
	Label      string     `json:"label"`
}

// SortStateRequest is a column header click on the table
type SortStateRequest struct {
	Field            string `json:"field" binding:"required,oneof=order_no service_date driver location status"`
	CurrentField     string `json:"current_field" binding:"omitempty,oneof=order_no service_date driver location status"`
	CurrentDirection string `json:"current_direction" binding:"omitempty,oneof=asc desc"`
}

// SortStateResponse is the resulting table sort. Empty field and direction mean unsorted.
type SortStateResponse struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// WorkOrderResponse represents a work order in API responses
type WorkOrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	ExternalID      string              `json:"external_id,omitempty"`
	OrderNo         string              `json:"order_no"`
	ServiceDate     string              `json:"service_date"`
	Status          string              `json:"status"`
	TechnicianID    *uuid.UUID          `json:"technician_id,omitempty"`
	TechnicianName  string              `json:"technician_name,omitempty"`
	Driver          *workorder.Driver   `json:"driver"`
	DriverName      string              `json:"driver_name"`
	Location        *workorder.Location `json:"location"`
	LocationName    string              `json:"location_name"`
	Notes           string              `json:"notes"`
	ResolutionNotes string              `json:"resolution_notes"`
	CompletionData  string              `json:"completion_data,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Version         int                 `json:"version"`
}

// StatusCountsResponse holds the counts shown on the status filter cards
type StatusCountsResponse struct {
	Total         int64 `json:"total"`
	Approved      int64 `json:"approved"`
	PendingReview int64 `json:"pending_review"`
	Flagged       int64 `json:"flagged"`
}

// ImageResponse represents a work order photo with a URL the browser can load
type ImageResponse struct {
	ID         uuid.UUID  `json:"id"`
	FileName   string     `json:"file_name"`
	URL        string     `json:"url"`
	StorageKey string     `json:"storage_key,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// UploadURLRequest asks for a presigned upload URL for a new photo
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp image/heic"`
}

// UploadURLResponse is a presigned upload target
type UploadURLResponse struct {
	ImageID    uuid.UUID `json:"image_id"`
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ToWorkOrderResponse converts a domain WorkOrder to a response DTO
func ToWorkOrderResponse(wo *workorder.WorkOrder) WorkOrderResponse {
	return WorkOrderResponse{
		ID:              wo.ID,
		ExternalID:      wo.GetExternalID(),
		OrderNo:         wo.OrderNo,
		ServiceDate:     wo.ServiceDate,
		Status:          wo.Status.String(),
		TechnicianID:    wo.TechnicianID,
		TechnicianName:  wo.TechnicianName,
		Driver:          wo.Driver,
		DriverName:      wo.DriverName(),
		Location:        wo.Location,
		LocationName:    wo.LocationName(),
		Notes:           wo.Notes,
		ResolutionNotes: wo.ResolutionNotes,
		CompletionData:  wo.CompletionData,
		CreatedAt:       wo.CreatedAt,
		UpdatedAt:       wo.UpdatedAt,
		Version:         wo.Version,
	}
}

// ToWorkOrderResponses converts a slice of work orders
func ToWorkOrderResponses(orders []workorder.WorkOrder) []WorkOrderResponse {
	out := make([]WorkOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToWorkOrderResponse(&orders[i])
	}
	return out
}

// ToNavigateResponse converts a domain Position
func ToNavigateResponse(pos workorder.Position) NavigateResponse {
	return NavigateResponse{
		CurrentID:  pos.Current,
		PreviousID: pos.Previous,
		NextID:     pos.Next,
		Index:      pos.Index,
		Total:      pos.Total,
		Label:      pos.Label(),
	}
}
