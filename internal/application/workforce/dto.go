package workforce

import (
	"time"

	"github.com/fieldops/backend/internal/domain/workforce"
	"github.com/google/uuid"
)

// CreateTechnicianRequest represents a request to add a technician
type CreateTechnicianRequest struct {
	Name    string     `json:"name" binding:"required,notblank,max=200"`
	Email   string     `json:"email" binding:"omitempty,email,max=200"`
	Phone   string     `json:"phone" binding:"omitempty,max=50"`
	GroupID *uuid.UUID `json:"group_id"`
}

// UpdateTechnicianRequest represents a partial technician update
type UpdateTechnicianRequest struct {
	Name    *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Email   *string    `json:"email" binding:"omitempty,max=200"`
	Phone   *string    `json:"phone" binding:"omitempty,max=50"`
	GroupID *uuid.UUID `json:"group_id"`
	Active  *bool      `json:"active"`
}

// TechnicianListFilter represents technician list query parameters
type TechnicianListFilter struct {
	Search     string `form:"search"`
	GroupID    string `form:"group_id" binding:"omitempty,uuid"`
	ActiveOnly bool   `form:"active_only"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=name email created_at updated_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// TechnicianResponse represents a technician in API responses
type TechnicianResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	SupervisorID uuid.UUID  `json:"supervisor_id"`
	GroupID      *uuid.UUID `json:"group_id"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// GroupRequest represents a request to add or update a group
type GroupRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// GroupResponse represents a technician group in API responses
type GroupResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IsUnassigned bool      `json:"is_unassigned"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RemoveGroupResponse reports a group removal
type RemoveGroupResponse struct {
	ReassignedCount int64           `json:"reassigned_count"`
	Groups          []GroupResponse `json:"groups"`
}

// ToTechnicianResponse converts a domain Technician to a response DTO
func ToTechnicianResponse(t *workforce.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:           t.ID,
		Name:         t.Name,
		Email:        t.Email,
		Phone:        t.Phone,
		SupervisorID: t.SupervisorID,
		GroupID:      t.GroupID,
		Active:       t.Active,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// ToTechnicianResponses converts a slice of technicians
func ToTechnicianResponses(techs []workforce.Technician) []TechnicianResponse {
	out := make([]TechnicianResponse, len(techs))
	for i := range techs {
		out[i] = ToTechnicianResponse(&techs[i])
	}
	return out
}

// ToGroupResponse converts a domain Group to a response DTO
func ToGroupResponse(g *workforce.Group) GroupResponse {
	return GroupResponse{
		ID:           g.ID,
		Name:         g.Name,
		Description:  g.Description,
		IsUnassigned: g.IsUnassigned(),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

// ToGroupResponses converts a slice of groups
func ToGroupResponses(groups []workforce.Group) []GroupResponse {
	out := make([]GroupResponse, len(groups))
	for i := range groups {
		out[i] = ToGroupResponse(&groups[i])
	}
	return out
}
