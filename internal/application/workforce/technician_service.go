package workforce

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workforce"
	"github.com/google/uuid"
)

// TechnicianService handles technician management for a supervisor
type TechnicianService struct {
	techRepo       workforce.TechnicianRepository
	groupRepo      workforce.GroupRepository
	eventPublisher shared.EventPublisher
}

// NewTechnicianService creates a new TechnicianService
func NewTechnicianService(techRepo workforce.TechnicianRepository, groupRepo workforce.GroupRepository) *TechnicianService {
	return &TechnicianService{
		techRepo:  techRepo,
		groupRepo: groupRepo,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *TechnicianService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a technician. Without a group the technician joins Unassigned.
func (s *TechnicianService) Create(ctx context.Context, supervisorID uuid.UUID, req CreateTechnicianRequest) (*TechnicianResponse, error) {
	tech, err := workforce.NewTechnician(supervisorID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := tech.SetContact(req.Email, req.Phone); err != nil {
		return nil, err
	}

	groupID, err := s.resolveGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	tech.AssignToGroup(groupID)

	if err := s.techRepo.Save(ctx, tech); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, tech.PullDomainEvents()...)
	}

	response := ToTechnicianResponse(tech)
	return &response, nil
}

// GetByID retrieves one of the supervisor's technicians
func (s *TechnicianService) GetByID(ctx context.Context, supervisorID, id uuid.UUID) (*TechnicianResponse, error) {
	tech, err := s.findOwned(ctx, supervisorID, id)
	if err != nil {
		return nil, err
	}
	response := ToTechnicianResponse(tech)
	return &response, nil
}

// List returns the supervisor's technicians
func (s *TechnicianService) List(ctx context.Context, supervisorID uuid.UUID, filter TechnicianListFilter) ([]TechnicianResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := workforce.TechnicianFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		}.WithPageDefaults(100),
		SupervisorID: supervisorID,
		ActiveOnly:   filter.ActiveOnly,
	}
	if filter.GroupID != "" {
		groupID, err := uuid.Parse(filter.GroupID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_GROUP_ID", "Group id must be a UUID")
		}
		domainFilter.GroupID = &groupID
	}

	techs, total, err := s.techRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTechnicianResponses(techs), total, nil
}

// Update applies a partial update to one of the supervisor's technicians
func (s *TechnicianService) Update(ctx context.Context, supervisorID, id uuid.UUID, req UpdateTechnicianRequest) (*TechnicianResponse, error) {
	tech, err := s.findOwned(ctx, supervisorID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := tech.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Email != nil || req.Phone != nil {
		email, phone := tech.Email, tech.Phone
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := tech.SetContact(email, phone); err != nil {
			return nil, err
		}
	}
	if req.GroupID != nil {
		groupID, err := s.resolveGroup(ctx, req.GroupID)
		if err != nil {
			return nil, err
		}
		tech.AssignToGroup(groupID)
	}
	if req.Active != nil {
		tech.SetActive(*req.Active)
	}

	if err := s.techRepo.Save(ctx, tech); err != nil {
		return nil, err
	}
	response := ToTechnicianResponse(tech)
	return &response, nil
}

// Delete removes one of the supervisor's technicians
func (s *TechnicianService) Delete(ctx context.Context, supervisorID, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, supervisorID, id); err != nil {
		return err
	}
	return s.techRepo.Delete(ctx, id)
}

// findOwned loads a technician, hiding technicians of other supervisors as not found
func (s *TechnicianService) findOwned(ctx context.Context, supervisorID, id uuid.UUID) (*workforce.Technician, error) {
	tech, err := s.techRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tech.IsOwnedBy(supervisorID) {
		return nil, shared.ErrNotFound
	}
	return tech, nil
}

// resolveGroup validates groupID, falling back to the Unassigned group when nil
func (s *TechnicianService) resolveGroup(ctx context.Context, groupID *uuid.UUID) (uuid.UUID, error) {
	if groupID == nil || *groupID == uuid.Nil {
		unassigned, err := s.groupRepo.EnsureUnassigned(ctx)
		if err != nil {
			return uuid.Nil, err
		}
		return unassigned.ID, nil
	}

	group, err := s.groupRepo.FindByID(ctx, *groupID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, shared.NewDomainError("INVALID_GROUP", "Group not found")
		}
		return uuid.Nil, err
	}
	return group.ID, nil
}
