package workforce

import (
	"context"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workforce"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroupService manages technician groups.
// Every mutation returns the full group list sorted by name, which is what the group manager renders.
type GroupService struct {
	groupRepo      workforce.GroupRepository
	eventPublisher shared.EventPublisher
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo workforce.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// SetEventPublisher sets the event publisher for domain events
func (s *GroupService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// EnsureUnassigned makes sure the Unassigned group exists
func (s *GroupService) EnsureUnassigned(ctx context.Context) (*GroupResponse, error) {
	g, err := s.groupRepo.EnsureUnassigned(ctx)
	if err != nil {
		return nil, err
	}
	response := ToGroupResponse(g)
	return &response, nil
}

// List returns all groups sorted by name
func (s *GroupService) List(ctx context.Context) ([]GroupResponse, error) {
	groups, err := s.groupRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	workforce.SortGroupsByName(groups)
	return ToGroupResponses(groups), nil
}

// Add creates a group and returns the updated list
func (s *GroupService) Add(ctx context.Context, req GroupRequest) ([]GroupResponse, error) {
	if workforce.IsUnassignedName(req.Name) {
		return nil, shared.NewDomainError("GROUP_NAME_RESERVED", "The name Unassigned is reserved")
	}
	g, err := workforce.NewGroup(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, g.Name, nil); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Save(ctx, g); err != nil {
		return nil, err
	}
	s.publish(ctx, g.PullDomainEvents()...)

	return s.List(ctx)
}

// Update renames or re-describes a group and returns the updated list
func (s *GroupService) Update(ctx context.Context, id uuid.UUID, req GroupRequest) ([]GroupResponse, error) {
	g, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, g.Name, &g.ID); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Save(ctx, g); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

// Remove deletes a group, moving its technicians to Unassigned in the same transaction
func (s *GroupService) Remove(ctx context.Context, id uuid.UUID) (*RemoveGroupResponse, error) {
	g, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.EnsureDeletable(); err != nil {
		return nil, err
	}

	unassigned, err := s.groupRepo.EnsureUnassigned(ctx)
	if err != nil {
		return nil, err
	}

	moved, err := s.groupRepo.DeleteAndReassign(ctx, g.ID, unassigned.ID)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Group removed",
		zap.String("group_id", g.ID.String()),
		zap.String("name", g.Name),
		zap.Int64("reassigned", moved),
	)
	s.publish(ctx, workforce.NewGroupDeletedEvent(g, unassigned.ID, moved))

	groups, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return &RemoveGroupResponse{ReassignedCount: moved, Groups: groups}, nil
}

func (s *GroupService) ensureNameAvailable(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.groupRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.AlreadyExists("A group with this name already exists")
	}
	return nil
}

func (s *GroupService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
