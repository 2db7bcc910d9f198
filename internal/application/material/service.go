package material

import (
	"context"
	"io"

	"github.com/fieldops/backend/internal/domain/material"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Spreadsheet renders material listings as a workbook
type Spreadsheet interface {
	WriteMaterials(w io.Writer, items []ItemResponse, summary []SummaryResponse) error
}

// MaterialService handles material item management
type MaterialService struct {
	repo        material.Repository
	spreadsheet Spreadsheet
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(repo material.Repository, spreadsheet Spreadsheet) *MaterialService {
	return &MaterialService{
		repo:        repo,
		spreadsheet: spreadsheet,
	}
}

// Create adds a material item
func (s *MaterialService) Create(ctx context.Context, req ItemRequest) (*ItemResponse, error) {
	item, err := material.NewItem(req.Type, nonNil(req.WorkOrderID), req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// GetByID retrieves a material item
func (s *MaterialService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// Update replaces a material item's fields
func (s *MaterialService) Update(ctx context.Context, id uuid.UUID, req ItemRequest) (*ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Update(req.Type, nonNil(req.WorkOrderID), req.Quantity); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// Delete removes a material item
func (s *MaterialService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// List returns a page of material items
func (s *MaterialService) List(ctx context.Context, filter ListFilter) ([]ItemResponse, int64, error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	domainFilter.Filter = domainFilter.Filter.WithPageDefaults(20)

	items, total, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// Summary totals every matching item per display label
func (s *MaterialService) Summary(ctx context.Context, filter ListFilter) ([]SummaryResponse, error) {
	items, err := s.all(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToSummaryResponses(material.Summarize(items)), nil
}

// Export writes every matching item and the per-label summary to w
func (s *MaterialService) Export(ctx context.Context, filter ListFilter, w io.Writer) error {
	if s.spreadsheet == nil {
		return shared.NewDomainError("EXPORT_UNAVAILABLE", "Material export is not configured")
	}
	items, err := s.all(ctx, filter)
	if err != nil {
		return err
	}
	summary := ToSummaryResponses(material.Summarize(items))
	if err := s.spreadsheet.WriteMaterials(w, ToItemResponses(items), summary); err != nil {
		return err
	}

	logger.L(ctx).Info("Materials exported",
		zap.Int("items", len(items)),
		zap.Int("labels", len(summary)),
	)
	return nil
}

// all loads every item matching filter, ignoring paging
func (s *MaterialService) all(ctx context.Context, filter ListFilter) ([]material.Item, error) {
	filter.Page, filter.PageSize = 0, 0
	if filter.OrderBy == "" {
		filter.OrderBy = "type"
		filter.OrderDir = "asc"
	}
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, err
	}
	items, _, err := s.repo.FindAll(ctx, domainFilter)
	return items, err
}

func toDomainFilter(filter ListFilter) (material.Filter, error) {
	f := material.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Type: filter.Type,
	}
	if filter.WorkOrderID != "" {
		id, err := uuid.Parse(filter.WorkOrderID)
		if err != nil {
			return material.Filter{}, shared.NewDomainError("INVALID_WORK_ORDER_ID", "Work order id must be a UUID")
		}
		f.WorkOrderID = &id
	}
	return f, nil
}

func nonNil(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}
