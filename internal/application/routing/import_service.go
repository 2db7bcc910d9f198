package routing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fieldops/backend/internal/domain/routing"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workorder"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ImportRecorder records import outcomes
type ImportRecorder interface {
	RecordImport(ctx context.Context, created, updated int)
}

// ImportService turns completed routing orders into work orders awaiting review
type ImportService struct {
	bulk           *BulkFetchService
	workOrders     workorder.Repository
	images         workorder.ImageRepository
	recorder       ImportRecorder
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewImportService creates a new ImportService; recorder may be nil
func NewImportService(bulk *BulkFetchService, workOrders workorder.Repository, images workorder.ImageRepository, recorder ImportRecorder) *ImportService {
	return &ImportService{
		bulk:       bulk,
		workOrders: workOrders,
		images:     images,
		recorder:   recorder,
		now:        time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ImportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ImportYesterday imports the previous UTC day
func (s *ImportService) ImportYesterday(ctx context.Context) (*ImportResponse, error) {
	day := s.now().UTC().AddDate(0, 0, -1).Format(routing.DateLayout)
	return s.Import(ctx, ImportRequest{StartDate: day, EndDate: day})
}

// Import fetches successfully completed orders of the range and upserts them by external id
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*ImportResponse, error) {
	query, err := routing.NewBulkQuery(req.StartDate, req.EndDate, routing.ModeWithCompletion, "", 0)
	if err != nil {
		return nil, err
	}
	result, err := s.bulk.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	resp := &ImportResponse{
		StartDate:  query.StartDate,
		EndDate:    query.EndDate,
		Fetched:    len(result.Orders),
		IsComplete: result.Progress.IsComplete,
	}
	log := logger.L(ctx)

	for _, order := range result.Orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		created, images, err := s.importOrder(ctx, order)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				log.Warn("Skipping routing order",
					zap.String("order_id", order.ID),
					zap.String("order_no", order.OrderNo),
					zap.Error(err),
				)
				resp.Skipped++
				continue
			}
			return nil, err
		}
		if created {
			resp.Created++
		} else {
			resp.Updated++
		}
		resp.Images += images
	}

	if s.recorder != nil {
		s.recorder.RecordImport(ctx, resp.Created, resp.Updated)
	}
	log.Info("Routing orders imported",
		zap.String("start_date", resp.StartDate),
		zap.String("end_date", resp.EndDate),
		zap.Int("created", resp.Created),
		zap.Int("updated", resp.Updated),
		zap.Int("skipped", resp.Skipped),
		zap.Int("images", resp.Images),
	)
	return resp, nil
}

func (s *ImportService) importOrder(ctx context.Context, order routing.Order) (created bool, images int, err error) {
	externalID := order.Key()
	if externalID == "" {
		return false, 0, shared.NewDomainError("MISSING_ORDER_ID", "Routing order has no id or order number")
	}

	wo, err := s.workOrders.FindByExternalID(ctx, externalID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		orderNo := order.OrderNo
		if orderNo == "" {
			orderNo = externalID
		}
		wo, err = workorder.NewWorkOrder(orderNo, order.Date)
		if err != nil {
			return false, 0, err
		}
		wo.SetExternalID(externalID)
		created = true
	case err != nil:
		return false, 0, err
	}

	wo.SetDetails(driverOf(order), locationOf(order), order.Notes)
	if order.Completion != nil {
		raw, err := json.Marshal(order.Completion)
		if err != nil {
			return false, 0, err
		}
		wo.SetCompletionData(string(raw))
	}

	if err := s.workOrders.Save(ctx, wo); err != nil {
		return false, 0, err
	}

	if order.Completion != nil && len(order.Completion.ImageURLs) > 0 {
		images, err = s.images.SaveLinked(ctx, wo.ID, order.Completion.ImageURLs)
		if err != nil {
			return false, 0, err
		}
	}

	events := append(wo.PullDomainEvents(), workorder.NewWorkOrderImportedEvent(wo, created, images))
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	return created, images, nil
}

func driverOf(order routing.Order) *workorder.Driver {
	if order.Schedule == nil {
		return nil
	}
	return &workorder.Driver{Name: order.Schedule.DriverName}
}

func locationOf(order routing.Order) *workorder.Location {
	loc := order.Location
	if loc == (routing.Location{}) {
		return nil
	}
	return &workorder.Location{
		Name:    loc.LocationName,
		Address: loc.Address,
	}
}
