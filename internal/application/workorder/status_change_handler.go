package workorder

import (
	"context"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workorder"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// StatusChangeRecorder records review status transitions
type StatusChangeRecorder interface {
	RecordStatusChange(ctx context.Context, from, to string)
}

// StatusChangeHandler logs and counts work order status changes
type StatusChangeHandler struct {
	recorder StatusChangeRecorder
}

// NewStatusChangeHandler creates a handler; recorder may be nil
func NewStatusChangeHandler(recorder StatusChangeRecorder) *StatusChangeHandler {
	return &StatusChangeHandler{recorder: recorder}
}

// EventTypes implements shared.EventHandler
func (h *StatusChangeHandler) EventTypes() []string {
	return []string{workorder.EventTypeWorkOrderStatusChanged}
}

// Handle implements shared.EventHandler
func (h *StatusChangeHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*workorder.WorkOrderStatusChangedEvent)
	if !ok {
		return nil
	}

	logger.L(ctx).Info("Work order status changed",
		zap.String("work_order_id", changed.WorkOrderID.String()),
		zap.String("order_no", changed.OrderNo),
		zap.String("from", changed.OldStatus.String()),
		zap.String("to", changed.NewStatus.String()),
	)
	if h.recorder != nil {
		h.recorder.RecordStatusChange(ctx, changed.OldStatus.String(), changed.NewStatus.String())
	}
	return nil
}

var _ shared.EventHandler = (*StatusChangeHandler)(nil)
