package event

import (
	"context"
	"encoding/json"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditLogHandler writes every domain event to the log as a JSON payload
type AuditLogHandler struct{}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler() *AuditLogHandler {
	return &AuditLogHandler{}
}

// EventTypes subscribes to all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event
func (h *AuditLogHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	logger.L(ctx).Info("Domain event",
		zap.String("event_type", ev.EventType()),
		zap.String("aggregate_type", ev.AggregateType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
		zap.Time("occurred_at", ev.OccurredAt()),
		zap.ByteString("payload", payload),
	)
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
