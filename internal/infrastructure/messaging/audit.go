package messaging

import (
	"log/slog"

	"github.com/deutschflow/deutschflow-hub/internal/domain/shared"
)

// AuditLogHandler writes every domain event to the structured log.
// Subscribed globally so the operational trail covers all transitions.
type AuditLogHandler struct {
	logger *slog.Logger
}

// NewAuditLogHandler creates the handler.
func NewAuditLogHandler(logger *slog.Logger) *AuditLogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogHandler{logger: logger}
}

// Handle logs the event.
func (h *AuditLogHandler) Handle(event shared.Event) error {
	h.logger.Info("domain event",
		"event_type", event.EventType(),
		"aggregate_id", event.AggregateID(),
		"occurred_at", event.OccurredAt(),
		"payload", event.Payload(),
	)
	return nil
}

// Name returns the handler name for logging.
func (h *AuditLogHandler) Name() string {
	return "audit_log"
}
