package events

import (
	"context"
	"log/slog"
)

// AuditLogHandler writes every game event to the structured log. It is the
// default handler registered at startup so session activity is traceable
// without a dedicated analytics backend.
type AuditLogHandler struct {
	logger *slog.Logger
}

var _ EventHandler = (*AuditLogHandler)(nil)

// NewAuditLogHandler creates an AuditLogHandler writing to the given logger.
func NewAuditLogHandler(logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		logger: logger.With("component", "game_event_audit"),
	}
}

// HandleEvent implements EventHandler.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *GameEvent) error {
	h.logger.InfoContext(ctx, "game event",
		"event_id", event.ID,
		"event_type", event.Type,
		"session_id", event.SessionID,
		"user_id", event.UserID,
		"payload", string(event.Payload),
		"occurred_at", event.OccurredAt)
	return nil
}
