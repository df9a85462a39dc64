// Package consumer persists audit events arriving on the audit topic.
package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sahaay/internal/platform/kafka/consumer"
	id "sahaay/pkg/domain"
	audit "sahaay/pkg/platform/audit"
)

// Handler processes audit events from Kafka and writes them to the audit
// store. It implements consumer.Handler.
type Handler struct {
	store  audit.Store
	logger *slog.Logger
}

// NewHandler creates a new audit event consumer handler.
func NewHandler(store audit.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// payload matches the JSON produced by publishers/kafka.
type payload struct {
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id"`
	ProgramID string `json:"program_id"`
	Subject   string `json:"subject"`
	Action    string `json:"action"`
	Decision  string `json:"decision"`
	Reason    string `json:"reason"`
	RequestID string `json:"request_id"`
	ClientIP  string `json:"client_ip"`
}

// Handle persists a single audit event. Malformed messages are logged and
// committed so they never block the partition.
func (h *Handler) Handle(ctx context.Context, msg *consumer.Message) error {
	var p payload
	if err := json.Unmarshal(msg.Value, &p); err != nil {
		h.logger.Error("failed to unmarshal audit payload",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	event := audit.Event{
		ProgramID: id.ProgramID(p.ProgramID),
		Subject:   p.Subject,
		Action:    p.Action,
		Decision:  p.Decision,
		Reason:    p.Reason,
		RequestID: p.RequestID,
		ClientIP:  p.ClientIP,
	}
	if p.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339Nano, p.Timestamp); err == nil {
			event.Timestamp = ts
		}
	}
	if p.SessionID != "" {
		if sid, err := uuid.Parse(p.SessionID); err == nil {
			event.SessionID = id.SessionID(sid)
		}
	}

	// Returning the store error skips the commit so the event is retried.
	return h.store.Append(ctx, event)
}
