// Package audit defines the structured event trail the engine emits for every
// decision it makes. Events are transport-agnostic so stores and sinks can
// fan out.
package audit

import (
	"context"
	"time"

	id "sahaay/pkg/domain"
)

// Event is emitted from domain logic to capture one decision or state change.
type Event struct {
	Timestamp time.Time
	SessionID id.SessionID
	ProgramID id.ProgramID
	Subject   string
	Action    string
	Decision  string
	Reason    string
	RequestID string
	ClientIP  string
}

type AuditEvent string

const (
	EventSessionStarted        AuditEvent = "session_started"
	EventEligibilityEvaluated  AuditEvent = "eligibility_evaluated"
	EventRequirementsResolved  AuditEvent = "requirements_resolved"
	EventDocumentValidated     AuditEvent = "document_validated"
	EventDocumentStatusRead    AuditEvent = "document_status_read"
	EventProgramsRecommended   AuditEvent = "programs_recommended"
)

// Store persists audit events. Implementations: in-memory (tests, single
// node) and PostgreSQL.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySession(ctx context.Context, sessionID id.SessionID) ([]Event, error)
}

// Emitter is the interface services depend on for audit emission.
// Satisfied by publisher.Publisher and publishers/kafka.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}
