package documents

import (
	"context"
	"log/slog"

	"sahaay/internal/documents/metrics"
	"sahaay/internal/documents/tracer"
	"sahaay/internal/rules"
	id "sahaay/pkg/domain"
	"sahaay/pkg/platform/audit"
	"sahaay/pkg/requestcontext"
)

// reasonNotRequired is returned when a document type is submitted for a
// program that does not list it. The verdict is never recorded: the matrix
// only covers required documents.
const reasonNotRequired = "Document not required for this scheme"

// RequirementResolver resolves per-program document requirement sets.
// Satisfied by rules.Repository.
type RequirementResolver interface {
	DocumentRequirements(ctx context.Context, programID id.ProgramID) map[string]rules.Requirement
}

// Store tracks, per citizen session and program, whether the requirement set
// has been resolved and which documents have been submitted. Implementations
// live in the store subpackage, which aliases this interface as store.Store.
type Store interface {
	// Init marks the program's requirement set as resolved for the session.
	// Idempotent.
	Init(ctx context.Context, sessionID id.SessionID, programID id.ProgramID) error

	// Initialized reports whether Init has been called for the pair.
	Initialized(ctx context.Context, sessionID id.SessionID, programID id.ProgramID) (bool, error)

	// Record stores one document's submission state, replacing any prior
	// record for the same document type.
	Record(ctx context.Context, sessionID id.SessionID, programID id.ProgramID, docKey string, sub Submission) error

	// Submissions returns all recorded submissions for the pair, keyed by
	// normalized document type.
	Submissions(ctx context.Context, sessionID id.SessionID, programID id.ProgramID) (map[string]Submission, error)
}

// Service owns the document validation flow: requirement resolution,
// per-document verdicts, session-scoped submission state, and the aggregate
// status view.
type Service struct {
	resolver  RequirementResolver
	validator *Validator
	store     Store
	auditor   audit.Emitter
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithServiceTracer sets the tracer for status spans.
func WithServiceTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New creates a documents service with required dependencies.
// Panics if required dependencies are nil - fail fast at startup.
func New(resolver RequirementResolver, validator *Validator, st Store, auditor audit.Emitter, opts ...Option) *Service {
	if resolver == nil {
		panic("documents.New: requirement resolver is required")
	}
	if validator == nil {
		panic("documents.New: validator is required")
	}
	if st == nil {
		panic("documents.New: submission store is required")
	}
	if auditor == nil {
		panic("documents.New: auditor is required for the decision trail")
	}

	s := &Service{
		resolver:  resolver,
		validator: validator,
		store:     st,
		auditor:   auditor,
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Requirements resolves the program's document requirement set and marks the
// (session, program) pair as initialized, so a later status read reports
// INCOMPLETE rather than NOT_INITIALIZED.
func (s *Service) Requirements(ctx context.Context, sessionID id.SessionID, programID id.ProgramID) (map[string]rules.Requirement, error) {
	reqs := s.resolver.DocumentRequirements(ctx, programID)
	if err := s.store.Init(ctx, sessionID, programID); err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		SessionID: sessionID,
		ProgramID: programID,
		Action:    string(audit.EventRequirementsResolved),
	})
	return reqs, nil
}

// Submit validates one document and records the verdict. A document type the
// program does not require fails with a fixed reason, independent of payload
// content, and is not recorded.
func (s *Service) Submit(ctx context.Context, sessionID id.SessionID, programID id.ProgramID, docType string, payload Payload) (Verdict, error) {
	docKey := rules.NormalizeDocKey(docType)

	reqs := s.resolver.DocumentRequirements(ctx, programID)
	if err := s.store.Init(ctx, sessionID, programID); err != nil {
		return Verdict{}, err
	}

	req, required := reqs[docKey]
	if !required {
		verdict := Verdict{DocType: docType, Status: StatusFail, Reason: reasonNotRequired}
		s.metrics.IncrementValidation(payloadKind(payload), string(StatusFail))
		s.emitVerdict(ctx, sessionID, programID, docType, verdict)
		return verdict, nil
	}

	verdict := s.validator.Validate(ctx, docKey, payload)

	// Resubmission replaces, never merges.
	sub := Submission{
		Mandatory:       req.Mandatory,
		Submitted:       true,
		Status:          verdict.Status,
		Reason:          verdict.Reason,
		MatchedKeywords: verdict.MatchedKeywords,
		Confidence:      verdict.Confidence,
	}
	if err := s.store.Record(ctx, sessionID, programID, docKey, sub); err != nil {
		return Verdict{}, err
	}

	s.metrics.IncrementValidation(payloadKind(payload), string(verdict.Status))
	if payload.FilePath != "" {
		s.metrics.ObserveConfidence(verdict.Confidence)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "document validated",
			"program_id", programID,
			"doc_type", docKey,
			"status", verdict.Status,
			"confidence", verdict.Confidence,
		)
	}
	s.emitVerdict(ctx, sessionID, programID, docKey, verdict)
	return verdict, nil
}

// Status recomputes the validation matrix for the pair from current state.
func (s *Service) Status(ctx context.Context, sessionID id.SessionID, programID id.ProgramID) (ValidationMatrix, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanStatus,
		tracer.String(tracer.AttrProgramID, programID.String()),
	)

	initialized, err := s.store.Initialized(ctx, sessionID, programID)
	if err != nil {
		span.End(err)
		return ValidationMatrix{}, err
	}

	var matrix ValidationMatrix
	if !initialized {
		matrix = ComputeMatrix(nil, nil, false)
	} else {
		subs, err := s.store.Submissions(ctx, sessionID, programID)
		if err != nil {
			span.End(err)
			return ValidationMatrix{}, err
		}
		reqs := s.resolver.DocumentRequirements(ctx, programID)
		matrix = ComputeMatrix(reqs, subs, true)
	}

	s.metrics.IncrementFinalStatus(string(matrix.FinalStatus))
	s.emit(ctx, audit.Event{
		SessionID: sessionID,
		ProgramID: programID,
		Action:    string(audit.EventDocumentStatusRead),
		Decision:  string(matrix.FinalStatus),
	})
	span.SetAttributes(tracer.String(tracer.AttrStatus, string(matrix.FinalStatus)))
	span.End(nil)
	return matrix, nil
}

func (s *Service) emitVerdict(ctx context.Context, sessionID id.SessionID, programID id.ProgramID, docType string, verdict Verdict) {
	s.emit(ctx, audit.Event{
		SessionID: sessionID,
		ProgramID: programID,
		Subject:   docType,
		Action:    string(audit.EventDocumentValidated),
		Decision:  string(verdict.Status),
		Reason:    verdict.Reason,
	})
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}

func payloadKind(p Payload) string {
	if p.FilePath != "" {
		return "file"
	}
	return "value"
}
