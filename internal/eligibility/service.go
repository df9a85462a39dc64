package eligibility

import (
	"context"
	"log/slog"
	"time"

	"sahaay/internal/eligibility/metrics"
	"sahaay/internal/rules"
	id "sahaay/pkg/domain"
	"sahaay/pkg/platform/audit"
	"sahaay/pkg/requestcontext"
)

// RuleRepository resolves per-program eligibility rule sets.
// Satisfied by rules.Repository.
type RuleRepository interface {
	EligibilityRules(ctx context.Context, programID id.ProgramID) *rules.RuleSet
}

// Service orchestrates eligibility evaluations: rule resolution, matrix
// building, audit emission. The matrix itself is pure; the service owns the
// side effects around it.
type Service struct {
	repo    RuleRepository
	auditor audit.Emitter
	metrics *metrics.Metrics
	logger  *slog.Logger
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

// New creates an eligibility service with required dependencies.
// Panics if required dependencies are nil - fail fast at startup.
func New(repo RuleRepository, auditor audit.Emitter, opts ...Option) *Service {
	if repo == nil {
		panic("eligibility.New: rule repository is required")
	}
	if auditor == nil {
		panic("eligibility.New: auditor is required for the decision trail")
	}

	s := &Service{repo: repo, auditor: auditor}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate resolves the program's rules and builds the decision matrix.
func (s *Service) Evaluate(ctx context.Context, programID id.ProgramID, profile Profile) Result {
	start := time.Now()
	defer func() {
		s.metrics.ObserveEvaluateLatency(time.Since(start))
	}()

	rs := s.repo.EligibilityRules(ctx, programID)
	result := BuildMatrix(profile, rs)

	s.metrics.IncrementDecision(string(result.Decision))
	for _, entry := range result.Matrix {
		if entry.Status == StatusFail {
			s.metrics.IncrementCriterionFailure(string(entry.Criterion))
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "eligibility evaluated",
			"program_id", programID,
			"decision", result.Decision,
			"criteria_evaluated", len(result.Matrix),
			"criteria_failed", len(result.Reasons),
		)
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		SessionID: requestcontext.SessionID(ctx),
		ProgramID: programID,
		Action:    string(audit.EventEligibilityEvaluated),
		Decision:  string(result.Decision),
		Reason:    result.RejectReason(),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	}); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", audit.EventEligibilityEvaluated,
			"error", err,
		)
	}

	return result
}
