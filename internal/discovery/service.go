// Package discovery combines free-text program retrieval with per-candidate
// eligibility evaluation: the citizen describes their situation, candidate
// programs come back from the retrieval service, and each one is scored
// against their profile.
package discovery

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"sahaay/internal/eligibility"
	"sahaay/internal/retrieval"
	id "sahaay/pkg/domain"
	"sahaay/pkg/platform/audit"
	"sahaay/pkg/requestcontext"
)

// maxConcurrentEvaluations bounds the per-candidate evaluation fan-out.
const maxConcurrentEvaluations = 8

// defaultTopK is the candidate count requested when the caller does not set one.
const defaultTopK = 5

// Recommendation is one candidate program with its eligibility outcome.
type Recommendation struct {
	ProgramID id.ProgramID         `json:"program_id"`
	Score     float64              `json:"score"`
	Decision  eligibility.Decision `json:"decision"`
	Reasons   []string             `json:"reasons,omitempty"`
}

// Result splits the candidates by decision, each list ordered by retrieval
// score descending.
type Result struct {
	Eligible []Recommendation `json:"eligible"`
	Rejected []Recommendation `json:"rejected"`
}

// Evaluator is the eligibility port the discovery service consumes.
type Evaluator interface {
	Evaluate(ctx context.Context, programID id.ProgramID, profile eligibility.Profile) eligibility.Result
}

// Service runs the recommend flow.
type Service struct {
	searcher  retrieval.Searcher
	evaluator Evaluator
	auditor   audit.Emitter
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a discovery service.
// Panics if required dependencies are nil - fail fast at startup.
func New(searcher retrieval.Searcher, evaluator Evaluator, auditor audit.Emitter, opts ...Option) *Service {
	if searcher == nil {
		panic("discovery.New: searcher is required")
	}
	if evaluator == nil {
		panic("discovery.New: evaluator is required")
	}
	if auditor == nil {
		panic("discovery.New: auditor is required for the decision trail")
	}

	s := &Service{searcher: searcher, evaluator: evaluator, auditor: auditor}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend retrieves candidate programs for the query and evaluates the
// profile against each concurrently. Retrieval failure is a hard error;
// individual evaluations never fail (unknown programs evaluate as
// unconstrained).
func (s *Service) Recommend(ctx context.Context, query string, topK int, profile eligibility.Profile) (Result, error) {
	if topK <= 0 {
		topK = defaultTopK
	}

	matches, err := s.searcher.Search(ctx, query, topK)
	if err != nil {
		return Result{}, err
	}

	recommendations := make([]Recommendation, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEvaluations)
	for i, match := range matches {
		g.Go(func() error {
			result := s.evaluator.Evaluate(gctx, match.ProgramID, profile)
			recommendations[i] = Recommendation{
				ProgramID: match.ProgramID,
				Score:     match.Score,
				Decision:  result.Decision,
				Reasons:   result.Reasons,
			}
			return nil
		})
	}
	// Evaluations return no errors; Wait only orders the writes above.
	_ = g.Wait()

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	var out Result
	for _, rec := range recommendations {
		if rec.Decision == eligibility.DecisionEligible {
			out.Eligible = append(out.Eligible, rec)
		} else {
			out.Rejected = append(out.Rejected, rec)
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "programs recommended",
			"candidates", len(matches),
			"eligible", len(out.Eligible),
			"rejected", len(out.Rejected),
		)
	}

	event := audit.Event{
		SessionID: requestcontext.SessionID(ctx),
		Action:    string(audit.EventProgramsRecommended),
		Reason:    strconv.Itoa(len(out.Eligible)) + " eligible of " + strconv.Itoa(len(matches)) + " candidates",
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}

	return out, nil
}
