package rules

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"sahaay/internal/rules/metrics"
	id "sahaay/pkg/domain"
)

// defaultRequirements is the fallback document set applied when no source
// knows a program's documents. Three generic documents every scheme in
// practice asks for.
func defaultRequirements() map[string]Requirement {
	return map[string]Requirement{
		"aadhaar":            {Mandatory: true, Description: "Aadhaar card copy for identity verification"},
		"income_certificate": {Mandatory: true, Description: "Income certificate from local authority"},
		"photo":              {Mandatory: false, Description: "Recent passport size photograph"},
	}
}

// Repository caches per-program rule data for the process lifetime.
//
// Reads are lock-free after first resolution; population-on-miss is
// deduplicated per program so two concurrent misses on the same id produce a
// single authoritative source call. A failed or unknown resolution caches the
// empty rule set (eligibility) or the default requirement set (documents) -
// rule unavailability is never an error to callers.
type Repository struct {
	source  Source
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu       sync.RWMutex
	ruleSets map[id.ProgramID]*RuleSet
	docs     map[id.ProgramID]map[string]Requirement
	group    singleflight.Group
}

// RepositoryOption configures the Repository.
type RepositoryOption func(*Repository)

// WithMetrics sets the metrics collector for the repository.
func WithMetrics(m *metrics.Metrics) RepositoryOption {
	return func(r *Repository) {
		r.metrics = m
	}
}

// WithLogger sets the logger for the repository.
func WithLogger(l *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		r.logger = l
	}
}

// NewRepository creates a repository over the given source.
// Panics if the source is nil - fail fast at startup.
func NewRepository(source Source, opts ...RepositoryOption) *Repository {
	if source == nil {
		panic("rules.NewRepository: source is required")
	}
	r := &Repository{
		source:   source,
		ruleSets: make(map[id.ProgramID]*RuleSet),
		docs:     make(map[id.ProgramID]map[string]Requirement),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EligibilityRules returns the cached rule set for a program, resolving it
// from the source on first access. An unknown or failing source yields the
// empty rule set, meaning "no constraints known - do not reject".
func (r *Repository) EligibilityRules(ctx context.Context, programID id.ProgramID) *RuleSet {
	r.mu.RLock()
	rs, ok := r.ruleSets[programID]
	r.mu.RUnlock()
	if ok {
		r.metrics.RecordHit("eligibility")
		return rs
	}
	r.metrics.RecordMiss("eligibility")

	v, _, _ := r.group.Do("eligibility:"+programID.String(), func() (any, error) {
		// Re-check under the flight: a concurrent caller may have populated.
		r.mu.RLock()
		cached, ok := r.ruleSets[programID]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		rs := r.resolveRules(ctx, programID)
		r.mu.Lock()
		r.ruleSets[programID] = rs
		r.mu.Unlock()
		return rs, nil
	})
	return v.(*RuleSet)
}

// DocumentRequirements returns the cached requirement set for a program,
// keyed by normalized document key. The returned map is a copy; callers never
// mutate repository state directly.
func (r *Repository) DocumentRequirements(ctx context.Context, programID id.ProgramID) map[string]Requirement {
	r.mu.RLock()
	reqs, ok := r.docs[programID]
	r.mu.RUnlock()
	if ok {
		r.metrics.RecordHit("documents")
		return copyRequirements(reqs)
	}
	r.metrics.RecordMiss("documents")

	v, _, _ := r.group.Do("documents:"+programID.String(), func() (any, error) {
		r.mu.RLock()
		cached, ok := r.docs[programID]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		reqs := r.resolveDocuments(ctx, programID)
		r.mu.Lock()
		r.docs[programID] = reqs
		r.mu.Unlock()
		return reqs, nil
	})
	return copyRequirements(v.(map[string]Requirement))
}

func (r *Repository) resolveRules(ctx context.Context, programID id.ProgramID) *RuleSet {
	start := time.Now()
	rs, err := r.source.EligibilityRules(ctx, programID.String())
	r.metrics.ObserveResolve("eligibility", time.Since(start))

	if err != nil || rs == nil {
		r.metrics.RecordFallback("eligibility")
		if r.logger != nil {
			r.logger.InfoContext(ctx, "no eligibility rules for program, treating as unconstrained",
				"program_id", programID,
				"error", err,
			)
		}
		return &RuleSet{}
	}
	return rs
}

func (r *Repository) resolveDocuments(ctx context.Context, programID id.ProgramID) map[string]Requirement {
	start := time.Now()
	specs, err := r.source.RequiredDocuments(ctx, programID.String())
	r.metrics.ObserveResolve("documents", time.Since(start))

	if err != nil || len(specs) == 0 {
		r.metrics.RecordFallback("documents")
		if r.logger != nil {
			r.logger.InfoContext(ctx, "no document requirements for program, using defaults",
				"program_id", programID,
				"error", err,
			)
		}
		return defaultRequirements()
	}

	reqs := make(map[string]Requirement, len(specs))
	for _, spec := range specs {
		key := NormalizeDocKey(spec.Name)
		if key == "" {
			continue
		}
		reqs[key] = Requirement{Mandatory: spec.Mandatory, Description: spec.Description}
	}
	if len(reqs) == 0 {
		r.metrics.RecordFallback("documents")
		return defaultRequirements()
	}
	return reqs
}

func copyRequirements(in map[string]Requirement) map[string]Requirement {
	out := make(map[string]Requirement, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
