package rules

import (
	"context"
	"errors"
)

// ErrProgramUnknown is returned by sources when no rule data exists for a
// program. The repository translates it into the empty/default case; it is
// never surfaced to callers.
var ErrProgramUnknown = errors.New("program unknown to rule source")

//go:generate mockgen -source=source.go -destination=mocks/mocks.go -package=mocks Source

// Source resolves structured rule data for a program. Implementations are the
// precomputed table and the rule extraction service client; both may be slow
// or unavailable, so calls take a context and the repository treats every
// failure as "rules unknown".
type Source interface {
	// EligibilityRules returns the structured eligibility rule set for a
	// program, or ErrProgramUnknown.
	EligibilityRules(ctx context.Context, programID string) (*RuleSet, error)

	// RequiredDocuments returns the document specs a program demands, or
	// ErrProgramUnknown.
	RequiredDocuments(ctx context.Context, programID string) ([]DocumentSpec, error)
}
