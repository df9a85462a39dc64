package discovery_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahaay/internal/discovery"
	"sahaay/internal/eligibility"
	"sahaay/internal/retrieval"
	id "sahaay/pkg/domain"
	auditmemory "sahaay/pkg/platform/audit/store/memory"
	"sahaay/pkg/platform/audit/publisher"
)

// stubSearcher serves fixed matches and records the last query.
type stubSearcher struct {
	matches   []retrieval.Match
	err       error
	lastQuery string
	lastTopK  int
}

func (s *stubSearcher) Search(_ context.Context, query string, topK int) ([]retrieval.Match, error) {
	s.lastQuery = query
	s.lastTopK = topK
	return s.matches, s.err
}

// stubEvaluator maps programs to fixed results and counts concurrent calls.
type stubEvaluator struct {
	mu      sync.Mutex
	results map[id.ProgramID]eligibility.Result
	calls   []id.ProgramID
}

func (e *stubEvaluator) Evaluate(_ context.Context, programID id.ProgramID, _ eligibility.Profile) eligibility.Result {
	e.mu.Lock()
	e.calls = append(e.calls, programID)
	e.mu.Unlock()
	if r, ok := e.results[programID]; ok {
		return r
	}
	return eligibility.Result{Decision: eligibility.DecisionEligible}
}

func newService(searcher *stubSearcher, evaluator *stubEvaluator) *discovery.Service {
	auditor := publisher.NewPublisher(auditmemory.NewInMemoryStore())
	return discovery.New(searcher, evaluator, auditor)
}

func TestRecommendSplitsByDecision(t *testing.T) {
	searcher := &stubSearcher{matches: []retrieval.Match{
		{ProgramID: "widow-pension", Score: 0.91},
		{ProgramID: "pm-kisan", Score: 0.42},
		{ProgramID: "old-age-pension", Score: 0.30},
	}}
	evaluator := &stubEvaluator{results: map[id.ProgramID]eligibility.Result{
		"pm-kisan": {
			Decision: eligibility.DecisionRejected,
			Reasons:  []string{"User occupation 'teacher' does not match required 'farmer'"},
		},
	}}

	result, err := newService(searcher, evaluator).Recommend(context.Background(), "pension support", 3, eligibility.Profile{Age: 62})
	require.NoError(t, err)

	require.Len(t, result.Eligible, 2)
	assert.Equal(t, id.ProgramID("widow-pension"), result.Eligible[0].ProgramID)
	assert.Equal(t, id.ProgramID("old-age-pension"), result.Eligible[1].ProgramID)

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, id.ProgramID("pm-kisan"), result.Rejected[0].ProgramID)
	assert.Contains(t, result.Rejected[0].Reasons[0], "occupation")

	assert.Len(t, evaluator.calls, 3)
	assert.Equal(t, "pension support", searcher.lastQuery)
	assert.Equal(t, 3, searcher.lastTopK)
}

func TestRecommendOrdersByScore(t *testing.T) {
	// Retrieval order is not trusted; the result is re-sorted by score.
	searcher := &stubSearcher{matches: []retrieval.Match{
		{ProgramID: "low", Score: 0.2},
		{ProgramID: "high", Score: 0.9},
		{ProgramID: "mid", Score: 0.5},
	}}

	result, err := newService(searcher, &stubEvaluator{}).Recommend(context.Background(), "anything", 0, eligibility.Profile{})
	require.NoError(t, err)
	require.Len(t, result.Eligible, 3)
	assert.Equal(t, id.ProgramID("high"), result.Eligible[0].ProgramID)
	assert.Equal(t, id.ProgramID("mid"), result.Eligible[1].ProgramID)
	assert.Equal(t, id.ProgramID("low"), result.Eligible[2].ProgramID)
}

func TestRecommendDefaultTopK(t *testing.T) {
	searcher := &stubSearcher{}
	_, err := newService(searcher, &stubEvaluator{}).Recommend(context.Background(), "anything", 0, eligibility.Profile{})
	require.NoError(t, err)
	assert.Equal(t, 5, searcher.lastTopK)
}

func TestRecommendRetrievalFailure(t *testing.T) {
	searcher := &stubSearcher{err: assert.AnError}
	_, err := newService(searcher, &stubEvaluator{}).Recommend(context.Background(), "anything", 5, eligibility.Profile{})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRecommendNoCandidates(t *testing.T) {
	result, err := newService(&stubSearcher{}, &stubEvaluator{}).Recommend(context.Background(), "anything", 5, eligibility.Profile{})
	require.NoError(t, err)
	assert.Empty(t, result.Eligible)
	assert.Empty(t, result.Rejected)
}

func TestNewPanicsOnNilDependencies(t *testing.T) {
	auditor := publisher.NewPublisher(auditmemory.NewInMemoryStore())
	assert.Panics(t, func() { discovery.New(nil, &stubEvaluator{}, auditor) })
	assert.Panics(t, func() { discovery.New(&stubSearcher{}, nil, auditor) })
	assert.Panics(t, func() { discovery.New(&stubSearcher{}, &stubEvaluator{}, nil) })
}
