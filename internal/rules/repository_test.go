package rules_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sahaay/internal/rules"
	"sahaay/internal/rules/mocks"
	"sahaay/pkg/domain"
)

type RepositorySuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	source *mocks.MockSource
	repo   *rules.Repository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.source = mocks.NewMockSource(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.repo = rules.NewRepository(s.source, rules.WithLogger(logger))
}

func (s *RepositorySuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RepositorySuite) TestNewRepositoryPanicsOnNilSource() {
	s.Panics(func() {
		rules.NewRepository(nil)
	})
}

func (s *RepositorySuite) TestEligibilityRulesResolvesOnce() {
	ctx := context.Background()
	programID := domain.ProgramID("pm-kisan")

	s.source.EXPECT().
		EligibilityRules(gomock.Any(), "pm-kisan").
		Return(&rules.RuleSet{MinAge: rules.Int(18)}, nil).
		Times(1)

	first := s.repo.EligibilityRules(ctx, programID)
	minAge, ok := first.MinAge.Value()
	s.Require().True(ok)
	s.Equal(18, minAge)

	// Second call must hit the cache, not the source.
	second := s.repo.EligibilityRules(ctx, programID)
	s.Equal(first, second)
}

func (s *RepositorySuite) TestEligibilityRulesDegradesToEmptyOnSourceError() {
	ctx := context.Background()
	programID := domain.ProgramID("broken-scheme")

	s.source.EXPECT().
		EligibilityRules(gomock.Any(), "broken-scheme").
		Return(nil, errors.New("extraction pipeline down")).
		Times(1)

	rs := s.repo.EligibilityRules(ctx, programID)
	s.True(rs.IsEmpty())

	// The empty set is cached: no retry storm against a failing source.
	again := s.repo.EligibilityRules(ctx, programID)
	s.True(again.IsEmpty())
}

func (s *RepositorySuite) TestEligibilityRulesDegradesToEmptyOnUnknownProgram() {
	ctx := context.Background()

	s.source.EXPECT().
		EligibilityRules(gomock.Any(), "mystery").
		Return(nil, rules.ErrProgramUnknown).
		Times(1)

	rs := s.repo.EligibilityRules(ctx, domain.ProgramID("mystery"))
	s.True(rs.IsEmpty())
}

func (s *RepositorySuite) TestDocumentRequirementsNormalizesNames() {
	ctx := context.Background()

	s.source.EXPECT().
		RequiredDocuments(gomock.Any(), "pm-kisan").
		Return([]rules.DocumentSpec{
			{Name: "Aadhaar Card", Mandatory: true, Description: "Aadhaar Card"},
			{Name: "Land-Records", Mandatory: true, Description: "Proof of land"},
			{Name: "Photo", Mandatory: false, Description: "Photo"},
		}, nil).
		Times(1)

	reqs := s.repo.DocumentRequirements(ctx, domain.ProgramID("pm-kisan"))
	s.Require().Len(reqs, 3)
	s.True(reqs["aadhaar_card"].Mandatory)
	s.Equal("Proof of land", reqs["land_records"].Description)
	s.False(reqs["photo"].Mandatory)
}

func (s *RepositorySuite) TestDocumentRequirementsFallsBackToDefaults() {
	ctx := context.Background()

	s.source.EXPECT().
		RequiredDocuments(gomock.Any(), "unknown").
		Return(nil, rules.ErrProgramUnknown).
		Times(1)

	reqs := s.repo.DocumentRequirements(ctx, domain.ProgramID("unknown"))
	s.Require().Len(reqs, 3)
	s.True(reqs["aadhaar"].Mandatory)
	s.True(reqs["income_certificate"].Mandatory)
	s.False(reqs["photo"].Mandatory)
}

func (s *RepositorySuite) TestDocumentRequirementsReturnsCopy() {
	ctx := context.Background()

	s.source.EXPECT().
		RequiredDocuments(gomock.Any(), "pm-kisan").
		Return([]rules.DocumentSpec{{Name: "Aadhaar", Mandatory: true}}, nil).
		Times(1)

	first := s.repo.DocumentRequirements(ctx, domain.ProgramID("pm-kisan"))
	first["injected"] = rules.Requirement{Mandatory: true}

	second := s.repo.DocumentRequirements(ctx, domain.ProgramID("pm-kisan"))
	s.NotContains(second, "injected")
}

func (s *RepositorySuite) TestConcurrentMissesResolveOnce() {
	ctx := context.Background()
	programID := domain.ProgramID("pm-kisan")

	s.source.EXPECT().
		EligibilityRules(gomock.Any(), "pm-kisan").
		Return(&rules.RuleSet{MinAge: rules.Int(18)}, nil).
		MaxTimes(1)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs := s.repo.EligibilityRules(ctx, programID)
			minAge, ok := rs.MinAge.Value()
			s.True(ok)
			s.Equal(18, minAge)
		}()
	}
	wg.Wait()
}
