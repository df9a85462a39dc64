package eligibility

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahaay/internal/rules"
)

func profileAged(age int) Profile {
	return Profile{Age: age, Gender: "female", State: "bihar", Occupation: "farmer"}
}

func TestBuildMatrixEmptyRules(t *testing.T) {
	result := BuildMatrix(profileAged(30), &rules.RuleSet{})
	assert.Equal(t, DecisionEligible, result.Decision)
	assert.Empty(t, result.Matrix)
	assert.Empty(t, result.Reasons)
}

func TestBuildMatrixAgeBounds(t *testing.T) {
	rs := &rules.RuleSet{MinAge: rules.Int(18), MaxAge: rules.Int(60)}

	tests := []struct {
		age    int
		status Status
		reason string
	}{
		{17, StatusFail, "User age 17 < min_age 18"},
		{18, StatusPass, ""},
		{40, StatusPass, ""},
		{60, StatusPass, ""},
		{61, StatusFail, "User age 61 > max_age 60"},
	}

	for _, tt := range tests {
		result := BuildMatrix(profileAged(tt.age), rs)
		require.Len(t, result.Matrix, 1, "age %d", tt.age)
		entry := result.Matrix[0]
		assert.Equal(t, CriterionAge, entry.Criterion)
		assert.Equal(t, tt.status, entry.Status, "age %d", tt.age)
		assert.Equal(t, tt.reason, entry.Reason, "age %d", tt.age)
	}
}

func TestBuildMatrixAgeMinBoundReportedFirst(t *testing.T) {
	// Contradictory bounds: the min check runs first, so only its reason
	// appears even though the max bound is violated too.
	rs := &rules.RuleSet{MinAge: rules.Int(30), MaxAge: rules.Int(20)}
	result := BuildMatrix(profileAged(25), rs)
	require.Len(t, result.Matrix, 1)
	assert.Equal(t, "User age 25 < min_age 30", result.Matrix[0].Reason)
}

func TestBuildMatrixGender(t *testing.T) {
	t.Run("any sentinel always passes", func(t *testing.T) {
		rs := &rules.RuleSet{Gender: rules.FlexList{"Any"}}
		result := BuildMatrix(profileAged(30), rs)
		require.Len(t, result.Matrix, 1)
		assert.Equal(t, StatusPass, result.Matrix[0].Status)
	})

	t.Run("single value mismatch", func(t *testing.T) {
		rs := &rules.RuleSet{Gender: rules.FlexList{"Male"}}
		result := BuildMatrix(profileAged(30), rs)
		require.Len(t, result.Matrix, 1)
		assert.Equal(t, StatusFail, result.Matrix[0].Status)
		assert.Equal(t, "User gender 'female' does not match required 'male'", result.Matrix[0].Reason)
	})

	t.Run("list membership is case-insensitive", func(t *testing.T) {
		rs := &rules.RuleSet{Gender: rules.FlexList{"MALE", "Female"}}
		result := BuildMatrix(profileAged(30), rs)
		require.Len(t, result.Matrix, 1)
		assert.Equal(t, StatusPass, result.Matrix[0].Status)
	})

	t.Run("list mismatch names the allowed set", func(t *testing.T) {
		rs := &rules.RuleSet{Gender: rules.FlexList{"male", "other"}}
		result := BuildMatrix(profileAged(30), rs)
		require.Len(t, result.Matrix, 1)
		assert.Equal(t, "User gender 'female' not in allowed genders [male, other]", result.Matrix[0].Reason)
	})
}

func TestBuildMatrixStateAndOccupation(t *testing.T) {
	rs := &rules.RuleSet{
		State:      rules.FlexList{"Bihar", "Odisha"},
		Occupation: rules.FlexList{"labourer"},
	}
	result := BuildMatrix(profileAged(30), rs)
	require.Len(t, result.Matrix, 2)

	state := result.Matrix[0]
	assert.Equal(t, CriterionState, state.Criterion)
	assert.Equal(t, StatusPass, state.Status)

	occupation := result.Matrix[1]
	assert.Equal(t, CriterionOccupation, occupation.Criterion)
	assert.Equal(t, StatusFail, occupation.Status)
	assert.Equal(t, "User occupation 'farmer' does not match required 'labourer'", occupation.Reason)
}

func TestBuildMatrixOccupationSkippedWhenMembersDiscarded(t *testing.T) {
	// Non-string members are discarded on decode; an occupation rule that
	// collapses to nothing constrains nothing.
	var rs rules.RuleSet
	require.NoError(t, json.Unmarshal([]byte(`{"occupation": [13, null]}`), &rs))

	result := BuildMatrix(profileAged(30), &rs)
	assert.Empty(t, result.Matrix)
	assert.Equal(t, DecisionEligible, result.Decision)
}

func TestBuildMatrixIncome(t *testing.T) {
	rs := &rules.RuleSet{MaxIncome: rules.Int(10000)}

	t.Run("no profile income produces no entry", func(t *testing.T) {
		result := BuildMatrix(profileAged(30), rs)
		assert.Empty(t, result.Matrix)
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		p := profileAged(30)
		p.MonthlyIncome = rules.Int(10000)
		result := BuildMatrix(p, rs)
		require.Len(t, result.Matrix, 1)
		assert.Equal(t, StatusPass, result.Matrix[0].Status)
	})

	t.Run("over the cap fails", func(t *testing.T) {
		p := profileAged(30)
		p.MonthlyIncome = rules.Int(10001)
		result := BuildMatrix(p, rs)
		require.Len(t, result.Matrix, 1)
		assert.Equal(t, StatusFail, result.Matrix[0].Status)
		assert.Equal(t, "User income 10001 > max_income 10000", result.Matrix[0].Reason)
	})
}

func TestBuildMatrixAllCriteriaEvaluatedAfterFailure(t *testing.T) {
	p := Profile{
		Age:           17,
		Gender:        "male",
		State:         "kerala",
		Occupation:    "student",
		MonthlyIncome: rules.Int(50000),
	}
	rs := &rules.RuleSet{
		MinAge:     rules.Int(18),
		Gender:     rules.FlexList{"female"},
		State:      rules.FlexList{"bihar"},
		Occupation: rules.FlexList{"farmer"},
		MaxIncome:  rules.Int(10000),
	}

	result := BuildMatrix(p, rs)
	require.Len(t, result.Matrix, 5, "every constrained criterion gets an entry")
	assert.Equal(t, DecisionRejected, result.Decision)
	require.Len(t, result.Reasons, 5)

	// Stable entry order: age, gender, state, occupation, income.
	criteria := make([]Criterion, 0, len(result.Matrix))
	for _, entry := range result.Matrix {
		criteria = append(criteria, entry.Criterion)
	}
	assert.Equal(t, []Criterion{
		CriterionAge, CriterionGender, CriterionState, CriterionOccupation, CriterionIncome,
	}, criteria)

	assert.Equal(t,
		"User age 17 < min_age 18; "+
			"User gender 'male' does not match required 'female'; "+
			"User state 'kerala' does not match required 'bihar'; "+
			"User occupation 'student' does not match required 'farmer'; "+
			"User income 50000 > max_income 10000",
		result.RejectReason())
}

func TestBuildMatrixProfileValuesLowercased(t *testing.T) {
	p := Profile{Age: 30, Gender: "  FEMALE ", State: "BiHaR", Occupation: "FARMER"}
	rs := &rules.RuleSet{
		Gender:     rules.FlexList{"female"},
		State:      rules.FlexList{"bihar"},
		Occupation: rules.FlexList{"farmer"},
	}

	result := BuildMatrix(p, rs)
	assert.Equal(t, DecisionEligible, result.Decision)
	for _, entry := range result.Matrix {
		assert.Equal(t, StatusPass, entry.Status)
	}
	assert.Equal(t, "female", result.Matrix[0].CitizenValue)
}
