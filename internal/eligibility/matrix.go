package eligibility

import (
	"fmt"
	"strconv"
	"strings"

	"sahaay/internal/rules"
)

// genderAny is the rule sentinel meaning "no gender restriction". It only
// short-circuits when it is the sole rule value.
const genderAny = "any"

// BuildMatrix evaluates a profile against a rule set and returns the full
// decision matrix. Pure: no I/O, no shared state. Criteria are evaluated in a
// stable order (age, gender, state, occupation, income) and independently -
// an early failure never suppresses later entries.
func BuildMatrix(profile Profile, rs *rules.RuleSet) Result {
	var result Result

	if entry, ok := evaluateAge(profile, rs); ok {
		result.Matrix = append(result.Matrix, entry)
	}
	if entry, ok := evaluateGender(profile, rs); ok {
		result.Matrix = append(result.Matrix, entry)
	}
	if entry, ok := evaluateMembership(CriterionState, profile.State, rs.State); ok {
		result.Matrix = append(result.Matrix, entry)
	}
	if entry, ok := evaluateMembership(CriterionOccupation, profile.Occupation, rs.Occupation); ok {
		result.Matrix = append(result.Matrix, entry)
	}
	if entry, ok := evaluateIncome(profile, rs); ok {
		result.Matrix = append(result.Matrix, entry)
	}

	result.Decision = DecisionEligible
	for _, entry := range result.Matrix {
		if entry.Status == StatusFail {
			result.Decision = DecisionRejected
			result.Reasons = append(result.Reasons, entry.Reason)
		}
	}
	return result
}

// evaluateAge produces an entry iff at least one age bound is constrained.
// The min bound is checked before the max bound; when both are violated only
// the min-bound reason is reported.
func evaluateAge(profile Profile, rs *rules.RuleSet) (MatrixEntry, bool) {
	minAge, hasMin := rs.MinAge.Value()
	maxAge, hasMax := rs.MaxAge.Value()
	if !hasMin && !hasMax {
		return MatrixEntry{}, false
	}

	var bounds []string
	if hasMin {
		bounds = append(bounds, "min_age="+strconv.Itoa(minAge))
	}
	if hasMax {
		bounds = append(bounds, "max_age="+strconv.Itoa(maxAge))
	}

	entry := MatrixEntry{
		Criterion:    CriterionAge,
		RuleValue:    strings.Join(bounds, ", "),
		CitizenValue: strconv.Itoa(profile.Age),
		Status:       StatusPass,
	}

	switch {
	case hasMin && profile.Age < minAge:
		entry.Status = StatusFail
		entry.Reason = fmt.Sprintf("User age %d < min_age %d", profile.Age, minAge)
	case hasMax && profile.Age > maxAge:
		entry.Status = StatusFail
		entry.Reason = fmt.Sprintf("User age %d > max_age %d", profile.Age, maxAge)
	}
	return entry, true
}

func evaluateGender(profile Profile, rs *rules.RuleSet) (MatrixEntry, bool) {
	allowed := rs.Gender.Normalized()
	if len(allowed) == 0 {
		return MatrixEntry{}, false
	}

	citizen := strings.ToLower(strings.TrimSpace(profile.Gender))
	entry := MatrixEntry{
		Criterion:    CriterionGender,
		RuleValue:    strings.Join(allowed, ", "),
		CitizenValue: citizen,
		Status:       StatusPass,
	}

	// A lone "any" waives the restriction entirely.
	if len(allowed) == 1 && allowed[0] == genderAny {
		return entry, true
	}

	if !contains(allowed, citizen) {
		entry.Status = StatusFail
		if len(allowed) == 1 {
			entry.Reason = fmt.Sprintf("User gender '%s' does not match required '%s'", citizen, allowed[0])
		} else {
			entry.Reason = fmt.Sprintf("User gender '%s' not in allowed genders [%s]", citizen, strings.Join(allowed, ", "))
		}
	}
	return entry, true
}

// evaluateMembership covers the state and occupation criteria, which share
// the same case-insensitive membership semantics.
func evaluateMembership(criterion Criterion, citizenValue string, allowed rules.FlexList) (MatrixEntry, bool) {
	members := allowed.Normalized()
	if len(members) == 0 {
		return MatrixEntry{}, false
	}

	citizen := strings.ToLower(strings.TrimSpace(citizenValue))
	entry := MatrixEntry{
		Criterion:    criterion,
		RuleValue:    strings.Join(members, ", "),
		CitizenValue: citizen,
		Status:       StatusPass,
	}

	if !contains(members, citizen) {
		entry.Status = StatusFail
		if len(members) == 1 {
			entry.Reason = fmt.Sprintf("User %s '%s' does not match required '%s'", criterion, citizen, members[0])
		} else {
			entry.Reason = fmt.Sprintf("User %s '%s' not in allowed %ss [%s]", criterion, citizen, criterion, strings.Join(members, ", "))
		}
	}
	return entry, true
}

// evaluateIncome produces an entry iff the rule caps income and the profile
// actually reports one. The boundary is inclusive: income equal to the cap
// passes.
func evaluateIncome(profile Profile, rs *rules.RuleSet) (MatrixEntry, bool) {
	maxIncome, hasCap := rs.MaxIncome.Value()
	income, hasIncome := profile.MonthlyIncome.Value()
	if !hasCap || !hasIncome {
		return MatrixEntry{}, false
	}

	entry := MatrixEntry{
		Criterion:    CriterionIncome,
		RuleValue:    "max_income=" + strconv.Itoa(maxIncome),
		CitizenValue: strconv.Itoa(income),
		Status:       StatusPass,
	}
	if income > maxIncome {
		entry.Status = StatusFail
		entry.Reason = fmt.Sprintf("User income %d > max_income %d", income, maxIncome)
	}
	return entry, true
}

func contains(members []string, v string) bool {
	for _, m := range members {
		if m == v {
			return true
		}
	}
	return false
}
