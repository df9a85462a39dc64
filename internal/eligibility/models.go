// Package eligibility turns a citizen profile and a program's rule set into a
// per-criterion decision matrix. All criteria are evaluated even after one
// fails so the citizen sees every reason at once.
package eligibility

import (
	"sahaay/internal/rules"
)

// Criterion names one evaluated rule dimension.
type Criterion string

const (
	CriterionAge        Criterion = "age"
	CriterionGender     Criterion = "gender"
	CriterionState      Criterion = "state"
	CriterionOccupation Criterion = "occupation"
	CriterionIncome     Criterion = "income"
)

// Status is a per-criterion outcome.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// Decision is the overall outcome across all produced matrix entries.
type Decision string

const (
	DecisionEligible Decision = "ELIGIBLE"
	DecisionRejected Decision = "REJECTED"
)

// Profile is the citizen snapshot evaluated against a rule set. String fields
// are free-form; the evaluator lowercases them at the matrix boundary.
// MonthlyIncome is optional: without it the income criterion is skipped.
type Profile struct {
	Age           int           `json:"age"`
	Gender        string        `json:"gender"`
	State         string        `json:"state"`
	Occupation    string        `json:"occupation"`
	MonthlyIncome rules.FlexInt `json:"monthly_income"`
}

// MatrixEntry records the evaluation of one constrained criterion. Entries
// exist only for criteria the rule set actually constrains; an unconstrained
// criterion produces no entry and therefore cannot fail.
type MatrixEntry struct {
	Criterion    Criterion `json:"criterion"`
	RuleValue    string    `json:"rule_value"`
	CitizenValue string    `json:"citizen_value"`
	Status       Status    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
}

// Result is the full outcome of one eligibility evaluation.
type Result struct {
	Matrix   []MatrixEntry `json:"matrix"`
	Decision Decision      `json:"decision"`
	Reasons  []string      `json:"reasons,omitempty"`
}

// RejectReason joins all failure reasons in matrix order.
func (r *Result) RejectReason() string {
	if len(r.Reasons) == 0 {
		return ""
	}
	out := r.Reasons[0]
	for _, reason := range r.Reasons[1:] {
		out += "; " + reason
	}
	return out
}
