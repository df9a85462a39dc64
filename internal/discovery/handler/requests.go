package handler

import (
	"strings"

	"sahaay/internal/eligibility"
	"sahaay/internal/rules"
	dErrors "sahaay/pkg/domain-errors"
)

// maxTopK bounds the candidate count a single request may ask for.
const maxTopK = 20

// RecommendRequest is the HTTP request body for POST /programs/recommend.
type RecommendRequest struct {
	Query   string         `json:"query"`
	TopK    int            `json:"top_k"`
	Profile ProfileRequest `json:"profile"`
}

// ProfileRequest mirrors the eligibility profile shape.
type ProfileRequest struct {
	Age           int           `json:"age"`
	Gender        string        `json:"gender"`
	State         string        `json:"state"`
	Occupation    string        `json:"occupation"`
	MonthlyIncome rules.FlexInt `json:"monthly_income"`
}

// Normalize trims the query.
func (r *RecommendRequest) Normalize() {
	r.Query = strings.TrimSpace(r.Query)
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RecommendRequest) Validate() error {
	if r.Query == "" {
		return dErrors.New(dErrors.CodeValidation, "query is required")
	}
	if r.TopK < 0 || r.TopK > maxTopK {
		return dErrors.New(dErrors.CodeValidation, "top_k must be between 0 and 20")
	}
	if r.Profile.Age < 0 || r.Profile.Age > 150 {
		return dErrors.New(dErrors.CodeValidation, "profile.age must be between 0 and 150")
	}
	if income, ok := r.Profile.MonthlyIncome.Value(); ok && income < 0 {
		return dErrors.New(dErrors.CodeValidation, "profile.monthly_income must not be negative")
	}
	return nil
}

// DomainProfile converts the request profile to the domain type.
func (r *RecommendRequest) DomainProfile() eligibility.Profile {
	return eligibility.Profile{
		Age:           r.Profile.Age,
		Gender:        r.Profile.Gender,
		State:         r.Profile.State,
		Occupation:    r.Profile.Occupation,
		MonthlyIncome: r.Profile.MonthlyIncome,
	}
}
