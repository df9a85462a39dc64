package handler

import (
	"strings"

	"sahaay/internal/eligibility"
	"sahaay/internal/rules"
	id "sahaay/pkg/domain"
	dErrors "sahaay/pkg/domain-errors"
)

// EvaluateRequest is the HTTP request body for POST /eligibility/evaluate.
type EvaluateRequest struct {
	ProgramID string         `json:"program_id"`
	Profile   ProfileRequest `json:"profile"`

	// Parsed values (populated by Validate)
	parsedProgramID id.ProgramID
}

// ProfileRequest is the citizen profile portion of the request. Income may
// arrive as a number or a numeric string; garbage decodes as absent.
type ProfileRequest struct {
	Age           int           `json:"age"`
	Gender        string        `json:"gender"`
	State         string        `json:"state"`
	Occupation    string        `json:"occupation"`
	MonthlyIncome rules.FlexInt `json:"monthly_income"`
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.ProgramID = strings.TrimSpace(r.ProgramID)
	if r.ProgramID == "" {
		return dErrors.New(dErrors.CodeValidation, "program_id is required")
	}
	programID, err := id.ParseProgramID(r.ProgramID)
	if err != nil {
		return err
	}
	r.parsedProgramID = programID

	if r.Profile.Age < 0 || r.Profile.Age > 150 {
		return dErrors.New(dErrors.CodeValidation, "profile.age must be between 0 and 150")
	}
	if income, ok := r.Profile.MonthlyIncome.Value(); ok && income < 0 {
		return dErrors.New(dErrors.CodeValidation, "profile.monthly_income must not be negative")
	}

	return nil
}

// ParsedProgramID returns the validated program identifier.
func (r *EvaluateRequest) ParsedProgramID() id.ProgramID {
	return r.parsedProgramID
}

// DomainProfile converts the request profile to the domain type.
func (r *EvaluateRequest) DomainProfile() eligibility.Profile {
	return eligibility.Profile{
		Age:           r.Profile.Age,
		Gender:        r.Profile.Gender,
		State:         r.Profile.State,
		Occupation:    r.Profile.Occupation,
		MonthlyIncome: r.Profile.MonthlyIncome,
	}
}
