package handler

import (
	"sahaay/internal/eligibility"
)

// EvaluateResponse is the HTTP response for POST /eligibility/evaluate.
type EvaluateResponse struct {
	Decision string          `json:"decision"`
	Matrix   []MatrixEntry   `json:"matrix"`
	Reasons  []string        `json:"reasons,omitempty"`
}

// MatrixEntry is one evaluated criterion in the response.
type MatrixEntry struct {
	Criterion    string `json:"criterion"`
	RuleValue    string `json:"rule_value"`
	CitizenValue string `json:"citizen_value"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
}

// FromResult converts a domain Result to an HTTP response.
func FromResult(result eligibility.Result) *EvaluateResponse {
	resp := &EvaluateResponse{
		Decision: string(result.Decision),
		Matrix:   make([]MatrixEntry, 0, len(result.Matrix)),
		Reasons:  result.Reasons,
	}
	for _, entry := range result.Matrix {
		resp.Matrix = append(resp.Matrix, MatrixEntry{
			Criterion:    string(entry.Criterion),
			RuleValue:    entry.RuleValue,
			CitizenValue: entry.CitizenValue,
			Status:       string(entry.Status),
			Reason:       entry.Reason,
		})
	}
	return resp
}
