package handler

import (
	"sahaay/internal/rules"
)

// RequirementResponse is one required document in the requirements listing.
type RequirementResponse struct {
	Mandatory   bool   `json:"mandatory"`
	Description string `json:"description"`
}

// RequirementsResponse is the body for GET .../documents.
type RequirementsResponse struct {
	ProgramID string                         `json:"program_id"`
	Documents map[string]RequirementResponse `json:"required_documents"`
}

// FromRequirements converts the domain requirement set into a response.
func FromRequirements(programID string, reqs map[string]rules.Requirement) RequirementsResponse {
	docs := make(map[string]RequirementResponse, len(reqs))
	for name, req := range reqs {
		docs[name] = RequirementResponse{Mandatory: req.Mandatory, Description: req.Description}
	}
	return RequirementsResponse{ProgramID: programID, Documents: docs}
}
