package handler

import (
	"strings"

	"sahaay/internal/documents"
	dErrors "sahaay/pkg/domain-errors"
)

// SubmitRequest is the body of a document submission. Exactly one of value or
// file_path carries the document; an empty payload fails validation downstream
// with a domain verdict, not a transport error, so neither field is required
// here.
type SubmitRequest struct {
	Value    string `json:"value,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

// Normalize trims surrounding whitespace from both payload fields.
func (r *SubmitRequest) Normalize() {
	r.Value = strings.TrimSpace(r.Value)
	r.FilePath = strings.TrimSpace(r.FilePath)
}

// Validate rejects submissions that carry both a value and a file path.
func (r *SubmitRequest) Validate() error {
	if r.Value != "" && r.FilePath != "" {
		return dErrors.New(dErrors.CodeValidation, "provide either value or file_path, not both")
	}
	return nil
}

// Payload converts the request into a domain payload.
func (r *SubmitRequest) Payload() documents.Payload {
	return documents.Payload{Value: r.Value, FilePath: r.FilePath}
}
