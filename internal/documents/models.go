// Package documents validates submitted evidentiary documents against a
// program's requirement set and tracks per-session completion state.
package documents

// Status is a per-document validation outcome.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// FinalStatus is the aggregate completion state of a program's document set
// for one citizen session.
type FinalStatus string

const (
	// StatusNotInitialized means no requirement set has been resolved yet
	// for this program in this session.
	StatusNotInitialized FinalStatus = "NOT_INITIALIZED"
	// StatusIncomplete means at least one mandatory document is missing.
	StatusIncomplete FinalStatus = "INCOMPLETE"
	// StatusComplete means every mandatory document was submitted and passed.
	StatusComplete FinalStatus = "COMPLETE"
	// StatusFailed means a mandatory document was submitted and failed.
	// Takes precedence over INCOMPLETE when both conditions hold.
	StatusFailed FinalStatus = "FAILED"
)

// Payload is one submitted document: either a typed value or a path to an
// uploaded scan. Exactly one of the two fields is expected.
type Payload struct {
	Value    string `json:"value,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

// IsEmpty reports whether the payload carries neither a value nor a file.
func (p Payload) IsEmpty() bool {
	return p.Value == "" && p.FilePath == ""
}

// Verdict is the outcome of validating one submitted document.
type Verdict struct {
	DocType         string   `json:"document"`
	Status          Status   `json:"status"`
	Reason          string   `json:"reason,omitempty"`
	ExtractedText   string   `json:"extracted_text,omitempty"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	Confidence      float64  `json:"confidence"`
}

// Submission is the recorded state of one document for a (session, program)
// pair. Resubmission overwrites, never merges.
type Submission struct {
	Mandatory       bool     `json:"mandatory"`
	Submitted       bool     `json:"submitted"`
	Status          Status   `json:"status"`
	Reason          string   `json:"reason,omitempty"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	Confidence      float64  `json:"confidence"`
}

// MatrixEntry is one required document's state in the validation matrix.
type MatrixEntry struct {
	Mandatory       bool     `json:"mandatory"`
	Submitted       bool     `json:"user_submitted"`
	Status          Status   `json:"status"`
	Reason          string   `json:"reason,omitempty"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	Confidence      float64  `json:"confidence"`
}

// ValidationMatrix is the derived per-program view: every required document's
// state plus the aggregate status. Recomputed on every read.
type ValidationMatrix struct {
	Matrix      map[string]MatrixEntry `json:"document_validation_matrix"`
	FinalStatus FinalStatus            `json:"final_document_status"`
}
