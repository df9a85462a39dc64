package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// tableEntry is one program's record in the precomputed rules file.
type tableEntry struct {
	Eligibility *RuleSet       `json:"eligibility"`
	Documents   []DocumentSpec `json:"documents"`
}

// TableSource serves rule data from a precomputed JSON table loaded once at
// startup. This is the primary source; the extraction service only backs
// programs the table does not cover.
type TableSource struct {
	entries map[string]tableEntry
}

// LoadTableSource reads and decodes the precomputed rules file.
func LoadTableSource(path string) (*TableSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules table: %w", err)
	}
	return ParseTableSource(data)
}

// ParseTableSource decodes a precomputed rules table from raw JSON.
func ParseTableSource(data []byte) (*TableSource, error) {
	var entries map[string]tableEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode rules table: %w", err)
	}
	return &TableSource{entries: entries}, nil
}

func (t *TableSource) EligibilityRules(_ context.Context, programID string) (*RuleSet, error) {
	entry, ok := t.entries[programID]
	if !ok || entry.Eligibility == nil {
		return nil, ErrProgramUnknown
	}
	rs := *entry.Eligibility
	return &rs, nil
}

func (t *TableSource) RequiredDocuments(_ context.Context, programID string) ([]DocumentSpec, error) {
	entry, ok := t.entries[programID]
	if !ok || len(entry.Documents) == 0 {
		return nil, ErrProgramUnknown
	}
	docs := make([]DocumentSpec, len(entry.Documents))
	copy(docs, entry.Documents)
	return docs, nil
}

// Programs returns the identifiers the table covers, for startup logging.
func (t *TableSource) Programs() int {
	return len(t.entries)
}
