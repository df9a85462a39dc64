// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "sahaay/pkg/domain-errors"
)

// SessionID identifies one citizen session. Document submission state is scoped
// to a session so concurrent citizens never share a matrix.
type SessionID uuid.UUID

// ProgramID identifies a welfare program in the external catalog. The engine
// never interprets it beyond using it as a cache key.
type ProgramID string

// maxProgramIDLen bounds catalog identifiers; anything longer is a malformed request.
const maxProgramIDLen = 64

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseSessionID(s string) (SessionID, error) {
	if s == "" {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "session ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid session ID format")
	}
	return SessionID(id), nil
}

// NewSessionID issues a fresh session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

func ParseProgramID(s string) (ProgramID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "program ID cannot be empty")
	}
	if len(s) > maxProgramIDLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "program ID too long")
	}
	return ProgramID(s), nil
}

// String methods - for logging and debugging.

func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id ProgramID) String() string { return string(id) }

// IsNil checks - used for service-layer validation.

func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ProgramID) IsNil() bool { return id == "" }
