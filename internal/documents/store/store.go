// Package store persists per-session document submission state. Submission
// state is keyed by (session, program): two citizens working on the same
// program never see each other's documents.
package store

import (
	"sahaay/internal/documents"
)

// Store tracks, per citizen session and program, whether the requirement set
// has been resolved and which documents have been submitted.
//
// The interface is declared in the documents package so that it can be named
// there without importing this package; the alias keeps store.Store as the
// canonical name for implementations and callers.
type Store = documents.Store
