package store

import (
	"context"
	"sync"

	"sahaay/internal/documents"
	id "sahaay/pkg/domain"
)

type sessionKey struct {
	session id.SessionID
	program id.ProgramID
}

// MemoryStore keeps submission state in process memory. Suitable for tests
// and single-node deployments; state dies with the process.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized map[sessionKey]bool
	submissions map[sessionKey]map[string]documents.Submission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		initialized: make(map[sessionKey]bool),
		submissions: make(map[sessionKey]map[string]documents.Submission),
	}
}

func (s *MemoryStore) Init(_ context.Context, sessionID id.SessionID, programID id.ProgramID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized[sessionKey{sessionID, programID}] = true
	return nil
}

func (s *MemoryStore) Initialized(_ context.Context, sessionID id.SessionID, programID id.ProgramID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized[sessionKey{sessionID, programID}], nil
}

func (s *MemoryStore) Record(_ context.Context, sessionID id.SessionID, programID id.ProgramID, docKey string, sub documents.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{sessionID, programID}
	if s.submissions[key] == nil {
		s.submissions[key] = make(map[string]documents.Submission)
	}
	s.submissions[key][docKey] = sub
	return nil
}

func (s *MemoryStore) Submissions(_ context.Context, sessionID id.SessionID, programID id.ProgramID) (map[string]documents.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]documents.Submission, len(s.submissions[sessionKey{sessionID, programID}]))
	for k, v := range s.submissions[sessionKey{sessionID, programID}] {
		out[k] = v
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
