package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sahaay/internal/documents"
	id "sahaay/pkg/domain"
)

const (
	redisInitKeyPrefix       = "documents:init:"
	redisSubmissionKeyPrefix = "documents:submissions:"
)

// RedisStore persists submission state in Redis so sessions survive process
// restarts and multiple engine replicas see consistent state. Entries expire
// with the session TTL.
type RedisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
}

// NewRedisStore constructs a Redis-backed submission store.
func NewRedisStore(client *redis.Client, sessionTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, sessionTTL: sessionTTL}
}

func initKey(sessionID id.SessionID, programID id.ProgramID) string {
	return redisInitKeyPrefix + sessionID.String() + ":" + programID.String()
}

func submissionKey(sessionID id.SessionID, programID id.ProgramID) string {
	return redisSubmissionKeyPrefix + sessionID.String() + ":" + programID.String()
}

func (s *RedisStore) Init(ctx context.Context, sessionID id.SessionID, programID id.ProgramID) error {
	if err := s.client.Set(ctx, initKey(sessionID, programID), "1", s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("mark requirements resolved: %w", err)
	}
	return nil
}

func (s *RedisStore) Initialized(ctx context.Context, sessionID id.SessionID, programID id.ProgramID) (bool, error) {
	n, err := s.client.Exists(ctx, initKey(sessionID, programID)).Result()
	if err != nil {
		return false, fmt.Errorf("check requirements resolved: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Record(ctx context.Context, sessionID id.SessionID, programID id.ProgramID, docKey string, sub documents.Submission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	key := submissionKey(sessionID, programID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, docKey, payload)
	pipe.Expire(ctx, key, s.sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

func (s *RedisStore) Submissions(ctx context.Context, sessionID id.SessionID, programID id.ProgramID) (map[string]documents.Submission, error) {
	raw, err := s.client.HGetAll(ctx, submissionKey(sessionID, programID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}

	subs := make(map[string]documents.Submission, len(raw))
	for docKey, payload := range raw {
		var sub documents.Submission
		if err := json.Unmarshal([]byte(payload), &sub); err != nil {
			return nil, fmt.Errorf("decode submission %q: %w", docKey, err)
		}
		subs[docKey] = sub
	}
	return subs, nil
}

var _ Store = (*RedisStore)(nil)
