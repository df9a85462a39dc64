package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "sahaay/pkg/domain"
	auditmemory "sahaay/pkg/platform/audit/store/memory"
	"sahaay/pkg/platform/audit/publisher"
	"sahaay/pkg/requestcontext"
)

func newTokens() *TokenService {
	return NewTokenService("test-signing-key", "sahaay", time.Hour)
}

func sessionEcho(captured *id.SessionID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = requestcontext.SessionID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := newTokens()
	sessionID := id.NewSessionID()

	signed, err := tokens.Issue(sessionID)
	require.NoError(t, err)

	parsed, err := tokens.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, sessionID, parsed)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	expired := NewTokenService("test-signing-key", "sahaay", -time.Minute)
	signed, err := expired.Issue(id.NewSessionID())
	require.NoError(t, err)

	_, err = newTokens().Validate(signed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateRejectsForeignKey(t *testing.T) {
	other := NewTokenService("another-key", "sahaay", time.Hour)
	signed, err := other.Issue(id.NewSessionID())
	require.NoError(t, err)

	_, err = newTokens().Validate(signed)
	assert.Error(t, err)
}

func TestMiddlewareIssuesNewSession(t *testing.T) {
	tokens := newTokens()
	store := auditmemory.NewInMemoryStore()
	auditor := publisher.NewPublisher(store)

	var seen id.SessionID
	handler := Middleware(tokens, auditor, nil)(sessionEcho(&seen))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, seen.IsNil())

	// Response carries a token that resolves to the same session.
	issued := rec.Header().Get(TokenHeader)
	require.NotEmpty(t, issued)
	parsed, err := tokens.Validate(issued)
	require.NoError(t, err)
	assert.Equal(t, seen, parsed)

	// Session start is audit-worthy.
	events, err := store.ListBySession(context.Background(), seen)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "session_started", events[0].Action)
}

func TestMiddlewareHonorsValidToken(t *testing.T) {
	tokens := newTokens()
	sessionID := id.NewSessionID()
	signed, err := tokens.Issue(sessionID)
	require.NoError(t, err)

	var seen id.SessionID
	handler := Middleware(tokens, nil, nil)(sessionEcho(&seen))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TokenHeader, signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, sessionID, seen)
	assert.Empty(t, rec.Header().Get(TokenHeader), "no new token for a valid session")
}

func TestMiddlewareReplacesInvalidToken(t *testing.T) {
	tokens := newTokens()

	var seen id.SessionID
	handler := Middleware(tokens, nil, nil)(sessionEcho(&seen))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TokenHeader, "garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, seen.IsNil())
	assert.NotEmpty(t, rec.Header().Get(TokenHeader))
}
