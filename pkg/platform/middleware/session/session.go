// Package session scopes every request to a citizen session. Submission
// state is keyed by session, so a request without a valid token silently
// gets a fresh session rather than a 401: the engine serves anonymous
// citizens, not authenticated accounts.
package session

import (
	"log/slog"
	"net/http"

	id "sahaay/pkg/domain"
	"sahaay/pkg/platform/audit"
	"sahaay/pkg/requestcontext"
)

// TokenHeader carries the session token in both directions.
const TokenHeader = "X-Session-Token"

// Middleware attaches a session ID to every request. A valid token is
// honored; anything else starts a new session and returns its token in the
// response header.
func Middleware(tokens *TokenService, auditor audit.Emitter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := r.Header.Get(TokenHeader); token != "" {
				if sessionID, err := tokens.Validate(token); err == nil {
					ctx = requestcontext.WithSessionID(ctx, sessionID)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				} else if logger != nil {
					logger.DebugContext(ctx, "session token rejected", "error", err)
				}
			}

			sessionID := id.NewSessionID()
			signed, err := tokens.Issue(sessionID)
			if err != nil {
				// Signing only fails on a broken key; the request still runs
				// with an unpersistable session.
				if logger != nil {
					logger.ErrorContext(ctx, "failed to issue session token", "error", err)
				}
			} else {
				w.Header().Set(TokenHeader, signed)
			}

			ctx = requestcontext.WithSessionID(ctx, sessionID)
			if auditor != nil {
				event := audit.Event{
					SessionID: sessionID,
					Action:    string(audit.EventSessionStarted),
					RequestID: requestcontext.RequestID(ctx),
					ClientIP:  requestcontext.ClientIP(ctx),
				}
				if err := auditor.Emit(ctx, event); err != nil && logger != nil {
					logger.WarnContext(ctx, "failed to emit audit event",
						"action", event.Action,
						"error", err,
					)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
