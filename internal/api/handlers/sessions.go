// Package handlers contains the HTTP handlers for the propdesk gateway API.
//
// Handlers depend on small, locally defined interfaces rather than concrete
// clients so tests can inject stubs. Backend proxy handlers translate the
// typed client results straight into the response envelope; entitlement
// handlers consult the plan resolver and feature gate for the session tier.
package handlers

import (
	"context"
	"sync"

	"propdesk/internal/types"
)

// SessionStore is the gateway's in-memory token-to-session map. Sessions are
// created at login and dropped on logout or expiry. The backend remains the
// source of truth for credentials; the store only caches what login returned,
// so a gateway restart simply forces a fresh login.
type SessionStore struct {
	mu       sync.RWMutex
	clock    types.Clock
	sessions map[string]types.Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore(clock types.Clock) *SessionStore {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &SessionStore{
		clock:    clock,
		sessions: make(map[string]types.Session),
	}
}

// Put stores a session under its token.
func (s *SessionStore) Put(sess types.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
}

// Delete removes the session for a token. Unknown tokens are a no-op.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// ResolveToken implements core.Authenticator. Expired sessions are evicted
// and reported as auth_session_expired; unknown tokens as auth_token_invalid.
func (s *SessionStore) ResolveToken(_ context.Context, token string) (types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return types.Session{}, types.NewAppError(types.ErrCodeAuthTokenInvalid, "unknown session token", nil)
	}
	if !sess.ExpiresAt.IsZero() && !s.clock.Now().Before(sess.ExpiresAt) {
		delete(s.sessions, token)
		return types.Session{}, types.NewAppError(types.ErrCodeAuthSessionExpired, "session has expired", nil)
	}
	return sess, nil
}
