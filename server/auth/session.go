// Package auth implements the server-side session table and the signed
// cookie token that references it.
//
// Sessions are process-local: the cookie carries a signed token whose only
// claim of interest is the session ID, and every request still resolves that
// ID against the in-memory table. Restarting the server logs everyone out,
// which matches the historical behavior.
package auth

import (
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

const (
	// SessionCookieName is the cookie the browser sends back.
	SessionCookieName = "oivmap_session"
	// SessionTTL is how long a session stays valid without re-login.
	SessionTTL = 12 * time.Hour
)

// Session binds a logged-in user to a server-side record.
type Session struct {
	ID        string
	UserID    int32
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionManager owns the session table and token signing.
type SessionManager struct {
	secret []byte

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates a session manager signing tokens with secret.
func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{
		secret:   []byte(secret),
		sessions: make(map[string]*Session),
	}
}

// Create opens a session for the user and returns it with a signed cookie
// token.
func (m *SessionManager) Create(userID int32) (*Session, string, error) {
	now := time.Now()
	session := &Session{
		ID:        shortuuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}

	token, err := m.signToken(session)
	if err != nil {
		return nil, "", err
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session, token, nil
}

// Resolve verifies the cookie token and returns the live session it points
// to, if any.
func (m *SessionManager) Resolve(token string) (*Session, bool) {
	sessionID, err := m.verifyToken(token)
	if err != nil {
		return nil, false
	}

	m.mu.RLock()
	session, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, session.ID)
		m.mu.Unlock()
		return nil, false
	}
	return session, true
}

// Destroy removes the session referenced by the token. Destroying an
// unknown or already-destroyed session is a no-op.
func (m *SessionManager) Destroy(token string) {
	sessionID, err := m.verifyToken(token)
	if err != nil {
		return
	}
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
