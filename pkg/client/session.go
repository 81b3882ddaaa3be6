package client

import "sync"

// Session caches the bearer token and identity for an authenticated user.
// The server is the source of truth; the session is invalidated (forced
// logout) whenever any call comes back 401 or 403.
type Session struct {
	mu     sync.RWMutex
	token  string
	userID int64
}

// NewSession creates an empty, unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

// Login stores the token and identity returned by the server.
func (s *Session) Login(token string, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.userID = userID
}

// Logout clears the cached token and identity.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userID = 0
}

// Token returns the cached bearer token, if any.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// UserID returns the cached identity id, or 0 when logged out.
func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// IsAuthenticated reports whether a token is currently cached.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}
