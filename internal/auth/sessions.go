// ABOUTME: In-memory session store and admin credentials.
// ABOUTME: Tokens are random UUIDs that expire after a fixed lifetime.

package auth

import (
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a session stays valid
const DefaultTTL = 24 * time.Hour

// Credentials is the single admin account configured for the panel
type Credentials struct {
	Email    string
	Password string
}

// Check compares in constant time
func (c *Credentials) Check(email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(c.Email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return emailOK && passwordOK
}

type session struct {
	email   string
	expires time.Time
}

// Sessions maps tokens to signed-in admins
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessions creates a store. A non-positive ttl uses DefaultTTL.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sessions{
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL is the session lifetime
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Create starts a session and returns its token
func (s *Sessions) Create(email string) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{email: email, expires: s.now().Add(s.ttl)}
	return token
}

// Lookup returns the admin for a live token. Expired sessions are dropped.
func (s *Sessions) Lookup(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}

	if s.now().After(sess.expires) {
		s.Delete(token)
		return "", false
	}
	return sess.email, true
}

// Delete ends a session
func (s *Sessions) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len is the number of stored sessions, expired ones included
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
