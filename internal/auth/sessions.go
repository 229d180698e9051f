// Package auth issues and checks the admin session tokens that gate
// catalog mutations. This is the demo scheme the storefront shipped
// with: one shared admin password, opaque random tokens held in
// memory, one-hour expiry. Not hardened beyond a constant-time
// password compare.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

const tokenBytes = 24

var ErrInvalidPassword = errors.New("invalid password")

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Sessions maps live tokens to their expiry. Expired tokens are
// evicted lazily when they are next checked; there is no background
// sweep. Multiple sessions may be live at once.
type Sessions struct {
	mu       sync.Mutex
	password string
	ttl      time.Duration
	tokens   map[string]time.Time
	now      func() time.Time
}

func NewSessions(password string, ttl time.Duration) *Sessions {
	return &Sessions{
		password: password,
		ttl:      ttl,
		tokens:   make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *Sessions) Login(password string) (Session, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return Session{}, ErrInvalidPassword
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return Session{}, err
	}
	token := hex.EncodeToString(buf)
	expires := s.now().Add(s.ttl)

	s.mu.Lock()
	s.tokens[token] = expires
	s.mu.Unlock()

	return Session{Token: token, ExpiresAt: expires}, nil
}

// Validate reports whether token is known and unexpired. A token that
// has passed its expiry is removed here.
func (s *Sessions) Validate(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.tokens[token]
	if !ok {
		return false
	}
	if !s.now().Before(expires) {
		delete(s.tokens, token)
		return false
	}
	return true
}
