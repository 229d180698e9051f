package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(password string) (*Sessions, *time.Time) {
	s := NewSessions(password, time.Hour)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestLogin(t *testing.T) {
	s, now := newTestSessions("adminpass")

	sess, err := s.Login("adminpass")
	require.NoError(t, err)

	assert.Len(t, sess.Token, tokenBytes*2, "hex-encoded token")
	assert.Equal(t, now.Add(time.Hour), sess.ExpiresAt)
	assert.True(t, s.Validate(sess.Token))
}

func TestLoginWrongPassword(t *testing.T) {
	s, _ := newTestSessions("adminpass")

	_, err := s.Login("letmein")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestTokensAreUnique(t *testing.T) {
	s, _ := newTestSessions("adminpass")

	a, err := s.Login("adminpass")
	require.NoError(t, err)
	b, err := s.Login("adminpass")
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
	assert.True(t, s.Validate(a.Token), "sessions coexist")
	assert.True(t, s.Validate(b.Token))
}

func TestValidateRejectsUnknown(t *testing.T) {
	s, _ := newTestSessions("adminpass")

	assert.False(t, s.Validate(""))
	assert.False(t, s.Validate("deadbeef"))
}

func TestTokenExpiry(t *testing.T) {
	s, now := newTestSessions("adminpass")

	sess, err := s.Login("adminpass")
	require.NoError(t, err)

	*now = now.Add(time.Hour - time.Second)
	assert.True(t, s.Validate(sess.Token), "valid just before expiry")

	*now = now.Add(time.Second)
	assert.False(t, s.Validate(sess.Token), "invalid exactly at expiry")

	// evicted on first failed check, still invalid afterwards
	_, held := s.tokens[sess.Token]
	assert.False(t, held, "expired token evicted lazily")
	assert.False(t, s.Validate(sess.Token))
}
