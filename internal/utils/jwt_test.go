package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/book-catalogue/internal/model"
)

const testSecret = "test-signing-secret"

func TestTokenRoundTrip(t *testing.T) {
	raw, err := NewToken(testSecret, 42, "alice", model.RoleUser, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := ParseToken(testSecret, raw)
	require.NoError(t, err)

	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, "alice", claims.UserName)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestParseToken_Expired(t *testing.T) {
	// A token whose embedded expiry is in the past fails verification
	// regardless of signature validity.
	raw, err := NewToken(testSecret, 7, "bob", model.RoleAdmin, -time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Nil(t, claims)
}

func TestParseToken_WrongSecret(t *testing.T) {
	raw, err := NewToken(testSecret, 7, "bob", model.RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("another-secret", raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, claims)
}

func TestParseToken_Garbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		claims, err := ParseToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrTokenInvalid, "input %q", raw)
		assert.Nil(t, claims)
	}
}

func TestSessionValid(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.True(t, SessionValid(now, &future))
	assert.False(t, SessionValid(now, &past))
	assert.False(t, SessionValid(now, &now), "an expiry equal to now is expired")
	assert.False(t, SessionValid(now, nil), "a cleared expiry is never valid")
}
