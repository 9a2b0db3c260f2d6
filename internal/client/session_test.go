package client

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, userID string, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSessionResolveValidToken(t *testing.T) {
	token := signToken(t, "user-123", time.Now().Add(time.Hour))
	session := NewSession(NewMemoryTokenStore(token))

	userID, ok := session.Resolve()

	assert.True(t, ok)
	assert.Equal(t, "user-123", userID)
}

func TestSessionResolveExpiredTokenDiscarded(t *testing.T) {
	token := signToken(t, "user-123", time.Now().Add(-time.Hour))
	store := NewMemoryTokenStore(token)
	session := NewSession(store)

	userID, ok := session.Resolve()

	assert.False(t, ok)
	assert.Empty(t, userID)

	// Прострочений токен видалено зі сховища
	remaining, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestSessionResolveExpiresAtBoundary(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	token := signToken(t, "user-123", expiry)
	store := NewMemoryTokenStore(token)

	session := NewSession(store)
	session.now = func() time.Time { return expiry.Add(time.Second) }

	_, ok := session.Resolve()
	assert.False(t, ok)
}

func TestSessionResolveMalformedTokenDiscarded(t *testing.T) {
	store := NewMemoryTokenStore("не-токен-взагалі")
	session := NewSession(store)

	_, ok := session.Resolve()
	assert.False(t, ok)

	remaining, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestSessionResolveTokenWithoutExpiryDiscarded(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	store := NewMemoryTokenStore(signed)
	session := NewSession(store)

	_, ok := session.Resolve()
	assert.False(t, ok)

	remaining, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestSessionResolveEmptyStore(t *testing.T) {
	session := NewSession(NewMemoryTokenStore(""))

	userID, ok := session.Resolve()

	assert.False(t, ok)
	assert.Empty(t, userID)
}

func TestSessionTokenRequiresValidSession(t *testing.T) {
	expired := signToken(t, "user-123", time.Now().Add(-time.Hour))
	session := NewSession(NewMemoryTokenStore(expired))

	assert.Empty(t, session.Token())

	valid := signToken(t, "user-123", time.Now().Add(time.Hour))
	require.NoError(t, session.SaveToken(valid))

	assert.Equal(t, valid, session.Token())
}
