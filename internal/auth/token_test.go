package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	identity := Identity{
		ExternalID: "ext-42",
		Name:       "Dana Ops",
		Email:      "dana@example.com",
		AvatarURL:  "https://cdn.example.com/dana.png",
	}
	token, expiresAt, err := tm.GenerateToken(identity)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	parsed, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, identity, parsed)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", 30)
	token, _, err := tm.GenerateToken(Identity{ExternalID: "ext-1"})
	require.NoError(t, err)

	other := NewTokenManager("secret-b", 30)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	_, err := tm.ParseToken("not-a-token")
	assert.Error(t, err)
}
