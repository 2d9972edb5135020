package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "secretary", 3)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "secretary", claims.Role)
	assert.Equal(t, uint(3), claims.MessID)

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestResetTokenIsNotAnAccessToken(t *testing.T) {
	reset, err := GenerateResetToken(9)
	assert.NoError(t, err)

	claims, err := ParseResetToken(reset)
	assert.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)

	// A reset token must not authenticate a request, and vice versa.
	_, err = ParseToken(reset)
	assert.Error(t, err)

	access, err := GenerateToken(9, "user", 1)
	assert.NoError(t, err)
	_, err = ParseResetToken(access)
	assert.Error(t, err)
}

func TestTokenBlacklist(t *testing.T) {
	token, err := GenerateToken(11, "user", 1)
	assert.NoError(t, err)

	assert.False(t, IsTokenBlacklisted(token))
	BlacklistToken(token)
	assert.True(t, IsTokenBlacklisted(token))
}
