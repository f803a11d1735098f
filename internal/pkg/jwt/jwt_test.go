package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "officer@mfi.test", "officer", secret, 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "officer@mfi.test", claims.Email)
	assert.Equal(t, "officer", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@mfi.test", "admin", secret, 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@mfi.test", "admin", secret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, secret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(9, "token-id", secret, 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, "token-id", claims.TokenID)

	_, err = ValidateRefreshToken("garbage", secret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
