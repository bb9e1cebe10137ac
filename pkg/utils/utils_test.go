package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 1.33, RoundCents(1.325))
	assert.Equal(t, 0.1, RoundCents(0.1+0.2-0.2))
	assert.Equal(t, -2.5, RoundCents(-2.499999))
	assert.Equal(t, 0.0, RoundCents(0))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateSessionToken("admin")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := GenerateSessionToken("admin")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	SetJWTSecret("rotated-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestStrToInt64(t *testing.T) {
	n, err := StrToInt64("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = StrToInt64("forty-two")
	assert.Error(t, err)
}
