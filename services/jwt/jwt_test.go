package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "test-secret")
	require.NoError(t, err)

	claims, err := ValidateAndGetClaims(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, float64(42), claims["id"])
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, "test-secret")
	require.NoError(t, err)

	_, err = ValidateAndGetClaims(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateAndGetClaims("not.a.token", "test-secret")
	assert.Error(t, err)
}
