package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	tokens := NewTokenManager("test-secret")

	token, err := tokens.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Generate(42)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").Validate(token)
	require.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	secret := "test-secret"
	claims := jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(-time.Hour).Unix(),
		"iat":     time.Now().Add(-2 * time.Hour).Unix(),
		"iss":     "swap-service",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenManager(secret).Validate(token)
	require.Error(t, err)
}

func TestValidateWrongSigningMethod(t *testing.T) {
	// alg=none tokens must never pass.
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 42}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("test-secret").Validate(token)
	require.Error(t, err)
}

func TestValidateGarbage(t *testing.T) {
	_, err := NewTokenManager("test-secret").Validate("not.a.token")
	require.Error(t, err)
}
