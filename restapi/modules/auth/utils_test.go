package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)
	assert.True(t, CheckPasswordHash("correct-horse", hash))
	assert.False(t, CheckPasswordHash("battery-staple", hash))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.Error(t, ValidatePasswordStrength("1234567"))
	assert.NoError(t, ValidatePasswordStrength("12345678"))
}

func TestValidateEmail(t *testing.T) {
	for _, ok := range []string{"bea@example.com", "  Bea.Barista+shop@example.co.uk "} {
		assert.NoError(t, ValidateEmail(ok), ok)
	}
	for _, bad := range []string{"bea", "bea@", "@example.com", "Bea <bea@example.com>", "bea@example.com, cass@example.com"} {
		assert.Error(t, ValidateEmail(bad), bad)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("round-trip-secret")

	token, err := GenerateJWT("user-1", "bea@example.com", "barista")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "bea@example.com", claims.Email)
	assert.Equal(t, "barista", claims.Role)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestValidateJWTRejects(t *testing.T) {
	SetJWTSecret("first-secret")
	token, err := GenerateJWT("user-1", "bea@example.com", "barista")
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		SetJWTSecret("second-secret")
		defer SetJWTSecret("first-secret")
		_, err := ValidateJWT(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		claims := &Claims{
			Email: "bea@example.com",
			Role:  "barista",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
		require.NoError(t, err)
		_, err = ValidateJWT(expired)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
		require.NoError(t, err)
		_, err = ValidateJWT(foreign)
		assert.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = ValidateJWT(unsigned)
		assert.Error(t, err)
	})
}

func TestSetJWTSecretPanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { SetJWTSecret("") })
}
