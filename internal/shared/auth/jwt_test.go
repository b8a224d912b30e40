package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifierRoundTrip(t *testing.T) {
	v, err := NewVerifier("0123456789abcdef0123456789abcdef", false)
	require.NoError(t, err)

	token, err := v.Sign(Claims{Email: "ada@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestVerifierRejectsBadTokens(t *testing.T) {
	v, err := NewVerifier("0123456789abcdef0123456789abcdef", false)
	require.NoError(t, err)
	other, err := NewVerifier("fedcba9876543210fedcba9876543210", false)
	require.NoError(t, err)

	foreign, err := other.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	require.NoError(t, err)
	_, err = v.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := v.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	require.NoError(t, err)
	_, err = v.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString(v.secret)
	require.NoError(t, err)
	_, err = v.Verify(noSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewVerifierRequiresSecretOutsideDev(t *testing.T) {
	_, err := NewVerifier("", false)
	assert.ErrorIs(t, err, ErrMissingSecret)

	v, err := NewVerifier("", true)
	require.NoError(t, err)
	assert.NotEmpty(t, v.secret)
}
