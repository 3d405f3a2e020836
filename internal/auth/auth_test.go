package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	s := NewService("secret")

	hash, err := s.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, s.CheckPassword("hunter22", hash))
	assert.False(t, s.CheckPassword("wrong", hash))

	// The salt varies, so two hashes of the same input differ but both verify.
	other, err := s.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
	assert.True(t, s.CheckPassword("hunter22", other))
}

func TestIssueAndVerifyToken(t *testing.T) {
	s := NewService("secret")

	token, err := s.IssueToken("6419bcf77f43d37f5df0cbbb")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "6419bcf77f43d37f5df0cbbb", id)
}

func TestVerifyTokenRejectsMalformed(t *testing.T) {
	s := NewService("secret")

	_, err := s.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.VerifyToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsTampered(t *testing.T) {
	issuer := NewService("secret")
	verifier := NewService("other-secret")

	token, err := issuer.IssueToken("6419bcf77f43d37f5df0cbbb")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	s := NewService("secret")

	claims := Claims{
		ID: "6419bcf77f43d37f5df0cbbb",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	require.NoError(t, err)

	_, err = s.VerifyToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsMissingID(t *testing.T) {
	s := NewService("secret")

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	require.NoError(t, err)

	_, err = s.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
