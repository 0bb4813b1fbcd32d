package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "useraccounts/internal/errors"
)

func TestJWTService_IssueAndValidate(t *testing.T) {
	issuedAt := time.Now().Truncate(time.Second)
	s := NewJWTService("test-secret", 0)
	s.now = func() time.Time { return issuedAt }

	token, err := s.IssueToken("ann@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.True(t, claims.IssuedAt.Time.Equal(issuedAt))
	assert.Equal(t, 7*24*time.Hour, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))
}

func TestJWTService_Deterministic(t *testing.T) {
	issuedAt := time.Now().Truncate(time.Second)
	a := NewJWTService("test-secret", TokenExpiry)
	b := NewJWTService("test-secret", TokenExpiry)
	a.now = func() time.Time { return issuedAt }
	b.now = func() time.Time { return issuedAt }

	first, err := a.IssueToken("ann@example.com")
	require.NoError(t, err)
	second, err := b.IssueToken("ann@example.com")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	_, err = b.ValidateToken(first)
	assert.NoError(t, err)
}

func TestJWTService_Expired(t *testing.T) {
	s := NewJWTService("test-secret", 0)
	s.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }

	token, err := s.IssueToken("ann@example.com")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService("test-secret", 0)
	verifier := NewJWTService("other-secret", 0)

	token, err := issuer.IssueToken("ann@example.com")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrToken)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	s := NewJWTService("test-secret", 0)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Email: "ann@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.ValidateToken(unsigned)
	assert.ErrorIs(t, err, apperrors.ErrToken)
}

func TestJWTService_Malformed(t *testing.T) {
	s := NewJWTService("test-secret", 0)

	_, err := s.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrToken)
}
