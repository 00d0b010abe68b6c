package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/booklib/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := NewTokenService([]byte("super-secret"), time.Hour)

	tok, err := s.Issue("sandra")
	require.NoError(t, err)

	got, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "sandra", got)
}

func TestIssue_ClaimsShape(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewTokenService([]byte("k"), 0)
	s.now = func() time.Time { return now }

	tok, err := s.Issue("u1")
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.Username)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(DefaultTokenTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := NewTokenService([]byte("secret"), time.Hour)
	s.now = func() time.Time { return now }

	tok, err := s.Issue("u1")
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(time.Hour + time.Minute) }
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService([]byte("right-secret"), time.Hour).Issue("u2")
	require.NoError(t, err)

	_, err = NewTokenService([]byte("wrong-secret"), time.Hour).Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService([]byte("k"), time.Hour).Verify("not.a.jwt")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Username:         "u3",
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenService(secret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "u4"}).SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenService(secret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), "sandra")
	got, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "sandra", got)
}
