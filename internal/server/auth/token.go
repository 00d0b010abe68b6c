// Package auth issues and verifies the signed access tokens handed out on
// login, and carries the verified identity through request contexts.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/booklib/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid unless configured.
const DefaultTokenTTL = time.Hour

// Claims are the standard registered claims plus the account's username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// TokenService signs tokens with a process-wide HMAC secret (HS256).
// It holds no per-token state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a TokenService. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for username, expiring ttl from now.
func (s *TokenService) Issue(username string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: username,
	})

	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry of tokenString and returns the
// username it was issued for. Expired tokens yield common.ErrTokenExpired;
// anything else wrong (malformed, forged, other algorithm) yields
// common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Username == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Username, nil
}
