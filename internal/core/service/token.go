package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clubarcoiris/members-system/internal/core/domain"
)

const (
	// tokenTTL is fixed: there is no renew transition, a fresh login
	// always produces a new independent token.
	tokenTTL = 3600 * time.Second

	// minSecretLen is the minimum length of the HMAC signing secret.
	minSecretLen = 32
)

// AccessClaims is the access token payload: the registered sub/iat/exp
// claims plus the display name and role needed to rebuild a Principal
// without a store lookup.
type AccessClaims struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256-signed access tokens. The signing
// secret is captured once at construction and never mutated afterwards, so
// concurrent verifications need no locking.
//
// There is no revocation: a token stays valid until its natural expiry
// regardless of logout.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec validates the signing secret and returns the codec. A short
// or missing secret is a fatal configuration error; callers on the issuing
// path must refuse to start.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	if len(secret) < minSecretLen {
		return nil, domain.ErrSigningSecret
	}
	return &TokenCodec{secret: []byte(secret)}, nil
}

// Issue signs a new access token for the user, valid for tokenTTL.
func (c *TokenCodec) Issue(user *domain.User) (string, error) {
	if len(c.secret) < minSecretLen {
		return "", domain.ErrSigningSecret
	}

	now := time.Now()
	claims := AccessClaims{
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks structure, signature, and expiry, and rebuilds the
// Principal from the payload. Every failure mode maps onto ErrTokenInvalid
// or ErrTokenExpired; verification never surfaces a server fault. In
// particular an unusable secret rejects every token instead of erroring.
func (c *TokenCodec) Verify(tokenStr string) (*domain.Principal, error) {
	if len(c.secret) < minSecretLen {
		return nil, domain.ErrTokenInvalid
	}

	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Principal{
		ID:   claims.Subject,
		Name: claims.Name,
		Role: claims.Role,
	}, nil
}
