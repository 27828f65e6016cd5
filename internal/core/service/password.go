package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"

	"github.com/clubarcoiris/members-system/internal/core/ports"
)

// Scrypt parameters are fixed and baked into the scheme name: changing them
// means introducing a new scheme, never silently re-reading old hashes with
// new costs.
const (
	scryptScheme  = "scrypt"
	scryptN       = 1 << 15
	scryptR       = 8
	scryptP       = 1
	scryptSaltLen = 16
	scryptKeyLen  = 64
)

// ScryptHasher derives and verifies password hashes in the versioned
// "scrypt$<base64 salt>$<base64 key>" format. Stored values without the
// scheme prefix are treated as legacy plaintext credentials: a correct
// legacy login reports NeedsRehash so the caller migrates the account.
//
// The context parameters exist to satisfy ports.PasswordHasher; the
// derivation itself has no cancellation points. Request paths should reach
// this type through the hash worker pool rather than calling it inline.
type ScryptHasher struct{}

func NewScryptHasher() *ScryptHasher {
	return &ScryptHasher{}
}

// Hash derives a fresh salted hash for the password.
func (h *ScryptHasher) Hash(_ context.Context, password string) (string, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("deriving key: %w", err)
	}

	return fmt.Sprintf("%s$%s$%s",
		scryptScheme,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Verify checks password against a stored credential. It never fails for a
// wrong password: the outcome is always a structured result. A malformed
// versioned value is simply invalid.
func (h *ScryptHasher) Verify(_ context.Context, password, stored string) (ports.VerifyResult, error) {
	if !strings.HasPrefix(stored, scryptScheme+"$") {
		valid := constantTimeEqual(password, stored)
		return ports.VerifyResult{Valid: valid, NeedsRehash: valid}, nil
	}

	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return ports.VerifyResult{}, nil
	}

	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil || len(salt) == 0 {
		return ports.VerifyResult{}, nil
	}
	want, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return ports.VerifyResult{}, nil
	}

	// Derive with the stored key's length so comparison is like-for-like
	// and a truncated row does not trigger extra work.
	got, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, len(want))
	if err != nil {
		return ports.VerifyResult{}, nil
	}

	return ports.VerifyResult{Valid: subtle.ConstantTimeCompare(got, want) == 1}, nil
}

// constantTimeEqual compares two strings without short-circuiting on the
// first mismatching byte. Both inputs are padded to a common length so the
// comparison touches every byte regardless of where they differ; the length
// check itself is folded in via ConstantTimeEq.
func constantTimeEqual(a, b string) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	ab := make([]byte, n)
	bb := make([]byte, n)
	copy(ab, a)
	copy(bb, b)

	sameLen := subtle.ConstantTimeEq(int32(len(a)), int32(len(b)))
	return subtle.ConstantTimeCompare(ab, bb)&sameLen == 1
}
