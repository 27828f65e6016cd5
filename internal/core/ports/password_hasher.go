package ports

import "context"

// VerifyResult is the structured outcome of a password check. Verification
// never fails with an error for a wrong password; Valid carries the answer
// and NeedsRehash signals that a correct legacy credential should be
// migrated to the versioned format.
type VerifyResult struct {
	Valid       bool
	NeedsRehash bool
}

// PasswordHasher derives and verifies password hashes. The context is
// honoured by implementations that offload the KDF to a worker pool; the
// derivation itself has no cancellation points.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, stored string) (VerifyResult, error)
}
