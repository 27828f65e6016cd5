package ports

import (
	"context"
	"time"

	"github.com/clubarcoiris/members-system/internal/core/domain"
)

// ResetTokenService issues, verifies, and consumes single-use password
// reset tokens. Delivery of the token to the user is a collaborator's job.
type ResetTokenService interface {
	Issue(ctx context.Context, email string) (*domain.ResetToken, error)
	// Verify is non-consuming and may be called repeatedly.
	Verify(ctx context.Context, email, token string) (bool, error)
	// Consume deletes the matching live row. It succeeds at most once per
	// token; the delete is atomic at the store.
	Consume(ctx context.Context, email, token string) (bool, error)
}

// ResetTokenRepository is the persistent store behind ResetTokenService.
type ResetTokenRepository interface {
	// DeleteByEmailOrExpired removes any row for the email plus every row
	// that expired before now, in one operation.
	DeleteByEmailOrExpired(ctx context.Context, email string, now time.Time) error
	Insert(ctx context.Context, token domain.ResetToken) error
	FindLive(ctx context.Context, email, token string, now time.Time) (bool, error)
	// DeleteLive removes the matching live row and reports whether a row
	// was actually deleted. Implementations must make this a single
	// conditional delete so concurrent consumers cannot both succeed.
	DeleteLive(ctx context.Context, email, token string, now time.Time) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) error
}

// ResetThrottle bounds how often a reset token may be issued per email.
type ResetThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	Mark(ctx context.Context, email string) error
}
