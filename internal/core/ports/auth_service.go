package ports

import (
	"context"

	"github.com/clubarcoiris/members-system/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// VerifyCredentials checks an email/password pair without issuing a
	// token. The bool reports whether the stored hash was migrated to the
	// versioned format as a side effect of this login.
	VerifyCredentials(ctx context.Context, email, password string) (*domain.User, bool, error)
	RequestPasswordReset(ctx context.Context, email string) (*domain.ResetToken, error)
	ResetPassword(ctx context.Context, email, token, newPassword string) error
	Profile(ctx context.Context, id string) (*domain.User, error)
}

// TokenCodec issues and verifies stateless signed access tokens.
type TokenCodec interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (*domain.Principal, error)
}
