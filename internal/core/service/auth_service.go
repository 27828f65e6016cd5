package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/clubarcoiris/members-system/internal/core/domain"
	"github.com/clubarcoiris/members-system/internal/core/ports"
)

// authService implements registration, login, and the password reset flow.
// Password derivation goes through the injected hasher, which in production
// is the worker pool: the KDF never runs inline on a request goroutine.
type authService struct {
	repo   ports.AuthRepository
	hasher ports.PasswordHasher
	codec  ports.TokenCodec
	resets ports.ResetTokenService
	log    zerolog.Logger
}

func NewAuthService(
	repo ports.AuthRepository,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	resets ports.ResetTokenService,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{
		repo:   repo,
		hasher: hasher,
		codec:  codec,
		resets: resets,
		log:    log,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.repo.Create(ctx, user)
}

// VerifyCredentials checks the email/password pair. Unknown email and wrong
// password collapse into the same ErrInvalidCredentials so responses cannot
// be used to enumerate accounts. A correct login against a legacy credential
// migrates the stored hash to the versioned format; a failed persist is
// logged and does not fail the login.
func (s *authService) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, bool, error) {
	if email == "" || password == "" {
		return nil, false, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, false, domain.ErrInvalidCredentials
		}
		return nil, false, err
	}

	res, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, false, err
	}
	if !res.Valid {
		return nil, false, domain.ErrInvalidCredentials
	}

	migrated := false
	if res.NeedsRehash {
		if hash, hashErr := s.hasher.Hash(ctx, password); hashErr != nil {
			s.log.Warn().Err(hashErr).Str("user_id", user.ID).Msg("legacy credential rehash failed")
		} else if persistErr := s.repo.UpdatePasswordHash(ctx, user.ID, hash); persistErr != nil {
			s.log.Warn().Err(persistErr).Str("user_id", user.ID).Msg("failed to persist migrated password hash")
		} else {
			user.PasswordHash = hash
			migrated = true
			s.log.Info().Str("user_id", user.ID).Msg("legacy credential migrated to scrypt")
		}
	}

	return user, migrated, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, _, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// RequestPasswordReset issues a reset token for a known account. Callers are
// expected to mask ErrUserNotFound towards the client; token delivery is the
// mailer collaborator's job.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) (*domain.ResetToken, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		return nil, err
	}
	return s.resets.Issue(ctx, email)
}

// ResetPassword redeems the token and replaces the stored credential. The
// token is consumed first: a wrong token must not leak whether the email has
// an account.
func (s *authService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	consumed, err := s.resets.Consume(ctx, email, token)
	if err != nil {
		return err
	}
	if !consumed {
		return domain.ErrResetTokenNotFound
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, user.ID, hash)
}

func (s *authService) Profile(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}
