package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clubarcoiris/members-system/internal/core/domain"
	"github.com/clubarcoiris/members-system/internal/core/ports"
)

const (
	// resetTokenBytes keeps the token short enough to type by hand: four
	// random bytes hex-encode to eight characters.
	resetTokenBytes = 4
	resetTokenTTL   = 60 * time.Minute
)

type resetService struct {
	repo     ports.ResetTokenRepository
	throttle ports.ResetThrottle // nil disables throttling
	log      zerolog.Logger
	now      func() time.Time
}

// NewResetService returns a ResetTokenService backed by the given store.
// throttle may be nil.
func NewResetService(repo ports.ResetTokenRepository, throttle ports.ResetThrottle, log zerolog.Logger) ports.ResetTokenService {
	return &resetService{
		repo:     repo,
		throttle: throttle,
		log:      log,
		now:      time.Now,
	}
}

// Issue creates a fresh token for the email. Any prior unconsumed token for
// the same email is deleted first, so exactly one live token per email
// exists by construction.
func (s *resetService) Issue(ctx context.Context, email string) (*domain.ResetToken, error) {
	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("reset throttle check failed, issuing anyway")
		} else if !allowed {
			return nil, domain.ErrResetThrottled
		}
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generating reset token: %w", err)
	}

	now := s.now()
	if err := s.repo.DeleteByEmailOrExpired(ctx, email, now); err != nil {
		return nil, fmt.Errorf("replacing reset token: %w", err)
	}

	token := domain.ResetToken{
		Email:     email,
		Token:     hex.EncodeToString(buf),
		ExpiresAt: now.Add(resetTokenTTL),
	}
	if err := s.repo.Insert(ctx, token); err != nil {
		return nil, fmt.Errorf("storing reset token: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Mark(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to mark reset throttle")
		}
	}

	return &token, nil
}

// Verify is non-consuming: a client may check a token before showing the
// password form and still redeem it afterwards. Expired rows are purged
// lazily before the lookup.
func (s *resetService) Verify(ctx context.Context, email, token string) (bool, error) {
	now := s.now()
	if err := s.repo.PurgeExpired(ctx, now); err != nil {
		s.log.Warn().Err(err).Msg("reset token purge failed")
	}
	return s.repo.FindLive(ctx, email, token, now)
}

// Consume redeems the token via a single conditional delete, so two
// concurrent consumers can never both succeed.
func (s *resetService) Consume(ctx context.Context, email, token string) (bool, error) {
	return s.repo.DeleteLive(ctx, email, token, s.now())
}
