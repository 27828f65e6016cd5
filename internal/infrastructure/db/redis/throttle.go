package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const throttleTTL = 2 * time.Minute

// ResetThrottle bounds reset token issuance per email using Redis.
// Key format: reset_throttle:<email>
type ResetThrottle struct {
	client *redis.Client
}

// NewResetThrottle creates a ResetThrottle wrapping the given Redis client.
func NewResetThrottle(client *redis.Client) *ResetThrottle {
	return &ResetThrottle{client: client}
}

// Allow reports whether a reset token may be issued for this email now.
func (t *ResetThrottle) Allow(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Exists(ctx, t.key(email)).Result()
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n == 0, nil
}

// Mark records an issuance for this email (expires after throttleTTL).
func (t *ResetThrottle) Mark(ctx context.Context, email string) error {
	return t.client.Set(ctx, t.key(email), "1", throttleTTL).Err()
}

func (t *ResetThrottle) key(email string) string {
	return "reset_throttle:" + email
}
