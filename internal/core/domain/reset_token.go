package domain

import "time"

// ResetToken is a short-lived, single-use password reset token bound to an
// email address. At most one live (non-expired) row exists per email at any
// time: issuing a new token for an email replaces the previous one.
type ResetToken struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Live reports whether the token is still usable at the given instant.
func (t ResetToken) Live(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}
