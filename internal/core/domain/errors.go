package domain

import "errors"

// Authentication and credential errors. Unknown email and wrong password
// both surface as ErrInvalidCredentials so callers cannot enumerate
// accounts.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// Token errors. Malformed structure and signature mismatch are deliberately
// collapsed into ErrTokenInvalid: the caller only needs the outcome class.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Authorization errors.
var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInsufficientRole  = errors.New("insufficient role")
)

// Reset flow errors. Not-found and expired are indistinguishable on purpose.
var (
	ErrResetTokenNotFound = errors.New("reset token not found or expired")
	ErrResetThrottled     = errors.New("reset token recently issued")
)

// ErrSigningSecret is a fatal configuration error: the signing secret is
// absent or shorter than the required minimum. Raised once at startup on the
// issuing path; at verification time the same condition degrades to
// ErrTokenInvalid instead.
var ErrSigningSecret = errors.New("signing secret missing or too short")

var ErrMemberNotFound = errors.New("member not found")
