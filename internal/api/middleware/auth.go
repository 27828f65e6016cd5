package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clubarcoiris/members-system/internal/api/metrics"
	"github.com/clubarcoiris/members-system/internal/core/domain"
	"github.com/clubarcoiris/members-system/internal/core/ports"
)

// principalKey is the echo context key the guard stores the Principal under.
// Downstream code reads it through PrincipalFrom, never directly.
const principalKey = "principal"

// GuardPolicy declares which paths the access guard protects. Paths outside
// ProtectedPrefix bypass the guard entirely; paths under an OpenPrefix are
// reachable without a token even though they sit inside the protected tree.
type GuardPolicy struct {
	ProtectedPrefix string
	OpenPrefixes    []string
}

// DefaultGuardPolicy protects the API tree and leaves the auth endpoints
// open: login, register, and the whole password-reset flow must work for
// callers that do not have a token yet.
func DefaultGuardPolicy() GuardPolicy {
	return GuardPolicy{
		ProtectedPrefix: "/api",
		OpenPrefixes: []string{
			"/api/auth/login",
			"/api/auth/register",
			"/api/auth/forgot-password",
			"/api/auth/reset-password",
			"/api/auth/verify-reset-token",
		},
	}
}

func (p GuardPolicy) bypass(path string) bool {
	if !strings.HasPrefix(path, p.ProtectedPrefix) {
		return true
	}
	for _, open := range p.OpenPrefixes {
		if strings.HasPrefix(path, open) {
			return true
		}
	}
	return false
}

// AccessGuard validates the bearer token on every protected request and
// injects the resulting Principal into the context. It runs before any
// route-specific logic; a missing or malformed Authorization header is
// rejected before any token parsing is attempted.
func AccessGuard(codec ports.TokenCodec, policy GuardPolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if policy.bypass(c.Request().URL.Path) {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			principal, err := codec.Verify(parts[1])
			if err != nil {
				// Same outcome class either way; the message differs only
				// for diagnostics.
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("success").Inc()
			c.Set(principalKey, *principal)
			return next(c)
		}
	}
}

// PrincipalFrom extracts the Principal the guard attached to the request.
// The second return is false on bypass paths and in handlers the guard
// never ran for.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}
