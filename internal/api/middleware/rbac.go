package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubarcoiris/members-system/internal/core/domain"
)

// RoleGate restricts a route to an allow-set of roles. It layers on top of
// AccessGuard: no attached Principal means the caller is unauthenticated
// (401), while a known caller outside the allow-set is forbidden (403).
func RoleGate(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if _, ok := allowed[principal.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
