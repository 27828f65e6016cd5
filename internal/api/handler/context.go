package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubarcoiris/members-system/internal/api/middleware"
	"github.com/clubarcoiris/members-system/internal/core/domain"
)

// ctxPrincipal extracts the Principal injected by the access guard and
// fast-fails before any service call: an absent principal on a protected
// route means the guard never ran, which is a wiring bug surfaced as 401
// rather than a nil dereference further down.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return principal, nil
}
