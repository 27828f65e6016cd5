package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubarcoiris/members-system/internal/api/metrics"
	"github.com/clubarcoiris/members-system/internal/core/domain"
	"github.com/clubarcoiris/members-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	resetTokens ports.ResetTokenService
}

func NewAuthHandler(authService ports.AuthService, resetTokens ports.ResetTokenService) *AuthHandler {
	return &AuthHandler{authService: authService, resetTokens: resetTokens}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyResetTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

type resetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user and returns a signed access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// ForgotPassword issues a password reset token for the account. The
// response is identical whether or not the email has an account, so the
// endpoint cannot be used for enumeration. Token delivery happens out of
// band.
//
// @Summary      Request a password reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email)
	switch {
	case err == nil:
		metrics.ResetTokensIssuedTotal.Inc()
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrResetThrottled):
		// Masked: same response as success.
	default:
		return err
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "if the account exists, a reset token has been sent",
	})
}

// VerifyResetToken reports whether a reset token is currently valid without
// consuming it, so clients can check before showing the password form.
//
// @Summary      Check a password reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyResetTokenRequest  true  "Email and token"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/verify-reset-token [post]
func (h *AuthHandler) VerifyResetToken(c echo.Context) error {
	var req verifyResetTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	valid, err := h.resetTokens.Verify(c.Request().Context(), req.Email, req.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": valid})
}

// ResetPassword consumes the reset token and sets the new password.
//
// @Summary      Reset password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Email, token, and new password"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.Token, req.Password); err != nil {
		if errors.Is(err, domain.ErrResetTokenNotFound) {
			metrics.ResetTokensConsumedTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	metrics.ResetTokensConsumedTotal.WithLabelValues("consumed").Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// Me returns the profile of the authenticated caller.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
