package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubarcoiris/members-system/internal/core/domain"
)

type stubAuthService struct {
	loginFn        func(ctx context.Context, email, password string) (string, *domain.User, error)
	registerFn     func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	requestResetFn func(ctx context.Context, email string) (*domain.ResetToken, error)
	resetFn        func(ctx context.Context, email, token, newPassword string) error
	profileFn      func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) VerifyCredentials(context.Context, string, string) (*domain.User, bool, error) {
	return nil, false, nil
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) (*domain.ResetToken, error) {
	return s.requestResetFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	return s.resetFn(ctx, email, token, newPassword)
}

func (s *stubAuthService) Profile(ctx context.Context, id string) (*domain.User, error) {
	return s.profileFn(ctx, id)
}

type stubResetTokens struct {
	verifyFn func(ctx context.Context, email, token string) (bool, error)
}

func (s *stubResetTokens) Issue(context.Context, string) (*domain.ResetToken, error) {
	return nil, nil
}

func (s *stubResetTokens) Verify(ctx context.Context, email, token string) (bool, error) {
	return s.verifyFn(ctx, email, token)
}

func (s *stubResetTokens) Consume(context.Context, string, string) (bool, error) {
	return false, nil
}

func newAuthTestContext(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder, *echo.Echo) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, e
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "alicia@example.com" || password != "admin123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "signed-token", &domain.User{Email: email, Name: "Alicia", Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub, &stubResetTokens{})

	c, rec, _ := newAuthTestContext(t, "/api/auth/login", `{"email":"alicia@example.com","password":"admin123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed-token" {
		t.Fatalf("expected token in response, got %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, &stubResetTokens{})

	c, _, _ := newAuthTestContext(t, "/api/auth/login", `{"email":"alicia@example.com","password":"wrong-pass"}`)
	err := h.Login(c)
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_RejectsInvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubResetTokens{})

	for _, body := range []string{"not-json", `{"email":"not-an-email","password":"x"}`, `{"password":"x"}`} {
		c, rec, e := newAuthTestContext(t, "/api/auth/login", body)
		if err := h.Login(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAuthHandler_ForgotPassword_MasksUnknownEmail(t *testing.T) {
	for _, err := range []error{nil, domain.ErrUserNotFound, domain.ErrResetThrottled} {
		stubErr := err
		stub := &stubAuthService{
			requestResetFn: func(context.Context, string) (*domain.ResetToken, error) {
				if stubErr != nil {
					return nil, stubErr
				}
				return &domain.ResetToken{Email: "a@example.com", Token: "ab12cd34", ExpiresAt: time.Now().Add(time.Hour)}, nil
			},
		}
		h := NewAuthHandler(stub, &stubResetTokens{})

		c, rec, _ := newAuthTestContext(t, "/api/auth/forgot-password", `{"email":"a@example.com"}`)
		if handlerErr := h.ForgotPassword(c); handlerErr != nil {
			t.Fatalf("handler error: %v", handlerErr)
		}
		if rec.Code != http.StatusAccepted {
			t.Fatalf("service err %v: expected 202, got %d", stubErr, rec.Code)
		}
	}
}

func TestAuthHandler_VerifyResetToken(t *testing.T) {
	resets := &stubResetTokens{
		verifyFn: func(_ context.Context, email, token string) (bool, error) {
			return email == "a@example.com" && token == "ab12cd34", nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, resets)

	c, rec, _ := newAuthTestContext(t, "/api/auth/verify-reset-token", `{"email":"a@example.com","token":"ab12cd34"}`)
	if err := h.VerifyResetToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp["valid"] {
		t.Fatalf("expected valid=true, got %+v", resp)
	}

	c, rec, _ = newAuthTestContext(t, "/api/auth/verify-reset-token", `{"email":"a@example.com","token":"wrong000"}`)
	if err := h.VerifyResetToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["valid"] {
		t.Fatalf("expected valid=false, got %+v", resp)
	}
}

func TestAuthHandler_ResetPassword_TokenRejected(t *testing.T) {
	stub := &stubAuthService{
		resetFn: func(context.Context, string, string, string) error {
			return domain.ErrResetTokenNotFound
		},
	}
	h := NewAuthHandler(stub, &stubResetTokens{})

	c, _, _ := newAuthTestContext(t, "/api/auth/reset-password", `{"email":"a@example.com","token":"ab12cd34","password":"new-password"}`)
	if err := h.ResetPassword(c); err != domain.ErrResetTokenNotFound {
		t.Fatalf("expected ErrResetTokenNotFound to propagate, got %v", err)
	}
}

func TestAuthHandler_Register_UnknownRole(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string, domain.Role) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubResetTokens{})

	c, rec, e := newAuthTestContext(t, "/api/auth/register", `{"name":"Bob","email":"bob@example.com","password":"longenough","role":"jefe"}`)
	if err := h.Register(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
