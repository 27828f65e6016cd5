package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clubarcoiris/members-system/internal/core/domain"
)

type stubAuthRepo struct {
	users map[string]*domain.User // keyed by email
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = user.Email
	}
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = hash
			u.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func newTestAuthService(t *testing.T, repo *stubAuthRepo) *authService {
	t.Helper()
	codec, err := NewTokenCodec(testSecret)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	resets := NewResetService(&stubResetRepo{}, nil, zerolog.Nop())
	return &authService{
		repo:   repo,
		hasher: NewScryptHasher(),
		codec:  codec,
		resets: resets,
		log:    zerolog.Nop(),
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alicia", "alicia@example.com", "admin123", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "admin123" {
		t.Fatalf("expected password to be hashed")
	}
	if !strings.HasPrefix(repo.users["alicia@example.com"].PasswordHash, "scrypt$") {
		t.Fatalf("stored credential not in versioned format: %s", repo.users["alicia@example.com"].PasswordHash)
	}

	token, logged, err := svc.Login(ctx, "alicia@example.com", "admin123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if logged.Email != "alicia@example.com" || logged.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user: %+v", logged)
	}

	principal, err := svc.codec.Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if principal.ID != logged.ID || principal.Name != logged.Name || principal.Role != logged.Role {
		t.Fatalf("principal %+v does not match user %+v", principal, logged)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(t, newStubAuthRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "a@example.com", "pass", domain.RoleAdmin); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(ctx, "Bob", "b@example.com", "pass", domain.Role("jefe")); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown role, got %v", err)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alicia", "alicia@example.com", "s3cret-pass", domain.RoleAnimador); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Wrong password and unknown email are indistinguishable.
	if _, _, err := svc.Login(ctx, "alicia@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_LegacyCredentialMigratesOnLogin(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	repo.users["vieja@example.com"] = &domain.User{
		ID:           "legacy-1",
		Name:         "Veterana",
		Email:        "vieja@example.com",
		PasswordHash: "admin123", // pre-migration plaintext row
		Role:         domain.RoleAnimador,
	}

	user, migrated, err := svc.VerifyCredentials(ctx, "vieja@example.com", "admin123")
	if err != nil {
		t.Fatalf("VerifyCredentials returned error: %v", err)
	}
	if !migrated {
		t.Fatalf("expected legacy credential to be migrated")
	}

	stored := repo.users["vieja@example.com"].PasswordHash
	if !strings.HasPrefix(stored, "scrypt$") {
		t.Fatalf("stored credential not migrated: %s", stored)
	}
	if user.PasswordHash != stored {
		t.Fatalf("returned user must carry the migrated hash")
	}

	// Second login verifies against the versioned hash, no further rehash.
	_, migrated, err = svc.VerifyCredentials(ctx, "vieja@example.com", "admin123")
	if err != nil {
		t.Fatalf("VerifyCredentials returned error: %v", err)
	}
	if migrated {
		t.Fatalf("versioned credential must not migrate again")
	}
}

func TestAuthService_ResetPasswordFlow(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alicia", "alicia@example.com", "old-password", domain.RoleFamilia); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	token, err := svc.RequestPasswordReset(ctx, "alicia@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}

	if err := svc.ResetPassword(ctx, "alicia@example.com", token.Token, "new-password"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	// New password works, old one does not.
	if _, _, err := svc.Login(ctx, "alicia@example.com", "new-password"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alicia@example.com", "old-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected old password rejection, got %v", err)
	}

	// The token was consumed: a second redemption fails.
	err = svc.ResetPassword(ctx, "alicia@example.com", token.Token, "another-password")
	if !errors.Is(err, domain.ErrResetTokenNotFound) {
		t.Fatalf("expected ErrResetTokenNotFound, got %v", err)
	}
}

func TestAuthService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(t, newStubAuthRepo())

	if _, err := svc.RequestPasswordReset(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
