package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn          func(ctx context.Context, user *User) error
	findByIDFn        func(ctx context.Context, id string) (*User, error)
	findByEmailFn     func(ctx context.Context, email string) (*User, error)
	emailExistsFn     func(ctx context.Context, email string) (bool, error)
	updateLastLoginFn func(ctx context.Context, id string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id)
	}
	return nil
}

// --- Test Helpers ---

// newTestAuthService creates an authService backed by a miniredis instance.
func newTestAuthService(t *testing.T, repo *mockUserRepo) *authService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return &authService{
		repo:       repo,
		redis:      rdb,
		sessionTTL: 24 * time.Hour,
	}
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// --- Register Tests ---

func TestRegister_Success(t *testing.T) {
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, user *User) error {
			if user.Email != "alice@example.com" {
				t.Errorf("expected email alice@example.com, got %s", user.Email)
			}
			if user.DisplayName != "Alice" {
				t.Errorf("expected display name Alice, got %s", user.DisplayName)
			}
			if user.AppRole != nil {
				t.Error("expected no app role hint on self-signup")
			}
			if user.PasswordHash == "" {
				t.Error("expected password hash to be set")
			}
			return nil
		},
	}

	svc := newTestAuthService(t, repo)
	user, err := svc.Register(context.Background(), RegisterInput{
		Email:       "Alice@Example.com",
		DisplayName: "Alice",
		Password:    "secure-password-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID == "" {
		t.Error("expected user ID to be generated")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}

	svc := newTestAuthService(t, repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "taken@example.com",
		DisplayName: "Taken",
		Password:    "secure-password-123",
	})
	assertAppError(t, err, 409)
}

func TestRegister_ProvisioningRoleHint(t *testing.T) {
	var created *User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *User) error {
			created = user
			return nil
		},
	}

	hint := "admin"
	svc := newTestAuthService(t, repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "boss@example.com",
		DisplayName: "Boss",
		Password:    "secure-password-123",
		AppRole:     &hint,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil || created.AppRole == nil || *created.AppRole != "admin" {
		t.Error("expected app role hint to be stamped on provisioned user")
	}
}

// --- Login / Session Tests ---

func TestLogin_SuccessCreatesSession(t *testing.T) {
	hash, err := hashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	hint := "admin"
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{
				ID:           "u-1",
				Email:        email,
				DisplayName:  "Alice",
				PasswordHash: hash,
				AppRole:      &hint,
			}, nil
		},
	}

	svc := newTestAuthService(t, repo)
	token, user, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("expected 64-char hex session token, got %d chars", len(token))
	}
	if user.ID != "u-1" {
		t.Errorf("expected user u-1, got %s", user.ID)
	}

	// The session must carry the provisioning role hint.
	session, err := svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("validating session: %v", err)
	}
	if session.AppRole == nil || *session.AppRole != "admin" {
		t.Error("expected session to carry the app role hint")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := hashPassword("right")
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{ID: "u-1", Email: email, PasswordHash: hash}, nil
		},
	}

	svc := newTestAuthService(t, repo)
	_, _, err = svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assertAppError(t, err, 401)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepo{})
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assertAppError(t, err, 401)
}

func TestDestroySession(t *testing.T) {
	hash, err := hashPassword("pw-pw-pw-pw")
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{ID: "u-1", Email: email, PasswordHash: hash}, nil
		},
	}

	svc := newTestAuthService(t, repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "pw-pw-pw-pw",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.DestroySession(context.Background(), token); err != nil {
		t.Fatalf("destroying session: %v", err)
	}

	_, err = svc.ValidateSession(context.Background(), token)
	assertAppError(t, err, 401)
}

// --- Password Hashing Tests ---

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := hashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verifyPassword("hunter2hunter2", hash) {
		t.Error("expected password to verify against its own hash")
	}
	if verifyPassword("hunter3hunter3", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, malformed := range []string{"", "not-a-hash", "$argon2id$bogus", "$argon2id$v=19$m=x$s$h"} {
		if verifyPassword("anything", malformed) {
			t.Errorf("expected malformed hash %q to fail verification", malformed)
		}
	}
}
