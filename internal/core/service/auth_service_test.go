package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
)

type authFixture struct {
	repo    *stubUserRepo
	issuer  *stubIssuer
	captcha *stubCaptcha
	svc     *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		repo:    newStubUserRepo(),
		issuer:  &stubIssuer{},
		captcha: &stubCaptcha{},
	}
	f.svc = NewAuthService(f.repo, f.issuer, f.captcha, bcrypt.MinCost, discardLogger)
	return f
}

func (f *authFixture) register(t *testing.T, username, email, password string) *ports.AuthResult {
	t.Helper()
	res, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Register(%s) returned error: %v", username, err)
	}
	return res
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture()

	res := f.register(t, " alice ", "Alice@Example.com", "pass123")
	if res.AccessToken == "" {
		t.Fatalf("expected access token")
	}
	user := res.User
	if user.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", user.Username)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lower-cased email, got %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role user, got %s", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("expected new account to be active")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(f.issuer.issued) != 1 || f.issuer.issued[0].ID != user.ID {
		t.Fatalf("expected one session issued for %s, got %+v", user.ID, f.issuer.issued)
	}
	if f.captcha.calls != 1 {
		t.Fatalf("expected captcha to be checked once, got %d", f.captcha.calls)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newAuthFixture()

	cases := []ports.RegisterInput{
		{Username: "", Email: "a@example.com", Password: "x"},
		{Username: "a", Email: "  ", Password: "x"},
		{Username: "a", Email: "a@example.com", Password: ""},
		{Username: "  ab ", Email: "ab@example.com", Password: "pass123"},
		{Username: "   ", Email: "blank@example.com", Password: "pass123"},
		{Username: strings.Repeat("x", 51), Email: "long@example.com", Password: "pass123"},
		{Username: "carol", Email: "carol@example.com", Password: "12345"},
		{Username: "carol", Email: "carol@example.com", Password: strings.Repeat("p", 73)},
	}
	for _, in := range cases {
		if _, err := f.svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("Register(%+v): expected ErrValidation, got %v", in, err)
		}
	}
	if f.repo.writes != 0 {
		t.Fatalf("expected no writes, got %d", f.repo.writes)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "alice", "alice@example.com", "pass123")

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice2",
		Email:    "ALICE@example.com",
		Password: "other1",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict kind, got %v", err)
	}
	if f.repo.writes != 1 {
		t.Fatalf("expected store to be unchanged, writes=%d", f.repo.writes)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "alice", "alice@example.com", "pass123")

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice",
		Email:    "another@example.com",
		Password: "other1",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if f.repo.writes != 1 {
		t.Fatalf("expected store to be unchanged, writes=%d", f.repo.writes)
	}
}

func TestAuthService_Register_EmailCheckedFirst(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "alice", "alice@example.com", "pass123")

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pass123",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken when both collide, got %v", err)
	}
}

func TestAuthService_Register_CaptchaRejected(t *testing.T) {
	f := newAuthFixture()
	f.captcha.err = domain.ErrCaptchaFailed

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pass123",
	})
	if !errors.Is(err, domain.ErrCaptchaFailed) {
		t.Fatalf("expected ErrCaptchaFailed, got %v", err)
	}
	if f.repo.writes != 0 {
		t.Fatalf("expected no account to be created")
	}
}

func TestAuthService_Login_ByEmailAndUsername(t *testing.T) {
	f := newAuthFixture()
	registered := f.register(t, "alice", "alice@example.com", "pass123")

	for _, identifier := range []string{"alice@example.com", "ALICE@example.com", "alice"} {
		res, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: identifier, Password: "pass123"})
		if err != nil {
			t.Fatalf("Login(%s) returned error: %v", identifier, err)
		}
		if res.User.ID != registered.User.ID {
			t.Fatalf("Login(%s) returned user %s, want %s", identifier, res.User.ID, registered.User.ID)
		}
		if res.AccessToken == "" {
			t.Fatalf("Login(%s) returned empty token", identifier)
		}
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "alice", "alice@example.com", "pass123")
	issuedBefore := len(f.issuer.issued)

	cases := []ports.LoginInput{
		{Identifier: "alice", Password: "wrong"},
		{Identifier: "nobody@example.com", Password: "pass123"},
		{Identifier: "nobody", Password: "pass123"},
		{Identifier: "", Password: "pass123"},
		{Identifier: "alice", Password: ""},
	}
	for _, in := range cases {
		if _, err := f.svc.Login(context.Background(), in); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("Login(%+v): expected ErrInvalidCredentials, got %v", in, err)
		}
	}
	if len(f.issuer.issued) != issuedBefore {
		t.Fatalf("expected no sessions for failed logins")
	}
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	f := newAuthFixture()
	res := f.register(t, "alice", "alice@example.com", "pass123")
	f.repo.users[res.User.ID].IsActive = false

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "pass123"})
	if !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}

	// A wrong password on a disabled account must not reveal its status.
	_, err = f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "nope"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_RepositoryFailure(t *testing.T) {
	f := newAuthFixture()
	f.repo.findErr = errors.New("connection reset")

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "pass123"})
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected infrastructure error to surface, got %v", err)
	}
}

func TestAuthService_Register_UsernameLengthAfterTrim(t *testing.T) {
	f := newAuthFixture()

	res := f.register(t, "  abc ", "abc@example.com", "pass123")
	if res.User.Username != "abc" {
		t.Fatalf("expected trimmed username, got %q", res.User.Username)
	}

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Username: "  ab ",
		Email:    "ab@example.com",
		Password: "pass123",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for a 2-character username, got %v", err)
	}
	if f.repo.writes != 1 {
		t.Fatalf("expected only the valid registration to be stored, writes=%d", f.repo.writes)
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	admin, created, err := f.svc.EnsureAdmin(ctx, "root", "root@example.com", "s3cret")
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if !created || admin.Role != domain.RoleAdmin || !admin.IsActive {
		t.Fatalf("expected new active admin, got created=%v user=%+v", created, admin)
	}

	again, created, err := f.svc.EnsureAdmin(ctx, "root", "root@example.com", "s3cret")
	if err != nil {
		t.Fatalf("second EnsureAdmin returned error: %v", err)
	}
	if created || again.ID != admin.ID {
		t.Fatalf("expected existing admin to be reused")
	}

	f.register(t, "bob", "bob@example.com", "pass123")
	if _, _, err := f.svc.EnsureAdmin(ctx, "boss", "bob@example.com", "secret1"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken for non-admin email, got %v", err)
	}
	if _, _, err := f.svc.EnsureAdmin(ctx, "bob", "boss@example.com", "secret1"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}
