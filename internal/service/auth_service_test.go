package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/pkg/config"
	"github.com/waynex/travels-api/pkg/events"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret",
			RememberTokenTTL: 30 * 24 * time.Hour,
			OTPTTL:           5 * time.Minute,
		},
	}
}

func newAuthFixture() (*authService, *mockUserRepo, *mockMailer) {
	users := newMockUserRepo()
	mail := &mockMailer{}
	svc := NewAuthService(users, mail, events.NoopEventBus{}, testConfig()).(*authService)
	return svc, users, mail
}

func signupReq() *domain.SignupRequest {
	return &domain.SignupRequest{
		Email:     "jane@example.com",
		Password:  "correct-horse-battery",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func TestSignupIssuesOTP(t *testing.T) {
	svc, users, mail := newAuthFixture()

	user, err := svc.Signup(context.Background(), signupReq())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	stored := users.users[user.ID]
	if stored.OTPHash == nil || stored.OTPCreatedAt == nil {
		t.Fatal("expected OTP hash and timestamp to be stored")
	}
	if mail.lastTo != "jane@example.com" {
		t.Errorf("email sent to %q", mail.lastTo)
	}
	if len(mail.lastCode) != 6 {
		t.Errorf("expected a 6-digit code, got %q", mail.lastCode)
	}

	// The mailed code must verify against the stored hash.
	verified, err := svc.VerifyOTP(context.Background(), &domain.VerifyOTPRequest{
		Email: "jane@example.com", Code: mail.lastCode,
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verified.IsVerified {
		t.Error("expected user to be verified")
	}
	if users.users[user.ID].OTPHash != nil {
		t.Error("expected OTP hash to be cleared after verification")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.Signup(context.Background(), signupReq()); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(context.Background(), signupReq()); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignupEmailFailureKeepsOTP(t *testing.T) {
	svc, users, mail := newAuthFixture()
	mail.sendOTPErr = errors.New("smtp down")

	user, err := svc.Signup(context.Background(), signupReq())
	if err != nil {
		t.Fatalf("signup should survive a mail failure: %v", err)
	}
	if users.users[user.ID].OTPHash == nil {
		t.Error("expected OTP hash to stay stored despite mail failure")
	}
}

func TestVerifyOTPMismatch(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.Signup(context.Background(), signupReq()); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err := svc.VerifyOTP(context.Background(), &domain.VerifyOTPRequest{
		Email: "jane@example.com", Code: "000000",
	})
	if !errors.Is(err, domain.ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch, got %v", err)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, _, mail := newAuthFixture()

	if _, err := svc.Signup(context.Background(), signupReq()); err != nil {
		t.Fatalf("signup: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(6 * time.Minute) }

	_, err := svc.VerifyOTP(context.Background(), &domain.VerifyOTPRequest{
		Email: "jane@example.com", Code: mail.lastCode,
	})
	if !errors.Is(err, domain.ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}
}

func TestVerifyOTPMissing(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.add(&domain.User{Email: "jane@example.com"})

	_, err := svc.VerifyOTP(context.Background(), &domain.VerifyOTPRequest{
		Email: "jane@example.com", Code: "123456",
	})
	if !errors.Is(err, domain.ErrCodeMissing) {
		t.Fatalf("expected ErrCodeMissing, got %v", err)
	}
}

func TestResendOverwritesCode(t *testing.T) {
	svc, _, mail := newAuthFixture()

	if _, err := svc.Signup(context.Background(), signupReq()); err != nil {
		t.Fatalf("signup: %v", err)
	}
	first := mail.lastCode

	if err := svc.ResendOTP(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}

	// The earlier code no longer verifies unless the codes happen to collide.
	if first != mail.lastCode {
		if _, err := svc.VerifyOTP(context.Background(), &domain.VerifyOTPRequest{
			Email: "jane@example.com", Code: first,
		}); !errors.Is(err, domain.ErrCodeMismatch) {
			t.Fatalf("expected the stale code to be rejected, got %v", err)
		}
	}

	if _, err := svc.VerifyOTP(context.Background(), &domain.VerifyOTPRequest{
		Email: "jane@example.com", Code: mail.lastCode,
	}); err != nil {
		t.Fatalf("latest code should verify: %v", err)
	}
}

func addVerifiedUser(t *testing.T, users *mockUserRepo, email, password string, admin bool) *domain.User {
	t.Helper()
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return users.add(&domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Jane",
		IsVerified:   true,
		IsAdmin:      admin,
	})
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, _ := newAuthFixture()
	addVerifiedUser(t, users, "jane@example.com", "hunter22", false)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email: "jane@example.com", Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnverified(t *testing.T) {
	svc, users, _ := newAuthFixture()
	u := addVerifiedUser(t, users, "jane@example.com", "hunter22", false)
	u.IsVerified = false

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email: "jane@example.com", Password: "hunter22",
	})
	if !errors.Is(err, ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
}

func TestAdminLoginRequiresAdmin(t *testing.T) {
	svc, users, _ := newAuthFixture()
	addVerifiedUser(t, users, "jane@example.com", "hunter22", false)

	_, err := svc.AdminLogin(context.Background(), &domain.LoginRequest{
		Email: "jane@example.com", Password: "hunter22",
	})
	if !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}

func TestRememberMeRoundTrip(t *testing.T) {
	svc, users, _ := newAuthFixture()
	user := addVerifiedUser(t, users, "jane@example.com", "hunter22", false)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email: "jane@example.com", Password: "hunter22", RememberMe: true,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.RememberToken == "" {
		t.Fatal("expected a remember token")
	}
	if users.users[user.ID].RememberToken == nil {
		t.Fatal("expected the token to be stored server-side")
	}

	got, err := svc.TokenLogin(context.Background(), resp.RememberToken)
	if err != nil {
		t.Fatalf("token login: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("token login returned user %d, want %d", got.ID, user.ID)
	}
}

func TestTokenLoginRevoked(t *testing.T) {
	svc, users, _ := newAuthFixture()
	addVerifiedUser(t, users, "jane@example.com", "hunter22", false)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email: "jane@example.com", Password: "hunter22", RememberMe: true,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), resp.RememberToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.TokenLogin(context.Background(), resp.RememberToken); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after logout, got %v", err)
	}

	// Revoking again is a no-op.
	if err := svc.Logout(context.Background(), resp.RememberToken); err != nil {
		t.Fatalf("second logout should be idempotent: %v", err)
	}
}

func TestTokenLoginSupersededToken(t *testing.T) {
	svc, users, _ := newAuthFixture()
	addVerifiedUser(t, users, "jane@example.com", "hunter22", false)

	login := func() string {
		resp, err := svc.Login(context.Background(), &domain.LoginRequest{
			Email: "jane@example.com", Password: "hunter22", RememberMe: true,
		})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		return resp.RememberToken
	}

	first := login()
	svc.now = func() time.Time { return time.Now().Add(time.Second) }
	second := login()

	if first == second {
		t.Fatal("expected a fresh token on re-login")
	}
	if _, err := svc.TokenLogin(context.Background(), first); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected the superseded token to be revoked, got %v", err)
	}
	if _, err := svc.TokenLogin(context.Background(), second); err != nil {
		t.Fatalf("latest token should work: %v", err)
	}
}

func TestRememberMeMissingSecret(t *testing.T) {
	users := newMockUserRepo()
	cfg := testConfig()
	cfg.Auth.JWTSecret = ""
	svc := NewAuthService(users, &mockMailer{}, events.NoopEventBus{}, cfg).(*authService)
	addVerifiedUser(t, users, "jane@example.com", "hunter22", false)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email: "jane@example.com", Password: "hunter22", RememberMe: true,
	})
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
