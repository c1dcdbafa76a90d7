package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/internal/http/handlers"
	"github.com/waynex/travels-api/internal/service"
)

// ---------- Mocks ----------

type mockAuthService struct {
	signupErr   error
	verifyErr   error
	loginErr    error
	tokenErr    error
	logoutErr   error
	user        *domain.User
	loginResp   *domain.LoginResponse
	lastToken   string
	logoutCalls int
}

func (m *mockAuthService) Signup(_ context.Context, req *domain.SignupRequest) (*domain.User, error) {
	if m.signupErr != nil {
		return nil, m.signupErr
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return m.user, nil
}

func (m *mockAuthService) VerifyOTP(_ context.Context, _ *domain.VerifyOTPRequest) (*domain.User, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.user, nil
}

func (m *mockAuthService) ResendOTP(_ context.Context, _ string) error { return m.signupErr }

func (m *mockAuthService) Login(_ context.Context, _ *domain.LoginRequest) (*domain.LoginResponse, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResp, nil
}

func (m *mockAuthService) AdminLogin(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	return m.Login(ctx, req)
}

func (m *mockAuthService) TokenLogin(_ context.Context, token string) (*domain.User, error) {
	m.lastToken = token
	if m.tokenErr != nil {
		return nil, m.tokenErr
	}
	return m.user, nil
}

func (m *mockAuthService) Logout(_ context.Context, token string) error {
	m.lastToken = token
	m.logoutCalls++
	return m.logoutErr
}

func newAuthServer(svc service.AuthService) *httptest.Server {
	r := chi.NewRouter()
	r.Mount("/api/auth", handlers.NewAuthHandler(svc, nil).Routes())
	return httptest.NewServer(r)
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// ---------- Tests ----------

func TestSignupValidationErrors(t *testing.T) {
	mock := &mockAuthService{user: &domain.User{ID: 1, Email: "jane@example.com"}}
	srv := newAuthServer(mock)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/auth/signup", map[string]string{
		"email": "not-an-email", "password": "short", "first_name": "", "last_name": "Doe",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var out struct {
		Code   string `json:"code"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if out.Code != "INVALID_INPUT" {
		t.Errorf("code = %q, want INVALID_INPUT", out.Code)
	}
	if len(out.Fields) == 0 {
		t.Error("expected field-level errors")
	}
}

func TestSignupEmailTaken(t *testing.T) {
	mock := &mockAuthService{signupErr: service.ErrEmailTaken}
	srv := newAuthServer(mock)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/auth/signup", map[string]string{
		"email": "jane@example.com", "password": "correct-horse", "first_name": "Jane", "last_name": "Doe",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestVerifyOTPErrorCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"missing", domain.ErrCodeMissing, "CODE_MISSING"},
		{"expired", domain.ErrCodeExpired, "CODE_EXPIRED"},
		{"mismatch", domain.ErrCodeMismatch, "CODE_MISMATCH"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockAuthService{verifyErr: tc.err}
			srv := newAuthServer(mock)
			defer srv.Close()

			resp := postJSON(t, srv.URL+"/api/auth/verify-otp", map[string]string{
				"email": "jane@example.com", "code": "123456",
			})
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var out struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Code != tc.code {
				t.Errorf("code = %q, want %q", out.Code, tc.code)
			}
		})
	}
}

func TestTokenLoginErrorCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid", domain.ErrTokenInvalid, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"expired", domain.ErrTokenExpired, http.StatusUnauthorized, "EXPIRED_TOKEN"},
		{"revoked", domain.ErrTokenRevoked, http.StatusUnauthorized, "REVOKED_TOKEN"},
		{"unconfigured", domain.ErrConfiguration, http.StatusInternalServerError, "CONFIGURATION_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockAuthService{tokenErr: tc.err}
			srv := newAuthServer(mock)
			defer srv.Close()

			resp := postJSON(t, srv.URL+"/api/auth/token-login", map[string]string{"token": "some-token"})
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
			var out struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Code != tc.code {
				t.Errorf("code = %q, want %q", out.Code, tc.code)
			}
		})
	}
}

func TestLoginReturnsRememberToken(t *testing.T) {
	mock := &mockAuthService{
		loginResp: &domain.LoginResponse{
			User:          &domain.User{ID: 1, Email: "jane@example.com"},
			RememberToken: "signed-token",
		},
	}
	srv := newAuthServer(mock)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/auth/login", map[string]interface{}{
		"email": "jane@example.com", "password": "hunter22", "remember_me": true,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out domain.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RememberToken != "signed-token" {
		t.Errorf("remember_token = %q", out.RememberToken)
	}
}

func TestLogoutPassesToken(t *testing.T) {
	mock := &mockAuthService{}
	srv := newAuthServer(mock)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/auth/logout", map[string]string{"token": "old-token"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if mock.lastToken != "old-token" || mock.logoutCalls != 1 {
		t.Errorf("logout called %d times with token %q", mock.logoutCalls, mock.lastToken)
	}
}
