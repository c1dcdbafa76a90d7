package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/internal/http/response"
	"github.com/waynex/travels-api/internal/ratelimit"
	"github.com/waynex/travels-api/internal/service"
)

const (
	otpRateLimit  = 5
	otpRateWindow = time.Minute
)

type AuthHandler struct {
	Auth    service.AuthService
	Limiter *ratelimit.Limiter
}

func NewAuthHandler(auth service.AuthService, limiter *ratelimit.Limiter) *AuthHandler {
	return &AuthHandler{Auth: auth, Limiter: limiter}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.signup)
	r.Post("/verify-otp", h.verifyOTP)
	r.Post("/resend-otp", h.resendOTP)
	r.Post("/login", h.login)
	r.Post("/token-login", h.tokenLogin)
	r.Post("/logout", h.logout)
	r.Post("/admin/login", h.adminLogin)
	return r
}

// allowOTP gates code issuance per client IP.
func (h *AuthHandler) allowOTP(w http.ResponseWriter, r *http.Request) bool {
	if h.Limiter == nil {
		return true
	}
	key := "otp:" + clientIP(r)
	if !h.Limiter.Allow(r.Context(), key, otpRateLimit, otpRateWindow) {
		response.RateLimited(w, "too many verification codes requested, try again shortly")
		return false
	}
	return true
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	if !h.allowOTP(w, r) {
		return
	}

	var req domain.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Auth.Signup(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.WriteError(w, http.StatusConflict, err.Error(), response.CodeEmailExists)
			return
		}
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "verification code sent",
		"user":    user,
	})
}

func (h *AuthHandler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Auth.VerifyOTP(r.Context(), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "email verified",
		"user":    user,
	})
}

func (h *AuthHandler) resendOTP(w http.ResponseWriter, r *http.Request) {
	if !h.allowOTP(w, r) {
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		response.BadRequest(w, "email is required")
		return
	}

	if err := h.Auth.ResendOTP(r.Context(), req.Email); err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "verification code sent"})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	h.handleLogin(w, r, h.Auth.Login)
}

func (h *AuthHandler) adminLogin(w http.ResponseWriter, r *http.Request) {
	h.handleLogin(w, r, h.Auth.AdminLogin)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request,
	login func(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)) {

	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(w, err.Error())
		case errors.Is(err, service.ErrNotVerified):
			response.WriteError(w, http.StatusForbidden, err.Error(), response.CodeNotVerified)
		case errors.Is(err, service.ErrNotAdmin):
			response.Forbidden(w, err.Error())
		default:
			response.DomainError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) tokenLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.TokenLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		response.BadRequest(w, "token is required")
		return
	}

	user, err := h.Auth.TokenLogin(r.Context(), req.Token)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	var req domain.TokenLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Auth.Logout(r.Context(), req.Token); err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
