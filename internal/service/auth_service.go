package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/internal/mailer"
	"github.com/waynex/travels-api/internal/otp"
	"github.com/waynex/travels-api/internal/repo/postgres"
	"github.com/waynex/travels-api/internal/token"
	"github.com/waynex/travels-api/pkg/config"
	"github.com/waynex/travels-api/pkg/events"
	"github.com/waynex/travels-api/pkg/logger"
)

var (
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email address is not verified")
	ErrNotAdmin           = errors.New("admin access required")
)

type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error)
	VerifyOTP(ctx context.Context, req *domain.VerifyOTPRequest) (*domain.User, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	AdminLogin(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	TokenLogin(ctx context.Context, tokenString string) (*domain.User, error)
	Logout(ctx context.Context, tokenString string) error
}

type authService struct {
	userRepo postgres.UserRepository
	mailer   mailer.Service
	eventBus events.EventBus
	config   *config.Config
	now      func() time.Time
}

func NewAuthService(
	userRepo postgres.UserRepository,
	mailer mailer.Service,
	eventBus events.EventBus,
	config *config.Config,
) AuthService {
	return &authService{
		userRepo: userRepo,
		mailer:   mailer,
		eventBus: eventBus,
		config:   config,
		now:      time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.issueOTP(ctx, user); err != nil {
		logger.ErrorContext(ctx, "Failed to issue verification code", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to issue verification code: %w", err)
	}

	if err := s.eventBus.Publish(ctx, events.UserRegistered, events.UserRegisteredEvent{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish user registered event", "error", err, "user_id", user.ID)
	}

	return user, nil
}

// issueOTP stores a fresh code hash and dispatches the email. A dispatch
// failure does not roll the hash back; the user can ask for a resend.
func (s *authService) issueOTP(ctx context.Context, user *domain.User) error {
	code, err := otp.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	hash, err := otp.Hash(code)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	if err := s.userRepo.StoreOTP(ctx, user.ID, hash, s.now()); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	if err := s.mailer.SendOTPEmail(user.Email, user.FirstName, code); err != nil {
		logger.ErrorContext(ctx, "Failed to send verification email", "error", err, "user_id", user.ID)
	}

	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *domain.VerifyOTPRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	if err := otp.Verify(user.OTPHash, user.OTPCreatedAt, req.Code, s.now()); err != nil {
		return nil, err
	}

	if err := s.userRepo.ClearOTP(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to clear code: %w", err)
	}
	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to mark verified: %w", err)
	}
	user.IsVerified = true
	user.OTPHash = nil
	user.OTPCreatedAt = nil

	if err := s.eventBus.Publish(ctx, events.UserVerified, events.UserRegisteredEvent{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish user verified event", "error", err, "user_id", user.ID)
	}

	return user, nil
}

func (s *authService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if user.IsVerified {
		return nil
	}
	// Reissue overwrites any outstanding code; last write wins.
	return s.issueOTP(ctx, user)
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	return s.login(ctx, req, false)
}

func (s *authService) AdminLogin(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	return s.login(ctx, req, true)
}

func (s *authService) login(ctx context.Context, req *domain.LoginRequest, requireAdmin bool) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrNotVerified
	}
	if requireAdmin && !user.IsAdmin {
		return nil, ErrNotAdmin
	}

	resp := &domain.LoginResponse{User: user}

	if req.RememberMe {
		tokenString, expiry, err := token.Issue(user.ID, user.Email,
			s.config.Auth.JWTSecret, s.config.Auth.RememberTokenTTL, s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to issue remember token: %w", err)
		}
		if err := s.userRepo.StoreRememberToken(ctx, user.ID, tokenString, expiry); err != nil {
			return nil, fmt.Errorf("failed to store remember token: %w", err)
		}
		resp.RememberToken = tokenString
		resp.TokenExpiry = &expiry
	}

	return resp, nil
}

// TokenLogin authorizes a remember-me token. Beyond the signature the stored
// copy must match and its expiry must be in the future, so a server-side
// revocation trumps an otherwise valid token.
func (s *authService) TokenLogin(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := token.Parse(tokenString, s.config.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrTokenRevoked
	}

	if user.RememberToken == nil || *user.RememberToken != tokenString {
		return nil, domain.ErrTokenRevoked
	}
	if user.RememberTokenExpiry == nil || !user.RememberTokenExpiry.After(s.now()) {
		return nil, domain.ErrTokenRevoked
	}

	return user, nil
}

// Logout revokes the stored remember-me token. Revoking an already revoked
// or unknown token is a no-op.
func (s *authService) Logout(ctx context.Context, tokenString string) error {
	claims, err := token.Parse(tokenString, s.config.Auth.JWTSecret)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			return err
		}
		return nil
	}

	if err := s.userRepo.ClearRememberToken(ctx, claims.UserID); err != nil {
		return fmt.Errorf("failed to clear remember token: %w", err)
	}
	return nil
}
