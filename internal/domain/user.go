package domain

import (
	"regexp"
	"strings"
	"time"
)

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone,omitempty"`

	Address Address `json:"address"`

	IsAdmin    bool `json:"is_admin"`
	IsVerified bool `json:"is_verified"`

	// OTP state. Only the hash is ever stored; the plaintext code lives
	// exactly as long as the email dispatch.
	OTPHash      *string    `json:"-"`
	OTPCreatedAt *time.Time `json:"-"`

	// Remember-me token state. The stored copy is what makes server-side
	// revocation possible even while the signature is still valid.
	RememberToken       *string    `json:"-"`
	RememberTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Country string `json:"country,omitempty"`
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`

	AddressStreet  string `json:"address_street,omitempty"`
	AddressCity    string `json:"address_city,omitempty"`
	AddressState   string `json:"address_state,omitempty"`
	AddressPincode string `json:"address_pincode,omitempty"`
	AddressCountry string `json:"address_country,omitempty"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type TokenLoginRequest struct {
	Token string `json:"token"`
}

type LoginResponse struct {
	User          *User      `json:"user"`
	RememberToken string     `json:"remember_token,omitempty"`
	TokenExpiry   *time.Time `json:"token_expiry,omitempty"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`

	AddressStreet  *string `json:"address_street,omitempty"`
	AddressCity    *string `json:"address_city,omitempty"`
	AddressState   *string `json:"address_state,omitempty"`
	AddressPincode *string `json:"address_pincode,omitempty"`
	AddressCountry *string `json:"address_country,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func (r *SignupRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *SignupRequest) Validate() error {
	var v ValidationError
	if r.Email == "" {
		v.Add("email", "is required")
	} else if !isValidEmail(r.Email) {
		v.Add("email", "invalid format")
	}
	if r.Password == "" {
		v.Add("password", "is required")
	} else if len(r.Password) < 6 {
		v.Add("password", "must be at least 6 characters")
	}
	if r.FirstName == "" {
		v.Add("first_name", "is required")
	} else if len(r.FirstName) > 100 {
		v.Add("first_name", "must be at most 100 characters")
	}
	if r.LastName == "" {
		v.Add("last_name", "is required")
	} else if len(r.LastName) > 100 {
		v.Add("last_name", "must be at most 100 characters")
	}
	if v.HasErrors() {
		return &v
	}
	return nil
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	var v ValidationError
	if r.Email == "" {
		v.Add("email", "is required")
	} else if !isValidEmail(r.Email) {
		v.Add("email", "invalid format")
	}
	if r.Password == "" {
		v.Add("password", "is required")
	}
	if v.HasErrors() {
		return &v
	}
	return nil
}

func (r *VerifyOTPRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Code = strings.TrimSpace(r.Code)
}

func (r *VerifyOTPRequest) Validate() error {
	var v ValidationError
	if r.Email == "" {
		v.Add("email", "is required")
	} else if !isValidEmail(r.Email) {
		v.Add("email", "invalid format")
	}
	if len(r.Code) != 6 {
		v.Add("code", "must be a 6-digit code")
	}
	if v.HasErrors() {
		return &v
	}
	return nil
}

// HasActiveOTP reports whether an OTP hash is currently stored.
func (u *User) HasActiveOTP() bool {
	return u.OTPHash != nil && *u.OTPHash != ""
}
