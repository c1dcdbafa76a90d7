package domain

import (
	"errors"
	"fmt"
	"strings"
)

// OTP verification failures
var (
	ErrCodeMissing  = errors.New("no verification code is outstanding")
	ErrCodeExpired  = errors.New("verification code has expired")
	ErrCodeMismatch = errors.New("verification code does not match")
)

// Remember-me token failures
var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// ErrConfiguration indicates missing server-side configuration, e.g. an
// unset signing secret or email credentials.
var ErrConfiguration = errors.New("service is not configured")

var ErrNotFound = errors.New("not found")

// GenerationError is returned when a unique identifier could not be
// generated within the allowed number of collision retries.
type GenerationError struct {
	Kind     string
	Attempts int
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate unique %s after %d attempts", e.Kind, e.Attempts)
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries all field-level problems found before any
// mutation is attempted.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Invalid builds a single-field validation error.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
