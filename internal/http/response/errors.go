package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/waynex/travels-api/internal/domain"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code,omitempty"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error: message,
		Code:  code,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}

// Common error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	CodeInternalError = "INTERNAL_ERROR"

	CodeEmailExists   = "EMAIL_EXISTS"
	CodeNotVerified   = "EMAIL_NOT_VERIFIED"
	CodeMissing       = "CODE_MISSING"
	CodeExpired       = "CODE_EXPIRED"
	CodeMismatch      = "CODE_MISMATCH"
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeExpiredToken  = "EXPIRED_TOKEN"
	CodeRevokedToken  = "REVOKED_TOKEN"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeGeneration    = "GENERATION_ERROR"
)

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeConflict)
}

func RateLimited(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

// ValidationFailed writes a 400 carrying the per-field messages.
func ValidationFailed(w http.ResponseWriter, verr *domain.ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	errResp := ErrorResponse{
		Error:  "validation failed",
		Code:   CodeInvalidInput,
		Fields: verr.Fields,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}

// DomainError maps a service or domain error onto the wire. Unrecognized
// errors become opaque 500s so internals never leak to the client.
func DomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		ValidationFailed(w, verr)
		return
	}

	var gerr *domain.GenerationError
	if errors.As(err, &gerr) {
		WriteError(w, http.StatusServiceUnavailable, err.Error(), CodeGeneration)
		return
	}

	switch {
	case errors.Is(err, domain.ErrCodeMissing):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeMissing)
	case errors.Is(err, domain.ErrCodeExpired):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeExpired)
	case errors.Is(err, domain.ErrCodeMismatch):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeMismatch)
	case errors.Is(err, domain.ErrTokenInvalid):
		WriteError(w, http.StatusUnauthorized, err.Error(), CodeInvalidToken)
	case errors.Is(err, domain.ErrTokenExpired):
		WriteError(w, http.StatusUnauthorized, err.Error(), CodeExpiredToken)
	case errors.Is(err, domain.ErrTokenRevoked):
		WriteError(w, http.StatusUnauthorized, err.Error(), CodeRevokedToken)
	case errors.Is(err, domain.ErrConfiguration):
		WriteError(w, http.StatusInternalServerError, err.Error(), CodeConfiguration)
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, err.Error())
	default:
		InternalError(w, "internal server error")
	}
}
