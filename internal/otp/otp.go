// Package otp implements the one-time email verification codes. Codes are
// 6-digit, stored only as a bcrypt hash next to their issue timestamp, and
// valid for a fixed window. The caller owns persistence of the hash and
// timestamp; this package is pure computation over those values.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/waynex/travels-api/internal/domain"
)

// TTL is how long a code stays valid after issuance.
const TTL = 5 * time.Minute

const (
	codeMin  = 100000
	codeSpan = 900000 // codes are uniform in [100000, 999999]
)

// Generate returns a uniformly random 6-digit code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}

// Hash derives the storable one-way hash of a code.
func Hash(code string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	return string(h), nil
}

// Verify checks a supplied code against the stored hash and issue time.
// A nil error means the code matched inside its validity window; the caller
// must then clear the stored hash so the code cannot be replayed.
func Verify(storedHash *string, issuedAt *time.Time, supplied string, now time.Time) error {
	if storedHash == nil || *storedHash == "" || issuedAt == nil {
		return domain.ErrCodeMissing
	}
	if now.After(issuedAt.Add(TTL)) {
		return domain.ErrCodeExpired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*storedHash), []byte(supplied)); err != nil {
		return domain.ErrCodeMismatch
	}
	return nil
}
