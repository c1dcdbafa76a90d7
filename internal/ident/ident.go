// Package ident generates human-facing booking and invoice references.
package ident

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/waynex/travels-api/internal/domain"
)

const (
	suffixChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLen    = 4
	maxAttempts  = 5
	BookingKind  = "booking reference"
	InvoiceKind  = "invoice number"
	bookingPref  = "BK"
	invoicePref  = "INV"
)

// ExistsFunc reports whether a candidate reference is already taken,
// normally backed by a repository lookup against the unique index.
type ExistsFunc func(ctx context.Context, ref string) (bool, error)

func randomSuffix() (string, error) {
	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = suffixChars[int(b)%len(suffixChars)]
	}
	return string(buf), nil
}

func newRef(prefix string, now time.Time) (string, error) {
	suffix, err := randomSuffix()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix), nil
}

// NewBookingRef returns an unused BK-YYYYMMDD-XXXX booking reference,
// retrying on collision a bounded number of times.
func NewBookingRef(ctx context.Context, now time.Time, exists ExistsFunc) (string, error) {
	return generate(ctx, bookingPref, BookingKind, now, exists)
}

// NewInvoiceNumber returns an unused INV-YYYYMMDD-XXXX invoice number.
func NewInvoiceNumber(ctx context.Context, now time.Time, exists ExistsFunc) (string, error) {
	return generate(ctx, invoicePref, InvoiceKind, now, exists)
}

func generate(ctx context.Context, prefix, kind string, now time.Time, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		ref, err := newRef(prefix, now)
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("check %s uniqueness: %w", kind, err)
		}
		if !taken {
			return ref, nil
		}
	}
	return "", &domain.GenerationError{Kind: kind, Attempts: maxAttempts}
}
