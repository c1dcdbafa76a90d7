// Package token issues and validates the signed remember-me credentials.
// Signature validity alone never authorizes a login: callers must also
// compare the presented token with the copy stored on the user record,
// which is how logout revokes a cryptographically valid token.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/waynex/travels-api/internal/domain"
)

// TypeRememberMe tags remember-me tokens so they cannot be swapped for
// other token kinds signed with the same secret.
const TypeRememberMe = "remember_me"

// DefaultTTL is the default remember-me token lifetime.
const DefaultTTL = 30 * 24 * time.Hour

type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// Issue signs a remember-me token for the given user. It fails with
// domain.ErrConfiguration when no signing secret is configured.
func Issue(userID int64, email, secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, domain.ErrConfiguration
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	expiry := now.Add(ttl)
	claims := Claims{
		UserID: userID,
		Email:  email,
		Type:   TypeRememberMe,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// Parse verifies the signature, expiry, and type tag of a remember-me
// token and returns its claims. Errors map onto the domain taxonomy:
// ErrTokenExpired for an elapsed exp claim, ErrTokenInvalid otherwise.
func Parse(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, domain.ErrConfiguration
	}

	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Type != TypeRememberMe {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
