package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/internal/http/response"
	"github.com/waynex/travels-api/internal/service"
)

type ctxKey string

const ctxUser ctxKey = "user"

// RequireUser authorizes a request with a bearer remember-me token. The
// token must still match the server-side copy, so logging out everywhere
// invalidates it immediately.
func RequireUser(auth service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "missing authorization header")
				return
			}
			raw := strings.TrimPrefix(authz, "Bearer ")

			user, err := auth.TokenLogin(r.Context(), raw)
			if err != nil {
				response.DomainError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must sit inside RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r)
		if user == nil || !user.IsAdmin {
			response.Forbidden(w, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom returns the authenticated user, or nil outside RequireUser.
func UserFrom(r *http.Request) *domain.User {
	v := r.Context().Value(ctxUser)
	if v == nil {
		return nil
	}
	return v.(*domain.User)
}
