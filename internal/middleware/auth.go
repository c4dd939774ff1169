package middleware

import (
	"net/http"
	"strings"

	"github.com/pkordes/hotel-booking/internal/auth"
	"github.com/pkordes/hotel-booking/internal/domain"
)

// TokenParser turns a bearer token into a principal. *auth.Issuer implements it.
type TokenParser interface {
	Parse(token string) (*domain.Principal, error)
}

// NewAuthenticator returns a middleware that reads an optional
// "Authorization: Bearer <token>" header. A valid token puts its principal in
// the request context; a missing header leaves the caller anonymous; a present
// but invalid token is rejected with 401.
func NewAuthenticator(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "malformed authorization header")
				return
			}
			p, err := parser.Parse(strings.TrimSpace(token))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.PrincipalFrom(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous callers with 401 and non-admins with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := auth.PrincipalFrom(r.Context())
		switch {
		case p == nil:
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		case !p.IsAdmin:
			writeError(w, http.StatusForbidden, "forbidden", "admin access required")
		default:
			next.ServeHTTP(w, r)
		}
	})
}
