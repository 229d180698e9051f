package api

import (
	"net/http"
	"strings"

	"storefront/internal/auth"
	"storefront/pkg/kit"
)

// RequireAdmin gates a route behind a live admin session token
// supplied as a bearer credential. The two error messages are part of
// the storefront's client contract.
func RequireAdmin(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				kit.WriteError(w, r, http.StatusUnauthorized, "Missing token", nil)
				return
			}
			if !sessions.Validate(strings.TrimPrefix(authz, "Bearer ")) {
				kit.WriteError(w, r, http.StatusUnauthorized, "Invalid or expired token", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
