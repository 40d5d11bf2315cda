package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/identity"
)

// contextKey is a private type for context keys defined in this package.
type contextKey string

const (
	// IdentityContextKey is the context key for the resolved actor identity.
	IdentityContextKey contextKey = "identity"
)

// WithIdentity resolves the actor for every request and stores it in the
// context. Visitors without a cart token get one minted here, once.
func WithIdentity(resolver *identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := resolver.EnsureToken(w, r)
			ctx := context.WithValue(r.Context(), IdentityContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the actor identity from the context.
// Returns an empty anonymous identity if the middleware did not run.
func GetIdentity(ctx context.Context) domain.Identity {
	if id, ok := ctx.Value(IdentityContextKey).(domain.Identity); ok {
		return id
	}
	return domain.AnonymousIdentity("")
}

// RequireAuth rejects requests from anonymous actors.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetIdentity(r.Context()).Authenticated() {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from actors without the admin claim.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := GetIdentity(r.Context())
		if !id.Authenticated() {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !id.Admin {
			writeJSONError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
