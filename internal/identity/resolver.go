// Package identity resolves the current actor for a request: an authenticated
// user (from a JWT issued by the auth collaborator) or an anonymous visitor
// identified by a locally minted cart token.
package identity

import (
	"net/http"
	"strings"

	"github.com/dkurganov/lavka/internal/cookie"
	"github.com/dkurganov/lavka/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// anonTokenTTL keeps the guest cart token alive for 30 days, matching how
// long abandoned carts are worth keeping.
const anonTokenTTL = 30 * 24 * 60 * 60

// Claims are the JWT claims this service consumes. Token issuance belongs to
// the auth collaborator; only parsing happens here.
type Claims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Resolver determines the identity of the current actor.
type Resolver struct {
	secret  []byte
	cookies *cookie.Config
}

// NewResolver creates a resolver verifying JWTs with the shared HMAC secret.
func NewResolver(secret string, cookies *cookie.Config) *Resolver {
	return &Resolver{secret: []byte(secret), cookies: cookies}
}

// Resolve returns the identity for the request without side effects.
// An invalid or expired JWT degrades to an anonymous identity rather than
// failing the request; protected routes enforce authentication themselves.
func (r *Resolver) Resolve(req *http.Request) domain.Identity {
	token := cookie.Get(req, cookie.CartCookieName)

	userID, admin, ok := r.parseJWT(req)
	if !ok {
		return domain.AnonymousIdentity(token)
	}

	return domain.AuthenticatedIdentity(userID, token, admin)
}

// EnsureToken resolves the identity and, for a visitor without a cart token,
// mints one and sets the cookie. This is the only side effect the resolver
// ever performs, and it happens once per visitor.
func (r *Resolver) EnsureToken(w http.ResponseWriter, req *http.Request) domain.Identity {
	id := r.Resolve(req)
	if id.Token != "" {
		return id
	}

	id.Token = uuid.NewString()
	r.cookies.Set(w, cookie.CartCookieName, id.Token, anonTokenTTL)
	return id
}

// ClearToken drops the anonymous token cookie, used after a successful merge.
func (r *Resolver) ClearToken(w http.ResponseWriter) {
	r.cookies.Clear(w, cookie.CartCookieName)
}

func (r *Resolver) parseJWT(req *http.Request) (uuid.UUID, bool, bool) {
	raw := bearerToken(req)
	if raw == "" {
		raw = cookie.Get(req, cookie.SessionCookieName)
	}
	if raw == "" {
		return uuid.Nil, false, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, false, false
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false, false
	}

	return userID, claims.Admin, true
}

func bearerToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}
