package domain

import "github.com/google/uuid"

// Identity describes the current actor: an authenticated user or an anonymous
// visitor carrying a locally minted cart token. The token is a cart
// partitioning key, never a security credential.
type Identity struct {
	// UserID is set for authenticated actors.
	UserID uuid.UUID

	// Token is the anonymous cart/wishlist token. It stays populated after
	// login so the merge hook can still find the anonymous state.
	Token string

	// Admin is true when the authenticated user carries the admin claim.
	Admin bool

	authenticated bool
}

// AuthenticatedIdentity builds an identity for a logged-in user.
func AuthenticatedIdentity(userID uuid.UUID, token string, admin bool) Identity {
	return Identity{UserID: userID, Token: token, Admin: admin, authenticated: true}
}

// AnonymousIdentity builds an identity for a visitor known only by a local token.
func AnonymousIdentity(token string) Identity {
	return Identity{Token: token}
}

// Authenticated reports whether the actor is a logged-in user.
func (id Identity) Authenticated() bool {
	return id.authenticated
}

// CartKey returns the key partitioning server-side cart rows: the user ID for
// authenticated actors, the anonymous token otherwise.
func (id Identity) CartKey() string {
	if id.authenticated {
		return id.UserID.String()
	}
	return id.Token
}
