package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartEmpty       = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrInvalidQuantity = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// CartItem is one cart line. CartKey is either a user ID (authenticated) or
// an anonymous local token; at most one row exists per (CartKey, ProductID).
type CartItem struct {
	CartKey   string
	ProductID uuid.UUID
	Quantity  int32
	AddedAt   time.Time
}

// CartLine is a cart item joined with live product data for display.
// Prices here are informational; the checkout snapshot re-reads them.
type CartLine struct {
	ProductID      uuid.UUID
	ProductName    string
	UnitPriceCents int64
	Quantity       int32
	LineSubtotal   int64
	ImageURL       string
}

// CartSummary aggregates cart lines with calculated totals.
type CartSummary struct {
	Lines         []CartLine
	SubtotalCents int64
	ItemCount     int
}

// CartStore persists cart rows for server-held carts.
// Implementations must keep the one-row-per-(key, product) invariant:
// Add sums quantities into the existing row instead of inserting a duplicate.
type CartStore interface {
	// Add upserts a cart line, incrementing quantity by qty if the row exists.
	Add(ctx context.Context, cartKey string, productID uuid.UUID, qty int32) error

	// SetQuantity replaces the quantity; qty <= 0 deletes the row.
	SetQuantity(ctx context.Context, cartKey string, productID uuid.UUID, qty int32) error

	// Remove deletes the row. Removing an absent row is not an error.
	Remove(ctx context.Context, cartKey string, productID uuid.UUID) error

	List(ctx context.Context, cartKey string) ([]CartItem, error)

	// Clear deletes every row for the cart key.
	Clear(ctx context.Context, cartKey string) error
}

// LocalStore holds cart and wishlist state for anonymous visitors, keyed by a
// locally generated token. It is the server-side stand-in for client-local
// storage: no network, no remote errors. Implementations silently no-op when
// a storage quota is exhausted, so none of the mutators return an error.
type LocalStore interface {
	CartItems(token string) map[uuid.UUID]int32
	AddCartItem(token string, productID uuid.UUID, qty int32)
	SetCartQuantity(token string, productID uuid.UUID, qty int32)
	RemoveCartItem(token string, productID uuid.UUID)
	ClearCart(token string)

	WishlistItems(token string) []uuid.UUID
	AddWishlistItem(token string, productID uuid.UUID)
	RemoveWishlistItem(token string, productID uuid.UUID)
	ClearWishlist(token string)
}
