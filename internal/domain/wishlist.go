package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WishlistItem exists only for authenticated users; anonymous wishlist state
// lives in the local store as a bare set of product IDs.
type WishlistItem struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	CreatedAt time.Time
}

// WishlistStore persists wishlist rows with a unique (user, product) pair.
type WishlistStore interface {
	// Add inserts the pair; adding an existing pair is not an error.
	Add(ctx context.Context, userID, productID uuid.UUID) error

	// Remove deletes the pair. Removing an absent pair is not an error.
	Remove(ctx context.Context, userID, productID uuid.UUID) error

	List(ctx context.Context, userID uuid.UUID) ([]WishlistItem, error)
}
