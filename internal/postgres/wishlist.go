package postgres

import (
	"context"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WishlistStore implements domain.WishlistStore using PostgreSQL.
type WishlistStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that WishlistStore implements domain.WishlistStore.
var _ domain.WishlistStore = (*WishlistStore)(nil)

// NewWishlistStore creates a new PostgreSQL-backed wishlist store.
func NewWishlistStore(pool *pgxpool.Pool) *WishlistStore {
	return &WishlistStore{pool: pool}
}

// Add inserts the (user, product) pair; re-adding an existing pair succeeds.
func (s *WishlistStore) Add(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO wishlist_items (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID)
	if err != nil {
		return domain.Internal(err, "wishlist.add", "failed to add wishlist item")
	}
	return nil
}

// Remove deletes the pair. Removing an absent pair succeeds.
func (s *WishlistStore) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return domain.Internal(err, "wishlist.remove", "failed to remove wishlist item")
	}
	return nil
}

// List returns the user's wishlist rows.
func (s *WishlistStore) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, product_id, created_at
		FROM wishlist_items
		WHERE user_id = $1
		ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, domain.Internal(err, "wishlist.list", "failed to list wishlist items")
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		if err := rows.Scan(&item.UserID, &item.ProductID, &item.CreatedAt); err != nil {
			return nil, domain.Internal(err, "wishlist.list", "failed to scan wishlist item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "wishlist.list", "failed to read wishlist items")
	}
	return items, nil
}
