package postgres

import (
	"context"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CartStore implements domain.CartStore using PostgreSQL.
// The (cart_key, product_id) primary key guarantees at most one row per
// product per cart; Add folds repeated additions into the existing row.
type CartStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that CartStore implements domain.CartStore.
var _ domain.CartStore = (*CartStore)(nil)

// NewCartStore creates a new PostgreSQL-backed cart store.
func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// Add upserts a cart line, incrementing quantity when the row exists.
func (s *CartStore) Add(ctx context.Context, cartKey string, productID uuid.UUID, qty int32) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO cart_items (cart_key, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_key, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartKey, productID, qty)
	if err != nil {
		return domain.Internal(err, "cart.add", "failed to add cart item")
	}
	return nil
}

// SetQuantity replaces the quantity; qty <= 0 deletes the row.
func (s *CartStore) SetQuantity(ctx context.Context, cartKey string, productID uuid.UUID, qty int32) error {
	if qty <= 0 {
		return s.Remove(ctx, cartKey, productID)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO cart_items (cart_key, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_key, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity`,
		cartKey, productID, qty)
	if err != nil {
		return domain.Internal(err, "cart.set_quantity", "failed to set cart item quantity")
	}
	return nil
}

// Remove deletes the row. Removing an absent row succeeds.
func (s *CartStore) Remove(ctx context.Context, cartKey string, productID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_key = $1 AND product_id = $2`,
		cartKey, productID)
	if err != nil {
		return domain.Internal(err, "cart.remove", "failed to remove cart item")
	}
	return nil
}

// List returns every cart row for the key.
func (s *CartStore) List(ctx context.Context, cartKey string) ([]domain.CartItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT cart_key, product_id, quantity, added_at
		FROM cart_items
		WHERE cart_key = $1
		ORDER BY added_at`,
		cartKey)
	if err != nil {
		return nil, domain.Internal(err, "cart.list", "failed to list cart items")
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.CartKey, &item.ProductID, &item.Quantity, &item.AddedAt); err != nil {
			return nil, domain.Internal(err, "cart.list", "failed to scan cart item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "cart.list", "failed to read cart items")
	}
	return items, nil
}

// Clear deletes every row for the cart key.
func (s *CartStore) Clear(ctx context.Context, cartKey string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_key = $1`, cartKey)
	if err != nil {
		return domain.Internal(err, "cart.clear", "failed to clear cart")
	}
	return nil
}
