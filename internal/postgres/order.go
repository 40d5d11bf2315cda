package postgres

import (
	"context"
	"errors"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderStore implements domain.OrderStore using PostgreSQL.
type OrderStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that OrderStore implements domain.OrderStore.
var _ domain.OrderStore = (*OrderStore)(nil)

// NewOrderStore creates a new PostgreSQL-backed order store.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const orderColumns = `id, order_number, user_id, customer_name, customer_email, customer_phone, shipping_address, payment_method, status, payment_status, total_amount_cents, idempotency_key, created_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var userID *uuid.UUID
	err := row.Scan(
		&o.ID, &o.OrderNumber, &userID, &o.CustomerName, &o.CustomerEmail,
		&o.CustomerPhone, &o.ShippingAddress, &o.PaymentMethod, &o.Status,
		&o.PaymentStatus, &o.TotalAmountCents, &o.IdempotencyKey, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		o.UserID = *userID
	}
	return &o, nil
}

// CreateOrder runs the order-creation transaction: order row, item snapshots,
// conditional stock decrements, and clearing the source cart commit as a
// unit. The decrement `stock = stock - n WHERE stock >= n` is the
// authoritative guard against concurrent checkouts; zero affected rows aborts
// the whole transaction.
//
// Idempotency: a second submission with the same key hits the unique index on
// idempotency_key; the transaction rolls back and the previously created
// order is returned instead.
func (s *OrderStore) CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderDetail, error) {
	if len(draft.Lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	orderNumber, err := generateOrderNumber()
	if err != nil {
		return nil, domain.Internal(err, "order.create", "failed to generate order number")
	}

	var totalCents int64
	for _, line := range draft.Lines {
		totalCents += int64(line.Quantity) * line.ProductPriceCents
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "order.create", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var userID *uuid.UUID
	if draft.UserID != uuid.Nil {
		userID = &draft.UserID
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, user_id, customer_name, customer_email, customer_phone, shipping_address, payment_method, status, payment_status, total_amount_cents, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+orderColumns,
		orderNumber, userID, draft.CustomerName, draft.CustomerEmail,
		draft.CustomerPhone, draft.ShippingAddress, draft.PaymentMethod,
		domain.StatusPending, domain.PaymentStatusUnpaid, totalCents,
		draft.IdempotencyKey)

	order, err := scanOrder(row)
	if err != nil {
		if isUniqueViolation(err, "orders_idempotency_key_key") {
			// Duplicate submission: return the order the first submission created.
			return s.GetOrderByIdempotencyKey(ctx, draft.IdempotencyKey)
		}
		return nil, domain.Internal(err, "order.create", "failed to insert order")
	}

	items := make([]domain.OrderItem, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		lineTotal := int64(line.Quantity) * line.ProductPriceCents
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_price_cents, quantity, total_price_cents)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, line.ProductID, line.ProductName, line.ProductPriceCents, line.Quantity, lineTotal)
		if err != nil {
			return nil, domain.Internal(err, "order.create", "failed to insert order item")
		}

		items = append(items, domain.OrderItem{
			OrderID:           order.ID,
			ProductID:         line.ProductID,
			ProductName:       line.ProductName,
			ProductPriceCents: line.ProductPriceCents,
			Quantity:          line.Quantity,
			TotalPriceCents:   lineTotal,
		})
	}

	for _, line := range draft.Lines {
		if err := decrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_key = $1`, draft.CartKey); err != nil {
		return nil, domain.Internal(err, "order.create", "failed to clear cart")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "order.create", "failed to commit order")
	}

	return &domain.OrderDetail{Order: *order, Items: items}, nil
}

// decrementStock performs the atomic conditional decrement. The WHERE clause
// is the authoritative stock guard: two concurrent checkouts for the last
// unit cannot both pass it.
func decrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, qty int32) error {
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND is_active AND stock >= $2`,
		productID, qty)
	if err != nil {
		return domain.Internal(err, "order.create", "failed to decrement stock")
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Decrement failed: distinguish a vanished product from a stock shortage.
	var stock int32
	var active bool
	err = tx.QueryRow(ctx, `SELECT stock, is_active FROM products WHERE id = $1`, productID).
		Scan(&stock, &active)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && !active) {
		return &domain.ProductUnavailableError{ProductID: productID}
	}
	if err != nil {
		return domain.Internal(err, "order.create", "failed to read product stock")
	}
	return &domain.InsufficientStockError{ProductID: productID, Available: stock}
}

// GetOrderByIdempotencyKey returns the order created with this key.
func (s *OrderStore) GetOrderByIdempotencyKey(ctx context.Context, key string) (*domain.OrderDetail, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE idempotency_key = $1`, key)
	return s.orderDetail(ctx, row)
}

// GetOrder retrieves an order with its item snapshots.
func (s *OrderStore) GetOrder(ctx context.Context, id uuid.UUID) (*domain.OrderDetail, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return s.orderDetail(ctx, row)
}

func (s *OrderStore) orderDetail(ctx context.Context, row pgx.Row) (*domain.OrderDetail, error) {
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, "order.get", "failed to get order")
	}

	items, err := s.orderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &domain.OrderDetail{Order: *order, Items: items}, nil
}

func (s *OrderStore) orderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT order_id, product_id, product_name, product_price_cents, quantity, total_price_cents
		FROM order_items
		WHERE order_id = $1`,
		orderID)
	if err != nil {
		return nil, domain.Internal(err, "order.get", "failed to list order items")
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductPriceCents, &item.Quantity, &item.TotalPriceCents); err != nil {
			return nil, domain.Internal(err, "order.get", "failed to scan order item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.get", "failed to read order items")
	}
	return items, nil
}

// ListOrdersByUser returns a user's orders, newest first.
func (s *OrderStore) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, domain.Internal(err, "order.list_by_user", "failed to list orders")
	}
	defer rows.Close()
	return collectOrders(rows, "order.list_by_user")
}

// ListOrders returns every order for the back-office, newest first.
func (s *OrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	defer rows.Close()
	return collectOrders(rows, "order.list")
}

func collectOrders(rows pgx.Rows, op string) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan order")
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read orders")
	}
	return orders, nil
}

// UpdateStatus sets the order status. Cancelling restores the stock the order
// consumed, atomically with the status change.
func (s *OrderStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "order.update_status", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1
		RETURNING `+orderColumns,
		id, status)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, "order.update_status", "failed to update order")
	}

	if status == domain.StatusCancelled {
		_, err := tx.Exec(ctx, `
			UPDATE products p
			SET stock = p.stock + oi.quantity, updated_at = now()
			FROM order_items oi
			WHERE oi.order_id = $1 AND oi.product_id = p.id`,
			id)
		if err != nil {
			return nil, domain.Internal(err, "order.update_status", "failed to restore stock")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "order.update_status", "failed to commit status update")
	}
	return order, nil
}

// UpdatePaymentStatus records a payment-status transition.
func (s *OrderStore) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET payment_status = $2 WHERE id = $1`, id, paymentStatus)
	if err != nil {
		return domain.Internal(err, "order.update_payment_status", "failed to update payment status")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
