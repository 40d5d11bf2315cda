package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Order status values. The storefront core only ever produces StatusPending;
// later transitions belong to the back-office.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment status values recorded on the order. No payment is processed here;
// the strings mirror what the back-office displays.
const (
	PaymentStatusUnpaid = "не оплачен"
	PaymentStatusPaid   = "оплачен"
)

// Order-related domain errors.
var (
	ErrOrderNotFound = &Error{Code: ENOTFOUND, Message: "Order not found"}
)

// CanTransitionStatus reports whether an order may move from one status to
// another: pending → processing → shipped → delivered, with cancelled
// reachable from pending or processing.
func CanTransitionStatus(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusCancelled
	case StatusProcessing:
		return to == StatusShipped || to == StatusCancelled
	case StatusShipped:
		return to == StatusDelivered
	default:
		return false
	}
}

// Order is created exactly once per successful checkout and is immutable
// afterwards except for status/payment-status transitions. TotalAmountCents
// is computed at creation from the validated line items and never recomputed.
type Order struct {
	ID               uuid.UUID
	OrderNumber      string
	UserID           uuid.UUID // uuid.Nil for guest orders
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	ShippingAddress  string
	PaymentMethod    string
	Status           string
	PaymentStatus    string
	TotalAmountCents int64
	IdempotencyKey   string
	CreatedAt        time.Time
}

// OrderItem is an immutable snapshot of product name and price at the moment
// of order creation, decoupling historical orders from later product edits.
type OrderItem struct {
	OrderID           uuid.UUID
	ProductID         uuid.UUID
	ProductName       string
	ProductPriceCents int64
	Quantity          int32
	TotalPriceCents   int64
}

// OrderDetail aggregates an order with its item snapshots.
type OrderDetail struct {
	Order Order
	Items []OrderItem
}

// OrderLine is a validated checkout line carrying the authoritative price
// read at validation time.
type OrderLine struct {
	ProductID         uuid.UUID
	ProductName       string
	ProductPriceCents int64
	Quantity          int32
}

// OrderDraft is everything the order transaction needs to persist a checkout.
type OrderDraft struct {
	CartKey         string
	UserID          uuid.UUID // uuid.Nil for guest checkout
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	PaymentMethod   string
	IdempotencyKey  string
	Lines           []OrderLine
}

// OrderStore persists orders. CreateOrder must be atomic: order row, item
// snapshots, conditional stock decrements, and clearing the source cart all
// commit or all roll back.
type OrderStore interface {
	// CreateOrder runs the order transaction. A conditional decrement that
	// affects no rows aborts the whole transaction with InsufficientStockError
	// (or ProductUnavailableError when the product vanished).
	CreateOrder(ctx context.Context, draft OrderDraft) (*OrderDetail, error)

	// GetOrderByIdempotencyKey returns the order previously created with this
	// key, or ErrOrderNotFound.
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*OrderDetail, error)

	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetail, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	ListOrders(ctx context.Context) ([]Order, error)

	// UpdateStatus sets the order status. A transition to cancelled restores
	// the stock consumed by the order items, atomically with the update.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Order, error)

	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error
}

// =============================================================================
// Checkout rejection errors
// =============================================================================

// ProductUnavailableError rejects a checkout whose cart references a missing
// or deactivated product. The whole checkout aborts; lines are never dropped
// silently.
type ProductUnavailableError struct {
	ProductID uuid.UUID
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %s is unavailable", e.ProductID)
}

// Unwrap maps the error into the domain taxonomy for handlers and logging.
func (e *ProductUnavailableError) Unwrap() error {
	return &Error{Code: ECONFLICT, Message: "Product is no longer available"}
}

// InsufficientStockError rejects a checkout line requesting more units than
// are in stock. Available carries the current stock so the caller can let the
// user adjust the quantity; nothing is auto-adjusted.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: %d available", e.ProductID, e.Available)
}

// Unwrap maps the error into the domain taxonomy for handlers and logging.
func (e *InsufficientStockError) Unwrap() error {
	return &Error{Code: ECONFLICT, Message: "Insufficient stock for one or more items"}
}
