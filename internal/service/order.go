package service

import (
	"context"
	"fmt"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/google/uuid"
)

// OrderService provides order reads for customers and status transitions for
// the back-office. Orders are immutable after creation except for status and
// payment-status changes, which are gated by the transition rules.
type OrderService interface {
	// GetOrder returns an order visible to the actor: its owner, or any
	// admin. Other actors get ErrOrderNotFound rather than a hint that the
	// order exists.
	GetOrder(ctx context.Context, id domain.Identity, orderID uuid.UUID) (*domain.OrderDetail, error)

	// ListMyOrders returns the authenticated actor's orders.
	ListMyOrders(ctx context.Context, id domain.Identity) ([]domain.Order, error)

	// ListOrders returns all orders for the back-office.
	ListOrders(ctx context.Context) ([]domain.Order, error)

	// UpdateStatus applies a status transition, rejecting illegal moves.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*domain.Order, error)

	// MarkPaid records payment received for the order.
	MarkPaid(ctx context.Context, orderID uuid.UUID) error
}

type orderService struct {
	orders domain.OrderStore
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(orders domain.OrderStore) OrderService {
	return &orderService{orders: orders}
}

func (s *orderService) GetOrder(ctx context.Context, id domain.Identity, orderID uuid.UUID) (*domain.OrderDetail, error) {
	detail, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if id.Admin {
		return detail, nil
	}
	if !id.Authenticated() || detail.Order.UserID != id.UserID {
		return nil, domain.ErrOrderNotFound
	}
	return detail, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, id domain.Identity) ([]domain.Order, error) {
	if !id.Authenticated() {
		return nil, domain.Unauthorized("order.list", "authentication required")
	}
	return s.orders.ListOrdersByUser(ctx, id.UserID)
}

func (s *orderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*domain.Order, error) {
	switch status {
	case domain.StatusPending, domain.StatusProcessing, domain.StatusShipped,
		domain.StatusDelivered, domain.StatusCancelled:
	default:
		return nil, domain.Invalid("order.update_status", fmt.Sprintf("unknown status: %s", status))
	}

	detail, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransitionStatus(detail.Order.Status, status) {
		return nil, domain.Conflict("order.update_status",
			fmt.Sprintf("cannot transition order from %s to %s", detail.Order.Status, status))
	}

	return s.orders.UpdateStatus(ctx, orderID, status)
}

func (s *orderService) MarkPaid(ctx context.Context, orderID uuid.UUID) error {
	return s.orders.UpdatePaymentStatus(ctx, orderID, domain.PaymentStatusPaid)
}
