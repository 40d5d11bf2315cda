// Package events publishes storefront domain events for downstream consumers
// (fulfillment, notifications, analytics).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// OrderCreatedSubject is the NATS subject for new orders.
const OrderCreatedSubject = "lavka.orders.created"

// Publisher emits domain events. Publishing is best-effort: the order is
// already committed when an event goes out, so callers log failures instead
// of surfacing them.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, detail *domain.OrderDetail) error
}

// orderCreatedEvent is the wire payload for OrderCreatedSubject.
type orderCreatedEvent struct {
	OrderID          string    `json:"order_id"`
	OrderNumber      string    `json:"order_number"`
	UserID           string    `json:"user_id,omitempty"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	ItemCount        int       `json:"item_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// NATSPublisher publishes events to a NATS server.
type NATSPublisher struct {
	conn *nats.Conn
}

var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	p.conn.Close()
}

// PublishOrderCreated emits an order-created event.
func (p *NATSPublisher) PublishOrderCreated(ctx context.Context, detail *domain.OrderDetail) error {
	event := orderCreatedEvent{
		OrderID:          detail.Order.ID.String(),
		OrderNumber:      detail.Order.OrderNumber,
		TotalAmountCents: detail.Order.TotalAmountCents,
		ItemCount:        len(detail.Items),
		CreatedAt:        detail.Order.CreatedAt,
	}
	if detail.Order.UserID != uuid.Nil {
		event.UserID = detail.Order.UserID.String()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	if err := p.conn.Publish(OrderCreatedSubject, data); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

// Nop is a Publisher that discards events, used when NATS is not configured.
type Nop struct{}

var _ Publisher = Nop{}

func (Nop) PublishOrderCreated(context.Context, *domain.OrderDetail) error {
	return nil
}
