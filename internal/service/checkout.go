package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/events"
	"github.com/dkurganov/lavka/internal/telemetry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CheckoutService converts a cart into an order.
//
// The flow is a user-experience pre-filter followed by an authoritative
// transaction: every line is re-validated against the live product row
// (availability, stock, current price), then the order store runs the atomic
// transaction whose conditional stock decrement is the real guard against
// concurrent checkouts. Any single line failure aborts the whole checkout;
// there is no partial order.
type CheckoutService interface {
	// Checkout validates the cart and creates the order. Submitting the same
	// idempotency key twice returns the order the first submission created.
	Checkout(ctx context.Context, id domain.Identity, params domain.CheckoutParams) (*domain.OrderDetail, error)
}

type checkoutService struct {
	local     domain.LocalStore
	carts     domain.CartStore
	products  domain.ProductStore
	orders    domain.OrderStore
	validate  *validator.Validate
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *telemetry.BusinessMetrics
}

// NewCheckoutService creates a new CheckoutService instance.
func NewCheckoutService(
	local domain.LocalStore,
	carts domain.CartStore,
	products domain.ProductStore,
	orders domain.OrderStore,
	publisher events.Publisher,
	logger *slog.Logger,
	metrics *telemetry.BusinessMetrics,
) CheckoutService {
	return &checkoutService{
		local:     local,
		carts:     carts,
		products:  products,
		orders:    orders,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, id domain.Identity, params domain.CheckoutParams) (*domain.OrderDetail, error) {
	if s.metrics != nil {
		s.metrics.CheckoutStarted.Inc()
	}

	detail, err := s.checkout(ctx, id, params)
	if err != nil {
		s.countRejection(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
		s.metrics.OrderValue.Observe(float64(detail.Order.TotalAmountCents))
		s.metrics.OrderItemCount.Observe(float64(len(detail.Items)))
	}

	if err := s.publisher.PublishOrderCreated(ctx, detail); err != nil {
		// The order is committed; event delivery is best-effort.
		s.logger.Warn("failed to publish order-created event",
			slog.String("order_id", detail.Order.ID.String()),
			slog.String("error", err.Error()))
	}

	s.logger.Info("order created",
		slog.String("order_id", detail.Order.ID.String()),
		slog.String("order_number", detail.Order.OrderNumber),
		slog.String("total", domain.FormatRub(detail.Order.TotalAmountCents)))

	return detail, nil
}

func (s *checkoutService) checkout(ctx context.Context, id domain.Identity, params domain.CheckoutParams) (*domain.OrderDetail, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	// Idempotency pre-check: a retried submission returns the prior order.
	existing, err := s.orders.GetOrderByIdempotencyKey(ctx, params.IdempotencyKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, err
	}

	quantities, err := s.cartQuantities(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(quantities) == 0 {
		return nil, domain.ErrCartEmpty
	}

	lines, err := s.validateLines(ctx, quantities)
	if err != nil {
		return nil, err
	}

	draft := domain.OrderDraft{
		CartKey:         id.CartKey(),
		CustomerName:    params.Customer.Name,
		CustomerEmail:   params.Customer.Email,
		CustomerPhone:   params.Customer.Phone,
		ShippingAddress: params.Customer.Address,
		PaymentMethod:   params.PaymentMethod,
		IdempotencyKey:  params.IdempotencyKey,
		Lines:           lines,
	}
	if id.Authenticated() {
		draft.UserID = id.UserID
	}

	detail, err := s.orders.CreateOrder(ctx, draft)
	if err != nil {
		return nil, err
	}

	// The transaction cleared the server rows; an anonymous checkout must
	// also drop the local source cart.
	if !id.Authenticated() {
		s.local.ClearCart(id.Token)
	}

	return detail, nil
}

func (s *checkoutService) validateParams(params domain.CheckoutParams) error {
	if strings.TrimSpace(params.PaymentMethod) == "" {
		return domain.NewValidationError("checkout", "payment_method", "payment method is required")
	}
	if strings.TrimSpace(params.IdempotencyKey) == "" {
		return domain.Invalid("checkout", "idempotency key is required")
	}

	if err := s.validate.Struct(params.Customer); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			var ve error
			for _, fieldErr := range invalid {
				ve = domain.AddFieldError(ve, strings.ToLower(fieldErr.Field()), validationMessage(fieldErr))
			}
			return ve
		}
		return domain.Invalid("checkout", "invalid customer fields")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short"
	case "max":
		return "is too long"
	default:
		return "is invalid"
	}
}

// validateLines is the all-or-nothing stock/price gate. The snapshot price is
// always the live product price, never one cached at add-to-cart time.
func (s *checkoutService) validateLines(ctx context.Context, quantities map[uuid.UUID]int32) ([]domain.OrderLine, error) {
	productIDs := make([]uuid.UUID, 0, len(quantities))
	for pid := range quantities {
		productIDs = append(productIDs, pid)
	}
	sort.Slice(productIDs, func(i, j int) bool {
		return productIDs[i].String() < productIDs[j].String()
	})

	lines := make([]domain.OrderLine, 0, len(productIDs))
	for _, pid := range productIDs {
		qty := quantities[pid]
		if qty <= 0 {
			return nil, domain.ErrInvalidQuantity
		}

		product, err := s.products.GetProduct(ctx, pid)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return nil, &domain.ProductUnavailableError{ProductID: pid}
			}
			return nil, err
		}
		if !product.IsActive {
			return nil, &domain.ProductUnavailableError{ProductID: pid}
		}
		if product.Stock < qty {
			return nil, &domain.InsufficientStockError{ProductID: pid, Available: product.Stock}
		}

		lines = append(lines, domain.OrderLine{
			ProductID:         pid,
			ProductName:       product.Name,
			ProductPriceCents: product.PriceCents,
			Quantity:          qty,
		})
	}
	return lines, nil
}

func (s *checkoutService) cartQuantities(ctx context.Context, id domain.Identity) (map[uuid.UUID]int32, error) {
	if !id.Authenticated() {
		return s.local.CartItems(id.Token), nil
	}

	items, err := s.carts.List(ctx, id.CartKey())
	if err != nil {
		return nil, err
	}
	quantities := make(map[uuid.UUID]int32, len(items))
	for _, item := range items {
		quantities[item.ProductID] = item.Quantity
	}
	return quantities, nil
}

func (s *checkoutService) countRejection(err error) {
	if s.metrics == nil {
		return
	}

	var unavailable *domain.ProductUnavailableError
	var stock *domain.InsufficientStockError
	switch {
	case errors.As(err, &unavailable):
		s.metrics.CheckoutRejected.WithLabelValues("product_unavailable").Inc()
	case errors.As(err, &stock):
		s.metrics.CheckoutRejected.WithLabelValues("insufficient_stock").Inc()
	case domain.IsValidationError(err):
		s.metrics.CheckoutRejected.WithLabelValues("validation").Inc()
	case errors.Is(err, domain.ErrCartEmpty):
		s.metrics.CheckoutRejected.WithLabelValues("empty_cart").Inc()
	default:
		s.metrics.CheckoutRejected.WithLabelValues("other").Inc()
	}
}
