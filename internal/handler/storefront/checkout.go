package storefront

import (
	"net/http"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/handler"
	"github.com/dkurganov/lavka/internal/middleware"
	"github.com/dkurganov/lavka/internal/service"
)

// CheckoutHandler handles POST /api/checkout, the single order entry point.
type CheckoutHandler struct {
	checkout service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type checkoutRequest struct {
	Customer       domain.CustomerInfo `json:"customer"`
	PaymentMethod  string              `json:"payment_method"`
	IdempotencyKey string              `json:"idempotency_key"`
}

// Checkout handles POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	var req checkoutRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	detail, err := h.checkout.Checkout(r.Context(), id, domain.CheckoutParams{
		Customer:       req.Customer,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusCreated, handler.NewOrderDetailResponse(detail))
}
