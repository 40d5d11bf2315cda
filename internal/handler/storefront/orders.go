package storefront

import (
	"net/http"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/handler"
	"github.com/dkurganov/lavka/internal/middleware"
	"github.com/dkurganov/lavka/internal/service"
	"github.com/google/uuid"
)

// OrderHandler handles the customer order history routes.
type OrderHandler struct {
	orders service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	orders, err := h.orders.ListMyOrders(r.Context(), id)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	out := make([]handler.OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = handler.NewOrderResponse(o)
	}
	handler.RespondJSON(w, http.StatusOK, out)
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("orders.get", "invalid order id"))
		return
	}

	detail, err := h.orders.GetOrder(r.Context(), id, orderID)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, handler.NewOrderDetailResponse(detail))
}
