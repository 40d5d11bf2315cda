package admin

import (
	"net/http"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/handler"
	"github.com/dkurganov/lavka/internal/middleware"
	"github.com/dkurganov/lavka/internal/service"
	"github.com/google/uuid"
)

// OrderHandler handles the order admin routes
type OrderHandler struct {
	orders service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/admin/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
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

// Get handles GET /api/admin/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("admin.orders.get", "invalid order id"))
		return
	}

	detail, err := h.orders.GetOrder(r.Context(), middleware.GetIdentity(r.Context()), orderID)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, handler.NewOrderDetailResponse(detail))
}

// UpdateStatus handles PATCH /api/admin/orders/{id}/status. Cancelling an
// order restores its reserved stock in the same transaction.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("admin.orders.update_status", "invalid order id"))
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, handler.NewOrderResponse(*order))
}

// MarkPaid handles POST /api/admin/orders/{id}/paid
func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("admin.orders.mark_paid", "invalid order id"))
		return
	}

	if err := h.orders.MarkPaid(r.Context(), orderID); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusNoContent, nil)
}
