package storefront

import (
	"net/http"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/handler"
	"github.com/dkurganov/lavka/internal/identity"
	"github.com/dkurganov/lavka/internal/middleware"
	"github.com/dkurganov/lavka/internal/service"
	"github.com/google/uuid"
)

// CartHandler handles the cart routes. Anonymous and authenticated visitors
// hit the same endpoints; the service routes by the resolved identity.
type CartHandler struct {
	carts    service.CartService
	merge    service.MergeService
	resolver *identity.Resolver
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts service.CartService, merge service.MergeService, resolver *identity.Resolver) *CartHandler {
	return &CartHandler{carts: carts, merge: merge, resolver: resolver}
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

func (req cartItemRequest) productID(op string) (uuid.UUID, error) {
	id, err := uuid.Parse(req.ProductID)
	if err != nil {
		return uuid.Nil, domain.Invalid(op, "invalid product_id")
	}
	return id, nil
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	summary, err := h.carts.Summary(r.Context(), id)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, handler.NewCartSummaryResponse(summary))
}

// Add handles POST /api/cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	var req cartItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}
	productID, err := req.productID("cart.add")
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.carts.Add(r.Context(), id, productID, req.Quantity); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	h.respondSummary(w, r, id)
}

// SetQuantity handles PUT /api/cart/items/{productID}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	productID, err := uuid.Parse(r.PathValue("productID"))
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("cart.set_quantity", "invalid product id"))
		return
	}

	var req struct {
		Quantity int32 `json:"quantity"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	if err := h.carts.SetQuantity(r.Context(), id, productID, req.Quantity); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	h.respondSummary(w, r, id)
}

// Remove handles DELETE /api/cart/items/{productID}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	productID, err := uuid.Parse(r.PathValue("productID"))
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("cart.remove", "invalid product id"))
		return
	}

	if err := h.carts.Remove(r.Context(), id, productID); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	h.respondSummary(w, r, id)
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	if err := h.carts.Clear(r.Context(), id); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusNoContent, nil)
}

// Merge handles POST /api/cart/merge. It is called right after login while
// the anonymous token cookie is still present, and never fails the request:
// merge errors are logged server-side and the items stay local for a retry.
// Once everything under the token has moved, the token cookie is cleared so
// the next anonymous session starts fresh with a new token.
func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())
	if !id.Authenticated() {
		handler.RespondError(w, r, domain.Unauthorized("cart.merge", "login required"))
		return
	}
	if id.Token == "" {
		handler.RespondJSON(w, http.StatusOK, map[string]int{"merged": 0})
		return
	}

	merged, complete := h.merge.MergeOnLogin(r.Context(), id.UserID, id.Token)
	if complete {
		h.resolver.ClearToken(w)
	}
	handler.RespondJSON(w, http.StatusOK, map[string]int{"merged": merged})
}

func (h *CartHandler) respondSummary(w http.ResponseWriter, r *http.Request, id domain.Identity) {
	summary, err := h.carts.Summary(r.Context(), id)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewCartSummaryResponse(summary))
}
