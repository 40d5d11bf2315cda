package storefront

import (
	"net/http"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/handler"
	"github.com/dkurganov/lavka/internal/middleware"
	"github.com/dkurganov/lavka/internal/service"
	"github.com/google/uuid"
)

// WishlistHandler handles the wishlist routes.
type WishlistHandler struct {
	wishlists service.WishlistService
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlists service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

// List handles GET /api/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	products, err := h.wishlists.List(r.Context(), id)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, handler.NewProductListResponse(products))
}

// Add handles POST /api/wishlist/items
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("wishlist.add", "invalid product_id"))
		return
	}

	if err := h.wishlists.Add(r.Context(), id, productID); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusNoContent, nil)
}

// Remove handles DELETE /api/wishlist/items/{productID}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	productID, err := uuid.Parse(r.PathValue("productID"))
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("wishlist.remove", "invalid product id"))
		return
	}

	if err := h.wishlists.Remove(r.Context(), id, productID); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusNoContent, nil)
}
