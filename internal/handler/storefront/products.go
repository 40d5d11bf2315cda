// Package storefront holds the customer-facing JSON API handlers.
package storefront

import (
	"net/http"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/handler"
	"github.com/dkurganov/lavka/internal/service"
	"github.com/google/uuid"
)

// ProductHandler handles the public catalog routes.
type ProductHandler struct {
	catalog service.CatalogService
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID := uuid.Nil
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.RespondError(w, r, domain.Invalid("products.list", "invalid category_id"))
			return
		}
		categoryID = id
	}

	products, err := h.catalog.ListProducts(ctx, categoryID)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, handler.NewProductListResponse(products))
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("products.get", "invalid product id"))
		return
	}

	product, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, handler.NewProductResponse(*product))
}

// Categories handles GET /api/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	out := make([]handler.CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = handler.NewCategoryResponse(c)
	}
	handler.RespondJSON(w, http.StatusOK, out)
}
