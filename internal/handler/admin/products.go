// Package admin holds the back-office JSON API handlers. Every route here is
// behind the admin middleware.
package admin

import (
	"net/http"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/handler"
	"github.com/dkurganov/lavka/internal/service"
	"github.com/google/uuid"
)

// ProductHandler handles all product-related admin routes
type ProductHandler struct {
	catalog service.CatalogService
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List handles GET /api/admin/products. Unlike the storefront listing it
// includes inactive products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAllProducts(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, handler.NewProductListResponse(products))
}

// Create handles POST /api/admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusCreated, handler.NewProductResponse(*product))
}

// Update handles PUT /api/admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("admin.products.update", "invalid product id"))
		return
	}

	var input service.ProductInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, input)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, handler.NewProductResponse(*product))
}

// Deactivate handles DELETE /api/admin/products/{id}. Products are never
// hard-deleted; order item snapshots keep referencing them.
func (h *ProductHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.RespondError(w, r, domain.Invalid("admin.products.deactivate", "invalid product id"))
		return
	}

	if err := h.catalog.DeactivateProduct(r.Context(), id); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusNoContent, nil)
}
