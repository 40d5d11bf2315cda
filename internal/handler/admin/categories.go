package admin

import (
	"net/http"

	"github.com/dkurganov/lavka/internal/handler"
	"github.com/dkurganov/lavka/internal/service"
)

// CategoryHandler handles the category admin routes
type CategoryHandler struct {
	catalog service.CatalogService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(catalog service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// Create handles POST /api/admin/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CategoryInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), input)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusCreated, handler.NewCategoryResponse(*category))
}
