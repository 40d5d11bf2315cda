package routes

import (
	"github.com/dkurganov/lavka/internal/middleware"
	"github.com/dkurganov/lavka/internal/router"
)

// RegisterAdminRoutes registers all back-office routes.
// All routes are protected by admin authentication middleware.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(middleware.RequireAdmin)

	// Product management
	admin.Get("/api/admin/products", deps.ProductHandler.List)
	admin.Post("/api/admin/products", deps.ProductHandler.Create)
	admin.Put("/api/admin/products/{id}", deps.ProductHandler.Update)
	admin.Delete("/api/admin/products/{id}", deps.ProductHandler.Deactivate)

	// Category management
	admin.Post("/api/admin/categories", deps.CategoryHandler.Create)

	// Order management
	admin.Get("/api/admin/orders", deps.OrderHandler.List)
	admin.Get("/api/admin/orders/{id}", deps.OrderHandler.Get)
	admin.Patch("/api/admin/orders/{id}/status", deps.OrderHandler.UpdateStatus)
	admin.Post("/api/admin/orders/{id}/paid", deps.OrderHandler.MarkPaid)
}
