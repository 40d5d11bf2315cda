package routes

import (
	"github.com/dkurganov/lavka/internal/middleware"
	"github.com/dkurganov/lavka/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing API routes.
// Cart and wishlist routes work for anonymous visitors too; the identity
// middleware has already resolved the actor by the time a handler runs.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Catalog
	r.Get("/api/products", deps.ProductHandler.List)
	r.Get("/api/products/{id}", deps.ProductHandler.Get)
	r.Get("/api/categories", deps.ProductHandler.Categories)

	// Shopping cart
	r.Get("/api/cart", deps.CartHandler.Get)
	r.Post("/api/cart/items", deps.CartHandler.Add)
	r.Put("/api/cart/items/{productID}", deps.CartHandler.SetQuantity)
	r.Delete("/api/cart/items/{productID}", deps.CartHandler.Remove)
	r.Delete("/api/cart", deps.CartHandler.Clear)
	r.Post("/api/cart/merge", deps.CartHandler.Merge, middleware.RequireAuth)

	// Wishlist
	r.Get("/api/wishlist", deps.WishlistHandler.List)
	r.Post("/api/wishlist/items", deps.WishlistHandler.Add)
	r.Delete("/api/wishlist/items/{productID}", deps.WishlistHandler.Remove)

	// Checkout, open to anonymous visitors as well. The strict rate limit
	// guards the stock-reserving transaction from retry storms.
	if deps.CheckoutLimit != nil {
		r.Post("/api/checkout", deps.CheckoutHandler.Checkout, deps.CheckoutLimit)
	} else {
		r.Post("/api/checkout", deps.CheckoutHandler.Checkout)
	}

	// Order history (requires authentication)
	account := r.Group(middleware.RequireAuth)
	account.Get("/api/orders", deps.OrderHandler.List)
	account.Get("/api/orders/{id}", deps.OrderHandler.Get)
}
