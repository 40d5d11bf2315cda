package routes

import (
	"github.com/dkurganov/lavka/internal/handler/admin"
	"github.com/dkurganov/lavka/internal/handler/storefront"
	"github.com/dkurganov/lavka/internal/router"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	ProductHandler  *storefront.ProductHandler
	CartHandler     *storefront.CartHandler
	WishlistHandler *storefront.WishlistHandler
	CheckoutHandler *storefront.CheckoutHandler
	OrderHandler    *storefront.OrderHandler

	// CheckoutLimit throttles order submissions; nil disables the limit.
	CheckoutLimit router.Middleware
}

// AdminDeps contains dependencies for admin routes
type AdminDeps struct {
	ProductHandler  *admin.ProductHandler
	CategoryHandler *admin.CategoryHandler
	OrderHandler    *admin.OrderHandler
}
