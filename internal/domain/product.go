package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product domain errors.
var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}
	ErrProductInactive  = &Error{Code: ENOTFOUND, Message: "Product is no longer available"}
)

// Product is the read-mostly reference entity consumed by the cart and
// checkout flow. The storefront core never mutates it except for the
// conditional stock decrement performed inside the order transaction.
type Product struct {
	ID                 uuid.UUID
	CategoryID         uuid.UUID
	Name               string
	Description        string
	PriceCents         int64
	OriginalPriceCents int64
	Stock              int32
	IsActive           bool
	ImageURL           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Category groups products for the catalog back-office.
type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

// ProductStore persists products and categories.
type ProductStore interface {
	// GetProduct returns a product by ID regardless of its active flag.
	// Returns ErrProductNotFound if no row exists.
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)

	// ListActiveProducts returns active products for the storefront,
	// optionally filtered by category (uuid.Nil means all).
	ListActiveProducts(ctx context.Context, categoryID uuid.UUID) ([]Product, error)

	// ListProducts returns every product, active or not, for the back-office.
	ListProducts(ctx context.Context) ([]Product, error)

	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) (*Product, error)

	// SetProductActive flips the active flag without touching other fields.
	SetProductActive(ctx context.Context, id uuid.UUID, active bool) error

	CreateCategory(ctx context.Context, c *Category) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
}
