package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProductInput carries the editable fields for back-office product writes.
type ProductInput struct {
	CategoryID         uuid.UUID `json:"category_id" validate:"required"`
	Name               string    `json:"name" validate:"required,min=2,max=200"`
	Description        string    `json:"description" validate:"max=5000"`
	PriceCents         int64     `json:"price_cents" validate:"gte=0"`
	OriginalPriceCents int64     `json:"original_price_cents" validate:"gte=0"`
	Stock              int32     `json:"stock" validate:"gte=0"`
	ImageURL           string    `json:"image_url" validate:"omitempty,url"`
}

// CategoryInput carries the fields for creating a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
	Slug string `json:"slug" validate:"required,min=2,max=120"`
}

// CatalogService provides storefront catalog reads and back-office writes.
type CatalogService interface {
	// ListProducts returns active products, optionally by category
	// (uuid.Nil means all).
	ListProducts(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error)

	// GetProduct returns an active product or ErrProductNotFound.
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)

	// Back-office operations.
	ListAllProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error)
}

type catalogService struct {
	products domain.ProductStore
	validate *validator.Validate
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(products domain.ProductStore) CatalogService {
	return &catalogService{
		products: products,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *catalogService) ListProducts(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	return s.products.ListActiveProducts(ctx, categoryID)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.products.ListCategories(ctx)
}

func (s *catalogService) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := s.validateInput("product.create", input); err != nil {
		return nil, err
	}

	return s.products.CreateProduct(ctx, &domain.Product{
		CategoryID:         input.CategoryID,
		Name:               input.Name,
		Description:        input.Description,
		PriceCents:         input.PriceCents,
		OriginalPriceCents: input.OriginalPriceCents,
		Stock:              input.Stock,
		IsActive:           true,
		ImageURL:           input.ImageURL,
	})
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := s.validateInput("product.update", input); err != nil {
		return nil, err
	}

	existing, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.CategoryID = input.CategoryID
	existing.Name = input.Name
	existing.Description = input.Description
	existing.PriceCents = input.PriceCents
	existing.OriginalPriceCents = input.OriginalPriceCents
	existing.Stock = input.Stock
	existing.ImageURL = input.ImageURL

	return s.products.UpdateProduct(ctx, existing)
}

func (s *catalogService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.SetProductActive(ctx, id, false)
}

func (s *catalogService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	if err := s.validateInput("category.create", input); err != nil {
		return nil, err
	}

	return s.products.CreateCategory(ctx, &domain.Category{
		Name: input.Name,
		Slug: strings.ToLower(input.Slug),
	})
}

func (s *catalogService) validateInput(op string, input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		var ve error
		for _, fieldErr := range invalid {
			ve = domain.AddFieldError(ve, strings.ToLower(fieldErr.Field()), validationMessage(fieldErr))
		}
		return ve
	}
	return domain.Invalid(op, "invalid input")
}
