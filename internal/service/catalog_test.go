package service

import (
	"context"
	"testing"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductInput() ProductInput {
	return ProductInput{
		CategoryID: uuid.New(),
		Name:       "Drip coffee bags",
		PriceCents: 54900,
		Stock:      25,
	}
}

func TestCatalogGetProduct_HidesInactive(t *testing.T) {
	discontinued := activeProduct("Old blend", 999, 5)
	discontinued.IsActive = false
	svc := NewCatalogService(newFakeProductStore(discontinued))

	_, err := svc.GetProduct(context.Background(), discontinued.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogListProducts_FiltersByCategory(t *testing.T) {
	ctx := context.Background()
	coffee := activeProduct("Coffee", 1499, 10)
	tea := activeProduct("Tea", 500, 10)
	svc := NewCatalogService(newFakeProductStore(coffee, tea))

	all, err := svc.ListProducts(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyCoffee, err := svc.ListProducts(ctx, coffee.CategoryID)
	require.NoError(t, err)
	require.Len(t, onlyCoffee, 1)
	assert.Equal(t, coffee.ID, onlyCoffee[0].ID)
}

func TestCatalogCreateProduct(t *testing.T) {
	svc := NewCatalogService(newFakeProductStore())

	product, err := svc.CreateProduct(context.Background(), validProductInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.True(t, product.IsActive, "new products start active")
}

func TestCatalogCreateProduct_Validation(t *testing.T) {
	svc := NewCatalogService(newFakeProductStore())

	tests := []struct {
		name   string
		mutate func(*ProductInput)
		field  string
	}{
		{"missing name", func(in *ProductInput) { in.Name = "" }, "name"},
		{"negative price", func(in *ProductInput) { in.PriceCents = -1 }, "pricecents"},
		{"negative stock", func(in *ProductInput) { in.Stock = -5 }, "stock"},
		{"missing category", func(in *ProductInput) { in.CategoryID = uuid.Nil }, "categoryid"},
		{"bad image url", func(in *ProductInput) { in.ImageURL = "not a url" }, "imageurl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validProductInput()
			tt.mutate(&input)

			_, err := svc.CreateProduct(context.Background(), input)
			require.Error(t, err)
			assert.Contains(t, domain.GetValidationFields(err), tt.field)
		})
	}
}

func TestCatalogUpdateProduct_UnknownID(t *testing.T) {
	svc := NewCatalogService(newFakeProductStore())

	_, err := svc.UpdateProduct(context.Background(), uuid.New(), validProductInput())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogCreateCategory_LowercasesSlug(t *testing.T) {
	svc := NewCatalogService(newFakeProductStore())

	category, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Чай", Slug: "Tea-And-Herbs"})
	require.NoError(t, err)
	assert.Equal(t, "tea-and-herbs", category.Slug)
}

func TestCatalogDeactivateProduct(t *testing.T) {
	ctx := context.Background()
	coffee := activeProduct("Coffee", 1499, 10)
	store := newFakeProductStore(coffee)
	svc := NewCatalogService(store)

	require.NoError(t, svc.DeactivateProduct(ctx, coffee.ID))

	_, err := svc.GetProduct(ctx, coffee.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
