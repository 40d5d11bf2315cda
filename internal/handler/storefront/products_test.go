package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/handler"
	"github.com/dkurganov/lavka/internal/service"
	"github.com/google/uuid"
)

// mockCatalogService implements service.CatalogService for testing
type mockCatalogService struct {
	listProductsFunc   func(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error)
	getProductFunc     func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	listCategoriesFunc func(ctx context.Context) ([]domain.Category, error)
}

func (m *mockCatalogService) ListProducts(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	if m.listProductsFunc != nil {
		return m.listProductsFunc(ctx, categoryID)
	}
	return nil, nil
}

func (m *mockCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if m.getProductFunc != nil {
		return m.getProductFunc(ctx, id)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockCatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.listCategoriesFunc != nil {
		return m.listCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *mockCatalogService) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, input service.ProductInput) (*domain.Product, error) {
	return nil, nil
}

func (m *mockCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input service.ProductInput) (*domain.Product, error) {
	return nil, nil
}

func (m *mockCatalogService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockCatalogService) CreateCategory(ctx context.Context, input service.CategoryInput) (*domain.Category, error) {
	return nil, nil
}

func TestProductHandler_List(t *testing.T) {
	categoryID := uuid.New()
	product := domain.Product{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Name:       "Молоко 3.2%",
		PriceCents: 8900,
		Stock:      12,
		IsActive:   true,
	}

	tests := []struct {
		name           string
		url            string
		wantStatus     int
		wantCategoryID uuid.UUID
	}{
		{
			name:           "all products",
			url:            "/api/products",
			wantStatus:     http.StatusOK,
			wantCategoryID: uuid.Nil,
		},
		{
			name:           "filtered by category",
			url:            "/api/products?category_id=" + categoryID.String(),
			wantStatus:     http.StatusOK,
			wantCategoryID: categoryID,
		},
		{
			name:       "malformed category id",
			url:        "/api/products?category_id=not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCategoryID uuid.UUID
			catalog := &mockCatalogService{
				listProductsFunc: func(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
					gotCategoryID = categoryID
					return []domain.Product{product}, nil
				},
			}
			h := NewProductHandler(catalog)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			h.List(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if gotCategoryID != tt.wantCategoryID {
				t.Errorf("category filter = %s, want %s", gotCategoryID, tt.wantCategoryID)
			}

			var body []handler.ProductResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(body) != 1 {
				t.Fatalf("got %d products, want 1", len(body))
			}
			if body[0].Name != product.Name {
				t.Errorf("name = %q, want %q", body[0].Name, product.Name)
			}
			if body[0].Price != "89.00 ₽" {
				t.Errorf("price = %q, want %q", body[0].Price, "89.00 ₽")
			}
		})
	}
}

func TestProductHandler_Get(t *testing.T) {
	product := domain.Product{
		ID:         uuid.New(),
		CategoryID: uuid.New(),
		Name:       "Хлеб бородинский",
		PriceCents: 5500,
		Stock:      4,
		IsActive:   true,
	}

	catalog := &mockCatalogService{
		getProductFunc: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
			if id != product.ID {
				return nil, domain.ErrProductNotFound
			}
			return &product, nil
		},
	}
	h := NewProductHandler(catalog)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/"+product.ID.String(), nil)
		req.SetPathValue("id", product.ID.String())
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var body handler.ProductResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.ID != product.ID.String() {
			t.Errorf("id = %q, want %q", body.ID, product.ID)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		other := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/api/products/"+other.String(), nil)
		req.SetPathValue("id", other.String())
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/abc", nil)
		req.SetPathValue("id", "abc")
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestProductHandler_Categories(t *testing.T) {
	catalog := &mockCatalogService{
		listCategoriesFunc: func(ctx context.Context) ([]domain.Category, error) {
			return []domain.Category{
				{ID: uuid.New(), Name: "Молочные продукты", Slug: "dairy"},
				{ID: uuid.New(), Name: "Хлеб", Slug: "bread"},
			}, nil
		},
	}
	h := NewProductHandler(catalog)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	rec := httptest.NewRecorder()
	h.Categories(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body []handler.CategoryResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("got %d categories, want 2", len(body))
	}
	if body[1].Slug != "bread" {
		t.Errorf("slug = %q, want %q", body[1].Slug, "bread")
	}
}
