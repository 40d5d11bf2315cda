package postgres

import (
	"context"
	"errors"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductStore implements domain.ProductStore using PostgreSQL.
type ProductStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that ProductStore implements domain.ProductStore.
var _ domain.ProductStore = (*ProductStore)(nil)

// NewProductStore creates a new PostgreSQL-backed product store.
func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

const productColumns = `id, category_id, name, description, price_cents, original_price_cents, stock, is_active, image_url, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Description,
		&p.PriceCents, &p.OriginalPriceCents, &p.Stock, &p.IsActive,
		&p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProduct returns a product by ID regardless of its active flag.
func (s *ProductStore) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.get", "failed to get product")
	}
	return p, nil
}

// ListActiveProducts returns active products, optionally filtered by category.
func (s *ProductStore) ListActiveProducts(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active ORDER BY created_at DESC`
	args := []any{}
	if categoryID != uuid.Nil {
		query = `SELECT ` + productColumns + ` FROM products WHERE is_active AND category_id = $1 ORDER BY created_at DESC`
		args = append(args, categoryID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "product.list_active", "failed to list products")
	}
	defer rows.Close()

	return collectProducts(rows, "product.list_active")
}

// ListProducts returns every product for the back-office.
func (s *ProductStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, domain.Internal(err, "product.list", "failed to list products")
	}
	defer rows.Close()

	return collectProducts(rows, "product.list")
}

func collectProducts(rows pgx.Rows, op string) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan product")
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read products")
	}
	return products, nil
}

// CreateProduct inserts a product and returns the stored row.
func (s *ProductStore) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO products (category_id, name, description, price_cents, original_price_cents, stock, is_active, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		p.CategoryID, p.Name, p.Description, p.PriceCents, p.OriginalPriceCents, p.Stock, p.IsActive, p.ImageURL)

	created, err := scanProduct(row)
	if err != nil {
		return nil, domain.Internal(err, "product.create", "failed to create product")
	}
	return created, nil
}

// UpdateProduct updates the editable fields of a product.
func (s *ProductStore) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE products
		SET category_id = $2, name = $3, description = $4, price_cents = $5,
		    original_price_cents = $6, stock = $7, is_active = $8, image_url = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		p.ID, p.CategoryID, p.Name, p.Description, p.PriceCents, p.OriginalPriceCents, p.Stock, p.IsActive, p.ImageURL)

	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.update", "failed to update product")
	}
	return updated, nil
}

// SetProductActive flips the active flag.
func (s *ProductStore) SetProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE products SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return domain.Internal(err, "product.set_active", "failed to update product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// CreateCategory inserts a category.
func (s *ProductStore) CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING id, name, slug, created_at`,
		c.Name, c.Slug)

	var created domain.Category
	if err := row.Scan(&created.ID, &created.Name, &created.Slug, &created.CreatedAt); err != nil {
		if isUniqueViolation(err, "categories_slug_key") {
			return nil, domain.Conflict("category.create", "category slug already exists")
		}
		return nil, domain.Internal(err, "category.create", "failed to create category")
	}
	return &created, nil
}

// ListCategories returns all categories.
func (s *ProductStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, slug, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, domain.Internal(err, "category.list", "failed to list categories")
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, domain.Internal(err, "category.list", "failed to scan category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "category.list", "failed to read categories")
	}
	return categories, nil
}
