package service

import (
	"context"
	"errors"
	"sort"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/telemetry"
	"github.com/google/uuid"
)

// WishlistService provides business logic for wishlist operations, routed by
// identity the same way the cart is.
type WishlistService interface {
	Add(ctx context.Context, id domain.Identity, productID uuid.UUID) error
	Remove(ctx context.Context, id domain.Identity, productID uuid.UUID) error

	// List returns the wishlist products, skipping ones that no longer exist.
	List(ctx context.Context, id domain.Identity) ([]domain.Product, error)
}

type wishlistService struct {
	local     domain.LocalStore
	wishlists domain.WishlistStore
	products  domain.ProductStore
	metrics   *telemetry.BusinessMetrics
}

// NewWishlistService creates a new WishlistService instance.
func NewWishlistService(local domain.LocalStore, wishlists domain.WishlistStore, products domain.ProductStore, metrics *telemetry.BusinessMetrics) WishlistService {
	return &wishlistService{
		local:     local,
		wishlists: wishlists,
		products:  products,
		metrics:   metrics,
	}
}

func (s *wishlistService) Add(ctx context.Context, id domain.Identity, productID uuid.UUID) error {
	if !id.Authenticated() {
		s.local.AddWishlistItem(id.Token, productID)
	} else {
		product, err := s.products.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return domain.ErrProductInactive
		}
		if err := s.wishlists.Add(ctx, id.UserID, productID); err != nil {
			return err
		}
	}

	if s.metrics != nil {
		source := "local"
		if id.Authenticated() {
			source = "server"
		}
		s.metrics.WishlistAdds.WithLabelValues(source).Inc()
	}
	return nil
}

func (s *wishlistService) Remove(ctx context.Context, id domain.Identity, productID uuid.UUID) error {
	if !id.Authenticated() {
		s.local.RemoveWishlistItem(id.Token, productID)
		return nil
	}
	return s.wishlists.Remove(ctx, id.UserID, productID)
}

func (s *wishlistService) List(ctx context.Context, id domain.Identity) ([]domain.Product, error) {
	var productIDs []uuid.UUID
	if !id.Authenticated() {
		productIDs = s.local.WishlistItems(id.Token)
	} else {
		items, err := s.wishlists.List(ctx, id.UserID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			productIDs = append(productIDs, item.ProductID)
		}
	}

	sort.Slice(productIDs, func(i, j int) bool {
		return productIDs[i].String() < productIDs[j].String()
	})

	products := make([]domain.Product, 0, len(productIDs))
	for _, pid := range productIDs {
		product, err := s.products.GetProduct(ctx, pid)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}
