package service

import (
	"context"
	"errors"
	"sort"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/telemetry"
	"github.com/google/uuid"
)

// CartService provides business logic for shopping cart operations.
// Every mutation is routed by identity: anonymous visitors write to the local
// store (no round trip, no remote errors), authenticated users to the server
// store.
type CartService interface {
	// Add merges qty into the actor's cart line for the product.
	Add(ctx context.Context, id domain.Identity, productID uuid.UUID, qty int32) error

	// SetQuantity replaces the line quantity; qty <= 0 removes the line.
	SetQuantity(ctx context.Context, id domain.Identity, productID uuid.UUID, qty int32) error

	// Remove deletes the line. Removing an absent line succeeds.
	Remove(ctx context.Context, id domain.Identity, productID uuid.UUID) error

	// Clear removes every line from the actor's cart.
	Clear(ctx context.Context, id domain.Identity) error

	// Summary returns the cart joined with live product data and totals.
	Summary(ctx context.Context, id domain.Identity) (*domain.CartSummary, error)
}

type cartService struct {
	local    domain.LocalStore
	carts    domain.CartStore
	products domain.ProductStore
	metrics  *telemetry.BusinessMetrics
}

// NewCartService creates a new CartService instance.
func NewCartService(local domain.LocalStore, carts domain.CartStore, products domain.ProductStore, metrics *telemetry.BusinessMetrics) CartService {
	return &cartService{
		local:    local,
		carts:    carts,
		products: products,
		metrics:  metrics,
	}
}

func (s *cartService) source(id domain.Identity) string {
	if id.Authenticated() {
		return "server"
	}
	return "local"
}

// Add merges by summing: repeated additions increment the existing line,
// never create a duplicate row.
func (s *cartService) Add(ctx context.Context, id domain.Identity, productID uuid.UUID, qty int32) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	if !id.Authenticated() {
		// Anonymous path is offline: no product lookup, no network.
		s.local.AddCartItem(id.Token, productID, qty)
		s.countAdd(id)
		return nil
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return domain.ErrProductInactive
	}

	if err := s.carts.Add(ctx, id.CartKey(), productID, qty); err != nil {
		return err
	}
	s.countAdd(id)
	return nil
}

func (s *cartService) countAdd(id domain.Identity) {
	if s.metrics != nil {
		s.metrics.CartItemsAdded.WithLabelValues(s.source(id)).Inc()
	}
}

// SetQuantity replaces the quantity for the line; qty <= 0 removes it.
func (s *cartService) SetQuantity(ctx context.Context, id domain.Identity, productID uuid.UUID, qty int32) error {
	if !id.Authenticated() {
		s.local.SetCartQuantity(id.Token, productID, qty)
		return nil
	}
	return s.carts.SetQuantity(ctx, id.CartKey(), productID, qty)
}

// Remove deletes the line; absent lines are not an error.
func (s *cartService) Remove(ctx context.Context, id domain.Identity, productID uuid.UUID) error {
	if !id.Authenticated() {
		s.local.RemoveCartItem(id.Token, productID)
	} else if err := s.carts.Remove(ctx, id.CartKey(), productID); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.CartItemsRemoved.WithLabelValues(s.source(id)).Inc()
	}
	return nil
}

// Clear removes all lines for the actor.
func (s *cartService) Clear(ctx context.Context, id domain.Identity) error {
	if !id.Authenticated() {
		s.local.ClearCart(id.Token)
	} else if err := s.carts.Clear(ctx, id.CartKey()); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.CartCleared.WithLabelValues(s.source(id)).Inc()
	}
	return nil
}

// Summary joins cart lines with live product data. Prices shown here are a
// display convenience; the checkout validator re-reads them authoritatively.
// Lines whose product has disappeared are skipped in the summary (checkout
// still rejects them explicitly).
func (s *cartService) Summary(ctx context.Context, id domain.Identity) (*domain.CartSummary, error) {
	quantities, err := s.cartQuantities(ctx, id)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(quantities))
	for pid := range quantities {
		productIDs = append(productIDs, pid)
	}
	sort.Slice(productIDs, func(i, j int) bool {
		return productIDs[i].String() < productIDs[j].String()
	})

	summary := &domain.CartSummary{Lines: make([]domain.CartLine, 0, len(productIDs))}
	for _, pid := range productIDs {
		product, err := s.products.GetProduct(ctx, pid)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				continue
			}
			return nil, err
		}

		qty := quantities[pid]
		lineSubtotal := int64(qty) * product.PriceCents
		summary.Lines = append(summary.Lines, domain.CartLine{
			ProductID:      pid,
			ProductName:    product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       qty,
			LineSubtotal:   lineSubtotal,
			ImageURL:       product.ImageURL,
		})
		summary.SubtotalCents += lineSubtotal
		summary.ItemCount += int(qty)
	}

	return summary, nil
}

func (s *cartService) cartQuantities(ctx context.Context, id domain.Identity) (map[uuid.UUID]int32, error) {
	if !id.Authenticated() {
		return s.local.CartItems(id.Token), nil
	}

	items, err := s.carts.List(ctx, id.CartKey())
	if err != nil {
		return nil, err
	}

	quantities := make(map[uuid.UUID]int32, len(items))
	for _, item := range items {
		quantities[item.ProductID] = item.Quantity
	}
	return quantities, nil
}
