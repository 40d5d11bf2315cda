// Package localstore holds cart and wishlist state for anonymous visitors.
// It is the server-side counterpart of client-local storage: keyed by a
// locally generated token, no network round trips, no remote errors.
package localstore

import (
	"sync"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/google/uuid"
)

// DefaultMaxLines bounds the number of distinct cart lines plus wishlist
// entries held per token. Exceeding it no-ops silently, mirroring
// storage-quota exhaustion in a browser.
const DefaultMaxLines = 200

type entry struct {
	cart     map[uuid.UUID]int32
	wishlist map[uuid.UUID]struct{}
}

func (e *entry) size() int {
	return len(e.cart) + len(e.wishlist)
}

// Memory is an in-memory LocalStore safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	byToken  map[string]*entry
	maxLines int
}

var _ domain.LocalStore = (*Memory)(nil)

// NewMemory creates an in-memory local store with the default quota.
func NewMemory() *Memory {
	return NewMemoryWithQuota(DefaultMaxLines)
}

// NewMemoryWithQuota creates an in-memory local store with a per-token line
// quota. maxLines <= 0 means unlimited.
func NewMemoryWithQuota(maxLines int) *Memory {
	return &Memory{
		byToken:  make(map[string]*entry),
		maxLines: maxLines,
	}
}

func (m *Memory) get(token string) *entry {
	e, ok := m.byToken[token]
	if !ok {
		e = &entry{
			cart:     make(map[uuid.UUID]int32),
			wishlist: make(map[uuid.UUID]struct{}),
		}
		m.byToken[token] = e
	}
	return e
}

func (m *Memory) overQuota(e *entry) bool {
	return m.maxLines > 0 && e.size() >= m.maxLines
}

// CartItems returns a copy of the cart map for the token.
func (m *Memory) CartItems(token string) map[uuid.UUID]int32 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.byToken[token]
	if !ok {
		return map[uuid.UUID]int32{}
	}

	out := make(map[uuid.UUID]int32, len(e.cart))
	for id, qty := range e.cart {
		out[id] = qty
	}
	return out
}

// AddCartItem merges by summing quantity. qty <= 0 is ignored.
func (m *Memory) AddCartItem(token string, productID uuid.UUID, qty int32) {
	if token == "" || qty <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.get(token)
	if _, exists := e.cart[productID]; !exists && m.overQuota(e) {
		return
	}
	e.cart[productID] += qty
}

// SetCartQuantity replaces the quantity; qty <= 0 removes the key.
func (m *Memory) SetCartQuantity(token string, productID uuid.UUID, qty int32) {
	if token == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.get(token)
	if qty <= 0 {
		delete(e.cart, productID)
		return
	}
	if _, exists := e.cart[productID]; !exists && m.overQuota(e) {
		return
	}
	e.cart[productID] = qty
}

// RemoveCartItem deletes the key; removing an absent key is a no-op.
func (m *Memory) RemoveCartItem(token string, productID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.byToken[token]; ok {
		delete(e.cart, productID)
	}
}

// ClearCart drops every cart line for the token.
func (m *Memory) ClearCart(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.byToken[token]; ok {
		e.cart = make(map[uuid.UUID]int32)
	}
}

// WishlistItems returns the wishlist product IDs for the token.
func (m *Memory) WishlistItems(token string) []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.byToken[token]
	if !ok {
		return nil
	}

	out := make([]uuid.UUID, 0, len(e.wishlist))
	for id := range e.wishlist {
		out = append(out, id)
	}
	return out
}

// AddWishlistItem adds the product to the set.
func (m *Memory) AddWishlistItem(token string, productID uuid.UUID) {
	if token == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.get(token)
	if _, exists := e.wishlist[productID]; !exists && m.overQuota(e) {
		return
	}
	e.wishlist[productID] = struct{}{}
}

// RemoveWishlistItem deletes the product from the set.
func (m *Memory) RemoveWishlistItem(token string, productID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.byToken[token]; ok {
		delete(e.wishlist, productID)
	}
}

// ClearWishlist drops the wishlist set for the token.
func (m *Memory) ClearWishlist(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.byToken[token]; ok {
		e.wishlist = make(map[uuid.UUID]struct{})
	}
}
