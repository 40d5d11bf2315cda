package localstore

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMemory_AddCartItemSums(t *testing.T) {
	m := NewMemory()
	productID := uuid.New()

	m.AddCartItem("tok", productID, 2)
	m.AddCartItem("tok", productID, 3)

	items := m.CartItems("tok")
	assert.Len(t, items, 1)
	assert.Equal(t, int32(5), items[productID])
}

func TestMemory_AddCartItemIgnoresInvalid(t *testing.T) {
	m := NewMemory()
	productID := uuid.New()

	m.AddCartItem("", productID, 1)
	m.AddCartItem("tok", productID, 0)
	m.AddCartItem("tok", productID, -4)

	assert.Empty(t, m.CartItems("tok"))
	assert.Empty(t, m.CartItems(""))
}

func TestMemory_SetCartQuantity(t *testing.T) {
	m := NewMemory()
	productID := uuid.New()

	m.AddCartItem("tok", productID, 2)
	m.SetCartQuantity("tok", productID, 7)
	assert.Equal(t, int32(7), m.CartItems("tok")[productID])

	// qty <= 0 removes the line
	m.SetCartQuantity("tok", productID, 0)
	assert.Empty(t, m.CartItems("tok"))
}

func TestMemory_RemoveCartItemAbsentKey(t *testing.T) {
	m := NewMemory()

	// removing from an unknown token or absent key must not create state
	m.RemoveCartItem("tok", uuid.New())
	assert.Empty(t, m.CartItems("tok"))
}

func TestMemory_TokensAreIsolated(t *testing.T) {
	m := NewMemory()
	productID := uuid.New()

	m.AddCartItem("alice", productID, 1)
	m.AddCartItem("bob", productID, 9)

	assert.Equal(t, int32(1), m.CartItems("alice")[productID])
	assert.Equal(t, int32(9), m.CartItems("bob")[productID])
}

func TestMemory_ClearCartKeepsWishlist(t *testing.T) {
	m := NewMemory()
	productID := uuid.New()

	m.AddCartItem("tok", productID, 2)
	m.AddWishlistItem("tok", productID)

	m.ClearCart("tok")

	assert.Empty(t, m.CartItems("tok"))
	assert.Len(t, m.WishlistItems("tok"), 1)
}

func TestMemory_WishlistIsASet(t *testing.T) {
	m := NewMemory()
	productID := uuid.New()

	m.AddWishlistItem("tok", productID)
	m.AddWishlistItem("tok", productID)

	assert.Len(t, m.WishlistItems("tok"), 1)
}

func TestMemory_QuotaSilentlyDropsNewLines(t *testing.T) {
	m := NewMemoryWithQuota(2)
	first := uuid.New()
	second := uuid.New()
	third := uuid.New()

	m.AddCartItem("tok", first, 1)
	m.AddWishlistItem("tok", second)

	// quota reached: new lines no-op, existing lines still mutate
	m.AddCartItem("tok", third, 1)
	m.AddWishlistItem("tok", third)
	m.AddCartItem("tok", first, 4)

	items := m.CartItems("tok")
	assert.Len(t, items, 1)
	assert.Equal(t, int32(5), items[first])
	assert.Len(t, m.WishlistItems("tok"), 1)
}

func TestMemory_ReturnedMapIsACopy(t *testing.T) {
	m := NewMemory()
	productID := uuid.New()
	m.AddCartItem("tok", productID, 2)

	items := m.CartItems("tok")
	items[productID] = 99

	assert.Equal(t, int32(2), m.CartItems("tok")[productID])
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory()
	productID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AddCartItem("tok", productID, 1)
			m.CartItems("tok")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(50), m.CartItems("tok")[productID])
}
