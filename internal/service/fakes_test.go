package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/localstore"
	"github.com/google/uuid"
)

// fakeCartStore implements domain.CartStore backed by a map, with an optional
// per-product error to simulate partial server failures.
type fakeCartStore struct {
	mu     sync.Mutex
	items  map[string]map[uuid.UUID]int32
	errFor map[uuid.UUID]error
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{
		items:  make(map[string]map[uuid.UUID]int32),
		errFor: make(map[uuid.UUID]error),
	}
}

func (f *fakeCartStore) Add(ctx context.Context, cartKey string, productID uuid.UUID, qty int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.errFor[productID]; err != nil {
		return err
	}
	if f.items[cartKey] == nil {
		f.items[cartKey] = make(map[uuid.UUID]int32)
	}
	f.items[cartKey][productID] += qty
	return nil
}

func (f *fakeCartStore) SetQuantity(ctx context.Context, cartKey string, productID uuid.UUID, qty int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if qty <= 0 {
		delete(f.items[cartKey], productID)
		return nil
	}
	if f.items[cartKey] == nil {
		f.items[cartKey] = make(map[uuid.UUID]int32)
	}
	f.items[cartKey][productID] = qty
	return nil
}

func (f *fakeCartStore) Remove(ctx context.Context, cartKey string, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items[cartKey], productID)
	return nil
}

func (f *fakeCartStore) List(ctx context.Context, cartKey string) ([]domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.CartItem, 0, len(f.items[cartKey]))
	for pid, qty := range f.items[cartKey] {
		out = append(out, domain.CartItem{CartKey: cartKey, ProductID: pid, Quantity: qty})
	}
	return out, nil
}

func (f *fakeCartStore) Clear(ctx context.Context, cartKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, cartKey)
	return nil
}

func (f *fakeCartStore) quantities(cartKey string) map[uuid.UUID]int32 {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[uuid.UUID]int32, len(f.items[cartKey]))
	for pid, qty := range f.items[cartKey] {
		out[pid] = qty
	}
	return out
}

// fakeWishlistStore implements domain.WishlistStore.
type fakeWishlistStore struct {
	mu     sync.Mutex
	items  map[uuid.UUID]map[uuid.UUID]struct{}
	errFor map[uuid.UUID]error
}

func newFakeWishlistStore() *fakeWishlistStore {
	return &fakeWishlistStore{
		items:  make(map[uuid.UUID]map[uuid.UUID]struct{}),
		errFor: make(map[uuid.UUID]error),
	}
}

func (f *fakeWishlistStore) Add(ctx context.Context, userID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.errFor[productID]; err != nil {
		return err
	}
	if f.items[userID] == nil {
		f.items[userID] = make(map[uuid.UUID]struct{})
	}
	f.items[userID][productID] = struct{}{}
	return nil
}

func (f *fakeWishlistStore) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items[userID], productID)
	return nil
}

func (f *fakeWishlistStore) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.WishlistItem, 0, len(f.items[userID]))
	for pid := range f.items[userID] {
		out = append(out, domain.WishlistItem{UserID: userID, ProductID: pid})
	}
	return out, nil
}

// fakeProductStore implements domain.ProductStore over an in-memory map.
type fakeProductStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]domain.Product
}

func newFakeProductStore(products ...domain.Product) *fakeProductStore {
	f := &fakeProductStore{products: make(map[uuid.UUID]domain.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductStore) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeProductStore) ListActiveProducts(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Product
	for _, p := range f.products {
		if !p.IsActive {
			continue
		}
		if categoryID != uuid.Nil && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductStore) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	created := *p
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	f.products[created.ID] = created
	return &created, nil
}

func (f *fakeProductStore) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.products[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	f.products[p.ID] = *p
	return p, nil
}

func (f *fakeProductStore) SetProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.IsActive = active
	f.products[id] = p
	return nil
}

func (f *fakeProductStore) CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	created := *c
	created.ID = uuid.New()
	return &created, nil
}

func (f *fakeProductStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return nil, nil
}

func (f *fakeProductStore) setStock(id uuid.UUID, stock int32) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := f.products[id]
	p.Stock = stock
	f.products[id] = p
}

func (f *fakeProductStore) stock(id uuid.UUID) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

// fakeOrderStore implements domain.OrderStore with the same guarantees as the
// real transaction: idempotency-key uniqueness, conditional stock decrement
// against the product store, and clearing the source server cart.
type fakeOrderStore struct {
	mu       sync.Mutex
	products *fakeProductStore
	carts    *fakeCartStore
	byKey    map[string]*domain.OrderDetail
	byID     map[uuid.UUID]*domain.OrderDetail
	seq      int
}

func newFakeOrderStore(products *fakeProductStore, carts *fakeCartStore) *fakeOrderStore {
	return &fakeOrderStore{
		products: products,
		carts:    carts,
		byKey:    make(map[string]*domain.OrderDetail),
		byID:     make(map[uuid.UUID]*domain.OrderDetail),
	}
}

func (f *fakeOrderStore) CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.OrderDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.byKey[draft.IdempotencyKey]; ok {
		return existing, nil
	}

	// Conditional decrement, all-or-nothing like the SQL transaction.
	for _, line := range draft.Lines {
		p, err := f.products.GetProduct(ctx, line.ProductID)
		if err != nil || !p.IsActive {
			return nil, &domain.ProductUnavailableError{ProductID: line.ProductID}
		}
		if p.Stock < line.Quantity {
			return nil, &domain.InsufficientStockError{ProductID: line.ProductID, Available: p.Stock}
		}
	}
	for _, line := range draft.Lines {
		f.products.setStock(line.ProductID, f.products.stock(line.ProductID)-line.Quantity)
	}

	f.seq++
	order := domain.Order{
		ID:              uuid.New(),
		OrderNumber:     fmt.Sprintf("ORD-TEST-%04d", f.seq),
		UserID:          draft.UserID,
		CustomerName:    draft.CustomerName,
		CustomerEmail:   draft.CustomerEmail,
		CustomerPhone:   draft.CustomerPhone,
		ShippingAddress: draft.ShippingAddress,
		PaymentMethod:   draft.PaymentMethod,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentStatusUnpaid,
		IdempotencyKey:  draft.IdempotencyKey,
		CreatedAt:       time.Now(),
	}
	items := make([]domain.OrderItem, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		total := line.ProductPriceCents * int64(line.Quantity)
		order.TotalAmountCents += total
		items = append(items, domain.OrderItem{
			OrderID:           order.ID,
			ProductID:         line.ProductID,
			ProductName:       line.ProductName,
			ProductPriceCents: line.ProductPriceCents,
			Quantity:          line.Quantity,
			TotalPriceCents:   total,
		})
	}

	detail := &domain.OrderDetail{Order: order, Items: items}
	f.byKey[draft.IdempotencyKey] = detail
	f.byID[order.ID] = detail
	_ = f.carts.Clear(ctx, draft.CartKey)
	return detail, nil
}

func (f *fakeOrderStore) GetOrderByIdempotencyKey(ctx context.Context, key string) (*domain.OrderDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if detail, ok := f.byKey[key]; ok {
		return detail, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrderStore) GetOrder(ctx context.Context, id uuid.UUID) (*domain.OrderDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if detail, ok := f.byID[id]; ok {
		return detail, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrderStore) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Order
	for _, detail := range f.byID {
		if detail.Order.UserID == userID {
			out = append(out, detail.Order)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Order
	for _, detail := range f.byID {
		out = append(out, detail.Order)
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	detail, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if status == domain.StatusCancelled {
		for _, item := range detail.Items {
			f.products.setStock(item.ProductID, f.products.stock(item.ProductID)+item.Quantity)
		}
	}
	detail.Order.Status = status
	return &detail.Order, nil
}

func (f *fakeOrderStore) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	detail, ok := f.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	detail.Order.PaymentStatus = paymentStatus
	return nil
}

// recordingPublisher captures published order events.
type recordingPublisher struct {
	mu        sync.Mutex
	published []uuid.UUID
	err       error
}

func (p *recordingPublisher) PublishOrderCreated(ctx context.Context, detail *domain.OrderDetail) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, detail.Order.ID)
	return nil
}

func newLocal() *localstore.Memory {
	return localstore.NewMemory()
}

func activeProduct(name string, priceCents int64, stock int32) domain.Product {
	return domain.Product{
		ID:         uuid.New(),
		CategoryID: uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		Stock:      stock,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
}
