package service

import (
	"context"
	"sync"

	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/domain"
)

// fakeBackend records calls and answers from the configured funcs
type fakeBackend struct {
	mu     sync.Mutex
	calls  map[string]int
	orders []domain.OrderPayload
	lines  []domain.AddToCartRequest

	getCart      func(token string) ([]domain.CartItem, error)
	getProduct   func(id int64) (*domain.Product, error)
	listProducts func(q backend.ProductQuery) (*domain.ProductPage, error)
	placeOrder   func(ctx context.Context, payload domain.OrderPayload) error
	addToCart    func(line domain.AddToCartRequest) error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) GetCart(_ context.Context, token string) ([]domain.CartItem, error) {
	f.record("GetCart")
	if f.getCart == nil {
		return []domain.CartItem{}, nil
	}
	return f.getCart(token)
}

func (f *fakeBackend) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	f.record("GetProduct")
	return f.getProduct(id)
}

func (f *fakeBackend) ListProducts(_ context.Context, q backend.ProductQuery) (*domain.ProductPage, error) {
	f.record("ListProducts")
	return f.listProducts(q)
}

func (f *fakeBackend) AddToCart(_ context.Context, _ string, line domain.AddToCartRequest) error {
	f.record("AddToCart")
	f.mu.Lock()
	f.lines = append(f.lines, line)
	f.mu.Unlock()
	if f.addToCart == nil {
		return nil
	}
	return f.addToCart(line)
}

func (f *fakeBackend) PlaceOrder(ctx context.Context, _, _ string, payload domain.OrderPayload) error {
	f.record("PlaceOrder")
	f.mu.Lock()
	f.orders = append(f.orders, payload)
	f.mu.Unlock()
	if f.placeOrder == nil {
		return nil
	}
	return f.placeOrder(ctx, payload)
}

func (f *fakeBackend) ListCategories(context.Context) ([]domain.Category, error) {
	f.record("ListCategories")
	return []domain.Category{}, nil
}

func (f *fakeBackend) GetCategory(_ context.Context, id int64) (*domain.Category, error) {
	f.record("GetCategory")
	return &domain.Category{ID: id}, nil
}
