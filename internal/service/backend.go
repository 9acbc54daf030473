package service

import (
	"context"

	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/domain"
)

// Backend is the subset of the storefront REST API the services call.
// *backend.Client implements it.
type Backend interface {
	GetCart(ctx context.Context, token string) ([]domain.CartItem, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, q backend.ProductQuery) (*domain.ProductPage, error)
	AddToCart(ctx context.Context, token string, line domain.AddToCartRequest) error
	PlaceOrder(ctx context.Context, token, idempotencyKey string, payload domain.OrderPayload) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
}

// Views the storefront sends users to
const (
	LoginPath    = "/login"
	HomePath     = "/"
	ProductsPath = "/products"
)
