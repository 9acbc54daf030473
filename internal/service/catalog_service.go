package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/pkg/errors"
)

const (
	relatedFetchLimit = 4
	relatedMax        = 3
)

type CatalogService struct {
	backend Backend
	logger  *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(backend Backend, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		backend: backend,
		logger:  logger,
	}
}

// GetProduct returns one product. A missing product surfaces as *errors.ErrNotFound.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.backend.GetProduct(ctx, id)
	if err != nil {
		s.logger.Warn("Error fetching product", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}
	return product, nil
}

// RelatedProducts lists up to three other products of the same category.
// It is display-only, so any failure yields an empty list.
func (s *CatalogService) RelatedProducts(ctx context.Context, product *domain.Product) []domain.Product {
	related := []domain.Product{}

	page, err := s.backend.ListProducts(ctx, backend.ProductQuery{
		CategoryID: product.CategoryID,
		Limit:      relatedFetchLimit,
	})
	if err != nil {
		s.logger.Warn("Error fetching related products", zap.Int64("product_id", product.ID), zap.Error(err))
		return related
	}

	for _, p := range page.Products {
		if p.ID == product.ID {
			continue
		}
		related = append(related, p)
		if len(related) == relatedMax {
			break
		}
	}
	return related
}

// ListProducts returns one catalog page
func (s *CatalogService) ListProducts(ctx context.Context, q backend.ProductQuery) (*domain.ProductPage, error) {
	return s.backend.ListProducts(ctx, q)
}

// AddToCart puts quantity units of a product in the session's cart. Quantities
// below one are raised to one, the same floor the quantity stepper has.
func (s *CatalogService) AddToCart(ctx context.Context, sess session.Session, productID int64, quantity int) error {
	token, ok := sess.Token()
	if !ok {
		return &errors.ErrAuthRequired{}
	}
	if quantity < 1 {
		quantity = 1
	}

	err := s.backend.AddToCart(ctx, token, domain.AddToCartRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		s.logger.Error("Error adding to cart", zap.Int64("product_id", productID), zap.Error(err))
		return err
	}
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.backend.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.backend.GetCategory(ctx, id)
}
