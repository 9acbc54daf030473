package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/metrics"
	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/pkg/errors"
)

// CartOutcome is what the page should do after a load
type CartOutcome string

const (
	CartLoaded        CartOutcome = "loaded"
	CartRedirectLogin CartOutcome = "redirect_login"
)

// CartResult is the outcome of one cart load. Items is never nil.
type CartResult struct {
	Outcome  CartOutcome
	Items    []domain.CartItem
	Redirect string
}

type CartLoader struct {
	backend Backend
	metrics *metrics.CheckoutMetrics
	logger  *zap.Logger
}

// NewCartLoader creates a new cart loader
func NewCartLoader(backend Backend, m *metrics.CheckoutMetrics, logger *zap.Logger) *CartLoader {
	return &CartLoader{
		backend: backend,
		metrics: m,
		logger:  logger,
	}
}

// Load fetches the cart for the session. Anonymous and expired sessions are sent
// to login without a request. Failures other than 401 leave the cart empty; there is no retry.
func (l *CartLoader) Load(ctx context.Context, sess session.Session) CartResult {
	token, ok := sess.Token()
	if !ok {
		l.count("no_session")
		return CartResult{Outcome: CartRedirectLogin, Items: []domain.CartItem{}, Redirect: LoginPath}
	}

	items, err := l.backend.GetCart(ctx, token)
	if err == nil {
		err = checkItems(items)
	}
	if err != nil {
		var authErr *errors.ErrAuthRequired
		if stderrors.As(err, &authErr) {
			l.count("unauthorized")
			return CartResult{Outcome: CartRedirectLogin, Items: []domain.CartItem{}, Redirect: LoginPath}
		}

		l.logger.Error("Error fetching cart items", zap.Error(err))
		l.count("error")
		return CartResult{Outcome: CartLoaded, Items: []domain.CartItem{}}
	}

	l.count("loaded")
	return CartResult{Outcome: CartLoaded, Items: items}
}

func (l *CartLoader) count(outcome string) {
	if l.metrics != nil {
		l.metrics.CartLoads.WithLabelValues(outcome).Inc()
	}
}

// checkItems enforces quantity >= 1 and price >= 0 on what the backend sent
func checkItems(items []domain.CartItem) error {
	for _, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("cart item %d has quantity %d", item.ID, item.Quantity)
		}
		if item.Product.Price.IsNegative() {
			return fmt.Errorf("cart item %d has negative price %s", item.ID, item.Product.Price)
		}
	}
	return nil
}
