package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// ProductQuery filters GET /products. Zero values are left out of the query string.
type ProductQuery struct {
	CategoryID int64
	Limit      int
	Page       int
	PerPage    int
	Search     string
}

func (q ProductQuery) encode() string {
	v := url.Values{}
	if q.CategoryID > 0 {
		v.Set("category_id", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// GetCart fetches GET /cart for the session token
func (c *Client) GetCart(ctx context.Context, token string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := c.getJSON(ctx, "/cart", token, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

// GetProduct fetches GET /products/{id}
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), "", &product)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			return nil, &errors.ErrNotFound{Resource: "product", ID: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	return &product, nil
}

// ListProducts fetches GET /products. The backend may answer with a bare array
// or with the paginated envelope {"products": [...], "total", "pages", "current_page"}.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*domain.ProductPage, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/products" + q.encode()})
	if err != nil {
		return nil, err
	}

	page := &domain.ProductPage{}
	if isJSONArray(body) {
		if err := json.Unmarshal(body, &page.Products); err != nil {
			return nil, fmt.Errorf("failed to unmarshal products: %w", err)
		}
		page.Total = len(page.Products)
		page.Pages = 1
		page.CurrentPage = 1
	} else if err := json.Unmarshal(body, page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product page: %w", err)
	}

	if page.Products == nil {
		page.Products = []domain.Product{}
	}
	return page, nil
}

// AddToCart posts a cart line to POST /cart
func (c *Client) AddToCart(ctx context.Context, token string, line domain.AddToCartRequest) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/cart",
		token:  token,
		body:   line,
	})
	return err
}

// PlaceOrder posts the order payload to POST /orders. Any 2xx is an acceptance.
func (c *Client) PlaceOrder(ctx context.Context, token, idempotencyKey string, payload domain.OrderPayload) error {
	_, err := c.do(ctx, request{
		method:         http.MethodPost,
		path:           "/orders",
		token:          token,
		idempotencyKey: idempotencyKey,
		body:           payload,
	})
	return err
}

// ListCategories fetches GET /categories, accepting a bare array or {"categories": [...]}
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/categories"})
	if err != nil {
		return nil, err
	}

	var categories []domain.Category
	if isJSONArray(body) {
		if err := json.Unmarshal(body, &categories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
		}
	} else {
		var envelope struct {
			Categories []domain.Category `json:"categories"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
		}
		categories = envelope.Categories
	}

	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// GetCategory fetches GET /categories/{id}
func (c *Client) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var category domain.Category
	err := c.getJSON(ctx, fmt.Sprintf("/categories/%d", id), "", &category)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			return nil, &errors.ErrNotFound{Resource: "category", ID: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	return &category, nil
}

func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
