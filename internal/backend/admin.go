package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jafarshop/storefront/internal/domain"
)

// AdminListProducts fetches GET /admin/products with an admin token
func (c *Client) AdminListProducts(ctx context.Context, token string, q ProductQuery) (*domain.ProductPage, error) {
	page := &domain.ProductPage{}
	if err := c.getJSON(ctx, "/admin/products"+q.encode(), token, page); err != nil {
		return nil, err
	}
	if page.Products == nil {
		page.Products = []domain.Product{}
	}
	return page, nil
}

// AdminListCategories fetches GET /admin/categories with an admin token
func (c *Client) AdminListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	var envelope struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := c.getJSON(ctx, "/admin/categories", token, &envelope); err != nil {
		return nil, err
	}
	if envelope.Categories == nil {
		envelope.Categories = []domain.Category{}
	}
	return envelope.Categories, nil
}

// AdminListUsers fetches GET /admin/users with an admin token
func (c *Client) AdminListUsers(ctx context.Context, token string) ([]domain.User, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/admin/users", token: token})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Users []domain.User `json:"users"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	if envelope.Users == nil {
		envelope.Users = []domain.User{}
	}
	return envelope.Users, nil
}
