package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/pkg/errors"
)

const AdminLoginPath = "/admin/login"

// AdminBackend is the admin part of the storefront REST API
type AdminBackend interface {
	AdminListProducts(ctx context.Context, token string, q backend.ProductQuery) (*domain.ProductPage, error)
	AdminListCategories(ctx context.Context, token string) ([]domain.Category, error)
	AdminListUsers(ctx context.Context, token string) ([]domain.User, error)
}

// Dashboard is the admin landing page model
type Dashboard struct {
	Products   *domain.ProductPage `json:"products"`
	Categories []domain.Category   `json:"categories"`
	Users      []domain.User       `json:"users"`
}

type AdminService struct {
	backend AdminBackend
	logger  *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(backend AdminBackend, logger *zap.Logger) *AdminService {
	return &AdminService{
		backend: backend,
		logger:  logger,
	}
}

// Dashboard loads products, categories and users in parallel. The first failure wins.
func (s *AdminService) Dashboard(ctx context.Context, sess session.Session, q backend.ProductQuery) (*Dashboard, error) {
	token, ok := sess.Token()
	if !ok {
		return nil, &errors.ErrAuthRequired{}
	}

	dash := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.backend.AdminListProducts(gctx, token, q)
		dash.Products = page
		return err
	})
	g.Go(func() error {
		categories, err := s.backend.AdminListCategories(gctx, token)
		dash.Categories = categories
		return err
	})
	g.Go(func() error {
		users, err := s.backend.AdminListUsers(gctx, token)
		dash.Users = users
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("Failed to load admin dashboard", zap.Error(err))
		return nil, err
	}
	return dash, nil
}

// Products returns one page of the admin product table
func (s *AdminService) Products(ctx context.Context, sess session.Session, q backend.ProductQuery) (*domain.ProductPage, error) {
	token, ok := sess.Token()
	if !ok {
		return nil, &errors.ErrAuthRequired{}
	}
	return s.backend.AdminListProducts(ctx, token, q)
}
