package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/pkg/errors"
)

// AdminProductsQuery is the admin product table filter
type AdminProductsQuery struct {
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	Search  string `form:"search"`
}

func (q AdminProductsQuery) toBackend() backend.ProductQuery {
	return backend.ProductQuery{Page: q.Page, PerPage: q.PerPage, Search: q.Search}
}

// HandleAdminDashboard handles GET /v1/admin/dashboard
func HandleAdminDashboard(admin *service.AdminService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q AdminProductsQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
			return
		}

		dash, err := admin.Dashboard(c.Request.Context(), currentSession(c), q.toBackend())
		if err != nil {
			respondAdminError(c, err, logger)
			return
		}

		c.JSON(http.StatusOK, dash)
	}
}

// HandleAdminProducts handles GET /v1/admin/products
func HandleAdminProducts(admin *service.AdminService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q AdminProductsQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
			return
		}

		page, err := admin.Products(c.Request.Context(), currentSession(c), q.toBackend())
		if err != nil {
			respondAdminError(c, err, logger)
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

func respondAdminError(c *gin.Context, err error, logger *zap.Logger) {
	var (
		authErr   *errors.ErrAuthRequired
		forbidden *errors.ErrForbidden
	)
	switch {
	case stderrors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    "authentication required",
			"redirect": service.AdminLoginPath,
		})
	case stderrors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "Admin access required",
			"redirect": service.AdminLoginPath,
		})
	default:
		logger.Error("Admin request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load admin data"})
	}
}
