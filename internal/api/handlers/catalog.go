package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/pkg/errors"
)

// ProductDetailResponse is the product page model
type ProductDetailResponse struct {
	Product domain.Product   `json:"product"`
	Related []domain.Product `json:"related"`
}

// AddToCartRequest is the add-to-cart body
type AddToCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
	Quantity  int   `json:"quantity"`
}

// HandleGetProduct handles GET /v1/products/:id
func HandleGetProduct(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		product, err := catalog.GetProduct(c.Request.Context(), productID)
		if err != nil {
			var nf *errors.ErrNotFound
			if stderrors.As(err, &nf) {
				c.JSON(http.StatusNotFound, gin.H{
					"error":    "product not found",
					"redirect": service.ProductsPath,
				})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{
				"error":    "failed to load product",
				"redirect": service.ProductsPath,
			})
			return
		}

		c.JSON(http.StatusOK, ProductDetailResponse{
			Product: *product,
			Related: catalog.RelatedProducts(c.Request.Context(), product),
		})
	}
}

// HandleListProducts handles GET /v1/products
func HandleListProducts(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := backend.ProductQuery{
			Search: c.Query("search"),
		}
		var err error
		if q.CategoryID, err = queryInt64(c, "category_id"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		for name, dst := range map[string]*int{"page": &q.Page, "per_page": &q.PerPage, "limit": &q.Limit} {
			v, err := queryInt64(c, name)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
				return
			}
			*dst = int(v)
		}

		page, err := catalog.ListProducts(c.Request.Context(), q)
		if err != nil {
			logger.Error("Failed to list products", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load products"})
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

// HandleAddToCart handles POST /v1/cart
func HandleAddToCart(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if !sess.IsAuthenticated() {
			respondAuthRequired(c)
			return
		}

		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		err := catalog.AddToCart(c.Request.Context(), sess, req.ProductID, req.Quantity)
		if err != nil {
			var authErr *errors.ErrAuthRequired
			if stderrors.As(err, &authErr) {
				respondAuthRequired(c)
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "Error adding product to cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product added to cart!"})
	}
}

// HandleListCategories handles GET /v1/categories
func HandleListCategories(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.ListCategories(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list categories", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load categories"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

// HandleGetCategory handles GET /v1/categories/:id
func HandleGetCategory(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
			return
		}

		category, err := catalog.GetCategory(c.Request.Context(), categoryID)
		if err != nil {
			var nf *errors.ErrNotFound
			if stderrors.As(err, &nf) {
				c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
				return
			}
			logger.Error("Failed to get category", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load category"})
			return
		}

		c.JSON(http.StatusOK, category)
	}
}

func queryInt64(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
