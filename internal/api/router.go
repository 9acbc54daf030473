package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/handlers"
	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/metrics"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/internal/session"
)

// Services are the collaborators the handlers need
type Services struct {
	Sessions   *session.Manager
	CartLoader *service.CartLoader
	Composers  *service.ComposerRegistry
	Catalog    *service.CatalogService
	Admin      *service.AdminService
	Metrics    *metrics.ServerMetrics
	// Gatherer backs /metrics, nil means the default registry
	Gatherer prometheus.Gatherer
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svc *Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	if svc.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(svc.Metrics))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(svc.Gatherer)))

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(middleware.SessionMiddleware(svc.Sessions, logger))
	{
		v1.PUT("/session", handlers.HandlePutSession(svc.Sessions, cfg.Session.CookieSecure, logger))
		v1.DELETE("/session", handlers.HandleDeleteSession(svc.Sessions, logger))

		// Checkout
		v1.GET("/checkout", handlers.HandleGetCheckout(svc.CartLoader, svc.Sessions, logger))
		v1.POST("/checkout/validate", handlers.HandleValidateCheckout(logger))
		v1.POST("/checkout/submit", handlers.HandleSubmitCheckout(svc.Composers, svc.Sessions, logger))

		// Browsing
		v1.GET("/products", handlers.HandleListProducts(svc.Catalog, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(svc.Catalog, logger))
		v1.GET("/categories", handlers.HandleListCategories(svc.Catalog, logger))
		v1.GET("/categories/:id", handlers.HandleGetCategory(svc.Catalog, logger))
		v1.POST("/cart", handlers.HandleAddToCart(svc.Catalog, logger))

		// Admin dashboard shell
		adminRoutes := v1.Group("/admin")
		{
			adminRoutes.GET("/dashboard", handlers.HandleAdminDashboard(svc.Admin, logger))
			adminRoutes.GET("/products", handlers.HandleAdminProducts(svc.Admin, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
