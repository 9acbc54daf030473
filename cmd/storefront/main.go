package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api"
	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/logging"
	"github.com/jafarshop/storefront/internal/metrics"
	"github.com/jafarshop/storefront/internal/repository/postgres"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Session storage
	var store session.Store
	switch cfg.Session.Store {
	case "memory":
		logger.Warn("Using in-memory session store, sessions are lost on restart")
		store = session.NewMemoryStore()
	default:
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		store = postgres.NewRepositories(db, cfg.Session.KeySalt, logger).Session
	}

	client := backend.NewClient(cfg.Backend, logger.Named("backend"))
	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	router := api.NewRouter(cfg, &api.Services{
		Sessions:   session.NewManager(store, logger.Named("session")),
		CartLoader: service.NewCartLoader(client, checkoutMetrics, logger.Named("cart")),
		Composers:  service.NewComposerRegistry(client, checkoutMetrics, logger.Named("checkout")),
		Catalog:    service.NewCatalogService(client, logger.Named("catalog")),
		Admin:      service.NewAdminService(client, logger.Named("admin")),
		Metrics:    metrics.NewServerMetrics(prometheus.DefaultRegisterer),
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Storefront BFF listening",
			zap.String("addr", srv.Addr),
			zap.String("backend", cfg.Backend.BaseURL),
			zap.String("session_store", cfg.Session.Store),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
