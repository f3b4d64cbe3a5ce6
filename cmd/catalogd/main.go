// Package main is the entry point for the catalog server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogd/internal/assets"
	"catalogd/internal/cache"
	"catalogd/internal/catalog"
	"catalogd/internal/config"
	"catalogd/internal/database"
	"catalogd/internal/handlers"
	"catalogd/internal/router"
	"catalogd/internal/store"
)

func main() {
	// Structured logger for the whole process.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"images_root", cfg.ImagesRoot,
	)

	// Connect to PostgreSQL (one bounded pool shared by all stores).
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the product-listing cache. Optional: the
	// server works without it, every listing just hits the database.
	var catalogCache *cache.CatalogCache
	if cfg.CacheEnabled() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		catalogCache = cache.NewCatalogCache(valkeyClient, cache.DefaultCatalogTTL)
	} else {
		slog.Warn("valkey not configured, product listing cache disabled")
	}

	// Initialize the asset store and data stores.
	assetStore := assets.NewStore(cfg.ImagesRoot)
	categoryStore := store.NewCategoryStore(db)
	productStore := store.NewProductStore(db)
	imageStore := store.NewImageStore(db)

	// The aggregation engine assembles nested product views.
	aggregator := catalog.NewAggregator(productStore, imageStore, assetStore)

	// Create handler groups with their dependencies.
	categoryHandlers := handlers.NewCategory(categoryStore, assetStore, catalogCache)
	productHandlers := handlers.NewProduct(productStore, categoryStore, aggregator, assetStore, catalogCache)
	imageHandlers := handlers.NewImage(imageStore, productStore, assetStore, catalogCache, cfg.MaxUploadBytes)

	// Set up the Chi router with all middleware and routes.
	r := router.New(categoryHandlers, productHandlers, imageHandlers)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate derivative generation for large uploads.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
