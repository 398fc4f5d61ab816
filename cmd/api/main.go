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

	"mini-storefront/internal/catalog"
	"mini-storefront/internal/config"
	"mini-storefront/internal/database"
	"mini-storefront/internal/handler"
	"mini-storefront/internal/metrics"
	"mini-storefront/internal/persistence"
	"mini-storefront/internal/repository"
	"mini-storefront/internal/router"
	"mini-storefront/internal/service"
	"mini-storefront/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting mini-storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool when configured
	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		pool, err = database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := repository.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	} else {
		logger.Info().Msg("database disabled, orders are kept in memory")
	}

	// Metrics
	var m *metrics.Metrics
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// Load the product catalogue
	loader, err := newCatalogLoader(ctx, cfg, pool, logger)
	if err != nil {
		return err
	}
	cat, err := loader.Load(ctx, cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}
	logger.Info().
		Int("products", len(cat.Products)).
		Int("categories", len(cat.Categories)).
		Msg("catalogue loaded")

	// Session snapshot storage
	storage, err := newStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close storage")
		}
	}()

	// Session store
	sessionStore := store.New(ctx, &store.Config{
		StorageKey:    cfg.Storage.Key,
		LoginDelay:    cfg.Session.LoginDelay,
		AvatarBaseURL: cfg.Session.AvatarBaseURL,
		ThemeSink: func(theme store.Theme) {
			logger.Info().Str("theme", string(theme)).Msg("theme applied")
		},
		Metrics: m,
	}, storage, logger)

	// Initialize services
	var orders service.OrderBook
	if pool != nil {
		orders = service.NewRepositoryOrderBook(repository.NewOrderRepository(pool, logger), logger)
	} else {
		orders = service.NewMemoryOrderBook()
	}

	productService := service.NewProductService(cat, m, logger)
	checkoutService := service.NewCheckoutService(sessionStore, orders, &service.CheckoutConfig{
		ProcessingDelay: cfg.Checkout.ProcessingDelay,
		DeliveryFee:     decimal.NewFromFloat(cfg.Checkout.DeliveryFee),
	}, m, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Products: handler.NewProductHandler(productService, logger),
		Cart:     handler.NewCartHandler(sessionStore, productService, logger),
		Wishlist: handler.NewWishlistHandler(sessionStore, productService, logger),
		Session:  handler.NewSessionHandler(sessionStore, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, logger),
		Metrics:  metricsHandler,
	}, cfg.Auth.APIKey, logger)

	// Create HTTP server. WriteTimeout leaves room for the simulated login and checkout delays.
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		sessionStore.CancelLogin()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newCatalogLoader picks the catalogue source. The file source tries S3 first
// when enabled and falls back to the local file system.
func newCatalogLoader(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (catalog.Loader, error) {
	if cfg.Catalog.Source == config.CatalogSourceDatabase {
		if pool == nil {
			return nil, fmt.Errorf("catalogue source %q requires DB_ENABLED=true", cfg.Catalog.Source)
		}
		return catalog.NewDatabaseLoader(repository.NewProductRepository(pool, logger), logger), nil
	}

	fileLoader := catalog.NewFileLoader(logger)
	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for the catalogue (S3 disabled)")
		return fileLoader, nil
	}

	s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader, nil
	}

	return catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger), nil
}

func newStorage(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (persistence.Storage, error) {
	logger.Info().Str("backend", cfg.Backend).Msg("initialising snapshot storage")

	switch cfg.Backend {
	case config.StorageMemory:
		return persistence.NewMemoryStorage(), nil
	case config.StorageFile:
		return persistence.NewFileStorage(cfg.Path, logger)
	case config.StorageSQLite:
		return persistence.NewSQLiteStorage(ctx, cfg.Path, logger)
	case config.StorageRedis:
		return persistence.NewRedisStorage(ctx, cfg.RedisURL, cfg.TTL, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
