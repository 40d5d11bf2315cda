package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/dkurganov/lavka/internal"
	"github.com/dkurganov/lavka/internal/cookie"
	"github.com/dkurganov/lavka/internal/events"
	"github.com/dkurganov/lavka/internal/handler/admin"
	"github.com/dkurganov/lavka/internal/handler/storefront"
	"github.com/dkurganov/lavka/internal/identity"
	"github.com/dkurganov/lavka/internal/localstore"
	"github.com/dkurganov/lavka/internal/middleware"
	"github.com/dkurganov/lavka/internal/postgres"
	"github.com/dkurganov/lavka/internal/router"
	"github.com/dkurganov/lavka/internal/routes"
	"github.com/dkurganov/lavka/internal/service"
	"github.com/dkurganov/lavka/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	productStore := postgres.NewProductStore(pool)
	cartStore := postgres.NewCartStore(pool)
	wishlistStore := postgres.NewWishlistStore(pool)
	orderStore := postgres.NewOrderStore(pool)

	// Anonymous visitors keep their cart and wishlist in this process-local
	// store, keyed by the token cookie.
	local := localstore.NewMemory()

	// Initialize event publisher
	var publisher events.Publisher = events.Nop{}
	if cfg.NATSUrl != "" {
		logger.Info("Connecting to NATS...", "url", cfg.NATSUrl)
		natsPublisher, err := events.NewNATSPublisher(cfg.NATSUrl)
		if err != nil {
			return fmt.Errorf("NATS connection failed: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("NATS connection established")
	}

	// Initialize business metrics
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Metrics.Enabled {
		businessMetrics = telemetry.NewBusinessMetrics(cfg.Metrics.Namespace)
	}

	// Initialize services
	catalogService := service.NewCatalogService(productStore)
	cartService := service.NewCartService(local, cartStore, productStore, businessMetrics)
	wishlistService := service.NewWishlistService(local, wishlistStore, productStore, businessMetrics)
	mergeService := service.NewMergeService(local, cartStore, wishlistStore, logger, businessMetrics)
	checkoutService := service.NewCheckoutService(local, cartStore, productStore, orderStore, publisher, logger, businessMetrics)
	orderService := service.NewOrderService(orderStore)

	// Identity resolution for both cookie sessions and bearer tokens
	cookies := cookie.NewConfig(cfg.Env == "prod")
	resolver := identity.NewResolver(cfg.JWTSecret, cookies)

	// Build route dependencies
	storefrontDeps := routes.StorefrontDeps{
		ProductHandler:  storefront.NewProductHandler(catalogService),
		CartHandler:     storefront.NewCartHandler(cartService, mergeService, resolver),
		WishlistHandler: storefront.NewWishlistHandler(wishlistService),
		CheckoutHandler: storefront.NewCheckoutHandler(checkoutService),
		OrderHandler:    storefront.NewOrderHandler(orderService),
	}

	adminDeps := routes.AdminDeps{
		ProductHandler:  admin.NewProductHandler(catalogService),
		CategoryHandler: admin.NewCategoryHandler(catalogService),
		OrderHandler:    admin.NewOrderHandler(orderService),
	}

	// Initialize middleware
	metrics := middleware.NewMetrics(cfg.Metrics.Namespace)

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0 // no HTTPS in development
	}

	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	checkoutRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	defer checkoutRateLimiter.Stop()
	storefrontDeps.CheckoutLimit = checkoutRateLimiter.Middleware

	r := router.New(
		middleware.Recover,
		middleware.RequestID,
		metrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		defaultRateLimiter.Middleware,
		middleware.WithIdentity(resolver),
		middleware.WithRequestLogger(logger),
	)

	// Metrics endpoint (protect via firewall in production)
	if cfg.Metrics.Enabled {
		r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
			metrics.Handler().ServeHTTP(w, req)
		})
	}

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Register route groups
	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterAdminRoutes(r, adminDeps)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr, "env", cfg.Env)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
