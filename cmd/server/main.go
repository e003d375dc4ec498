package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/greenleaf-pharma/portal-api/internal/cart"
	"github.com/greenleaf-pharma/portal-api/internal/checkout"
	"github.com/greenleaf-pharma/portal-api/internal/config"
	"github.com/greenleaf-pharma/portal-api/internal/handlers"
	"github.com/greenleaf-pharma/portal-api/internal/kvstore"
	"github.com/greenleaf-pharma/portal-api/internal/middleware"
	"github.com/greenleaf-pharma/portal-api/internal/publisher"
	"github.com/greenleaf-pharma/portal-api/internal/registry"
	"github.com/greenleaf-pharma/portal-api/internal/repository"
	"github.com/greenleaf-pharma/portal-api/internal/service"
	"github.com/greenleaf-pharma/portal-api/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting pharmacy portal api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	ctx := context.Background()

	// Load the pharmacist license registry
	licenseRegistry := registry.New()
	if len(cfg.Registry.LicenseFiles) > 0 {
		log.Info("loading pharmacist license exports...")
		if err := licenseRegistry.LoadFromFiles(ctx, cfg.Registry.LicenseFiles); err != nil {
			log.Error("failed to load license exports", "error", err)
			os.Exit(1)
		}
		stats := licenseRegistry.Stats()
		log.Info("license exports loaded",
			"total_files", stats["total_files"],
			"total_licenses", stats["total_licenses"],
		)
	} else {
		log.Warn("no license files configured, all checkouts will be rejected")
	}

	// Key-value store for carts and rate limiting
	var kv kvstore.Store
	cartBackend := "memory"
	if cfg.Redis.Enabled {
		cartBackend = "redis"
		redisStore, err := kvstore.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		kv = redisStore
		log.Info("connected to redis", "addr", cfg.Redis.Addr)
	} else {
		kv = kvstore.NewMemoryStore()
		log.Info("using in-memory key-value store")
	}

	// Order persistence
	var orderRepo repository.OrderRepository
	orderBackend := "memory"
	if cfg.Database.Enabled {
		orderBackend = "postgres"
		cred := &repository.Credentials{
			Host:              cfg.Database.Host,
			Port:              cfg.Database.Port,
			User:              cfg.Database.User,
			Password:          cfg.Database.Password,
			DBName:            cfg.Database.DBName,
			MigrationsDirPath: cfg.Database.MigrationsDirPath,
		}
		pgRepo, err := repository.NewPostgresOrderRepository(cred)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pgRepo.Close()
		if err := pgRepo.RunMigrations(cred); err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		orderRepo = pgRepo
		log.Info("connected to postgres", "host", cfg.Database.Host, "db", cfg.Database.DBName)
	} else {
		orderRepo = repository.NewInMemoryOrderRepository()
		log.Warn("using in-memory order store, orders will not survive restarts")
	}

	// Fulfillment dispatch
	var dispatch publisher.OrderPublisher
	if cfg.Broker.URL != "" {
		amqpPublisher, err := publisher.NewAMQPPublisher(cfg.Broker.URL, cfg.Broker.QueueName)
		if err != nil {
			log.Error("failed to connect to broker", "error", err)
			os.Exit(1)
		}
		defer amqpPublisher.Close()
		dispatch = amqpPublisher
		log.Info("connected to fulfillment broker", "queue", cfg.Broker.QueueName)
	} else {
		dispatch = publisher.NewNoopPublisher(log)
	}

	// Initialize repositories and stores
	productRepo := repository.NewInMemoryProductRepository()
	carts := cart.NewStore(kv)

	// Initialize services
	productService := service.NewProductService(productRepo)
	checkoutService := service.NewCheckoutService(
		productRepo,
		orderRepo,
		licenseRegistry,
		dispatch,
		checkout.NewOrderNumberGenerator(nil),
		log,
	)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(licenseRegistry, orderBackend, cartBackend)
	productHandler := handlers.NewProductHandler(productService, log)
	orderHandler := handlers.NewOrderHandler(checkoutService, carts, log)
	cartHandler := handlers.NewCartHandler(carts, log)
	licenseHandler := handlers.NewLicenseHandler(licenseRegistry)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.RateLimit(kv, cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second, log))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key", "X-User-Id", "X-Pharmacist-License", "X-Role"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.Auth))

		// Product endpoints
		r.Get("/product", productHandler.ListProducts)
		r.Get("/product/{productId}", productHandler.GetProduct)

		// Cart endpoints
		r.Get("/cart", cartHandler.GetCart)
		r.Post("/cart", cartHandler.AddItem)
		r.Delete("/cart", cartHandler.ClearCart)
		r.Delete("/cart/{productId}", cartHandler.RemoveItem)

		// Order endpoints
		r.Post("/order", orderHandler.CreateOrder)
		r.Get("/order", orderHandler.ListOrders)
		r.Get("/order/{orderId}", orderHandler.GetOrder)

		// License verification endpoints
		r.Get("/license/stats", licenseHandler.GetStats)
		r.Get("/license/{licenseNumber}", licenseHandler.CheckLicense)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
