package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"flowsync/internal/api"
	"flowsync/internal/builder"
	"flowsync/internal/catalog"
	"flowsync/internal/config"
	"flowsync/internal/logging"
	"flowsync/internal/n8n"
	"flowsync/internal/repository"
	"flowsync/internal/services"
)

func main() {
	ctx := context.Background()

	// Initialize logging
	logger := logging.NewLogger()

	// Parse command line flags
	envFile := flag.String("env", "", "Path to .env file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		log.Fatalf("Configuration loading failed: %v", err)
	}
	if cfg.N8N.APIKey == "" {
		logger.Warn("n8n API key is not configured; remote calls will be rejected")
	}

	logger.Info("Starting flowsync service", "n8n_base_url", cfg.N8N.BaseURL, "auto_sync", cfg.Sync.Auto)

	// Initialize database connection
	dbPool, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer dbPool.Close()

	logger.Info("Database connected")

	// Initialize repository layer
	store := repository.NewPostgresIntegrationStore(dbPool)

	// Initialize service layer
	engine := n8n.NewClient(cfg.N8N.BaseURL, cfg.N8N.APIKey, cfg.N8NTimeout())
	graphBuilder := builder.New(catalog.Default())
	syncService := services.NewSyncService(store, engine, graphBuilder, logger)
	reconciler := services.NewReconciler(store, engine, syncService, logger)

	logger.Info("Service layer initialized")

	// Background reconciliation loop
	reconcileCtx, stopReconcile := context.WithCancel(ctx)
	defer stopReconcile()
	if cfg.Sync.Auto {
		go runReconcileLoop(reconcileCtx, reconciler, cfg.SyncInterval(), logger)
	} else {
		logger.Info("Auto-sync disabled, background reconciliation will not run")
	}

	// Create Echo server
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("flowsync"))

	// Mount REST API handlers
	apiGroup := e.Group("/api/v1")
	apiServer := api.NewServer(store, syncService, reconciler, engine)
	apiServer.Register(apiGroup)

	logger.Info("REST API handlers mounted")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", cfg.Server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig)
		stopReconcile()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}

		logger.Info("Server stopped gracefully")
	}
}

// runReconcileLoop runs the reconciler on a fixed cadence until the
// context is cancelled.
func runReconcileLoop(ctx context.Context, reconciler *services.Reconciler, interval time.Duration, logger *logging.Logger) {
	logger.Info("Background reconciliation started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Background reconciliation stopped")
			return
		case <-ticker.C:
			if _, err := reconciler.Reconcile(ctx); err != nil {
				logger.Error("Reconciliation pass failed", "error", err)
			}
		}
	}
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	logger.Debug("Initializing database connection")

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
