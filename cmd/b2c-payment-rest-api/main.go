// cmd/b2c-payment-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/api/rest/actuator"
	"github.com/ajharry69/kcb-b2c-payment/internal/api/rest/docs"
	"github.com/ajharry69/kcb-b2c-payment/internal/api/rest/middleware"
	v1 "github.com/ajharry69/kcb-b2c-payment/internal/api/rest/v1"
	"github.com/ajharry69/kcb-b2c-payment/internal/app"
	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/connector"
	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/metrics"
	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/persistence"
	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/security"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/gin-contrib/cors"
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.release(log)

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	db         *gorm.DB
	metrics    *metrics.Registry
	verifier   *security.TokenVerifier
	dispatcher *app.Dispatcher
	reconciler *app.ReconciliationJob
	service    payments.PaymentService
	health     *actuator.HealthHandler
	closers    []io.Closer
}

// initializeDependencies sets up all application components. On failure everything
// opened or started so far is released.
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	deps := &appDependencies{metrics: metrics.NewRegistry()}
	if err := deps.build(cfg, log); err != nil {
		deps.release(log)
		return nil, err
	}
	log.Info("Application services initialized successfully")
	return deps, nil
}

func (deps *appDependencies) build(cfg *config.RestConfig, log logger.Logger) error {
	var err error

	// Initialize security
	deps.verifier, err = security.NewTokenVerifier(context.Background(), &cfg.Auth, log)
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}

	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}
	deps.db = db

	// Run migrations
	if cfg.Database.MigrateOnStart {
		migrator, err := persistence.NewMigrator(db, cfg.Database.Type, log)
		if err != nil {
			return fmt.Errorf("failed to create migrator: %w", err)
		}
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
		log.Info("Database migrations completed successfully")
	}

	// Initialize repositories
	paymentRepo, err := persistence.NewGormPaymentRepository(db, log)
	if err != nil {
		return fmt.Errorf("failed to create payment repository: %w", err)
	}

	healthComponents := map[string]actuator.HealthIndicator{"db": paymentRepo}

	// Initialize connectors
	cache, err := initializePaymentCache(cfg, deps, healthComponents, log)
	if err != nil {
		return err
	}

	publisher, err := initializeEventPublisher(cfg, deps, healthComponents, log)
	if err != nil {
		return err
	}

	mnoConnector, err := connector.NewMockMNOConnector(cfg.MNO, log)
	if err != nil {
		return fmt.Errorf("failed to create MNO connector: %w", err)
	}

	smsSender, err := connector.NewMockSmsConnector(log)
	if err != nil {
		return fmt.Errorf("failed to create SMS connector: %w", err)
	}

	// Initialize services
	notifier, err := app.NewSmsNotifier(smsSender, log)
	if err != nil {
		return fmt.Errorf("failed to create notifier: %w", err)
	}

	processor, err := app.NewPaymentProcessor(paymentRepo, mnoConnector, notifier, publisher, deps.metrics, log)
	if err != nil {
		return fmt.Errorf("failed to create payment processor: %w", err)
	}

	deps.dispatcher, err = app.NewDispatcher(cfg.Dispatcher, processor, deps.metrics, log)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	deps.service, err = app.NewPaymentService(paymentRepo, deps.dispatcher, cache, publisher, deps.metrics, log)
	if err != nil {
		return fmt.Errorf("failed to create payment service: %w", err)
	}

	if cfg.Reconciliation.Enabled {
		deps.reconciler, err = app.NewReconciliationJob(cfg.Reconciliation, paymentRepo, notifier, publisher, deps.metrics, log)
		if err != nil {
			return fmt.Errorf("failed to create reconciliation job: %w", err)
		}
	}

	// Start background workers once everything else is in place
	deps.dispatcher.Start()
	if deps.reconciler != nil {
		if err := deps.reconciler.Start(); err != nil {
			return fmt.Errorf("failed to start reconciliation job: %w", err)
		}
	}

	deps.health = actuator.NewHealthHandler(healthComponents, 0, log)
	return nil
}

// initializePaymentCache selects redis when enabled and a no-op cache otherwise
func initializePaymentCache(cfg *config.RestConfig, deps *appDependencies, health map[string]actuator.HealthIndicator, log logger.Logger) (payments.PaymentCache, error) {
	if !cfg.Cache.Enabled {
		log.Info("Payment cache disabled")
		return connector.NoopPaymentCache{}, nil
	}

	cache, err := connector.NewRedisPaymentCache(&cfg.Cache, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment cache: %w", err)
	}
	deps.closers = append(deps.closers, cache)
	health["cache"] = cache
	return cache, nil
}

// initializeEventPublisher selects the AMQP publisher when enabled and a logging one otherwise
func initializeEventPublisher(cfg *config.RestConfig, deps *appDependencies, health map[string]actuator.HealthIndicator, log logger.Logger) (payments.EventPublisher, error) {
	if !cfg.AMQP.Enabled {
		log.Info("AMQP publishing disabled")
		return connector.NewLoggingEventPublisher(log), nil
	}

	publisher, err := connector.NewAMQPEventPublisher(&cfg.AMQP, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	deps.closers = append(deps.closers, publisher)
	health["amqp"] = publisher
	return publisher, nil
}

// release stops the workers, then closes connections in reverse order of creation
func (deps *appDependencies) release(log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	deps.stopWorkers(ctx, log)

	for i := len(deps.closers) - 1; i >= 0; i-- {
		if err := deps.closers[i].Close(); err != nil {
			log.Warn("Failed to close connection: ", err)
		}
	}
	deps.closers = nil

	if deps.db != nil {
		if err := persistence.CloseDB(deps.db); err != nil {
			log.Warn("Failed to close database: ", err)
		}
		deps.db = nil
	}
}

// stopWorkers stops background processing, letting in-flight payments finish within ctx
func (deps *appDependencies) stopWorkers(ctx context.Context, log logger.Logger) {
	if deps.reconciler != nil {
		if err := deps.reconciler.Stop(ctx); err != nil {
			log.Warn("Failed to stop reconciliation job: ", err)
		}
	}
	if deps.dispatcher != nil {
		if err := deps.dispatcher.Stop(ctx); err != nil {
			log.Warn("Failed to stop dispatcher: ", err)
		}
	}
}

// setupRouter wires middleware, public endpoints and the secured API
func setupRouter(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(), deps.metrics.Middleware())

	// Configure CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Location"},
		MaxAge:        12 * time.Hour,
	}))

	r.NoRoute(middleware.NoRoute)

	// Public endpoints
	actuator.SetupRoutes(r, deps.health, deps.metrics.Handler())
	if err := docs.SetupRoutes(r); err != nil {
		return nil, fmt.Errorf("failed to setup API docs: %w", err)
	}

	// Setup API routes
	v1.SetupRoutes(r, deps.verifier, deps.service, log)
	return r, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	r, err := setupRouter(cfg, deps, log)
	if err != nil {
		return err
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	return shutdown(srv, deps, log)
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdown stops accepting requests, then drains the workers with a fresh deadline
// even when the server did not stop cleanly.
func shutdown(srv shutdowner, deps *appDependencies, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down server...")
	serverErr := srv.Shutdown(ctx)

	workerCtx, cancelWorkers := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelWorkers()
	deps.stopWorkers(workerCtx, log)

	if serverErr != nil {
		return fmt.Errorf("server forced to shutdown: %w", serverErr)
	}
	log.Info("Server stopped gracefully")
	return nil
}
