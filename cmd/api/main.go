// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/shelftrack/shelftrack-be/internal/adapters/db"
	redis_a "github.com/shelftrack/shelftrack-be/internal/adapters/redis_adapter"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
	"github.com/shelftrack/shelftrack-be/internal/core/services"
	"github.com/shelftrack/shelftrack-be/internal/handlers"
	"github.com/shelftrack/shelftrack-be/internal/handlers/middleware"
	"github.com/shelftrack/shelftrack-be/internal/pkg/config"
	"github.com/shelftrack/shelftrack-be/internal/pkg/logger"
	"github.com/shelftrack/shelftrack-be/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting shelftrack stock ledger",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	if cfg.IsProduction() {
		if err := applyProductionSecrets(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to apply secrets", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Migrations run automatically outside production; production
	// deploys run them as an explicit release step.
	if !cfg.IsProduction() {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Warn("failed to run migrations", slog.String("error", err.Error()))
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	redisCache     ports.CacheRepository
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector

	storeService  *services.StoreService
	itemService   *services.ItemService
	ledgerService *services.LedgerService

	storeHandler  *handlers.StoreHandler
	itemHandler   *handlers.ItemHandler
	ledgerHandler *handlers.LedgerHandler
	exportHandler *handlers.ExportHandler
	healthHandler *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	slogger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            cfg.GetRedisAddress(),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	enqueuer := workers.NewEnqueuer(deps.asynqClient, slogger)

	storeRepo := db.NewStoreRepository(database, slogger)
	itemRepo := db.NewItemRepository(database, slogger)
	ledgerRepo := db.NewLedgerRepository(database, slogger)

	deps.storeService = services.NewStoreService(storeRepo, slogger)
	deps.itemService = services.NewItemService(itemRepo, storeRepo, deps.redisCache, slogger)
	deps.ledgerService = services.NewLedgerService(ledgerRepo, itemRepo, storeRepo, deps.redisCache, enqueuer, slogger)

	deps.storeHandler = handlers.NewStoreHandler(deps.storeService, slogger)
	deps.itemHandler = handlers.NewItemHandler(deps.itemService, slogger)
	deps.ledgerHandler = handlers.NewLedgerHandler(deps.ledgerService, enqueuer, slogger)
	deps.exportHandler = handlers.NewExportHandler(deps.itemService, deps.redisCache, slogger)
	deps.healthHandler = handlers.NewHealthHandler(database, redisClient, deps.asynqInspector, cfg, slogger)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, deps)

	// Middleware applies in reverse order, innermost first.
	var handler http.Handler = mux

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}
	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}
	handler = middleware.Recovery(slogger)(handler)
	handler = middleware.Logger(slogger)(handler)
	handler = middleware.RequestID(handler)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies) {
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)

	// Store registry
	mux.HandleFunc("GET /api/stores", deps.storeHandler.List)
	mux.HandleFunc("POST /api/stores", deps.storeHandler.Create)
	mux.HandleFunc("GET /api/stores/{id}", deps.storeHandler.Get)
	mux.HandleFunc("PUT /api/stores/{id}", deps.storeHandler.Update)
	mux.HandleFunc("DELETE /api/stores/{id}", deps.storeHandler.Delete)

	// Item catalog
	mux.HandleFunc("GET /api/stores/{storeId}/items", deps.itemHandler.ListByStore)
	mux.HandleFunc("POST /api/stores/{storeId}/items", deps.itemHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", deps.itemHandler.Get)
	mux.HandleFunc("PUT /api/items/{id}", deps.itemHandler.Update)
	mux.HandleFunc("DELETE /api/items/{id}", deps.itemHandler.Delete)
	mux.HandleFunc("GET /api/stores/{storeId}/items/barcode/{barcode}", deps.itemHandler.FindByBarcode)
	mux.HandleFunc("GET /api/stores/{storeId}/reorder-list", deps.itemHandler.ReorderList)

	// Stock ledger
	mux.HandleFunc("POST /api/items/{id}/transactions", deps.ledgerHandler.Adjust)
	mux.HandleFunc("GET /api/items/{id}/transactions", deps.ledgerHandler.HistoryForItem)
	mux.HandleFunc("GET /api/stores/{storeId}/transactions", deps.ledgerHandler.HistoryForStore)
	mux.HandleFunc("POST /api/stores/{storeId}/archive", deps.ledgerHandler.Archive)

	// Exports
	mux.HandleFunc("GET /api/stores/{storeId}/export/excel", deps.exportHandler.ExportExcel)
	mux.HandleFunc("GET /api/stores/{storeId}/export/json", deps.exportHandler.ExportJSON)
}

func applyProductionSecrets(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	secretName := os.Getenv("AWS_SECRET_NAME")
	if secretName == "" {
		slogger.Warn("AWS_SECRET_NAME not set, skipping secrets manager")
		return nil
	}

	sm, err := config.NewAWSSecretsManager(cfg.AWS.Region, secretName, slogger)
	if err != nil {
		return err
	}

	return cfg.ApplySecrets(ctx, sm, slogger)
}

func runMigrations(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	slogger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, slogger, 3)
}
