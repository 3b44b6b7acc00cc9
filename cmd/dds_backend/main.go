package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rediscache "github.com/SscSPs/document_distribution_app/internal/adapters/cache/redis"
	"github.com/SscSPs/document_distribution_app/internal/adapters/notification"
	miniostore "github.com/SscSPs/document_distribution_app/internal/adapters/storage/minio"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/core/services"
	"github.com/SscSPs/document_distribution_app/internal/handlers"
	"github.com/SscSPs/document_distribution_app/internal/jobs"
	"github.com/SscSPs/document_distribution_app/internal/middleware"
	"github.com/SscSPs/document_distribution_app/internal/platform/config"
	"github.com/SscSPs/document_distribution_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/document_distribution_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Document Distribution API
// @version 1.0
// @description Tracks invoices and supporting documents as they move between departments.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	integrations := services.Integrations{}
	sinks := notification.MultiSink{notification.NewLogSink(logger)}

	var limiterStore limiter.Store
	if cfg.RedisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("Failed to connect to redis", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
			os.Exit(1)
		}
		integrations.LocationCache = rediscache.NewLocationCache(redisClient, cfg.LocationCacheTTL)
		limiterStore, err = sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: "dds_limiter"})
		if err != nil {
			logger.Error("Failed to create rate limiter store", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Redis location cache enabled", slog.String("addr", cfg.RedisAddr))
	}

	if cfg.MinioEndpoint != "" {
		store, err := miniostore.NewManifestStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			logger.Error("Failed to initialize MinIO client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Error("Failed to prepare manifest bucket", slog.String("bucket", cfg.MinioBucket), slog.String("error", err.Error()))
			os.Exit(1)
		}
		integrations.ManifestStore = store
		sinks = append(sinks, notification.NewManifestSink(repos.DocumentRepo, store))
		logger.Info("Manifest archiving enabled", slog.String("bucket", cfg.MinioBucket))
	}

	dispatcher, err := jobs.NewOutboxDispatcher(repos.OutboxRepo, repos.DistributionRepo, sinks, jobs.DispatcherConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxAttempts:  cfg.OutboxMaxAttempts,
	}, logger)
	if err != nil {
		logger.Error("Failed to create outbox dispatcher", slog.String("error", err.Error()))
		os.Exit(1)
	}
	integrations.Trigger = dispatcher
	dispatcher.Start()

	serviceContainer := services.NewServiceContainer(cfg, repos, integrations)

	srv, err := newServer(cfg, logger, serviceContainer, limiterStore)
	if err != nil {
		logger.Error("Failed to build HTTP server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	if err := dispatcher.Stop(); err != nil {
		logger.Error("Dispatcher shutdown failed", slog.String("error", err.Error()))
	}
}

func newServer(cfg *config.Config, logger *slog.Logger, svc *portssvc.ServiceContainer, store limiter.Store) (*http.Server, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}
	if err := handlers.RegisterRoutes(r, cfg, svc, store); err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, nil
}

// runMigrations applies all pending up migrations over a database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
