package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/rentora-hq/rentora-engine/pkg/auth"
	"github.com/rentora-hq/rentora-engine/pkg/config"
	"github.com/rentora-hq/rentora-engine/pkg/database"
	"github.com/rentora-hq/rentora-engine/pkg/handlers"
	"github.com/rentora-hq/rentora-engine/pkg/logging"
	"github.com/rentora-hq/rentora-engine/pkg/middleware"
	"github.com/rentora-hq/rentora-engine/pkg/platform"
	"github.com/rentora-hq/rentora-engine/pkg/reports"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())),
		zap.String("redis_host", cfg.Redis.Host))

	ctx := context.Background()

	// Database pool
	db, err := database.NewConnection(ctx, &database.Config{
		URL:              cfg.Database.URL(),
		MaxConnections:   cfg.Database.MaxConnections,
		AcquireTimeout:   cfg.Database.AcquireTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Optional Redis cache
	redisClient, err := database.NewRedisClient(&database.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Authentication
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to initialize JWKS client", zap.Error(err))
	}
	authService := auth.NewAuthService(jwksClient, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)
	tenantMiddleware := database.WithAgencyContext(db, logger)

	// Query execution and reporting
	gateway := database.NewGateway(db, logger)
	cache := reports.NewCache(redisClient, logger)
	reportService := reports.NewService(gateway, cache, logger)
	reportService.SetCacheTTL(cfg.Reports.CacheTTL)
	reportService.SetDefaultDaysAhead(cfg.Reports.DefaultDaysAhead)
	agencyService := platform.NewAgencyService(gateway, logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewReportsHandler(reportService, logger).RegisterRoutes(mux, authMiddleware, handlers.TenantMiddleware(tenantMiddleware))
	handlers.NewPlatformHandler(agencyService, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting rentora-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newLogger builds a production logger, falling back to a development
// configuration for local runs.
func newLogger(env string) *zap.Logger {
	if env == "local" || env == "test" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		return logger
	}
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}
