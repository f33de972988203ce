package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"chem_inventory/api/routes"
	"chem_inventory/internal/blob"
	"chem_inventory/internal/cache"
	"chem_inventory/internal/config"
	"chem_inventory/internal/database"
	"chem_inventory/internal/handlers"
	"chem_inventory/internal/middlewares"
	"chem_inventory/internal/observability"
	"chem_inventory/internal/registry"
	"chem_inventory/internal/router"
)

func main() {
	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.LoadConfig(logger)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx := context.Background()

	// Database
	pool, err := config.NewPool(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	queries := database.New(pool)

	// Cache: Redis when configured, in-memory otherwise
	var appCache cache.Cache
	if cfg.Redis.Addr != "" {
		redisCfg := cache.DefaultRedisConfig()
		redisCfg.Addr = cfg.Redis.Addr
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.Logger = logger
		redisCache, err := cache.NewRedisCache(redisCfg)
		if err != nil {
			logger.Warn("redis unavailable, falling back to in-memory cache", "error", err)
			appCache = cache.NewMemoryCache(cache.DefaultConfig())
		} else {
			appCache = redisCache
		}
	} else {
		appCache = cache.NewMemoryCache(cache.DefaultConfig())
	}
	defer appCache.Close()

	// Blob store
	blobStore, err := blob.NewS3Store(ctx, blob.S3Config{
		Bucket:    cfg.Blob.Bucket,
		Region:    cfg.Blob.Region,
		Endpoint:  cfg.Blob.Endpoint,
		PublicURL: cfg.Blob.PublicURL,
		PathStyle: cfg.Blob.PathStyle,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	// Registry client
	registryClient, err := registry.NewClient(registry.Config{
		BaseURL:     cfg.Registry.BaseURL,
		APIKey:      cfg.Registry.APIKey,
		KeyInHeader: cfg.Registry.KeyInHeader,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize registry client: %v", err)
	}

	// Metrics
	metrics := observability.NewMetrics(&observability.MetricsConfig{
		Logger:    logger,
		Namespace: "cheminv",
		SkipPaths: []string{"/health", "/metrics"},
	})
	workflowMetrics := observability.NewWorkflowMetrics("cheminv")

	observability.SetVersion(cfg.App.Version)
	healthConfig := &observability.HealthConfig{
		Logger:       logger,
		DatabasePool: pool,
		CustomChecks: map[string]observability.HealthCheck{
			"cache": observability.PingHealthCheck("cache", appCache.Ping),
			"blob":  observability.PingHealthCheck("blob", blobStore.Ping),
		},
		CheckTimeout:      5 * time.Second,
		IncludeSystemInfo: true,
	}

	// Shared handler bundle
	h := handlers.NewHandler(queries, appCache, logger, pool, blobStore, registryClient, workflowMetrics)

	// Router with global middlewares
	mode := "release"
	if cfg.IsDevelopment() {
		mode = "dev"
	}
	r := router.NewRouter(
		&router.RouterConfig{
			Version:  "v1",
			BasePath: "/api",
			Port:     cfg.Server.Port,
			Mode:     mode,
		},
		logger,
		middlewares.Recovery(&middlewares.RecoveryConfig{Logger: logger}),
		observability.RequestID(),
		middlewares.Logger(&middlewares.LoggerConfig{
			Logger:    logger,
			SkipPaths: []string{"/health", "/metrics"},
		}),
		middlewares.CORS(&middlewares.CORSConfig{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     cfg.CORS.AllowedMethods,
			AllowHeaders:     cfg.CORS.AllowedHeaders,
			ExposeHeaders:    cfg.CORS.ExposedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}),
		metrics.Middleware(&observability.MetricsConfig{SkipPaths: []string{"/health", "/metrics"}}),
	)

	routes.SetupRoutes(r, h, routes.Deps{
		Auth: middlewares.BearerAuth(&middlewares.BearerAuthConfig{
			Token:  cfg.Auth.BearerToken,
			Logger: logger,
		}),
		Health: healthConfig,
	})

	logger.Info("Starting server", "port", cfg.Server.Port)

	// Start server (this includes graceful shutdown handling)
	if err := r.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
