package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Registry RegistryConfig
	Blob     BlobConfig
	Redis    RedisConfig
}

// AppConfig holds application-level settings
type AppConfig struct {
	Version     string
	Environment string // development, staging, production
	BasePath    string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port     string
	Protocol string
	Domain   string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL               string
	MaxConns          int32
	MinConns          int32
	HealthCheckPeriod time.Duration
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	ConnectTimeout    time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
}

// AuthConfig holds the static API credential required on mutating endpoints
type AuthConfig struct {
	BearerToken string
}

// CORSConfig holds CORS middleware settings
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// RegistryConfig holds settings for the external chemistry registry API
type RegistryConfig struct {
	BaseURL string
	APIKey  string
	// KeyInHeader selects whether the API key travels as the X-API-Key
	// header (true) or as an api_key query parameter (false)
	KeyInHeader bool
}

// BlobConfig holds S3-compatible object storage settings
type BlobConfig struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for MinIO-style deployments
	PublicURL string // optional explicit base for public object URLs
	PathStyle bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoadConfig loads configuration from environment variables
func LoadConfig(logger *slog.Logger) (*Config, error) {
	// Load .env file (ignore error if it doesn't exist)
	godotenv.Load()

	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("loading application configuration")

	config := &Config{}

	if err := loadAppConfig(&config.App, logger); err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	if err := loadServerConfig(&config.Server, logger); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	if err := loadDatabaseConfig(&config.Database, logger); err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	if err := loadAuthConfig(&config.Auth); err != nil {
		return nil, fmt.Errorf("failed to load auth config: %w", err)
	}

	if err := loadRegistryConfig(&config.Registry, logger); err != nil {
		return nil, fmt.Errorf("failed to load registry config: %w", err)
	}

	if err := loadBlobConfig(&config.Blob, logger); err != nil {
		return nil, fmt.Errorf("failed to load blob config: %w", err)
	}

	loadCORSConfig(&config.CORS, logger)
	loadRedisConfig(&config.Redis, logger)

	logger.Info("configuration loaded successfully",
		"environment", config.App.Environment,
		"version", config.App.Version,
		"port", config.Server.Port,
	)

	return config, nil
}

func loadAppConfig(cfg *AppConfig, logger *slog.Logger) error {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "1.0.0"
		logger.Warn("VERSION not set, using default", "default", version)
	}
	cfg.Version = version

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
		logger.Warn("ENV not set, using default", "default", env)
	}
	cfg.Environment = env

	basePath := os.Getenv("BASE_PATH")
	if basePath == "" {
		basePath = "/"
	}
	cfg.BasePath = basePath

	return nil
}

func loadServerConfig(cfg *ServerConfig, logger *slog.Logger) error {
	port := os.Getenv("PORT")
	if port == "" {
		return fmt.Errorf("PORT environment variable is required")
	}
	cfg.Port = port

	protocol := os.Getenv("PROTOCOL")
	if protocol == "" {
		protocol = "http"
		logger.Warn("PROTOCOL not set, using default", "default", protocol)
	}
	cfg.Protocol = protocol

	domain := os.Getenv("DOMAIN")
	if domain == "" {
		domain = "localhost"
		logger.Warn("DOMAIN not set, using default", "default", domain)
	}
	cfg.Domain = domain

	return nil
}

func loadDatabaseConfig(cfg *DatabaseConfig, logger *slog.Logger) error {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return fmt.Errorf("DB_URL environment variable is required")
	}
	cfg.URL = dbURL

	cfg.MaxConns = getEnvAsInt32("DB_MAX_CONNS", 10)
	cfg.MinConns = getEnvAsInt32("DB_MIN_CONNS", 2)

	healthCheckSec := getEnvAsInt32("DB_HEALTH_CHECK_PERIOD_SECONDS", 60)
	cfg.HealthCheckPeriod = time.Duration(healthCheckSec) * time.Second

	maxLifetimeMin := getEnvAsInt32("DB_MAX_CONN_LIFETIME_MINUTES", 0)
	cfg.MaxConnLifetime = time.Duration(maxLifetimeMin) * time.Minute

	maxIdleMin := getEnvAsInt32("DB_MAX_CONN_IDLE_TIME_MINUTES", 0)
	cfg.MaxConnIdleTime = time.Duration(maxIdleMin) * time.Minute

	cfg.ConnectTimeout = 10 * time.Second
	cfg.MaxRetries = 3
	cfg.RetryDelay = 1 * time.Second

	logger.Debug("database config loaded",
		"max_conns", cfg.MaxConns,
		"min_conns", cfg.MinConns,
	)

	return nil
}

func loadAuthConfig(cfg *AuthConfig) error {
	token := os.Getenv("API_BEARER_TOKEN")
	if token == "" {
		return fmt.Errorf("API_BEARER_TOKEN environment variable is required")
	}
	cfg.BearerToken = token
	return nil
}

func loadRegistryConfig(cfg *RegistryConfig, logger *slog.Logger) error {
	baseURL := os.Getenv("REGISTRY_BASE_URL")
	if baseURL == "" {
		return fmt.Errorf("REGISTRY_BASE_URL environment variable is required")
	}
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")

	apiKey := os.Getenv("REGISTRY_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("REGISTRY_API_KEY environment variable is required")
	}
	cfg.APIKey = apiKey

	cfg.KeyInHeader = getEnvAsBool("REGISTRY_API_KEY_IN_HEADER", true)

	logger.Debug("registry config loaded", "base_url", cfg.BaseURL, "key_in_header", cfg.KeyInHeader)
	return nil
}

func loadBlobConfig(cfg *BlobConfig, logger *slog.Logger) error {
	bucket := os.Getenv("BLOB_S3_BUCKET")
	if bucket == "" {
		return fmt.Errorf("BLOB_S3_BUCKET environment variable is required")
	}
	cfg.Bucket = bucket

	cfg.Region = os.Getenv("BLOB_S3_REGION")
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
		logger.Warn("BLOB_S3_REGION not set, using default", "default", cfg.Region)
	}

	cfg.Endpoint = os.Getenv("BLOB_S3_ENDPOINT")
	cfg.PublicURL = os.Getenv("BLOB_PUBLIC_URL")
	cfg.PathStyle = getEnvAsBool("BLOB_S3_PATH_STYLE", false)

	logger.Debug("blob config loaded", "bucket", cfg.Bucket, "region", cfg.Region)
	return nil
}

func loadCORSConfig(cfg *CORSConfig, logger *slog.Logger) {
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitAndTrim(origins, ",")
	} else {
		cfg.AllowedOrigins = []string{"*"}
		logger.Warn("CORS_ALLOWED_ORIGINS not set, allowing all origins (not recommended for production)")
	}

	if methods := os.Getenv("CORS_ALLOWED_METHODS"); methods != "" {
		cfg.AllowedMethods = splitAndTrim(methods, ",")
	} else {
		cfg.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	}

	if headers := os.Getenv("CORS_ALLOWED_HEADERS"); headers != "" {
		cfg.AllowedHeaders = splitAndTrim(headers, ",")
	} else {
		cfg.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Requested-With"}
	}

	if exposed := os.Getenv("CORS_EXPOSE_HEADERS"); exposed != "" {
		cfg.ExposedHeaders = splitAndTrim(exposed, ",")
	} else {
		cfg.ExposedHeaders = []string{}
	}

	cfg.AllowCredentials = getEnvAsBool("CORS_ALLOW_CREDENTIALS", false)
	cfg.MaxAge = getEnvAsInt("CORS_MAX_AGE", 3600)

	logger.Debug("CORS config loaded", "origins_count", len(cfg.AllowedOrigins))
}

func loadRedisConfig(cfg *RedisConfig, logger *slog.Logger) {
	cfg.Addr = os.Getenv("REDIS_ADDR")
	cfg.Password = os.Getenv("REDIS_PASSWORD")
	cfg.DB = getEnvAsInt("REDIS_DB", 0)

	if cfg.Addr != "" {
		logger.Debug("Redis config loaded", "addr", cfg.Addr, "db", cfg.DB)
	}
}

// Helper functions

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvAsInt32(key string, defaultVal int32) int32 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return int32(parsed)
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func splitAndTrim(s, sep string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetServerAddress returns the full server address (protocol://domain:port)
func (c *Config) GetServerAddress() string {
	if c.Server.Protocol == "https" && c.Server.Port == "443" {
		return fmt.Sprintf("https://%s", c.Server.Domain)
	}
	if c.Server.Protocol == "http" && c.Server.Port == "80" {
		return fmt.Sprintf("http://%s", c.Server.Domain)
	}
	return fmt.Sprintf("%s://%s:%s", c.Server.Protocol, c.Server.Domain, c.Server.Port)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required")
	}
	if c.Auth.BearerToken == "" {
		return fmt.Errorf("API bearer token is required")
	}
	if c.IsProduction() && len(c.CORS.AllowedOrigins) == 1 && c.CORS.AllowedOrigins[0] == "*" {
		return fmt.Errorf("CORS wildcard origin (*) is not allowed in production")
	}
	return nil
}
