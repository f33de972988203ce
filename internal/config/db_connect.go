package config

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a new database connection pool from DatabaseConfig,
// retrying with exponential backoff until MaxRetries is exhausted.
func NewPool(cfg *DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config cannot be nil")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("initializing database connection pool",
		"max_conns", cfg.MaxConns,
		"min_conns", cfg.MinConns,
		"health_check_period", cfg.HealthCheckPeriod.String(),
	)

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	if cfg.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	var pool *pgxpool.Pool
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("failed to create pool (attempt %d/%d): %w", attempt, cfg.MaxRetries, err)
			logger.Warn("failed to create database pool",
				"attempt", attempt,
				"max_retries", cfg.MaxRetries,
				"error", err,
			)
			if attempt < cfg.MaxRetries {
				time.Sleep(calculateBackoff(cfg.RetryDelay, attempt))
			}
			continue
		}

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = pool.Ping(pingCtx)
		pingCancel()

		if err != nil {
			lastErr = fmt.Errorf("failed to ping database (attempt %d/%d): %w", attempt, cfg.MaxRetries, err)
			logger.Warn("failed to ping database",
				"attempt", attempt,
				"max_retries", cfg.MaxRetries,
				"error", err,
			)
			pool.Close()
			pool = nil
			if attempt < cfg.MaxRetries {
				time.Sleep(calculateBackoff(cfg.RetryDelay, attempt))
			}
			continue
		}

		logger.Info("database connection pool established",
			"attempt", attempt,
			"total_conns", pool.Stat().TotalConns(),
		)
		return pool, nil
	}

	return nil, fmt.Errorf("database connection failed after %d attempts: %w", cfg.MaxRetries, lastErr)
}

// calculateBackoff returns the delay before the given retry attempt,
// doubling each time and capped at 30 seconds.
func calculateBackoff(base time.Duration, attempt int) time.Duration {
	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	return delay
}
