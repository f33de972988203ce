package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck represents a health check function
type HealthCheck func(ctx context.Context) (HealthStatus, string, error)

// HealthConfig holds configuration for health check endpoints
type HealthConfig struct {
	// Logger for structured logging
	Logger *slog.Logger

	// Database pool for health checks
	DatabasePool *pgxpool.Pool

	// Custom health checks (cache, blob store, ...)
	CustomChecks map[string]HealthCheck

	// Timeout for individual checks
	CheckTimeout time.Duration

	// Include system info in response
	IncludeSystemInfo bool
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    HealthStatus           `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Uptime    string                 `json:"uptime,omitempty"`
	Version   string                 `json:"version,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	System    *SystemInfo            `json:"system,omitempty"`
}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// SystemInfo contains system-level information
type SystemInfo struct {
	Goroutines  int    `json:"goroutines"`
	MemoryAlloc uint64 `json:"memory_alloc_mb"`
	NumCPU      int    `json:"num_cpu"`
	NumGC       uint32 `json:"num_gc"`
}

var (
	startTime = time.Now()
	version   = "1.0.0"
)

// SetVersion sets the application version reported by health checks
func SetVersion(v string) {
	version = v
}

// DefaultHealthConfig returns a default health configuration
func DefaultHealthConfig() *HealthConfig {
	return &HealthConfig{
		CustomChecks:      make(map[string]HealthCheck),
		CheckTimeout:      5 * time.Second,
		IncludeSystemInfo: true,
	}
}

// HealthHandler returns an HTTP handler for GET /health
func HealthHandler(config *HealthConfig) http.HandlerFunc {
	if config == nil {
		config = DefaultHealthConfig()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), config.CheckTimeout)
		defer cancel()

		response := &HealthResponse{
			Status:    StatusHealthy,
			Timestamp: time.Now().Format(time.RFC3339),
			Uptime:    time.Since(startTime).String(),
			Version:   version,
			Checks:    make(map[string]CheckResult),
		}

		if config.IncludeSystemInfo {
			response.System = getSystemInfo()
		}

		if config.DatabasePool != nil {
			result := checkDatabase(ctx, config.DatabasePool)
			response.Checks["database"] = result
			response.Status = worse(response.Status, result.Status)
		}

		for name, check := range config.CustomChecks {
			result := runHealthCheck(ctx, check)
			response.Checks[name] = result
			response.Status = worse(response.Status, result.Status)
		}

		statusCode := http.StatusOK
		if response.Status == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(response)
	}
}

// worse combines two statuses, keeping the more severe one
func worse(a, b HealthStatus) HealthStatus {
	if a == StatusUnhealthy || b == StatusUnhealthy {
		return StatusUnhealthy
	}
	if a == StatusDegraded || b == StatusDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// checkDatabase pings the database pool
func checkDatabase(ctx context.Context, pool *pgxpool.Pool) CheckResult {
	start := time.Now()
	if err := pool.Ping(ctx); err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: "Database connection failed",
			Error:   err.Error(),
			Latency: time.Since(start).String(),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "Database is healthy",
		Latency: time.Since(start).String(),
	}
}

// runHealthCheck executes a custom health check with timeout
func runHealthCheck(ctx context.Context, check HealthCheck) CheckResult {
	start := time.Now()

	resultChan := make(chan CheckResult, 1)
	go func() {
		status, message, err := check(ctx)
		result := CheckResult{
			Status:  status,
			Message: message,
			Latency: time.Since(start).String(),
		}
		if err != nil {
			result.Error = err.Error()
			if result.Status == StatusHealthy {
				result.Status = StatusUnhealthy
			}
		}
		resultChan <- result
	}()

	select {
	case result := <-resultChan:
		return result
	case <-ctx.Done():
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: "Health check timed out",
			Error:   ctx.Err().Error(),
			Latency: time.Since(start).String(),
		}
	}
}

func getSystemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		Goroutines:  runtime.NumGoroutine(),
		MemoryAlloc: m.Alloc / 1024 / 1024,
		NumCPU:      runtime.NumCPU(),
		NumGC:       m.NumGC,
	}
}

// PingHealthCheck wraps any Ping-style function as a HealthCheck
func PingHealthCheck(name string, pingFunc func(context.Context) error) HealthCheck {
	return func(ctx context.Context) (HealthStatus, string, error) {
		if err := pingFunc(ctx); err != nil {
			return StatusUnhealthy, name + " connection failed", err
		}
		return StatusHealthy, name + " is healthy", nil
	}
}
