// Package router wraps http.ServeMux with route registration, middleware
// chaining and graceful shutdown.
package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Default security limits
const (
	DefaultMaxHeaderBytes    = 1 << 20 // 1 MB
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second
)

// MiddlewaresType defines the middleware function signature
type MiddlewaresType func(http.Handler) http.Handler

// Route represents a single HTTP route
type Route struct {
	Method      string
	Path        string
	HandlerFunc http.HandlerFunc
	Middlewares []MiddlewaresType
	Category    string
	// RawPath registers the path exactly as provided, without the
	// base-path/version prefix
	RawPath bool
}

// RouteGroup represents a group of routes with shared configuration
type RouteGroup struct {
	Prefix      string
	Middlewares []MiddlewaresType
	Routes      []*Route
	Category    string
}

// RouterConfig holds router construction parameters
type RouterConfig struct {
	Version  string // e.g. "v1"
	BasePath string // e.g. "/api"
	Port     string
	Mode     string // "dev" panics on route conflicts

	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Router defines the HTTP router interface
type Router interface {
	Register(route *Route)
	RegisterGroup(group *RouteGroup)
	Handler() http.Handler
	Start() error
	Shutdown(timeout time.Duration) error
}

// RouterImpl implements the Router interface on top of http.ServeMux
type RouterImpl struct {
	config            *RouterConfig
	mux               *http.ServeMux
	server            *http.Server
	logger            *slog.Logger
	globalMiddlewares []MiddlewaresType
	registeredRoutes  map[string]bool
	registeredOPTIONS map[string]bool
	routesMu          sync.Mutex
}

// NewRouter creates a router with the given configuration and global
// middlewares, applied to every registered route in order.
func NewRouter(config *RouterConfig, logger *slog.Logger, globalMiddlewares ...MiddlewaresType) *RouterImpl {
	if config == nil {
		config = &RouterConfig{Port: "8080"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.ReadHeaderTimeout == 0 {
		config.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}

	return &RouterImpl{
		config:            config,
		mux:               http.NewServeMux(),
		logger:            logger,
		globalMiddlewares: globalMiddlewares,
		registeredRoutes:  make(map[string]bool),
		registeredOPTIONS: make(map[string]bool),
	}
}

// preparePath builds the final "METHOD /base/version/path" pattern
func (r *RouterImpl) preparePath(route *Route) string {
	p := strings.Trim(route.Path, "/")

	if route.RawPath {
		return route.Method + " /" + p
	}

	var b strings.Builder
	b.WriteString(route.Method)
	b.WriteString(" /")

	if r.config.BasePath != "" {
		b.WriteString(strings.Trim(r.config.BasePath, "/"))
	}
	if r.config.Version != "" {
		if b.Len() > len(route.Method)+2 {
			b.WriteString("/")
		}
		b.WriteString(r.config.Version)
	}
	if p != "" {
		if b.Len() > len(route.Method)+2 {
			b.WriteString("/")
		}
		b.WriteString(p)
	}

	return b.String()
}

// Register registers a single route with conflict detection. An OPTIONS
// handler for the same path is added automatically so CORS preflight is
// answered uniformly for every endpoint.
func (r *RouterImpl) Register(route *Route) {
	if route == nil || route.HandlerFunc == nil {
		r.logger.Error("cannot register nil route or handler")
		return
	}
	if route.Method == "" {
		route.Method = http.MethodGet
	}

	finalPath := r.preparePath(route)

	r.routesMu.Lock()
	if r.registeredRoutes[finalPath] {
		r.routesMu.Unlock()
		if r.config.Mode == "dev" {
			panic("route conflict: " + finalPath)
		}
		r.logger.Warn("route conflict detected, skipping", "pattern", finalPath)
		return
	}
	r.registeredRoutes[finalPath] = true
	r.routesMu.Unlock()

	allMiddlewares := append(append([]MiddlewaresType{}, r.globalMiddlewares...), route.Middlewares...)
	handler := chainMiddlewares(http.Handler(route.HandlerFunc), allMiddlewares)
	r.mux.Handle(finalPath, handler)

	if route.Method != http.MethodOptions {
		optionsPath := strings.Replace(finalPath, route.Method+" ", "OPTIONS ", 1)
		r.routesMu.Lock()
		if !r.registeredOPTIONS[optionsPath] {
			r.registeredOPTIONS[optionsPath] = true
			r.routesMu.Unlock()
			optionsHandler := chainMiddlewares(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusOK)
			}), allMiddlewares)
			r.mux.Handle(optionsPath, optionsHandler)
		} else {
			r.routesMu.Unlock()
		}
	}

	r.logger.Debug("route registered", "method", route.Method, "pattern", finalPath, "category", route.Category)
}

// RegisterGroup registers a group of routes with shared prefix and middlewares
func (r *RouterImpl) RegisterGroup(group *RouteGroup) {
	if group == nil {
		return
	}

	for _, route := range group.Routes {
		if route.Category == "" && group.Category != "" {
			route.Category = group.Category
		}
		if group.Prefix != "" {
			prefix := strings.TrimSuffix(group.Prefix, "/")
			route.Path = prefix + "/" + strings.TrimPrefix(route.Path, "/")
		}
		if len(group.Middlewares) > 0 {
			route.Middlewares = append(append([]MiddlewaresType{}, group.Middlewares...), route.Middlewares...)
		}
		r.Register(route)
	}

	r.logger.Info("route group registered", "prefix", group.Prefix, "routes", len(group.Routes))
}

// chainMiddlewares wraps handler bottom-up so middlewares run in
// declaration order.
func chainMiddlewares(handler http.Handler, middlewares []MiddlewaresType) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// Handler exposes the underlying mux, mainly for tests
func (r *RouterImpl) Handler() http.Handler {
	return r.mux
}

// Start runs the HTTP server and blocks until shutdown. SIGINT/SIGTERM
// trigger a graceful drain bounded by ShutdownTimeout.
func (r *RouterImpl) Start() error {
	r.server = &http.Server{
		Addr:              ":" + r.config.Port,
		Handler:           r.mux,
		ReadHeaderTimeout: r.config.ReadHeaderTimeout,
		MaxHeaderBytes:    DefaultMaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(r.logger.Handler(), slog.LevelError),
	}

	r.logger.Info("starting server",
		"mode", r.config.Mode,
		"base_path", r.config.BasePath,
		"version", r.config.Version,
		"port", r.config.Port,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		r.logger.Info("shutdown signal received", "signal", sig.String())
		return r.Shutdown(r.config.ShutdownTimeout)
	}
}

// Shutdown gracefully drains in-flight requests
func (r *RouterImpl) Shutdown(timeout time.Duration) error {
	if r.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	r.logger.Info("shutting down server", "timeout", timeout.String())
	if err := r.server.Shutdown(ctx); err != nil {
		r.logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	r.logger.Info("server stopped")
	return nil
}
