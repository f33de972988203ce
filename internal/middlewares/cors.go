package middlewares

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds configuration for CORS middleware
type CORSConfig struct {
	// AllowOrigins defines the origins that may access the resource.
	// Supports ["*"], exact origins and wildcard subdomains ("*.example.com").
	AllowOrigins []string

	// AllowMethods defines methods allowed when accessing the resource
	AllowMethods []string

	// AllowHeaders defines request headers that can be used. When empty
	// the preflight's Access-Control-Request-Headers is echoed back.
	AllowHeaders []string

	// ExposeHeaders defines response headers clients can access
	ExposeHeaders []string

	// AllowCredentials indicates if credentials are allowed. Ignored
	// with a wildcard origin.
	AllowCredentials bool

	// MaxAge indicates how long (seconds) preflight results can be cached
	MaxAge int

	// Logger for structured logging
	Logger *slog.Logger
}

// DefaultCORSConfig returns a permissive default CORS configuration
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowHeaders:  []string{},
		ExposeHeaders: []string{},
	}
}

// CORS returns a Cross-Origin Resource Sharing middleware. Preflight
// OPTIONS requests are answered directly with 204.
func CORS(config *CORSConfig) func(next http.Handler) http.Handler {
	if config == nil {
		config = DefaultCORSConfig()
	}
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"*"}
	}
	if len(config.AllowMethods) == 0 {
		config.AllowMethods = DefaultCORSConfig().AllowMethods
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	// Credentials with wildcard origin is insecure and will not work
	if config.AllowCredentials && len(config.AllowOrigins) == 1 && config.AllowOrigins[0] == "*" {
		config.Logger.Warn("CORS: AllowCredentials with wildcard origin (*) disabled - specify exact origins")
		config.AllowCredentials = false
	}

	allowMethods := strings.Join(config.AllowMethods, ", ")
	allowHeaders := strings.Join(config.AllowHeaders, ", ")
	exposeHeaders := strings.Join(config.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// No Origin header = same-origin request, no CORS needed
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowedOrigin := getAllowedOrigin(origin, config.AllowOrigins)
			if allowedOrigin == "" {
				if r.Method == http.MethodOptions {
					config.Logger.Debug("CORS preflight denied", "origin", origin, "path", r.URL.Path)
					w.WriteHeader(http.StatusForbidden)
					return
				}
				config.Logger.Debug("CORS request from disallowed origin", "origin", origin, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Add("Vary", "Origin")

			if config.AllowCredentials && allowedOrigin != "*" {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				requestHeaders := r.Header.Get("Access-Control-Request-Headers")

				w.Header().Set("Access-Control-Allow-Methods", allowMethods)
				if allowHeaders != "" {
					w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
				} else if requestHeaders != "" {
					w.Header().Set("Access-Control-Allow-Headers", requestHeaders)
				}

				w.Header().Add("Vary", "Access-Control-Request-Method")
				w.Header().Add("Vary", "Access-Control-Request-Headers")

				if config.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", maxAge)
				}

				w.WriteHeader(http.StatusNoContent)
				return
			}

			if exposeHeaders != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposeHeaders)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getAllowedOrigin checks if origin is allowed and returns the header value,
// or "" when not allowed.
func getAllowedOrigin(origin string, allowOrigins []string) string {
	for _, allowed := range allowOrigins {
		if allowed == "*" {
			return "*"
		}
		if allowed == origin {
			return origin
		}
		if strings.HasPrefix(allowed, "*.") {
			domain := allowed[1:]
			if strings.HasSuffix(origin, domain) {
				return origin
			}
		}
	}
	return ""
}
