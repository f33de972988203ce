package middlewares

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// BearerAuthConfig holds configuration for the static bearer token check
type BearerAuthConfig struct {
	// Token is the expected bearer credential
	Token string

	// Logger for structured logging
	Logger *slog.Logger
}

// BearerAuth returns a middleware that requires "Authorization: Bearer <token>"
// with the configured static credential. Comparison is constant-time.
func BearerAuth(config *BearerAuthConfig) func(next http.Handler) http.Handler {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(config.Token)) != 1 {
				logger.Warn("unauthorized request",
					"method", r.Method,
					"path", r.URL.Path,
					"client_ip", r.RemoteAddr,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
