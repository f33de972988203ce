package config

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the JSON error shape returned by all endpoints.
// Kind carries a stable machine-readable error category so callers do
// not have to inspect the message text.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Error kinds used across handlers.
const (
	ErrKindValidation  = "validation"
	ErrKindLookup      = "lookup"
	ErrKindRegistry    = "registry"
	ErrKindPersistence = "persistence"
)

// RespondJSON is a helper function to send JSON responses
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// RespondError sends an ErrorResponse with the given status, message and kind,
// logging it when a logger is supplied.
func RespondError(w http.ResponseWriter, statusCode int, message, kind string, logger *slog.Logger) {
	if logger != nil {
		logger.Error("responding with error",
			"status_code", statusCode,
			"kind", kind,
			"message", message,
		)
	}

	RespondJSON(w, statusCode, ErrorResponse{Error: message, Kind: kind})
}

// RespondBadRequest is a helper for 400 validation errors
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Kind: ErrKindValidation})
}

// RespondConflict is a helper for 409 errors
func RespondConflict(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusConflict, ErrorResponse{Error: message, Kind: ErrKindPersistence})
}

// RespondNotFound is a helper for 404 errors
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusNotFound, ErrorResponse{Error: message})
}

// RespondUnauthorized is a helper for 401 errors
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: message})
}
