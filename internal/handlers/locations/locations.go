// Package locations serves the storage location catalogue consumed by
// the client before registering chemicals.
package locations

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"chem_inventory/internal/cache"
	"chem_inventory/internal/config"
	"chem_inventory/internal/database"
	"chem_inventory/internal/handlers"
)

// CacheKey holds the cached locations payload. Cabinet and area
// mutations invalidate it.
const CacheKey = "locations:all"

const cacheTTL = 5 * time.Minute

// LocationsHandler serves storage area and cabinet lookups
type LocationsHandler struct {
	h *handlers.Handler
}

func NewLocationsHandler(h *handlers.Handler) *LocationsHandler {
	return &LocationsHandler{h: h}
}

// LocationsResponse is the combined catalogue of areas and cabinets
type LocationsResponse struct {
	Areas    []database.StorageArea    `json:"storageAreas"`
	Cabinets []database.StorageCabinet `json:"storageCabinets"`
}

// GetLocations returns all storage areas and their cabinets. An empty
// database yields empty arrays, not an error.
func (l *LocationsHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if l.h.Cache != nil {
		if cached, err := l.h.Cache.Get(ctx, CacheKey); err == nil {
			var resp LocationsResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				config.RespondJSON(w, http.StatusOK, resp)
				return
			}
		}
	}

	areas, err := l.h.Queries.ListStorageAreas(ctx)
	if err != nil {
		config.RespondError(w, http.StatusInternalServerError, "Failed to list storage areas", config.ErrKindPersistence, l.h.Logger)
		return
	}

	cabinets, err := l.h.Queries.ListStorageCabinets(ctx)
	if err != nil {
		config.RespondError(w, http.StatusInternalServerError, "Failed to list storage cabinets", config.ErrKindPersistence, l.h.Logger)
		return
	}

	resp := LocationsResponse{
		Areas:    areas,
		Cabinets: cabinets,
	}
	if resp.Areas == nil {
		resp.Areas = []database.StorageArea{}
	}
	if resp.Cabinets == nil {
		resp.Cabinets = []database.StorageCabinet{}
	}

	if l.h.Cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := l.h.Cache.Set(ctx, CacheKey, payload, cacheTTL); err != nil {
				l.h.Logger.Warn("failed to cache locations", "error", err)
			}
		}
	}

	config.RespondJSON(w, http.StatusOK, resp)
}

// Invalidate drops the cached catalogue after a mutation
func Invalidate(ctx context.Context, c cache.Cache) error {
	if c == nil {
		return nil
	}
	return c.Delete(ctx, CacheKey)
}
