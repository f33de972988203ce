// Package cabinets implements storage cabinet registration and removal.
package cabinets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"chem_inventory/internal/config"
	"chem_inventory/internal/database"
	"chem_inventory/internal/handlers"
	"chem_inventory/internal/handlers/locations"

	"github.com/jackc/pgx/v5"
)

// CabinetsHandler handles cabinet registration and deletion
type CabinetsHandler struct {
	h *handlers.Handler
}

func NewCabinetsHandler(h *handlers.Handler) *CabinetsHandler {
	return &CabinetsHandler{h: h}
}

// RegisterCabinetRequest is the POST body for cabinet registration.
// The area is referenced by name and created on first use.
type RegisterCabinetRequest struct {
	Area        string `json:"area"`
	Name        string `json:"name"`
	ShelfHeight int32  `json:"shelfHeight"`
	DoorsLeft   int32  `json:"doorsLeft"`
	DoorsRight  int32  `json:"doorsRight"`
	Columns     int32  `json:"columns"`
}

// RegisterCabinet creates a cabinet inside a storage area, creating the
// area itself when it does not exist yet. A duplicate cabinet name
// within the same area is rejected with 409.
func (c *CabinetsHandler) RegisterCabinet(w http.ResponseWriter, r *http.Request) {
	var req RegisterCabinetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.RespondBadRequest(w, "Invalid request payload")
		return
	}

	req.Area = strings.TrimSpace(req.Area)
	req.Name = strings.TrimSpace(req.Name)
	if req.Area == "" {
		config.RespondBadRequest(w, "Area name is required")
		return
	}
	if req.Name == "" {
		config.RespondBadRequest(w, "Cabinet name is required")
		return
	}
	if req.ShelfHeight <= 0 || req.Columns <= 0 {
		config.RespondBadRequest(w, "Shelf height and columns must be positive")
		return
	}
	if req.DoorsLeft < 0 || req.DoorsRight < 0 || req.DoorsLeft+req.DoorsRight == 0 {
		config.RespondBadRequest(w, "Cabinet needs at least one door")
		return
	}

	ctx := r.Context()

	area, err := c.h.Queries.GetStorageAreaByName(ctx, req.Area)
	if errors.Is(err, pgx.ErrNoRows) {
		area, err = c.h.Queries.CreateStorageArea(ctx, req.Area)
	}
	if err != nil {
		config.RespondError(w, http.StatusInternalServerError, "Failed to resolve storage area", config.ErrKindPersistence, c.h.Logger)
		return
	}

	if _, err := c.h.Queries.GetCabinetByAreaAndName(ctx, area.ID, req.Name); err == nil {
		config.RespondConflict(w, "A cabinet with this name already exists in the area")
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		config.RespondError(w, http.StatusInternalServerError, "Failed to check cabinet name", config.ErrKindPersistence, c.h.Logger)
		return
	}

	cabinet, err := c.h.Queries.CreateStorageCabinet(ctx, database.CreateStorageCabinetParams{
		AreaID:      area.ID,
		Name:        req.Name,
		ShelfHeight: req.ShelfHeight,
		DoorsLeft:   req.DoorsLeft,
		DoorsRight:  req.DoorsRight,
		Columns:     req.Columns,
	})
	if err != nil {
		config.RespondError(w, http.StatusInternalServerError, "Failed to create cabinet", config.ErrKindPersistence, c.h.Logger)
		return
	}

	if err := locations.Invalidate(ctx, c.h.Cache); err != nil {
		c.h.Logger.Warn("failed to invalidate locations cache", "error", err)
	}

	c.h.Logger.Info("cabinet registered",
		"cabinet_id", cabinet.ID,
		"area", area.Name,
		"name", cabinet.Name,
	)
	config.RespondJSON(w, http.StatusCreated, cabinet)
}

// DeleteCabinet removes a cabinet by id. The containing area is removed
// as well when the cabinet was its last one.
func (c *CabinetsHandler) DeleteCabinet(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get("id")
	if idParam == "" {
		config.RespondBadRequest(w, "Cabinet id is required")
		return
	}
	id, err := strconv.ParseInt(idParam, 10, 32)
	if err != nil || id <= 0 {
		config.RespondBadRequest(w, "Cabinet id must be a positive integer")
		return
	}

	ctx := r.Context()
	cabinetID := int32(id)

	cabinet, err := c.h.Queries.GetStorageCabinetByID(ctx, cabinetID)
	if errors.Is(err, pgx.ErrNoRows) {
		config.RespondNotFound(w, "Cabinet not found")
		return
	}
	if err != nil {
		config.RespondError(w, http.StatusInternalServerError, "Failed to load cabinet", config.ErrKindPersistence, c.h.Logger)
		return
	}

	if err := c.h.Queries.DeleteStorageCabinet(ctx, cabinetID); err != nil {
		config.RespondError(w, http.StatusInternalServerError, "Failed to delete cabinet", config.ErrKindPersistence, c.h.Logger)
		return
	}

	remaining, err := c.h.Queries.CountCabinetsInArea(ctx, cabinet.AreaID)
	if err != nil {
		c.h.Logger.Error("failed to count cabinets in area", "area_id", cabinet.AreaID, "error", err)
	} else if remaining == 0 {
		if err := c.h.Queries.DeleteStorageArea(ctx, cabinet.AreaID); err != nil {
			c.h.Logger.Error("failed to delete empty storage area", "area_id", cabinet.AreaID, "error", err)
		}
	}

	if err := locations.Invalidate(ctx, c.h.Cache); err != nil {
		c.h.Logger.Warn("failed to invalidate locations cache", "error", err)
	}

	c.h.Logger.Info("cabinet deleted", "cabinet_id", cabinetID, "area_id", cabinet.AreaID)
	config.RespondJSON(w, http.StatusOK, map[string]any{
		"deleted":  cabinetID,
		"areaAlso": remaining == 0,
		"areaId":   cabinet.AreaID,
	})
}
