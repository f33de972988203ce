// Package chemicals implements the chemical-registration workflow:
// substance resolution against the external registry, inventory bottle
// creation and image upload.
package chemicals

import (
	"encoding/json"
	"net/http"

	"chem_inventory/internal/config"
	"chem_inventory/internal/handlers"
)

// ChemicalsHandler handles chemical registration requests
type ChemicalsHandler struct {
	h        *handlers.Handler
	resolver *Resolver
	writer   *Writer
}

func NewChemicalsHandler(h *handlers.Handler) *ChemicalsHandler {
	return &ChemicalsHandler{
		h:        h,
		resolver: NewResolver(h.Queries, h.Registry, h.Logger, h.Workflow),
		writer:   NewWriter(h.Queries, h.Blob, h.Logger, h.Workflow),
	}
}

// RegisterChemicalRequest is the POST body for chemical registration.
// Only the first CAS number is used; the list form matches the client's
// multi-select widget.
type RegisterChemicalRequest struct {
	Cas       []string           `json:"cas"`
	Inventory InventoryAttribute `json:"inventory"`
}

// InventoryAttribute carries the bottle attributes supplied by the client
type InventoryAttribute struct {
	AmountInitial     float64 `json:"amountInitial"`
	AmountCurrent     float64 `json:"amountCurrent"`
	Unit              string  `json:"unit"`
	CabinetID         *int32  `json:"cabinetId"`
	Door              *int32  `json:"door"`
	Shelf             *int32  `json:"shelf"`
	Col               *int32  `json:"col"`
	Classification    string  `json:"classification"`
	State             string  `json:"state"`
	Concentration     *float64 `json:"concentration"`
	ConcentrationUnit string  `json:"concentrationUnit"`
	Manufacturer      string  `json:"manufacturer"`
	PurchaseDate      string  `json:"purchaseDate"`
	ImageSmall        string  `json:"imageSmall"` // base64 data-URL, optional
	ImageLarge        string  `json:"imageLarge"` // base64 data-URL, optional
}

// RegisterChemical creates an inventory bottle, importing the substance
// from the external registry when it is not yet known.
func (c *ChemicalsHandler) RegisterChemical(w http.ResponseWriter, r *http.Request) {
	var req RegisterChemicalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.RespondBadRequest(w, "Invalid request payload")
		return
	}

	if len(req.Cas) == 0 || req.Cas[0] == "" {
		config.RespondBadRequest(w, "At least one CAS number is required")
		return
	}
	if req.Inventory.Unit == "" {
		config.RespondBadRequest(w, "Inventory unit is required")
		return
	}
	if req.Inventory.AmountInitial <= 0 {
		config.RespondBadRequest(w, "Initial amount must be positive")
		return
	}

	casNumber := req.Cas[0]
	ctx := r.Context()

	substanceID, isNew, err := c.resolver.Resolve(ctx, casNumber)
	if err != nil {
		c.respondWorkflowError(w, err)
		return
	}

	result, err := c.writer.Write(ctx, substanceID, casNumber, req.Inventory, isNew)
	if err != nil {
		c.respondWorkflowError(w, err)
		return
	}

	// The response is an array of one result object; image upload or
	// URL back-fill failures degrade the record but never the status.
	config.RespondJSON(w, http.StatusOK, []*Result{result})
}

// respondWorkflowError maps a workflow error onto the JSON error shape
func (c *ChemicalsHandler) respondWorkflowError(w http.ResponseWriter, err error) {
	kind := ErrorKind(err)
	config.RespondError(w, http.StatusInternalServerError, err.Error(), kind, c.h.Logger)
}
