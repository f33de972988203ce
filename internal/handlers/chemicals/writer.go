package chemicals

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"chem_inventory/internal/config"
	"chem_inventory/internal/database"
	"chem_inventory/internal/observability"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// InventoryStore is the persistence surface the writer depends on
type InventoryStore interface {
	CreateInventoryItem(ctx context.Context, arg database.CreateInventoryItemParams) (int32, error)
	UpdateInventoryItemImageURLs(ctx context.Context, arg database.UpdateInventoryItemImageURLsParams) error
}

// Uploader is the object-storage surface the writer depends on
type Uploader interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	PublicURL(key string) string
}

// Writer persists one inventory bottle for a resolved substance and
// attaches its images.
type Writer struct {
	store   InventoryStore
	blob    Uploader
	logger  *slog.Logger
	metrics *observability.WorkflowMetrics
}

func NewWriter(store InventoryStore, blob Uploader, logger *slog.Logger, metrics *observability.WorkflowMetrics) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{store: store, blob: blob, logger: logger, metrics: metrics}
}

// Result is the per-registration response object
type Result struct {
	CasNumber      string `json:"casNumber"`
	Status         string `json:"status"`
	InventoryKey   int32  `json:"inventoryKey"`
	IsNewSubstance bool   `json:"isNewSubstance"`
}

// Write inserts the inventory row, uploads any supplied images and
// back-fills their URLs. Only the row insert is fatal; the substance row
// created during resolution is left in place even then.
func (w *Writer) Write(ctx context.Context, substanceID int32, casNumber string, attrs InventoryAttribute, isNewSubstance bool) (*Result, error) {
	bottleID := fmt.Sprintf("%s-%s", casNumber, uuid.NewString())

	params := database.CreateInventoryItemParams{
		SubstanceID:       substanceID,
		BottleID:          bottleID,
		AmountInitial:     attrs.AmountInitial,
		AmountCurrent:     attrs.AmountCurrent,
		Unit:              attrs.Unit,
		CabinetID:         int4OrNull(attrs.CabinetID),
		Door:              int4OrNull(attrs.Door),
		Shelf:             int4OrNull(attrs.Shelf),
		Col:               int4OrNull(attrs.Col),
		Classification:    textOrNull(attrs.Classification),
		State:             textOrNull(attrs.State),
		Concentration:     float8OrNull(attrs.Concentration),
		ConcentrationUnit: textOrNull(attrs.ConcentrationUnit),
		Manufacturer:      textOrNull(attrs.Manufacturer),
		PurchaseDate:      parseFlexibleDate(attrs.PurchaseDate),
	}
	if params.AmountCurrent == 0 {
		params.AmountCurrent = params.AmountInitial
	}

	inventoryID, err := w.store.CreateInventoryItem(ctx, params)
	if err != nil {
		return nil, &WorkflowError{
			Kind: config.ErrKindPersistence,
			Err:  fmt.Errorf("failed to create inventory item for %s: %w", casNumber, err),
		}
	}
	if w.metrics != nil {
		w.metrics.InventoryCreated.Inc()
	}

	w.attachImages(ctx, inventoryID, casNumber, attrs)

	return &Result{
		CasNumber:      casNumber,
		Status:         "success",
		InventoryKey:   inventoryID,
		IsNewSubstance: isNewSubstance,
	}, nil
}

// uploadResult carries one image upload outcome
type uploadResult struct {
	size string // "small" or "large"
	url  string
	err  error
}

// attachImages decodes, uploads and back-fills the bottle images. Every
// failure here is logged and counted but never propagated; the record
// simply keeps a null URL for the affected image.
func (w *Writer) attachImages(ctx context.Context, inventoryID int32, casNumber string, attrs InventoryAttribute) {
	type payload struct {
		size string
		data string
	}

	var payloads []payload
	if attrs.ImageSmall != "" {
		payloads = append(payloads, payload{"small", attrs.ImageSmall})
	}
	if attrs.ImageLarge != "" {
		payloads = append(payloads, payload{"large", attrs.ImageLarge})
	}
	if len(payloads) == 0 {
		return
	}

	results := make([]uploadResult, len(payloads))
	var wg sync.WaitGroup
	for i, p := range payloads {
		wg.Add(1)
		go func(i int, p payload) {
			defer wg.Done()
			results[i] = w.uploadImage(ctx, inventoryID, casNumber, p.size, p.data)
		}(i, p)
	}
	wg.Wait()

	update := database.UpdateInventoryItemImageURLsParams{ID: inventoryID}
	var haveURL bool
	for _, res := range results {
		if res.err != nil {
			w.logger.Error("image upload failed",
				"inventory_id", inventoryID,
				"cas_number", casNumber,
				"size", res.size,
				"error", res.err,
			)
			if w.metrics != nil {
				w.metrics.ImageUploadFailures.Inc()
			}
			continue
		}
		haveURL = true
		switch res.size {
		case "small":
			update.ImageURLSmall = textOrNull(res.url)
		case "large":
			update.ImageURLLarge = textOrNull(res.url)
		}
	}

	if !haveURL {
		return
	}

	if err := w.store.UpdateInventoryItemImageURLs(ctx, update); err != nil {
		w.logger.Error("failed to back-fill image URLs",
			"inventory_id", inventoryID,
			"cas_number", casNumber,
			"error", err,
		)
		if w.metrics != nil {
			w.metrics.ImageURLUpdateErrors.Inc()
		}
	}
}

// uploadImage decodes one base64 data-URL and writes it to the blob
// store, overwriting any previous object at the same key.
func (w *Writer) uploadImage(ctx context.Context, inventoryID int32, casNumber, size, dataURL string) uploadResult {
	data, contentType, ext, err := decodeImageDataURL(dataURL)
	if err != nil {
		return uploadResult{size: size, err: fmt.Errorf("failed to decode %s image: %w", size, err)}
	}

	key := fmt.Sprintf("bottles/%d/%s_%s.%s", inventoryID, casNumber, size, ext)
	if err := w.blob.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return uploadResult{size: size, err: err}
	}

	return uploadResult{size: size, url: w.blob.PublicURL(key)}
}

// int4OrNull builds a pgtype.Int4 that is null for a nil pointer
func int4OrNull(v *int32) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *v, Valid: true}
}

// float8OrNull builds a pgtype.Float8 that is null for a nil pointer
func float8OrNull(v *float64) pgtype.Float8 {
	if v == nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *v, Valid: true}
}
