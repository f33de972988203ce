// Package reports produces downloadable inventory reports.
package reports

import (
	"fmt"
	"net/http"
	"time"

	"chem_inventory/internal/config"
	"chem_inventory/internal/database"
	"chem_inventory/internal/handlers"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/xuri/excelize/v2"
)

// ReportsHandler serves inventory exports
type ReportsHandler struct {
	h *handlers.Handler
}

func NewReportsHandler(h *handlers.Handler) *ReportsHandler {
	return &ReportsHandler{h: h}
}

var exportHeaders = []string{
	"ID", "Bottle ID", "CAS Number", "Substance", "Formula",
	"Amount Current", "Amount Initial", "Unit",
	"Cabinet", "Door", "Shelf", "Column",
	"Classification", "State", "Manufacturer", "Purchase Date", "Created At",
}

// ExportInventory streams the full inventory as an XLSX workbook
func (h *ReportsHandler) ExportInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.h.Queries.ListInventoryWithSubstances(r.Context())
	if err != nil {
		config.RespondError(w, http.StatusInternalServerError, "Failed to load inventory", config.ErrKindPersistence, h.h.Logger)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Inventory"
	index, _ := f.NewSheet(sheet)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, item := range items {
		row := i + 2
		values := exportRowValues(item)
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := f.Write(w); err != nil {
		h.h.Logger.Error("failed to write inventory export", "error", err)
	}
}

// exportRowValues flattens one export row, rendering null columns as
// empty cells.
func exportRowValues(item database.InventoryExportRow) []any {
	values := []any{
		item.ID,
		item.BottleID,
		item.CasNumber,
		item.SubstanceName,
		textValue(item.MolecularFormula.String, item.MolecularFormula.Valid),
		item.AmountCurrent,
		item.AmountInitial,
		item.Unit,
		int4Value(item.CabinetID),
		int4Value(item.Door),
		int4Value(item.Shelf),
		int4Value(item.Col),
		textValue(item.Classification.String, item.Classification.Valid),
		textValue(item.State.String, item.State.Valid),
		textValue(item.Manufacturer.String, item.Manufacturer.Valid),
		"",
		"",
	}
	if item.PurchaseDate.Valid {
		values[15] = item.PurchaseDate.Time.Format("2006-01-02")
	}
	if item.CreatedAt.Valid {
		values[16] = item.CreatedAt.Time.Format(time.RFC3339)
	}
	return values
}

func textValue(s string, valid bool) any {
	if !valid {
		return ""
	}
	return s
}

func int4Value(v pgtype.Int4) any {
	if !v.Valid {
		return ""
	}
	return v.Int32
}
