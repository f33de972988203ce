package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createInventoryItem = `
INSERT INTO inventory_items (
	substance_id, bottle_id, amount_initial, amount_current, unit,
	cabinet_id, door, shelf, col,
	classification, state, concentration, concentration_unit,
	manufacturer, purchase_date
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id
`

type CreateInventoryItemParams struct {
	SubstanceID       int32
	BottleID          string
	AmountInitial     float64
	AmountCurrent     float64
	Unit              string
	CabinetID         pgtype.Int4
	Door              pgtype.Int4
	Shelf             pgtype.Int4
	Col               pgtype.Int4
	Classification    pgtype.Text
	State             pgtype.Text
	Concentration     pgtype.Float8
	ConcentrationUnit pgtype.Text
	Manufacturer      pgtype.Text
	PurchaseDate      pgtype.Date
}

// CreateInventoryItem inserts a bottle record with null image URLs and
// returns the new id.
func (q *Queries) CreateInventoryItem(ctx context.Context, arg CreateInventoryItemParams) (int32, error) {
	row := q.db.QueryRow(ctx, createInventoryItem,
		arg.SubstanceID,
		arg.BottleID,
		arg.AmountInitial,
		arg.AmountCurrent,
		arg.Unit,
		arg.CabinetID,
		arg.Door,
		arg.Shelf,
		arg.Col,
		arg.Classification,
		arg.State,
		arg.Concentration,
		arg.ConcentrationUnit,
		arg.Manufacturer,
		arg.PurchaseDate,
	)
	var id int32
	err := row.Scan(&id)
	return id, err
}

const updateInventoryItemImageURLs = `
UPDATE inventory_items
SET image_url_small = COALESCE($2, image_url_small),
    image_url_large = COALESCE($3, image_url_large)
WHERE id = $1
`

type UpdateInventoryItemImageURLsParams struct {
	ID            int32
	ImageURLSmall pgtype.Text
	ImageURLLarge pgtype.Text
}

// UpdateInventoryItemImageURLs back-fills the public image URLs after a
// successful upload. Null parameters leave the column untouched.
func (q *Queries) UpdateInventoryItemImageURLs(ctx context.Context, arg UpdateInventoryItemImageURLsParams) error {
	_, err := q.db.Exec(ctx, updateInventoryItemImageURLs, arg.ID, arg.ImageURLSmall, arg.ImageURLLarge)
	return err
}

const listInventoryWithSubstances = `
SELECT i.id, i.bottle_id, s.cas_number, s.name, s.molecular_formula,
	i.amount_current, i.amount_initial, i.unit,
	i.cabinet_id, i.door, i.shelf, i.col,
	i.classification, i.state, i.manufacturer, i.purchase_date, i.created_at
FROM inventory_items i
JOIN substances s ON s.id = i.substance_id
ORDER BY i.id
`

// InventoryExportRow is one line of the inventory export
type InventoryExportRow struct {
	ID               int32
	BottleID         string
	CasNumber        string
	SubstanceName    string
	MolecularFormula pgtype.Text
	AmountCurrent    float64
	AmountInitial    float64
	Unit             string
	CabinetID        pgtype.Int4
	Door             pgtype.Int4
	Shelf            pgtype.Int4
	Col              pgtype.Int4
	Classification   pgtype.Text
	State            pgtype.Text
	Manufacturer     pgtype.Text
	PurchaseDate     pgtype.Date
	CreatedAt        pgtype.Timestamptz
}

// ListInventoryWithSubstances returns all bottles joined with their
// substance reference data, ordered by id.
func (q *Queries) ListInventoryWithSubstances(ctx context.Context) ([]InventoryExportRow, error) {
	rows, err := q.db.Query(ctx, listInventoryWithSubstances)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []InventoryExportRow
	for rows.Next() {
		var r InventoryExportRow
		if err := rows.Scan(
			&r.ID,
			&r.BottleID,
			&r.CasNumber,
			&r.SubstanceName,
			&r.MolecularFormula,
			&r.AmountCurrent,
			&r.AmountInitial,
			&r.Unit,
			&r.CabinetID,
			&r.Door,
			&r.Shelf,
			&r.Col,
			&r.Classification,
			&r.State,
			&r.Manufacturer,
			&r.PurchaseDate,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
