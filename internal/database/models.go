package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// StorageArea is a lab room or zone that contains cabinets
type StorageArea struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// StorageCabinet is a physical cabinet inside a storage area
type StorageCabinet struct {
	ID          int32  `json:"id"`
	AreaID      int32  `json:"areaId"`
	Name        string `json:"name"`
	ShelfHeight int32  `json:"shelfHeight"`
	DoorsLeft   int32  `json:"doorsLeft"`
	DoorsRight  int32  `json:"doorsRight"`
	Columns     int32  `json:"columns"`
}

// Substance is the canonical, deduplicated record of a chemical identity,
// keyed by its CAS registry number. Created once, never updated.
type Substance struct {
	ID               int32         `json:"id"`
	CasNumber        string        `json:"casNumber"`
	Name             string        `json:"name"`
	URI              pgtype.Text   `json:"uri"`
	InchiKey         pgtype.Text   `json:"inchiKey"`
	MolecularFormula pgtype.Text   `json:"molecularFormula"`
	MolecularMass    pgtype.Float8 `json:"molecularMass"`
	HasMolfile       bool          `json:"hasMolfile"`
	Image            pgtype.Text   `json:"image"`
}

// SubstanceSynonym is an alternative name for a substance
type SubstanceSynonym struct {
	ID          int32  `json:"id"`
	SubstanceID int32  `json:"substanceId"`
	Name        string `json:"name"`
}

// PropertyKind distinguishes measured from predicted property rows
type PropertyKind string

const (
	PropertyKindExperimental PropertyKind = "experimental"
	PropertyKindPredicted    PropertyKind = "predicted"
)

// SubstanceProperty is one experimental or predicted property value
type SubstanceProperty struct {
	ID           int32        `json:"id"`
	SubstanceID  int32        `json:"substanceId"`
	Kind         PropertyKind `json:"kind"`
	Name         string       `json:"name"`
	Value        string       `json:"value"`
	Unit         pgtype.Text  `json:"unit"`
	SourceNumber pgtype.Text  `json:"sourceNumber"`
}

// SubstanceCitation is a literature reference attached to a substance
type SubstanceCitation struct {
	ID           int32       `json:"id"`
	SubstanceID  int32       `json:"substanceId"`
	DocURI       pgtype.Text `json:"docUri"`
	SourceNumber pgtype.Text `json:"sourceNumber"`
	SourceTitle  pgtype.Text `json:"sourceTitle"`
}

// InventoryItem is one physical bottle or sample referencing a substance
type InventoryItem struct {
	ID                int32              `json:"id"`
	SubstanceID       int32              `json:"substanceId"`
	BottleID          string             `json:"bottleId"`
	AmountInitial     float64            `json:"amountInitial"`
	AmountCurrent     float64            `json:"amountCurrent"`
	Unit              string             `json:"unit"`
	CabinetID         pgtype.Int4        `json:"cabinetId"`
	Door              pgtype.Int4        `json:"door"`
	Shelf             pgtype.Int4        `json:"shelf"`
	Col               pgtype.Int4        `json:"col"`
	Classification    pgtype.Text        `json:"classification"`
	State             pgtype.Text        `json:"state"`
	Concentration     pgtype.Float8      `json:"concentration"`
	ConcentrationUnit pgtype.Text        `json:"concentrationUnit"`
	Manufacturer      pgtype.Text        `json:"manufacturer"`
	PurchaseDate      pgtype.Date        `json:"purchaseDate"`
	ImageURLSmall     pgtype.Text        `json:"imageUrlSmall"`
	ImageURLLarge     pgtype.Text        `json:"imageUrlLarge"`
	CreatedAt         pgtype.Timestamptz `json:"createdAt"`
}
