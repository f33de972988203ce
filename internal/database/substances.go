package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const getSubstanceByCasNumber = `
SELECT id, cas_number, name, uri, inchi_key, molecular_formula, molecular_mass, has_molfile, image
FROM substances
WHERE cas_number = $1
`

// GetSubstanceByCasNumber returns the substance for a CAS registry number.
// Absence surfaces as pgx.ErrNoRows.
func (q *Queries) GetSubstanceByCasNumber(ctx context.Context, casNumber string) (Substance, error) {
	row := q.db.QueryRow(ctx, getSubstanceByCasNumber, casNumber)
	var s Substance
	err := row.Scan(
		&s.ID,
		&s.CasNumber,
		&s.Name,
		&s.URI,
		&s.InchiKey,
		&s.MolecularFormula,
		&s.MolecularMass,
		&s.HasMolfile,
		&s.Image,
	)
	return s, err
}

const createSubstance = `
INSERT INTO substances (cas_number, name, uri, inchi_key, molecular_formula, molecular_mass, has_molfile, image)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (cas_number) DO NOTHING
RETURNING id
`

type CreateSubstanceParams struct {
	CasNumber        string
	Name             string
	URI              pgtype.Text
	InchiKey         pgtype.Text
	MolecularFormula pgtype.Text
	MolecularMass    pgtype.Float8
	HasMolfile       bool
	Image            pgtype.Text
}

// CreateSubstance inserts a substance row and returns its id. When a
// concurrent request already inserted the same CAS number the conflict
// clause suppresses the row and pgx.ErrNoRows is returned; callers
// re-select in that case.
func (q *Queries) CreateSubstance(ctx context.Context, arg CreateSubstanceParams) (int32, error) {
	row := q.db.QueryRow(ctx, createSubstance,
		arg.CasNumber,
		arg.Name,
		arg.URI,
		arg.InchiKey,
		arg.MolecularFormula,
		arg.MolecularMass,
		arg.HasMolfile,
		arg.Image,
	)
	var id int32
	err := row.Scan(&id)
	return id, err
}

type CreateSynonymsParams struct {
	SubstanceID int32
	Names       []string
}

// CreateSynonyms bulk-inserts synonym rows for a substance
func (q *Queries) CreateSynonyms(ctx context.Context, arg CreateSynonymsParams) (int64, error) {
	rows := make([][]interface{}, 0, len(arg.Names))
	for _, name := range arg.Names {
		rows = append(rows, []interface{}{arg.SubstanceID, name})
	}
	return q.db.CopyFrom(ctx,
		pgx.Identifier{"substance_synonyms"},
		[]string{"substance_id", "name"},
		pgx.CopyFromRows(rows),
	)
}

type CreatePropertiesParams struct {
	SubstanceID int32
	Kind        PropertyKind
	Properties  []PropertyValue
}

// PropertyValue is one property row to insert
type PropertyValue struct {
	Name         string
	Value        string
	Unit         pgtype.Text
	SourceNumber pgtype.Text
}

// CreateProperties bulk-inserts experimental or predicted property rows
func (q *Queries) CreateProperties(ctx context.Context, arg CreatePropertiesParams) (int64, error) {
	rows := make([][]interface{}, 0, len(arg.Properties))
	for _, p := range arg.Properties {
		rows = append(rows, []interface{}{arg.SubstanceID, string(arg.Kind), p.Name, p.Value, p.Unit, p.SourceNumber})
	}
	return q.db.CopyFrom(ctx,
		pgx.Identifier{"substance_properties"},
		[]string{"substance_id", "kind", "name", "value", "unit", "source_number"},
		pgx.CopyFromRows(rows),
	)
}

type CreateCitationsParams struct {
	SubstanceID int32
	Citations   []CitationValue
}

// CitationValue is one citation row to insert
type CitationValue struct {
	DocURI       pgtype.Text
	SourceNumber pgtype.Text
	SourceTitle  pgtype.Text
}

// CreateCitations bulk-inserts citation rows for a substance
func (q *Queries) CreateCitations(ctx context.Context, arg CreateCitationsParams) (int64, error) {
	rows := make([][]interface{}, 0, len(arg.Citations))
	for _, c := range arg.Citations {
		rows = append(rows, []interface{}{arg.SubstanceID, c.DocURI, c.SourceNumber, c.SourceTitle})
	}
	return q.db.CopyFrom(ctx,
		pgx.Identifier{"substance_citations"},
		[]string{"substance_id", "doc_uri", "source_number", "source_title"},
		pgx.CopyFromRows(rows),
	)
}
