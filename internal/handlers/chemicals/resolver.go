package chemicals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"chem_inventory/internal/config"
	"chem_inventory/internal/database"
	"chem_inventory/internal/observability"
	"chem_inventory/internal/registry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// SubstanceStore is the persistence surface the resolver depends on
type SubstanceStore interface {
	GetSubstanceByCasNumber(ctx context.Context, casNumber string) (database.Substance, error)
	CreateSubstance(ctx context.Context, arg database.CreateSubstanceParams) (int32, error)
	CreateSynonyms(ctx context.Context, arg database.CreateSynonymsParams) (int64, error)
	CreateProperties(ctx context.Context, arg database.CreatePropertiesParams) (int64, error)
	CreateCitations(ctx context.Context, arg database.CreateCitationsParams) (int64, error)
}

// Fetcher retrieves substance reference data from the external registry
type Fetcher interface {
	Fetch(ctx context.Context, casNumber string) (*registry.Record, error)
}

// Resolver returns the internal substance key for a CAS number, creating
// the substance from registry data on first sight.
type Resolver struct {
	store   SubstanceStore
	fetcher Fetcher
	logger  *slog.Logger
	metrics *observability.WorkflowMetrics
}

func NewResolver(store SubstanceStore, fetcher Fetcher, logger *slog.Logger, metrics *observability.WorkflowMetrics) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, fetcher: fetcher, logger: logger, metrics: metrics}
}

// Resolve returns the substance id for casNumber and whether the row was
// created by this call. The registry is consulted only when the
// substance is not yet known.
func (r *Resolver) Resolve(ctx context.Context, casNumber string) (int32, bool, error) {
	existing, err := r.store.GetSubstanceByCasNumber(ctx, casNumber)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, &WorkflowError{
			Kind: config.ErrKindLookup,
			Err:  fmt.Errorf("substance lookup for %s failed: %w", casNumber, err),
		}
	}

	record, err := r.fetcher.Fetch(ctx, casNumber)
	if err != nil {
		if r.metrics != nil {
			r.metrics.RegistryFetches.WithLabelValues("error").Inc()
		}
		return 0, false, &WorkflowError{Kind: config.ErrKindRegistry, Err: err}
	}
	if r.metrics != nil {
		r.metrics.RegistryFetches.WithLabelValues("success").Inc()
	}

	id, err := r.store.CreateSubstance(ctx, substanceParams(casNumber, record))
	if errors.Is(err, pgx.ErrNoRows) {
		// A concurrent request inserted the same CAS number between our
		// lookup and insert; the conflict clause suppressed the row.
		existing, selErr := r.store.GetSubstanceByCasNumber(ctx, casNumber)
		if selErr != nil {
			return 0, false, &WorkflowError{
				Kind: config.ErrKindPersistence,
				Err:  fmt.Errorf("substance %s lost insert race and re-select failed: %w", casNumber, selErr),
			}
		}
		return existing.ID, false, nil
	}
	if err != nil {
		return 0, false, &WorkflowError{
			Kind: config.ErrKindPersistence,
			Err:  fmt.Errorf("failed to create substance %s: %w", casNumber, err),
		}
	}
	if r.metrics != nil {
		r.metrics.SubstancesCreated.Inc()
	}

	outcomes := r.insertAuxiliary(ctx, id, record)
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			r.logger.Error("auxiliary insert failed",
				"collection", outcome.Name,
				"cas_number", casNumber,
				"substance_id", id,
				"error", outcome.Err,
			)
			if r.metrics != nil {
				r.metrics.AuxiliaryFailures.WithLabelValues(outcome.Name).Inc()
			}
		}
	}

	return id, true, nil
}

// substanceParams maps a registry record onto insert parameters,
// defaulting missing optional fields to null/false.
func substanceParams(casNumber string, record *registry.Record) database.CreateSubstanceParams {
	params := database.CreateSubstanceParams{
		CasNumber:        casNumber,
		Name:             record.Name,
		URI:              textOrNull(record.URI),
		InchiKey:         textOrNull(record.InchiKey),
		MolecularFormula: textOrNull(stripFormulaMarkup(record.MolecularFormula)),
		MolecularMass:    parseMolecularMass(record.MolecularMass),
		HasMolfile:       record.HasMolfile,
	}
	if len(record.Images) > 0 {
		params.Image = textOrNull(record.Images[0])
	}
	return params
}

// BatchOutcome is the per-collection result of the auxiliary inserts
type BatchOutcome struct {
	Name string
	Rows int64
	Err  error
}

// insertAuxiliary bulk-inserts all non-empty auxiliary collections
// concurrently and reports a per-collection outcome. Failures do not
// roll back the substance row or each other.
func (r *Resolver) insertAuxiliary(ctx context.Context, substanceID int32, record *registry.Record) []BatchOutcome {
	type task struct {
		name string
		run  func() (int64, error)
	}

	var tasks []task
	if len(record.Synonyms) > 0 {
		tasks = append(tasks, task{"synonyms", func() (int64, error) {
			return r.store.CreateSynonyms(ctx, database.CreateSynonymsParams{
				SubstanceID: substanceID,
				Names:       record.Synonyms,
			})
		}})
	}
	if len(record.ExperimentalProperties) > 0 {
		tasks = append(tasks, task{"experimental_properties", func() (int64, error) {
			return r.store.CreateProperties(ctx, propertyParams(substanceID, database.PropertyKindExperimental, record.ExperimentalProperties))
		}})
	}
	if len(record.PredictedProperties) > 0 {
		tasks = append(tasks, task{"predicted_properties", func() (int64, error) {
			return r.store.CreateProperties(ctx, propertyParams(substanceID, database.PropertyKindPredicted, record.PredictedProperties))
		}})
	}
	if len(record.PropertyCitations) > 0 {
		tasks = append(tasks, task{"citations", func() (int64, error) {
			return r.store.CreateCitations(ctx, citationParams(substanceID, record.PropertyCitations))
		}})
	}

	outcomes := make([]BatchOutcome, len(tasks))
	var wg sync.WaitGroup
	for i, t := range tasks {
		wg.Add(1)
		go func(i int, t task) {
			defer wg.Done()
			rows, err := t.run()
			outcomes[i] = BatchOutcome{Name: t.name, Rows: rows, Err: err}
		}(i, t)
	}
	wg.Wait()

	return outcomes
}

func propertyParams(substanceID int32, kind database.PropertyKind, props []registry.Property) database.CreatePropertiesParams {
	params := database.CreatePropertiesParams{SubstanceID: substanceID, Kind: kind}
	for _, p := range props {
		params.Properties = append(params.Properties, database.PropertyValue{
			Name:         p.Name,
			Value:        p.Property,
			Unit:         textOrNull(p.Unit),
			SourceNumber: textOrNull(p.SourceNumber),
		})
	}
	return params
}

func citationParams(substanceID int32, citations []registry.Citation) database.CreateCitationsParams {
	params := database.CreateCitationsParams{SubstanceID: substanceID}
	for _, c := range citations {
		params.Citations = append(params.Citations, database.CitationValue{
			DocURI:       textOrNull(c.DocURI),
			SourceNumber: textOrNull(c.SourceNumber),
			SourceTitle:  textOrNull(c.Source),
		})
	}
	return params
}

// textOrNull builds a pgtype.Text that is null for the empty string
func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
