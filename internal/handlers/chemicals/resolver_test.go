package chemicals

import (
	"context"
	"errors"
	"sync"
	"testing"

	"chem_inventory/internal/config"
	"chem_inventory/internal/database"
	"chem_inventory/internal/registry"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubstanceStore struct {
	mu         sync.Mutex
	substances map[string]database.Substance

	lookupErr error
	createErr error
	// createConflict simulates a concurrent insert winning the race
	createConflict bool

	createdParams   *database.CreateSubstanceParams
	synonymsParams  *database.CreateSynonymsParams
	propertyBatches []database.CreatePropertiesParams
	citationsParams *database.CreateCitationsParams
	synonymsErr     error
}

func (f *fakeSubstanceStore) GetSubstanceByCasNumber(ctx context.Context, casNumber string) (database.Substance, error) {
	if f.lookupErr != nil {
		return database.Substance{}, f.lookupErr
	}
	if s, ok := f.substances[casNumber]; ok {
		return s, nil
	}
	return database.Substance{}, pgx.ErrNoRows
}

func (f *fakeSubstanceStore) CreateSubstance(ctx context.Context, arg database.CreateSubstanceParams) (int32, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	if f.createConflict {
		if f.substances == nil {
			f.substances = map[string]database.Substance{}
		}
		f.substances[arg.CasNumber] = database.Substance{ID: 99, CasNumber: arg.CasNumber, Name: arg.Name}
		return 0, pgx.ErrNoRows
	}
	f.createdParams = &arg
	return 7, nil
}

func (f *fakeSubstanceStore) CreateSynonyms(ctx context.Context, arg database.CreateSynonymsParams) (int64, error) {
	if f.synonymsErr != nil {
		return 0, f.synonymsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synonymsParams = &arg
	return int64(len(arg.Names)), nil
}

func (f *fakeSubstanceStore) CreateProperties(ctx context.Context, arg database.CreatePropertiesParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.propertyBatches = append(f.propertyBatches, arg)
	return int64(len(arg.Properties)), nil
}

func (f *fakeSubstanceStore) CreateCitations(ctx context.Context, arg database.CreateCitationsParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.citationsParams = &arg
	return int64(len(arg.Citations)), nil
}

type fakeFetcher struct {
	record *registry.Record
	err    error
	calls  int
}

func (f *fakeFetcher) Fetch(ctx context.Context, casNumber string) (*registry.Record, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func benzeneRecord() *registry.Record {
	return &registry.Record{
		RN:               "71-43-2",
		Name:             "Benzene",
		URI:              "substance/pt/71432",
		InchiKey:         "UHOVQNZJYSORNB-UHFFFAOYSA-N",
		MolecularFormula: "C<sub>6</sub>H<sub>6</sub>",
		MolecularMass:    "78.11",
		HasMolfile:       true,
		Images:           []string{"https://registry.example/image/71-43-2.svg"},
		Synonyms:         []string{"Benzol", "Cyclohexatriene"},
		ExperimentalProperties: []registry.Property{
			{Name: "Boiling Point", Property: "80.1", Unit: "°C", SourceNumber: "1"},
		},
		PropertyCitations: []registry.Citation{
			{DocURI: "document/pt/document/22771355", SourceNumber: "1", Source: "PhysProp data"},
		},
	}
}

func TestResolveReturnsExistingSubstanceWithoutFetch(t *testing.T) {
	store := &fakeSubstanceStore{
		substances: map[string]database.Substance{
			"71-43-2": {ID: 42, CasNumber: "71-43-2", Name: "Benzene"},
		},
	}
	fetcher := &fakeFetcher{}
	r := NewResolver(store, fetcher, nil, nil)

	id, isNew, err := r.Resolve(context.Background(), "71-43-2")
	require.NoError(t, err)
	assert.Equal(t, int32(42), id)
	assert.False(t, isNew)
	assert.Zero(t, fetcher.calls)
}

func TestResolveCreatesNewSubstanceFromRegistry(t *testing.T) {
	store := &fakeSubstanceStore{}
	fetcher := &fakeFetcher{record: benzeneRecord()}
	r := NewResolver(store, fetcher, nil, nil)

	id, isNew, err := r.Resolve(context.Background(), "71-43-2")
	require.NoError(t, err)
	assert.Equal(t, int32(7), id)
	assert.True(t, isNew)
	assert.Equal(t, 1, fetcher.calls)

	require.NotNil(t, store.createdParams)
	assert.Equal(t, "71-43-2", store.createdParams.CasNumber)
	assert.Equal(t, "Benzene", store.createdParams.Name)
	assert.Equal(t, "C6H6", store.createdParams.MolecularFormula.String)
	assert.InDelta(t, 78.11, store.createdParams.MolecularMass.Float64, 0.001)
	assert.True(t, store.createdParams.HasMolfile)
	assert.Equal(t, "https://registry.example/image/71-43-2.svg", store.createdParams.Image.String)

	require.NotNil(t, store.synonymsParams)
	assert.Equal(t, int32(7), store.synonymsParams.SubstanceID)
	assert.Equal(t, []string{"Benzol", "Cyclohexatriene"}, store.synonymsParams.Names)

	require.Len(t, store.propertyBatches, 1)
	assert.Equal(t, database.PropertyKindExperimental, store.propertyBatches[0].Kind)

	require.NotNil(t, store.citationsParams)
	require.Len(t, store.citationsParams.Citations, 1)
	assert.Equal(t, "PhysProp data", store.citationsParams.Citations[0].SourceTitle.String)
}

func TestResolveRegistryFailureIsFatal(t *testing.T) {
	store := &fakeSubstanceStore{}
	fetcher := &fakeFetcher{err: &registry.FetchError{StatusCode: 404, Body: "not found"}}
	r := NewResolver(store, fetcher, nil, nil)

	_, _, err := r.Resolve(context.Background(), "0-00-0")
	require.Error(t, err)
	assert.Equal(t, config.ErrKindRegistry, ErrorKind(err))
	assert.Nil(t, store.createdParams)
}

func TestResolveLookupFailureIsFatal(t *testing.T) {
	store := &fakeSubstanceStore{lookupErr: errors.New("connection refused")}
	fetcher := &fakeFetcher{record: benzeneRecord()}
	r := NewResolver(store, fetcher, nil, nil)

	_, _, err := r.Resolve(context.Background(), "71-43-2")
	require.Error(t, err)
	assert.Equal(t, config.ErrKindLookup, ErrorKind(err))
	assert.Zero(t, fetcher.calls)
}

func TestResolveLostInsertRaceReselects(t *testing.T) {
	store := &fakeSubstanceStore{createConflict: true}
	fetcher := &fakeFetcher{record: benzeneRecord()}
	r := NewResolver(store, fetcher, nil, nil)

	id, isNew, err := r.Resolve(context.Background(), "71-43-2")
	require.NoError(t, err)
	assert.Equal(t, int32(99), id)
	assert.False(t, isNew)
}

func TestResolveCreateFailureIsFatal(t *testing.T) {
	store := &fakeSubstanceStore{createErr: errors.New("constraint violation")}
	fetcher := &fakeFetcher{record: benzeneRecord()}
	r := NewResolver(store, fetcher, nil, nil)

	_, _, err := r.Resolve(context.Background(), "71-43-2")
	require.Error(t, err)
	assert.Equal(t, config.ErrKindPersistence, ErrorKind(err))
}

func TestResolveToleratesAuxiliaryFailures(t *testing.T) {
	store := &fakeSubstanceStore{synonymsErr: errors.New("copy failed")}
	fetcher := &fakeFetcher{record: benzeneRecord()}
	r := NewResolver(store, fetcher, nil, nil)

	id, isNew, err := r.Resolve(context.Background(), "71-43-2")
	require.NoError(t, err)
	assert.Equal(t, int32(7), id)
	assert.True(t, isNew)
	// The other collections still make it in
	assert.Len(t, store.propertyBatches, 1)
	assert.NotNil(t, store.citationsParams)
}

func TestResolveSkipsEmptyCollections(t *testing.T) {
	record := benzeneRecord()
	record.Synonyms = nil
	record.ExperimentalProperties = nil
	record.PropertyCitations = nil

	store := &fakeSubstanceStore{}
	fetcher := &fakeFetcher{record: record}
	r := NewResolver(store, fetcher, nil, nil)

	_, _, err := r.Resolve(context.Background(), "71-43-2")
	require.NoError(t, err)
	assert.Nil(t, store.synonymsParams)
	assert.Empty(t, store.propertyBatches)
	assert.Nil(t, store.citationsParams)
}
