package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const benzeneDetail = `{
	"rn": "71-43-2",
	"name": "Benzene",
	"uri": "substance/pt/71432",
	"inchiKey": "UHOVQNZJYSORNB-UHFFFAOYSA-N",
	"molecularFormula": "C<sub>6</sub>H<sub>6</sub>",
	"molecularMass": "78.11",
	"hasMolfile": true,
	"images": ["https://registry.example/image/71-43-2.svg"],
	"synonyms": ["Benzol", "Cyclohexatriene"],
	"experimentalProperties": [
		{"name": "Boiling Point", "property": "80.1", "unit": "°C", "sourceNumber": "1"}
	],
	"predictedProperties": [],
	"propertyCitations": [
		{"docUri": "document/pt/document/22771355", "sourceNumber": "1", "source": "PhysProp data"}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, keyInHeader bool) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		KeyInHeader: keyInHeader,
		HTTPClient:  srv.Client(),
	})
	require.NoError(t, err)
	return client
}

func TestFetchDecodesRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/detail", r.URL.Path)
		assert.Equal(t, "71-43-2", r.URL.Query().Get("cas_rn"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(benzeneDetail))
	}, true)

	record, err := client.Fetch(context.Background(), "71-43-2")
	require.NoError(t, err)

	assert.Equal(t, "71-43-2", record.RN)
	assert.Equal(t, "Benzene", record.Name)
	assert.Equal(t, "C<sub>6</sub>H<sub>6</sub>", record.MolecularFormula)
	assert.Equal(t, "78.11", record.MolecularMass)
	assert.True(t, record.HasMolfile)
	assert.Len(t, record.Synonyms, 2)
	require.Len(t, record.ExperimentalProperties, 1)
	assert.Equal(t, "Boiling Point", record.ExperimentalProperties[0].Name)
	require.Len(t, record.PropertyCitations, 1)
	assert.Equal(t, "PhysProp data", record.PropertyCitations[0].Source)
}

func TestFetchSendsKeyInHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		assert.Empty(t, r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"rn": "71-43-2", "name": "Benzene"}`))
	}, true)

	_, err := client.Fetch(context.Background(), "71-43-2")
	require.NoError(t, err)
}

func TestFetchSendsKeyAsQueryParam(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Empty(t, r.Header.Get("X-API-Key"))
		w.Write([]byte(`{"rn": "71-43-2", "name": "Benzene"}`))
	}, false)

	_, err := client.Fetch(context.Background(), "71-43-2")
	require.NoError(t, err)
}

func TestFetchNonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Detail not found"}`))
	}, true)

	_, err := client.Fetch(context.Background(), "0-00-0")
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Body, "Detail not found")
}

func TestFetchTruncatesErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 4096)))
	}, true)

	_, err := client.Fetch(context.Background(), "71-43-2")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Len(t, fetchErr.Body, maxErrorBody)
}

func TestFetchInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}, true)

	_, err := client.Fetch(context.Background(), "71-43-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestNewClientRequiresBaseURLAndKey(t *testing.T) {
	_, err := NewClient(Config{APIKey: "k"})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "https://registry.example"})
	assert.Error(t, err)
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fetch(ctx, "71-43-2")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
