// Package registry implements the client for the external chemistry
// registry consulted on first sight of a new CAS number.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// maxErrorBody bounds how much of a failed response body is carried in
// a FetchError.
const maxErrorBody = 512

// Config holds construction parameters for Client
type Config struct {
	// BaseURL is the registry endpoint, without trailing slash
	BaseURL string

	// APIKey authenticates every request
	APIKey string

	// KeyInHeader sends the key as the X-API-Key header instead of the
	// api_key query parameter
	KeyInHeader bool

	// HTTPClient is used for all requests. Defaults to http.DefaultClient,
	// which carries no deadline of its own; callers that need one must
	// supply a client with a Timeout.
	HTTPClient *http.Client

	// Logger for structured logging
	Logger *slog.Logger
}

// Client fetches substance reference data by CAS registry number.
// A single attempt per call; no retry.
type Client struct {
	baseURL     string
	apiKey      string
	keyInHeader bool
	http        *http.Client
	logger      *slog.Logger
}

// NewClient creates a registry client from Config
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("registry base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("registry API key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		keyInHeader: cfg.KeyInHeader,
		http:        httpClient,
		logger:      logger,
	}, nil
}

// Record is the registry payload for one substance
type Record struct {
	RN                     string     `json:"rn"`
	Name                   string     `json:"name"`
	URI                    string     `json:"uri"`
	InchiKey               string     `json:"inchiKey"`
	MolecularFormula       string     `json:"molecularFormula"`
	MolecularMass          string     `json:"molecularMass"`
	HasMolfile             bool       `json:"hasMolfile"`
	Images                 []string   `json:"images"`
	Synonyms               []string   `json:"synonyms"`
	ExperimentalProperties []Property `json:"experimentalProperties"`
	PredictedProperties    []Property `json:"predictedProperties"`
	PropertyCitations      []Citation `json:"propertyCitations"`
}

// Property is one experimental or predicted property entry
type Property struct {
	Name         string `json:"name"`
	Property     string `json:"property"`
	Unit         string `json:"unit"`
	SourceNumber string `json:"sourceNumber"`
}

// Citation is one literature reference entry
type Citation struct {
	DocURI       string `json:"docUri"`
	SourceNumber string `json:"sourceNumber"`
	Source       string `json:"source"`
}

// FetchError reports a non-success registry response
type FetchError struct {
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("registry fetch failed with status %d: %s", e.StatusCode, e.Body)
}

// Fetch retrieves the substance record for a CAS registry number
func (c *Client) Fetch(ctx context.Context, casNumber string) (*Record, error) {
	u, err := url.Parse(c.baseURL + "/detail")
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %w", err)
	}

	query := u.Query()
	query.Set("cas_rn", casNumber)
	if !c.keyInHeader {
		query.Set("api_key", c.apiKey)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.keyInHeader {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("registry returned non-success status",
			"cas_number", casNumber,
			"status", resp.StatusCode,
		)
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var record Record
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}

	c.logger.Debug("registry record fetched", "cas_number", casNumber, "name", record.Name)
	return &record, nil
}
