package chemicals

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// formulaMarkup matches the HTML tags registry formulas arrive with,
// e.g. "C<sub>6</sub>H<sub>6</sub>".
var formulaMarkup = regexp.MustCompile(`<[^>]+>`)

// stripFormulaMarkup removes HTML markup from a molecular formula so it
// is stored as plain text ("C6H6").
func stripFormulaMarkup(formula string) string {
	return formulaMarkup.ReplaceAllString(formula, "")
}

// parseMolecularMass converts the registry's string mass to a nullable
// float. Non-numeric values like "N/A" or an empty string become null.
func parseMolecularMass(mass string) pgtype.Float8 {
	mass = strings.TrimSpace(mass)
	if mass == "" {
		return pgtype.Float8{}
	}
	v, err := strconv.ParseFloat(mass, 64)
	if err != nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: v, Valid: true}
}

// extByContentType maps the image media types we accept to file
// extensions for the blob key.
var extByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// decodeImageDataURL parses a "data:image/png;base64,...." payload and
// returns the raw bytes, the media type and a file extension.
func decodeImageDataURL(dataURL string) (data []byte, contentType, ext string, err error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, "", "", fmt.Errorf("not a data URL")
	}
	meta, encoded, found := strings.Cut(dataURL[len("data:"):], ",")
	if !found {
		return nil, "", "", fmt.Errorf("malformed data URL")
	}

	contentType, _, _ = strings.Cut(meta, ";")
	if !strings.Contains(meta, "base64") {
		return nil, "", "", fmt.Errorf("unsupported data URL encoding")
	}

	ext, ok := extByContentType[contentType]
	if !ok {
		return nil, "", "", fmt.Errorf("unsupported image type %q", contentType)
	}

	data, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", "", fmt.Errorf("empty image payload")
	}

	return data, contentType, ext, nil
}

// dateLayouts are tried in order when parsing a purchase date
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02.01.2006",
	"01/02/2006",
}

// parseFlexibleDate parses a purchase date in any of the accepted
// layouts. Unparseable or empty input becomes null.
func parseFlexibleDate(value string) pgtype.Date {
	value = strings.TrimSpace(value)
	if value == "" {
		return pgtype.Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return pgtype.Date{Time: t, Valid: true}
		}
	}
	return pgtype.Date{}
}
