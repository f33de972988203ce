package chemicals

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFormulaMarkup(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"C<sub>6</sub>H<sub>6</sub>", "C6H6"},
		{"H<sub>2</sub>O", "H2O"},
		{"NaCl", "NaCl"},
		{"", ""},
		{"C<sub>2</sub>H<sub>5</sub>OH", "C2H5OH"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, stripFormulaMarkup(tc.in), "input %q", tc.in)
	}
}

func TestParseMolecularMass(t *testing.T) {
	got := parseMolecularMass("78.11")
	require.True(t, got.Valid)
	assert.InDelta(t, 78.11, got.Float64, 0.001)

	got = parseMolecularMass(" 18.02 ")
	require.True(t, got.Valid)
	assert.InDelta(t, 18.02, got.Float64, 0.001)

	assert.False(t, parseMolecularMass("").Valid)
	assert.False(t, parseMolecularMass("N/A").Valid)
	assert.False(t, parseMolecularMass("78.11 g/mol").Valid)
}

func TestDecodeImageDataURL(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	data, contentType, ext, err := decodeImageDataURL(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, "png", ext)
}

func TestDecodeImageDataURLJPEG(t *testing.T) {
	encoded := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg"))

	_, contentType, ext, err := decodeImageDataURL(encoded)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, "jpg", ext)
}

func TestDecodeImageDataURLRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"https://example.com/image.png",
		"data:image/png;base64",
		"data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hi")),
		"data:image/png;base64,!!!",
		"data:image/png,plain-not-base64",
		"data:image/png;base64," + base64.StdEncoding.EncodeToString(nil),
	}
	for _, in := range cases {
		_, _, _, err := decodeImageDataURL(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseFlexibleDate(t *testing.T) {
	got := parseFlexibleDate("2026-08-15")
	require.True(t, got.Valid)
	assert.Equal(t, 2026, got.Time.Year())
	assert.Equal(t, 15, got.Time.Day())

	got = parseFlexibleDate("15.08.2026")
	require.True(t, got.Valid)
	assert.Equal(t, 2026, got.Time.Year())

	assert.False(t, parseFlexibleDate("").Valid)
	assert.False(t, parseFlexibleDate("not a date").Valid)
}
