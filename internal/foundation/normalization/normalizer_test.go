package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/projectsol/solclient/internal/foundation/errors"
)

type format string

const (
	formatHTML format = "html"
	formatText format = "text"
	formatJSON format = "json"
)

func newFormats() *Normalizer[format] {
	return NewNormalizer("format", map[string]format{
		"html": formatHTML,
		"Text": formatText,
		"json": formatJSON,
	}, formatText)
}

func TestNormalize(t *testing.T) {
	n := newFormats()

	tests := []struct {
		name     string
		input    string
		expected format
	}{
		{"exact match", "html", formatHTML},
		{"case insensitive", "JSON", formatJSON},
		{"key normalized too", "text", formatText},
		{"with spaces", "  html  ", formatHTML},
		{"unknown falls back", "pdf", formatText},
		{"empty falls back", "", formatText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestParse(t *testing.T) {
	n := newFormats()

	v, err := n.Parse(" HTML")
	require.NoError(t, err)
	require.Equal(t, formatHTML, v)

	v, err = n.Parse("")
	require.NoError(t, err)
	require.Equal(t, formatText, v)

	_, err = n.Parse("pdf")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.Contains(t, err.Error(), `invalid format "pdf", valid options: html, json, text`)
}

func TestLookupAndKeys(t *testing.T) {
	n := newFormats()

	_, ok := n.Lookup("pdf")
	require.False(t, ok)
	v, ok := n.Lookup("Json")
	require.True(t, ok)
	require.Equal(t, formatJSON, v)

	keys := n.ValidKeys()
	require.Equal(t, []string{"html", "json", "text"}, keys)
	keys[0] = "mutated"
	require.Equal(t, "html", n.ValidKeys()[0])
}
