// Package normalization maps loosely written configuration values onto typed enums.
package normalization

import (
	"fmt"
	"sort"
	"strings"

	"github.com/projectsol/solclient/internal/foundation/errors"
)

// Normalizer converts user input to an enum value, case- and whitespace-insensitively.
type Normalizer[T comparable] struct {
	field        string
	validValues  map[string]T
	defaultValue T
	validKeys    []string // Cached for error messages
}

// NewNormalizer creates a normalizer for the named field. The keys of values are
// normalized the same way as input.
func NewNormalizer[T comparable](field string, values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))

	for k, v := range values {
		key := clean(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	sort.Strings(validKeys)

	return &Normalizer[T]{
		field:        field,
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// Normalize returns the matching value, or the default for empty or unknown input.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, ok := n.validValues[clean(raw)]; ok {
		return value
	}
	return n.defaultValue
}

// Lookup reports whether raw names a known value.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	value, ok := n.validValues[clean(raw)]
	return value, ok
}

// Parse is Normalize with a config error for unknown input. Empty input yields the default.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	if clean(raw) == "" {
		return n.defaultValue, nil
	}
	if value, ok := n.validValues[clean(raw)]; ok {
		return value, nil
	}
	var zero T
	return zero, errors.ConfigError(fmt.Sprintf("invalid %s %q, valid options: %s", n.field, raw, strings.Join(n.validKeys, ", "))).
		WithContext("field", n.field).
		WithContext("value", raw).
		Build()
}

// ValidKeys returns all valid normalized keys, sorted.
func (n *Normalizer[T]) ValidKeys() []string {
	result := make([]string, len(n.validKeys))
	copy(result, n.validKeys)
	return result
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
