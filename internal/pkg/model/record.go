// Package model defines the roster data model and the derived structures
// produced by the aggregation, hierarchy, ranking and table engines.
//
// A [Record] is a loosely typed field map as delivered by the roster API;
// consumers coerce values on read through the scalar parsers. Derived
// structures ([Timeline], [Hierarchy], [Ranking], [Radar]) are plain data
// consumed by the chart package.
package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rosterlab/rosterviz/internal/pkg/scalar"
)

// Field chains used for identity resolution, in priority order.
var (
	// LabelFields resolves a record's displayed identity.
	LabelFields = []string{"name_code", "code", "name_real"}

	// IdentifierFields resolves a record's canonical identifier.
	IdentifierFields = []string{"ID", "id", "operator_id"}

	// SearchFields are the identity fields matched by free-text search.
	SearchFields = []string{"name_code", "code", "name_real"}
)

// Record is a single roster entry: a mapping from field name to a scalar
// value. Fields are not strictly typed at rest.
type Record map[string]any

// Field returns the raw value of a field.
func (r Record) Field(key string) (any, bool) {
	value, ok := r[key]
	if !ok || value == nil {
		return nil, false
	}

	return value, true
}

// Text returns the trimmed string form of a field value.
//
// Absent, nil and blank values report ok=false.
func (r Record) Text(key string) (string, bool) {
	value, ok := r.Field(key)
	if !ok {
		return "", false
	}

	text := strings.TrimSpace(fmt.Sprint(value))
	if text == "" {
		return "", false
	}

	return text, true
}

// Categorical returns the sanitized categorical value of a field, with
// absent and blank values normalized to the [scalar.Missing] sentinel.
//
// Filters and group-by partitioning match against this form.
func (r Record) Categorical(key string) string {
	text, ok := r.Text(key)
	if !ok {
		return scalar.Missing
	}

	return text
}

// Label resolves the record's displayed identity through the first
// non-blank field of [LabelFields], or the given fallback.
func (r Record) Label(fallback string) string {
	for _, key := range LabelFields {
		if text, ok := r.Text(key); ok {
			return text
		}
	}

	return fallback
}

// Identifier resolves the record's canonical identifier through the first
// non-blank field of [IdentifierFields], or the stringified positional
// index of the record in its dataset.
func (r Record) Identifier(index int) string {
	for _, key := range IdentifierFields {
		if text, ok := r.Text(key); ok {
			return text
		}
	}

	return strconv.Itoa(index)
}

// MatchesSearch reports whether any of the record's identity fields
// contains the given term, case-insensitively.
//
// A blank term matches every record.
func (r Record) MatchesSearch(term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}

	for _, key := range SearchFields {
		text, ok := r.Text(key)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(text), needle) {
			return true
		}
	}

	return false
}
