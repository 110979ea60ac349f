// Package table implements the roster table's view pipeline: free-text
// search, categorical filters, and a stable multi-key sort trail.
//
// The pipeline never mutates the dataset. Search narrows the candidate
// pool first, filters narrow it further, and sorting orders a fresh copy
// of whatever survives.
package table

import (
	"sort"

	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/model"
	"github.com/rosterlab/rosterviz/internal/pkg/scalar"
)

// SortDirection orders one sort key.
type SortDirection string

// Supported sort directions.
const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortKey is one entry of a sort trail: a column and a direction.
type SortKey struct {
	Field     config.FieldName
	Direction SortDirection
}

// SortTrail is an ordered list of sort keys, primary first. The zero value
// is an empty trail.
type SortTrail []SortKey

// Toggle cycles the trail for one column.
//
// Toggling the primary column cycles asc, desc, removed. Toggling any
// other column promotes it to primary ascending and drops its prior
// occurrence, so a column appears at most once.
func (t SortTrail) Toggle(field config.FieldName) SortTrail {
	if len(t) > 0 && t[0].Field == field {
		switch t[0].Direction {
		case Ascending:
			return append(SortTrail{{Field: field, Direction: Descending}}, t[1:]...)
		default:
			return append(SortTrail{}, t[1:]...)
		}
	}

	next := SortTrail{{Field: field, Direction: Ascending}}
	for _, key := range t {
		if key.Field == field {
			continue
		}
		next = append(next, key)
	}

	return next
}

// FilterSet maps a field to the set of accepted tokens.
//
// Tokens are the sanitized categorical values of [model.Record.Categorical]:
// absent and blank values match the [scalar.Missing] sentinel. Fields
// absent from the set, or present with no tokens, constrain nothing.
type FilterSet map[config.FieldName][]string

// Toggle flips one token's membership and returns the updated set.
func (f FilterSet) Toggle(field config.FieldName, token string) FilterSet {
	next := make(FilterSet, len(f))
	for key, tokens := range f {
		if key == field {
			continue
		}
		next[key] = tokens
	}

	kept := make([]string, 0, len(f[field])+1)
	found := false
	for _, existing := range f[field] {
		if existing == token {
			found = true

			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		kept = append(kept, token)
	}

	if len(kept) > 0 {
		next[field] = kept
	}

	return next
}

// View derives table projections from a dataset under one table
// configuration.
type View struct {
	cfg      *config.Config
	collator *model.LabelComparator
}

// New [View] for the given configuration.
func New(cfg *config.Config) *View {
	return &View{
		cfg:      cfg,
		collator: model.NewLabelComparator(),
	}
}

// Search keeps the records whose identity fields contain the term,
// case-insensitively. A blank term keeps everything.
func (v *View) Search(records []model.Record, term string) []model.Record {
	if term == "" {
		return records
	}

	matched := make([]model.Record, 0, len(records))
	for _, record := range records {
		if record.MatchesSearch(term) {
			matched = append(matched, record)
		}
	}

	return matched
}

// Filter keeps the records matching every active field constraint.
//
// A record passes a field constraint when its sanitized value is one of
// the accepted tokens (OR within a field, AND across fields).
func (v *View) Filter(records []model.Record, filters FilterSet) []model.Record {
	active := make(FilterSet, len(filters))
	for field, tokens := range filters {
		if len(tokens) > 0 {
			active[field] = tokens
		}
	}
	if len(active) == 0 {
		return records
	}

	kept := make([]model.Record, 0, len(records))
	for _, record := range records {
		if v.matches(record, active) {
			kept = append(kept, record)
		}
	}

	return kept
}

func (v *View) matches(record model.Record, filters FilterSet) bool {
	for field, tokens := range filters {
		value := record.Categorical(field.String())
		accepted := false
		for _, token := range tokens {
			if token == value {
				accepted = true

				break
			}
		}
		if !accepted {
			return false
		}
	}

	return true
}

// FilterOptions lists the distinct sanitized tokens of a filterable field,
// in collator order.
func (v *View) FilterOptions(records []model.Record, field config.FieldName) []string {
	seen := make(map[string]struct{})
	var tokens []string

	for _, record := range records {
		token := record.Categorical(field.String())
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		return v.collator.Less(tokens[i], tokens[j])
	})

	return tokens
}

// Sort orders a copy of the records by the sort trail.
//
// Each key compares numerically when both operands parse strictly as
// numbers, and through the locale-aware collator otherwise. The first
// non-zero comparison wins; keys referencing non-sortable columns are
// skipped. The sort is stable, so records equal under the whole trail
// keep their input order.
func (v *View) Sort(records []model.Record, trail SortTrail) []model.Record {
	if len(trail) == 0 {
		return records
	}

	sortable := v.cfg.Table.SortableFields()

	sorted := make([]model.Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		for _, key := range trail {
			if _, ok := sortable[key.Field]; !ok {
				continue
			}

			comparison := v.compare(sorted[i], sorted[j], key.Field)
			if comparison == 0 {
				continue
			}
			if key.Direction == Descending {
				return comparison > 0
			}

			return comparison < 0
		}

		return false
	})

	return sorted
}

func (v *View) compare(left, right model.Record, field config.FieldName) int {
	leftRaw, _ := left.Field(field.String())
	rightRaw, _ := right.Field(field.String())

	leftNumber, leftOK := scalar.Number(leftRaw)
	rightNumber, rightOK := scalar.Number(rightRaw)
	if leftOK && rightOK {
		switch {
		case leftNumber < rightNumber:
			return -1
		case leftNumber > rightNumber:
			return 1
		default:
			return 0
		}
	}

	return v.collator.Compare(
		left.Categorical(field.String()),
		right.Categorical(field.String()),
	)
}
