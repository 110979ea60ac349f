package ingest

import (
	"sort"

	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/scalar"
)

// LoadingReport allows to inspect the contents of an ingested roster.
type LoadingReport struct {
	NumberOfRecords int           `json:"records"`
	Sources         []string      `json:"sources"`
	Fields          []FieldRange  `json:"fields"`
	DateCoverage    *DateCoverage `json:"date_coverage,omitempty"`
}

// FieldRange summarizes one observed field across all records.
type FieldRange struct {
	Field        string  `json:"field"`
	Count        int     `json:"present_count"`
	NumericCount int     `json:"numeric_count,omitempty"`
	Min          float64 `json:"min_value,omitempty"`
	Max          float64 `json:"max_value,omitempty"`
}

// DateCoverage summarizes the join-date span of the roster.
type DateCoverage struct {
	Field string `json:"field"`
	Count int    `json:"dated_records"`
	First string `json:"first"`
	Last  string `json:"last"`
}

// Report produces a [LoadingReport], which allows for closer inspection of
// the content of ingested input.
func (p *Loader) Report() LoadingReport {
	r := LoadingReport{
		NumberOfRecords: len(p.records),
		Sources:         p.sources,
	}

	rangeIdx := make(map[string]int)

	for _, record := range p.records {
		for field, value := range record {
			if value == nil {
				continue
			}

			idx, seen := rangeIdx[field]
			if !seen {
				idx = len(r.Fields)
				rangeIdx[field] = idx
				r.Fields = append(r.Fields, FieldRange{Field: field})
			}

			observed := r.Fields[idx]
			observed.Count++

			if numeric, ok := scalar.Number(value); ok {
				if observed.NumericCount == 0 || numeric < observed.Min {
					observed.Min = numeric
				}
				if observed.NumericCount == 0 || numeric > observed.Max {
					observed.Max = numeric
				}
				observed.NumericCount++
			}

			r.Fields[idx] = observed
		}
	}

	sort.Slice(r.Fields, func(i, j int) bool {
		return r.Fields[i].Field < r.Fields[j].Field
	})

	r.DateCoverage = p.dateCoverage(config.FieldDateJoined.String())

	return r
}

// FieldNames returns the sorted names of all observed fields, feeding
// [config.Generate].
func (p *Loader) FieldNames() []string {
	seen := make(map[string]struct{})
	var names []string

	for _, record := range p.records {
		for field := range record {
			if _, ok := seen[field]; ok {
				continue
			}
			seen[field] = struct{}{}
			names = append(names, field)
		}
	}

	sort.Strings(names)

	return names
}

func (p *Loader) dateCoverage(field string) *DateCoverage {
	coverage := &DateCoverage{Field: field}

	for _, record := range p.records {
		value, ok := record[field]
		if !ok {
			continue
		}

		date, ok := scalar.Date(value)
		if !ok {
			continue
		}

		// canonical dates compare lexicographically
		if coverage.Count == 0 || date < coverage.First {
			coverage.First = date
		}
		if coverage.Count == 0 || date > coverage.Last {
			coverage.Last = date
		}
		coverage.Count++
	}

	if coverage.Count == 0 {
		return nil
	}

	return coverage
}
