// Package hierarchy rolls the roster up into nested categorical
// breakdowns for sunburst rendering.
//
// Each configured hierarchy is a list of ring levels. Every record walks
// the levels from root to leaf and increments one node per ring; a node's
// identity is the level key, its sanitized label and the full parent
// chain, so equal labels under different parents stay distinct. Leaf nodes
// additionally carry the record's identifier, keeping one slice per
// operator even when operators share a code name.
package hierarchy

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/model"
)

// Builder derives [model.Hierarchy] results from a dataset.
type Builder struct {
	cfg *config.Config
	l   *slog.Logger
}

// New [Builder] for the given configuration.
func New(cfg *config.Config) *Builder {
	return &Builder{
		cfg: cfg,
		l:   slog.Default().With(slog.String("module", "hierarchy")),
	}
}

type node struct {
	id     string
	label  string
	parent string
	value  float64
}

// Build runs one configured level walk over the dataset.
//
// It returns nil when the dataset is empty or the hierarchy defines no
// levels.
func (b *Builder) Build(dataset *model.Dataset, spec config.Hierarchy) *model.Hierarchy {
	records := dataset.Records()
	if spec.Transform == config.TransformAffiliationSplit {
		records = splitByAffiliation(records)
	}

	if len(records) == 0 || len(spec.Levels) == 0 {
		b.l.Warn("nothing to roll up", slog.String("hierarchy", spec.ID))

		return nil
	}

	nodes := make(map[string]*node)
	var order []string

	for index, record := range records {
		parentID := ""

		for i, level := range spec.Levels {
			label := resolveLevelLabel(record, level)
			leaf := level.Leaf || i == len(spec.Levels)-1

			id := level.Key + "::" + label
			if parentID != "" {
				id += "::" + parentID
			}
			if leaf {
				id += "::" + leafSuffix(record, index)
			}

			entry, seen := nodes[id]
			if !seen {
				entry = &node{id: id, label: label, parent: parentID}
				nodes[id] = entry
				order = append(order, id)
			}

			entry.value++
			parentID = id
		}
	}

	out := &model.Hierarchy{
		Labels:  make([]string, 0, len(order)),
		Parents: make([]string, 0, len(order)),
		Values:  make([]float64, 0, len(order)),
		IDs:     make([]string, 0, len(order)),
	}

	for _, id := range order {
		entry := nodes[id]
		out.Labels = append(out.Labels, entry.label)
		out.Parents = append(out.Parents, entry.parent)
		out.Values = append(out.Values, entry.value)
		out.IDs = append(out.IDs, entry.id)
	}

	return out
}

// resolveLevelLabel reads the ring label of a record at one level.
//
// Leaf levels resolve through the identity label chain rather than the
// level's field alone, so a record missing its code name still shows its
// real name.
func resolveLevelLabel(record model.Record, level config.Level) string {
	if level.Leaf {
		return record.Label(level.Fallback)
	}

	raw, _ := record.Field(level.Field.String())

	return sanitizeLabel(raw, level.Fallback)
}

func sanitizeLabel(value any, fallback string) string {
	switch v := value.(type) {
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}

	return fallback
}

// leafSuffix disambiguates leaf nodes: the record's raw ID field when set,
// else its positional index.
func leafSuffix(record model.Record, index int) string {
	if raw, ok := record.Field(config.FieldID.String()); ok {
		return strings.TrimSpace(fmt.Sprint(raw))
	}

	return strconv.Itoa(index)
}

// splitByAffiliation expands each record into one synthetic row per
// declared affiliation, so an operator with both a primary and a
// secondary affiliation counts once under each. Records without any
// affiliation yield a single row that falls back to the level's
// "unaffiliated" label.
func splitByAffiliation(records []model.Record) []model.Record {
	out := make([]model.Record, 0, len(records))

	withLabel := func(record model.Record, label any) model.Record {
		row := make(model.Record, len(record)+1)
		for k, v := range record {
			row[k] = v
		}
		row[config.FieldAffiliationLabel.String()] = label

		return row
	}

	for _, record := range records {
		split := false

		if primary, ok := affiliationValue(record, config.FieldAffiliationPrimary.String()); ok {
			out = append(out, withLabel(record, primary))
			split = true
		}
		if secondary, ok := affiliationValue(record, config.FieldAffiliationSecondary.String()); ok {
			out = append(out, withLabel(record, secondary))
			split = true
		}
		if !split {
			out = append(out, withLabel(record, nil))
		}
	}

	return out
}

// affiliationValue reports a usable affiliation: non-blank strings and
// any non-nil non-string value qualify.
func affiliationValue(record model.Record, key string) (any, bool) {
	raw, ok := record.Field(key)
	if !ok {
		return nil, false
	}

	if text, isString := raw.(string); isString {
		if strings.TrimSpace(text) == "" {
			return nil, false
		}
	}

	return raw, true
}
