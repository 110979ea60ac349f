package ranking

import (
	"log/slog"

	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/model"
	"github.com/rosterlab/rosterviz/internal/pkg/scalar"
)

// CohortScope selects the records a comparison subject is measured
// against.
type CohortScope string

// Supported cohort scopes.
const (
	ScopeAll   CohortScope = "all"   // the full roster
	ScopeClass CohortScope = "class" // records sharing the subject's class
	ScopeJob   CohortScope = "job"   // records sharing the subject's job
)

// IsValid reports whether the cohort scope is supported.
func (s CohortScope) IsValid() bool {
	switch s {
	case ScopeAll, ScopeClass, ScopeJob:
		return true
	default:
		return false
	}
}

// FieldStats aggregates one numeric field over a cohort.
type FieldStats struct {
	Min   float64
	Max   float64
	Sum   float64
	Count int
}

// Avg returns the arithmetic mean, or 0 for an empty cohort.
func (s FieldStats) Avg() float64 {
	if s.Count == 0 {
		return 0
	}

	return s.Sum / float64(s.Count)
}

// Cohort measures the radar axis fields over the records in scope
// relative to a subject record.
//
// Records whose field value does not parse are excluded from that field's
// statistics only.
func (e *Engine) Cohort(dataset *model.Dataset, subject model.Record, scope CohortScope) map[config.FieldName]FieldStats {
	stats := make(map[config.FieldName]FieldStats, len(e.cfg.Radar.Axes))

	for _, record := range dataset.Records() {
		if !inScope(record, subject, scope) {
			continue
		}

		for _, field := range e.cfg.Radar.Axes {
			raw, _ := record.Field(field.String())
			value, ok := scalar.Loose(raw)
			if !ok {
				continue
			}

			entry, seen := stats[field]
			if !seen || value < entry.Min {
				entry.Min = value
			}
			if !seen || value > entry.Max {
				entry.Max = value
			}
			entry.Sum += value
			entry.Count++
			stats[field] = entry
		}
	}

	return stats
}

func inScope(record, subject model.Record, scope CohortScope) bool {
	switch scope {
	case ScopeClass:
		return record.Categorical(config.FieldClass.String()) == subject.Categorical(config.FieldClass.String())
	case ScopeJob:
		return record.Categorical(config.FieldJob.String()) == subject.Categorical(config.FieldJob.String())
	default:
		return true
	}
}

// Radar builds the normalized comparison radar: the primary operator, the
// cohort average, and an optional second operator, all scaled to [0, 1]
// against the cohort's per-axis extrema.
//
// It returns nil when the dataset is empty or no radar axes are
// configured.
func (e *Engine) Radar(dataset *model.Dataset, primary, compare model.Record, scope CohortScope) *model.Radar {
	axes := e.cfg.Radar.Axes
	if dataset.Len() == 0 || len(axes) == 0 {
		e.l.Warn("no radar to build", slog.Int("records", dataset.Len()))

		return nil
	}

	stats := e.Cohort(dataset, primary, scope)

	out := &model.Radar{
		Axes: make([]string, 0, len(axes)),
	}
	for _, field := range axes {
		out.Axes = append(out.Axes, e.cfg.FieldTitle(field))
	}

	out.Vectors = append(out.Vectors, e.vector(primary.Label(UnknownOperator), primary, stats))
	out.Vectors = append(out.Vectors, e.averageVector(stats, scope))
	if compare != nil {
		out.Vectors = append(out.Vectors, e.vector(compare.Label(UnknownOperator), compare, stats))
	}

	return out
}

func (e *Engine) vector(label string, record model.Record, stats map[config.FieldName]FieldStats) model.RadarVector {
	values := make([]float64, 0, len(e.cfg.Radar.Axes))
	for _, field := range e.cfg.Radar.Axes {
		raw, _ := record.Field(field.String())
		value, ok := scalar.Loose(raw)
		if !ok {
			values = append(values, 0)

			continue
		}

		values = append(values, e.normalize(field, value, stats[field]))
	}

	return model.RadarVector{Label: label, Values: values}
}

func (e *Engine) averageVector(stats map[config.FieldName]FieldStats, scope CohortScope) model.RadarVector {
	label := "Average"
	if scope != ScopeAll && scope.IsValid() {
		label += " (" + string(scope) + ")"
	}

	values := make([]float64, 0, len(e.cfg.Radar.Axes))
	for _, field := range e.cfg.Radar.Axes {
		entry := stats[field]
		if entry.Count == 0 {
			values = append(values, 0)

			continue
		}

		values = append(values, e.normalize(field, entry.Avg(), entry))
	}

	return model.RadarVector{Label: label, Values: values}
}

// normalize scales a value against the cohort extrema of its field.
//
// Regular fields divide by the cohort maximum; inverted fields, where
// lower is better, scale as (max-value)/(max-min) and collapse to the
// mid-point when the cohort carries a single distinct value.
func (e *Engine) normalize(field config.FieldName, value float64, stats FieldStats) float64 {
	if e.cfg.IsInverted(field) {
		spread := stats.Max - stats.Min
		if spread == 0 {
			return 0.5
		}

		return clamp01((stats.Max - value) / spread)
	}

	if stats.Max <= 0 {
		return 0
	}

	return clamp01(value / stats.Max)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
