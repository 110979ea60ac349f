// Package analytics derives the multi-dimensional stat views of the
// dashboard: parallel-coordinates datasets, class-grouped scatters and
// per-class box-plot distributions.
package analytics

import (
	"log/slog"
	"sort"

	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/model"
	"github.com/rosterlab/rosterviz/internal/pkg/scalar"
)

const (
	unknownOperator = "Unknown Operator"
	classFallback   = "unclassified"
)

// Builder derives [model.Parallel], [model.Scatter] and [model.BoxPlot]
// results from a dataset.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	cfg      *config.Config
	collator *model.LabelComparator
	l        *slog.Logger
}

// New [Builder] for the given configuration.
func New(cfg *config.Config) *Builder {
	return &Builder{
		cfg:      cfg,
		collator: model.NewLabelComparator(),
		l:        slog.Default().With(slog.String("module", "analytics")),
	}
}

// Parallel projects every record onto the configured dimensions.
//
// Numeric dimensions must parse strictly; a record failing any of them
// drops out of the whole dataset. Skill dimensions fall back to the
// decoded rating tier when the raw value is not a number. Every other
// dimension encodes as an ordinal category, distinct labels numbered in
// first-seen order, with the dimension fallback standing in for absent
// values.
//
// It returns nil when no record survives.
func (b *Builder) Parallel(dataset *model.Dataset, spec config.Parallel) *model.Parallel {
	type axis struct {
		kind       config.FieldKind
		peak       float64
		ordinals   map[string]int
		categories []string
	}

	axes := make([]*axis, len(spec.Dimensions))
	for i, dim := range spec.Dimensions {
		axes[i] = &axis{
			kind:     dim.Field.Kind(),
			ordinals: make(map[string]int),
		}
	}

	var rows [][]float64

records:
	for _, record := range dataset.Records() {
		row := make([]float64, len(spec.Dimensions))

		for i, dim := range spec.Dimensions {
			raw, _ := record.Field(dim.Field.String())

			switch axes[i].kind {
			case config.KindNumeric:
				value, ok := scalar.Number(raw)
				if !ok {
					continue records
				}
				row[i] = value
				axes[i].peak = max(axes[i].peak, value)

			case config.KindSkill:
				value, ok := scalar.Number(raw)
				if !ok {
					rating := scalar.ParseSkillRating(raw)
					if !rating.Known() {
						continue records
					}
					value = float64(rating.Best())
				}
				row[i] = value
				axes[i].peak = max(axes[i].peak, value)

			default:
				label, ok := record.Text(dim.Field.String())
				if !ok {
					label = dim.Fallback
				}
				ordinal, seen := axes[i].ordinals[label]
				if !seen {
					ordinal = len(axes[i].categories)
					axes[i].ordinals[label] = ordinal
					axes[i].categories = append(axes[i].categories, label)
				}
				row[i] = float64(ordinal)
			}
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		b.l.Warn("no qualifying records", slog.String("parallel", spec.ID))

		return nil
	}

	dimensions := make([]model.ParallelDimension, len(spec.Dimensions))
	for i, dim := range spec.Dimensions {
		dimension := model.ParallelDimension{
			Label: b.cfg.FieldTitle(dim.Field),
		}

		switch axes[i].kind {
		case config.KindNumeric, config.KindSkill:
			dimension.Max = axes[i].peak
			if dimension.Max <= 0 {
				dimension.Max = 1
			}
		default:
			dimension.Categories = axes[i].categories
			dimension.Max = float64(len(axes[i].categories) - 1)
			if dimension.Max < 1 {
				dimension.Max = 1
			}
		}

		dimensions[i] = dimension
	}

	return &model.Parallel{
		ID:         spec.ID,
		Title:      spec.Title,
		Dimensions: dimensions,
		Rows:       rows,
		Count:      len(rows),
	}
}

// Scatter plots records on two numeric fields, grouped by class.
//
// Only records where both coordinates parse strictly are plotted. Colors
// follow the sorted order of the class labels across the whole dataset,
// so a class keeps its color even when some of its records do not plot.
//
// It returns nil when no record qualifies.
func (b *Builder) Scatter(dataset *model.Dataset, spec config.Scatter) *model.Scatter {
	colors := b.classColors(dataset)

	points := make(map[string][]model.ScatterPoint)
	for _, record := range dataset.Records() {
		rawX, _ := record.Field(spec.X.String())
		x, ok := scalar.Number(rawX)
		if !ok {
			continue
		}

		rawY, _ := record.Field(spec.Y.String())
		y, ok := scalar.Number(rawY)
		if !ok {
			continue
		}

		class := b.class(record)
		points[class] = append(points[class], model.ScatterPoint{
			X:     x,
			Y:     y,
			Label: record.Label(unknownOperator),
			Tag:   record.Categorical(config.FieldRarity.String()),
		})
	}

	if len(points) == 0 {
		b.l.Warn("no qualifying records", slog.String("scatter", spec.ID))

		return nil
	}

	classes := make([]string, 0, len(points))
	for class := range points {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool {
		return b.collator.Less(classes[i], classes[j])
	})

	groups := make([]model.ScatterGroup, 0, len(classes))
	for _, class := range classes {
		groups = append(groups, model.ScatterGroup{
			Label:      class,
			ColorIndex: colors[class],
			Points:     points[class],
		})
	}

	return &model.Scatter{
		ID:     spec.ID,
		Title:  spec.Title,
		XTitle: b.cfg.FieldTitle(spec.X),
		YTitle: b.cfg.FieldTitle(spec.Y),
		Groups: groups,
	}
}

// Box summarizes the distribution of one numeric field per class.
//
// Each class with at least one strictly parseable value yields a
// five-number summary. Classes come out in collated label order.
//
// It returns nil when no record qualifies.
func (b *Builder) Box(dataset *model.Dataset, spec config.BoxPlot) *model.BoxPlot {
	samples := make(map[string][]float64)
	for _, record := range dataset.Records() {
		raw, _ := record.Field(spec.Field.String())
		value, ok := scalar.Number(raw)
		if !ok {
			continue
		}

		class := b.class(record)
		samples[class] = append(samples[class], value)
	}

	if len(samples) == 0 {
		b.l.Warn("no qualifying records", slog.String("box", spec.ID))

		return nil
	}

	classes := make([]string, 0, len(samples))
	for class := range samples {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool {
		return b.collator.Less(classes[i], classes[j])
	})

	groups := make([]model.BoxGroup, 0, len(classes))
	for _, class := range classes {
		values := samples[class]
		groups = append(groups, model.BoxGroup{
			Label:   class,
			Count:   len(values),
			Summary: fiveNumberSummary(values),
		})
	}

	return &model.BoxPlot{
		ID:     spec.ID,
		Title:  spec.Title,
		Groups: groups,
	}
}

func (b *Builder) class(record model.Record) string {
	label, ok := record.Text(config.FieldClass.String())
	if !ok {
		return classFallback
	}

	return label
}

// classColors assigns every class of the dataset a stable color slot,
// following the collated order of the class labels.
func (b *Builder) classColors(dataset *model.Dataset) map[string]int {
	seen := make(map[string]struct{})
	var classes []string

	for _, record := range dataset.Records() {
		class := b.class(record)
		if _, ok := seen[class]; ok {
			continue
		}
		seen[class] = struct{}{}
		classes = append(classes, class)
	}

	sort.Slice(classes, func(i, j int) bool {
		return b.collator.Less(classes[i], classes[j])
	})

	colors := make(map[string]int, len(classes))
	for i, class := range classes {
		colors[class] = i
	}

	return colors
}

// fiveNumberSummary computes min, first quartile, median, third quartile
// and max, with quartiles linearly interpolated between order statistics.
func fiveNumberSummary(values []float64) [5]float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return [5]float64{
		sorted[0],
		quantile(sorted, 0.25),
		quantile(sorted, 0.5),
		quantile(sorted, 0.75),
		sorted[len(sorted)-1],
	}
}

// quantile interpolates over a sorted sample. p must be in [0, 1].
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := p * float64(len(sorted)-1)
	lower := int(pos)
	fraction := pos - float64(lower)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}

	return sorted[lower] + fraction*(sorted[lower+1]-sorted[lower])
}
