// Package timeline builds cumulative series over the roster's join-date
// axis.
//
// Every builder shares the same walk: records without a parseable date are
// dropped, the rest are partitioned by an optional group key, bucketed by
// exact date, then emitted as a cumulative walk over ascending dates. A
// pass with zero qualifying records yields nil, which the presentation
// layer maps to an empty-state placeholder.
package timeline

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/model"
	"github.com/rosterlab/rosterviz/internal/pkg/scalar"
)

const (
	aggregateKey   = "all"
	aggregateLabel = "total operators"
)

// Builder derives [model.TimelineSet] results from a dataset.
//
// Results are memoized on (dataset version, timeline ID): re-running the
// same aggregation against the same dataset is a map lookup. A Builder is
// not safe for concurrent use.
type Builder struct {
	cfg      *config.Config
	collator *model.LabelComparator
	memo     map[string]*model.TimelineSet
	l        *slog.Logger
}

// New [Builder] for the given configuration.
func New(cfg *config.Config) *Builder {
	return &Builder{
		cfg:      cfg,
		collator: model.NewLabelComparator(),
		memo:     make(map[string]*model.TimelineSet),
		l:        slog.Default().With(slog.String("module", "timeline")),
	}
}

// Build runs one configured aggregation over the dataset.
//
// It returns nil when no record carries a parseable date in the timeline's
// date field.
func (b *Builder) Build(dataset *model.Dataset, spec config.Timeline) *model.TimelineSet {
	key := dataset.Version() + "::" + spec.ID
	if cached, ok := b.memo[key]; ok {
		return cached
	}

	var result *model.TimelineSet

	switch spec.Metric {
	case config.MetricCount:
		result = b.buildCount(dataset, spec)
	case config.MetricAverage:
		result = b.buildAverage(dataset, spec)
	case config.MetricMax, config.MetricMin:
		result = b.buildExtrema(dataset, spec)
	}

	if result == nil {
		b.l.Warn("no qualifying records", slog.String("timeline", spec.ID))
	}

	b.memo[key] = result

	return result
}

// colorAssigner hands out stable color indices in first-seen key order,
// independently of the final legend sort order.
type colorAssigner map[string]int

func (c colorAssigner) indexOf(key string) int {
	if idx, ok := c[key]; ok {
		return idx
	}

	idx := len(c)
	c[key] = idx

	return idx
}

type span struct {
	start string
	end   string
	total int
}

func (s *span) observe(date string) {
	if s.total == 0 || date < s.start {
		s.start = date
	}
	if s.total == 0 || date > s.end {
		s.end = date
	}
	s.total++
}

func (b *Builder) resolveGroup(record model.Record, spec config.Timeline) (key, label string) {
	if spec.GroupBy == "" {
		return aggregateKey, aggregateLabel
	}

	value, _ := record.Field(spec.GroupBy.String())
	label = groupLabel(value, spec.Fallback)

	return label, label
}

// groupLabel sanitizes a raw group value: trimmed non-blank strings and
// finite numbers stand, everything else falls back.
func groupLabel(value any, fallback string) string {
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

type countGroup struct {
	key    string
	label  string
	counts map[string]int
}

func (b *Builder) buildCount(dataset *model.Dataset, spec config.Timeline) *model.TimelineSet {
	groups := make(map[string]*countGroup)
	var order []string
	colors := make(colorAssigner)
	var walked span

	for _, record := range dataset.Records() {
		raw, _ := record.Field(spec.Date.String())
		date, ok := scalar.Date(raw)
		if !ok {
			continue
		}

		key, label := b.resolveGroup(record, spec)
		group, seen := groups[key]
		if !seen {
			group = &countGroup{key: key, label: label, counts: make(map[string]int)}
			groups[key] = group
			order = append(order, key)
		}

		group.counts[date]++
		walked.observe(date)
	}

	if walked.total == 0 {
		return nil
	}

	aggregate := spec.GroupBy == ""
	series := make([]model.Series, 0, len(order))

	for _, key := range order {
		group := groups[key]
		points := make([]model.SeriesPoint, 0, len(group.counts))

		var cumulative float64
		for _, date := range sortedDates(group.counts) {
			cumulative += float64(group.counts[date])
			points = append(points, model.SeriesPoint{Axis: date, Value: cumulative})
		}

		label := group.label
		if aggregate {
			label = aggregateLabel
		}

		series = append(series, model.Series{
			Label:      label,
			ColorIndex: colors.indexOf(group.key),
			Points:     points,
		})
	}

	sort.SliceStable(series, func(i, j int) bool {
		return b.collator.Less(series[i].Label, series[j].Label)
	})

	return &model.TimelineSet{
		Plots: []model.Timeline{{
			ID:        spec.ID,
			Title:     spec.Title,
			AxisTitle: "operator count (cumulative)",
			Series:    series,
		}},
		Start: walked.start,
		End:   walked.end,
		Total: walked.total,
	}
}

type avgStat struct {
	sumByDate   map[string]float64
	countByDate map[string]int
}

type avgGroup struct {
	key   string
	label string
	dates map[string]struct{}
	stats map[config.FieldName]*avgStat
}

func (b *Builder) buildAverage(dataset *model.Dataset, spec config.Timeline) *model.TimelineSet {
	groups := make(map[string]*avgGroup)
	colors := make(colorAssigner)
	var walked span

	for _, record := range dataset.Records() {
		raw, _ := record.Field(spec.Date.String())
		date, ok := scalar.Date(raw)
		if !ok {
			continue
		}

		walked.observe(date)

		key, label := b.resolveGroup(record, spec)
		group, seen := groups[key]
		if !seen {
			group = &avgGroup{
				key:   key,
				label: label,
				dates: make(map[string]struct{}),
				stats: make(map[config.FieldName]*avgStat),
			}
			groups[key] = group
		}

		group.dates[date] = struct{}{}

		// a record with an unparseable stat still counts toward the
		// other stats in the same pass
		for _, stat := range spec.Values {
			value, parsed := scalar.Number(recordValue(record, stat))
			if !parsed {
				continue
			}

			entry, tracked := group.stats[stat]
			if !tracked {
				entry = &avgStat{
					sumByDate:   make(map[string]float64),
					countByDate: make(map[string]int),
				}
				group.stats[stat] = entry
			}

			entry.sumByDate[date] += value
			entry.countByDate[date]++
		}
	}

	if walked.total == 0 {
		return nil
	}

	aggregate := spec.GroupBy == ""
	plots := b.statPlots(spec, " (cumulative avg)")

	for _, group := range b.sortedGroups(groups) {
		dates := make([]string, 0, len(group.dates))
		for date := range group.dates {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		for i, stat := range spec.Values {
			entry, tracked := group.stats[stat]
			if !tracked {
				continue
			}

			var cumulativeSum float64
			var cumulativeCount int
			points := make([]model.SeriesPoint, 0, len(dates))

			for _, date := range dates {
				dailyCount := entry.countByDate[date]
				if dailyCount == 0 && cumulativeCount == 0 {
					// no division before the first observation
					continue
				}

				cumulativeSum += entry.sumByDate[date]
				cumulativeCount += dailyCount

				points = append(points, model.SeriesPoint{
					Axis:  date,
					Value: cumulativeSum / float64(cumulativeCount),
				})
			}

			if len(points) == 0 {
				continue
			}

			label, colorKey := b.seriesIdentity(aggregate, stat, group.key, group.label)
			plots[i].Series = append(plots[i].Series, model.Series{
				Label:      label,
				ColorIndex: colors.indexOf(colorKey),
				Points:     points,
			})
		}
	}

	return b.finishStatSet(plots, walked)
}

type extremaBucket struct {
	max float64
	min float64
}

type extremaGroup struct {
	key   string
	label string
	stats map[config.FieldName]map[string]extremaBucket
}

func (b *Builder) buildExtrema(dataset *model.Dataset, spec config.Timeline) *model.TimelineSet {
	groups := make(map[string]*extremaGroup)
	colors := make(colorAssigner)
	var walked span

	for _, record := range dataset.Records() {
		raw, _ := record.Field(spec.Date.String())
		date, ok := scalar.Date(raw)
		if !ok {
			continue
		}

		walked.observe(date)

		key, label := b.resolveGroup(record, spec)
		group, seen := groups[key]
		if !seen {
			group = &extremaGroup{
				key:   key,
				label: label,
				stats: make(map[config.FieldName]map[string]extremaBucket),
			}
			groups[key] = group
		}

		for _, stat := range spec.Values {
			value, parsed := scalar.Number(recordValue(record, stat))
			if !parsed {
				continue
			}

			buckets, tracked := group.stats[stat]
			if !tracked {
				buckets = make(map[string]extremaBucket)
				group.stats[stat] = buckets
			}

			bucket, dated := buckets[date]
			if !dated {
				bucket = extremaBucket{max: math.Inf(-1), min: math.Inf(1)}
			}
			bucket.max = math.Max(bucket.max, value)
			bucket.min = math.Min(bucket.min, value)
			buckets[date] = bucket
		}
	}

	if walked.total == 0 {
		return nil
	}

	axisSuffix := " (running max)"
	if spec.Metric == config.MetricMin {
		axisSuffix = " (running min)"
	}

	aggregate := spec.GroupBy == ""
	plots := b.statPlots(spec, axisSuffix)

	for _, group := range b.sortedExtremaGroups(groups) {
		for i, stat := range spec.Values {
			buckets, tracked := group.stats[stat]
			if !tracked {
				continue
			}

			running := math.Inf(-1)
			if spec.Metric == config.MetricMin {
				running = math.Inf(1)
			}

			points := make([]model.SeriesPoint, 0, len(buckets))
			for _, date := range sortedBucketDates(buckets) {
				bucket := buckets[date]
				if spec.Metric == config.MetricMin {
					running = math.Min(running, bucket.min)
				} else {
					running = math.Max(running, bucket.max)
				}

				points = append(points, model.SeriesPoint{Axis: date, Value: running})
			}

			if len(points) == 0 {
				continue
			}

			label, colorKey := b.seriesIdentity(aggregate, stat, group.key, group.label)
			plots[i].Series = append(plots[i].Series, model.Series{
				Label:      label,
				ColorIndex: colors.indexOf(colorKey),
				Points:     points,
			})
		}
	}

	return b.finishStatSet(plots, walked)
}

// statPlots prepares one plot per stat field, in configured order.
func (b *Builder) statPlots(spec config.Timeline, axisSuffix string) []model.Timeline {
	plots := make([]model.Timeline, 0, len(spec.Values))
	for _, stat := range spec.Values {
		title := b.cfg.FieldTitle(stat)
		plots = append(plots, model.Timeline{
			ID:        spec.ID + "-" + stat.String(),
			Title:     title,
			AxisTitle: title + axisSuffix,
		})
	}

	return plots
}

// seriesIdentity resolves the display label and the color key of one
// series: under the implicit "all" group, series split per stat field and
// take the stat's identity; under a group-by, they take the group's.
func (b *Builder) seriesIdentity(aggregate bool, stat config.FieldName, groupKey, groupLabel string) (label, colorKey string) {
	if aggregate {
		return b.cfg.FieldTitle(stat), stat.String()
	}

	return groupLabel, groupKey
}

// finishStatSet drops plots that gathered no series and folds the result.
func (b *Builder) finishStatSet(plots []model.Timeline, walked span) *model.TimelineSet {
	kept := make([]model.Timeline, 0, len(plots))
	for _, plot := range plots {
		if len(plot.Series) == 0 {
			continue
		}
		kept = append(kept, plot)
	}

	if len(kept) == 0 {
		return nil
	}

	return &model.TimelineSet{
		Plots: kept,
		Start: walked.start,
		End:   walked.end,
		Total: walked.total,
	}
}

func (b *Builder) sortedGroups(groups map[string]*avgGroup) []*avgGroup {
	out := make([]*avgGroup, 0, len(groups))
	for _, group := range groups {
		out = append(out, group)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return b.collator.Less(out[i].label, out[j].label)
	})

	return out
}

func (b *Builder) sortedExtremaGroups(groups map[string]*extremaGroup) []*extremaGroup {
	out := make([]*extremaGroup, 0, len(groups))
	for _, group := range groups {
		out = append(out, group)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return b.collator.Less(out[i].label, out[j].label)
	})

	return out
}

func recordValue(record model.Record, field config.FieldName) any {
	value, _ := record.Field(field.String())

	return value
}

func sortedDates(counts map[string]int) []string {
	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	return dates
}

func sortedBucketDates(buckets map[string]extremaBucket) []string {
	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	return dates
}
