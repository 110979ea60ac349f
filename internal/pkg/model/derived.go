package model

import "slices"

// SeriesPoint is a single data point of a series: an axis value (a
// normalized "YYYY-MM-DD" date for timelines) and the metric value at that
// axis position.
type SeriesPoint struct {
	Axis  string
	Value float64
}

// Series is an ordered sequence of points, monotonic along the axis.
//
// Axis values are unique and sorted ascending within one series. ColorIndex
// is assigned in first-seen order during aggregation and is stable for
// identical input, independently of the final legend sort order.
type Series struct {
	Label      string
	ColorIndex int
	Points     []SeriesPoint
}

// Axes returns the axis values of the series, in order.
func (s Series) Axes() []string {
	axes := make([]string, 0, len(s.Points))
	for _, point := range s.Points {
		axes = append(axes, point.Axis)
	}

	return axes
}

// Timeline regroups the series of one cumulative aggregation pass, to be
// rendered on a single chart.
type Timeline struct {
	ID        string
	Title     string
	AxisTitle string
	Series    []Series
}

// Axes returns the merged axis values across all series, deduplicated and
// sorted ascending. Valid because dates are normalized to "YYYY-MM-DD",
// which sorts lexicographically.
func (t *Timeline) Axes() []string {
	seen := make(map[string]struct{})
	var merged []string

	for _, series := range t.Series {
		for _, point := range series.Points {
			if _, ok := seen[point.Axis]; ok {
				continue
			}
			seen[point.Axis] = struct{}{}
			merged = append(merged, point.Axis)
		}
	}

	slices.Sort(merged)

	return merged
}

// TimelineSet is the result of one aggregation pass: one or more timeline
// plots (stat-valued aggregations produce one plot per stat field) plus the
// covered date span and the number of contributing records.
type TimelineSet struct {
	Plots []Timeline
	Start string
	End   string
	Total int
}

// Hierarchy is the flat node-set form of a nested categorical breakdown,
// one entry per node across the four parallel slices.
//
// Parents references nodes by ID; the empty string denotes the root. Every
// node's value equals the sum of its children's values: the increment at
// every level on every record visit is the rollup.
type Hierarchy struct {
	Labels  []string
	Parents []string
	Values  []float64
	IDs     []string
}

// Len returns the number of nodes.
func (h *Hierarchy) Len() int {
	return len(h.IDs)
}

// RootTotal returns the summed value of the root's direct children, which
// by construction equals the number of qualifying input rows.
func (h *Hierarchy) RootTotal() float64 {
	var total float64
	for i, parent := range h.Parents {
		if parent == "" {
			total += h.Values[i]
		}
	}

	return total
}

// RankingEntry is one leaderboard row: the entity label, the numeric value
// used for ordering, and the value formatted for display.
type RankingEntry struct {
	Label   string
	Value   float64
	Display string
}

// Ranking is a top-N leaderboard for one metric.
type Ranking struct {
	Title   string
	Entries []RankingEntry
}

// Labels returns the entry labels in rank order.
func (r *Ranking) Labels() []string {
	labels := make([]string, 0, len(r.Entries))
	for _, entry := range r.Entries {
		labels = append(labels, entry.Label)
	}

	return labels
}

// Values returns the entry values in rank order.
func (r *Ranking) Values() []float64 {
	values := make([]float64, 0, len(r.Entries))
	for _, entry := range r.Entries {
		values = append(values, entry.Value)
	}

	return values
}

// ParallelDimension is one axis of a parallel-coordinates dataset.
//
// Numeric dimensions carry a [0, Max] range and leave Categories empty.
// Categorical dimensions encode each distinct label as its first-seen
// ordinal and list the labels, in ordinal order, in Categories.
type ParallelDimension struct {
	Label      string
	Max        float64
	Categories []string
}

// Parallel is a parallel-coordinates dataset: the dimension axes plus one
// encoded row per retained record, values aligned with Dimensions.
type Parallel struct {
	ID         string
	Title      string
	Dimensions []ParallelDimension
	Rows       [][]float64
	Count      int
}

// ScatterPoint is one plotted record: its two coordinates, the operator
// label, and a short tag shown next to the marker.
type ScatterPoint struct {
	X     float64
	Y     float64
	Label string
	Tag   string
}

// ScatterGroup regroups the points of one class. ColorIndex follows the
// sort order of the class labels and is stable for identical input.
type ScatterGroup struct {
	Label      string
	ColorIndex int
	Points     []ScatterPoint
}

// Scatter is a class-grouped projection of two numeric fields.
type Scatter struct {
	ID     string
	Title  string
	XTitle string
	YTitle string
	Groups []ScatterGroup
}

// BoxGroup is the five-number summary of one class: min, first quartile,
// median, third quartile and max, in that order, plus the sample count.
type BoxGroup struct {
	Label   string
	Count   int
	Summary [5]float64
}

// BoxPlot is a per-class distribution summary of one numeric field.
type BoxPlot struct {
	ID     string
	Title  string
	Groups []BoxGroup
}

// RadarVector is one comparison subject: a label and its values normalized
// to [0, 1], aligned with the axes of the enclosing [Radar].
type RadarVector struct {
	Label  string
	Values []float64
}

// Radar is a multi-axis comparison dataset: axis labels plus one normalized
// vector per compared subject.
type Radar struct {
	Axes    []string
	Vectors []RadarVector
}
