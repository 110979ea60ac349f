// Package chart renders the derived roster structures as go-echarts
// charts assembled on a single HTML page.
//
// Timelines render as cumulative line charts, rankings as bar charts,
// hierarchies as sunbursts, comparisons as radars, and the
// multi-dimensional stat views as parallel coordinates, scatters and box
// plots. All constructors accept the shared functional options for
// titling, theming, sizing and legend placement.
package chart

import (
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rosterlab/rosterviz/internal/pkg/model"
	"github.com/rosterlab/rosterviz/internal/pkg/scalar"
)

// NewLine renders one timeline plot as a cumulative line chart.
//
// Series are aligned on the merged date axis: a series holds its last
// cumulative value over dates where only other series gained data, and
// stays blank before its first observation.
func NewLine(timeline *model.Timeline, opts ...Option) *charts.Line {
	o := optionsWithDefaults(opts)
	if o.Title == "" {
		o.Title = timeline.Title
	}
	if o.Colorway == nil {
		o.Colorway = timelineColorway
	}

	line := charts.NewLine()
	line.SetGlobalOptions(append(o.globalOptions(),
		charts.WithXAxisOpts(echartsopts.XAxis{
			Type: "category",
			AxisLabel: &echartsopts.AxisLabel{
				Rotate:       xAxisLabelAngle,
				ShowMinLabel: echartsopts.Bool(true),
				ShowMaxLabel: echartsopts.Bool(true),
			},
			AxisLine: &echartsopts.AxisLine{
				LineStyle: &echartsopts.LineStyle{Color: graphAxisLineColor},
			},
		}),
		charts.WithYAxisOpts(echartsopts.YAxis{
			Name: timeline.AxisTitle,
			Type: "value",
			AxisLine: &echartsopts.AxisLine{
				LineStyle: &echartsopts.LineStyle{Color: graphAxisLineColor},
			},
		}),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "axis",
		}),
	)...)

	axes := timeline.Axes()
	line.SetXAxis(axes)

	for _, series := range timeline.Series {
		color := seriesColor(o.Colorway, series.ColorIndex)
		line.AddSeries(series.Label, alignLinePoints(series, axes),
			charts.WithLineChartOpts(echartsopts.LineChart{
				ShowSymbol: echartsopts.Bool(true),
			}),
			charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(echartsopts.LineStyle{Color: color}),
		)
	}

	return line
}

// alignLinePoints projects one series onto the merged axis, carrying the
// last cumulative value forward across foreign dates.
func alignLinePoints(series model.Series, axes []string) []echartsopts.LineData {
	data := make([]echartsopts.LineData, 0, len(axes))

	next := 0
	var last any
	for _, axis := range axes {
		if next < len(series.Points) && series.Points[next].Axis == axis {
			last = series.Points[next].Value
			next++
		}

		data = append(data, echartsopts.LineData{Value: last})
	}

	return data
}

// NewBar renders one leaderboard as a bar chart, best entry first.
func NewBar(board *model.Ranking, opts ...Option) *charts.Bar {
	o := optionsWithDefaults(opts)
	if o.Title == "" {
		o.Title = board.Title
	}
	if o.Colorway == nil {
		o.Colorway = rankingColorway
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(o.globalOptions(),
		charts.WithXAxisOpts(echartsopts.XAxis{
			Type: "category",
			AxisLabel: &echartsopts.AxisLabel{
				Rotate:       xAxisLabelAngle,
				Interval:     "0",
				ShowMinLabel: echartsopts.Bool(true),
				ShowMaxLabel: echartsopts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(echartsopts.YAxis{
			Type:  "value",
			Scale: echartsopts.Bool(true),
		}),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "axis",
			AxisPointer: &echartsopts.AxisPointer{
				Type: "shadow",
			},
		}),
	)...)

	data := make([]echartsopts.BarData, 0, len(board.Entries))
	for _, entry := range board.Entries {
		data = append(data, echartsopts.BarData{
			Name:  entry.Display,
			Value: entry.Value,
		})
	}

	bar.SetXAxis(board.Labels())
	bar.AddSeries(board.Title, data)

	return bar
}

// NewSunburst renders one hierarchy as a sunburst chart.
func NewSunburst(hierarchy *model.Hierarchy, opts ...Option) *charts.Sunburst {
	o := optionsWithDefaults(opts)
	if o.Colorway == nil {
		o.Colorway = sunburstColorway
	}

	sunburst := charts.NewSunburst()
	sunburst.SetGlobalOptions(append(o.globalOptions(),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "item",
		}),
	)...)

	sunburst.AddSeries(o.Title, nestNodes(hierarchy))

	return sunburst
}

// nestNodes converts the flat parent-referencing node slices into the
// nested tree form echarts expects.
func nestNodes(hierarchy *model.Hierarchy) []echartsopts.SunBurstData {
	byID := make(map[string]*echartsopts.SunBurstData, hierarchy.Len())
	children := make(map[string][]string, hierarchy.Len())
	var roots []string

	for i, id := range hierarchy.IDs {
		byID[id] = &echartsopts.SunBurstData{
			Name:  hierarchy.Labels[i],
			Value: hierarchy.Values[i],
		}

		parent := hierarchy.Parents[i]
		if parent == "" {
			roots = append(roots, id)

			continue
		}
		children[parent] = append(children[parent], id)
	}

	var attach func(id string) *echartsopts.SunBurstData
	attach = func(id string) *echartsopts.SunBurstData {
		node := byID[id]
		for _, child := range children[id] {
			node.Children = append(node.Children, attach(child))
		}

		return node
	}

	data := make([]echartsopts.SunBurstData, 0, len(roots))
	for _, id := range roots {
		data = append(data, *attach(id))
	}

	return data
}

// NewParallel renders one parallel-coordinates dataset.
//
// Numeric dimensions span [0, max]; categorical dimensions carry their
// label ticks and rows reference the tick text, so echarts places them on
// the right ordinal.
func NewParallel(parallel *model.Parallel, opts ...Option) *charts.Parallel {
	o := optionsWithDefaults(opts)
	if o.Title == "" {
		o.Title = parallel.Title
	}
	if o.Colorway == nil {
		o.Colorway = timelineColorway
	}

	axes := make([]echartsopts.ParallelAxis, 0, len(parallel.Dimensions))
	for i, dimension := range parallel.Dimensions {
		axis := echartsopts.ParallelAxis{
			Dim:  i,
			Name: dimension.Label,
		}
		if len(dimension.Categories) > 0 {
			axis.Type = "category"
			axis.Data = dimension.Categories
		} else {
			axis.Max = dimension.Max
		}
		axes = append(axes, axis)
	}

	chart := charts.NewParallel()
	chart.SetGlobalOptions(append(o.globalOptions(),
		charts.WithParallelAxisList(axes),
	)...)

	data := make([]echartsopts.ParallelData, 0, len(parallel.Rows))
	for _, row := range parallel.Rows {
		values := make([]any, 0, len(row))
		for i, value := range row {
			if categories := parallel.Dimensions[i].Categories; len(categories) > 0 {
				values = append(values, categories[int(value)])

				continue
			}
			values = append(values, value)
		}
		data = append(data, echartsopts.ParallelData{Value: values})
	}

	chart.AddSeries(o.Title, data)

	return chart
}

// NewScatter renders one class-grouped scatter, one series per class.
func NewScatter(scatter *model.Scatter, opts ...Option) *charts.Scatter {
	o := optionsWithDefaults(opts)
	if o.Title == "" {
		o.Title = scatter.Title
	}
	if o.Colorway == nil {
		o.Colorway = rankingColorway
	}

	chart := charts.NewScatter()
	chart.SetGlobalOptions(append(o.globalOptions(),
		charts.WithXAxisOpts(echartsopts.XAxis{
			Name:  scatter.XTitle,
			Type:  "value",
			Scale: echartsopts.Bool(true),
			AxisLine: &echartsopts.AxisLine{
				LineStyle: &echartsopts.LineStyle{Color: graphAxisLineColor},
			},
		}),
		charts.WithYAxisOpts(echartsopts.YAxis{
			Name:  scatter.YTitle,
			Type:  "value",
			Scale: echartsopts.Bool(true),
			AxisLine: &echartsopts.AxisLine{
				LineStyle: &echartsopts.LineStyle{Color: graphAxisLineColor},
			},
		}),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "item",
		}),
	)...)

	for _, group := range scatter.Groups {
		data := make([]echartsopts.ScatterData, 0, len(group.Points))
		for _, point := range group.Points {
			name := point.Label
			if point.Tag != "" && point.Tag != scalar.Missing {
				name += " (" + point.Tag + ")"
			}

			data = append(data, echartsopts.ScatterData{
				Name:       name,
				Value:      []any{point.X, point.Y},
				SymbolSize: scatterSymbolSize,
			})
		}

		chart.AddSeries(group.Label, data,
			charts.WithItemStyleOpts(echartsopts.ItemStyle{
				Color: seriesColor(o.Colorway, group.ColorIndex),
			}),
		)
	}

	return chart
}

// NewBoxPlot renders one per-class distribution summary. Each class label
// carries its sample count.
func NewBoxPlot(box *model.BoxPlot, opts ...Option) *charts.BoxPlot {
	o := optionsWithDefaults(opts)
	if o.Title == "" {
		o.Title = box.Title
	}
	if o.Colorway == nil {
		o.Colorway = sunburstColorway
	}

	chart := charts.NewBoxPlot()
	chart.SetGlobalOptions(append(o.globalOptions(),
		charts.WithXAxisOpts(echartsopts.XAxis{
			Type: "category",
			AxisLabel: &echartsopts.AxisLabel{
				Rotate:       xAxisLabelAngle,
				Interval:     "0",
				ShowMinLabel: echartsopts.Bool(true),
				ShowMaxLabel: echartsopts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(echartsopts.YAxis{
			Type:  "value",
			Scale: echartsopts.Bool(true),
		}),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "item",
		}),
	)...)

	labels := make([]string, 0, len(box.Groups))
	data := make([]echartsopts.BoxPlotData, 0, len(box.Groups))
	for _, group := range box.Groups {
		labels = append(labels, group.Label+" ("+strconv.Itoa(group.Count)+")")
		data = append(data, echartsopts.BoxPlotData{
			Name:  group.Label,
			Value: group.Summary[:],
		})
	}

	chart.SetXAxis(labels)
	chart.AddSeries(o.Title, data)

	return chart
}

// NewRadar renders one comparison as a radar chart with unit-scaled axes.
func NewRadar(radar *model.Radar, opts ...Option) *charts.Radar {
	o := optionsWithDefaults(opts)
	if o.Colorway == nil {
		o.Colorway = rankingColorway
	}

	indicators := make([]*echartsopts.Indicator, 0, len(radar.Axes))
	for _, axis := range radar.Axes {
		indicators = append(indicators, &echartsopts.Indicator{
			Name: axis,
			Max:  1,
		})
	}

	chart := charts.NewRadar()
	chart.SetGlobalOptions(append(o.globalOptions(),
		charts.WithRadarComponentOpts(echartsopts.RadarComponent{
			Indicator: indicators,
			SplitArea: &echartsopts.SplitArea{Show: echartsopts.Bool(true)},
			SplitLine: &echartsopts.SplitLine{Show: echartsopts.Bool(true)},
		}),
	)...)

	for _, vector := range radar.Vectors {
		chart.AddSeries(vector.Label, []echartsopts.RadarData{
			{Name: vector.Label, Value: vector.Values},
		})
	}

	return chart
}
