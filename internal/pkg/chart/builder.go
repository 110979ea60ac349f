package chart

import (
	"log/slog"
	"strconv"

	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/model"
)

// Builder assembles the dashboard page from derived roster structures.
//
// Nil results from the engines (insufficient data) are skipped with a
// warning instead of producing empty charts.
type Builder struct {
	cfg  *config.Config
	page *Page
	l    *slog.Logger
}

// New creates a new chart [Builder], given a [config.Config].
func New(cfg *config.Config) *Builder {
	return &Builder{
		cfg:  cfg,
		page: NewPage(cfg.Render.Title),
		l:    slog.Default().With(slog.String("module", "chart")),
	}
}

// AddTimelineSet adds one line chart per plot of an aggregation result.
func (b *Builder) AddTimelineSet(set *model.TimelineSet) {
	if set == nil || len(set.Plots) == 0 {
		b.l.Warn("empty timeline skipped")

		return
	}

	subtitle := set.Start + " to " + set.End +
		" (" + strconv.Itoa(set.Total) + " operators)"

	for i := range set.Plots {
		plot := &set.Plots[i]
		b.page.AddChart(NewLine(plot, b.commonOptions(WithSubtitle(subtitle))...))
		b.l.Info("added timeline chart", slog.String("plot_id", plot.ID))
	}
}

// AddHierarchy adds one sunburst chart for a level-walk result.
func (b *Builder) AddHierarchy(spec config.Hierarchy, hierarchy *model.Hierarchy) {
	if hierarchy == nil || hierarchy.Len() == 0 {
		b.l.Warn("empty hierarchy skipped", slog.String("hierarchy_id", spec.ID))

		return
	}

	b.page.AddChart(NewSunburst(hierarchy, b.commonOptions(WithTitle(spec.Title))...))
	b.l.Info("added sunburst chart", slog.String("hierarchy_id", spec.ID))
}

// AddRankings adds one bar chart per leaderboard, skipping nil boards.
func (b *Builder) AddRankings(boards ...*model.Ranking) {
	for _, board := range boards {
		if board == nil || len(board.Entries) == 0 {
			b.l.Warn("empty ranking skipped")

			continue
		}

		b.page.AddChart(NewBar(board, b.commonOptions()...))
		b.l.Info("added ranking chart", slog.String("title", board.Title))
	}
}

// AddParallel adds one parallel-coordinates chart, skipping nil results.
func (b *Builder) AddParallel(parallel *model.Parallel) {
	if parallel == nil || len(parallel.Rows) == 0 {
		b.l.Warn("empty parallel skipped")

		return
	}

	b.page.AddChart(NewParallel(parallel, b.commonOptions(WithTitle(parallel.Title))...))
	b.l.Info("added parallel chart", slog.String("parallel_id", parallel.ID))
}

// AddScatter adds one scatter chart, skipping nil results.
func (b *Builder) AddScatter(scatter *model.Scatter) {
	if scatter == nil || len(scatter.Groups) == 0 {
		b.l.Warn("empty scatter skipped")

		return
	}

	b.page.AddChart(NewScatter(scatter, b.commonOptions(WithTitle(scatter.Title))...))
	b.l.Info("added scatter chart", slog.String("scatter_id", scatter.ID))
}

// AddBoxPlot adds one box-plot chart, skipping nil results.
func (b *Builder) AddBoxPlot(box *model.BoxPlot) {
	if box == nil || len(box.Groups) == 0 {
		b.l.Warn("empty box plot skipped")

		return
	}

	b.page.AddChart(NewBoxPlot(box, b.commonOptions(WithTitle(box.Title))...))
	b.l.Info("added box plot chart", slog.String("box_id", box.ID))
}

// AddRadar adds the comparison radar chart.
func (b *Builder) AddRadar(radar *model.Radar, title string) {
	if radar == nil || len(radar.Vectors) == 0 {
		b.l.Warn("empty radar skipped")

		return
	}

	b.page.AddChart(NewRadar(radar, b.commonOptions(WithTitle(title))...))
	b.l.Info("added radar chart", slog.String("title", title))
}

// Page returns the assembled page.
func (b *Builder) Page() *Page {
	return b.page
}

// commonOptions derives the shared chart options from the rendering
// configuration: theme, legend placement and a canvas size fitting the
// configured grid within the screenshot width.
func (b *Builder) commonOptions(extra ...Option) []Option {
	width := defaultWidth
	if b.cfg.Render.Screenshot.Width > 0 && b.cfg.Render.Layout.Horizontal > 0 {
		width = strconv.FormatInt(
			b.cfg.Render.Screenshot.Width/int64(b.cfg.Render.Layout.Horizontal), 10,
		) + "px"
	}

	common := []Option{
		WithTheme(b.cfg.Render.Theme),
		WithLegendPosition(b.cfg.Render.Legend),
		WithSize(width, defaultHeight),
	}

	return append(common, extra...)
}
