package chart

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rosterlab/rosterviz/internal/pkg/config"
)

// Theme constants from go-echarts.
const (
	ThemeWhite = "white"
	ThemeRoma  = "roma"
)

const (
	defaultFontSize   = 12
	defaultWidth      = "700px"
	defaultHeight     = "450px"
	xAxisLabelAngle   = 30
	scatterSymbolSize = 10
)

// Option configures a chart.
type Option func(*options)

type options struct {
	Title    string
	Subtitle string
	Theme    string
	Width    string
	Height   string
	Legend   config.LegendPosition
	Colorway []string
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *options) {
		c.Title = title
	}
}

// WithSubtitle sets the chart subtitle (typically the covered date span).
func WithSubtitle(subtitle string) Option {
	return func(c *options) {
		c.Subtitle = subtitle
	}
}

// WithTheme sets the color theme.
func WithTheme(theme string) Option {
	return func(c *options) {
		c.Theme = theme
	}
}

// WithSize sets the chart canvas size, as CSS dimensions.
func WithSize(width, height string) Option {
	return func(c *options) {
		c.Width = width
		c.Height = height
	}
}

// WithLegendPosition places the legend, or hides it with
// [config.LegendPositionNone].
func WithLegendPosition(position config.LegendPosition) Option {
	return func(c *options) {
		c.Legend = position
	}
}

// WithColorway sets the series color cycle.
func WithColorway(colorway []string) Option {
	return func(c *options) {
		c.Colorway = colorway
	}
}

func optionsWithDefaults(opts []Option) options {
	// Colorway stays nil here: each chart kind falls back to its own
	// palette.
	o := options{
		Theme:  ThemeWhite,
		Width:  defaultWidth,
		Height: defaultHeight,
		Legend: config.LegendPositionBottom,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// globalOptions translates the shared options into echarts global options.
func (o options) globalOptions() []charts.GlobalOpts {
	titleOpts := echartsopts.Title{
		Title: o.Title,
		TitleStyle: &echartsopts.TextStyle{
			Color: graphTextColor,
		},
	}
	if o.Subtitle != "" {
		titleOpts.Subtitle = o.Subtitle
		titleOpts.SubtitleStyle = &echartsopts.TextStyle{
			FontStyle: "italic",
			FontSize:  defaultFontSize,
		}
	}

	return []charts.GlobalOpts{
		charts.WithInitializationOpts(echartsopts.Initialization{
			Theme:  o.Theme,
			Width:  o.Width,
			Height: o.Height,
		}),
		charts.WithTitleOpts(titleOpts),
		charts.WithLegendOpts(o.legendOptions()),
		charts.WithColorsOpts(echartsopts.Colors(o.Colorway)),
	}
}

func (o options) legendOptions() echartsopts.Legend {
	legend := echartsopts.Legend{
		Show: echartsopts.Bool(o.Legend != config.LegendPositionNone),
	}

	switch o.Legend {
	case config.LegendPositionTop:
		legend.Y = "top"
	case config.LegendPositionLeft:
		legend.X = "left"
	case config.LegendPositionRight:
		legend.X = "right"
	case config.LegendPositionBottom:
		legend.Y = "bottom"
	}

	return legend
}
