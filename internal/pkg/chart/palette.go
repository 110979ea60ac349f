package chart

// Color palettes carried over from the dashboard's house style.
var (
	timelineColorway = []string{
		"#2F4F4F", // dark slate
		"#3366CC", // vivid blue
		"#DC3912", // scarlet red
		"#FF9900", // bright orange
		"#109618", // rich green
		"#990099", // deep purple
		"#0099C6", // bold cyan
		"#DD4477", // magenta rose
		"#66AA00", // lime grove
		"#B82E2E", // brick red
		"#316395", // steel blue
		"#994499", // royal plum
	}

	sunburstColorway = []string{
		"#2F4F4F",
		"#3366CC",
		"#DC3912",
		"#FF9900",
		"#109618",
		"#990099",
		"#0099C6",
		"#DD4477",
		"#66AA00",
		"#B82E2E",
	}

	rankingColorway = []string{
		"#2F4F4F",
		"#3366CC",
		"#DC3912",
		"#FF9900",
		"#109618",
		"#990099",
		"#0099C6",
		"#DD4477",
	}
)

// Text and axis colors shared by all charts.
const (
	graphTextColor     = "#1B2832"
	graphAxisLineColor = "#2A3A46"
)

func seriesColor(colorway []string, index int) string {
	if index < 0 {
		index = 0
	}

	return colorway[index%len(colorway)]
}
