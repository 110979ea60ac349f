package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/components"
)

// Page collects rendered charts on a single flex-layout HTML page.
//
// A [Page] knows how to [Page.Render] as HTML.
type Page struct {
	Title  string
	Charts []components.Charter
}

// NewPage creates a new page with the given title.
func NewPage(title string) *Page {
	return &Page{
		Title: title,
	}
}

// AddChart adds a chart to the page.
func (p *Page) AddChart(c components.Charter) {
	p.Charts = append(p.Charts, c)
}

// Len returns the number of charts on the page.
func (p *Page) Len() int {
	return len(p.Charts)
}

// Render writes the page HTML to the given writer.
func (p *Page) Render(w io.Writer) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.SetPageTitle(p.Title)
	page.AddCharts(p.Charts...)

	return page.Render(w)
}
