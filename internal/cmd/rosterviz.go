// Package cmd owns the implementation details of the CLI command.
package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rosterlab/rosterviz/internal/pkg/analytics"
	"github.com/rosterlab/rosterviz/internal/pkg/chart"
	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/hierarchy"
	"github.com/rosterlab/rosterviz/internal/pkg/image"
	"github.com/rosterlab/rosterviz/internal/pkg/ingest"
	"github.com/rosterlab/rosterviz/internal/pkg/model"
	"github.com/rosterlab/rosterviz/internal/pkg/ranking"
	"github.com/rosterlab/rosterviz/internal/pkg/table"
	"github.com/rosterlab/rosterviz/internal/pkg/timeline"
)

// Command holds command line flags and executes the rosterviz command.
//
// It knows how to load a configuration file in a [config.Config] and manage
// CLI flag configuration overrides.
//
// The main purpose of this package is to deal with io's: opening and closing
// files, fetching the roster payload, and routing between the dashboard,
// report, generate and manifest modes. All other invoked functionalities
// deal with streams or in-memory datasets.
type Command struct {
	Config     string
	URL        string
	OutputFile string
	Png        bool
	Report     bool
	Generate   bool
	Manifest   bool
	Sort       string
	Filter     string
	Search     string
	Operator   string
	Compare    string
	Cohort     string
	L          *slog.Logger
}

const defaultConfigFile = "rosterviz.yaml"

// NewCommand builds a CLI command with registered flags and an injected logger.
func NewCommand() *Command {
	// inject a structured logger
	cli := &Command{
		L: slog.Default().With(slog.String("module", "main")),
	}

	cli.registerFlags()

	return cli
}

// Parse command line flags and arguments.
func (*Command) Parse() error {
	return flag.CommandLine.Parse(os.Args[1:])
}

// Fatalf logs an error message then exits. The output is spewed on both
// stderr and the structured logger output.
func (c *Command) Fatalf(err error) {
	c.L.Error(err.Error())
	log.Fatalf("%v", err)
}

// Execute the CLI with flags and extra arguments.
//
// If no argument is passed, command line arguments (i.e. [os.Args]) are used.
func (c *Command) Execute(args ...string) error {
	if args == nil { // passing explicit args allows for testing Execute without altering [os.Args]
		args = c.args()
	}

	cfg, cleanup, err := c.prepareConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	loader, err := c.loadData(cfg, args)
	if err != nil {
		return err
	}

	switch {
	case c.Report:
		// just want to report about the content of the roster payload
		return c.report(loader)
	case c.Generate:
		// emit a starter configuration covering the observed fields
		return c.generate(loader)
	case c.Manifest:
		// run the table engine end to end and dump the surviving records
		return c.manifest(cfg, loader.Dataset())
	}

	// 1. derive every configured chart and build a chart page
	htmlRenderer, err := c.buildPage(cfg, loader.Dataset())
	if err != nil {
		return err
	}

	// 2. render the page as HTML, possibly to stdout, possibly to temp file
	htmlWriter, htmlCloser, err := getWriter(cfg.Outputs.HTMLFile, "HTML")
	if err != nil {
		return err
	}

	if err := htmlRenderer.Render(htmlWriter); err != nil {
		htmlCloser()

		return fmt.Errorf("rendering page: %w", err)
	}

	htmlCloser()

	if cfg.Outputs.PngFile == "" {
		// html only: we're done
		return nil
	}

	// 3. convert the HTML page to a PNG image, possibly to stdout
	return c.renderImage(cfg)
}

func (*Command) args() []string {
	return flag.CommandLine.Args()
}

func (c *Command) registerFlags() {
	defaults := Command{
		Config:     defaultConfigFile,
		OutputFile: "-",
		Cohort:     string(ranking.ScopeAll),
	}

	flag.StringVar(&c.Config, "config", defaults.Config, "config file")
	flag.StringVar(&c.Config, "c", defaults.Config, "config file (shorthand)")
	flag.StringVar(&c.URL, "url", defaults.URL, "roster payload URL, overrides the configured source")
	flag.StringVar(&c.URL, "u", defaults.URL, "roster payload URL (shorthand)")
	flag.StringVar(&c.OutputFile, "output", defaults.OutputFile, "file output or - for standard output")
	flag.StringVar(&c.OutputFile, "o", defaults.OutputFile, "file output or - for standard output (shorthand)")
	flag.BoolVar(&c.Png, "png", defaults.Png, "enable PNG screenshot output")
	flag.BoolVar(&c.Report, "report", defaults.Report, "report payload contents only, no rendering")
	flag.BoolVar(&c.Report, "r", defaults.Report, "report payload contents only (shorthand)")
	flag.BoolVar(&c.Generate, "generate", defaults.Generate, "emit a starter config for the observed fields")
	flag.BoolVar(&c.Manifest, "manifest", defaults.Manifest, "dump the searched/filtered/sorted records as JSON")
	flag.BoolVar(&c.Manifest, "m", defaults.Manifest, "dump records as JSON (shorthand)")
	flag.StringVar(&c.Sort, "sort", defaults.Sort, "manifest sort trail, e.g. combat_hp:desc,name_code")
	flag.StringVar(&c.Filter, "filter", defaults.Filter, "manifest filters, e.g. operatorRecords_class=Sniper|Caster")
	flag.StringVar(&c.Search, "search", defaults.Search, "manifest free-text search term")
	flag.StringVar(&c.Search, "q", defaults.Search, "manifest free-text search term (shorthand)")
	flag.StringVar(&c.Operator, "operator", defaults.Operator, "operator ID or name for the comparison radar")
	flag.StringVar(&c.Compare, "compare", defaults.Compare, "second operator for the comparison radar")
	flag.StringVar(&c.Cohort, "cohort", defaults.Cohort, "radar cohort scope: all, class or job")
}

func (c *Command) prepareConfig() (cfg *config.Config, cleanup func(), err error) {
	if _, statErr := os.Stat(c.Config); statErr != nil {
		if c.Config != defaultConfigFile {
			return nil, nil, fmt.Errorf("loading config: %w", statErr)
		}

		c.L.Info("no config file found, using embedded defaults")
		cfg, err = config.LoadDefaults()
	} else {
		cfg, err = config.Load(c.Config)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err = c.setConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("preparing config: %w", err)
	}

	if cfg.Outputs.IsTemp {
		cleanup = func() {
			_ = os.Remove(cfg.Outputs.HTMLFile)
		}

		return cfg, cleanup, err
	}

	return cfg, func() {}, err
}

func (c *Command) inspectionMode() bool {
	return c.Report || c.Generate || c.Manifest
}

// apply CLI flags overrides to YAML config.
func (c *Command) setConfig(cfg *config.Config) error {
	if c.URL != "" {
		cfg.Source.URL = c.URL
	}

	if c.OutputFile != "" && c.OutputFile != "-" {
		// an outfile is defined: infer the PNG file from the HTML file provided
		cfg.Outputs.HTMLFile = inferHTMLFile(c.OutputFile)
		if cfg.Outputs.PngFile == "" && c.Png {
			cfg.Outputs.PngFile = inferImageFile(cfg.Outputs.HTMLFile)
		}
	}

	if c.inspectionMode() {
		return nil
	}

	switch {
	case cfg.Outputs.HTMLFile == "" && cfg.Outputs.PngFile == "":
		c.L.Info("output sent to standard output as HTML, no PNG image rendered")
		if c.Png {
			c.L.Info("set an output file to render a PNG image")
		}
		cfg.Outputs.HTMLFile = "-"
	case cfg.Outputs.HTMLFile == "" && cfg.Outputs.PngFile != "":
		c.L.Info("HTML generated as a temporary file to produce PNG")
		tmp, err := os.CreateTemp("", "rosterviz.*.html")
		if err != nil {
			return err
		}
		cfg.Outputs.HTMLFile = tmp.Name()
		cfg.Outputs.IsTemp = true
		_ = tmp.Close()
	}

	return nil
}

// loadData ingests the roster: from the configured or overridden URL when
// no file argument is given, from files or stdin ("-") otherwise.
func (c *Command) loadData(cfg *config.Config, args []string) (*ingest.Loader, error) {
	loader := ingest.New()
	t0 := time.Now()

	if len(args) == 0 && cfg.Source.URL != "" {
		ctx := context.Background()
		if timeout := cfg.Source.TimeoutDuration(); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		if err := loader.Fetch(ctx, cfg.Source.URL); err != nil {
			return nil, fmt.Errorf("fetching roster: %w", err)
		}
	} else {
		if len(args) == 0 { // no file is provided: assume stdin
			args = append(args, "-")
		}

		if err := loader.LoadFiles(args...); err != nil {
			return nil, fmt.Errorf("loading roster files: %w", err)
		}
	}

	c.L.Info("loaded roster",
		slog.Int("records", len(loader.Records())),
		slog.Duration("duration", time.Since(t0)),
	)

	return loader, nil
}

// report produces a report that explores the loaded roster payload.
func (*Command) report(loader *ingest.Loader) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", " ")

	return enc.Encode(loader.Report())
}

// generate emits a starter YAML configuration covering the observed fields.
func (*Command) generate(loader *ingest.Loader) error {
	generated := config.Generate(config.GenerateInput{
		Fields: loader.FieldNames(),
	})

	return generated.EncodeYAML(os.Stdout)
}

// manifest runs search, filters and sort over the dataset and dumps the
// surviving records as JSON.
func (c *Command) manifest(cfg *config.Config, dataset *model.Dataset) error {
	filters, err := parseFilters(c.Filter)
	if err != nil {
		return err
	}

	trail, err := parseSortTrail(c.Sort)
	if err != nil {
		return err
	}

	view := table.New(cfg)
	records := view.Search(dataset.Records(), c.Search)
	records = view.Filter(records, filters)
	records = view.Sort(records, trail)

	c.L.Info("manifest assembled",
		slog.Int("records", len(records)),
		slog.Int("total", dataset.Len()),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", " ")

	return enc.Encode(records)
}

// buildPage derives every configured chart from the dataset.
func (c *Command) buildPage(cfg *config.Config, dataset *model.Dataset) (*chart.Page, error) {
	builder := chart.New(cfg)

	// 1. cumulative timelines
	timelines := timeline.New(cfg)
	for _, spec := range cfg.Timelines {
		builder.AddTimelineSet(timelines.Build(dataset, spec))
	}

	// 2. sunburst breakdowns
	hierarchies := hierarchy.New(cfg)
	for _, spec := range cfg.Hierarchies {
		builder.AddHierarchy(spec, hierarchies.Build(dataset, spec))
	}

	// 3. leaderboards
	rankings := ranking.New(cfg)
	builder.AddRankings(rankings.BuildAll(dataset)...)

	// 4. multi-dimensional stat views
	stats := analytics.New(cfg)
	for _, spec := range cfg.Parallels {
		builder.AddParallel(stats.Parallel(dataset, spec))
	}
	for _, spec := range cfg.Scatters {
		builder.AddScatter(stats.Scatter(dataset, spec))
	}
	for _, spec := range cfg.Boxes {
		builder.AddBoxPlot(stats.Box(dataset, spec))
	}

	// 5. optional comparison radar
	if c.Operator != "" {
		if err := c.addRadar(builder, rankings, dataset); err != nil {
			return nil, err
		}
	}

	return builder.Page(), nil
}

func (c *Command) addRadar(builder *chart.Builder, rankings *ranking.Engine, dataset *model.Dataset) error {
	scope := ranking.CohortScope(c.Cohort)
	if !scope.IsValid() {
		return fmt.Errorf("invalid cohort scope %q: want all, class or job", c.Cohort)
	}

	primary, ok := findOperator(dataset, c.Operator)
	if !ok {
		return fmt.Errorf("operator %q not found", c.Operator)
	}

	var compare model.Record
	if c.Compare != "" {
		compare, ok = findOperator(dataset, c.Compare)
		if !ok {
			return fmt.Errorf("operator %q not found", c.Compare)
		}
	}

	builder.AddRadar(
		rankings.Radar(dataset, primary, compare, scope),
		"Operator Comparison: "+primary.Label(ranking.UnknownOperator),
	)

	return nil
}

func (c *Command) renderImage(cfg *config.Config) error {
	htmlReader, htmlCloser, err := getReader(cfg.Outputs.HTMLFile, "HTML")
	if err != nil {
		return err
	}

	pngWriter, pngCloser, err := getWriter(cfg.Outputs.PngFile, "PNG")
	if err != nil {
		htmlCloser()

		return err
	}

	defer pngCloser()
	defer htmlCloser()

	r := image.New(
		image.WithWidth(cfg.Render.Screenshot.Width),
		image.WithHeight(cfg.Render.Screenshot.Height),
		image.WithSleep(cfg.Render.Screenshot.SleepDuration()),
	)

	if err = r.Render(context.Background(), pngWriter, htmlReader); err != nil {
		return fmt.Errorf("rendering image: %w", err)
	}

	return nil
}

// findOperator resolves a record by canonical identifier first, then by
// case-insensitive identity label.
func findOperator(dataset *model.Dataset, key string) (model.Record, bool) {
	wanted := strings.TrimSpace(key)

	for index, record := range dataset.Records() {
		if record.Identifier(index) == wanted {
			return record, true
		}
	}

	for _, record := range dataset.Records() {
		if strings.EqualFold(record.Label(""), wanted) {
			return record, true
		}
	}

	return nil, false
}

// parseSortTrail decodes a comma-separated trail of "field[:asc|desc]"
// entries.
func parseSortTrail(raw string) (table.SortTrail, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var trail table.SortTrail
	for _, entry := range strings.Split(raw, ",") {
		field, direction, hasDirection := strings.Cut(strings.TrimSpace(entry), ":")
		if field == "" {
			return nil, fmt.Errorf("empty sort field in %q", raw)
		}

		key := table.SortKey{Field: config.FieldName(field), Direction: table.Ascending}
		if hasDirection {
			switch table.SortDirection(direction) {
			case table.Ascending:
			case table.Descending:
				key.Direction = table.Descending
			default:
				return nil, fmt.Errorf("invalid sort direction %q: want asc or desc", direction)
			}
		}

		trail = append(trail, key)
	}

	return trail, nil
}

// parseFilters decodes comma-separated "field=token|token" constraints.
func parseFilters(raw string) (table.FilterSet, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	filters := make(table.FilterSet)
	for _, entry := range strings.Split(raw, ",") {
		field, tokens, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || field == "" || tokens == "" {
			return nil, fmt.Errorf("invalid filter %q: want field=token[|token]", entry)
		}

		filters[config.FieldName(field)] = strings.Split(tokens, "|")
	}

	return filters, nil
}

func getReader(file, kind string) (rdr *os.File, cleanup func(), err error) {
	rdr, err = os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = rdr.Close()
	}

	return rdr, cleanup, nil
}

func getWriter(file, kind string) (wrt *os.File, cleanup func(), err error) {
	if file == "-" {
		return os.Stdout, func() {}, nil
	}

	wrt, err = os.Create(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file for writing: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = wrt.Close()
	}

	return wrt, cleanup, nil
}

func inferHTMLFile(base string) string {
	ext := path.Ext(base)
	stem, _ := strings.CutSuffix(base, ext)

	return stem + ".html"
}

func inferImageFile(base string) string {
	ext := path.Ext(base)
	stem, _ := strings.CutSuffix(base, ext)

	return stem + ".png"
}
