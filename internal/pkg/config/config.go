package config

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed default_config.yaml
var efs embed.FS

// Config holds the configuration for rosterviz.
type Config struct {
	Name    string
	Source  Source
	Render  Rendering
	Outputs Output `mapstructure:"-"`

	Fields      []Field
	SkillFields []FieldName `mapstructure:"skillFields"`
	Timelines   []Timeline
	Hierarchies []Hierarchy
	Rankings    []Ranking
	Parallels   []Parallel
	Scatters    []Scatter
	Boxes       []BoxPlot
	Radar       Radar
	Table       Table

	fieldIndex     map[FieldName]Field
	timelineIndex  map[string]Timeline
	hierarchyIndex map[string]Hierarchy
	rankingIndex   map[string]Ranking
	parallelIndex  map[string]Parallel
	scatterIndex   map[string]Scatter
	boxIndex       map[string]BoxPlot
}

// GetField retrieves a field definition by its [FieldName].
func (c Config) GetField(id FieldName) (Field, bool) {
	v, ok := c.fieldIndex[id]

	return v, ok
}

// GetTimeline retrieves a timeline definition by its ID.
func (c Config) GetTimeline(id string) (Timeline, bool) {
	v, ok := c.timelineIndex[id]

	return v, ok
}

// GetHierarchy retrieves a hierarchy definition by its ID.
func (c Config) GetHierarchy(id string) (Hierarchy, bool) {
	v, ok := c.hierarchyIndex[id]

	return v, ok
}

// GetRanking retrieves a ranking definition by its ID.
func (c Config) GetRanking(id string) (Ranking, bool) {
	v, ok := c.rankingIndex[id]

	return v, ok
}

// GetParallel retrieves a parallel-coordinates definition by its ID.
func (c Config) GetParallel(id string) (Parallel, bool) {
	v, ok := c.parallelIndex[id]

	return v, ok
}

// GetScatter retrieves a scatter definition by its ID.
func (c Config) GetScatter(id string) (Scatter, bool) {
	v, ok := c.scatterIndex[id]

	return v, ok
}

// GetBox retrieves a box-plot definition by its ID.
func (c Config) GetBox(id string) (BoxPlot, bool) {
	v, ok := c.boxIndex[id]

	return v, ok
}

// FieldTitle returns the display title of a field, falling back to a
// titleized form of the raw field name for fields without a definition.
func (c Config) FieldTitle(id FieldName) string {
	if def, ok := c.fieldIndex[id]; ok && def.Title != "" {
		return def.Title
	}

	return titleize(id)
}

// FieldUnit returns the display unit of a field, or "".
func (c Config) FieldUnit(id FieldName) string {
	def, ok := c.fieldIndex[id]
	if !ok {
		return ""
	}

	return def.Unit
}

// IsInverted reports whether lower values of a field are better, which
// flips its radar normalization.
func (c Config) IsInverted(id FieldName) bool {
	def, ok := c.fieldIndex[id]

	return ok && def.Inverted
}

// EncodeYAML serializes a [Config] to YAML into the provided writer.
//
// Runtime-only fields (Outputs) are excluded from the output.
func (c *Config) EncodeYAML(w io.Writer) error {
	var raw map[string]any

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Squash: true,
		Deep:   true,
		Result: &raw,
	})
	if err != nil {
		return fmt.Errorf("creating mapstructure decoder: %w", err)
	}

	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decoding config to map: %w", err)
	}

	return yaml.NewEncoder(w).Encode(raw)
}

// Source configures the dataset fetch.
type Source struct {
	URL     string
	Timeout string
}

// TimeoutDuration parses the Timeout field as a [time.Duration].
func (s Source) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if d == 0 || err != nil {
		return 0
	}

	return d
}

// Rendering holds page rendering settings (theme, layout, legend,
// screenshot).
type Rendering struct {
	Title      string
	Theme      string
	Layout     Layout
	Legend     LegendPosition
	Screenshot Screenshot
}

// Screenshot configures the headless Chrome screenshot used for PNG rendering.
type Screenshot struct {
	Height int64
	Width  int64
	Sleep  string
}

// SleepDuration parses the Sleep field as a [time.Duration].
func (s Screenshot) SleepDuration() time.Duration {
	d, err := time.ParseDuration(s.Sleep)
	if d == 0 || err != nil {
		return 0
	}

	return d
}

// Layout controls how charts are arranged on the page.
type Layout struct {
	Horizontal int
	Vertical   int
}

// LegendPosition controls where the chart legend is displayed.
type LegendPosition string

// Supported legend positions.
const (
	LegendPositionNone   LegendPosition = "none"
	LegendPositionBottom LegendPosition = "bottom"
	LegendPositionTop    LegendPosition = "top"
	LegendPositionLeft   LegendPosition = "left"
	LegendPositionRight  LegendPosition = "right"
)

// Output holds the resolved output file paths for HTML and PNG rendering.
type Output struct {
	HTMLFile string
	PngFile  string
	IsTemp   bool
}

// Field defines a known roster field with its display title and unit.
type Field struct {
	ID       FieldName
	Title    string
	Unit     string
	Inverted bool // lower is better
}

// MetricKind selects the cumulative statistic of a timeline.
type MetricKind string

// Supported timeline metrics.
const (
	MetricCount   MetricKind = "count"
	MetricAverage MetricKind = "average"
	MetricMax     MetricKind = "max"
	MetricMin     MetricKind = "min"
)

// IsValid reports whether the metric kind is supported.
func (m MetricKind) IsValid() bool {
	switch m {
	case MetricCount, MetricAverage, MetricMax, MetricMin:
		return true
	default:
		return false
	}
}

// Timeline defines one cumulative aggregation over the join-date axis.
type Timeline struct {
	ID       string
	Title    string
	Metric   MetricKind
	GroupBy  FieldName   `mapstructure:"groupBy"`
	Fallback string      // group label for records missing the groupBy field
	Values   []FieldName // stat fields, for average/max/min metrics
	Date     FieldName
}

// Hierarchy defines a nested categorical breakdown for a sunburst chart.
type Hierarchy struct {
	ID        string
	Title     string
	Transform TransformKind
	Levels    []Level
}

// TransformKind names a record-splitting transform applied before the
// hierarchy level walk.
type TransformKind string

// Supported hierarchy transforms.
const (
	TransformNone             TransformKind = ""
	TransformAffiliationSplit TransformKind = "affiliation-split"
)

// IsValid reports whether the transform kind is supported.
func (t TransformKind) IsValid() bool {
	switch t {
	case TransformNone, TransformAffiliationSplit:
		return true
	default:
		return false
	}
}

// Level defines one ring of a hierarchy.
type Level struct {
	Key      string
	Field    FieldName
	Fallback string
	Leaf     bool
}

// RankingKind selects how a leaderboard is scored.
type RankingKind string

// Supported ranking kinds.
const (
	RankingMetric     RankingKind = "metric"     // numeric field, descending
	RankingSkills     RankingKind = "skills"     // summed skill-rating score
	RankingPopularity RankingKind = "popularity" // group cardinality
)

// IsValid reports whether the ranking kind is supported.
func (r RankingKind) IsValid() bool {
	switch r {
	case RankingMetric, RankingSkills, RankingPopularity:
		return true
	default:
		return false
	}
}

// RankDirection orders a leaderboard.
type RankDirection string

// Supported ranking directions.
const (
	RankDescending RankDirection = "desc" // best is highest, the default
	RankAscending  RankDirection = "asc"  // best is lowest
)

// IsValid reports whether the ranking direction is supported.
func (d RankDirection) IsValid() bool {
	switch d {
	case RankDescending, RankAscending:
		return true
	default:
		return false
	}
}

// Ranking defines one leaderboard section.
type Ranking struct {
	ID        string
	Title     string
	Kind      RankingKind
	Field     FieldName // scored field (metric) or grouped field (popularity)
	Unit      string
	Limit     int
	Direction RankDirection
}

// Parallel defines one parallel-coordinates dataset: an ordered list of
// dimensions every record is projected onto. A record missing any numeric
// dimension drops out of the whole dataset.
type Parallel struct {
	ID         string
	Title      string
	Dimensions []Dimension
}

// Dimension is one axis of a parallel-coordinates dataset. Numeric and
// skill fields encode as numbers, anything else as an ordinal category.
type Dimension struct {
	Field    FieldName
	Fallback string // category label for records missing the field
}

// Scatter defines one class-grouped projection of two numeric fields.
type Scatter struct {
	ID    string
	Title string
	X     FieldName
	Y     FieldName
}

// BoxPlot defines one per-class distribution summary of a numeric field.
type BoxPlot struct {
	ID    string
	Title string
	Field FieldName
}

// Radar defines the axes of the operator comparison radar.
type Radar struct {
	Axes []FieldName
}

// Table defines the roster table columns.
type Table struct {
	Columns []Column
}

// Column defines one roster table column.
type Column struct {
	Field      FieldName
	Title      string
	Sortable   bool
	Filterable bool
}

// SortableFields returns the set of fields marked sortable.
func (t Table) SortableFields() map[FieldName]struct{} {
	sortable := make(map[FieldName]struct{}, len(t.Columns))
	for _, column := range t.Columns {
		if column.Sortable {
			sortable[column.Field] = struct{}{}
		}
	}

	return sortable
}

// Load a configuration file from the local file system.
func Load(file string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}

	fsys := os.DirFS(filepath.Dir(file))
	pth := filepath.Join(".", filepath.Base(file))

	return load(fsys, pth, cfg)
}

// LoadDefaults loads the default configuration from the embedded default_config.yaml.
func LoadDefaults() (*Config, error) {
	return loadDefaults()
}

func loadDefaults() (*Config, error) {
	return load(efs, "default_config.yaml", &Config{})
}

func load(fsys fs.FS, file string, cfg *Config) (*Config, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	var raw any
	err = yaml.Unmarshal(content, &raw)
	if err != nil {
		return nil, err
	}

	err = mapstructure.Decode(raw, cfg)
	if err != nil {
		return nil, err
	}

	// build indices and validate unique IDs
	cfg.fieldIndex = make(map[FieldName]Field, len(cfg.Fields))
	cfg.timelineIndex = make(map[string]Timeline, len(cfg.Timelines))
	cfg.hierarchyIndex = make(map[string]Hierarchy, len(cfg.Hierarchies))
	cfg.rankingIndex = make(map[string]Ranking, len(cfg.Rankings))
	cfg.parallelIndex = make(map[string]Parallel, len(cfg.Parallels))
	cfg.scatterIndex = make(map[string]Scatter, len(cfg.Scatters))
	cfg.boxIndex = make(map[string]BoxPlot, len(cfg.Boxes))

	if err = cfg.validateFields(); err != nil {
		return nil, err
	}

	if err = cfg.validateSkillFields(); err != nil {
		return nil, err
	}

	if err = cfg.validateTimelines(); err != nil {
		return nil, err
	}

	if err = cfg.validateHierarchies(); err != nil {
		return nil, err
	}

	if err = cfg.validateRankings(); err != nil {
		return nil, err
	}

	if err = cfg.validateParallels(); err != nil {
		return nil, err
	}

	if err = cfg.validateScatters(); err != nil {
		return nil, err
	}

	if err = cfg.validateBoxes(); err != nil {
		return nil, err
	}

	if err = cfg.validateRadar(); err != nil {
		return nil, err
	}

	if err = cfg.validateTable(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validateFields() error {
	for i, v := range c.Fields {
		if v.ID == "" {
			return fmt.Errorf("invalid fields: empty ID found: fields[%d]", i)
		}
		if !v.ID.IsValid() {
			return fmt.Errorf("invalid fields: unknown field ID: fields[%d]=%v (should be one of %v)", i, v.ID, AllFieldNames())
		}
		if _, ok := c.fieldIndex[v.ID]; ok {
			return fmt.Errorf("invalid fields: duplicate ID key found: %s", v.ID)
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}
		c.fieldIndex[v.ID] = v
		c.Fields[i] = v
	}

	return nil
}

func (c *Config) validateSkillFields() error {
	for i, v := range c.SkillFields {
		if v.Kind() != KindSkill {
			return fmt.Errorf("invalid skillFields: not a skill field: skillFields[%d]=%s", i, v)
		}
	}

	return nil
}

func (c *Config) validateTimelines() error {
	for i, v := range c.Timelines {
		if v.ID == "" {
			return fmt.Errorf("invalid timelines: empty ID found: timelines[%d]", i)
		}
		if _, ok := c.timelineIndex[v.ID]; ok {
			return fmt.Errorf("invalid timelines: duplicate ID key found: %s", v.ID)
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}
		if !v.Metric.IsValid() {
			return fmt.Errorf("invalid timelines: unknown metric: timelines.%s.metric=%s", v.ID, v.Metric)
		}
		if v.GroupBy != "" && !v.GroupBy.IsValid() {
			return fmt.Errorf("invalid timelines: unknown groupBy field: timelines.%s.groupBy=%s", v.ID, v.GroupBy)
		}
		if v.GroupBy != "" && v.Fallback == "" {
			v.Fallback = "unspecified"
		}
		if v.Date == "" {
			v.Date = FieldDateJoined
		}
		if v.Date.Kind() != KindDate {
			return fmt.Errorf("invalid timelines: not a date field: timelines.%s.date=%s", v.ID, v.Date)
		}
		if v.Metric != MetricCount && len(v.Values) == 0 {
			return fmt.Errorf("invalid timelines: at least 1 value field is required for metric %s: timelines.%s.values", v.Metric, v.ID)
		}
		for j, ref := range v.Values {
			if ref.Kind() != KindNumeric {
				return fmt.Errorf("invalid timelines: not a numeric field: timelines.%s.values[%d]=%s", v.ID, j, ref)
			}
		}

		c.timelineIndex[v.ID] = v
		c.Timelines[i] = v
	}

	return nil
}

func (c *Config) validateHierarchies() error {
	for i, v := range c.Hierarchies {
		if v.ID == "" {
			return fmt.Errorf("invalid hierarchies: empty ID found: hierarchies[%d]", i)
		}
		if _, ok := c.hierarchyIndex[v.ID]; ok {
			return fmt.Errorf("invalid hierarchies: duplicate ID key found: %s", v.ID)
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}
		if !v.Transform.IsValid() {
			return fmt.Errorf("invalid hierarchies: unknown transform: hierarchies.%s.transform=%s", v.ID, v.Transform)
		}
		if len(v.Levels) == 0 {
			return fmt.Errorf("invalid hierarchies: at least 1 level is required: hierarchies.%s.levels", v.ID)
		}

		for j, level := range v.Levels {
			if !level.Field.IsValid() {
				return fmt.Errorf("invalid hierarchies: unknown level field: hierarchies.%s.levels[%d].field=%s", v.ID, j, level.Field)
			}
			if level.Key == "" {
				level.Key = level.Field.String()
			}
			if level.Fallback == "" {
				level.Fallback = "layer-" + level.Key
			}
			v.Levels[j] = level
		}

		// the innermost ring is always a leaf
		v.Levels[len(v.Levels)-1].Leaf = true

		c.hierarchyIndex[v.ID] = v
		c.Hierarchies[i] = v
	}

	return nil
}

func (c *Config) validateRankings() error {
	for i, v := range c.Rankings {
		if v.ID == "" {
			return fmt.Errorf("invalid rankings: empty ID found: rankings[%d]", i)
		}
		if _, ok := c.rankingIndex[v.ID]; ok {
			return fmt.Errorf("invalid rankings: duplicate ID key found: %s", v.ID)
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}
		if !v.Kind.IsValid() {
			return fmt.Errorf("invalid rankings: unknown kind: rankings.%s.kind=%s", v.ID, v.Kind)
		}
		if v.Limit <= 0 {
			v.Limit = defaultRankingLimit
		}
		if v.Direction == "" {
			v.Direction = RankDescending
		}
		if !v.Direction.IsValid() {
			return fmt.Errorf("invalid rankings: unknown direction: rankings.%s.direction=%s", v.ID, v.Direction)
		}

		switch v.Kind {
		case RankingMetric:
			if v.Field.Kind() != KindNumeric {
				return fmt.Errorf("invalid rankings: not a numeric field: rankings.%s.field=%s", v.ID, v.Field)
			}
		case RankingPopularity:
			if !v.Field.IsValid() {
				return fmt.Errorf("invalid rankings: unknown field: rankings.%s.field=%s", v.ID, v.Field)
			}
		case RankingSkills:
			if v.Field != "" {
				return fmt.Errorf("invalid rankings: field is not applicable to skill rankings: rankings.%s.field=%s", v.ID, v.Field)
			}
		}

		c.rankingIndex[v.ID] = v
		c.Rankings[i] = v
	}

	return nil
}

const defaultRankingLimit = 5

func (c *Config) validateParallels() error {
	for i, v := range c.Parallels {
		if v.ID == "" {
			return fmt.Errorf("invalid parallels: empty ID found: parallels[%d]", i)
		}
		if _, ok := c.parallelIndex[v.ID]; ok {
			return fmt.Errorf("invalid parallels: duplicate ID key found: %s", v.ID)
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}
		if len(v.Dimensions) < 2 {
			return fmt.Errorf("invalid parallels: at least 2 dimensions are required: parallels.%s.dimensions", v.ID)
		}

		for j, dim := range v.Dimensions {
			if !dim.Field.IsValid() {
				return fmt.Errorf("invalid parallels: unknown dimension field: parallels.%s.dimensions[%d].field=%s", v.ID, j, dim.Field)
			}
			if dim.Fallback == "" {
				dim.Fallback = "unspecified"
			}
			v.Dimensions[j] = dim
		}

		c.parallelIndex[v.ID] = v
		c.Parallels[i] = v
	}

	return nil
}

func (c *Config) validateScatters() error {
	for i, v := range c.Scatters {
		if v.ID == "" {
			return fmt.Errorf("invalid scatters: empty ID found: scatters[%d]", i)
		}
		if _, ok := c.scatterIndex[v.ID]; ok {
			return fmt.Errorf("invalid scatters: duplicate ID key found: %s", v.ID)
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}
		if v.X.Kind() != KindNumeric {
			return fmt.Errorf("invalid scatters: not a numeric field: scatters.%s.x=%s", v.ID, v.X)
		}
		if v.Y.Kind() != KindNumeric {
			return fmt.Errorf("invalid scatters: not a numeric field: scatters.%s.y=%s", v.ID, v.Y)
		}

		c.scatterIndex[v.ID] = v
		c.Scatters[i] = v
	}

	return nil
}

func (c *Config) validateBoxes() error {
	for i, v := range c.Boxes {
		if v.ID == "" {
			return fmt.Errorf("invalid boxes: empty ID found: boxes[%d]", i)
		}
		if _, ok := c.boxIndex[v.ID]; ok {
			return fmt.Errorf("invalid boxes: duplicate ID key found: %s", v.ID)
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}
		if v.Field.Kind() != KindNumeric {
			return fmt.Errorf("invalid boxes: not a numeric field: boxes.%s.field=%s", v.ID, v.Field)
		}

		c.boxIndex[v.ID] = v
		c.Boxes[i] = v
	}

	return nil
}

func (c *Config) validateRadar() error {
	for i, v := range c.Radar.Axes {
		if v.Kind() != KindNumeric {
			return fmt.Errorf("invalid radar: not a numeric field: radar.axes[%d]=%s", i, v)
		}
	}

	return nil
}

func (c *Config) validateTable() error {
	seen := make(map[FieldName]struct{}, len(c.Table.Columns))

	for i, v := range c.Table.Columns {
		if !v.Field.IsValid() {
			return fmt.Errorf("invalid table: unknown column field: table.columns[%d].field=%s", i, v.Field)
		}
		if _, ok := seen[v.Field]; ok {
			return fmt.Errorf("invalid table: duplicate column found: %s", v.Field)
		}
		seen[v.Field] = struct{}{}
		if v.Title == "" {
			v.Title = titleize(v.Field)
		}
		c.Table.Columns[i] = v
	}

	return nil
}

type str interface {
	~string
}

func titleize[T str](in T) string {
	caser := cases.Title(language.English, cases.NoLower) // the case is stateful: cannot declare it globally

	return caser.String(strings.Map(func(r rune) rune {
		switch r {
		case '_', '-':
			return ' '
		default:
			return r
		}
	}, string(in),
	))
}

// GenerateInput holds the data needed by [Generate] to build a
// configuration from an ingested dataset.
//
// This avoids importing the ingest package (which imports [config]).
type GenerateInput struct {
	Fields []string
}

// Generate builds a [Config] from the fields observed in a dataset.
//
// It creates one table column per observed known field, with sortability
// and filterability derived from the field kind, and keeps the default
// rendering and aggregation settings that reference observed fields only.
func Generate(input GenerateInput) *Config {
	defaults, err := loadDefaults()
	if err != nil {
		// embedded config must always parse
		panic(fmt.Sprintf("loading embedded defaults: %v", err))
	}

	cfg := &Config{
		Name:   "Generated Config",
		Render: defaults.Render,
	}

	observed := make(map[FieldName]struct{}, len(input.Fields))

	for _, name := range input.Fields {
		id := FieldName(name)
		if !id.IsValid() {
			continue
		}
		if _, dup := observed[id]; dup {
			continue
		}
		observed[id] = struct{}{}

		if def, ok := defaults.GetField(id); ok {
			cfg.Fields = append(cfg.Fields, def)
		} else {
			cfg.Fields = append(cfg.Fields, Field{ID: id, Title: titleize(id)})
		}

		kind := id.Kind()
		cfg.Table.Columns = append(cfg.Table.Columns, Column{
			Field:      id,
			Title:      titleize(id),
			Sortable:   kind == KindNumeric || kind == KindDate || kind == KindIdentity,
			Filterable: kind == KindCategorical || kind == KindSkill,
		})
	}

	observes := func(id FieldName) bool {
		_, ok := observed[id]

		return ok
	}

	for _, skill := range defaults.SkillFields {
		if observes(skill) {
			cfg.SkillFields = append(cfg.SkillFields, skill)
		}
	}

	for _, timeline := range defaults.Timelines {
		if !observes(timeline.Date) {
			continue
		}
		if timeline.GroupBy != "" && !observes(timeline.GroupBy) {
			continue
		}
		cfg.Timelines = append(cfg.Timelines, timeline)
	}

	for _, ranking := range defaults.Rankings {
		if ranking.Field != "" && !observes(ranking.Field) {
			continue
		}
		cfg.Rankings = append(cfg.Rankings, ranking)
	}

	for _, parallel := range defaults.Parallels {
		keep := true
		for _, dim := range parallel.Dimensions {
			if !observes(dim.Field) {
				keep = false

				break
			}
		}
		if keep {
			cfg.Parallels = append(cfg.Parallels, parallel)
		}
	}

	for _, scatter := range defaults.Scatters {
		if observes(scatter.X) && observes(scatter.Y) {
			cfg.Scatters = append(cfg.Scatters, scatter)
		}
	}

	for _, box := range defaults.Boxes {
		if observes(box.Field) {
			cfg.Boxes = append(cfg.Boxes, box)
		}
	}

	return cfg
}
