package testintegration

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rosterlab/rosterviz/internal/pkg/analytics"
	"github.com/rosterlab/rosterviz/internal/pkg/chart"
	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/hierarchy"
	"github.com/rosterlab/rosterviz/internal/pkg/ingest"
	"github.com/rosterlab/rosterviz/internal/pkg/ranking"
	"github.com/rosterlab/rosterviz/internal/pkg/timeline"

	"github.com/go-openapi/testify/v2/require"
)

func TestRosterviz(t *testing.T) {
	outDir := t.TempDir()

	t.Run("with embedded defaults", func(t *testing.T) {
		cfg, err := config.LoadDefaults()
		require.NoError(t, err)
		require.NotNil(t, cfg)

		writeData(t, outDir, "test_config.json", cfg)

		t.Run("should ingest roster payload", func(t *testing.T) {
			loader := ingest.New()
			require.NoError(t, loader.LoadInput(strings.NewReader(rosterPayload), "fixture"))
			dataset := loader.Dataset()
			require.NotZero(t, dataset.Len())

			writeData(t, outDir, "test_report.json", loader.Report())

			t.Run("should derive configured charts", func(t *testing.T) {
				builder := chart.New(cfg)

				timelines := timeline.New(cfg)
				for _, spec := range cfg.Timelines {
					set := timelines.Build(dataset, spec)
					require.NotNil(t, set)
					builder.AddTimelineSet(set)
				}

				hierarchies := hierarchy.New(cfg)
				for _, spec := range cfg.Hierarchies {
					h := hierarchies.Build(dataset, spec)
					require.NotNil(t, h)
					builder.AddHierarchy(spec, h)
				}

				rankings := ranking.New(cfg)
				boards := rankings.BuildAll(dataset)
				require.NotEmpty(t, boards)
				builder.AddRankings(boards...)

				stats := analytics.New(cfg)
				for _, spec := range cfg.Parallels {
					builder.AddParallel(stats.Parallel(dataset, spec))
				}
				for _, spec := range cfg.Scatters {
					builder.AddScatter(stats.Scatter(dataset, spec))
				}
				for _, spec := range cfg.Boxes {
					box := stats.Box(dataset, spec)
					require.NotNil(t, box)
					builder.AddBoxPlot(box)
				}

				records := dataset.Records()
				builder.AddRadar(
					rankings.Radar(dataset, records[0], records[1], ranking.ScopeAll),
					"Operator Comparison",
				)

				t.Run("should render page", func(t *testing.T) {
					page := builder.Page()
					require.NotZero(t, page.Len())

					var buf bytes.Buffer
					require.NoError(t, page.Render(&buf))
					require.Contains(t, buf.String(), "echarts")

					writeResult(t, outDir, "test_html.html", &buf)
				})
			})
		})
	})
}

func writeData(t *testing.T, dir, name string, data any) {
	t.Helper()

	buf, err := json.MarshalIndent(data, "", "  ")
	require.NoError(t, err)

	rdr := bytes.NewReader(buf)
	writeResult(t, dir, name, rdr)
}

func writeResult(t *testing.T, dir, name string, rdr io.Reader) {
	t.Helper()

	file, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)

	_, err = io.Copy(file, rdr)
	require.NoError(t, err)
}

const rosterPayload = `[
	{
		"ID": "R001", "name_code": "Amiya", "operatorRecords_class": "Caster",
		"operatorRecords_job": "Core Caster", "gender": "Female", "species": "Cautus",
		"combat_hp": "1200", "combat_atk": "300", "combat_def": "150",
		"combat_res": "20", "combat_cldn": "70", "combat_cost": "18",
		"combat_blk": "1", "combat_atkspd": "100",
		"date_joined": "2019-12-1", "height": "142 cm",
		"skills_strength": "Standard", "skills_artsAdaptability": "Outstanding",
		"affiliation_primary": "Rhodes Island"
	},
	{
		"ID": "R002", "name_code": "Kroos", "operatorRecords_class": "Sniper",
		"operatorRecords_job": "Marksman", "gender": "Female", "species": "Cautus",
		"combat_hp": "1500", "combat_atk": "330", "combat_def": "120",
		"combat_res": "0", "combat_cldn": "65", "combat_cost": "9",
		"combat_blk": "1", "combat_atkspd": "110",
		"date_joined": "2020-01-10", "height": "156 cm",
		"skills_strength": "Standard", "skills_combat": "Excellent",
		"affiliation_primary": "Rhodes Island"
	},
	{
		"ID": "R003", "name_code": "Mudrock", "operatorRecords_class": "Defender",
		"operatorRecords_job": "Juggernaut", "gender": "Female", "species": "Sarkaz",
		"combat_hp": "3300", "combat_atk": "600", "combat_def": "550",
		"combat_res": "10", "combat_cldn": "80", "combat_cost": "36",
		"combat_blk": "3", "combat_atkspd": "90",
		"date_joined": "2020-05-01", "height": "168 cm",
		"skills_strength": "Flawed", "skills_endurance": "Outstanding",
		"affiliation_primary": "Sargon", "affiliation_secondary": "Rhodes Island"
	},
	{
		"ID": "R004", "name_code": "Exusiai", "operatorRecords_class": "Sniper",
		"operatorRecords_job": "Marksman", "gender": "Female", "species": "Sankta",
		"combat_hp": "1400", "combat_atk": "450", "combat_def": "130",
		"combat_res": "0", "combat_cldn": "60", "combat_cost": "19",
		"combat_blk": "1", "combat_atkspd": "115",
		"date_joined": "2020-02-14", "height": "159 cm",
		"skills_mobility": "Excellent", "skills_combat": "Outstanding",
		"affiliation_primary": "Laterano"
	}
]`
