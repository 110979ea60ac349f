package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/ingest"
	"github.com/rosterlab/rosterviz/internal/pkg/table"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestNewCommand(t *testing.T) {
	cli := NewCommand()
	require.NotNil(t, cli)
	assert.NotNil(t, cli.L)
	// Verify defaults from registerFlags
	assert.Equal(t, "rosterviz.yaml", cli.Config)
	assert.Equal(t, "-", cli.OutputFile)
	assert.Equal(t, "all", cli.Cohort)
}

func TestInferHTMLFile(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"output.png", "output.html"},
		{"output.html", "output.html"},
		{"output", "output.html"},
		{"path/to/output.png", "path/to/output.html"},
		{"output.svg", "output.html"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, inferHTMLFile(tt.input))
		})
	}
}

func TestInferImageFile(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"output.html", "output.png"},
		{"output.png", "output.png"},
		{"output", "output.png"},
		{"path/to/output.html", "path/to/output.png"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, inferImageFile(tt.input))
		})
	}
}

func TestSetConfigOutputToStdout(t *testing.T) {
	cfg := &config.Config{}
	cli := &Command{
		OutputFile: "-",
		L:          newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg))

	// When no output file specified, HTML goes to stdout
	assert.Equal(t, "-", cfg.Outputs.HTMLFile)
}

func TestSetConfigOutputFile(t *testing.T) {
	cfg := &config.Config{}
	cli := &Command{
		OutputFile: "roster.png",
		L:          newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg))

	assert.Equal(t, "roster.html", cfg.Outputs.HTMLFile)
}

func TestSetConfigOutputFileWithPng(t *testing.T) {
	cfg := &config.Config{}
	cli := &Command{
		OutputFile: "roster.html",
		Png:        true,
		L:          newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg))

	assert.Equal(t, "roster.html", cfg.Outputs.HTMLFile)
	assert.Equal(t, "roster.png", cfg.Outputs.PngFile)
}

func TestSetConfigTempHTML(t *testing.T) {
	cfg := &config.Config{
		Outputs: config.Output{
			PngFile: "output.png",
		},
	}
	cli := &Command{
		L: newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg))

	assert.True(t, cfg.Outputs.IsTemp)
	assert.NotEmpty(t, cfg.Outputs.HTMLFile)
	assert.True(t, strings.Contains(cfg.Outputs.HTMLFile, "rosterviz"),
		"expected temp file name to contain 'rosterviz', got %q", cfg.Outputs.HTMLFile)

	// Clean up temp file
	os.Remove(cfg.Outputs.HTMLFile)
}

func TestSetConfigURLOverride(t *testing.T) {
	cfg := &config.Config{
		Source: config.Source{URL: "https://configured.example.com/roster.json"},
	}
	cli := &Command{
		URL:        "https://flag.example.com/roster.json",
		OutputFile: "-",
		L:          newTestLogger(),
	}

	require.NoError(t, cli.setConfig(cfg))

	assert.Equal(t, "https://flag.example.com/roster.json", cfg.Source.URL)
}

func TestPrepareConfig(t *testing.T) {
	cfgFile := writeTestConfig(t)

	cli := &Command{
		Config:     cfgFile,
		OutputFile: "-",
		L:          newTestLogger(),
	}

	cfg, cleanup, err := cli.prepareConfig()
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.Fields)
}

func TestPrepareConfigMissingFile(t *testing.T) {
	cli := &Command{
		Config: "/nonexistent/config.yaml",
		L:      newTestLogger(),
	}

	_, _, err := cli.prepareConfig()
	require.Error(t, err)
}

func TestPrepareConfigFallsBackToDefaults(t *testing.T) {
	// the default config file is absent from the test working directory:
	// the embedded defaults should kick in instead of erroring out
	cli := &Command{
		Config:     defaultConfigFile,
		OutputFile: "-",
		L:          newTestLogger(),
	}

	cfg, cleanup, err := cli.prepareConfig()
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.Timelines)
}

func TestParseSortTrail(t *testing.T) {
	t.Run("should parse fields with directions", func(t *testing.T) {
		trail, err := parseSortTrail("combat_hp:desc,name_code")
		require.NoError(t, err)

		require.Len(t, trail, 2)
		assert.Equal(t, table.SortKey{Field: "combat_hp", Direction: table.Descending}, trail[0])
		assert.Equal(t, table.SortKey{Field: "name_code", Direction: table.Ascending}, trail[1])
	})

	t.Run("should accept explicit asc", func(t *testing.T) {
		trail, err := parseSortTrail("combat_hp:asc")
		require.NoError(t, err)

		require.Len(t, trail, 1)
		assert.Equal(t, table.Ascending, trail[0].Direction)
	})

	t.Run("should yield an empty trail on blank input", func(t *testing.T) {
		trail, err := parseSortTrail("  ")
		require.NoError(t, err)
		assert.Empty(t, trail)
	})

	t.Run("should reject an unknown direction", func(t *testing.T) {
		_, err := parseSortTrail("combat_hp:sideways")
		require.Error(t, err)
	})

	t.Run("should reject an empty field", func(t *testing.T) {
		_, err := parseSortTrail("combat_hp,:desc")
		require.Error(t, err)
	})
}

func TestParseFilters(t *testing.T) {
	t.Run("should parse multiple fields with alternatives", func(t *testing.T) {
		filters, err := parseFilters("operatorRecords_class=Sniper|Caster,operatorRecords_job=Marksman")
		require.NoError(t, err)

		require.Len(t, filters, 2)
		assert.Equal(t, []string{"Sniper", "Caster"}, filters["operatorRecords_class"])
		assert.Equal(t, []string{"Marksman"}, filters["operatorRecords_job"])
	})

	t.Run("should yield no filters on blank input", func(t *testing.T) {
		filters, err := parseFilters("")
		require.NoError(t, err)
		assert.Empty(t, filters)
	})

	t.Run("should reject a constraint without tokens", func(t *testing.T) {
		_, err := parseFilters("operatorRecords_class")
		require.Error(t, err)
	})

	t.Run("should reject a constraint without a field", func(t *testing.T) {
		_, err := parseFilters("=Sniper")
		require.Error(t, err)
	})
}

func TestFindOperator(t *testing.T) {
	loader := ingest.New()
	require.NoError(t, loader.LoadInput(strings.NewReader(`[
		{"ID": "R001", "name_code": "Amiya", "operatorRecords_class": "Caster"},
		{"ID": "R002", "name_code": "Kroos", "operatorRecords_class": "Sniper"}
	]`), "fixture"))
	dataset := loader.Dataset()

	t.Run("should resolve by canonical identifier", func(t *testing.T) {
		record, ok := findOperator(dataset, "R002")
		require.True(t, ok)
		assert.Equal(t, "Kroos", record.Label(""))
	})

	t.Run("should resolve by case-insensitive label", func(t *testing.T) {
		record, ok := findOperator(dataset, "amiya")
		require.True(t, ok)
		assert.Equal(t, "R001", record.Identifier(0))
	})

	t.Run("should not resolve an unknown key", func(t *testing.T) {
		_, ok := findOperator(dataset, "Rosmontis")
		assert.False(t, ok)
	})
}

func TestExecuteHTMLOutput(t *testing.T) {
	cfgFile := writeTestConfig(t)
	outFile := filepath.Join(t.TempDir(), "output.html")

	cli := &Command{
		Config:     cfgFile,
		OutputFile: outFile,
		Cohort:     "all",
		L:          newTestLogger(),
	}

	require.NoError(t, cli.Execute(writeTestRoster(t)))

	// Verify HTML file was created
	info, err := os.Stat(outFile)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestExecuteWithRadar(t *testing.T) {
	cfgFile := writeTestConfig(t)
	outFile := filepath.Join(t.TempDir(), "output.html")

	cli := &Command{
		Config:     cfgFile,
		OutputFile: outFile,
		Operator:   "Amiya",
		Compare:    "Kroos",
		Cohort:     "all",
		L:          newTestLogger(),
	}

	require.NoError(t, cli.Execute(writeTestRoster(t)))

	content, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Operator Comparison: Amiya")
}

func TestExecuteUnknownOperator(t *testing.T) {
	cfgFile := writeTestConfig(t)

	cli := &Command{
		Config:     cfgFile,
		OutputFile: filepath.Join(t.TempDir(), "output.html"),
		Operator:   "Rosmontis",
		Cohort:     "all",
		L:          newTestLogger(),
	}

	require.Error(t, cli.Execute(writeTestRoster(t)))
}

func TestExecuteInvalidCohort(t *testing.T) {
	cfgFile := writeTestConfig(t)

	cli := &Command{
		Config:     cfgFile,
		OutputFile: filepath.Join(t.TempDir(), "output.html"),
		Operator:   "Amiya",
		Cohort:     "faction",
		L:          newTestLogger(),
	}

	require.Error(t, cli.Execute(writeTestRoster(t)))
}

func TestExecuteMissingInput(t *testing.T) {
	cfgFile := writeTestConfig(t)

	cli := &Command{
		Config:     cfgFile,
		OutputFile: filepath.Join(t.TempDir(), "output.html"),
		Cohort:     "all",
		L:          newTestLogger(),
	}

	require.Error(t, cli.Execute("/nonexistent/file.json"))
}

func TestExecuteManifestBadFilter(t *testing.T) {
	cfgFile := writeTestConfig(t)

	cli := &Command{
		Config:   cfgFile,
		Manifest: true,
		Filter:   "not-a-filter",
		Cohort:   "all",
		L:        newTestLogger(),
	}

	require.Error(t, cli.Execute(writeTestRoster(t)))
}

// helpers

func newTestLogger() *slog.Logger {
	return slog.Default().With(slog.String("module", "test"))
}

// writeTestConfig materializes the embedded default configuration as a
// YAML file, so that prepareConfig exercises the file loading path.
func writeTestConfig(t *testing.T) string {
	t.Helper()

	cfg, err := config.LoadDefaults()
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "config.yaml")
	f, err := os.Create(file)
	require.NoError(t, err)
	require.NoError(t, cfg.EncodeYAML(f))
	require.NoError(t, f.Close())

	return file
}

func writeTestRoster(t *testing.T) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{
			"ID": "R001", "name_code": "Amiya", "operatorRecords_class": "Caster",
			"operatorRecords_job": "Core Caster", "combat_hp": "1200", "combat_atk": "300",
			"combat_cldn": "70", "date_joined": "2020-01-05",
			"skills_artsAdaptability": "Excellent", "affiliation_primary": "Rhodes Island"
		},
		{
			"ID": "R002", "name_code": "Kroos", "operatorRecords_class": "Sniper",
			"operatorRecords_job": "Marksman", "combat_hp": "1500", "combat_atk": "330",
			"combat_cldn": "65", "date_joined": "2020-01-10",
			"skills_combat": "Outstanding"
		},
		{
			"ID": "R003", "name_code": "Mudrock", "operatorRecords_class": "Defender",
			"operatorRecords_job": "Juggernaut", "combat_hp": "3300", "combat_atk": "600",
			"combat_cldn": "80", "date_joined": "2020-05-01",
			"affiliation_primary": "Sargon"
		}
	]`), 0o600))

	return file
}
