package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"

	"github.com/rosterlab/rosterviz/internal/pkg/model"
)

func TestNormalizeHeaderRows(t *testing.T) {
	payload := []any{
		[]any{"name_code", "", "combat_hp", nil, "date_joined"},
		[]any{"A", "ignored", 100.0, "ignored", "2020-1-5"},
		[]any{"B", "ignored", 200.0},
		"not a row",
	}

	records := Normalize(payload)

	// one record per non-header row, even malformed ones
	require.Len(t, records, 3)

	assert.Equal(t, model.Record{"name_code": "A", "combat_hp": 100.0, "date_joined": "2020-1-5"}, records[0])
	assert.Equal(t, model.Record{"name_code": "B", "combat_hp": 200.0}, records[1])
	assert.Empty(t, records[2])
}

func TestNormalizeObjects(t *testing.T) {
	payload := []any{
		map[string]any{"name_code": "A", "combat_hp": 100.0},
		"stray scalar",
		map[string]any{"name_code": "B"},
	}

	records := Normalize(payload)

	require.Len(t, records, 3)
	assert.Equal(t, model.Record{"name_code": "A", "combat_hp": 100.0}, records[0])
	assert.Equal(t, model.Record{"value": "stray scalar"}, records[1])
	assert.Equal(t, model.Record{"name_code": "B"}, records[2])
}

func TestNormalizeDegenerate(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Empty(t, Normalize("not an array"))
	assert.Empty(t, Normalize(map[string]any{"a": 1}))
	assert.Empty(t, Normalize([]any{}))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "roster.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"name_code": "A", "combat_hp": 100, "date_joined": "2020-01-05"},
		{"name_code": "B", "combat_hp": 200, "date_joined": "2020-01-10"}
	]`), 0o600))

	loader := New()
	require.NoError(t, loader.LoadFiles(file))

	require.Len(t, loader.Records(), 2)

	dataset := loader.Dataset()
	assert.Equal(t, 2, dataset.Len())
	assert.NotEmpty(t, dataset.Version())
}

func TestLoadFilesMissing(t *testing.T) {
	loader := New()
	require.Error(t, loader.LoadFiles(filepath.Join(t.TempDir(), "nope.json")))
}

func TestLoadInputInvalidJSON(t *testing.T) {
	loader := New()
	require.Error(t, loader.LoadInput(strings.NewReader("{invalid"), "bad"))
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"name_code": "A"}, {"name_code": "B"}]`))
	}))
	defer server.Close()

	loader := New(WithHTTPClient(server.Client()))
	require.NoError(t, loader.Fetch(context.Background(), server.URL))

	assert.Len(t, loader.Records(), 2)
}

func TestFetchBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	loader := New(WithHTTPClient(server.Client()))
	require.Error(t, loader.Fetch(context.Background(), server.URL))
}

func TestFetchCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := New(WithHTTPClient(server.Client()))
	require.Error(t, loader.Fetch(ctx, server.URL))
}

func TestReport(t *testing.T) {
	loader := New()
	require.NoError(t, loader.LoadInput(strings.NewReader(`[
		{"name_code": "A", "combat_hp": "1,250", "date_joined": "2020-1-5", "species": "Feline"},
		{"name_code": "B", "combat_hp": 200, "date_joined": "2020-01-10"},
		{"name_code": "C", "combat_hp": "unknown"}
	]`), "fixture"))

	report := loader.Report()

	assert.Equal(t, 3, report.NumberOfRecords)
	assert.Equal(t, []string{"fixture"}, report.Sources)

	byField := make(map[string]FieldRange, len(report.Fields))
	for _, observed := range report.Fields {
		byField[observed.Field] = observed
	}

	hp := byField["combat_hp"]
	assert.Equal(t, 3, hp.Count)
	assert.Equal(t, 2, hp.NumericCount, "unparseable values are excluded from the numeric range")
	assert.InDelta(t, 200.0, hp.Min, 1e-9)
	assert.InDelta(t, 1250.0, hp.Max, 1e-9)

	assert.Equal(t, 1, byField["species"].Count)
	assert.Zero(t, byField["species"].NumericCount)

	require.NotNil(t, report.DateCoverage)
	assert.Equal(t, 2, report.DateCoverage.Count)
	assert.Equal(t, "2020-01-05", report.DateCoverage.First)
	assert.Equal(t, "2020-01-10", report.DateCoverage.Last)
}

func TestReportNoDates(t *testing.T) {
	loader := New()
	require.NoError(t, loader.LoadInput(strings.NewReader(`[{"name_code": "A"}]`), "fixture"))

	assert.Nil(t, loader.Report().DateCoverage)
}

func TestFieldNames(t *testing.T) {
	loader := New()
	require.NoError(t, loader.LoadInput(strings.NewReader(`[
		{"name_code": "A", "combat_hp": 100},
		{"name_code": "B", "species": "Vulpo"}
	]`), "fixture"))

	assert.Equal(t, []string{"combat_hp", "name_code", "species"}, loader.FieldNames())
}
