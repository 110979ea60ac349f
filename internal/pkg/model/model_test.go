package model

import (
	"testing"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"

	"github.com/rosterlab/rosterviz/internal/pkg/scalar"
)

func TestRecordLabel(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{name: "code name first", record: Record{"name_code": "Raven", "code": "R-01", "name_real": "Jane"}, want: "Raven"},
		{name: "falls back to code", record: Record{"code": "R-01", "name_real": "Jane"}, want: "R-01"},
		{name: "falls back to real name", record: Record{"name_real": "Jane"}, want: "Jane"},
		{name: "blank fields skipped", record: Record{"name_code": "  ", "code": "R-01"}, want: "R-01"},
		{name: "fallback label", record: Record{"combat_hp": 100}, want: "operator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Label("operator"))
		})
	}
}

func TestRecordIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		index  int
		want   string
	}{
		{name: "uppercase ID first", record: Record{"ID": "op-7", "id": "x"}, want: "op-7"},
		{name: "lowercase id", record: Record{"id": "op-8"}, want: "op-8"},
		{name: "operator id", record: Record{"operator_id": 12}, want: "12"},
		{name: "positional fallback", record: Record{"name_code": "Raven"}, index: 4, want: "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Identifier(tt.index))
		})
	}
}

func TestRecordCategorical(t *testing.T) {
	record := Record{"operatorRecords_class": "Guard", "species": "   ", "gender": nil}

	assert.Equal(t, "Guard", record.Categorical("operatorRecords_class"))
	assert.Equal(t, scalar.Missing, record.Categorical("species"))
	assert.Equal(t, scalar.Missing, record.Categorical("gender"))
	assert.Equal(t, scalar.Missing, record.Categorical("affiliation_primary"))
}

func TestRecordMatchesSearch(t *testing.T) {
	record := Record{"name_code": "Raven", "code": "R-01", "name_real": "Jane Doe"}

	assert.True(t, record.MatchesSearch("rav"))
	assert.True(t, record.MatchesSearch("r-01"))
	assert.True(t, record.MatchesSearch("DOE"))
	assert.True(t, record.MatchesSearch("  "))
	assert.False(t, record.MatchesSearch("sparrow"))
}

func TestDatasetVersion(t *testing.T) {
	records := []Record{{"name_code": "A"}, {"name_code": "B"}}

	first := NewDataset(records)
	second := NewDataset(records)

	require.Equal(t, 2, first.Len())
	assert.Len(t, first.Records(), 2)
	assert.NotEmpty(t, first.Version())
	assert.NotEqual(t, first.Version(), second.Version(), "each dataset gets its own version")
}

func TestLabelComparator(t *testing.T) {
	comparator := NewLabelComparator()

	assert.True(t, comparator.Less("Op2", "Op10"), "embedded numbers compare by value")
	assert.True(t, comparator.Less("alpha", "Beta"), "case is ignored")
	assert.Equal(t, 0, comparator.Compare("raven", "Raven"))
	assert.Positive(t, comparator.Compare("Zulu", "alpha"))
}

func TestTimelineAxes(t *testing.T) {
	timeline := &Timeline{
		Series: []Series{
			{Label: "HP", Points: []SeriesPoint{{Axis: "2020-01-10", Value: 1}, {Axis: "2020-02-01", Value: 2}}},
			{Label: "ATK", Points: []SeriesPoint{{Axis: "2020-01-05", Value: 1}, {Axis: "2020-01-10", Value: 3}}},
		},
	}

	assert.Equal(t, []string{"2020-01-05", "2020-01-10", "2020-02-01"}, timeline.Axes())
}

func TestHierarchyRootTotal(t *testing.T) {
	hierarchy := &Hierarchy{
		Labels:  []string{"Guard", "Sniper", "Alpha", "Beta", "Gamma"},
		Parents: []string{"", "", "class::Guard::", "class::Guard::", "class::Sniper::"},
		Values:  []float64{2, 1, 1, 1, 1},
		IDs:     []string{"class::Guard::", "class::Sniper::", "leaf::Alpha::class::Guard::::0", "leaf::Beta::class::Guard::::1", "leaf::Gamma::class::Sniper::::2"},
	}

	require.Equal(t, 5, hierarchy.Len())
	assert.InDelta(t, 3.0, hierarchy.RootTotal(), 1e-9)
}

func TestRankingAccessors(t *testing.T) {
	ranking := &Ranking{
		Title: "Highest HP",
		Entries: []RankingEntry{
			{Label: "B", Value: 200, Display: "200"},
			{Label: "A", Value: 100, Display: "100"},
		},
	}

	assert.Equal(t, []string{"B", "A"}, ranking.Labels())
	assert.Equal(t, []float64{200, 100}, ranking.Values())
}
