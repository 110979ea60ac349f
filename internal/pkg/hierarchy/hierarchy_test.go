package hierarchy

import (
	"testing"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"

	"github.com/rosterlab/rosterviz/internal/pkg/config"
	"github.com/rosterlab/rosterviz/internal/pkg/model"
)

func TestBuildLevels(t *testing.T) {
	builder := New(mustDefaults(t))
	spec := mustHierarchy(t, builder, "class-job-operator")

	dataset := model.NewDataset([]model.Record{
		{"ID": "1", "name_code": "Amiya", "operatorRecords_class": "Caster", "operatorRecords_job": "Core"},
		{"ID": "2", "name_code": "Exusiai", "operatorRecords_class": "Sniper", "operatorRecords_job": "Marksman"},
		{"ID": "3", "name_code": "Kroos", "operatorRecords_class": "Sniper", "operatorRecords_job": "Marksman"},
		{"ID": "4", "name_code": "Surtr"},
	})

	out := builder.Build(dataset, spec)
	require.NotNil(t, out)

	// 3 class rings, 3 job rings, 4 leaves
	require.Equal(t, 10, out.Len())
	assert.InDelta(t, 4, out.RootTotal(), 0)

	index := nodeIndex(t, out)

	assert.InDelta(t, 2, out.Values[index["class::Sniper"]], 0)
	assert.InDelta(t, 2, out.Values[index["job::Marksman::class::Sniper"]], 0)
	assert.InDelta(t, 1, out.Values[index["class::unclassified"]], 0)
	assert.InDelta(t, 1, out.Values[index["job::unspecified role::class::unclassified"]], 0)

	leaf := index["operator::Kroos::job::Marksman::class::Sniper::3"]
	assert.Equal(t, "Kroos", out.Labels[leaf])
	assert.Equal(t, "job::Marksman::class::Sniper", out.Parents[leaf])
}

func TestBuildLeafIdentity(t *testing.T) {
	builder := New(mustDefaults(t))
	spec := mustHierarchy(t, builder, "gender-operator")

	t.Run("should keep operators with equal labels distinct", func(t *testing.T) {
		dataset := model.NewDataset([]model.Record{
			{"ID": "10", "name_code": "Kroos", "gender": "Female"},
			{"ID": "11", "name_code": "Kroos", "gender": "Female"},
		})

		out := builder.Build(dataset, spec)
		require.NotNil(t, out)
		require.Equal(t, 3, out.Len())
		assert.InDelta(t, 2, out.RootTotal(), 0)
	})

	t.Run("should fall back to the record index without an ID", func(t *testing.T) {
		dataset := model.NewDataset([]model.Record{
			{"name_code": "Kroos", "gender": "Female"},
			{"name_code": "Kroos", "gender": "Female"},
		})

		out := builder.Build(dataset, spec)
		require.NotNil(t, out)
		require.Equal(t, 3, out.Len())

		index := nodeIndex(t, out)
		assert.Contains(t, index, "operator::Kroos::gender::Female::0")
		assert.Contains(t, index, "operator::Kroos::gender::Female::1")
	})

	t.Run("should resolve the leaf label through the identity chain", func(t *testing.T) {
		dataset := model.NewDataset([]model.Record{
			{"ID": "12", "name_real": "Elena", "gender": "Female"},
			{"ID": "13", "gender": "Male"},
		})

		out := builder.Build(dataset, spec)
		require.NotNil(t, out)

		index := nodeIndex(t, out)
		assert.Contains(t, index, "operator::Elena::gender::Female::12")
		assert.Contains(t, index, "operator::unnamed operator::gender::Male::13")
	})
}

func TestBuildAffiliationSplit(t *testing.T) {
	builder := New(mustDefaults(t))
	spec := mustHierarchy(t, builder, "affiliation-operator")
	require.Equal(t, config.TransformAffiliationSplit, spec.Transform)

	dataset := model.NewDataset([]model.Record{
		{"ID": "1", "name_code": "Dual", "affiliation_primary": "Rhodes Island", "affiliation_secondary": "Lungmen"},
		{"ID": "2", "name_code": "Single", "affiliation_primary": "Rhodes Island"},
		{"ID": "3", "name_code": "Drifter", "affiliation_secondary": "   "},
	})

	out := builder.Build(dataset, spec)
	require.NotNil(t, out)

	// dual-affiliated operators count once under each affiliation
	assert.InDelta(t, 4, out.RootTotal(), 0)

	index := nodeIndex(t, out)
	assert.InDelta(t, 2, out.Values[index["affiliation::Rhodes Island"]], 0)
	assert.InDelta(t, 1, out.Values[index["affiliation::Lungmen"]], 0)
	assert.InDelta(t, 1, out.Values[index["affiliation::unaffiliated"]], 0)
	assert.Contains(t, index, "operator::Dual::affiliation::Lungmen::1")
}

func TestBuildEmpty(t *testing.T) {
	builder := New(mustDefaults(t))
	spec := mustHierarchy(t, builder, "class-job-operator")

	assert.Nil(t, builder.Build(model.NewDataset(nil), spec))
}

func nodeIndex(t *testing.T, out *model.Hierarchy) map[string]int {
	t.Helper()

	index := make(map[string]int, len(out.IDs))
	for i, id := range out.IDs {
		index[id] = i
	}
	require.Len(t, index, out.Len())

	return index
}

func mustDefaults(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.LoadDefaults()
	require.NoError(t, err)

	return cfg
}

func mustHierarchy(t *testing.T, b *Builder, id string) config.Hierarchy {
	t.Helper()

	spec, ok := b.cfg.GetHierarchy(id)
	require.True(t, ok)

	return spec
}
