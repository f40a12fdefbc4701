package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/query"
)

// chainSnapshot builds a -> b -> c -> d import chain (edge A imports B means
// an edge From:A To:B), the same shape a -> b -> c -> d dependency tree.
func chainSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "a.ts"}, {Path: "b.ts"}, {Path: "c.ts"}, {Path: "d.ts"},
		},
		Edges: []model.GraphEdge{
			{From: "a.ts", To: "b.ts", Label: model.EdgeImport},
			{From: "b.ts", To: "c.ts", Label: model.EdgeImport},
			{From: "c.ts", To: "d.ts", Label: model.EdgeImport},
		},
	}
}

func TestImpactZeroDepthIsEmpty(t *testing.T) {
	snap := chainSnapshot()
	result, err := query.Impact(snap, "d.ts", query.ImpactOptions{MaxDepth: 0})
	require.NoError(t, err)
	assert.Empty(t, result.DirectConsumers)
	assert.Empty(t, result.TransitiveConsumers)
	assert.Equal(t, 0, result.TotalAffected)
}

func TestImpactUnlimitedDepthWalksWholeChain(t *testing.T) {
	snap := chainSnapshot()
	result, err := query.Impact(snap, "d.ts", query.ImpactOptions{MaxDepth: query.UnlimitedDepth})
	require.NoError(t, err)
	require.Len(t, result.DirectConsumers, 1)
	assert.Equal(t, "c.ts", result.DirectConsumers[0].File)
	assert.Equal(t, []string{"d.ts", "c.ts"}, result.DirectConsumers[0].Chain)

	require.Len(t, result.TransitiveConsumers, 2)
	assert.Equal(t, 3, result.TotalAffected)
}

func TestImpactMaxDepthOneOnlyDirectConsumers(t *testing.T) {
	snap := chainSnapshot()
	result, err := query.Impact(snap, "d.ts", query.ImpactOptions{MaxDepth: 1})
	require.NoError(t, err)
	assert.Len(t, result.DirectConsumers, 1)
	assert.Empty(t, result.TransitiveConsumers)
}

func TestImpactNormalizesDotSlashAndSuffix(t *testing.T) {
	snap := chainSnapshot()
	result, err := query.Impact(snap, "./d.ts", query.ImpactOptions{MaxDepth: query.UnlimitedDepth})
	require.NoError(t, err)
	assert.Equal(t, "d.ts", result.Target)

	result, err = query.Impact(snap, "d.ts", query.ImpactOptions{MaxDepth: query.UnlimitedDepth})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalAffected)
}

func TestImpactExcludesReexportEdgesWhenRequested(t *testing.T) {
	snap := &model.Snapshot{
		Files: []model.FileAnalysis{{Path: "a.ts"}, {Path: "index.ts"}},
		Edges: []model.GraphEdge{
			{From: "index.ts", To: "a.ts", Label: model.EdgeReexportStar},
		},
	}
	result, err := query.Impact(snap, "a.ts", query.ImpactOptions{MaxDepth: query.UnlimitedDepth, IncludeReexports: false})
	require.NoError(t, err)
	assert.Empty(t, result.DirectConsumers)

	result, err = query.Impact(snap, "a.ts", query.ImpactOptions{MaxDepth: query.UnlimitedDepth, IncludeReexports: true})
	require.NoError(t, err)
	assert.Len(t, result.DirectConsumers, 1)
}
