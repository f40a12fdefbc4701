package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/query"
)

func TestSliceUnknownTargetReturnsFalse(t *testing.T) {
	snap := chainSnapshot()
	_, ok := query.Slice(snap, "missing.ts", query.DefaultSliceConfig())
	assert.False(t, ok)
}

func TestSliceDefaultDepthTwo(t *testing.T) {
	snap := chainSnapshot()
	result, ok := query.Slice(snap, "a.ts", query.DefaultSliceConfig())
	require.True(t, ok)
	assert.Equal(t, "a.ts", result.Target)

	var paths []string
	for _, d := range result.Deps {
		paths = append(paths, d.Path)
	}
	assert.ElementsMatch(t, []string{"b.ts", "c.ts"}, paths, "depth 2 reaches b.ts (1 hop) and c.ts (2 hops) but not d.ts")
}

func TestSliceFuzzyExtensionMatch(t *testing.T) {
	snap := &model.Snapshot{
		Files: []model.FileAnalysis{{Path: "component.tsx"}, {Path: "helper.ts"}},
		Edges: []model.GraphEdge{
			{From: "component.tsx", To: "helper.ts", Label: model.EdgeImport},
		},
	}
	result, ok := query.Slice(snap, "component", query.DefaultSliceConfig())
	require.True(t, ok)
	assert.Equal(t, "component.tsx", result.Target)
}

func TestSliceIncludeConsumers(t *testing.T) {
	snap := chainSnapshot()
	result, ok := query.Slice(snap, "c.ts", query.SliceConfig{MaxDepth: 1, IncludeConsumers: true})
	require.True(t, ok)
	assert.Contains(t, result.Consumers, "b.ts")
}
