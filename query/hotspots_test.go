package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/query"
)

func hotspotsSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "core.ts"},
			{Path: "mid.ts"},
			{Path: "leaf.ts"},
		},
		Edges: []model.GraphEdge{
			{From: "a.ts", To: "core.ts", Label: model.EdgeImport},
			{From: "b.ts", To: "core.ts", Label: model.EdgeImport},
			{From: "c.ts", To: "core.ts", Label: model.EdgeImport},
			{From: "mid.ts", To: "core.ts", Label: model.EdgeImport},
			{From: "a.ts", To: "mid.ts", Label: model.EdgeImport},
		},
	}
}

func TestHotspotsRanksByInDegree(t *testing.T) {
	out, err := query.Hotspots(hotspotsSnapshot(), query.HotspotsOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "core.ts", out[0].Path)
	assert.Equal(t, 4, out[0].InDegree)
}

func TestHotspotsLeavesOnly(t *testing.T) {
	out, err := query.Hotspots(hotspotsSnapshot(), query.HotspotsOptions{LeavesOnly: true})
	require.NoError(t, err)
	var paths []string
	for _, e := range out {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, "leaf.ts")
	assert.NotContains(t, paths, "core.ts")
}

func TestHotspotsCoupling(t *testing.T) {
	out, err := query.Hotspots(hotspotsSnapshot(), query.HotspotsOptions{Coupling: true, MinImports: 1})
	require.NoError(t, err)
	for _, e := range out {
		if e.Path == "mid.ts" {
			assert.Equal(t, 1, e.OutDegree)
		}
	}
}

func TestWhoImportsDirectOnly(t *testing.T) {
	snap := hotspotsSnapshot()
	out, err := query.WhoImports(snap, "core.ts")
	require.NoError(t, err)

	var files []string
	for _, e := range out {
		files = append(files, e.File)
	}
	assert.ElementsMatch(t, []string{"a.ts", "b.ts", "c.ts", "mid.ts"}, files)
}

func TestWhereSymbolFindsAllDeclarationSites(t *testing.T) {
	snap := &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "a.ts", Exports: []model.ExportSymbol{{Name: "Widget", Kind: model.ExportClass, Line: 10}}},
			{Path: "b.ts", Exports: []model.ExportSymbol{{Name: "Widget", Kind: model.ExportFunction, Line: 3}}},
		},
		ExportIndex: map[string][]string{"Widget": {"a.ts", "b.ts"}},
	}
	out, err := query.WhereSymbol(snap, "Widget")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a.ts", out[0].File)
	assert.Equal(t, model.ExportClass, out[0].Kind)
	assert.Equal(t, "b.ts", out[1].File)
}

func TestWhereSymbolUnknown(t *testing.T) {
	snap := &model.Snapshot{ExportIndex: map[string][]string{}}
	out, err := query.WhereSymbol(snap, "Ghost")
	require.NoError(t, err)
	assert.Empty(t, out)
}
