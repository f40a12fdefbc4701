package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/query"
)

func TestFindTwinsCanonicalByInDegree(t *testing.T) {
	snap := &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "a.ts", Exports: []model.ExportSymbol{{Name: "Widget"}}},
			{Path: "b.ts", Exports: []model.ExportSymbol{{Name: "Widget"}}},
		},
		ExportIndex: map[string][]string{"Widget": {"a.ts", "b.ts"}},
		Edges: []model.GraphEdge{
			{From: "c.ts", To: "b.ts", Label: model.EdgeImport},
			{From: "d.ts", To: "b.ts", Label: model.EdgeImport},
			{From: "c.ts", To: "a.ts", Label: model.EdgeImport},
		},
	}
	twins := query.FindTwins(snap)
	require.Len(t, twins, 1)
	assert.Equal(t, "Widget", twins[0].Symbol)
	assert.Equal(t, "b.ts", twins[0].Canonical, "b.ts has higher in-degree (2 vs 1)")
	assert.Equal(t, []string{"a.ts"}, twins[0].Others)
}

func TestFindDeadParrots(t *testing.T) {
	snap := &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "a.ts", Exports: []model.ExportSymbol{{Name: "unused"}}},
			{Path: "b.ts", Imports: []model.ImportEntry{{Source: "./a", Symbols: []model.ImportedSymbol{{Name: "used"}}}}},
		},
		ExportIndex: map[string][]string{"unused": {"a.ts"}},
	}
	dead := query.FindDeadParrots(snap)
	require.Len(t, dead, 1)
	assert.Equal(t, "unused", dead[0].Symbol)
}

func barrelChaosSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "src/widgets/a.ts"},
			{Path: "src/widgets/b.ts"},
		},
		Edges: []model.GraphEdge{
			{From: "src/app.ts", To: "src/widgets/a.ts", Label: model.EdgeImport},
			{From: "src/other.ts", To: "src/widgets/a.ts", Label: model.EdgeImport},
			{From: "src/more.ts", To: "src/widgets/b.ts", Label: model.EdgeImport},
		},
	}
}

func TestFindBarrelChaosFlagsMissingBarrel(t *testing.T) {
	snap := barrelChaosSnapshot()
	chaos := query.FindBarrelChaos(snap, 3)
	require.Len(t, chaos.MissingBarrels, 1)
	assert.Equal(t, "src/widgets", chaos.MissingBarrels[0].Dir)
	assert.Equal(t, 3, chaos.MissingBarrels[0].ExternalImportCount)
}

func TestFindBarrelChaosHonorsExistingBarrel(t *testing.T) {
	snap := barrelChaosSnapshot()
	snap.Barrels = []model.Barrel{{Path: "src/widgets/index.ts"}}
	chaos := query.FindBarrelChaos(snap, 3)
	assert.Empty(t, chaos.MissingBarrels, "a directory with its own barrel file is never flagged")
}

func TestFindInconsistentPaths(t *testing.T) {
	snap := &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "a.ts", Imports: []model.ImportEntry{{Source: "@app/widget", Symbols: []model.ImportedSymbol{{Name: "Widget"}}}}},
			{Path: "b.ts", Imports: []model.ImportEntry{{Source: "@app/widget", Symbols: []model.ImportedSymbol{{Name: "Widget"}}}}},
			{Path: "c.ts", Imports: []model.ImportEntry{{Source: "../widgets/widget", Symbols: []model.ImportedSymbol{{Name: "Widget"}}}}},
			{Path: "d.ts", Imports: []model.ImportEntry{{Source: "../widgets/widget", Symbols: []model.ImportedSymbol{{Name: "Widget"}}}}},
		},
	}
	out := query.FindBarrelChaos(snap, 1).InconsistentPaths
	require.Len(t, out, 1)
	assert.Equal(t, "Widget", out[0].Symbol)
	assert.Equal(t, "@app/widget", out[0].Canonical)
	assert.Equal(t, []string{"../widgets/widget"}, out[0].Alternatives)
}
