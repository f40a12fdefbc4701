package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/query"
)

func deadExportsSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "util.ts", Exports: []model.ExportSymbol{{Name: "unused"}, {Name: "main"}}},
			{Path: "util_test.ts", IsTest: true, Exports: []model.ExportSymbol{{Name: "testOnlyHelper"}}},
			{Path: "scripts/migrate.ts", Exports: []model.ExportSymbol{{Name: "runMigration"}}},
			{Path: "app.ts", Imports: []model.ImportEntry{{Source: "./util", Symbols: []model.ImportedSymbol{{Name: "used"}}}}},
		},
		ExportIndex: map[string][]string{
			"unused":         {"util.ts"},
			"main":           {"util.ts"},
			"testOnlyHelper": {"util_test.ts"},
			"runMigration":   {"scripts/migrate.ts"},
		},
	}
}

func TestFindDeadExportsBasic(t *testing.T) {
	snap := deadExportsSnapshot()
	dead, err := query.FindDeadExports(snap, query.DeadFilterConfig{})
	require.NoError(t, err)

	var symbols []string
	for _, d := range dead {
		symbols = append(symbols, d.Symbol)
	}
	assert.Contains(t, symbols, "unused")
	assert.NotContains(t, symbols, "main", "main is a convention symbol and excluded by default")
	assert.NotContains(t, symbols, "testOnlyHelper", "test-file-only exports are excluded by default")
	assert.NotContains(t, symbols, "runMigration", "scripts/ paths are excluded by default")
}

func TestFindDeadExportsIncludeTestsAndHelpers(t *testing.T) {
	snap := deadExportsSnapshot()
	dead, err := query.FindDeadExports(snap, query.DeadFilterConfig{IncludeTests: true, IncludeHelpers: true})
	require.NoError(t, err)

	var symbols []string
	for _, d := range dead {
		symbols = append(symbols, d.Symbol)
	}
	assert.Contains(t, symbols, "testOnlyHelper")
	assert.Contains(t, symbols, "runMigration")
}

func TestFindDeadExportsIgnoreConventions(t *testing.T) {
	snap := deadExportsSnapshot()
	dead, err := query.FindDeadExports(snap, query.DeadFilterConfig{IgnoreConventions: true})
	require.NoError(t, err)

	var symbols []string
	for _, d := range dead {
		symbols = append(symbols, d.Symbol)
	}
	assert.Contains(t, symbols, "main")
}

func TestFindDeadExportsMatchesPerExporterNotGlobally(t *testing.T) {
	// "helper" is exported by both a.ts and b.ts. consumer.ts imports it from
	// a.ts only (resolved path), so b.ts's "helper" must still be reported
	// dead -- a global name match would wrongly clear both.
	snap := &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "a.ts", Exports: []model.ExportSymbol{{Name: "helper"}}},
			{Path: "b.ts", Exports: []model.ExportSymbol{{Name: "helper"}}},
			{Path: "consumer.ts", Imports: []model.ImportEntry{
				{Source: "./a", ResolvedPath: "a.ts", Symbols: []model.ImportedSymbol{{Name: "helper"}}},
			}},
		},
		ExportIndex: map[string][]string{"helper": {"a.ts", "b.ts"}},
	}
	dead, err := query.FindDeadExports(snap, query.DeadFilterConfig{})
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "helper", dead[0].Symbol)
	assert.Equal(t, []string{"b.ts"}, dead[0].Files)
	assert.Equal(t, "high", dead[0].Confidence)
}

func TestFindDeadExportsConfidence(t *testing.T) {
	snap := &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "a.ts", Exports: []model.ExportSymbol{{Name: "shared"}}},
			{Path: "b.ts", Exports: []model.ExportSymbol{{Name: "shared"}}},
		},
		ExportIndex: map[string][]string{"shared": {"a.ts", "b.ts"}},
	}
	dead, err := query.FindDeadExports(snap, query.DeadFilterConfig{})
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "medium", dead[0].Confidence)
}
