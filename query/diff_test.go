package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/query"
)

func TestCompareRiskScoreFormula(t *testing.T) {
	from := &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "util.ts", Exports: []model.ExportSymbol{{Name: "formatDate"}}},
		},
		Edges: []model.GraphEdge{
			{From: "app.ts", To: "util.ts", Label: model.EdgeImport},
		},
	}
	to := &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "app.ts", Imports: []model.ImportEntry{{Source: "./util", ResolvedPath: "util.ts"}}},
		},
	}
	changed := []query.ChangedFile{
		{Path: "util.ts", Kind: query.ChangeRemoved},
		{Path: "app.ts", Kind: query.ChangeModified},
	}

	diff, err := query.Compare(from, to, changed)
	require.NoError(t, err)

	assert.Equal(t, []string{"util.ts"}, diff.RemovedFiles)
	assert.Equal(t, []string{"app.ts"}, diff.ModifiedFiles)
	assert.Len(t, diff.EdgesRemoved, 1)
	assert.Len(t, diff.ExportsRemoved, 1)

	// removed_files*0.1 + modified_files*0.05 + edges_removed*0.05 + removed_exports*0.15
	// = 1*0.1 + 1*0.05 + 1*0.05 + 1*0.15 = 0.35
	assert.InDelta(t, 0.35, diff.RiskScore, 1e-9)

	require.Len(t, diff.Impacted, 1)
	assert.Equal(t, "app.ts", diff.Impacted[0].File)
	assert.Equal(t, []string{"util.ts"}, diff.Impacted[0].ReferencedBy)
}

func TestCompareRiskScoreClampedToOne(t *testing.T) {
	from := &model.Snapshot{}
	to := &model.Snapshot{}
	var changed []query.ChangedFile
	for i := 0; i < 50; i++ {
		changed = append(changed, query.ChangedFile{Path: "f.ts", Kind: query.ChangeRemoved})
	}
	diff, err := query.Compare(from, to, changed)
	require.NoError(t, err)
	assert.LessOrEqual(t, diff.RiskScore, 1.0)
}

func TestCompareNoChangesZeroRisk(t *testing.T) {
	snap := &model.Snapshot{Files: []model.FileAnalysis{{Path: "a.ts"}}}
	diff, err := query.Compare(snap, snap, nil)
	require.NoError(t, err)
	assert.Zero(t, diff.RiskScore)
	assert.Empty(t, diff.EdgesAdded)
	assert.Empty(t, diff.EdgesRemoved)
}
