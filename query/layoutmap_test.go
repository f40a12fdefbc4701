package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/query"
)

func layoutSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "a.css", LayoutFindings: []model.LayoutFinding{
				{Kind: model.LayoutZIndex, Value: "999", ZVal: 999, Line: 4},
				{Kind: model.LayoutSticky, Value: "sticky", Line: 8},
			}},
			{Path: "b.css", LayoutFindings: []model.LayoutFinding{
				{Kind: model.LayoutGrid, Value: "grid", Line: 2},
			}},
			{Path: "c.css"},
		},
	}
}

func TestLayoutMapAggregatesAcrossFiles(t *testing.T) {
	out := query.LayoutMap(layoutSnapshot(), query.LayoutMapOptions{})
	require.Len(t, out, 2)
	assert.Equal(t, "a.css", out[0].File)
	assert.Equal(t, "b.css", out[1].File)
}

func TestLayoutMapZIndexOnlyFilter(t *testing.T) {
	out := query.LayoutMap(layoutSnapshot(), query.LayoutMapOptions{ZIndexOnly: true})
	require.Len(t, out, 1)
	require.Len(t, out[0].Findings, 1)
	assert.Equal(t, model.LayoutZIndex, out[0].Findings[0].Kind)
}

func TestLayoutMapMinZIndex(t *testing.T) {
	out := query.LayoutMap(layoutSnapshot(), query.LayoutMapOptions{MinZIndex: 1000})
	for _, e := range out {
		for _, f := range e.Findings {
			assert.NotEqual(t, model.LayoutZIndex, f.Kind, "999 < 1000 should be filtered out")
		}
	}
}
