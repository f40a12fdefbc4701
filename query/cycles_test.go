package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/query"
)

func TestFindCyclesNoCycle(t *testing.T) {
	snap := chainSnapshot()
	report := query.FindCycles(snap)
	assert.Empty(t, report.Breaking)
	assert.Empty(t, report.Lazy)
}

func TestFindCyclesBreakingCycle(t *testing.T) {
	snap := &model.Snapshot{
		Edges: []model.GraphEdge{
			{From: "a.ts", To: "b.ts", Label: model.EdgeImport},
			{From: "b.ts", To: "a.ts", Label: model.EdgeImport},
		},
	}
	report := query.FindCycles(snap)
	assert.Empty(t, report.Lazy)
	if assert.Len(t, report.Breaking, 1) {
		assert.ElementsMatch(t, []string{"a.ts", "b.ts"}, report.Breaking[0].Files)
	}
}

func TestFindCyclesLazyCycleWithDynamicEdge(t *testing.T) {
	snap := &model.Snapshot{
		Edges: []model.GraphEdge{
			{From: "a.ts", To: "b.ts", Label: model.EdgeImport},
			{From: "b.ts", To: "a.ts", Label: model.EdgeDynamic},
		},
	}
	report := query.FindCycles(snap)
	assert.Empty(t, report.Breaking)
	assert.Len(t, report.Lazy, 1)
}

func TestFindCyclesSelfLoop(t *testing.T) {
	snap := &model.Snapshot{
		Edges: []model.GraphEdge{
			{From: "recursive.ts", To: "recursive.ts", Label: model.EdgeImport},
		},
	}
	report := query.FindCycles(snap)
	if assert.Len(t, report.Breaking, 1) {
		assert.Equal(t, []string{"recursive.ts"}, report.Breaking[0].Files)
	}
}
