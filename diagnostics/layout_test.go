package diagnostics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/diagnostics"
	"github.com/loctree/loctree/model"
)

func TestAnalyzeCSSLayoutClassifiesDeclarations(t *testing.T) {
	lines := []diagnostics.LayoutLine{
		{Text: "z-index: 50", Line: 4},
		{Text: "position: sticky", Line: 8},
		{Text: "position: relative", Line: 9},
		{Text: "display: inline-flex", Line: 12},
		{Text: "display: block", Line: 13},
	}
	findings := diagnostics.AnalyzeCSSLayout(lines)

	require.Len(t, findings, 3)
	assert.Equal(t, model.LayoutZIndex, findings[0].Kind)
	assert.Equal(t, 50, findings[0].ZVal)
	assert.Equal(t, model.LayoutSticky, findings[1].Kind)
	assert.Equal(t, model.LayoutGrid, findings[2].Kind)
	assert.Equal(t, "inline-flex", findings[2].Value)
}

func TestAnalyzeCSSLayoutIgnoresMalformedZIndex(t *testing.T) {
	findings := diagnostics.AnalyzeCSSLayout([]diagnostics.LayoutLine{
		{Text: "z-index: auto", Line: 1},
	})
	assert.Empty(t, findings)
}
