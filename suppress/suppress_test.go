package suppress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/suppress"
)

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	entries, err := suppress.Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	root := t.TempDir()
	entries := []suppress.Entry{
		{Kind: suppress.KindDeadExport, Symbol: "formatDate", File: "src/util/date.ts", Reason: "used dynamically"},
		{Kind: suppress.KindCircular, Symbol: "a<->b"},
	}
	require.NoError(t, suppress.Save(root, entries))

	loaded, err := suppress.Load(root)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestIndexSuppressed(t *testing.T) {
	idx := suppress.NewIndex([]suppress.Entry{
		{Kind: suppress.KindDeadExport, Symbol: "formatDate", File: "src/util/date.ts"},
		{Kind: suppress.KindTwin, Symbol: "Button"},
	})

	assert.True(t, idx.Suppressed(suppress.KindDeadExport, "formatDate", "src/util/date.ts"))
	assert.False(t, idx.Suppressed(suppress.KindDeadExport, "formatDate", "src/other/date.ts"),
		"a suppression scoped to one file must not silence another file")
	assert.True(t, idx.Suppressed(suppress.KindTwin, "Button", "any/path.tsx"),
		"a suppression with no file restricts nothing beyond kind+symbol")
	assert.False(t, idx.Suppressed(suppress.KindDeadExport, "unknownSymbol", "x.ts"))
}

func TestNilIndexNeverSuppresses(t *testing.T) {
	var idx *suppress.Index
	assert.False(t, idx.Suppressed(suppress.KindTwin, "Button", "x.tsx"))
}
