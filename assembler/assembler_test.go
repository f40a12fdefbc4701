package assembler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/assembler"
	"github.com/loctree/loctree/model"
)

func TestAssembleMaterializesEdgesAndExportIndex(t *testing.T) {
	files := []model.FileAnalysis{
		{
			Path: "app.ts",
			Imports: []model.ImportEntry{
				{Source: "./util", ResolvedPath: "util.ts", Kind: model.ImportStatic},
			},
		},
		{
			Path:    "util.ts",
			Exports: []model.ExportSymbol{{Name: "formatDate"}},
		},
	}

	snap := assembler.Assemble(assembler.Input{
		Files:       files,
		GeneratedAt: "2026-07-31T00:00:00Z",
	})

	require.Len(t, snap.Edges, 1)
	assert.Equal(t, "app.ts", snap.Edges[0].From)
	assert.Equal(t, "util.ts", snap.Edges[0].To)
	assert.Equal(t, model.EdgeImport, snap.Edges[0].Label)

	assert.Equal(t, []string{"util.ts"}, snap.ExportIndex["formatDate"])
	assert.Equal(t, 2, snap.Metadata.FileCount)
}

func TestAssembleDeduplicatesEdges(t *testing.T) {
	files := []model.FileAnalysis{
		{
			Path: "app.ts",
			Imports: []model.ImportEntry{
				{Source: "./util", ResolvedPath: "util.ts"},
				{Source: "./util", ResolvedPath: "util.ts"},
			},
		},
		{Path: "util.ts"},
	}
	snap := assembler.Assemble(assembler.Input{Files: files})
	assert.Len(t, snap.Edges, 1)
}

func TestAssembleCommandBridges(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "frontend.ts", CommandCalls: []model.CommandRef{{Name: "save_file", Line: 10}}},
		{Path: "backend.rs", CommandHandlers: []model.CommandRef{{Name: "save_file", Line: 22}}},
	}
	snap := assembler.Assemble(assembler.Input{Files: files})

	require.Len(t, snap.CommandBridges, 1)
	b := snap.CommandBridges[0]
	assert.Equal(t, "save_file", b.Name)
	assert.True(t, b.HasHandler)
	assert.True(t, b.IsCalled)
	require.NotNil(t, b.BackendHandler)
	assert.Equal(t, "backend.rs", b.BackendHandler.File)
}

func TestAssembleResolvesEventConstAcrossFiles(t *testing.T) {
	files := []model.FileAnalysis{
		{
			Path:        "constants.ts",
			EventConsts: map[string]string{"FILE_SAVED": "file:saved"},
		},
		{
			Path: "emitter.ts",
			Imports: []model.ImportEntry{
				{Source: "./constants", ResolvedPath: "constants.ts", Symbols: []model.ImportedSymbol{{Name: "FILE_SAVED"}}},
			},
			EventEmits: []model.EventRef{{RawName: "FILE_SAVED", Kind: "emit_ident", Line: 5}},
		},
	}
	snap := assembler.Assemble(assembler.Input{Files: files})

	emitter := snap.FileByPath("emitter.ts")
	require.Len(t, emitter.EventEmits, 1)
	assert.Equal(t, "file:saved", emitter.EventEmits[0].Name)
	assert.Equal(t, "emit_const", emitter.EventEmits[0].Kind)
}

func TestAssembleBarrelDetection(t *testing.T) {
	files := []model.FileAnalysis{
		{
			Path: "components/index.ts",
			Reexports: []model.ReexportEntry{
				{Source: "./Button", Kind: model.ReexportStarKind, ResolvedPath: "components/Button.ts"},
			},
		},
		{Path: "components/Button.ts"},
	}
	snap := assembler.Assemble(assembler.Input{Files: files})
	require.Len(t, snap.Barrels, 1)
	assert.Equal(t, "components/index.ts", snap.Barrels[0].Path)
	assert.Equal(t, 1, snap.Barrels[0].ReexportCount)
}

func TestAssembleMetadataCarriesScanDuration(t *testing.T) {
	snap := assembler.Assemble(assembler.Input{
		Files:        nil,
		ScanDuration: 250 * time.Millisecond,
	})
	assert.Equal(t, int64(250), snap.Metadata.ScanDurationMS)
}

func TestIsPureRustProject(t *testing.T) {
	assert.True(t, assembler.IsPureRustProject([]model.FileAnalysis{{Language: model.LangRust}}))
	assert.False(t, assembler.IsPureRustProject([]model.FileAnalysis{{Language: model.LangRust}, {Language: model.LangTS}}))
}
