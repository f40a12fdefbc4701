package rust_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/langanalyzer/rust"
	"github.com/loctree/loctree/model"
)

func exportNamed(t *testing.T, fa *model.FileAnalysis, name string) model.ExportSymbol {
	t.Helper()
	for _, e := range fa.Exports {
		if e.Name == name {
			return e
		}
	}
	require.Failf(t, "export not found", "no export named %q in %+v", name, fa.Exports)
	return model.ExportSymbol{}
}

func TestAnalyzeBasicItems(t *testing.T) {
	src := `
use crate::model::Snapshot;

pub fn scan(path: &str) -> Result<(), ()> {
    Ok(())
}

pub struct Walker {
    root: String,
}

pub enum Kind {
    File,
    Dir,
}

pub trait Visitor {
    fn visit(&self);
}

pub const MAX_DEPTH: usize = 64;
`
	fa, err := rust.Analyze([]byte(src), "src/walker.rs")
	require.NoError(t, err)

	assert.Equal(t, model.ExportFunction, exportNamed(t, fa, "scan").Kind)
	assert.Equal(t, model.ExportClass, exportNamed(t, fa, "Walker").Kind)
	assert.Equal(t, model.ExportEnum, exportNamed(t, fa, "Kind").Kind)
	assert.Equal(t, model.ExportInterface, exportNamed(t, fa, "Visitor").Kind)
	assert.Equal(t, model.ExportConst, exportNamed(t, fa, "MAX_DEPTH").Kind)
	assert.Equal(t, model.VisibilityPublic, exportNamed(t, fa, "scan").Visibility)

	require.Len(t, fa.Imports, 1)
	assert.Equal(t, "crate::model::Snapshot", fa.Imports[0].Source)
}

func TestAnalyzeImplBlock(t *testing.T) {
	src := `
struct Walker;

impl Walker {
    fn new() -> Self {
        Walker
    }
}

impl Visitor for Walker {
    fn visit(&self) {}
}
`
	fa, err := rust.Analyze([]byte(src), "src/walker.rs")
	require.NoError(t, err)

	plain := exportNamed(t, fa, "Walker")
	assert.Equal(t, model.ExportClass, plain.Kind, "the struct declaration itself")

	var implKinds []string
	for _, e := range fa.Exports {
		if e.Kind == model.ExportImpl {
			implKinds = append(implKinds, e.Name)
		}
	}
	assert.Contains(t, implKinds, "Walker")
	assert.Contains(t, implKinds, "Visitor for Walker")
}

func TestAnalyzeMacroRules(t *testing.T) {
	src := `
#[macro_export]
macro_rules! exported_macro {
    () => {};
}

macro_rules! private_macro {
    () => {};
}
`
	fa, err := rust.Analyze([]byte(src), "src/macros.rs")
	require.NoError(t, err)

	exported := exportNamed(t, fa, "exported_macro")
	assert.Equal(t, model.ExportDecl, exported.Kind)
	assert.Equal(t, model.VisibilityPublic, exported.Visibility)

	private := exportNamed(t, fa, "private_macro")
	assert.Equal(t, model.VisibilityPrivate, private.Visibility)
}

func TestAnalyzeTauriCommand(t *testing.T) {
	src := `
#[tauri::command]
pub fn greet(name: String) -> String {
    format!("hello {}", name)
}
`
	fa, err := rust.Analyze([]byte(src), "src-tauri/src/lib.rs")
	require.NoError(t, err)

	require.Len(t, fa.CommandHandlers, 1)
	assert.Equal(t, "greet", fa.CommandHandlers[0].Name)
	assert.Equal(t, "greet", fa.CommandHandlers[0].ExposedName)
}

func TestAnalyzeUseWithBraceGroup(t *testing.T) {
	src := `use std::collections::{HashMap, HashSet as Set};`
	fa, err := rust.Analyze([]byte(src), "src/lib.rs")
	require.NoError(t, err)

	require.Len(t, fa.Imports, 2)
	assert.Equal(t, "HashMap", fa.Imports[0].Symbols[0].Name)
	assert.Equal(t, "HashSet", fa.Imports[1].Symbols[0].Name)
	assert.Equal(t, "Set", fa.Imports[1].Symbols[0].Alias)
}

func TestAnalyzeTestFile(t *testing.T) {
	fa, err := rust.Analyze([]byte("fn it_works() {}"), "tests/integration_test.rs")
	require.NoError(t, err)
	assert.True(t, fa.IsTest)
	assert.Equal(t, model.KindTest, fa.Kind)
}
