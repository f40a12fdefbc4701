// Package langanalyzer dispatches a file to the analyzer for its language,
// by extension, mirroring the teacher's own Factory/GetInspector dispatch
// pattern (inspector.Factory.GetInspector selects an Inspector by
// filepath.Ext; here the same shape selects an Analyze function instead).
package langanalyzer

import (
	"path/filepath"
	"strings"

	"github.com/loctree/loctree/diagnostics"
	"github.com/loctree/loctree/langanalyzer/component"
	"github.com/loctree/loctree/langanalyzer/css"
	"github.com/loctree/loctree/langanalyzer/generic"
	"github.com/loctree/loctree/langanalyzer/golang"
	"github.com/loctree/loctree/langanalyzer/python"
	"github.com/loctree/loctree/langanalyzer/rust"
	"github.com/loctree/loctree/langanalyzer/ts"
	"github.com/loctree/loctree/model"
)

// Options carries the ambient configuration analyzers need beyond a file's
// own bytes -- currently just the scanned module's own Go import path, used
// to classify Go imports as bare or module-local.
type Options struct {
	GoModulePath string
}

// Analyze dispatches path to the analyzer matching its extension, falling
// back to the generic loc-only analyzer for anything unrecognized.
func Analyze(content []byte, path string, opts Options) (*model.FileAnalysis, error) {
	lang := LanguageFor(path)
	switch lang {
	case model.LangTS, model.LangTSX, model.LangJS, model.LangJSX:
		return analyzeTSWithLint(content, path, lang)
	case model.LangRust:
		return rust.Analyze(content, path)
	case model.LangPython:
		return python.Analyze(content, path)
	case model.LangGo:
		return golang.Analyze(content, path, golang.Options{ModulePath: opts.GoModulePath})
	case model.LangCSS:
		return css.Analyze(content, path)
	case model.LangSvelte, model.LangVue:
		return component.Analyze(content, path, lang)
	default:
		return generic.Analyze(content, path)
	}
}

// analyzeTSWithLint runs the TS/JS analyzer and, over the same parsed tree,
// the React effect-cleanup checker -- one parse serves both passes.
func analyzeTSWithLint(content []byte, path string, lang model.Language) (*model.FileAnalysis, error) {
	fa, tree, err := ts.AnalyzeWithTree(content, path, lang)
	if err != nil {
		return nil, err
	}
	fa.ReactLintIssues = diagnostics.AnalyzeReactEffects(tree, content)
	return fa, nil
}

// LanguageFor maps a file's extension onto the Language enum.
func LanguageFor(path string) model.Language {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ts", ".mts", ".cts":
		return model.LangTS
	case ".tsx":
		return model.LangTSX
	case ".js", ".mjs", ".cjs":
		return model.LangJS
	case ".jsx":
		return model.LangJSX
	case ".rs":
		return model.LangRust
	case ".py":
		return model.LangPython
	case ".go":
		return model.LangGo
	case ".css", ".scss", ".sass":
		return model.LangCSS
	case ".svelte":
		return model.LangSvelte
	case ".vue":
		return model.LangVue
	default:
		return model.LangOther
	}
}
