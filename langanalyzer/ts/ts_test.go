package ts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/langanalyzer/ts"
	"github.com/loctree/loctree/model"
)

func TestAnalyzeImportsAndExports(t *testing.T) {
	src := `
import React from 'react';
import { useState, useEffect as useEff } from 'react';
import * as path from 'path';
import './styles.css';
import type { Widget } from './widget';

export function render(name: string) {}
export const MAX = 10;
export class Store {}
export interface Props {}
export default function App() {}
`
	fa, err := ts.Analyze([]byte(src), "src/app.tsx", model.LangTSX)
	require.NoError(t, err)

	var sources []string
	for _, imp := range fa.Imports {
		sources = append(sources, imp.Source)
	}
	assert.Contains(t, sources, "react")
	assert.Contains(t, sources, "path")
	assert.Contains(t, sources, "./styles.css")
	assert.Contains(t, sources, "./widget")

	var exportNames []string
	for _, e := range fa.Exports {
		exportNames = append(exportNames, e.Name)
	}
	assert.Contains(t, exportNames, "render")
	assert.Contains(t, exportNames, "MAX")
	assert.Contains(t, exportNames, "Store")
	assert.Contains(t, exportNames, "Props")
	assert.Contains(t, exportNames, "default")
}

func TestAnalyzeReexports(t *testing.T) {
	src := `
export * from './a';
export { b, c as d } from './b';
`
	fa, err := ts.Analyze([]byte(src), "src/index.ts", model.LangTS)
	require.NoError(t, err)

	require.Len(t, fa.Reexports, 2)
	assert.Equal(t, model.ReexportStarKind, fa.Reexports[0].Kind)
	assert.Equal(t, model.ReexportNamedKind, fa.Reexports[1].Kind)
	assert.Equal(t, []string{"b", "c"}, fa.Reexports[1].Names)
}

func TestAnalyzeDynamicImport(t *testing.T) {
	src := `const mod = await import('./lazy');`
	fa, err := ts.Analyze([]byte(src), "src/app.ts", model.LangTS)
	require.NoError(t, err)

	require.Len(t, fa.DynamicImports, 1)
	assert.Equal(t, "./lazy", fa.DynamicImports[0])

	var found bool
	for _, imp := range fa.Imports {
		if imp.Kind == model.ImportDynamic {
			found = true
			assert.Equal(t, "./lazy", imp.Source)
		}
	}
	assert.True(t, found)
}

func TestAnalyzeTauriInvoke(t *testing.T) {
	src := `invoke<string>("greet_user", { userName: "a" });`
	fa, err := ts.Analyze([]byte(src), "src/api.ts", model.LangTS)
	require.NoError(t, err)

	require.Len(t, fa.CommandCalls, 1)
	assert.Equal(t, "greet_user", fa.CommandCalls[0].Name)
	assert.Equal(t, "string", fa.CommandCalls[0].GenericType)

	require.Len(t, fa.CommandPayloadCasing, 1)
	assert.Equal(t, "userName", fa.CommandPayloadCasing[0].Key)
}

func TestAnalyzeEventEmitAndListen(t *testing.T) {
	src := `
emit("app:ready", {});
listen("app:ready", () => {});
`
	fa, err := ts.Analyze([]byte(src), "src/events.ts", model.LangTS)
	require.NoError(t, err)

	require.Len(t, fa.EventEmits, 1)
	assert.Equal(t, "app:ready", fa.EventEmits[0].Name)
	require.Len(t, fa.EventListens, 1)
	assert.Equal(t, "app:ready", fa.EventListens[0].Name)
}

func TestAnalyzeSuppressionsAndTestPath(t *testing.T) {
	src := `
// @ts-ignore
const x: number = "oops";
`
	fa, err := ts.Analyze([]byte(src), "src/widget.test.ts", model.LangTS)
	require.NoError(t, err)

	assert.True(t, fa.IsTest)
	assert.Equal(t, model.KindTest, fa.Kind)
	require.Len(t, fa.Suppressions, 1)
	assert.Equal(t, "ts-ignore", fa.Suppressions[0].Kind)
}
