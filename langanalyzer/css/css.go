// Package css analyzes CSS (and SCSS/SASS) files with a line-oriented
// scanner, emitting @import URLs as imports and selectors as pseudo-exports
// so layout-sensitive diagnostics elsewhere in the pipeline can look up
// `z-index`/`position`/`display` usage per file.
package css

import (
	"regexp"
	"strings"

	"github.com/loctree/loctree/diagnostics"
	"github.com/loctree/loctree/hashutil"
	"github.com/loctree/loctree/model"
)

var (
	importRe   = regexp.MustCompile(`@import\s+(?:url\()?['"]?([^'")]+)['"]?\)?`)
	selectorRe = regexp.MustCompile(`^([.#]?[\w-]+(?:[\s>+~][.#]?[\w-]+)*)\s*\{`)
)

var layoutProps = map[string]bool{
	"z-index": true, "position": true, "display": true,
}

// Analyze scans one CSS/SCSS/SASS file and returns its FileAnalysis.
func Analyze(content []byte, path string) (*model.FileAnalysis, error) {
	fa := &model.FileAnalysis{Path: path, Language: model.LangCSS, Kind: model.KindSource}
	if h, err := hashutil.Hash(content); err == nil {
		fa.ContentHash = h
	}
	lines := strings.Split(string(content), "\n")
	fa.LOC = countNonBlank(lines)

	var layoutLines []diagnostics.LayoutLine
	for i, line := range lines {
		lineNo := i + 1
		if m := importRe.FindStringSubmatch(line); m != nil {
			fa.Imports = append(fa.Imports, model.ImportEntry{
				Source: m[1], Kind: model.ImportStatic, IsBare: isBareURL(m[1]), Line: lineNo,
			})
		}
		if m := selectorRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			fa.Exports = append(fa.Exports, model.ExportSymbol{Name: m[1], Kind: model.ExportDecl, Line: lineNo})
		}
		if isLayoutDeclaration(line) {
			trimmed := strings.TrimSpace(strings.TrimSuffix(line, ";"))
			fa.SymbolLocalUses = addLayoutUse(fa.SymbolLocalUses, trimmed)
			layoutLines = append(layoutLines, diagnostics.LayoutLine{Text: trimmed, Line: lineNo})
		}
	}
	fa.LayoutFindings = diagnostics.AnalyzeCSSLayout(layoutLines)
	return fa, nil
}

func isBareURL(url string) bool {
	return !strings.HasPrefix(url, ".") && !strings.HasPrefix(url, "/")
}

func isLayoutDeclaration(line string) bool {
	for prop := range layoutProps {
		if strings.Contains(line, prop+":") {
			return true
		}
	}
	return false
}

func addLayoutUse(m map[string][]string, trimmed string) map[string][]string {
	if m == nil {
		m = map[string][]string{}
	}
	m["layout"] = append(m["layout"], trimmed)
	return m
}

func countNonBlank(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}
