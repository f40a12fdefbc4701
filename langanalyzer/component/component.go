// Package component analyzes Svelte and Vue single-file components: the
// <script> block is delegated to the ts package, and the template region is
// scanned separately with the fixed regex inventory in the template
// package, with extracted identifiers folded into the script analysis's
// local-use evidence.
package component

import (
	"regexp"
	"strings"

	"github.com/loctree/loctree/hashutil"
	"github.com/loctree/loctree/langanalyzer/template"
	"github.com/loctree/loctree/langanalyzer/ts"
	"github.com/loctree/loctree/model"
)

var scriptBlockRe = regexp.MustCompile(`(?s)<script[^>]*>(.*?)</script>`)

// Analyze scans one .svelte or .vue file.
func Analyze(content []byte, path string, lang model.Language) (*model.FileAnalysis, error) {
	text := string(content)

	var script string
	if m := scriptBlockRe.FindStringSubmatch(text); m != nil {
		script = m[1]
	}

	const scriptLang = model.LangTS

	var fa *model.FileAnalysis
	var err error
	if strings.TrimSpace(script) != "" {
		fa, err = ts.Analyze([]byte(script), path, scriptLang)
		if err != nil {
			// A malformed script block must not fail the whole scan; fall
			// back to an empty analysis the template pass can still enrich.
			fa = &model.FileAnalysis{Path: path}
		}
	} else {
		fa = &model.FileAnalysis{Path: path}
	}
	fa.Path = path
	fa.Language = lang
	fa.Kind = model.KindSource
	fa.LOC = countNonBlank(text)
	if h, herr := hashutil.Hash(content); herr == nil {
		fa.ContentHash = h
	}

	templateRegion := extractTemplate(text)
	var usages []string
	if lang == model.LangSvelte {
		usages = template.ParseSvelteUsages(templateRegion)
	} else {
		usages = template.ParseVueUsages(templateRegion)
	}
	if len(usages) > 0 {
		if fa.SymbolLocalUses == nil {
			fa.SymbolLocalUses = map[string][]string{}
		}
		fa.SymbolLocalUses["template"] = usages
	}

	return fa, nil
}

var templateBlockRe = regexp.MustCompile(`(?s)<template[^>]*>(.*?)</template>`)

// extractTemplate returns the template region: the explicit <template> body
// for Vue files, or everything outside <script>/<style> for Svelte files
// (which have no wrapping <template> tag).
func extractTemplate(text string) string {
	if m := templateBlockRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	out := scriptBlockRe.ReplaceAllString(text, "")
	out = regexp.MustCompile(`(?s)<style[^>]*>.*?</style>`).ReplaceAllString(out, "")
	return out
}

func countNonBlank(text string) int {
	n := 0
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}
