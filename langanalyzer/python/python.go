// Package python analyzes Python source files with a byte-level scanner
// rather than a full parser, following the grounding source's own choice
// to trade exhaustive correctness on exotic syntax for a fast, dependency
//-free pass over imports, definitions, and local-use evidence.
package python

import (
	"regexp"
	"strings"

	"github.com/loctree/loctree/hashutil"
	"github.com/loctree/loctree/model"
)

var (
	importRe     = regexp.MustCompile(`^\s*import\s+([\w.]+)(?:\s+as\s+(\w+))?`)
	fromImportRe = regexp.MustCompile(`^\s*from\s+(\.*[\w.]*)\s+import\s+(.+)`)
	defRe        = regexp.MustCompile(`^(async\s+)?def\s+(\w+)\s*\(([^)]*)\)`)
	classRe      = regexp.MustCompile(`^class\s+(\w+)`)
)

var skipBuiltins = map[string]bool{
	"str": true, "int": true, "float": true, "bool": true, "bytes": true,
	"list": true, "dict": true, "set": true, "tuple": true, "frozenset": true,
	"object": true, "type": true, "None": true, "Any": true, "Optional": true,
	"Union": true, "List": true, "Dict": true, "Set": true, "Tuple": true,
	"Callable": true, "Iterable": true, "Iterator": true, "Sequence": true,
}

var pythonKeywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true,
	"def": true, "class": true, "return": true, "yield": true, "import": true,
	"from": true, "as": true, "with": true, "try": true, "except": true,
	"finally": true, "raise": true, "pass": true, "break": true, "continue": true,
	"lambda": true, "and": true, "or": true, "not": true, "in": true, "is": true,
	"print": true, "super": true, "self": true, "cls": true,
}

var typeFactories = map[string]bool{
	"defaultdict": true, "set": true, "list": true, "dict": true, "tuple": true,
}

// Analyze scans one .py file and returns its FileAnalysis.
func Analyze(content []byte, path string) (*model.FileAnalysis, error) {
	fa := &model.FileAnalysis{
		Path:            path,
		Language:        model.LangPython,
		Kind:            model.KindSource,
		SymbolLocalUses: map[string][]string{},
	}
	if h, err := hashutil.Hash(content); err == nil {
		fa.ContentHash = h
	}
	text := string(content)
	lines := strings.Split(text, "\n")
	fa.LOC = countNonBlank(lines)
	if strings.HasPrefix(basename(path), "test_") || strings.HasSuffix(path, "_test.py") {
		fa.IsTest = true
		fa.Kind = model.KindTest
	}

	for i, line := range lines {
		lineNo := i + 1
		if m := importRe.FindStringSubmatch(line); m != nil {
			entry := model.ImportEntry{Source: m[1], Kind: model.ImportStatic, IsBare: !strings.HasPrefix(m[1], "."), Line: lineNo}
			if m[2] != "" {
				entry.Symbols = []model.ImportedSymbol{{Name: m[1], Alias: m[2]}}
			}
			fa.Imports = append(fa.Imports, entry)
			continue
		}
		if m := fromImportRe.FindStringSubmatch(line); m != nil {
			mod := m[1]
			names := strings.Trim(m[2], "()")
			var symbols []model.ImportedSymbol
			for _, part := range strings.Split(names, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if idx := strings.Index(part, " as "); idx >= 0 {
					symbols = append(symbols, model.ImportedSymbol{Name: strings.TrimSpace(part[:idx]), Alias: strings.TrimSpace(part[idx+4:])})
				} else {
					symbols = append(symbols, model.ImportedSymbol{Name: part})
				}
			}
			fa.Imports = append(fa.Imports, model.ImportEntry{
				Source: mod, Kind: model.ImportStatic, IsBare: !strings.HasPrefix(mod, "."), Symbols: symbols, Line: lineNo,
			})
			continue
		}
		if m := defRe.FindStringSubmatch(line); m != nil {
			name := m[2]
			fa.Exports = append(fa.Exports, model.ExportSymbol{
				Name: name, Kind: model.ExportFunction, Line: lineNo,
				Params:     parsePyParams(m[3]),
				Visibility: pyVisibility(name),
			})
			continue
		}
		if m := classRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			fa.Exports = append(fa.Exports, model.ExportSymbol{
				Name: name, Kind: model.ExportClass, Line: lineNo, Visibility: pyVisibility(name),
			})
			continue
		}
		if strings.Contains(line, "# noqa") {
			fa.Suppressions = append(fa.Suppressions, model.Suppression{Line: lineNo, Kind: "noqa"})
		}
		if strings.Contains(line, "# type: ignore") {
			fa.Suppressions = append(fa.Suppressions, model.Suppression{Line: lineNo, Kind: "type-ignore"})
		}
	}

	uses := extractTypeHintUses(text)
	uses = append(uses, extractFactoryUses(text)...)
	uses = append(uses, extractContainerLiteralUses(text)...)
	uses = append(uses, extractFunctionCallUses(text)...)
	if len(uses) > 0 {
		fa.SymbolLocalUses["*"] = dedup(uses)
	}

	return fa, nil
}

func basename(p string) string {
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
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

func pyVisibility(name string) model.Visibility {
	if strings.HasPrefix(name, "_") {
		return model.VisibilityPrivate
	}
	return model.VisibilityPublic
}

func parsePyParams(paramList string) []model.Param {
	var out []model.Param
	depth := 0
	var current strings.Builder
	flush := func() {
		part := strings.TrimSpace(current.String())
		current.Reset()
		if part == "" || part == "self" || part == "cls" {
			return
		}
		nameType := strings.SplitN(part, ":", 2)
		name := strings.TrimSpace(strings.SplitN(nameType[0], "=", 2)[0])
		p := model.Param{Name: name}
		if len(nameType) == 2 {
			p.TypeAnnotation = strings.TrimSpace(strings.SplitN(nameType[1], "=", 2)[0])
		}
		out = append(out, p)
	}
	for _, r := range paramList {
		switch r {
		case '[', '(':
			depth++
			current.WriteRune(r)
		case ']', ')':
			depth--
			current.WriteRune(r)
		case ',':
			if depth == 0 {
				flush()
				continue
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return out
}

var identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// extractTypeHintUses finds identifiers following `:` or `->` type
// annotations, including nested generics like Dict[str, List[MyClass]].
func extractTypeHintUses(text string) []string {
	var out []string
	re := regexp.MustCompile(`(?::|->)\s*([A-Za-z_][\w.\[\], ]*)`)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		ann := m[1]
		if len(ann) > 500 {
			ann = ann[:500]
		}
		for _, ident := range identRe.FindAllString(ann, -1) {
			if skipBuiltins[ident] || pythonKeywords[ident] {
				continue
			}
			out = append(out, ident)
		}
	}
	return out
}

func extractFactoryUses(text string) []string {
	var out []string
	re := regexp.MustCompile(`\b(defaultdict|set|list|dict|tuple)\(\s*([A-Za-z_][\w]*)`)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if typeFactories[m[1]] && !skipBuiltins[m[2]] {
			out = append(out, m[2])
		}
	}
	return out
}

func extractContainerLiteralUses(text string) []string {
	var out []string
	re := regexp.MustCompile(`[\(\[\{]\s*([A-Za-z_][\w]*)\s*[,\)\]\}]`)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if skipBuiltins[name] || pythonKeywords[name] {
			continue
		}
		out = append(out, name)
	}
	return out
}

func extractFunctionCallUses(text string) []string {
	var out []string
	re := regexp.MustCompile(`\b([A-Za-z_][\w]*)\s*\(`)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if pythonKeywords[m[1]] {
			continue
		}
		out = append(out, m[1])
	}
	return out
}

func dedup(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
