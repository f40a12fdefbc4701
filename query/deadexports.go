package query

import (
	"sort"
	"strings"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/suppress"
)

// DeadFilterConfig controls which candidates FindDeadExports reports.
type DeadFilterConfig struct {
	IncludeTests      bool
	IncludeHelpers    bool
	IgnoreConventions bool
	WithAmbient       bool
	Suppressions      *suppress.Index
}

// DeadExport is one exported symbol with no detected consumer.
type DeadExport struct {
	Symbol     string   `json:"symbol"`
	Files      []string `json:"files"`
	Confidence string   `json:"confidence"`
}

var conventionAllowlist = map[string]bool{
	"main":    true,
	"setup":   true,
	"default": true,
}

// magicMethodPrefixes covers Python dunder methods and Django mixin hooks,
// e.g. __init__, __str__, get_queryset, get_context_data.
var magicMethodPrefixes = []string{"__", "get_", "clean_", "save_", "Meta"}

func isConventionSymbol(name string) bool {
	if conventionAllowlist[name] {
		return true
	}
	for _, p := range magicMethodPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

var helperPathMarkers = []string{"/scripts/", "/docs/", "/tools/", "/helpers/", "/__helpers__/"}

func isHelperPath(path string) bool {
	lower := "/" + strings.ToLower(path)
	for _, m := range helperPathMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func hasAmbientDeclaration(fa *model.FileAnalysis, name string) bool {
	// Ambient declarations (declare global|module|namespace) are not
	// tracked as a distinct export kind; this checks a SymbolLocalUses
	// bucket named "ambient". No analyzer fills that bucket, so this
	// returns false for every file the analyzers produce.
	for _, s := range fa.SymbolLocalUses["ambient"] {
		if s == name {
			return true
		}
	}
	return false
}

// locallyUsedNames collects every name in any file's local-use buckets
// (e.g. a Tauri handler invoked in-process, or a component rendered in a
// template). A symbol named there is treated as used.
func locallyUsedNames(files []model.FileAnalysis) map[string]bool {
	used := map[string]bool{}
	for _, f := range files {
		for _, uses := range f.SymbolLocalUses {
			for _, u := range uses {
				used[u] = true
			}
		}
	}
	return used
}

// importedSymbolNames flattens every imported/locally-used symbol name in
// the snapshot into one repo-wide set, with no regard for which file it
// came from. FindDeadParrots uses this coarser signal deliberately; callers
// that need to clear a specific exporter's candidate (FindDeadExports) must
// use symbolsImportedPerExporter instead, which checks against that
// exporter specifically.
func importedSymbolNames(files []model.FileAnalysis) map[string]bool {
	used := map[string]bool{}
	for _, f := range files {
		for _, imp := range f.Imports {
			for _, sym := range imp.Symbols {
				used[sym.Name] = true
				if sym.Alias != "" {
					used[sym.Alias] = true
				}
			}
		}
		for _, uses := range f.SymbolLocalUses {
			for _, u := range uses {
				used[u] = true
			}
		}
	}
	return used
}

// symbolsImportedPerExporter indexes, for every resolved import/reexport
// target in the snapshot, the set of symbol names (and aliases) imported
// from it. An import that never resolved to a path can't vouch for any one
// exporter, so it contributes nothing here -- unlike a flattened "used
// anywhere" set, it never lets an unrelated file's import of a same-named
// symbol mask a truly dead export on a different file.
func symbolsImportedPerExporter(files []model.FileAnalysis) map[string]map[string]bool {
	byExporter := map[string]map[string]bool{}
	use := func(path, name string) {
		if byExporter[path] == nil {
			byExporter[path] = map[string]bool{}
		}
		byExporter[path][name] = true
	}
	for _, f := range files {
		for _, imp := range f.Imports {
			if imp.ResolvedPath == "" {
				continue
			}
			for _, sym := range imp.Symbols {
				use(imp.ResolvedPath, sym.Name)
				if sym.Alias != "" {
					use(imp.ResolvedPath, sym.Alias)
				}
			}
		}
		for _, re := range f.Reexports {
			if re.ResolvedPath == "" {
				continue
			}
			for _, n := range re.Names {
				use(re.ResolvedPath, n)
			}
		}
	}
	return byExporter
}

// FindDeadExports reports exported symbols that no file in the snapshot
// imports (by resolved path, from that exporter specifically) and that no
// file's local-use evidence names, after applying filter. Confidence is
// "high" for one remaining exporter and "medium" for several; "low" is
// never assigned.
func FindDeadExports(snap *model.Snapshot, filter DeadFilterConfig) ([]DeadExport, error) {
	byExporter := symbolsImportedPerExporter(snap.Files)
	localUses := locallyUsedNames(snap.Files)

	var out []DeadExport
	for symbol, files := range snap.ExportIndex {
		if !filter.IgnoreConventions && isConventionSymbol(symbol) {
			continue
		}
		if filter.Suppressions.Suppressed(suppress.KindDeadExport, symbol, "") {
			continue
		}

		var keep []string
		for _, path := range files {
			fa := snap.FileByPath(path)
			if fa == nil {
				continue
			}
			if !filter.IncludeTests && fa.IsTest {
				continue
			}
			if !filter.IncludeHelpers && isHelperPath(path) {
				continue
			}
			if !filter.WithAmbient && hasAmbientDeclaration(fa, symbol) {
				continue
			}
			if filter.Suppressions.Suppressed(suppress.KindDeadExport, symbol, path) {
				continue
			}
			if byExporter[path][symbol] {
				continue
			}
			if localUses[symbol] {
				continue
			}
			keep = append(keep, path)
		}
		if len(keep) == 0 {
			continue
		}

		confidence := "low"
		switch {
		case len(keep) == 1:
			confidence = "high"
		case len(keep) > 1:
			confidence = "medium"
		}

		out = append(out, DeadExport{Symbol: symbol, Files: keep, Confidence: confidence})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}
