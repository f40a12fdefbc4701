package query

import (
	"sort"
	"strings"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/pathutil"
)

// Twin is a symbol name exported by two or more files.
type Twin struct {
	Symbol    string   `json:"symbol"`
	Canonical string   `json:"canonical"`
	Others    []string `json:"others"`
}

// DeadParrot is an exported symbol with zero incoming imports repo-wide.
type DeadParrot struct {
	Symbol string   `json:"symbol"`
	Files  []string `json:"files"`
}

// MissingBarrel is a directory with >= threshold external imports into its
// files but no index.* file of its own.
type MissingBarrel struct {
	Dir                string `json:"dir"`
	FileCount          int    `json:"file_count"`
	ExternalImportCount int   `json:"external_import_count"`
}

// ReexportChain is one symbol's path through a chain of barrel files longer
// than 2 hops.
type ReexportChain struct {
	Symbol string   `json:"symbol"`
	Chain  []string `json:"chain"`
	Depth  int      `json:"depth"`
}

// InconsistentPath flags a symbol imported via more than one distinct
// source string, each used more than once.
type InconsistentPath struct {
	Symbol       string   `json:"symbol"`
	Canonical    string   `json:"canonical"`
	Alternatives []string `json:"alternatives"`
}

// BarrelChaos bundles the three barrel-hygiene sub-detections.
type BarrelChaos struct {
	MissingBarrels    []MissingBarrel    `json:"missing_barrels"`
	DeepChains        []ReexportChain    `json:"deep_chains"`
	InconsistentPaths []InconsistentPath `json:"inconsistent_paths"`
}

func inDegree(snap *model.Snapshot) map[string]int {
	deg := map[string]int{}
	for _, e := range snap.Edges {
		deg[e.To]++
	}
	return deg
}

// FindTwins reports every export_index entry with two or more files. The
// canonical file is the one with the highest in-degree, ties broken by the
// shorter path.
func FindTwins(snap *model.Snapshot) []Twin {
	deg := inDegree(snap)
	var out []Twin
	for symbol, files := range snap.ExportIndex {
		if len(files) < 2 {
			continue
		}
		sorted := append([]string{}, files...)
		sort.Slice(sorted, func(i, j int) bool {
			if deg[sorted[i]] != deg[sorted[j]] {
				return deg[sorted[i]] > deg[sorted[j]]
			}
			if len(sorted[i]) != len(sorted[j]) {
				return len(sorted[i]) < len(sorted[j])
			}
			return sorted[i] < sorted[j]
		})
		var others []string
		for _, f := range sorted[1:] {
			others = append(others, f)
		}
		out = append(out, Twin{Symbol: symbol, Canonical: sorted[0], Others: others})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// FindDeadParrots reports exports with zero incoming imports in the whole
// repo -- a coarser, unfiltered sibling to FindDeadExports.
func FindDeadParrots(snap *model.Snapshot) []DeadParrot {
	used := importedSymbolNames(snap.Files)
	var out []DeadParrot
	for symbol, files := range snap.ExportIndex {
		if used[symbol] {
			continue
		}
		out = append(out, DeadParrot{Symbol: symbol, Files: append([]string{}, files...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// FindBarrelChaos runs the three barrel-hygiene sub-detections. It must not
// be called for a pure-Rust project -- callers should gate with
// assembler.IsPureRustProject first.
func FindBarrelChaos(snap *model.Snapshot, threshold int) BarrelChaos {
	if threshold <= 0 {
		threshold = 3
	}
	return BarrelChaos{
		MissingBarrels:    findMissingBarrels(snap, threshold),
		DeepChains:        findDeepChains(snap),
		InconsistentPaths: findInconsistentPaths(snap),
	}
}

func findMissingBarrels(snap *model.Snapshot, threshold int) []MissingBarrel {
	barrelDirs := map[string]bool{}
	for _, b := range snap.Barrels {
		barrelDirs[pathutil.Dir(b.Path)] = true
	}

	filesByDir := map[string][]string{}
	for _, f := range snap.Files {
		d := pathutil.Dir(f.Path)
		filesByDir[d] = append(filesByDir[d], f.Path)
	}

	externalImports := map[string]int{}
	for _, e := range snap.Edges {
		toDir := pathutil.Dir(e.To)
		fromDir := pathutil.Dir(e.From)
		if toDir == fromDir {
			continue
		}
		externalImports[toDir]++
	}

	var out []MissingBarrel
	for dir, files := range filesByDir {
		if dir == "" || barrelDirs[dir] {
			continue
		}
		if len(files) < 2 {
			continue
		}
		count := externalImports[dir]
		if count < threshold {
			continue
		}
		out = append(out, MissingBarrel{Dir: dir, FileCount: len(files), ExternalImportCount: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExternalImportCount != out[j].ExternalImportCount {
			return out[i].ExternalImportCount > out[j].ExternalImportCount
		}
		return out[i].Dir < out[j].Dir
	})
	return out
}

func isBarrelPath(path string) bool {
	return strings.HasPrefix(pathutil.Base(path), "index.")
}

// findDeepChains walks barrel -> barrel edges, taking the first next-target
// at each hop, reporting chains longer than 2 hops per exported symbol of
// the final non-barrel target.
func findDeepChains(snap *model.Snapshot) []ReexportChain {
	byPath := map[string][]model.GraphEdge{}
	for _, e := range snap.Edges {
		if e.Label == model.EdgeReexport || e.Label == model.EdgeReexportStar {
			byPath[e.From] = append(byPath[e.From], e)
		}
	}

	var out []ReexportChain
	for _, b := range snap.Barrels {
		chain := []string{b.Path}
		visited := map[string]bool{b.Path: true}
		cur := b.Path
		for isBarrelPath(cur) {
			edges := byPath[cur]
			if len(edges) == 0 {
				break
			}
			next := edges[0].To
			if visited[next] {
				break
			}
			visited[next] = true
			chain = append(chain, next)
			cur = next
		}
		if len(chain)-1 <= 2 {
			continue
		}
		final := chain[len(chain)-1]
		fa := snap.FileByPath(final)
		if fa == nil {
			continue
		}
		for _, exp := range fa.Exports {
			out = append(out, ReexportChain{Symbol: exp.Name, Chain: chain, Depth: len(chain) - 1})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth > out[j].Depth
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// findInconsistentPaths groups imports of the same symbol (by alias if
// present, else name) by the source string used, flagging a non-canonical
// source only if it is used more than once.
func findInconsistentPaths(snap *model.Snapshot) []InconsistentPath {
	type key struct{ symbol, source string }
	counts := map[key]int{}
	symbolSources := map[string]map[string]bool{}

	for _, f := range snap.Files {
		for _, imp := range f.Imports {
			for _, sym := range imp.Symbols {
				name := sym.Name
				if sym.Alias != "" {
					name = sym.Alias
				}
				counts[key{name, imp.Source}]++
				if symbolSources[name] == nil {
					symbolSources[name] = map[string]bool{}
				}
				symbolSources[name][imp.Source] = true
			}
		}
	}

	var out []InconsistentPath
	for symbol, sources := range symbolSources {
		if len(sources) < 2 {
			continue
		}
		type sc struct {
			source string
			count  int
		}
		var list []sc
		for src := range sources {
			list = append(list, sc{src, counts[key{symbol, src}]})
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].count != list[j].count {
				return list[i].count > list[j].count
			}
			return list[i].source < list[j].source
		})

		canonical := list[0].source
		var alts []string
		for _, s := range list[1:] {
			if s.count > 1 {
				alts = append(alts, s.source)
			}
		}
		if len(alts) == 0 {
			continue
		}
		out = append(out, InconsistentPath{Symbol: symbol, Canonical: canonical, Alternatives: alts})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Alternatives) != len(out[j].Alternatives) {
			return len(out[i].Alternatives) > len(out[j].Alternatives)
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
