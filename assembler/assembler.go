// Package assembler aggregates per-file analyses into the global snapshot:
// edge materialization, the export index, cross-file event-constant
// resolution, command/event bridges, and barrel metrics. It never mutates a
// caller-supplied FileAnalysis in place -- cross-file passes produce new
// values, per the teacher-style re-architecture notes for this stage.
package assembler

import (
	"sort"
	"strings"
	"time"

	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/pathutil"
)

// Input is everything the assembler needs to build one Snapshot.
type Input struct {
	Roots          []string
	Files          []model.FileAnalysis // in walker emission order
	ScanDuration   time.Duration
	GeneratedAt    string // ISO-8601 UTC; caller-supplied since time.Now() is not permitted mid-scan logic
	ResolverConfig *model.ResolverConfig
	GitRepo        string
	GitBranch      string
	GitCommit      string
	GitScanID      string
}

// Assemble builds the Snapshot from Input.
func Assemble(in Input) *model.Snapshot {
	files := resolveEventConsts(in.Files)

	snap := &model.Snapshot{
		Files: files,
	}
	snap.Edges = materializeEdges(files)
	snap.ExportIndex = buildExportIndex(files)
	snap.CommandBridges = buildCommandBridges(files)
	snap.EventBridges = buildEventBridges(files)
	snap.Barrels = buildBarrels(files)
	snap.Metadata = buildMetadata(in, files)
	return snap
}

func materializeEdges(files []model.FileAnalysis) []model.GraphEdge {
	type key struct {
		from, to string
		label    model.EdgeLabel
	}
	seen := map[key]bool{}
	var edges []model.GraphEdge

	add := func(from, to string, label model.EdgeLabel) {
		if to == "" {
			return
		}
		k := key{from, to, label}
		if seen[k] {
			return
		}
		seen[k] = true
		edges = append(edges, model.GraphEdge{From: from, To: to, Label: label})
	}

	for _, f := range files {
		for _, imp := range f.Imports {
			if imp.ResolvedPath == "" {
				continue
			}
			label := model.EdgeImport
			switch imp.Kind {
			case model.ImportDynamic:
				label = model.EdgeDynamic
			case model.ImportTypeOnly:
				label = model.EdgeTypeOnly
			}
			add(f.Path, imp.ResolvedPath, label)
		}
		for _, re := range f.Reexports {
			if re.ResolvedPath == "" {
				continue
			}
			label := model.EdgeReexport
			if re.Kind == model.ReexportStarKind {
				label = model.EdgeReexportStar
			}
			add(f.Path, re.ResolvedPath, label)
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].Label < edges[j].Label
	})
	return edges
}

func buildExportIndex(files []model.FileAnalysis) map[string][]string {
	idx := map[string][]string{}
	for _, f := range files {
		for _, exp := range f.Exports {
			if !containsStr(idx[exp.Name], f.Path) {
				idx[exp.Name] = append(idx[exp.Name], f.Path)
			}
		}
	}
	for name := range idx {
		sort.Strings(idx[name])
	}
	return idx
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// resolveEventConsts performs the two-phase cross-file event-constant
// resolution described for the assembler: local consts first, then
// import-resolved consts, then a global unique-constant fallback.
func resolveEventConsts(files []model.FileAnalysis) []model.FileAnalysis {
	byPath := map[string]*model.FileAnalysis{}
	out := make([]model.FileAnalysis, len(files))
	for i := range files {
		out[i] = files[i]
		byPath[out[i].Path] = &out[i]
	}

	globalUnique := map[string]string{}
	globalCount := map[string]int{}
	for _, f := range files {
		for name, val := range f.EventConsts {
			if _, seen := globalCount[name]; !seen {
				globalUnique[name] = val
			} else if globalUnique[name] != val {
				delete(globalUnique, name) // ambiguous across files
			}
			globalCount[name]++
		}
	}

	resolve := func(f *model.FileAnalysis, ref model.EventRef) model.EventRef {
		if !strings.HasSuffix(ref.Kind, "_ident") {
			return ref
		}
		ident := ref.RawName
		if ident == "" {
			return ref
		}

		if val, ok := f.EventConsts[ident]; ok {
			return upgradeConst(ref, val)
		}

		for _, imp := range f.Imports {
			if imp.ResolvedPath == "" {
				continue
			}
			for _, sym := range imp.Symbols {
				matchName := sym.Name
				if sym.Alias != "" {
					matchName = sym.Alias
				}
				if matchName != ident {
					continue
				}
				if src, ok := byPath[imp.ResolvedPath]; ok {
					if val, ok := src.EventConsts[sym.Name]; ok {
						return upgradeConst(ref, val)
					}
				}
			}
		}

		if globalCount[ident] == 1 {
			if val, ok := globalUnique[ident]; ok {
				return upgradeConst(ref, val)
			}
		}
		return ref
	}

	for i := range out {
		f := &out[i]
		f.EventEmits = append([]model.EventRef(nil), f.EventEmits...)
		f.EventListens = append([]model.EventRef(nil), f.EventListens...)
		for j, ref := range f.EventEmits {
			f.EventEmits[j] = resolve(f, ref)
		}
		for j, ref := range f.EventListens {
			f.EventListens[j] = resolve(f, ref)
		}
	}
	return out
}

func upgradeConst(ref model.EventRef, value string) model.EventRef {
	ref.Name = value
	ref.Kind = strings.TrimSuffix(ref.Kind, "_ident") + "_const"
	return ref
}

func buildCommandBridges(files []model.FileAnalysis) []model.CommandBridge {
	type bridgeAccum struct {
		frontend []model.Location
		backend  *model.Location
	}
	byName := map[string]*bridgeAccum{}
	order := []string{}

	ensure := func(name string) *bridgeAccum {
		if b, ok := byName[name]; ok {
			return b
		}
		b := &bridgeAccum{}
		byName[name] = b
		order = append(order, name)
		return b
	}

	for _, f := range files {
		for _, c := range f.CommandCalls {
			b := ensure(c.Name)
			b.frontend = append(b.frontend, model.Location{File: f.Path, Line: c.Line})
		}
		for _, c := range f.CommandHandlers {
			name := c.Name
			if c.ExposedName != "" {
				name = c.ExposedName
			}
			b := ensure(name)
			loc := model.Location{File: f.Path, Line: c.Line}
			b.backend = &loc
		}
	}

	sort.Strings(order)
	var out []model.CommandBridge
	for _, name := range order {
		b := byName[name]
		out = append(out, model.CommandBridge{
			Name:           name,
			FrontendCalls:  b.frontend,
			BackendHandler: b.backend,
			HasHandler:     b.backend != nil,
			IsCalled:       len(b.frontend) > 0,
		})
	}
	return out
}

func buildEventBridges(files []model.FileAnalysis) []model.EventBridge {
	type accum struct {
		emits   []model.EventLocation
		listens []model.Location
	}
	byName := map[string]*accum{}
	var order []string
	ensure := func(name string) *accum {
		if a, ok := byName[name]; ok {
			return a
		}
		a := &accum{}
		byName[name] = a
		order = append(order, name)
		return a
	}

	for _, f := range files {
		for _, e := range f.EventEmits {
			a := ensure(e.Name)
			a.emits = append(a.emits, model.EventLocation{File: f.Path, Line: e.Line, Kind: e.Kind})
		}
		for _, e := range f.EventListens {
			a := ensure(e.Name)
			a.listens = append(a.listens, model.Location{File: f.Path, Line: e.Line})
		}
	}

	sort.Strings(order)
	var out []model.EventBridge
	for _, name := range order {
		a := byName[name]
		out = append(out, model.EventBridge{Name: name, Emits: a.emits, Listens: a.listens})
	}
	return out
}

func buildBarrels(files []model.FileAnalysis) []model.Barrel {
	var out []model.Barrel
	for _, f := range files {
		base := pathutil.Base(f.Path)
		if !strings.HasPrefix(base, "index.") {
			continue
		}
		if len(f.Reexports) == 0 {
			continue
		}
		var targets []string
		for _, re := range f.Reexports {
			if re.ResolvedPath != "" {
				targets = append(targets, re.ResolvedPath)
			}
		}
		out = append(out, model.Barrel{
			Path:          f.Path,
			ModuleID:      pathutil.StripKnownExtension(f.Path),
			ReexportCount: len(f.Reexports),
			Targets:       targets,
		})
	}
	return out
}

func buildMetadata(in Input, files []model.FileAnalysis) model.SnapshotMetadata {
	langSet := map[string]bool{}
	totalLOC := 0
	for _, f := range files {
		langSet[string(f.Language)] = true
		totalLOC += f.LOC
	}
	var langs []string
	for l := range langSet {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	return model.SnapshotMetadata{
		SchemaVersion:  model.SchemaVersion,
		GeneratedAt:    in.GeneratedAt,
		Roots:          in.Roots,
		Languages:      langs,
		FileCount:      len(files),
		TotalLOC:       totalLOC,
		ScanDurationMS: in.ScanDuration.Milliseconds(),
		ResolverConfig: in.ResolverConfig,
		GitRepo:        in.GitRepo,
		GitBranch:      in.GitBranch,
		GitCommit:      in.GitCommit,
		GitScanID:      in.GitScanID,
	}
}

// IsPureRustProject reports whether no file in files has a JS/TS-family
// extension -- barrel-chaos detection is skipped entirely for such
// projects, since barrels are a JS/TS module-system concept.
func IsPureRustProject(files []model.FileAnalysis) bool {
	for _, f := range files {
		switch f.Language {
		case model.LangTS, model.LangTSX, model.LangJS, model.LangJSX:
			return false
		}
	}
	return true
}
