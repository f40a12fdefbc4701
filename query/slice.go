package query

import (
	"sort"
	"strings"

	"github.com/loctree/loctree/model"
)

// stripExts are tried in order when fuzzy-matching an import specifier
// against a stored file path. .tsx is tried before .ts so a .tsx path is
// never partially stripped to a dangling .t.
var stripExts = []string{".tsx", ".ts", ".jsx", ".js", ".mjs", ".cjs", ".rs", ".py", ".css", ".scss", ".sass"}

func stripOneExt(p string) string {
	for _, ext := range stripExts {
		if strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return p
}

// SliceConfig configures Slice and Focus.
type SliceConfig struct {
	MaxDepth         int
	IncludeConsumers bool
}

// DefaultSliceConfig returns the documented defaults: max_depth 2,
// include_consumers false.
func DefaultSliceConfig() SliceConfig {
	return SliceConfig{MaxDepth: 2, IncludeConsumers: false}
}

// SliceEntry is one file in a Deps or Consumers layer.
type SliceEntry struct {
	Path  string `json:"path"`
	Depth int    `json:"depth"`
}

// SliceStats summarizes file and LOC totals per layer.
type SliceStats struct {
	CoreFiles      int `json:"core_files"`
	CoreLOC        int `json:"core_loc"`
	DepFiles       int `json:"dep_files"`
	DepLOC         int `json:"dep_loc"`
	ConsumerFiles  int `json:"consumer_files"`
	ConsumerLOC    int `json:"consumer_loc"`
	TotalFiles     int `json:"total_files"`
	TotalLOC       int `json:"total_loc"`
}

// HolographicSlice is the three-layer context view for a single file.
type HolographicSlice struct {
	Target    string       `json:"target"`
	Core      []string     `json:"core"`
	Deps      []SliceEntry `json:"deps"`
	Consumers []string     `json:"consumers,omitempty"`
	Bridges   []string     `json:"bridges,omitempty"`
	Stats     SliceStats   `json:"stats"`
}

// forwardAdjacency builds, for each file, both its raw path and
// extension-stripped path as keys mapping to the resolved targets of its
// outgoing edges, so BFS matches regardless of which form an edge carries.
func forwardAdjacency(snap *model.Snapshot) map[string][]string {
	adj := map[string][]string{}
	add := func(key, to string) {
		adj[key] = append(adj[key], to)
	}
	for _, e := range snap.Edges {
		add(e.From, e.To)
		add(stripOneExt(e.From), e.To)
	}
	return adj
}

// resolveSliceTarget tolerates an exact match, a suffix match, the
// normalized target being a suffix of a stored path, or a target that
// omits the stored path's extension.
func resolveSliceTarget(snap *model.Snapshot, target string) (string, bool) {
	target = strings.ReplaceAll(target, "\\", "/")
	target = strings.TrimPrefix(target, "./")
	if snap.FileByPath(target) != nil {
		return target, true
	}
	for _, f := range snap.Files {
		if f.Path == target || strings.HasSuffix(f.Path, "/"+target) || strings.HasSuffix(target, "/"+f.Path) ||
			stripOneExt(f.Path) == target || strings.HasSuffix(stripOneExt(f.Path), "/"+target) {
			return f.Path, true
		}
	}
	return "", false
}

func bridgeNamesInvolving(snap *model.Snapshot, paths map[string]bool) []string {
	matches := func(p string) bool {
		if paths[p] {
			return true
		}
		return paths[stripOneExt(p)]
	}
	seen := map[string]bool{}
	var out []string
	for _, b := range snap.CommandBridges {
		hit := false
		for _, loc := range b.FrontendCalls {
			if matches(loc.File) {
				hit = true
			}
		}
		if b.BackendHandler != nil && matches(b.BackendHandler.File) {
			hit = true
		}
		if hit && !seen[b.Name] {
			seen[b.Name] = true
			out = append(out, b.Name)
		}
	}
	for _, b := range snap.EventBridges {
		hit := false
		for _, loc := range b.Emits {
			if matches(loc.File) {
				hit = true
			}
		}
		for _, loc := range b.Listens {
			if matches(loc.File) {
				hit = true
			}
		}
		if hit && !seen[b.Name] {
			seen[b.Name] = true
			out = append(out, b.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Slice builds the holographic context for one file: itself, its
// dependencies out to cfg.MaxDepth, and optionally its immediate consumers.
func Slice(snap *model.Snapshot, target string, cfg SliceConfig) (*HolographicSlice, bool) {
	path, ok := resolveSliceTarget(snap, target)
	if !ok {
		return nil, false
	}
	if cfg.MaxDepth == 0 {
		cfg = DefaultSliceConfig()
	}

	adj := forwardAdjacency(snap)
	visited := map[string]int{path: 0}
	queue := []string{path}
	var deps []SliceEntry

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		depth := visited[cur]
		if depth >= cfg.MaxDepth {
			continue
		}
		for _, next := range append(append([]string{}, adj[cur]...), adj[stripOneExt(cur)]...) {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = depth + 1
			deps = append(deps, SliceEntry{Path: next, Depth: depth + 1})
			queue = append(queue, next)
		}
	}

	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Depth != deps[j].Depth {
			return deps[i].Depth < deps[j].Depth
		}
		return deps[i].Path < deps[j].Path
	})

	var consumers []string
	if cfg.IncludeConsumers {
		rev := reverseAdjacency(snap, true)
		seen := map[string]bool{}
		for _, from := range append(append([]string{}, rev[path]...), rev[stripOneExt(path)]...) {
			if !seen[from] {
				seen[from] = true
				consumers = append(consumers, from)
			}
		}
		sort.Strings(consumers)
	}

	involved := map[string]bool{path: true}
	for _, d := range deps {
		involved[d.Path] = true
	}
	for _, c := range consumers {
		involved[c] = true
	}

	stats := SliceStats{CoreFiles: 1}
	if fa := snap.FileByPath(path); fa != nil {
		stats.CoreLOC = fa.LOC
	}
	for _, d := range deps {
		stats.DepFiles++
		if fa := snap.FileByPath(d.Path); fa != nil {
			stats.DepLOC += fa.LOC
		}
	}
	for _, c := range consumers {
		stats.ConsumerFiles++
		if fa := snap.FileByPath(c); fa != nil {
			stats.ConsumerLOC += fa.LOC
		}
	}
	stats.TotalFiles = stats.CoreFiles + stats.DepFiles + stats.ConsumerFiles
	stats.TotalLOC = stats.CoreLOC + stats.DepLOC + stats.ConsumerLOC

	return &HolographicSlice{
		Target:    path,
		Core:      []string{path},
		Deps:      deps,
		Consumers: consumers,
		Bridges:   bridgeNamesInvolving(snap, involved),
		Stats:     stats,
	}, true
}
