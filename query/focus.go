package query

import (
	"sort"
	"strings"

	"github.com/loctree/loctree/model"
)

// HolographicFocus is the three-layer context view for a directory.
type HolographicFocus struct {
	Dir           string       `json:"dir"`
	Core          []string     `json:"core"`
	InternalEdges int          `json:"internal_edges"`
	Deps          []SliceEntry `json:"deps"`
	Consumers     []string     `json:"consumers,omitempty"`
	Bridges       []string     `json:"bridges,omitempty"`
	Stats         SliceStats   `json:"stats"`
}

func normalizeDir(dir string) string {
	dir = strings.ReplaceAll(dir, "\\", "/")
	dir = strings.TrimPrefix(dir, "./")
	return strings.TrimSuffix(dir, "/")
}

func inDir(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+"/")
}

// Focus builds the holographic context for every file under targetDir.
func Focus(snap *model.Snapshot, targetDir string, cfg SliceConfig) (*HolographicFocus, bool) {
	dir := normalizeDir(targetDir)
	if cfg.MaxDepth == 0 {
		cfg = DefaultSliceConfig()
	}

	var core []string
	coreSet := map[string]bool{}
	for _, f := range snap.Files {
		if inDir(f.Path, dir) {
			core = append(core, f.Path)
			coreSet[f.Path] = true
		}
	}
	if len(core) == 0 {
		return nil, false
	}
	sort.Strings(core)

	internalEdges := 0
	adj := forwardAdjacency(snap)
	visited := map[string]int{}
	queue := []string{}
	for _, p := range core {
		visited[p] = 0
		queue = append(queue, p)
	}
	for _, e := range snap.Edges {
		if coreSet[e.From] && coreSet[e.To] {
			internalEdges++
		}
	}

	var deps []SliceEntry
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		depth := visited[cur]
		if depth >= cfg.MaxDepth {
			continue
		}
		for _, next := range append(append([]string{}, adj[cur]...), adj[stripOneExt(cur)]...) {
			if coreSet[next] {
				continue
			}
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
		for _, f := range core {
			for _, from := range append(append([]string{}, rev[f]...), rev[stripOneExt(f)]...) {
				if coreSet[from] || seen[from] {
					continue
				}
				seen[from] = true
				consumers = append(consumers, from)
			}
		}
		sort.Strings(consumers)
	}

	involved := map[string]bool{}
	for _, p := range core {
		involved[p] = true
	}
	for _, d := range deps {
		involved[d.Path] = true
	}
	for _, c := range consumers {
		involved[c] = true
	}

	stats := SliceStats{}
	for _, p := range core {
		stats.CoreFiles++
		if fa := snap.FileByPath(p); fa != nil {
			stats.CoreLOC += fa.LOC
		}
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

	return &HolographicFocus{
		Dir:           dir,
		Core:          core,
		InternalEdges: internalEdges,
		Deps:          deps,
		Consumers:     consumers,
		Bridges:       bridgeNamesInvolving(snap, involved),
		Stats:         stats,
	}, true
}
