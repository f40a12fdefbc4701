package query

import (
	"sort"

	"github.com/loctree/loctree/model"
)

// HotspotsOptions configures Hotspots.
type HotspotsOptions struct {
	MinImports int  // default 1; ignored when LeavesOnly is set
	Limit      int  // default 50
	LeavesOnly bool // keep only files with in_degree == 0
	Coupling   bool // also compute OutDegree
}

// HotspotEntry is one file's import-frequency ranking.
type HotspotEntry struct {
	Path      string `json:"path"`
	InDegree  int    `json:"in_degree"`
	OutDegree int    `json:"out_degree,omitempty"`
}

// Hotspots ranks files by how many distinct files import them -- a quick
// view of which files are core (high in-degree) vs peripheral. Reexport
// edges count toward in-degree the same way Impact treats them by default.
func Hotspots(snap *model.Snapshot, opts HotspotsOptions) ([]HotspotEntry, error) {
	minImports := opts.MinImports
	if minImports == 0 {
		minImports = 1
	}
	limit := opts.Limit
	if limit == 0 {
		limit = 50
	}

	inDegree := map[string]map[string]bool{}
	outDegree := map[string]map[string]bool{}
	for _, e := range snap.Edges {
		if inDegree[e.To] == nil {
			inDegree[e.To] = map[string]bool{}
		}
		inDegree[e.To][e.From] = true
		if opts.Coupling {
			if outDegree[e.From] == nil {
				outDegree[e.From] = map[string]bool{}
			}
			outDegree[e.From][e.To] = true
		}
	}

	var out []HotspotEntry
	for _, f := range snap.Files {
		deg := len(inDegree[f.Path])
		if opts.LeavesOnly {
			if deg != 0 {
				continue
			}
		} else if deg < minImports {
			continue
		}
		entry := HotspotEntry{Path: f.Path, InDegree: deg}
		if opts.Coupling {
			entry.OutDegree = len(outDegree[f.Path])
		}
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].InDegree != out[j].InDegree {
			return out[i].InDegree > out[j].InDegree
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
