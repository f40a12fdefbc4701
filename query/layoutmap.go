package query

import (
	"sort"

	"github.com/loctree/loctree/model"
)

// LayoutMapOptions configures LayoutMap, mirroring the original layoutmap
// command's filters.
type LayoutMapOptions struct {
	ZIndexOnly bool
	StickyOnly bool
	GridOnly   bool
	MinZIndex  int // default 1; only applies to zindex findings
}

// LayoutMapEntry is one file's layout findings.
type LayoutMapEntry struct {
	File     string                `json:"file"`
	Findings []model.LayoutFinding `json:"findings"`
}

// LayoutMap aggregates the CSS analyzer's per-file LayoutFindings across the
// snapshot, filtered per opts.
func LayoutMap(snap *model.Snapshot, opts LayoutMapOptions) []LayoutMapEntry {
	minZ := opts.MinZIndex
	if minZ == 0 {
		minZ = 1
	}
	allowed := map[model.LayoutKind]bool{}
	if opts.ZIndexOnly {
		allowed[model.LayoutZIndex] = true
	}
	if opts.StickyOnly {
		allowed[model.LayoutSticky] = true
	}
	if opts.GridOnly {
		allowed[model.LayoutGrid] = true
	}
	anyOnly := len(allowed) > 0

	var out []LayoutMapEntry
	for _, f := range snap.Files {
		if len(f.LayoutFindings) == 0 {
			continue
		}
		var kept []model.LayoutFinding
		for _, find := range f.LayoutFindings {
			if find.Kind == model.LayoutZIndex && find.ZVal < minZ {
				continue
			}
			if anyOnly && !allowed[find.Kind] {
				continue
			}
			kept = append(kept, find)
		}
		if len(kept) == 0 {
			continue
		}
		out = append(out, LayoutMapEntry{File: f.Path, Findings: kept})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}
