// Package query holds the pure, read-only functions over a loaded
// Snapshot: impact, slice, focus, dead-export detection, cycle detection,
// twins/barrels, and snapshot diff. None of them re-invoke the analyzers.
package query

import (
	"sort"
	"strings"

	"github.com/loctree/loctree/model"
)

// UnlimitedDepth requests full-depth traversal for Impact. A literal 0
// means no hops at all (an empty result), matching the property that a
// zero depth limit never walks a single edge.
const UnlimitedDepth = -1

// ImpactOptions configures an Impact query.
type ImpactOptions struct {
	MaxDepth         int // UnlimitedDepth for full traversal; 0 yields an empty result
	IncludeReexports bool
}

// ImpactEntry is one consumer reached from the target file.
type ImpactEntry struct {
	File  string   `json:"file"`
	Depth int      `json:"depth"`
	Chain []string `json:"chain"` // target ... consumer
}

// ImpactResult is the return shape of Impact.
type ImpactResult struct {
	Target             string        `json:"target"`
	DirectConsumers    []ImpactEntry `json:"direct_consumers"`
	TransitiveConsumers []ImpactEntry `json:"transitive_consumers"`
	TotalAffected      int           `json:"total_affected"`
	MaxDepth           int           `json:"max_depth"`
}

// reverseAdjacency builds, for each file, the list of files that import it.
func reverseAdjacency(snap *model.Snapshot, includeReexports bool) map[string][]string {
	adj := map[string][]string{}
	for _, e := range snap.Edges {
		if !includeReexports && (e.Label == model.EdgeReexport || e.Label == model.EdgeReexportStar) {
			continue
		}
		adj[e.To] = append(adj[e.To], e.From)
	}
	return adj
}

// Impact finds every file, direct and transitive, that depends on target.
// A MaxDepth of 0 walks no edges and returns an empty result; use
// UnlimitedDepth for full traversal.
func Impact(snap *model.Snapshot, target string, opts ImpactOptions) (*ImpactResult, error) {
	target = normalizeTarget(snap, target)

	if opts.MaxDepth == 0 {
		return &ImpactResult{Target: target}, nil
	}

	adj := reverseAdjacency(snap, opts.IncludeReexports)

	type queued struct {
		file  string
		depth int
		chain []string
	}

	visited := map[string]bool{target: true}
	queue := []queued{{file: target, depth: 0, chain: []string{target}}}

	var direct, transitive []ImpactEntry
	maxDepthSeen := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if opts.MaxDepth > 0 && cur.depth >= opts.MaxDepth {
			continue
		}
		for _, next := range adj[cur.file] {
			if visited[next] {
				continue
			}
			visited[next] = true
			depth := cur.depth + 1
			chain := append(append([]string{}, cur.chain...), next)
			entry := ImpactEntry{File: next, Depth: depth, Chain: chain}
			if depth > maxDepthSeen {
				maxDepthSeen = depth
			}
			if depth == 1 {
				direct = append(direct, entry)
			} else {
				transitive = append(transitive, entry)
			}
			queue = append(queue, queued{file: next, depth: depth, chain: chain})
		}
	}

	sort.Slice(direct, func(i, j int) bool { return direct[i].File < direct[j].File })
	sort.Slice(transitive, func(i, j int) bool { return transitive[i].File < transitive[j].File })

	return &ImpactResult{
		Target:              target,
		DirectConsumers:     direct,
		TransitiveConsumers: transitive,
		TotalAffected:       len(direct) + len(transitive),
		MaxDepth:            maxDepthSeen,
	}, nil
}

// normalizeTarget turns backslashes into slashes and strips a leading "./",
// then resolves the target to a stored path via exact or suffix match.
func normalizeTarget(snap *model.Snapshot, target string) string {
	target = strings.ReplaceAll(target, "\\", "/")
	target = strings.TrimPrefix(target, "./")
	if snap.FileByPath(target) != nil {
		return target
	}
	for _, f := range snap.Files {
		if strings.HasSuffix(f.Path, "/"+target) || f.Path == target {
			return f.Path
		}
	}
	return target
}
