package query

import (
	"sort"

	"github.com/loctree/loctree/model"
)

// WhoImportsEntry is one direct importer of a target file.
type WhoImportsEntry struct {
	File   string            `json:"file"`
	Labels []model.EdgeLabel `json:"labels"`
}

// WhoImports returns every file that directly imports target (depth 1 only
// -- use Impact for the transitive walk). target is resolved the same
// tolerant way as Impact: exact match, then "./"-stripped, then suffix.
func WhoImports(snap *model.Snapshot, target string) ([]WhoImportsEntry, error) {
	target = normalizeTarget(snap, target)

	byFile := map[string]map[model.EdgeLabel]bool{}
	for _, e := range snap.Edges {
		if e.To != target {
			continue
		}
		if byFile[e.From] == nil {
			byFile[e.From] = map[model.EdgeLabel]bool{}
		}
		byFile[e.From][e.Label] = true
	}

	var files []string
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	out := make([]WhoImportsEntry, 0, len(files))
	for _, f := range files {
		var labels []model.EdgeLabel
		for l := range byFile[f] {
			labels = append(labels, l)
		}
		sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
		out = append(out, WhoImportsEntry{File: f, Labels: labels})
	}
	return out, nil
}
