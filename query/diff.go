package query

import (
	"sort"
	"strings"

	"github.com/loctree/loctree/model"
)

// ChangeKind classifies how a file changed between two snapshots, as
// determined externally (this component does not itself diff against git).
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
	ChangeRenamed  ChangeKind = "renamed"
)

// ChangedFile is one caller-supplied file change between snapshotFrom and
// snapshotTo.
type ChangedFile struct {
	Path     string     `json:"path"`
	Kind     ChangeKind `json:"kind"`
	OldPath  string     `json:"old_path,omitempty"` // set when Kind == ChangeRenamed
}

// EdgeChange is one added or removed edge, expanded to the symbol names it
// carried (split out of the edge's label when present).
type EdgeChange struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Symbols []string `json:"symbols,omitempty"`
}

// ExportChange is one symbol gained or lost.
type ExportChange struct {
	Symbol string `json:"symbol"`
	File   string `json:"file"`
}

// ImpactedConsumer is a file in the "to" snapshot whose imports reference a
// modified or removed file.
type ImpactedConsumer struct {
	File          string   `json:"file"`
	ReferencedBy  []string `json:"referenced_by"` // the modified/removed files it imports
}

// SnapshotDiff is the full result of Compare.
type SnapshotDiff struct {
	AddedFiles      []string           `json:"added_files"`
	RemovedFiles    []string           `json:"removed_files"`
	ModifiedFiles   []string           `json:"modified_files"`
	RenamedFiles    []ChangedFile      `json:"renamed_files"`
	EdgesAdded      []EdgeChange       `json:"edges_added"`
	EdgesRemoved    []EdgeChange       `json:"edges_removed"`
	ExportsAdded    []ExportChange     `json:"exports_added"`
	ExportsRemoved  []ExportChange     `json:"exports_removed"`
	Impacted        []ImpactedConsumer `json:"impacted"`
	RiskScore       float64            `json:"risk_score"`
}

func edgeSymbols(label model.EdgeLabel) []string {
	s := string(label)
	if !strings.Contains(s, ", ") {
		return nil
	}
	return strings.Split(s, ", ")
}

func edgeSet(files []model.GraphEdge) map[[2]string]model.EdgeLabel {
	m := make(map[[2]string]model.EdgeLabel, len(files))
	for _, e := range files {
		m[[2]string{e.From, e.To}] = e.Label
	}
	return m
}

func exportSet(files []model.FileAnalysis) map[[2]string]bool {
	m := map[[2]string]bool{}
	for _, f := range files {
		for _, exp := range f.Exports {
			m[[2]string{exp.Name, f.Path}] = true
		}
	}
	return m
}

// Compare computes the structural diff between two snapshots, folding in
// the caller-supplied file-level changes (this component does not itself
// infer adds/removes/renames from git).
func Compare(snapshotFrom, snapshotTo *model.Snapshot, changedFiles []ChangedFile) (*SnapshotDiff, error) {
	diff := &SnapshotDiff{}

	for _, c := range changedFiles {
		switch c.Kind {
		case ChangeAdded:
			diff.AddedFiles = append(diff.AddedFiles, c.Path)
		case ChangeRemoved:
			diff.RemovedFiles = append(diff.RemovedFiles, c.Path)
		case ChangeModified:
			diff.ModifiedFiles = append(diff.ModifiedFiles, c.Path)
		case ChangeRenamed:
			diff.RenamedFiles = append(diff.RenamedFiles, c)
		}
	}
	sort.Strings(diff.AddedFiles)
	sort.Strings(diff.RemovedFiles)
	sort.Strings(diff.ModifiedFiles)

	fromEdges := edgeSet(snapshotFrom.Edges)
	toEdges := edgeSet(snapshotTo.Edges)
	for k, label := range fromEdges {
		if _, ok := toEdges[k]; !ok {
			diff.EdgesRemoved = append(diff.EdgesRemoved, EdgeChange{From: k[0], To: k[1], Symbols: edgeSymbols(label)})
		}
	}
	for k, label := range toEdges {
		if _, ok := fromEdges[k]; !ok {
			diff.EdgesAdded = append(diff.EdgesAdded, EdgeChange{From: k[0], To: k[1], Symbols: edgeSymbols(label)})
		}
	}
	sort.Slice(diff.EdgesAdded, func(i, j int) bool { return edgeLess(diff.EdgesAdded[i], diff.EdgesAdded[j]) })
	sort.Slice(diff.EdgesRemoved, func(i, j int) bool { return edgeLess(diff.EdgesRemoved[i], diff.EdgesRemoved[j]) })

	fromExports := exportSet(snapshotFrom.Files)
	toExports := exportSet(snapshotTo.Files)
	for k := range fromExports {
		if !toExports[k] {
			diff.ExportsRemoved = append(diff.ExportsRemoved, ExportChange{Symbol: k[0], File: k[1]})
		}
	}
	for k := range toExports {
		if !fromExports[k] {
			diff.ExportsAdded = append(diff.ExportsAdded, ExportChange{Symbol: k[0], File: k[1]})
		}
	}
	sort.Slice(diff.ExportsAdded, func(i, j int) bool { return exportLess(diff.ExportsAdded[i], diff.ExportsAdded[j]) })
	sort.Slice(diff.ExportsRemoved, func(i, j int) bool { return exportLess(diff.ExportsRemoved[i], diff.ExportsRemoved[j]) })

	affected := map[string]bool{}
	for _, f := range diff.ModifiedFiles {
		affected[f] = true
	}
	for _, f := range diff.RemovedFiles {
		affected[f] = true
	}
	consumerRefs := map[string][]string{}
	for _, f := range snapshotTo.Files {
		for _, imp := range f.Imports {
			if affected[imp.ResolvedPath] {
				consumerRefs[f.Path] = append(consumerRefs[f.Path], imp.ResolvedPath)
			}
		}
	}
	var consumerPaths []string
	for p := range consumerRefs {
		consumerPaths = append(consumerPaths, p)
	}
	sort.Strings(consumerPaths)
	for _, p := range consumerPaths {
		refs := append([]string{}, consumerRefs[p]...)
		sort.Strings(refs)
		diff.Impacted = append(diff.Impacted, ImpactedConsumer{File: p, ReferencedBy: refs})
	}

	risk := float64(len(diff.RemovedFiles))*0.1 +
		float64(len(diff.ModifiedFiles))*0.05 +
		float64(len(diff.EdgesRemoved))*0.05 +
		float64(len(diff.ExportsRemoved))*0.15
	if risk < 0 {
		risk = 0
	}
	if risk > 1 {
		risk = 1
	}
	diff.RiskScore = risk

	return diff, nil
}

func edgeLess(a, b EdgeChange) bool {
	if a.From != b.From {
		return a.From < b.From
	}
	return a.To < b.To
}

func exportLess(a, b ExportChange) bool {
	if a.Symbol != b.Symbol {
		return a.Symbol < b.Symbol
	}
	return a.File < b.File
}
