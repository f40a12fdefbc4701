package query

import (
	"sort"

	"github.com/loctree/loctree/model"
)

// WhereSymbolEntry is one declaration site of a symbol.
type WhereSymbolEntry struct {
	File string           `json:"file"`
	Kind model.ExportKind `json:"kind"`
	Line int              `json:"line"`
}

// WhereSymbol locates every export declaration of symbol across the
// snapshot. Empty, not an error, when the symbol is never exported.
func WhereSymbol(snap *model.Snapshot, symbol string) ([]WhereSymbolEntry, error) {
	files := append([]string{}, snap.ExportIndex[symbol]...)
	sort.Strings(files)

	out := make([]WhereSymbolEntry, 0, len(files))
	for _, path := range files {
		fa := snap.FileByPath(path)
		if fa == nil {
			continue
		}
		for _, exp := range fa.Exports {
			if exp.Name == symbol {
				out = append(out, WhereSymbolEntry{File: path, Kind: exp.Kind, Line: exp.Line})
				break
			}
		}
	}
	return out, nil
}
