// Package suppress loads and applies user-curated false-positive
// suppressions, consulted from one centralized index rather than scattered
// checks inside each query engine.
package suppress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Kind enumerates the finding categories a suppression can silence.
type Kind string

const (
	KindTwin       Kind = "twin"
	KindDeadParrot Kind = "dead_parrot"
	KindDeadExport Kind = "dead_export"
	KindCircular   Kind = "circular"
)

// Entry is one suppression record.
type Entry struct {
	Kind   Kind   `json:"kind"`
	Symbol string `json:"symbol"`
	File   string `json:"file,omitempty"`
	Reason string `json:"reason,omitempty"`
}

const fileName = "suppressions.json"

// Load reads the suppression set stored under root. A missing file is not
// an error -- it means no suppressions have been recorded yet.
func Load(root string) ([]Entry, error) {
	path := filepath.Join(root, ".loctree", fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("suppress: read %s: %w", path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("suppress: parse %s: %w", path, err)
	}
	return entries, nil
}

// Save writes entries as the suppression set under root, replacing any
// prior content.
func Save(root string, entries []Entry) error {
	dir := filepath.Join(root, ".loctree")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("suppress: mkdir %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("suppress: marshal: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, fileName), data, 0o644)
}

// Index is a query-time lookup structure built once per query invocation.
type Index struct {
	bySymbol map[string][]Entry
}

// NewIndex builds an Index from a loaded suppression set.
func NewIndex(entries []Entry) *Index {
	idx := &Index{bySymbol: map[string][]Entry{}}
	for _, e := range entries {
		idx.bySymbol[e.Symbol] = append(idx.bySymbol[e.Symbol], e)
	}
	return idx
}

// Suppressed reports whether (kind, symbol, file) is covered by a recorded
// suppression. A suppression with no file restricts nothing beyond
// kind+symbol; one with a file only silences that specific file.
func (idx *Index) Suppressed(kind Kind, symbol, file string) bool {
	if idx == nil {
		return false
	}
	for _, e := range idx.bySymbol[symbol] {
		if e.Kind != kind {
			continue
		}
		if e.File == "" || e.File == file {
			return true
		}
	}
	return false
}
