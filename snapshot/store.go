// Package snapshot persists and loads the assembled Snapshot, and locates
// the .loctree directory the way a version-control root is discovered --
// by walking upward from the scan target.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loctree/loctree/model"
)

// ErrRootNotFound is returned by FindRoot when no .loctree directory exists
// between start and the filesystem root.
var ErrRootNotFound = errors.New("snapshot: .loctree root not found")

// ErrSnapshotNotFound is returned by Load when root has no snapshot.json.
var ErrSnapshotNotFound = errors.New("snapshot: snapshot.json not found")

// ErrSnapshotCorrupt is returned by Load when snapshot.json cannot be parsed.
var ErrSnapshotCorrupt = errors.New("snapshot: snapshot.json is corrupt")

const (
	stateDirName = ".loctree"
	fileName     = "snapshot.json"
)

// StateDir returns the `.loctree` directory under root.
func StateDir(root string) string {
	return filepath.Join(root, stateDirName)
}

// FindRoot walks upward from start looking for a `.loctree` directory,
// returning the directory that owns it.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	dir := abs
	if !info.IsDir() {
		dir = filepath.Dir(abs)
	}
	for {
		if st, err := os.Stat(filepath.Join(dir, stateDirName)); err == nil && st.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

// Load reads and parses the snapshot stored under root. A schema-version
// mismatch is reported as a non-fatal warning string rather than an error,
// so the caller can choose to log it while still using the loaded snapshot.
func Load(root string) (snap *model.Snapshot, warning string, err error) {
	path := filepath.Join(StateDir(root), fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrSnapshotNotFound
		}
		return nil, "", fmt.Errorf("snapshot: read %s: %w", path, err)
	}

	var s model.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	if s.Metadata.SchemaVersion != model.SchemaVersion {
		warning = fmt.Sprintf("snapshot schema version %q does not match current %q; parsed best-effort",
			s.Metadata.SchemaVersion, model.SchemaVersion)
	}
	return &s, warning, nil
}

// Save serializes snap to root's state directory, writing atomically via a
// temp file + rename so concurrent readers never observe a partial write.
func Save(root string, snap *model.Snapshot) error {
	dir := StateDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: mkdir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	final := filepath.Join(dir, fileName)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: write temp file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("snapshot: rename into place: %w", err)
	}
	return nil
}

// CachedAnalyses returns a path -> FileAnalysis map suitable for an
// incremental scan to compare modification fingerprints against.
func CachedAnalyses(snap *model.Snapshot) map[string]*model.FileAnalysis {
	out := make(map[string]*model.FileAnalysis, len(snap.Files))
	for i := range snap.Files {
		out[snap.Files[i].Path] = &snap.Files[i]
	}
	return out
}
