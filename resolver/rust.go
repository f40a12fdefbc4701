package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/loctree/loctree/pathutil"
)

// RustResolver maps `crate::`/`super::`/`self::` module paths onto the
// crate's file tree, the way rustc's own module resolution walks
// <name>.rs / <name>/mod.rs at each path component.
type RustResolver struct {
	root string
}

// NewRustResolver constructs a resolver rooted at root.
func NewRustResolver(root string) *RustResolver {
	return &RustResolver{root: root}
}

// Resolve resolves a `use` path (the whole "::"-separated string) as imported from
// importingFile (absolute path, conventionally under a crate's src/).
func (r *RustResolver) Resolve(path string, importingFile string) (string, bool) {
	segments := strings.Split(path, "::")
	if len(segments) == 0 {
		return "", false
	}

	crateRoot := r.findCrateSrcRoot(importingFile)
	if crateRoot == "" {
		return "", false
	}

	var startDir string
	switch segments[0] {
	case "crate":
		startDir = crateRoot
		segments = segments[1:]
	case "self":
		startDir = filepath.Dir(importingFile)
		segments = segments[1:]
	case "super":
		startDir = filepath.Dir(filepath.Dir(importingFile))
		segments = segments[1:]
	default:
		startDir = filepath.Dir(importingFile)
	}

	dir := startDir
	for i, seg := range segments {
		last := i == len(segments)-1
		fileCandidate := filepath.Join(dir, seg+".rs")
		modCandidate := filepath.Join(dir, seg, "mod.rs")

		if _, err := os.Stat(fileCandidate); err == nil {
			if last {
				return toRel(r.root, fileCandidate)
			}
			dir = filepath.Join(dir, seg)
			continue
		}
		if _, err := os.Stat(modCandidate); err == nil {
			dir = filepath.Join(dir, seg)
			if last {
				return toRel(r.root, modCandidate)
			}
			continue
		}
		return "", false
	}
	// Path resolved to a directory/module but named no specific file;
	// fall back to its mod.rs if present.
	modFile := filepath.Join(dir, "mod.rs")
	if _, err := os.Stat(modFile); err == nil {
		return toRel(r.root, modFile)
	}
	return "", false
}

func toRel(root, abs string) (string, bool) {
	return pathutil.ToRepoRelative(root, abs)
}

// findCrateSrcRoot ascends from file looking for a Cargo.toml sibling of a
// src/ directory, returning that src/ directory.
func (r *RustResolver) findCrateSrcRoot(file string) string {
	dir := filepath.Dir(file)
	for {
		if _, err := os.Stat(filepath.Join(dir, "Cargo.toml")); err == nil {
			return filepath.Join(dir, "src")
		}
		parent := filepath.Dir(dir)
		if parent == dir || dir == r.root {
			break
		}
		dir = parent
	}
	return ""
}
