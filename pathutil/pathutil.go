// Package pathutil normalizes filesystem paths to the POSIX, repo-relative
// form every component of the analyzer stores and compares by, grounded on
// the relative-path adjustment the teacher applies when sealing a Project
// (inspector/graph/project.go's adjustRelativePath).
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRepoRelative converts abs into a forward-slash path relative to root.
// It returns ok=false if abs does not live under root.
func ToRepoRelative(root, abs string) (string, bool) {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") || rel == ".." {
		return "", false
	}
	return rel, true
}

// Normalize applies the storage-form normalization every stored path must
// satisfy: forward slashes, no leading "./".
func Normalize(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	return p
}

// StripKnownExtension removes one recognized source extension from p, if
// present, trying the longest/most-specific suffix first so a .tsx file is
// never partially stripped down to a dangling ".t".
func StripKnownExtension(p string) string {
	for _, ext := range []string{
		".tsx", ".ts", ".jsx", ".js", ".mjs", ".cjs",
		".rs", ".py", ".scss", ".sass", ".css",
	} {
		if strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return p
}

// Dir returns the POSIX directory of p, using "" for a root-level file
// (matching the barrel detector's get_directory convention, which treats
// the repo root as an explicit empty-string directory rather than ".").
func Dir(p string) string {
	p = Normalize(p)
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// Base returns the final path component of p.
func Base(p string) string {
	return filepath.Base(p)
}
