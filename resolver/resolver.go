// Package resolver turns an import specifier plus its importing file into
// a concrete repo-relative target path, one strategy per language. Every
// resolver is pure and never canonicalizes outside the configured root.
package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/loctree/loctree/pathutil"
)

// ErrEscapesRoot names the case of a resolved path falling outside the
// configured root. The resolvers do not return it: they report that case
// as a plain "not resolved" (ok=false).
var ErrEscapesRoot = errors.New("resolver: resolved path escapes root")

// DefaultJSExtensions is the suffix/index trial order for TS/JS specifiers.
var DefaultJSExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

func existsFile(root, candidate string) (string, bool) {
	abs := filepath.Join(root, candidate)
	rel, ok := pathutil.ToRepoRelative(root, abs)
	if !ok {
		return "", false
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return rel, true
	}
	return "", false
}

// tryExtensions attempts base, base+ext for each ext, and base/index.ext.
func tryExtensions(root, base string, exts []string) (string, bool) {
	if rel, ok := existsFile(root, base); ok {
		return rel, true
	}
	for _, ext := range exts {
		if rel, ok := existsFile(root, base+ext); ok {
			return rel, true
		}
	}
	for _, ext := range exts {
		if rel, ok := existsFile(root, filepath.Join(base, "index"+ext)); ok {
			return rel, true
		}
	}
	return "", false
}
