package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/loctree/loctree/pathutil"
)

// PythonResolver resolves relative (`.`, `..`) and absolute dotted imports
// against a set of configured package roots.
type PythonResolver struct {
	root         string
	packageRoots []string // absolute paths; falls back to root when empty
}

// NewPythonResolver constructs a resolver rooted at root, searching
// packageRoots (absolute paths) for absolute dotted imports.
func NewPythonResolver(root string, packageRoots []string) *PythonResolver {
	if len(packageRoots) == 0 {
		packageRoots = []string{root}
	}
	return &PythonResolver{root: root, packageRoots: packageRoots}
}

// Resolve resolves module (dotted form, with leading dots for relative
// imports) as imported from importingFile.
func (r *PythonResolver) Resolve(module string, importingFile string) (string, bool) {
	if strings.HasPrefix(module, ".") {
		return r.resolveRelative(module, importingFile)
	}
	return r.resolveAbsolute(module)
}

func (r *PythonResolver) resolveRelative(module string, importingFile string) (string, bool) {
	dots := 0
	for dots < len(module) && module[dots] == '.' {
		dots++
	}
	rest := module[dots:]

	dir := filepath.Dir(importingFile)
	for i := 1; i < dots; i++ {
		dir = filepath.Dir(dir)
	}

	if rest == "" {
		return r.moduleFileIn(dir, "")
	}
	parts := strings.Split(rest, ".")
	return r.moduleFileIn(dir, filepath.Join(parts...))
}

func (r *PythonResolver) resolveAbsolute(module string) (string, bool) {
	parts := strings.Split(module, ".")
	for _, root := range r.packageRoots {
		if rel, ok := r.moduleFileIn(root, filepath.Join(parts...)); ok {
			return rel, true
		}
	}
	return "", false
}

func (r *PythonResolver) moduleFileIn(base, rel string) (string, bool) {
	target := base
	if rel != "" {
		target = filepath.Join(base, rel)
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		init := filepath.Join(target, "__init__.py")
		if _, err := os.Stat(init); err == nil {
			return pathutil.ToRepoRelative(r.root, init)
		}
	}
	pyFile := target + ".py"
	if _, err := os.Stat(pyFile); err == nil {
		return pathutil.ToRepoRelative(r.root, pyFile)
	}
	return "", false
}
