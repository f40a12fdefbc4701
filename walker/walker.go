// Package walker enumerates candidate source files under one or more
// roots, honoring ignore patterns and .gitignore, the way the teacher's
// project detector walks a tree looking for markers -- except here every
// matching file is collected rather than the walk stopping at the first hit.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/loctree/loctree/hashutil"
	"github.com/loctree/loctree/pathutil"
)

// DefaultIgnoredDirs are pruned from every walk unless Config.ScanAll is set.
var DefaultIgnoredDirs = []string{
	"node_modules", "target", "dist", "build", ".git",
	".venv", "__pycache__", ".next", ".turbo",
}

// Config governs one walk. It is an opaque, caller-populated record; this
// package never parses flags or environment variables to build one.
type Config struct {
	Roots            []string
	Extensions       []string // e.g. ".ts", ".rs" -- empty means accept all
	IgnorePatterns   []string // doublestar-style globs, matched against the repo-relative path
	UseGitignore     bool
	MaxDepth         int // 0 means unlimited
	IncludeHidden    bool
	ScanAll          bool // disables DefaultIgnoredDirs
	ComputeHash      bool
}

// FileMeta is one emitted candidate.
type FileMeta struct {
	Root        string
	AbsPath     string
	Path        string // repo-relative, POSIX slashes
	Size        int64
	ModTimeUnix int64
	ContentHash uint64 // only populated when Config.ComputeHash is set
}

// Walk enumerates files across every root in cfg.Roots, in deterministic
// (lexicographic, depth-first) order, deduplicated by absolute path.
func Walk(cfg Config) ([]FileMeta, error) {
	var out []FileMeta
	seenSymlink := map[string]bool{}
	seenAbs := map[string]bool{}

	for _, root := range cfg.Roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("walker: root %q: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("walker: root %q is not a directory", root)
		}
		ignores := loadGitignore(root, cfg.UseGitignore)

		err = walkDir(root, root, 0, cfg, ignores, seenSymlink, func(fm FileMeta) {
			if seenAbs[fm.AbsPath] {
				return
			}
			seenAbs[fm.AbsPath] = true
			out = append(out, fm)
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func walkDir(root, dir string, depth int, cfg Config, ignores []string, seenSymlink map[string]bool, emit func(FileMeta)) error {
	if cfg.MaxDepth > 0 && depth > cfg.MaxDepth {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directory: log-and-skip, never fail the whole walk.
		fmt.Fprintf(os.Stderr, "walker: skipping unreadable directory %q: %v\n", dir, err)
		return nil
	}

	names := make([]string, 0, len(entries))
	byName := map[string]os.DirEntry{}
	for _, e := range entries {
		names = append(names, e.Name())
		byName[e.Name()] = e
	}
	sort.Strings(names)

	for _, name := range names {
		entry := byName[name]
		if !cfg.IncludeHidden && strings.HasPrefix(name, ".") && name != "." && name != ".." {
			continue
		}
		abs := filepath.Join(dir, name)

		if entry.IsDir() {
			if !cfg.ScanAll && isDefaultIgnoredDir(name) {
				continue
			}
			rel, _ := pathutil.ToRepoRelative(root, abs)
			if matchesIgnore(rel, ignores) {
				continue
			}
			if err := walkDir(root, abs, depth+1, cfg, ignores, seenSymlink, emit); err != nil {
				return err
			}
			continue
		}

		if entry.Type()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				continue
			}
			if seenSymlink[resolved] {
				continue
			}
			seenSymlink[resolved] = true
			abs = resolved
		}

		if len(cfg.Extensions) > 0 && !hasAnyExt(name, cfg.Extensions) {
			continue
		}
		rel, ok := pathutil.ToRepoRelative(root, abs)
		if !ok {
			continue
		}
		if matchesIgnore(rel, ignores) {
			continue
		}

		info, err := os.Stat(abs)
		if err != nil {
			continue
		}
		fm := FileMeta{
			Root:        root,
			AbsPath:     abs,
			Path:        rel,
			Size:        info.Size(),
			ModTimeUnix: info.ModTime().Unix(),
		}
		if cfg.ComputeHash {
			content, err := os.ReadFile(abs)
			if err == nil {
				if h, err := hashutil.Hash(content); err == nil {
					fm.ContentHash = h
				}
			}
		}
		emit(fm)
	}
	return nil
}

func hasAnyExt(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func isDefaultIgnoredDir(name string) bool {
	for _, d := range DefaultIgnoredDirs {
		if name == d {
			return true
		}
	}
	return false
}

func matchesIgnore(relPath string, patterns []string) bool {
	if relPath == "" {
		return false
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}

// loadGitignore collects ignore patterns from every .gitignore between root
// and each subdirectory. For simplicity (and because nested .gitignore
// precedence rules are themselves out of scope), all patterns found under
// root are unioned into one flat list, matched relative to root.
func loadGitignore(root string, enabled bool) []string {
	if !enabled {
		return nil
	}
	var patterns []string
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if filepath.Base(path) != ".gitignore" {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		dir := filepath.Dir(path)
		prefix, _ := pathutil.ToRepoRelative(root, dir)
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			line = strings.TrimPrefix(line, "/")
			pattern := line
			if prefix != "" {
				pattern = prefix + "/" + line
			}
			if !strings.Contains(pattern, "*") && !strings.HasSuffix(pattern, "/") {
				pattern = pattern + "/**"
			} else if strings.HasSuffix(pattern, "/") {
				pattern = pattern + "**"
			}
			patterns = append(patterns, pattern)
		}
		return nil
	})
	return patterns
}
