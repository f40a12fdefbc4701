// Package scan orchestrates one full run: walk candidate files, analyze
// each concurrently, resolve import specifiers to repo-relative paths, and
// assemble the result into a Snapshot. It is the one place that wires
// Walker, the language analyzers, the resolvers, and the Assembler
// together; the assembler it hands the results to is a pure function over
// that data.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/loctree/loctree/assembler"
	"github.com/loctree/loctree/langanalyzer"
	"github.com/loctree/loctree/langanalyzer/golang"
	"github.com/loctree/loctree/model"
	"github.com/loctree/loctree/repository"
	"github.com/loctree/loctree/resolver"
	"github.com/loctree/loctree/walker"
)

// Options configures one scan run.
type Options struct {
	Walker         walker.Config
	PyPackageRoots []string // absolute paths; falls back to the scan root when empty
	GoModulePath   string   // overrides auto-detection from go.mod when set
}

// Run walks, analyzes, resolves, and assembles a Snapshot for the given
// root. ctx is checked at file boundaries only: once submitted, an
// in-flight analyzer always runs to completion.
func Run(ctx context.Context, root string, opts Options) (*model.Snapshot, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	walkCfg := opts.Walker
	if len(walkCfg.Roots) == 0 {
		walkCfg.Roots = []string{absRoot}
	}
	files, err := walker.Walk(walkCfg)
	if err != nil {
		return nil, fmt.Errorf("scan: walk: %w", err)
	}

	modulePath := opts.GoModulePath
	if modulePath == "" {
		modulePath = detectGoModulePath(absRoot)
	}

	var pyRoots []string
	for _, p := range opts.PyPackageRoots {
		if filepath.IsAbs(p) {
			pyRoots = append(pyRoots, p)
		} else {
			pyRoots = append(pyRoots, filepath.Join(absRoot, p))
		}
	}

	tsResolver := resolver.NewTSResolver(absRoot)
	rustResolver := resolver.NewRustResolver(absRoot)
	pyResolver := resolver.NewPythonResolver(absRoot, pyRoots)

	results := make([]model.FileAnalysis, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, fm := range files {
		i, fm := i, fm
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			content, err := os.ReadFile(fm.AbsPath)
			if err != nil {
				return fmt.Errorf("scan: read %s: %w", fm.Path, err)
			}
			fa, err := langanalyzer.Analyze(content, fm.Path, langanalyzer.Options{GoModulePath: modulePath})
			if err != nil {
				return fmt.Errorf("scan: analyze %s: %w", fm.Path, err)
			}
			fa.ModTimeUnix = fm.ModTimeUnix
			fa.Size = fm.Size
			if fm.ContentHash != 0 {
				fa.ContentHash = fm.ContentHash
			}
			resolveImports(fa, fm, tsResolver, rustResolver, pyResolver)
			results[i] = *fa
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	repo, _ := repository.New().DetectRepository(absRoot)
	var gitRepo, gitBranch, gitCommit string
	if repo != nil {
		gitRepo, gitBranch, gitCommit = repo.Origin, repo.Branch, repo.Commit
	}

	snap := assembler.Assemble(assembler.Input{
		Roots:        walkCfg.Roots,
		Files:        results,
		ScanDuration: time.Since(start),
		GeneratedAt:  start.UTC().Format(time.RFC3339),
		ResolverConfig: &model.ResolverConfig{
			PyRoots: opts.PyPackageRoots,
		},
		GitRepo:   gitRepo,
		GitBranch: gitBranch,
		GitCommit: gitCommit,
	})
	return snap, nil
}

func resolveImports(fa *model.FileAnalysis, fm walker.FileMeta, ts *resolver.TSResolver, rs *resolver.RustResolver, py *resolver.PythonResolver) {
	abs := fm.AbsPath
	for i := range fa.Imports {
		imp := &fa.Imports[i]
		if imp.IsBare {
			continue
		}
		switch fa.Language {
		case model.LangTS, model.LangTSX, model.LangJS, model.LangJSX:
			if rel, ok := ts.Resolve(imp.Source, abs); ok {
				imp.ResolvedPath = rel
			}
		case model.LangRust:
			if rel, ok := rs.Resolve(imp.Source, abs); ok {
				imp.ResolvedPath = rel
			}
		case model.LangPython:
			if rel, ok := py.Resolve(imp.Source, abs); ok {
				imp.ResolvedPath = rel
			}
		}
	}
	for i := range fa.Reexports {
		re := &fa.Reexports[i]
		switch fa.Language {
		case model.LangTS, model.LangTSX, model.LangJS, model.LangJSX:
			if rel, ok := ts.Resolve(re.Source, abs); ok {
				re.ResolvedPath = rel
			}
		case model.LangPython:
			if rel, ok := py.Resolve(re.Source, abs); ok {
				re.ResolvedPath = rel
			}
		}
	}
}

func detectGoModulePath(root string) string {
	goModPath := filepath.Join(root, "go.mod")
	content, err := os.ReadFile(goModPath)
	if err != nil {
		return ""
	}
	modulePath, err := golang.ModulePathFromGoMod(goModPath, content)
	if err != nil {
		return ""
	}
	return modulePath
}
