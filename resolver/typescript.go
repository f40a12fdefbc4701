package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/loctree/loctree/pathutil"
)

// tsconfigRaw is the subset of tsconfig.json this resolver reads.
type tsconfigRaw struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// TSConfig is the parsed, resolver-ready form of one tsconfig.json.
type TSConfig struct {
	Dir     string // directory containing tsconfig.json
	BaseURL string
	Paths   map[string][]string
}

// TSResolver resolves TypeScript/JavaScript import specifiers, including
// tsconfig.json baseUrl/paths aliases. One instance is constructed per
// scan; its tsconfig cache is guarded by a mutex so concurrent analyzer
// goroutines can share it safely.
type TSResolver struct {
	root       string
	extensions []string

	mu      sync.RWMutex
	cache   map[string]*TSConfig // dir -> nearest ancestor's parsed tsconfig (or nil if none)
}

// NewTSResolver constructs a resolver rooted at root.
func NewTSResolver(root string) *TSResolver {
	return &TSResolver{
		root:       root,
		extensions: DefaultJSExtensions,
		cache:      map[string]*TSConfig{},
	}
}

// Resolve resolves specifier as imported from importingFile (an absolute path).
func (r *TSResolver) Resolve(specifier, importingFile string) (string, bool) {
	cfg := r.configFor(filepath.Dir(importingFile))

	if cfg != nil {
		if target, ok := r.resolveViaPaths(specifier, cfg); ok {
			return target, true
		}
	}

	if strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/") {
		base := specifier
		if !filepath.IsAbs(base) {
			base = filepath.Join(filepath.Dir(importingFile), specifier)
		}
		baseRel, ok := pathutil.ToRepoRelative(r.root, base)
		if !ok {
			return "", false
		}
		return tryExtensions(r.root, baseRel, r.extensions)
	}

	return "", false
}

func (r *TSResolver) resolveViaPaths(specifier string, cfg *TSConfig) (string, bool) {
	for pattern, candidates := range cfg.Paths {
		prefix := strings.TrimSuffix(pattern, "*")
		hasStar := strings.HasSuffix(pattern, "*")
		if hasStar {
			if !strings.HasPrefix(specifier, prefix) {
				continue
			}
			suffix := strings.TrimPrefix(specifier, prefix)
			for _, cand := range candidates {
				candPath := strings.TrimSuffix(cand, "*") + suffix
				base := filepath.Join(cfg.Dir, cfg.BaseURL, candPath)
				baseRel, ok := pathutil.ToRepoRelative(r.root, base)
				if !ok {
					continue
				}
				if rel, ok := tryExtensions(r.root, baseRel, r.extensions); ok {
					return rel, true
				}
			}
		} else if specifier == pattern {
			for _, cand := range candidates {
				base := filepath.Join(cfg.Dir, cfg.BaseURL, cand)
				baseRel, ok := pathutil.ToRepoRelative(r.root, base)
				if !ok {
					continue
				}
				if rel, ok := tryExtensions(r.root, baseRel, r.extensions); ok {
					return rel, true
				}
			}
		}
	}
	return "", false
}

// configFor returns the nearest ancestor tsconfig.json for dir, memoized.
func (r *TSResolver) configFor(dir string) *TSConfig {
	r.mu.RLock()
	if cfg, ok := r.cache[dir]; ok {
		r.mu.RUnlock()
		return cfg
	}
	r.mu.RUnlock()

	cfg := r.loadNearestConfig(dir)

	r.mu.Lock()
	r.cache[dir] = cfg
	r.mu.Unlock()
	return cfg
}

func (r *TSResolver) loadNearestConfig(dir string) *TSConfig {
	cur := dir
	for {
		path := filepath.Join(cur, "tsconfig.json")
		if data, err := os.ReadFile(path); err == nil {
			var raw tsconfigRaw
			if json.Unmarshal(stripJSONComments(data), &raw) == nil {
				return &TSConfig{
					Dir:     cur,
					BaseURL: raw.CompilerOptions.BaseURL,
					Paths:   raw.CompilerOptions.Paths,
				}
			}
		}
		if cur == r.root {
			break
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return nil
}

// stripJSONComments removes // line comments, a tolerance tsconfig.json
// files commonly rely on (JSONC) that encoding/json does not accept.
func stripJSONComments(data []byte) []byte {
	var out []byte
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c == '"' && (i == 0 || data[i-1] != '\\') {
			inString = !inString
		}
		if !inString && c == '/' && i+1 < len(data) && data[i+1] == '/' {
			for i < len(data) && data[i] != '\n' {
				i++
			}
			out = append(out, '\n')
			continue
		}
		out = append(out, c)
	}
	return out
}
