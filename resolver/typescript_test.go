package resolver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctree/loctree/resolver"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func TestTSResolverRelativeImport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.ts", "")
	writeFile(t, root, "src/util.ts", "")

	r := resolver.NewTSResolver(root)
	got, ok := r.Resolve("./util", filepath.Join(root, "src/app.ts"))
	require.True(t, ok)
	assert.Equal(t, "src/util.ts", got)
}

func TestTSResolverBaseURLPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tsconfig.json", `{
		"compilerOptions": {
			"baseUrl": ".",
			"paths": { "@app/*": ["src/*"] }
		}
	}`)
	writeFile(t, root, "src/widgets/button.ts", "")

	r := resolver.NewTSResolver(root)
	got, ok := r.Resolve("@app/widgets/button", filepath.Join(root, "src/app.ts"))
	require.True(t, ok)
	assert.Equal(t, "src/widgets/button.ts", got)
}

func TestTSResolverNearestConfigWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tsconfig.json", `{
		"compilerOptions": { "baseUrl": ".", "paths": { "@lib/*": ["outer/*"] } }
	}`)
	writeFile(t, root, "packages/app/tsconfig.json", `{
		"compilerOptions": { "baseUrl": ".", "paths": { "@lib/*": ["inner/*"] } }
	}`)
	writeFile(t, root, "packages/app/inner/widget.ts", "")
	writeFile(t, root, "outer/widget.ts", "")

	r := resolver.NewTSResolver(root)
	got, ok := r.Resolve("@lib/widget", filepath.Join(root, "packages/app/src/main.ts"))
	require.True(t, ok)
	assert.Equal(t, "packages/app/inner/widget.ts", got, "the nearest ancestor tsconfig's paths take precedence")
}

func TestTSResolverDoesNotFollowExtends(t *testing.T) {
	// The resolver reads compilerOptions directly off the nearest
	// tsconfig.json; it does not chase an "extends" reference to a base
	// config, so paths declared only on the base are invisible here.
	root := t.TempDir()
	writeFile(t, root, "tsconfig.base.json", `{
		"compilerOptions": { "baseUrl": ".", "paths": { "@shared/*": ["shared/*"] } }
	}`)
	writeFile(t, root, "tsconfig.json", `{
		"extends": "./tsconfig.base.json",
		"compilerOptions": { "baseUrl": "." }
	}`)
	writeFile(t, root, "shared/thing.ts", "")

	r := resolver.NewTSResolver(root)
	_, ok := r.Resolve("@shared/thing", filepath.Join(root, "src/main.ts"))
	assert.False(t, ok)
}

func TestTSResolverUnresolvedBareSpecifier(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.ts", "")

	r := resolver.NewTSResolver(root)
	_, ok := r.Resolve("react", filepath.Join(root, "src/app.ts"))
	assert.False(t, ok)
}
