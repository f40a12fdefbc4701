package pathutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loctree/loctree/pathutil"
)

func TestToRepoRelative(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		abs     string
		want    string
		wantOK  bool
	}{
		{"nested file", "/repo", "/repo/src/app/main.ts", "src/app/main.ts", true},
		{"root itself", "/repo", "/repo", "", false},
		{"outside root", "/repo", "/other/main.ts", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pathutil.ToRepoRelative(tt.root, tt.abs)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "src/app/main.ts", pathutil.Normalize("./src/app/main.ts"))
	assert.Equal(t, "src/app/main.ts", pathutil.Normalize("src/app/main.ts"))
}

func TestStripKnownExtension(t *testing.T) {
	assert.Equal(t, "component", pathutil.StripKnownExtension("component.tsx"))
	assert.Equal(t, "component", pathutil.StripKnownExtension("component.ts"))
	assert.Equal(t, "styles", pathutil.StripKnownExtension("styles.scss"))
	assert.Equal(t, "README", pathutil.StripKnownExtension("README"))
}

func TestDir(t *testing.T) {
	assert.Equal(t, "src/app", pathutil.Dir("src/app/main.ts"))
	assert.Equal(t, "", pathutil.Dir("main.ts"))
}
