// Package generic provides the fallback analyzer for files whose extension
// no registered language analyzer recognizes: it records loc and language
// only, rather than erroring out of the whole scan.
package generic

import (
	"strings"

	"github.com/loctree/loctree/hashutil"
	"github.com/loctree/loctree/model"
)

// Analyze returns a minimal FileAnalysis for an unrecognized file.
func Analyze(content []byte, path string) (*model.FileAnalysis, error) {
	fa := &model.FileAnalysis{Path: path, Language: model.LangOther, Kind: model.KindSource}
	if h, err := hashutil.Hash(content); err == nil {
		fa.ContentHash = h
	}
	n := 0
	for _, l := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	fa.LOC = n
	return fa, nil
}
