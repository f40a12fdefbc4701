package diagnostics

import (
	"strconv"
	"strings"

	"github.com/loctree/loctree/model"
)

// LayoutLine is one trimmed CSS declaration line the analyzer flagged as
// layout-relevant (z-index/position/display), paired with its source line.
type LayoutLine struct {
	Text string
	Line int
}

// AnalyzeCSSLayout classifies the raw layout declarations a CSS analyzer
// collected into the structured findings the layout map query reads back:
// z-index values, sticky/fixed positioning, and grid/flex layouts.
func AnalyzeCSSLayout(lines []LayoutLine) []model.LayoutFinding {
	var out []model.LayoutFinding
	for _, l := range lines {
		prop, value, ok := splitDeclaration(l.Text)
		if !ok {
			continue
		}
		switch prop {
		case "z-index":
			zv, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			out = append(out, model.LayoutFinding{Kind: model.LayoutZIndex, Value: value, ZVal: zv, Line: l.Line})
		case "position":
			if value == "sticky" || value == "fixed" {
				out = append(out, model.LayoutFinding{Kind: model.LayoutSticky, Value: value, Line: l.Line})
			}
		case "display":
			if strings.HasPrefix(value, "grid") || strings.HasPrefix(value, "flex") || strings.HasPrefix(value, "inline-grid") || strings.HasPrefix(value, "inline-flex") {
				out = append(out, model.LayoutFinding{Kind: model.LayoutGrid, Value: value, Line: l.Line})
			}
		}
	}
	return out
}

func splitDeclaration(text string) (prop, value string, ok bool) {
	idx := strings.Index(text, ":")
	if idx < 0 {
		return "", "", false
	}
	prop = strings.TrimSpace(text[:idx])
	value = strings.TrimSpace(strings.TrimSuffix(text[idx+1:], ";"))
	return prop, value, value != ""
}
