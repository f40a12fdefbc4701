// Package golang analyzes Go source files with go-tree-sitter, the same
// query-cursor-over-captures pattern the teacher's own Go inspector uses,
// narrowed here to the import/export shape every language analyzer shares
// rather than a full type/field inspection model.
package golang

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	gotree "github.com/smacker/go-tree-sitter/golang"
	"golang.org/x/mod/modfile"

	"github.com/loctree/loctree/hashutil"
	"github.com/loctree/loctree/model"
)

// Options configures classification of imports relative to the scanned module.
type Options struct {
	ModulePath string // this repo's own module path, from go.mod
}

// Analyze parses one Go file and returns its FileAnalysis.
func Analyze(content []byte, path string, opts Options) (*model.FileAnalysis, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(gotree.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("golang analyzer: parse %s: %w", path, err)
	}
	root := tree.RootNode()

	fa := &model.FileAnalysis{
		Path:     path,
		Language: model.LangGo,
		Kind:     model.KindSource,
		LOC:      countNonBlankLines(content),
	}
	if strings.HasSuffix(path, "_test.go") {
		fa.IsTest = true
		fa.Kind = model.KindTest
	}
	if h, err := hashutil.Hash(content); err == nil {
		fa.ContentHash = h
	}

	fa.Imports = parseImports(root, content, opts)
	fa.Exports = parseExports(root, content)
	fa.Suppressions = parseSuppressions(content)

	return fa, nil
}

func countNonBlankLines(content []byte) int {
	n := 0
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

func eachMatch(query *sitter.Query, root *sitter.Node, fn func(m *sitter.QueryMatch)) {
	cursor := sitter.NewQueryCursor()
	cursor.Exec(query, root)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			return
		}
		fn(match)
	}
}

func parseImports(root *sitter.Node, src []byte, opts Options) []model.ImportEntry {
	var out []model.ImportEntry
	query := sitter.NewQuery([]byte("(import_declaration) @import"), gotree.GetLanguage())
	eachMatch(query, root, func(m *sitter.QueryMatch) {
		for _, cap := range m.Captures {
			node := cap.Node
			for i := 0; i < int(node.NamedChildCount()); i++ {
				child := node.NamedChild(i)
				if child.Type() != "import_spec" {
					continue
				}
				var importPath string
				var alias string
				if child.NamedChildCount() > 1 {
					nameNode := child.NamedChild(0)
					if nameNode.Type() == "package_identifier" {
						alias = nameNode.Content(src)
					}
					pathNode := child.NamedChild(1)
					if pathNode.Type() == "interpreted_string_literal" {
						importPath = strings.Trim(pathNode.Content(src), "\"")
					}
				} else if child.NamedChildCount() == 1 {
					pathNode := child.NamedChild(0)
					if pathNode.Type() == "interpreted_string_literal" {
						importPath = strings.Trim(pathNode.Content(src), "\"")
					}
				}
				if importPath == "" {
					continue
				}
				line := int(child.StartPoint().Row) + 1
				entry := model.ImportEntry{
					Source: importPath,
					Kind:   model.ImportStatic,
					IsBare: classifyBare(importPath, opts.ModulePath),
					Line:   line,
				}
				if alias != "" {
					entry.Symbols = []model.ImportedSymbol{{Name: alias}}
				}
				out = append(out, entry)
			}
		}
	})
	return out
}

// classifyBare mirrors the spec's TS "is_bare" idea for Go: a third-party
// import is bare; a stdlib import (no dot in the path) or one under this
// module's own path is not.
func classifyBare(importPath, modulePath string) bool {
	if modulePath != "" && strings.HasPrefix(importPath, modulePath) {
		return false
	}
	if !strings.Contains(importPath, ".") {
		return false // stdlib paths have no dot in their first segment
	}
	return true
}

func parseExports(root *sitter.Node, src []byte) []model.ExportSymbol {
	var out []model.ExportSymbol

	funcQuery := sitter.NewQuery([]byte("(function_declaration) @func"), gotree.GetLanguage())
	eachMatch(funcQuery, root, func(m *sitter.QueryMatch) {
		for _, cap := range m.Captures {
			node := cap.Node
			nameNode := node.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			name := nameNode.Content(src)
			out = append(out, model.ExportSymbol{
				Name:       name,
				Kind:       model.ExportFunction,
				Line:       int(node.StartPoint().Row) + 1,
				Params:     parseParams(node.ChildByFieldName("parameters"), src),
				Visibility: visibilityOf(name),
			})
		}
	})

	typeQuery := sitter.NewQuery([]byte("(type_declaration) @type"), gotree.GetLanguage())
	eachMatch(typeQuery, root, func(m *sitter.QueryMatch) {
		for _, cap := range m.Captures {
			node := cap.Node
			for i := 0; i < int(node.NamedChildCount()); i++ {
				spec := node.NamedChild(i)
				if spec.Type() != "type_spec" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				name := nameNode.Content(src)
				out = append(out, model.ExportSymbol{
					Name:       name,
					Kind:       model.ExportType,
					Line:       int(spec.StartPoint().Row) + 1,
					Visibility: visibilityOf(name),
				})
			}
		}
	})

	constQuery := sitter.NewQuery([]byte("(const_declaration) @const"), gotree.GetLanguage())
	eachMatch(constQuery, root, func(m *sitter.QueryMatch) {
		for _, cap := range m.Captures {
			node := cap.Node
			for i := 0; i < int(node.NamedChildCount()); i++ {
				spec := node.NamedChild(i)
				if spec.Type() != "const_spec" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				name := nameNode.Content(src)
				out = append(out, model.ExportSymbol{
					Name:       name,
					Kind:       model.ExportConst,
					Line:       int(spec.StartPoint().Row) + 1,
					Visibility: visibilityOf(name),
				})
			}
		}
	})

	varQuery := sitter.NewQuery([]byte("(var_declaration) @var"), gotree.GetLanguage())
	eachMatch(varQuery, root, func(m *sitter.QueryMatch) {
		for _, cap := range m.Captures {
			node := cap.Node
			for i := 0; i < int(node.NamedChildCount()); i++ {
				spec := node.NamedChild(i)
				if spec.Type() != "var_spec" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				name := nameNode.Content(src)
				out = append(out, model.ExportSymbol{
					Name:       name,
					Kind:       model.ExportVar,
					Line:       int(spec.StartPoint().Row) + 1,
					Visibility: visibilityOf(name),
				})
			}
		}
	})

	return out
}

func parseParams(paramList *sitter.Node, src []byte) []model.Param {
	if paramList == nil {
		return nil
	}
	var out []model.Param
	for i := 0; i < int(paramList.NamedChildCount()); i++ {
		p := paramList.NamedChild(i)
		if p.Type() != "parameter_declaration" {
			continue
		}
		nameNode := p.ChildByFieldName("name")
		typeNode := p.ChildByFieldName("type")
		if nameNode == nil {
			continue
		}
		param := model.Param{Name: nameNode.Content(src)}
		if typeNode != nil {
			param.TypeAnnotation = typeNode.Content(src)
		}
		out = append(out, param)
	}
	return out
}

func visibilityOf(name string) model.Visibility {
	if name == "" {
		return model.VisibilityPrivate
	}
	if strings.ToUpper(name[:1]) == name[:1] {
		return model.VisibilityPublic
	}
	return model.VisibilityPrivate
}

func parseSuppressions(content []byte) []model.Suppression {
	var out []model.Suppression
	for i, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//nolint") || strings.Contains(trimmed, "//nolint:") {
			out = append(out, model.Suppression{Line: i + 1, Kind: "nolint"})
		}
	}
	return out
}

// ModulePathFromGoMod extracts the module path from a go.mod's content,
// reusing the same parser the project detector uses.
func ModulePathFromGoMod(goModPath string, content []byte) (string, error) {
	mod, err := modfile.Parse(goModPath, content, nil)
	if err != nil || mod.Module == nil {
		return "", fmt.Errorf("golang analyzer: parse go.mod: %w", err)
	}
	return mod.Module.Mod.Path, nil
}
