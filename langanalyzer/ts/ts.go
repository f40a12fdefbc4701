// Package ts analyzes TypeScript/JavaScript (and TSX/JSX) files with
// go-tree-sitter, walking the parsed tree once to extract imports,
// re-exports, exports, dynamic imports, and Tauri-style command/event call
// sites -- the same parser family the teacher's Go inspector uses, applied
// to the JS/TS grammars, with a recursive node walk instead of query cursors.
package ts

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/loctree/loctree/hashutil"
	"github.com/loctree/loctree/model"
)

// invokeDenylist excludes editor-command-registration patterns that happen
// to contain "Command" but are not Tauri invoke call sites.
var invokeDenylist = map[string]bool{
	"registerCommand":             true,
	"registerTextEditorCommand":   true,
}

// Analyze parses one TS/JS/TSX/JSX file and returns its FileAnalysis.
func Analyze(content []byte, path string, lang model.Language) (*model.FileAnalysis, error) {
	fa, _, err := AnalyzeWithTree(content, path, lang)
	return fa, err
}

// AnalyzeWithTree is Analyze plus the parsed tree, so a caller (the
// diagnostics package's React effect-cleanup checker) can run a second pass
// over the same AST instead of re-parsing the file.
func AnalyzeWithTree(content []byte, path string, lang model.Language) (*model.FileAnalysis, *sitter.Tree, error) {
	var language *sitter.Language
	switch lang {
	case model.LangTSX:
		language = tsx.GetLanguage()
	case model.LangTS:
		language = typescript.GetLanguage()
	default:
		language = javascript.GetLanguage()
	}

	parser := sitter.NewParser()
	parser.SetLanguage(language)
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, nil, fmt.Errorf("ts analyzer: parse %s: %w", path, err)
	}

	fa := &model.FileAnalysis{
		Path:        path,
		Language:    lang,
		Kind:        model.KindSource,
		LOC:         countNonBlank(content),
		EventConsts: map[string]string{},
	}
	if isTestPath(path) {
		fa.IsTest = true
		fa.Kind = model.KindTest
	}
	if h, err := hashutil.Hash(content); err == nil {
		fa.ContentHash = h
	}
	fa.IsFlowFile = detectFlow(content)
	fa.Suppressions = parseSuppressions(content)

	w := &walker{src: content, fa: fa}
	w.visit(tree.RootNode())
	fa.Imports = w.imports
	fa.Reexports = w.reexports
	fa.DynamicImports = w.dynamicImports
	fa.Exports = w.exports
	fa.EventEmits = w.eventEmits
	fa.EventListens = w.eventListens
	fa.CommandCalls = w.commandCalls
	fa.CommandPayloadCasing = w.payloadCasing

	return fa, tree, nil
}

func isTestPath(path string) bool {
	return strings.Contains(path, ".test.") || strings.Contains(path, ".spec.") || strings.Contains(path, "__tests__")
}

func countNonBlank(content []byte) int {
	n := 0
	for _, l := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}

func detectFlow(content []byte) bool {
	head := content
	if len(head) > 1000 {
		head = head[:1000]
	}
	for len(head) > 0 && (head[len(head)-1]&0xC0) == 0x80 {
		head = head[:len(head)-1]
	}
	s := string(head)
	return strings.Contains(s, "@flow")
}

func parseSuppressions(content []byte) []model.Suppression {
	var out []model.Suppression
	for i, line := range strings.Split(string(content), "\n") {
		t := strings.TrimSpace(line)
		switch {
		case strings.Contains(t, "@ts-ignore"):
			out = append(out, model.Suppression{Line: i + 1, Kind: "ts-ignore"})
		case strings.Contains(t, "@ts-expect-error"):
			out = append(out, model.Suppression{Line: i + 1, Kind: "ts-expect-error"})
		case strings.Contains(t, "eslint-disable"):
			out = append(out, model.Suppression{Line: i + 1, Kind: "eslint-disable"})
		}
	}
	return out
}

type walker struct {
	src  []byte
	fa   *model.FileAnalysis

	imports        []model.ImportEntry
	reexports      []model.ReexportEntry
	dynamicImports []string
	exports        []model.ExportSymbol
	eventEmits     []model.EventRef
	eventListens   []model.EventRef
	commandCalls   []model.CommandRef
	payloadCasing  []model.CommandPayloadCasing
}

func (w *walker) content(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *walker) line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// visit walks every node once, dispatching by type. A single pass keeps the
// traversal linear in file size, matching the "analyzers never rescan"
// design constraint.
func (w *walker) visit(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "import_statement":
		w.handleImportStatement(n)
	case "export_statement":
		w.handleExportStatement(n)
	case "call_expression":
		w.handleCallExpression(n)
	case "lexical_declaration", "variable_declaration":
		w.handleVariableDeclaration(n)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.visit(n.NamedChild(i))
	}
}

func (w *walker) handleImportStatement(n *sitter.Node) {
	sourceNode := n.ChildByFieldName("source")
	if sourceNode == nil {
		// Fall back: last string child.
		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			c := n.NamedChild(i)
			if c.Type() == "string" {
				sourceNode = c
				break
			}
		}
	}
	if sourceNode == nil {
		return
	}
	source := unquote(w.content(sourceNode))
	isTypeOnly := false

	var symbols []model.ImportedSymbol
	isSideEffect := true

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "import_clause":
			isSideEffect = false
			symbols = append(symbols, w.parseImportClause(c)...)
		}
		if c.Type() == "type" || (c.Type() == "import" && strings.Contains(w.content(n), "import type")) {
			isTypeOnly = true
		}
	}
	if strings.HasPrefix(strings.TrimSpace(w.content(n)), "import type") {
		isTypeOnly = true
	}

	kind := model.ImportStatic
	if isSideEffect {
		kind = model.ImportSideEffect
	}
	if isTypeOnly {
		kind = model.ImportTypeOnly
	}

	w.imports = append(w.imports, model.ImportEntry{
		Source:     source,
		Kind:       kind,
		IsBare:     isBareSpecifier(source),
		Symbols:    symbols,
		IsTypeOnly: isTypeOnly,
		Line:       w.line(n),
	})
}

func (w *walker) parseImportClause(clause *sitter.Node) []model.ImportedSymbol {
	var out []model.ImportedSymbol
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		switch c.Type() {
		case "identifier":
			out = append(out, model.ImportedSymbol{Name: w.content(c), IsDefault: true})
		case "namespace_import":
			name := w.content(c)
			name = strings.TrimPrefix(strings.TrimSpace(name), "* as ")
			out = append(out, model.ImportedSymbol{Name: strings.TrimSpace(name)})
		case "named_imports":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				aliasNode := spec.ChildByFieldName("alias")
				sym := model.ImportedSymbol{Name: w.content(nameNode)}
				if aliasNode != nil {
					sym.Alias = w.content(aliasNode)
				}
				out = append(out, sym)
			}
		}
	}
	return out
}

func (w *walker) handleExportStatement(n *sitter.Node) {
	text := w.content(n)
	sourceNode := n.ChildByFieldName("source")

	if sourceNode != nil {
		source := unquote(w.content(sourceNode))
		// export * from 'x' / export * as ns from 'x'
		hasStar := false
		var names []string
		// "*" is an anonymous token, so every child is visited, not only
		// the named ones.
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "*" || c.Type() == "namespace_export" {
				hasStar = true
			}
			if c.Type() == "export_clause" {
				for j := 0; j < int(c.NamedChildCount()); j++ {
					spec := c.NamedChild(j)
					if spec.Type() == "export_specifier" {
						nameNode := spec.ChildByFieldName("name")
						names = append(names, w.content(nameNode))
					}
				}
			}
		}
		if hasStar {
			w.reexports = append(w.reexports, model.ReexportEntry{
				Source: source, Kind: model.ReexportStarKind, Line: w.line(n),
			})
		} else if len(names) > 0 {
			w.reexports = append(w.reexports, model.ReexportEntry{
				Source: source, Kind: model.ReexportNamedKind, Names: names, Line: w.line(n),
			})
			for _, name := range names {
				w.exports = append(w.exports, model.ExportSymbol{Name: name, Kind: model.ExportReexport, Line: w.line(n)})
			}
		}
		return
	}

	// export default ...
	if strings.HasPrefix(strings.TrimSpace(text), "export default") {
		w.exports = append(w.exports, model.ExportSymbol{Name: "default", Kind: model.ExportDefault, Line: w.line(n)})
		return
	}

	// export { a, b as c }  (no source)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "export_clause" {
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				w.exports = append(w.exports, model.ExportSymbol{Name: w.content(nameNode), Kind: model.ExportNamed, Line: w.line(n)})
			}
			return
		}
	}

	// export function f / export const x / export class C / export interface I ...
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "function_declaration", "generator_function_declaration":
			nameNode := c.ChildByFieldName("name")
			w.exports = append(w.exports, model.ExportSymbol{
				Name: w.content(nameNode), Kind: model.ExportFunction, Line: w.line(c),
				Params: w.parseParams(c.ChildByFieldName("parameters")),
			})
		case "class_declaration":
			nameNode := c.ChildByFieldName("name")
			w.exports = append(w.exports, model.ExportSymbol{Name: w.content(nameNode), Kind: model.ExportClass, Line: w.line(c)})
		case "interface_declaration":
			nameNode := c.ChildByFieldName("name")
			w.exports = append(w.exports, model.ExportSymbol{Name: w.content(nameNode), Kind: model.ExportInterface, Line: w.line(c)})
		case "type_alias_declaration":
			nameNode := c.ChildByFieldName("name")
			w.exports = append(w.exports, model.ExportSymbol{Name: w.content(nameNode), Kind: model.ExportType, Line: w.line(c)})
		case "enum_declaration":
			nameNode := c.ChildByFieldName("name")
			w.exports = append(w.exports, model.ExportSymbol{Name: w.content(nameNode), Kind: model.ExportEnum, Line: w.line(c)})
		case "lexical_declaration", "variable_declaration":
			kind := model.ExportConst
			if strings.HasPrefix(w.content(c), "let") {
				kind = model.ExportLet
			} else if strings.HasPrefix(w.content(c), "var") {
				kind = model.ExportVar
			}
			for j := 0; j < int(c.NamedChildCount()); j++ {
				decl := c.NamedChild(j)
				if decl.Type() != "variable_declarator" {
					continue
				}
				nameNode := decl.ChildByFieldName("name")
				w.exports = append(w.exports, model.ExportSymbol{Name: w.content(nameNode), Kind: kind, Line: w.line(decl)})
			}
		}
	}
}

func (w *walker) parseParams(paramsNode *sitter.Node) []model.Param {
	if paramsNode == nil {
		return nil
	}
	var out []model.Param
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		p := paramsNode.NamedChild(i)
		var nameNode, typeNode *sitter.Node
		switch p.Type() {
		case "required_parameter", "optional_parameter":
			nameNode = p.ChildByFieldName("pattern")
			typeNode = p.ChildByFieldName("type")
		case "identifier":
			nameNode = p
		default:
			nameNode = p
		}
		if nameNode == nil {
			continue
		}
		param := model.Param{Name: w.content(nameNode)}
		if typeNode != nil {
			param.TypeAnnotation = w.content(typeNode)
		}
		out = append(out, param)
	}
	return out
}

func (w *walker) handleCallExpression(n *sitter.Node) {
	fnNode := n.ChildByFieldName("function")
	argsNode := n.ChildByFieldName("arguments")
	if fnNode == nil {
		return
	}

	if fnNode.Type() == "import" {
		w.handleDynamicImport(n, argsNode)
		return
	}

	name := calleeName(fnNode, w.src)
	if name == "" {
		return
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "invoke") || strings.HasSuffix(name, "Command"):
		w.handleCommandDetection(n, name, argsNode)
	case name == "emit" || strings.HasSuffix(name, ".emit"):
		w.handleEventDetection(n, name, argsNode, true)
	case name == "listen" || strings.Contains(lower, "listen"):
		w.handleEventDetection(n, name, argsNode, false)
	}
}

func (w *walker) handleDynamicImport(n, argsNode *sitter.Node) {
	if argsNode == nil || argsNode.NamedChildCount() == 0 {
		return
	}
	arg := argsNode.NamedChild(0)
	if arg.Type() != "string" {
		return
	}
	source := unquote(w.content(arg))
	w.dynamicImports = append(w.dynamicImports, source)
	w.imports = append(w.imports, model.ImportEntry{
		Source: source, Kind: model.ImportDynamic, IsBare: isBareSpecifier(source), Line: w.line(n),
	})
}

func (w *walker) handleCommandDetection(n *sitter.Node, name string, argsNode *sitter.Node) {
	if invokeDenylist[name] {
		return
	}
	if argsNode == nil || argsNode.NamedChildCount() == 0 {
		return
	}
	cmdArg := argsNode.NamedChild(0)
	cmdName, ok := w.stringOrStaticTemplate(cmdArg)
	if !ok {
		return
	}
	if strings.Contains(cmdName, ".") && !strings.Contains(lower(name), "invoke") {
		return // VSCode-style dotted command name, e.g. loctree.analyzeImpact
	}

	actualCmd, pluginName := parsePluginCommand(cmdName)

	var generic string
	// First type argument, if the callee has one: invoke<T>('cmd')
	if typeArgs := n.ChildByFieldName("type_arguments"); typeArgs != nil && typeArgs.NamedChildCount() > 0 {
		generic = w.content(typeArgs.NamedChild(0))
	}

	if argsNode.NamedChildCount() > 1 {
		payload := argsNode.NamedChild(1)
		if strings.Contains(actualCmd, "_") && payload.Type() == "object" {
			for i := 0; i < int(payload.NamedChildCount()); i++ {
				prop := payload.NamedChild(i)
				if prop.Type() != "pair" {
					continue
				}
				keyNode := prop.ChildByFieldName("key")
				key := w.content(keyNode)
				if hasUpper(key) {
					w.payloadCasing = append(w.payloadCasing, model.CommandPayloadCasing{
						Command: actualCmd, Key: key, Path: w.fa.Path, Line: w.line(prop),
					})
				}
			}
		}
	}

	w.commandCalls = append(w.commandCalls, model.CommandRef{
		Name: actualCmd, Line: w.line(n), GenericType: generic, PluginName: pluginName,
	})
}

func (w *walker) handleEventDetection(n *sitter.Node, name string, argsNode *sitter.Node, isEmit bool) {
	if argsNode == nil || argsNode.NamedChildCount() == 0 {
		return
	}
	arg := argsNode.NamedChild(0)

	var eventName, kind string
	isDynamic := false

	switch arg.Type() {
	case "string":
		eventName = unquote(w.content(arg))
		kind = "literal"
	case "template_string":
		if isStaticTemplate(arg) {
			eventName = staticTemplateValue(arg, w.src)
			kind = "literal"
		} else {
			eventName = templatePattern(arg, w.src)
			kind = "dynamic"
			isDynamic = true
		}
	case "identifier":
		ident := w.content(arg)
		if val, ok := w.fa.EventConsts[ident]; ok {
			eventName = val
			kind = "const"
		} else {
			eventName = ident
			kind = "ident"
		}
	default:
		return
	}

	ref := model.EventRef{
		RawName:   w.content(arg),
		Name:      eventName,
		Line:      w.line(n),
		IsDynamic: isDynamic,
	}
	if p := n.Parent(); p != nil && p.Type() == "await_expression" {
		ref.Awaited = true
	}
	if isEmit {
		ref.Kind = "emit_" + kind
		w.eventEmits = append(w.eventEmits, ref)
	} else {
		ref.Kind = "listen_" + kind
		w.eventListens = append(w.eventListens, ref)
	}
}

func (w *walker) handleVariableDeclaration(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		valueNode := decl.ChildByFieldName("value")
		if nameNode == nil || valueNode == nil || valueNode.Type() != "string" {
			continue
		}
		w.fa.EventConsts[w.content(nameNode)] = unquote(w.content(valueNode))
	}
}

func (w *walker) stringOrStaticTemplate(n *sitter.Node) (string, bool) {
	switch n.Type() {
	case "string":
		return unquote(w.content(n)), true
	case "template_string":
		if isStaticTemplate(n) {
			return staticTemplateValue(n, w.src), true
		}
	}
	return "", false
}

// --- free functions ---

func calleeName(fnNode *sitter.Node, src []byte) string {
	switch fnNode.Type() {
	case "identifier":
		return fnNode.Content(src)
	case "member_expression":
		propNode := fnNode.ChildByFieldName("property")
		objNode := fnNode.ChildByFieldName("object")
		if propNode == nil {
			return ""
		}
		if objNode != nil && objNode.Type() == "identifier" {
			return objNode.Content(src) + "." + propNode.Content(src)
		}
		return propNode.Content(src)
	}
	return ""
}

func lower(s string) string { return strings.ToLower(s) }

func hasUpper(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '`' && s[len(s)-1] == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// isStaticTemplate reports whether a template_string node contains no
// `${...}` substitutions.
func isStaticTemplate(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "template_substitution" {
			return false
		}
	}
	return true
}

// staticTemplateValue renders a substitution-free template_string's literal
// text, stripping the surrounding backticks.
func staticTemplateValue(n *sitter.Node, src []byte) string {
	return unquote(n.Content(src))
}

// templatePattern renders a dynamic template_string as a `*`-substituted
// pattern, e.g. `event:${id}` -> "event:*".
func templatePattern(n *sitter.Node, src []byte) string {
	var sb strings.Builder
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "template_substitution":
			sb.WriteString("*")
		case "`":
			// skip delimiters
		default:
			sb.WriteString(c.Content(src))
		}
	}
	return sb.String()
}

func isBareSpecifier(source string) bool {
	return !strings.HasPrefix(source, ".") && !strings.HasPrefix(source, "/")
}

// parsePluginCommand splits a Tauri plugin-prefixed command name
// "plugin:name|command" into (command, pluginName).
func parsePluginCommand(cmdName string) (string, string) {
	if idx := strings.Index(cmdName, "|"); idx >= 0 && strings.HasPrefix(cmdName, "plugin:") {
		pluginPart := strings.TrimPrefix(cmdName[:idx], "plugin:")
		cmdPart := cmdName[idx+1:]
		if pluginPart != "" && cmdPart != "" {
			return cmdPart, pluginPart
		}
	}
	return cmdName, ""
}
