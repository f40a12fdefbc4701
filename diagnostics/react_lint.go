// Package diagnostics runs narrow, semantic checks over the AST a language
// analyzer already produced rather than re-scanning the file: the React
// effect-cleanup linter here, and the CSS layout classifier in layout.go.
package diagnostics

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/loctree/loctree/model"
)

// AnalyzeReactEffects walks tree looking for useEffect/useLayoutEffect call
// sites and flags missing-cleanup patterns. It is a no-op for files that
// don't mention either hook name, and silently returns no issues on a nil
// tree (the parser already salvaged what it could for the import/export
// pass; this checker simply has nothing to add).
func AnalyzeReactEffects(tree *sitter.Tree, src []byte) []model.ReactLintIssue {
	if tree == nil {
		return nil
	}
	text := string(src)
	if !strings.Contains(text, "useEffect") && !strings.Contains(text, "useLayoutEffect") {
		return nil
	}

	var issues []model.ReactLintIssue
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "call_expression" {
			if fn := n.ChildByFieldName("function"); fn != nil {
				name := fn.Content(src)
				if name == "useEffect" || name == "useLayoutEffect" {
					issues = append(issues, checkEffectCall(n, src)...)
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return issues
}

func checkEffectCall(call *sitter.Node, src []byte) []model.ReactLintIssue {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return nil
	}
	body := args.NamedChild(0)
	if body.Type() != "arrow_function" && body.Type() != "function_expression" {
		return nil
	}
	fnBody := body.ChildByFieldName("body")
	if fnBody == nil {
		return nil
	}
	bodyText := fnBody.Content(src)
	line := int(call.StartPoint().Row) + 1

	hasCleanupReturn := hasCleanupReturnPattern(fnBody, src)

	var out []model.ReactLintIssue

	hasAsyncMarkers := strings.Contains(bodyText, "async") || strings.Contains(bodyText, "await")
	hasGuard := strings.Contains(bodyText, "cancelled") || strings.Contains(bodyText, "isMounted") ||
		strings.Contains(bodyText, "aborted") || strings.Contains(bodyText, "AbortController")
	if hasAsyncMarkers && !hasCleanupReturn && !hasGuard {
		out = append(out, model.ReactLintIssue{
			Rule: "async-effect-no-cleanup", Line: line, Severity: "high",
			Detail: "effect body awaits without a cleanup return or cancellation guard",
		})
	}

	if strings.Contains(bodyText, "setTimeout") && !strings.Contains(bodyText, "clearTimeout") && !hasCleanupReturn {
		out = append(out, model.ReactLintIssue{
			Rule: "settimeout-no-cleanup", Line: line, Severity: "medium",
			Detail: "setTimeout scheduled without a matching clearTimeout in cleanup",
		})
	}

	if strings.Contains(bodyText, "setInterval") && !strings.Contains(bodyText, "clearInterval") {
		out = append(out, model.ReactLintIssue{
			Rule: "setinterval-no-cleanup", Line: line, Severity: "high",
			Detail: "setInterval scheduled without a matching clearInterval",
		})
	}

	if strings.Contains(bodyText, "addEventListener") && !strings.Contains(bodyText, "removeEventListener") {
		out = append(out, model.ReactLintIssue{
			Rule: "eventlistener-no-cleanup", Line: line, Severity: "medium",
			Detail: "addEventListener registered without a matching removeEventListener",
		})
	}

	return out
}

// hasCleanupReturnPattern recognizes `return () => ...`, `return function
// ...`, or `return ident;` where ident isn't a clear non-function literal.
func hasCleanupReturnPattern(fnBody *sitter.Node, src []byte) bool {
	var found bool
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found || n == nil {
			return
		}
		if n.Type() == "return_statement" {
			if n.NamedChildCount() > 0 {
				val := n.NamedChild(0)
				switch val.Type() {
				case "arrow_function", "function_expression":
					found = true
				case "identifier":
					name := val.Content(src)
					switch name {
					case "null", "undefined", "true", "false":
					default:
						found = true
					}
				}
			}
			return
		}
		// Don't descend into nested function bodies -- their own return
		// statements belong to a different closure, not this effect.
		switch n.Type() {
		case "arrow_function", "function_expression", "function_declaration":
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(fnBody)
	return found
}
