// Package rust analyzes Rust source files with a line/token-oriented
// scanner rather than a full parser -- a deliberate choice mirrored from
// the grounding source, since Rust's macro system and generic syntax make
// a handwritten AST pass a poor investment for this analyzer's needs.
package rust

import (
	"regexp"
	"strings"

	"github.com/loctree/loctree/hashutil"
	"github.com/loctree/loctree/model"
)

var (
	useRe          = regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?use\s+([\w:{},\s*]+?);`)
	fnRe           = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?(?:async\s+)?fn\s+(\w+)`)
	structRe       = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?struct\s+(\w+)`)
	enumRe         = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?enum\s+(\w+)`)
	traitRe        = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?trait\s+(\w+)`)
	typeRe         = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?type\s+(\w+)`)
	constRe        = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?const\s+(\w+)`)
	staticRe       = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?static\s+(?:mut\s+)?(\w+)`)
	modRe          = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?mod\s+(\w+)`)
	implRe         = regexp.MustCompile(`^\s*impl(?:<[^>]*>)?\s+(?:(\w+)(?:<[^>]*>)?\s+for\s+)?(\w+)`)
	macroRulesRe   = regexp.MustCompile(`^\s*macro_rules!\s+(\w+)`)
	macroExportRe  = regexp.MustCompile(`^\s*#\[macro_export\]`)
	attrRe         = regexp.MustCompile(`^\s*#!?\[(allow|deny|warn)\(([^)]*)\)\]`)
	tauriCommandRe = regexp.MustCompile(`#\[tauri::command(?:\(([^)]*)\))?\]`)
	renameAttrRe   = regexp.MustCompile(`rename\s*=\s*"([^"]+)"`)
)

// Analyze scans one .rs file and returns its FileAnalysis.
func Analyze(content []byte, path string) (*model.FileAnalysis, error) {
	fa := &model.FileAnalysis{
		Path:     path,
		Language: model.LangRust,
		Kind:     model.KindSource,
	}
	if h, err := hashutil.Hash(content); err == nil {
		fa.ContentHash = h
	}

	lines := strings.Split(string(content), "\n")
	fa.LOC = countNonBlank(lines)
	if strings.Contains(path, "/tests/") || strings.HasSuffix(path, "_test.rs") {
		fa.IsTest = true
		fa.Kind = model.KindTest
	}

	pendingCommand := false
	pendingExposedName := ""
	pendingMacroExport := false

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if m := attrRe.FindStringSubmatch(trimmed); m != nil {
			fa.Suppressions = append(fa.Suppressions, model.Suppression{
				Line: lineNo, Kind: m[1], LintName: strings.TrimSpace(m[2]),
			})
		}

		if macroExportRe.MatchString(trimmed) {
			pendingMacroExport = true
			continue
		}

		if m := tauriCommandRe.FindStringSubmatch(trimmed); m != nil {
			pendingCommand = true
			pendingExposedName = ""
			if m[1] != "" {
				if rn := renameAttrRe.FindStringSubmatch(m[1]); rn != nil {
					pendingExposedName = rn[1]
				}
			}
			continue
		}

		if m := useRe.FindStringSubmatch(line); m != nil {
			fa.Imports = append(fa.Imports, parseUseItem(m[1], lineNo)...)
			continue
		}

		if m := modRe.FindStringSubmatch(line); m != nil {
			fa.Exports = append(fa.Exports, model.ExportSymbol{
				Name: m[2], Kind: model.ExportDecl, Line: lineNo, Visibility: visibility(m[1]),
			})
			continue
		}

		if m := fnRe.FindStringSubmatch(line); m != nil {
			name := m[2]
			fa.Exports = append(fa.Exports, model.ExportSymbol{
				Name: name, Kind: model.ExportFunction, Line: lineNo,
				Params:     parseRustParams(line),
				Visibility: visibility(m[1]),
			})
			if pendingCommand {
				exposed := pendingExposedName
				if exposed == "" {
					exposed = name
				}
				fa.CommandHandlers = append(fa.CommandHandlers, model.CommandRef{
					Name: name, ExposedName: exposed, Line: lineNo,
				})
			}
			pendingCommand = false
			continue
		}

		if m := structRe.FindStringSubmatch(line); m != nil {
			fa.Exports = append(fa.Exports, model.ExportSymbol{Name: m[2], Kind: model.ExportClass, Line: lineNo, Visibility: visibility(m[1])})
			pendingCommand = false
			continue
		}
		if m := enumRe.FindStringSubmatch(line); m != nil {
			fa.Exports = append(fa.Exports, model.ExportSymbol{Name: m[2], Kind: model.ExportEnum, Line: lineNo, Visibility: visibility(m[1])})
			pendingCommand = false
			continue
		}
		if m := traitRe.FindStringSubmatch(line); m != nil {
			fa.Exports = append(fa.Exports, model.ExportSymbol{Name: m[2], Kind: model.ExportInterface, Line: lineNo, Visibility: visibility(m[1])})
			pendingCommand = false
			continue
		}
		if m := typeRe.FindStringSubmatch(line); m != nil {
			fa.Exports = append(fa.Exports, model.ExportSymbol{Name: m[2], Kind: model.ExportType, Line: lineNo, Visibility: visibility(m[1])})
			pendingCommand = false
			continue
		}
		if m := constRe.FindStringSubmatch(line); m != nil {
			fa.Exports = append(fa.Exports, model.ExportSymbol{Name: m[2], Kind: model.ExportConst, Line: lineNo, Visibility: visibility(m[1])})
			pendingCommand = false
			continue
		}
		if m := staticRe.FindStringSubmatch(line); m != nil {
			fa.Exports = append(fa.Exports, model.ExportSymbol{Name: m[2], Kind: model.ExportVar, Line: lineNo, Visibility: visibility(m[1])})
			pendingCommand = false
			continue
		}

		if m := implRe.FindStringSubmatch(line); m != nil {
			name := m[2]
			if m[1] != "" {
				name = m[1] + " for " + m[2]
			}
			fa.Exports = append(fa.Exports, model.ExportSymbol{Name: name, Kind: model.ExportImpl, Line: lineNo, Visibility: model.VisibilityPublic})
			pendingCommand = false
			pendingMacroExport = false
			continue
		}

		if m := macroRulesRe.FindStringSubmatch(line); m != nil {
			v := model.VisibilityPrivate
			if pendingMacroExport {
				v = model.VisibilityPublic
			}
			fa.Exports = append(fa.Exports, model.ExportSymbol{Name: m[1], Kind: model.ExportDecl, Line: lineNo, Visibility: v})
			pendingCommand = false
			pendingMacroExport = false
			continue
		}

		if trimmed != "" && !strings.HasPrefix(trimmed, "#[") {
			pendingCommand = false
			pendingMacroExport = false
		}
	}

	return fa, nil
}

func countNonBlank(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}

func visibility(pubMarker string) model.Visibility {
	if strings.TrimSpace(pubMarker) != "" {
		return model.VisibilityPublic
	}
	return model.VisibilityPrivate
}

// parseUseItem expands `use a::b::{c, d as e}` / `use a::b::*` / `use a::b`
// into one or more ImportEntry values.
func parseUseItem(body string, line int) []model.ImportEntry {
	body = strings.TrimSpace(body)
	if idx := strings.LastIndex(body, "::{"); idx >= 0 && strings.HasSuffix(body, "}") {
		prefix := body[:idx]
		inner := body[idx+3 : len(body)-1]
		var out []model.ImportEntry
		for _, part := range strings.Split(inner, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, model.ImportEntry{
				Source: prefix + "::" + rustAliasSource(part),
				Kind:   model.ImportStatic,
				IsBare: isBareRustPath(prefix),
				Symbols: []model.ImportedSymbol{rustAliasSymbol(part)},
				Line:   line,
			})
		}
		return out
	}
	if strings.HasSuffix(body, "::*") {
		prefix := strings.TrimSuffix(body, "::*")
		return []model.ImportEntry{{
			Source: prefix, Kind: model.ImportStatic, IsBare: isBareRustPath(prefix), Line: line,
		}}
	}
	return []model.ImportEntry{{
		Source: body, Kind: model.ImportStatic, IsBare: isBareRustPath(body), Line: line,
	}}
}

func rustAliasSource(part string) string {
	if idx := strings.Index(part, " as "); idx >= 0 {
		return strings.TrimSpace(part[:idx])
	}
	return part
}

func rustAliasSymbol(part string) model.ImportedSymbol {
	if idx := strings.Index(part, " as "); idx >= 0 {
		return model.ImportedSymbol{Name: strings.TrimSpace(part[:idx]), Alias: strings.TrimSpace(part[idx+4:])}
	}
	return model.ImportedSymbol{Name: strings.TrimSpace(part)}
}

func isBareRustPath(path string) bool {
	root := strings.SplitN(path, "::", 2)[0]
	return root != "crate" && root != "super" && root != "self"
}

func parseRustParams(line string) []model.Param {
	start := strings.Index(line, "(")
	end := strings.LastIndex(line, ")")
	if start < 0 || end <= start {
		return nil
	}
	inner := line[start+1 : end]
	var out []model.Param
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "&self" || part == "self" || part == "&mut self" {
			continue
		}
		nameType := strings.SplitN(part, ":", 2)
		p := model.Param{Name: strings.TrimSpace(nameType[0])}
		if len(nameType) == 2 {
			p.TypeAnnotation = strings.TrimSpace(nameType[1])
		}
		out = append(out, p)
	}
	return out
}
