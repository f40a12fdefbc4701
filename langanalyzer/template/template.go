// Package template extracts identifier usages from Svelte and Vue template
// markup with a fixed, once-compiled set of regular expressions rather than
// a full HTML parser -- templates are small enough that this is a
// deliberate simplification, not a shortcut taken under time pressure.
package template

import "regexp"

var svelteBuiltins = map[string]bool{
	"if": true, "else": true, "each": true, "await": true, "then": true,
	"catch": true, "key": true, "html": true, "debug": true,
	"const": true, "let": true, "var": true,
	"console": true, "window": true, "document": true,
	"Array": true, "Object": true, "String": true, "Number": true,
	"Boolean": true, "Date": true, "Math": true, "JSON": true,
	"Promise": true, "Error": true, "undefined": true, "null": true,
	"true": true, "false": true, "this": true, "slot": true, "svelte": true,
}

var vueBuiltins = map[string]bool{
	"if": true, "else": true, "for": true, "slot": true,
	"component": true, "transition": true, "keep-alive": true,
	"teleport": true, "suspense": true,
	"console": true, "window": true, "document": true,
	"Array": true, "Object": true, "String": true, "Number": true,
	"Boolean": true, "Date": true, "Math": true, "JSON": true,
	"Promise": true, "Error": true, "undefined": true, "null": true,
	"true": true, "false": true, "this": true,
}

const ident = `[a-zA-Z_$][a-zA-Z0-9_$]*`

var (
	svelteFuncCall       = regexp.MustCompile(`\{[^}]*?\b(` + ident + `)\s*\(`)
	svelteEventHandler   = regexp.MustCompile(`on:\w+\s*=\s*\{(?:\([^)]*\)\s*=>)?\s*(` + ident + `)`)
	svelteEventArrowBody = regexp.MustCompile(`on:\w+\s*=\s*\{(?:\([^)]*\))?\s*=>\s*(` + ident + `)\s*\(`)
	svelteBind           = regexp.MustCompile(`bind:\w+\s*=\s*\{(` + ident + `)`)
	svelteUse            = regexp.MustCompile(`use:(` + ident + `)`)
	svelteTransition     = regexp.MustCompile(`(?:transition|in|out|animate):(` + ident + `)`)
	svelteComponentTag   = regexp.MustCompile(`<([A-Z]` + `[a-zA-Z0-9_$]*)`)
	svelteProp           = regexp.MustCompile(`\s\w+\s*=\s*\{(` + ident + `)\s*\}`)
	svelteOptionalChain  = regexp.MustCompile(`(` + ident + `)\s*\??\.\s*(` + ident + `)\s*\(`)

	vueMustacheCall   = regexp.MustCompile(`\{\{[^}]*?\b(` + ident + `)\s*\(`)
	vueMustacheRef    = regexp.MustCompile(`\{\{\s*(` + ident + `)\.?`)
	vueEventHandler   = regexp.MustCompile(`(?:@|v-on:)\w+\s*=\s*"(` + ident + `)`)
	vuePropBinding    = regexp.MustCompile(`(?::|v-bind:)\w+\s*=\s*"(` + ident + `)`)
	vueModel          = regexp.MustCompile(`v-model\s*=\s*"(` + ident + `)`)
	vueComponentTag   = regexp.MustCompile(`<([A-Z][a-zA-Z0-9_$]*)`)
)

// ParseSvelteUsages extracts identifier usages from a Svelte template region.
func ParseSvelteUsages(src string) []string {
	var out []string
	add := func(matches [][]string, groupIdx int, skipFilter bool) {
		for _, m := range matches {
			name := m[groupIdx]
			if !skipFilter && svelteBuiltins[name] {
				continue
			}
			if !contains(out, name) {
				out = append(out, name)
			}
		}
	}
	add(svelteFuncCall.FindAllStringSubmatch(src, -1), 1, false)
	add(svelteEventHandler.FindAllStringSubmatch(src, -1), 1, false)
	add(svelteEventArrowBody.FindAllStringSubmatch(src, -1), 1, false)
	add(svelteBind.FindAllStringSubmatch(src, -1), 1, false)
	add(svelteUse.FindAllStringSubmatch(src, -1), 1, false)
	add(svelteTransition.FindAllStringSubmatch(src, -1), 1, false)
	add(svelteComponentTag.FindAllStringSubmatch(src, -1), 1, true)
	add(svelteProp.FindAllStringSubmatch(src, -1), 1, false)

	for _, m := range svelteOptionalChain.FindAllStringSubmatch(src, -1) {
		obj, method := m[1], m[2]
		if !svelteBuiltins[obj] && !contains(out, obj) {
			out = append(out, obj)
		}
		if !svelteBuiltins[method] && !contains(out, method) {
			out = append(out, method)
		}
	}
	return out
}

// ParseVueUsages extracts identifier usages from a Vue template region.
func ParseVueUsages(src string) []string {
	var out []string
	add := func(matches [][]string, skipFilter bool) {
		for _, m := range matches {
			name := m[1]
			if !skipFilter && vueBuiltins[name] {
				continue
			}
			if !contains(out, name) {
				out = append(out, name)
			}
		}
	}
	add(vueMustacheCall.FindAllStringSubmatch(src, -1), false)
	add(vueMustacheRef.FindAllStringSubmatch(src, -1), false)
	add(vueEventHandler.FindAllStringSubmatch(src, -1), false)
	add(vuePropBinding.FindAllStringSubmatch(src, -1), false)
	add(vueModel.FindAllStringSubmatch(src, -1), false)
	add(vueComponentTag.FindAllStringSubmatch(src, -1), true)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
