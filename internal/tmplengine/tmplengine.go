// Package tmplengine implements the fragment-based Template Engine of
// spec.md §4.8: a template source is split into named fragments by
// "#fragment push <name>" / "#fragment pop" directive lines, nested
// fragments are addressed by a dot-joined path, and each fragment's text is
// rendered by substituting "{var}" and "{var:function}" placeholders.
//
// spec.md §9 is explicit that this is "an explicit state machine, not a
// grammar generator" — so unlike internal/render/golang's use of stdlib
// text/template, this package hand-rolls both the fragment splitter and
// the placeholder scanner as two small character/line state machines
// rather than reaching for text/template or a parser-combinator library
// (see DESIGN.md for why no pack library fits: spec.md asks for exactly
// this shape of engine).
package tmplengine

import (
	"fmt"
	"strings"
)

// Template is a parsed template source: a set of named fragments, each
// still containing unresolved "{var}"/"{var:function}" placeholders.
type Template struct {
	fragments map[string]string
}

type frame struct {
	name string
	buf  *strings.Builder
}

// Parse splits src into fragments by its "#fragment push"/"#fragment pop"
// directive lines. Text outside of any push is collected under the empty
// name "". Directive lines themselves never appear in any fragment's text.
func Parse(src string) (*Template, error) {
	stack := []frame{{name: "", buf: &strings.Builder{}}}
	fragments := map[string]string{}

	lines := strings.Split(src, "\n")
	// A trailing newline ends the last line; it does not start another one.
	if last := len(lines) - 1; last > 0 && lines[last] == "" {
		lines = lines[:last]
	}
	for lineNo, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#fragment push "):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "#fragment push "))
			if name == "" {
				return nil, fmt.Errorf("tmplengine: line %d: #fragment push with no name", lineNo+1)
			}
			parent := stack[len(stack)-1]
			full := name
			if parent.name != "" {
				full = parent.name + "." + name
			}
			stack = append(stack, frame{name: full, buf: &strings.Builder{}})

		case trimmed == "#fragment pop":
			if len(stack) <= 1 {
				return nil, fmt.Errorf("tmplengine: line %d: #fragment pop with no matching push", lineNo+1)
			}
			top := stack[len(stack)-1]
			fragments[top.name] = top.buf.String()
			stack = stack[:len(stack)-1]

		default:
			top := stack[len(stack)-1]
			top.buf.WriteString(line)
			top.buf.WriteByte('\n')
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("tmplengine: %d fragment(s) left open (missing #fragment pop)", len(stack)-1)
	}
	fragments[""] = stack[0].buf.String()

	return &Template{fragments: fragments}, nil
}

// Fragments returns the names of every fragment Parse found, the dotted
// empty-string root included.
func (t *Template) Fragments() []string {
	out := make([]string, 0, len(t.fragments))
	for name := range t.fragments {
		out = append(out, name)
	}
	return out
}

// Has reports whether a fragment with the given dotted name exists.
func (t *Template) Has(name string) bool {
	_, ok := t.fragments[name]
	return ok
}

// Functions is the set of named single-argument transforms a
// "{var:function}" placeholder may invoke.
type Functions map[string]func(string) string

// Builtins are the functions available to every render regardless of
// target language. The Go target (internal/codegen/golang) renders with
// these alone; no target adds case-conversion functions of its own.
func Builtins() Functions {
	return Functions{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"capitalize": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}
}

// Render substitutes every "{var}"/"{var:function}" placeholder in the
// named fragment using vars and fns, with "{{"/"}}" as the literal-brace
// escape.
func (t *Template) Render(fragment string, vars map[string]string, fns Functions) (string, error) {
	raw, ok := t.fragments[fragment]
	if !ok {
		return "", fmt.Errorf("tmplengine: no fragment named %q", fragment)
	}
	return substitute(raw, vars, fns)
}

// substitute is the placeholder scanner: an explicit left-to-right state
// machine over raw, recognizing "{{"/"}}" literal escapes and
// "{name}"/"{name:fn}" placeholders.
func substitute(raw string, vars map[string]string, fns Functions) (string, error) {
	var out strings.Builder
	i, n := 0, len(raw)

	for i < n {
		c := raw[i]

		switch {
		case c == '{' && i+1 < n && raw[i+1] == '{':
			out.WriteByte('{')
			i += 2

		case c == '}' && i+1 < n && raw[i+1] == '}':
			out.WriteByte('}')
			i += 2

		case c == '{':
			end := strings.IndexByte(raw[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("tmplengine: unterminated placeholder starting at offset %d", i)
			}
			expr := raw[i+1 : i+1+end]
			i = i + 1 + end + 1

			varName, fnName := expr, ""
			if idx := strings.IndexByte(expr, ':'); idx >= 0 {
				varName, fnName = expr[:idx], expr[idx+1:]
			}

			val, ok := vars[varName]
			if !ok {
				return "", fmt.Errorf("tmplengine: undefined variable %q", varName)
			}
			if fnName != "" {
				fn, ok := fns[fnName]
				if !ok {
					return "", fmt.Errorf("tmplengine: undefined function %q", fnName)
				}
				val = fn(val)
			}
			out.WriteString(val)

		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String(), nil
}
