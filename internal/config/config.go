// Package config parses the permissive TOML-like configuration file of
// spec.md §6: "[section]" headers followed by "key = value" lines, grouped
// into a package section, a compiler section, and one output.<lang>
// section per code generation target.
//
// Grounded on internal/imports/module.go's halfpike-based state machine
// (Start/FindNext dispatch, one ParseFn per syntactic construct,
// commentOrEOL's "is the rest of this line a comment or nothing" check) —
// the same hand-rolled-grammar idiom, regrammared from claw.mod's
// "module"/"require(...)"/"replace(...)" syntax to "[section]"/"key = value".
package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/johnsiilver/halfpike"
)

// Config is a fully-parsed configuration file.
type Config struct {
	// PackageName is [package] name, the output Go package generated code
	// declares itself under.
	PackageName string

	// MaxIterations is [compiler] max_iterations; zero means "use
	// internal/solver's default" (SPEC_FULL.md §5 decision 3).
	MaxIterations int

	// Endianness is [compiler] endianness as written. Nothing in this
	// module reads it; byte order comes from each protocol's declaration.
	Endianness string

	// Outputs maps a target language name (the suffix of "output.<lang>")
	// to its section's key/value pairs.
	Outputs map[string]map[string]string

	current string
	raw     map[string]map[string]string
}

// Parse decodes a configuration file's contents.
func Parse(data string) (*Config, error) {
	c := &Config{raw: map[string]map[string]string{}, Outputs: map[string]map[string]string{}}

	if err := halfpike.Parse(context.Background(), data, c); err != nil {
		return nil, err
	}

	if pkg, ok := c.raw["package"]; ok {
		c.PackageName = unquote(pkg["name"])
	}
	if comp, ok := c.raw["compiler"]; ok {
		if v, ok := comp["max_iterations"]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("config: compiler.max_iterations must be an integer, got %q", v)
			}
			c.MaxIterations = n
		}
		c.Endianness = unquote(comp["endianness"])
	}
	for section, kv := range c.raw {
		if strings.HasPrefix(section, "output.") {
			lang := strings.TrimPrefix(section, "output.")
			out := map[string]string{}
			for k, v := range kv {
				out[k] = unquote(v)
			}
			c.Outputs[lang] = out
		}
	}

	return c, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Start is halfpike's entry point.
func (c *Config) Start(ctx context.Context, p *halfpike.Parser) halfpike.ParseFn {
	return c.findNext
}

func (c *Config) skipComments(p *halfpike.Parser) {
	l := p.Next()
	if len(l.Items) > 0 && strings.HasPrefix(l.Items[0].Val, "#") {
		if p.EOF(l) {
			return
		}
		c.skipComments(p)
		return
	}
	p.Backup()
}

func (c *Config) findNext(ctx context.Context, p *halfpike.Parser) halfpike.ParseFn {
	c.skipComments(p)

	line := p.Next()
	if p.EOF(line) {
		return nil
	}
	if len(line.Items) == 0 {
		return c.findNext
	}

	first := line.Items[0].Val
	if strings.HasPrefix(first, "[") {
		name := strings.TrimSuffix(strings.TrimPrefix(first, "["), "]")
		if name == "" {
			return p.Errorf("[Line %d] error: empty section header", line.LineNum)
		}
		c.current = name
		if c.raw[name] == nil {
			c.raw[name] = map[string]string{}
		}
		return c.findNext
	}

	if c.current == "" {
		return p.Errorf("[Line %d] error: key %q declared before any [section] header", line.LineNum, first)
	}
	if len(line.Items) < 3 || line.Items[1].Val != "=" {
		return p.Errorf("[Line %d] error: expected 'key = value', got %q", line.LineNum, line.Raw)
	}

	var val strings.Builder
	for i, it := range line.Items[2:] {
		if i > 0 {
			val.WriteByte(' ')
		}
		val.WriteString(it.Val)
	}
	c.raw[c.current][first] = val.String()

	return c.findNext
}
