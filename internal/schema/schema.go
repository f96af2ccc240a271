// Package schema models the raw, uncompiled form of a protocol file: the
// permissive-JSON-like document described in spec.md §6, decoded into Go
// values ready for the layout/resolve/classify/compiler passes.
//
// This mirrors the shape internal/idl/idl.go gave the teacher's own
// hand-rolled grammar (File, Struct, StructField, Enum, EnumVal, Import),
// but the source syntax here is JSON rather than a bespoke line grammar, so
// decoding is a straight json.Unmarshal instead of a halfpike state machine.
// That decode is strict JSON: comments and trailing commas are rejected.
package schema

import (
	"cmp"
	"fmt"

	json "github.com/go-json-experiment/json"
	"golang.org/x/exp/slices"
)

// Document is the top-level decoded schema file (spec.md §6).
type Document struct {
	Name string `json:"name"`
	// Endianness is "little" or "big"; empty means little (spec.md §6).
	Endianness string       `json:"endianness,omitempty"`
	Imports    []ImportSpec `json:"imports,omitempty"`
	Structs    []StructDef  `json:"structs,omitempty"`
	Enums      []EnumDef    `json:"enums,omitempty"`
	Unions     []UnionDef   `json:"unions,omitempty"`
	Messages   []MessageDef `json:"messages,omitempty"`

	// Path is not part of the document; it is set by the caller (the
	// schema file's logical import path) after parsing, the way
	// idl.go's File.FullPath is filled in after the fact by the import
	// resolver rather than decoded from the file itself.
	Path string `json:"-"`
}

// ImportSpec is one entry of the top-level "imports" array.
type ImportSpec struct {
	Protocol string `json:"protocol"`
	TypeName string `json:"type_name"`
}

// FieldInfo describes the "info" object of a struct field.
type FieldInfo struct {
	Type     string `json:"type"` // signed, unsigned, float, boolean, struct
	Bits     int    `json:"bits,omitempty"`
	ItemType string `json:"item_type,omitempty"`
}

// ViewSpec describes the optional "view" object of a struct field.
type ViewSpec struct {
	Type string  `json:"type"` // enum, float-range, float-multiplier
	Name string  `json:"name,omitempty"`
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	M    float64 `json:"m,omitempty"`
}

// StructFieldDef is one field of a struct definition.
type StructFieldDef struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Info        FieldInfo `json:"info"`
	View        *ViewSpec `json:"view,omitempty"`
	ArrayLen    int       `json:"array_len,omitempty"`
}

// StructDef is a "structs[]" entry.
type StructDef struct {
	Name   string           `json:"name"`
	Fields []StructFieldDef `json:"fields"`
}

// EnumDef is an "enums[]" entry.
type EnumDef struct {
	Name     string         `json:"name"`
	Variants map[string]int `json:"variants"`
}

// SortedVariants returns (name, value) pairs sorted by value ascending, the
// deterministic order spec.md §3 requires of a compiled Enum. Mirrors
// idl.go's Enum.OrderByValues, built with slices.SortFunc the same way.
func (e EnumDef) SortedVariants() []EnumVariant {
	out := make([]EnumVariant, 0, len(e.Variants))
	for name, val := range e.Variants {
		out = append(out, EnumVariant{Name: name, Value: val})
	}
	slices.SortFunc(out, func(a, b EnumVariant) int {
		if a.Value != b.Value {
			return cmp.Compare(a.Value, b.Value)
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// EnumVariant is one (name, value) pair of a compiled Enum.
type EnumVariant struct {
	Name  string
	Value int
}

// MessageFieldDef is one "messages[].fields[]" entry. The variant actually
// present is determined by Type.
type MessageFieldDef struct {
	Name     string `json:"name"`
	Optional bool   `json:"optional,omitempty"`
	Type     string `json:"type"` // item, list, string, union, payload

	ItemType string `json:"item_type,omitempty"`
	MaxLen   *int   `json:"max_len,omitempty"` // nil => unbounded/null-terminated

	// On names the previously-declared struct-ref field a union arm is
	// tied to.
	On string `json:"on,omitempty"`
}

// MessageDef is a "messages[]" entry.
type MessageDef struct {
	Name   string            `json:"name"`
	Fields []MessageFieldDef `json:"fields"`
}

// UnionCaseDef is a "unions[].cases[]" entry.
type UnionCaseDef struct {
	Name     string `json:"name"`
	Case     string `json:"case"`
	ItemType string `json:"item_type,omitempty"`
}

// UnionDef is a "unions[]" entry.
type UnionDef struct {
	Name        string         `json:"name"`
	Discriminant string        `json:"discriminant"`
	Cases       []UnionCaseDef `json:"cases"`
}

// Parse decodes a schema document from raw bytes.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("schema: ModelParse: %w", err)
	}
	return doc, nil
}

// Validate performs the document-shape checks spec.md §3/§4 call for before
// any pass touches the document: non-empty name, non-empty structs/enums,
// and that every identifier in "structs"/"enums"/"messages"/"unions" is
// unique across all four namespaces (mirrors idl.go's
// "found two top level identifiers named %q" check).
func (d *Document) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("schema: ModelParse: protocol must define a name")
	}

	seen := map[string]string{}
	claim := func(kind, name string) error {
		if other, ok := seen[name]; ok {
			return fmt.Errorf("schema: ModelParse: %s %q duplicates %s %q", kind, name, other, name)
		}
		seen[name] = kind
		return nil
	}

	for _, s := range d.Structs {
		if len(s.Fields) == 0 {
			return fmt.Errorf("schema: ZeroStruct: struct %q has no fields", s.Name)
		}
		if err := claim("struct", s.Name); err != nil {
			return err
		}
	}
	for _, e := range d.Enums {
		if len(e.Variants) == 0 {
			return fmt.Errorf("schema: ZeroEnum: enum %q has no variants", e.Name)
		}
		if err := claim("enum", e.Name); err != nil {
			return err
		}
	}
	for _, m := range d.Messages {
		if err := claim("message", m.Name); err != nil {
			return err
		}
	}
	for _, u := range d.Unions {
		if err := claim("union", u.Name); err != nil {
			return err
		}
	}
	return nil
}
