// Package union implements the Union Discriminant Resolver of spec.md §4.3:
// walking a dotted path "root.f1.f2....leaf" through nested structures to
// locate the discriminant leaf, and parsing a union case's value against
// that leaf's view.
//
// There is no discriminated-union concept in the teacher (claw has no
// Union construct at all — only Struct and Enum in idl.go), so the walk
// algorithm is new, built from spec.md §4.3 directly. The "walk a dotted
// identifier chain through per-field name lookups" idiom mirrors idl.go's
// Struct.field() switch, which resolves one identifier segment at a time
// against the enclosing file's identifier table.
package union

import (
	"strconv"
	"strings"

	"github.com/bearlytools/wiregen/internal/errs"
	"github.com/bearlytools/wiregen/internal/field"
	"github.com/bearlytools/wiregen/internal/ir"
	"github.com/bearlytools/wiregen/internal/schema"
)

// slotName returns the declared name of a Struct field slot, regardless of
// which of Fixed/Array/Struct it holds.
func slotName(s ir.StructSlot) string {
	switch s.Kind {
	case ir.KindFixed:
		return s.Fixed.Name
	case ir.KindArray:
		return s.Array.Name
	case ir.KindStruct:
		return s.Struct.Name
	}
	return ""
}

// Resolve walks a dotted discriminant path against proto's compiled
// structs, per spec.md §4.3 steps 1-3.
func Resolve(path string, proto *ir.Protocol) (*ir.DiscriminantPath, error) {
	segments := strings.Split(path, ".")
	if len(segments) < 2 {
		return nil, errs.New(errs.InvalidUnionDiscriminant, "discriminant path %q must have at least a root and a leaf segment", path)
	}

	root, ok := proto.Struct(segments[0])
	if !ok {
		return nil, errs.New(errs.InvalidUnionDiscriminant, "discriminant path %q: root %q is not a known structure", path, segments[0])
	}

	cur := root
	var indexPath []int
	var leafOwner *ir.Struct
	var leafField *ir.Fixed
	var leafIndex int

	for i, seg := range segments[1:] {
		last := i == len(segments)-2

		idx := -1
		for j, slot := range cur.Fields {
			if slotName(slot) == seg {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, errs.New(errs.InvalidUnionDiscriminant, "discriminant path %q: struct %q has no field %q", path, cur.Name, seg)
		}

		slot := cur.Fields[idx]
		switch slot.Kind {
		case ir.KindArray:
			return nil, errs.New(errs.InvalidUnionDiscriminant, "discriminant path %q: field %q is an array, cannot be part of a discriminant path", path, seg)
		case ir.KindStruct:
			if last {
				return nil, errs.New(errs.InvalidUnionDiscriminant, "discriminant path %q: leaf %q is a nested structure, not a fixed scalar", path, seg)
			}
			indexPath = append(indexPath, idx)
			cur = slot.Struct.Target
		case ir.KindFixed:
			if !last {
				return nil, errs.New(errs.InvalidUnionDiscriminant, "discriminant path %q: %q is a scalar but more path segments follow", path, seg)
			}
			indexPath = append(indexPath, idx)
			leafOwner = cur
			leafField = slot.Fixed
			leafIndex = idx
		}
	}

	if leafField == nil {
		return nil, errs.New(errs.InvalidUnionDiscriminant, "discriminant path %q never reached a fixed scalar leaf", path)
	}
	if field.IsFloat(leafField.Type) {
		return nil, errs.New(errs.FloatInUnionDiscriminant, "discriminant path %q: leaf %q is a float field", path, leafField.Name)
	}
	if !field.IsInteger(leafField.Type) {
		return nil, errs.New(errs.InvalidUnionDiscriminant, "discriminant path %q: leaf %q (%s) is not an integer scalar", path, leafField.Name, leafField.Type)
	}

	return &ir.DiscriminantPath{
		Raw:       path,
		Root:      root,
		LeafOwner: leafOwner,
		LeafIndex: leafIndex,
		LeafField: leafField,
		IndexPath: indexPath,
	}, nil
}

// ParseCase parses one union case's value against the discriminant leaf's
// view, per spec.md §4.3: transmute/signed-cast take a signed integer
// literal; an enum view takes a variant name; a float view is unreachable
// here since Resolve already rejects float leaves.
func ParseCase(disc *ir.DiscriminantPath, raw string) (int64, error) {
	switch disc.LeafField.View.Kind {
	case ir.ViewEnum:
		for _, v := range disc.LeafField.View.Enum.Variants {
			if v.Name == raw {
				return int64(v.Value), nil
			}
		}
		return 0, errs.New(errs.InvalidUnionCase, "case %q is not a variant of enum %q", raw, disc.LeafField.View.Enum.Name)
	case ir.ViewTransmute, ir.ViewSignedCast:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, errs.New(errs.InvalidUnionCase, "case %q is not a valid integer literal: %s", raw, err)
		}
		return n, nil
	default:
		return 0, errs.New(errs.InvalidUnionCase, "case %q: discriminant leaf has an unsupported view", raw)
	}
}

// BuildUnion compiles a schema.UnionDef into an ir.Union: resolving the
// discriminant path, parsing each case's value, and looking up each case's
// optional item type among the protocol's structs/messages.
func BuildUnion(def schema.UnionDef, proto *ir.Protocol) (*ir.Union, error) {
	disc, err := Resolve(def.Discriminant, proto)
	if err != nil {
		return nil, err
	}

	u := &ir.Union{Name: def.Name, Discriminant: *disc}

	seen := map[int64]bool{}
	for _, c := range def.Cases {
		val, err := ParseCase(disc, c.Case)
		if err != nil {
			return nil, err
		}

		uc := ir.UnionCase{Name: c.Name, DiscriminantVal: val}
		if c.ItemType != "" {
			if s, ok := proto.Struct(c.ItemType); ok {
				uc.ItemStruct = s
			} else if m, ok := proto.Message(c.ItemType); ok {
				uc.ItemMessage = m
				if m.DynamicallySized {
					u.Size.Dynamic = true
				}
			} else {
				return nil, errs.New(errs.UndefinedReference, "union %q case %q references undefined type %q", def.Name, c.Name, c.ItemType)
			}
		}
		u.Cases = append(u.Cases, uc)

		// SPEC_FULL.md §5 decision 1: duplicate case values are accepted
		// (first-match on decode); record a non-fatal warning instead of
		// failing the compile.
		if seen[val] {
			proto.Warnings = append(proto.Warnings, "union "+def.Name+": duplicate discriminant value for case "+c.Name)
		}
		seen[val] = true
	}

	return u, nil
}
