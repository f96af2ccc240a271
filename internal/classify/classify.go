// Package classify implements the Message Classifier of spec.md §4.4:
// turning a schema.MessageDef's declared fields into ir.MessageField
// entries by field-kind, applying alias elision, union-arm validation, and
// the at-most-one-payload / no-variable-field-after-payload invariants.
//
// Grounded on idl.go's Struct.field(): a big switch over a declared kind
// string that consults the enclosing file's identifier table and falls
// through to an external-reference case for anything not locally defined.
// The shape is reused here — switch on declared kind, resolve against the
// protocol's compiled tables — retargeted from struct-field classification
// to message-field classification per spec.md §4.4's table.
package classify

import (
	"github.com/bearlytools/wiregen/internal/errs"
	"github.com/bearlytools/wiregen/internal/ir"
	"github.com/bearlytools/wiregen/internal/layout"
	"github.com/bearlytools/wiregen/internal/schema"
)

// elideAlias reports whether s is a single-field, transmute-view wrapper
// struct that should be flattened away into its inner Fixed rather than
// carried as a struct-ref (spec.md §4.4 "alias elision").
func elideAlias(s *ir.Struct) (*ir.Fixed, bool) {
	if len(s.Fields) != 1 {
		return nil, false
	}
	slot := s.Fields[0]
	if slot.Kind != ir.KindFixed {
		return nil, false
	}
	if slot.Fixed.View.Kind != ir.ViewTransmute {
		return nil, false
	}
	return slot.Fixed, true
}

// ClassifyMessage builds an ir.Message from a schema.MessageDef, resolving
// every field against proto's already-compiled structs/messages/unions.
func ClassifyMessage(def schema.MessageDef, proto *ir.Protocol) (*ir.Message, error) {
	out := &ir.Message{Name: def.Name}

	for _, fd := range def.Fields {
		mf, err := classifyField(fd, proto, out.Fields)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, *mf)

		switch mf.Kind {
		case ir.MFStringNullTerm, ir.MFStringLenPrefixed, ir.MFPayloadList, ir.MFPayload:
			out.DynamicallySized = true
		case ir.MFUnionArm:
			if mf.Union.Size.Dynamic {
				out.DynamicallySized = true
			}
		case ir.MFFixedArray:
			// a fixed array of known length is not itself variable-width.
		}
	}

	payloadCount := 0
	payloadIdx := -1
	for i, f := range out.Fields {
		if f.Kind == ir.MFPayload {
			payloadCount++
			payloadIdx = i
		}
	}
	if payloadCount > 1 {
		return nil, errs.New(errs.MultiPayload, "message %q declares %d payload fields, at most one is allowed", def.Name, payloadCount)
	}
	if payloadIdx >= 0 && payloadIdx != len(out.Fields)-1 {
		return nil, errs.New(errs.VarsizeAfterPayload, "message %q: field %q follows the payload field, nothing may come after a payload", def.Name, out.Fields[payloadIdx+1].Name)
	}
	if payloadIdx >= 0 {
		out.Payload = &out.Fields[payloadIdx]
	}

	return out, nil
}

func classifyField(fd schema.MessageFieldDef, proto *ir.Protocol, prior []ir.MessageField) (*ir.MessageField, error) {
	switch fd.Type {
	case "item":
		if s, ok := proto.Struct(fd.ItemType); ok {
			if fixed, elide := elideAlias(s); elide {
				return &ir.MessageField{Name: fd.Name, Kind: ir.MFFixed, Fixed: fixed}, nil
			}
			return &ir.MessageField{Name: fd.Name, Kind: ir.MFStructRef, StructRef: s}, nil
		}
		if m, ok := proto.Message(fd.ItemType); ok {
			return &ir.MessageField{Name: fd.Name, Kind: ir.MFMessageRef, MessageRef: m}, nil
		}
		return nil, errs.New(errs.UndefinedReference, "field %q references undefined type %q", fd.Name, fd.ItemType)

	case "list":
		if s, ok := proto.Struct(fd.ItemType); ok {
			if fd.MaxLen == nil {
				return nil, errs.New(errs.MissingNestedList, "field %q: list of structure %q needs a max_len (fixed array length)", fd.Name, fd.ItemType)
			}
			return &ir.MessageField{Name: fd.Name, Kind: ir.MFFixedArray, StructRef: s, MaxLen: *fd.MaxLen}, nil
		}
		if m, ok := proto.Message(fd.ItemType); ok {
			maxLen := 0
			if fd.MaxLen != nil {
				maxLen = *fd.MaxLen
			}
			return &ir.MessageField{Name: fd.Name, Kind: ir.MFPayloadList, MessageRef: m, MaxLen: maxLen}, nil
		}
		return nil, errs.New(errs.UndefinedReference, "field %q list references undefined type %q", fd.Name, fd.ItemType)

	case "string":
		if fd.MaxLen == nil {
			return &ir.MessageField{Name: fd.Name, Kind: ir.MFStringNullTerm}, nil
		}
		return &ir.MessageField{
			Name: fd.Name, Kind: ir.MFStringLenPrefixed,
			MaxLen:        *fd.MaxLen,
			LenPrefixType: layout.ScalarForRange(uint64(*fd.MaxLen)),
		}, nil

	case "union":
		// SPEC_FULL.md §5 decision 2: optional is rejected outright for
		// union-arm fields rather than silently stripped.
		if fd.Optional {
			return nil, errs.New(errs.UnionTypeMismatch, "field %q: union-arm fields cannot be declared optional", fd.Name)
		}
		u, ok := proto.Union(fd.ItemType)
		if !ok {
			return nil, errs.New(errs.UndefinedReference, "field %q references undefined union %q", fd.Name, fd.ItemType)
		}
		var onField *ir.MessageField
		for i := range prior {
			if prior[i].Name == fd.On {
				onField = &prior[i]
				break
			}
		}
		root := u.Discriminant.Root
		switch {
		case onField == nil:
			return nil, errs.New(errs.UnionTypeMismatch, "field %q: on %q must name a previously-declared structure field", fd.Name, fd.On)
		case onField.Kind == ir.MFStructRef && onField.StructRef == root:
		case onField.Kind == ir.MFFixed && len(root.Fields) == 1 && root.Fields[0].Fixed == onField.Fixed:
			// on names an item of the root structure that alias elision
			// flattened to the root's single fixed field.
		case onField.Kind == ir.MFStructRef:
			return nil, errs.New(errs.UnionTypeMismatch, "field %q: on %q (structure %q) is not the discriminant root %q of union %q",
				fd.Name, fd.On, onField.StructRef.Name, root.Name, u.Name)
		default:
			return nil, errs.New(errs.UnionTypeMismatch, "field %q: on %q is not a field of the discriminant root %q of union %q",
				fd.Name, fd.On, root.Name, u.Name)
		}
		return &ir.MessageField{Name: fd.Name, Kind: ir.MFUnionArm, Union: u, OnFieldName: fd.On}, nil

	case "payload":
		return &ir.MessageField{Name: fd.Name, Kind: ir.MFPayload}, nil

	default:
		return nil, errs.New(errs.UnsupportedType, "field %q has unknown type %q", fd.Name, fd.Type)
	}
}
