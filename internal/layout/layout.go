// Package layout implements the Layout Engine of spec.md §4.1: it turns an
// ordered list of declared schema fields into resolved ir.Struct fields with
// absolute bit/byte placement, and picks the smallest fixed scalar that can
// hold a declared bit width or value range.
//
// There is no teacher file to adapt this from directly — the teacher's wire
// format is tag-length-value, not fixed-offset bit-packed (see DESIGN.md) —
// so this is built from spec.md §4.1 directly, staying consistent with the
// bit/byte codec window arithmetic internal/bits and internal/binary define.
package layout

import (
	"github.com/bearlytools/wiregen/internal/errs"
	"github.com/bearlytools/wiregen/internal/field"
	"github.com/bearlytools/wiregen/internal/ir"
	"github.com/bearlytools/wiregen/internal/schema"
)

// StructLookup resolves a struct type name to its already-compiled form;
// internal/compiler passes the protocol's own table (ir.Protocol.Struct),
// which also holds imported aliases, so layout never has to know about
// imports.
type StructLookup func(name string) (*ir.Struct, bool)

// EnumLookup resolves an enum type name to its already-compiled form.
type EnumLookup func(name string) (*ir.Enum, bool)

// ScalarFor buckets a (simple_type, bit_size) pair into a field.Type per
// spec.md §4.1's scalar classification table.
func ScalarFor(simpleType string, bits int) (field.Type, error) {
	switch simpleType {
	case "boolean":
		return field.Bool, nil
	case "float":
		switch {
		case bits <= 32:
			return field.Float32, nil
		case bits <= 64:
			return field.Float64, nil
		default:
			return field.Unknown, errs.New(errs.UnsupportedBitSize, "float bit size %d exceeds 64", bits)
		}
	case "signed", "unsigned":
		if bits <= 0 || bits > 64 {
			return field.Unknown, errs.New(errs.UnsupportedBitSize, "bit size %d must be in (0,64]", bits)
		}
		signed := simpleType == "signed"
		switch {
		case bits <= 8:
			if signed {
				return field.Int8, nil
			}
			return field.UInt8, nil
		case bits <= 16:
			if signed {
				return field.Int16, nil
			}
			return field.UInt16, nil
		case bits <= 32:
			if signed {
				return field.Int32, nil
			}
			return field.UInt32, nil
		default:
			if signed {
				return field.Int64, nil
			}
			return field.UInt64, nil
		}
	default:
		return field.Unknown, errs.New(errs.UnsupportedType, "unknown simple type %q", simpleType)
	}
}

// ScalarForRange picks the smallest unsigned scalar whose range covers
// [0, maxValue] (spec.md §4.1 "Value-range → scalar").
func ScalarForRange(maxValue uint64) field.Type {
	switch {
	case maxValue <= 0xFF:
		return field.UInt8
	case maxValue <= 0xFFFF:
		return field.UInt16
	case maxValue <= 0xFFFFFFFF:
		return field.UInt32
	default:
		return field.UInt64
	}
}

// resolveView builds an ir.View for a field from its schema ViewSpec (or
// the absence of one, which is Transmute per spec.md §4.1).
func resolveView(scalar field.Type, bits int, v *schema.ViewSpec, enums EnumLookup) (ir.View, error) {
	if v == nil {
		return ir.View{Kind: ir.ViewTransmute}, nil
	}
	switch v.Type {
	case "enum":
		if !field.IsUnsigned(scalar) {
			return ir.View{}, errs.New(errs.UnsupportedViewType, "enum view only applies to unsigned scalars, got %s", scalar)
		}
		e, ok := enums(v.Name)
		if !ok {
			return ir.View{}, errs.New(errs.UndefinedReference, "enum view references undefined enum %q", v.Name)
		}
		return ir.View{Kind: ir.ViewEnum, Enum: e}, nil
	case "float-range":
		if !field.IsFloat(scalar) {
			return ir.View{}, errs.New(errs.UnsupportedViewType, "float-range view only applies to float scalars, got %s", scalar)
		}
		maxUnits := float64((uint64(1) << uint(bits)) - 1)
		a := v.Max / maxUnits
		b := v.Min
		return ir.View{
			Kind: ir.ViewFloatRange,
			A:    a, B: b,
			AInv: 1 / a, BInv: -b / a,
		}, nil
	case "float-multiplier":
		if !field.IsFloat(scalar) {
			return ir.View{}, errs.New(errs.UnsupportedViewType, "float-multiplier view only applies to float scalars, got %s", scalar)
		}
		return ir.View{
			Kind: ir.ViewFloatMultiplier,
			A:    v.M, B: 0,
			AInv: 1 / v.M, BInv: 0,
		}, nil
	default:
		return ir.View{}, errs.New(errs.UnsupportedViewType, "unknown view type %q", v.Type)
	}
}

// ComputeStruct runs the layout engine over one struct definition, resolving
// any embedded "struct" fields via structs and any "enum" view via enums.
func ComputeStruct(def schema.StructDef, structs StructLookup, enums EnumLookup) (*ir.Struct, error) {
	if len(def.Fields) == 0 {
		return nil, errs.New(errs.ZeroStruct, "struct %q has no fields", def.Name)
	}

	out := &ir.Struct{Name: def.Name}
	var nextBit int

	for _, f := range def.Fields {
		if f.Info.Type == "struct" {
			child, ok := structs(f.Info.ItemType)
			if !ok {
				return nil, errs.New(errs.UndefinedReference, "struct %q field %q references undefined struct %q", def.Name, f.Name, f.Info.ItemType)
			}
			loc := ir.Location{
				ByteOffset: nextBit / 8,
				BitOffset:  nextBit % 8,
				BitSize:    child.BitSize,
				ByteSize:   child.ByteSize,
			}
			out.Fields = append(out.Fields, ir.StructSlot{
				Kind:   ir.KindStruct,
				Struct: &ir.StructField{Name: f.Name, Target: child, Location: loc},
			})
			nextBit += child.BitSize
			continue
		}

		scalar, err := ScalarFor(f.Info.Type, f.Info.Bits)
		if err != nil {
			return nil, err
		}
		bitWidth := f.Info.Bits
		if scalar == field.Bool {
			bitWidth = 8
		} else if field.IsFloat(scalar) {
			if scalar == field.Float32 {
				bitWidth = 32
			} else {
				bitWidth = 64
			}
		}

		// resolveView's float-range scaling must use the declared bit
		// size (f.Info.Bits), not bitWidth (rounded up to the storage
		// scalar's natural width) — spec.md §8 S6 and
		// original_source/compiler/src/compiler/structure.rs:185 both
		// scale against the declared width.
		view, err := resolveView(scalar, f.Info.Bits, f.View, enums)
		if err != nil {
			return nil, err
		}

		if f.ArrayLen > 0 {
			if f.ArrayLen < 1 {
				return nil, errs.New(errs.ZeroArray, "struct %q field %q declares an array of length 0", def.Name, f.Name)
			}
			if bitWidth%8 != 0 {
				return nil, errs.New(errs.UnalignedArrayCodec, "struct %q field %q: array element bit size %d is not a multiple of 8", def.Name, f.Name, bitWidth)
			}
			if nextBit%8 != 0 {
				return nil, errs.New(errs.UnalignedArrayCodec, "struct %q field %q: array does not start at a byte boundary", def.Name, f.Name)
			}
			span := bitWidth * f.ArrayLen
			loc := ir.Location{
				ByteOffset: nextBit / 8,
				BitOffset:  0,
				BitSize:    bitWidth,
				ByteSize:   field.ByteSize(scalar),
			}
			out.Fields = append(out.Fields, ir.StructSlot{
				Kind: ir.KindArray,
				Array: &ir.ArrayField{
					Name: f.Name, ElemType: scalar, N: f.ArrayLen,
					Location: loc, View: view,
				},
			})
			nextBit += span
			continue
		}

		loc := ir.Location{
			ByteOffset: nextBit / 8,
			BitOffset:  nextBit % 8,
			BitSize:    bitWidth,
			ByteSize:   (nextBit%8 + bitWidth + 7) / 8,
		}
		out.Fields = append(out.Fields, ir.StructSlot{
			Kind:  ir.KindFixed,
			Fixed: &ir.Fixed{Name: f.Name, Type: scalar, Location: loc, View: view},
		})
		nextBit += bitWidth
	}

	out.BitSize = nextBit
	out.ByteSize = (nextBit + 7) / 8
	return out, nil
}

// ComputeEnum builds an ir.Enum from a schema.EnumDef: sorted variants,
// largest value, and the smallest unsigned repr type that fits it
// (spec.md §3, test scenario S3).
func ComputeEnum(def schema.EnumDef) (*ir.Enum, error) {
	if len(def.Variants) == 0 {
		return nil, errs.New(errs.ZeroEnum, "enum %q has no variants", def.Name)
	}
	sorted := def.SortedVariants()
	largest := sorted[len(sorted)-1].Value

	out := &ir.Enum{Name: def.Name, Largest: largest}
	out.ReprType = ScalarForRange(uint64(largest))
	for _, v := range sorted {
		out.Variants = append(out.Variants, ir.EnumVariant{Name: v.Name, Value: v.Value})
	}
	return out, nil
}
