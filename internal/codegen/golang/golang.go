// Package golang implements internal/codegen.Utilities for Go: the naming,
// spelling, and per-entity source emission conventions of the "go" code
// generation target.
//
// Grounded on internal/render/golang/golang.go's embed+init()
// self-registration idiom (//go:embed templates/*, a package-level
// singleton parsed once) — reused here with internal/tmplengine's fragment
// engine standing in for the teacher's text/template. The per-field
// encoder dispatch shape (a switch over a classified field kind choosing
// how to read/write it) is grounded on languages/go/codec/encoders.go's
// encoderForType-style table.
package golang

import (
	"bytes"
	"embed"
	"fmt"
	"strings"

	"github.com/bearlytools/wiregen/internal/codegen"
	"github.com/bearlytools/wiregen/internal/field"
	"github.com/bearlytools/wiregen/internal/ir"
	"github.com/bearlytools/wiregen/internal/tmplengine"
)

//go:embed templates/*
var templatesFS embed.FS

var tmpl *tmplengine.Template

func init() {
	b, err := templatesFS.ReadFile("templates/golang.tmpl")
	if err != nil {
		panic(err)
	}
	t, err := tmplengine.Parse(string(b))
	if err != nil {
		panic(err)
	}
	tmpl = t
}

// Utilities implements codegen.Utilities for Go.
type Utilities struct {
	// Package is the Go package name generated files declare themselves
	// under.
	Package string
}

func (Utilities) Lang() string { return "go" }

func (Utilities) FileName(protocol string, ft codegen.FileType, entity string) string {
	base := strings.ToLower(protocol)
	if entity != "" {
		base += "_" + strings.ToLower(entity)
	}
	switch ft {
	case codegen.FileMessageReading:
		base += "_read"
	case codegen.FileMessageWriting:
		base += "_write"
	case codegen.FileUmbrella:
		base += "_umbrella"
	}
	return base + ".go"
}

func exportName(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func goScalarType(t field.Type) string {
	switch t {
	case field.Bool:
		return "bool"
	case field.Int8:
		return "int8"
	case field.Int16:
		return "int16"
	case field.Int32:
		return "int32"
	case field.Int64:
		return "int64"
	case field.UInt8:
		return "uint8"
	case field.UInt16:
		return "uint16"
	case field.UInt32:
		return "uint32"
	case field.UInt64:
		return "uint64"
	case field.Float32:
		return "float32"
	case field.Float64:
		return "float64"
	}
	return "uint64"
}

// refName spells the Go identifier for a struct declared either in proto
// itself or imported into it, using proto.TypePathMap for the latter
// (spec.md §4.2).
func refName(proto *ir.Protocol, target *ir.Struct) string {
	if target.Owner == proto {
		return exportName(target.Name)
	}
	if qualified, ok := proto.TypePathMap[target]; ok {
		parts := strings.SplitN(qualified, ".", 2)
		if len(parts) == 2 {
			return exportName(parts[0]) + "." + exportName(parts[1])
		}
		return exportName(qualified)
	}
	return exportName(target.Name)
}

// messageRefName spells the Go identifier for a message declared either in
// proto itself or imported into it, mirroring refName's logic for structs.
func messageRefName(proto *ir.Protocol, target *ir.Message) string {
	if target.Owner == proto {
		return exportName(target.Name)
	}
	if qualified, ok := proto.TypePathMap[target]; ok {
		parts := strings.SplitN(qualified, ".", 2)
		if len(parts) == 2 {
			return exportName(parts[0]) + "." + exportName(parts[1])
		}
		return exportName(qualified)
	}
	return exportName(target.Name)
}

// messageReadFunc spells the qualified Read{TypeName} call for target,
// inserting the package qualifier (if any) before "Read" rather than before
// the type name.
func messageReadFunc(proto *ir.Protocol, target *ir.Message) string {
	name := messageRefName(proto, target)
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[:idx+1] + "Read" + name[idx+1:]
	}
	return "Read" + name
}

// fieldIndexByName finds a message field's position by its declared name,
// used to locate a union arm's "on" struct-ref field.
func fieldIndexByName(fields []ir.MessageField, name string) int {
	for i := range fields {
		if fields[i].Name == name {
			return i
		}
	}
	return -1
}

// unionDiscriminantLocation resolves a union's discriminant leaf to a byte
// offset relative to the "on" field's own byte window, by walking
// IndexPath through the discriminant root's nested structures at code
// generation time (the path is fully static, so this never needs to run in
// generated code).
func unionDiscriminantLocation(u *ir.Union) (byteOffset, bitOffset, bitSize, byteSize int) {
	cur := u.Discriminant.Root
	path := u.Discriminant.IndexPath
	off := 0
	for i, idx := range path {
		slot := cur.Fields[idx]
		if i == len(path)-1 {
			loc := slot.Fixed.Location
			return off + loc.ByteOffset, loc.BitOffset, loc.BitSize, loc.ByteSize
		}
		off += slot.Struct.Location.ByteOffset
		cur = slot.Struct.Target
	}
	return 0, 0, 0, 0
}

func render(fragment string, vars map[string]string) ([]byte, error) {
	out, err := tmpl.Render(fragment, vars, tmplengine.Builtins())
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// fixedGoType picks the Go type a Fixed field's view exposes to callers.
func fixedGoType(f *ir.Fixed, rawType string) string {
	switch f.View.Kind {
	case ir.ViewEnum:
		return exportName(f.View.Enum.Name)
	case ir.ViewSignedCast:
		return "int64"
	case ir.ViewFloatRange, ir.ViewFloatMultiplier:
		return "float64"
	}
	return rawType
}

// fixedEncodeExpr spells the expression that turns valExpr (an identifier or
// selector holding a view's Go-typed value) back into its raw storage
// scalar, per the field's view.
func fixedEncodeExpr(f *ir.Fixed, rawType, valExpr string) string {
	switch f.View.Kind {
	case ir.ViewEnum:
		return fmt.Sprintf("%s(%s)", rawType, valExpr)
	case ir.ViewSignedCast:
		return fmt.Sprintf("%s(wire.EncodeSigned(int64(%s), %d))", rawType, valExpr, f.Location.BitSize)
	case ir.ViewFloatRange, ir.ViewFloatMultiplier:
		return fmt.Sprintf("%s(wire.EncodeFloat(%s, %g, %g))", rawType, valExpr, f.View.AInv, f.View.BInv)
	default:
		return valExpr
	}
}

// fixedAccessor emits the getter/setter pair for one ir.Fixed field, reading
// and writing through viewExpr's byte window starting at byteOffsetExpr (a
// Go expression: a constant for a struct's statically-placed fields, or an
// m.offsets[i] lookup for a message's fields).
func fixedAccessor(typeName, recv, viewExpr string, f *ir.Fixed, byteOffsetExpr string) string {
	name := exportName(f.Name)
	rawType := goScalarType(f.Type)
	goType := fixedGoType(f, rawType)
	// The aligned fast path moves the whole window unmasked, so it is only
	// used when the field fills its window.
	aligned := f.Location.Aligned(f.Type) && f.Location.BitSize == 8*f.Location.ByteSize

	var readExpr string
	switch f.View.Kind {
	case ir.ViewEnum:
		readExpr = fmt.Sprintf("%s(raw)", goType)
	case ir.ViewSignedCast:
		readExpr = fmt.Sprintf("wire.DecodeSigned(uint64(raw), %d, %d)", f.View.SignedCastMaxPositive, f.Location.BitSize)
	case ir.ViewFloatRange, ir.ViewFloatMultiplier:
		readExpr = fmt.Sprintf("wire.DecodeFloat(uint64(raw), %g, %g)", f.View.A, f.View.B)
	default:
		readExpr = "raw"
	}

	var b strings.Builder
	readCall := fmt.Sprintf("wire.ReadAligned[%s](%s, %s)", rawType, viewExpr, byteOffsetExpr)
	writeCall := fmt.Sprintf("wire.WriteAligned[%s](%s, %s, raw)", rawType, viewExpr, byteOffsetExpr)
	if !aligned {
		readCall = fmt.Sprintf("wire.ReadUnaligned[%s](%s, %s, %d, %d, %d)", rawType, viewExpr, byteOffsetExpr, f.Location.ByteSize, f.Location.BitOffset, f.Location.BitSize)
		writeCall = fmt.Sprintf("wire.WriteUnaligned[%s](%s, %s, %d, %d, %d, raw)", rawType, viewExpr, byteOffsetExpr, f.Location.ByteSize, f.Location.BitOffset, f.Location.BitSize)
	}

	fmt.Fprintf(&b, "func (%s %s) %s() %s {\n\traw := %s\n\treturn %s\n}\n\n", recv, typeName, name, goType, readCall, readExpr)
	fmt.Fprintf(&b, "func (%s %s) Set%s(val %s) {\n\traw := %s\n\t%s\n}\n", recv, typeName, name, goType, fixedEncodeExpr(f, rawType, "val"), writeCall)

	return b.String()
}

func arrayAccessor(typeName string, a *ir.ArrayField) string {
	name := exportName(a.Name)
	rawType := goScalarType(a.ElemType)
	elemSize := field.ByteSize(a.ElemType)
	return fmt.Sprintf(
		"func (s %s) %s() wire.FixedArray[%s] {\n\treturn wire.NewFixedArray[%s](s.v.Bytes()[%d:%d], s.v.Order, %d)\n}\n",
		typeName, name, rawType, rawType, a.Location.ByteOffset, a.Location.ByteOffset+elemSize*a.N, a.N,
	)
}

func structFieldAccessor(proto *ir.Protocol, typeName string, sf *ir.StructField) string {
	target := refName(proto, sf.Target)
	return fmt.Sprintf(
		"func (s %s) %s() %s {\n\treturn New%s(s.v.Bytes()[%d:%d], s.v.Order)\n}\n",
		typeName, exportName(sf.Name), target, target, sf.Location.ByteOffset, sf.Location.ByteOffset+sf.Location.ByteSize,
	)
}

// RenderStructure implements codegen.Utilities.
func (u Utilities) RenderStructure(proto *ir.Protocol, s *ir.Struct) ([]byte, error) {
	typeName := exportName(s.Name)
	var accessors strings.Builder
	for _, slot := range s.Fields {
		switch slot.Kind {
		case ir.KindFixed:
			byteOffsetExpr := fmt.Sprintf("%d", slot.Fixed.Location.ByteOffset)
			accessors.WriteString(fixedAccessor(typeName, "s", "s.v", slot.Fixed, byteOffsetExpr))
			accessors.WriteString("\n")
		case ir.KindArray:
			accessors.WriteString(arrayAccessor(typeName, slot.Array))
			accessors.WriteString("\n")
		case ir.KindStruct:
			accessors.WriteString(structFieldAccessor(proto, typeName, slot.Struct))
			accessors.WriteString("\n")
		}
	}

	return render("Structure", map[string]string{
		"TypeName": typeName,
		"Protocol": proto.Name,
		"ByteSize": fmt.Sprintf("%d", s.ByteSize),
		"Accessors": accessors.String(),
	})
}

// RenderEnum implements codegen.Utilities.
func (u Utilities) RenderEnum(proto *ir.Protocol, e *ir.Enum) ([]byte, error) {
	typeName := exportName(e.Name)
	var consts, cases strings.Builder
	for _, v := range e.Variants {
		fmt.Fprintf(&consts, "\t%s%s %s = %d\n", typeName, exportName(v.Name), typeName, v.Value)
		fmt.Fprintf(&cases, "\tcase %s%s:\n\t\treturn %q\n", typeName, exportName(v.Name), v.Name)
	}

	return render("Enum", map[string]string{
		"TypeName":    typeName,
		"Protocol":    proto.Name,
		"ReprType":    goScalarType(e.ReprType),
		"Variants":    consts.String(),
		"StringCases": cases.String(),
	})
}

// RenderUnion implements codegen.Utilities.
func (u Utilities) RenderUnion(proto *ir.Protocol, un *ir.Union) ([]byte, error) {
	typeName := exportName(un.Name)
	var cases strings.Builder
	for _, c := range un.Cases {
		fmt.Fprintf(&cases, "\t%s%s %s = %d\n", typeName, exportName(c.Name), typeName, c.DiscriminantVal)
	}

	return render("Union", map[string]string{
		"TypeName":        typeName,
		"Protocol":        proto.Name,
		"DiscriminantRaw": un.Discriminant.Raw,
		"Cases":           cases.String(),
	})
}

// messageFieldAccessor emits the getter(s) for one classified message
// field, reading through m.offsets[idx] (and, for a slice-shaped field,
// m.offsets[idx+1] as the end of its byte window — offsets has one more
// entry than Fields precisely so every field's span is a uniform
// offsets[i]:offsets[i+1] slice, with no separate bookkeeping needed for
// variable-width fields).
func messageFieldAccessor(proto *ir.Protocol, typeName string, idx int, mf *ir.MessageField, fields []ir.MessageField) string {
	name := exportName(mf.Name)
	offExpr := fmt.Sprintf("m.offsets[%d]", idx)
	endExpr := fmt.Sprintf("m.offsets[%d]", idx+1)

	switch mf.Kind {
	case ir.MFFixed:
		return fixedAccessor(typeName, "m", "wire.NewView(m.b, m.order)", mf.Fixed, offExpr)

	case ir.MFStructRef:
		target := refName(proto, mf.StructRef)
		return fmt.Sprintf("func (m %s) %s() %s {\n\treturn New%s(m.b[%s:%s], m.order)\n}\n",
			typeName, name, target, target, offExpr, endExpr)

	case ir.MFMessageRef:
		target := messageRefName(proto, mf.MessageRef)
		readFn := messageReadFunc(proto, mf.MessageRef)
		return fmt.Sprintf("func (m %s) %s() (%s, error) {\n\tdata, _ := wire.ReadLenPrefixedBytes(m.b, %s, m.order)\n\treturn %s(data, m.order)\n}\n",
			typeName, name, target, offExpr, readFn)

	case ir.MFStringNullTerm:
		return fmt.Sprintf("func (m %s) %s() string {\n\tv, _ := wire.ReadNullTermString(m.b, %s)\n\treturn v\n}\n",
			typeName, name, offExpr)

	case ir.MFStringLenPrefixed:
		prefixBytes := field.ByteSize(mf.LenPrefixType)
		return fmt.Sprintf("func (m %s) %s() string {\n\tv, _ := wire.ReadLenPrefixedString(m.b, %s, m.order, %d)\n\treturn v\n}\n",
			typeName, name, offExpr, prefixBytes)

	case ir.MFFixedArray:
		target := refName(proto, mf.StructRef)
		elemSize := mf.StructRef.ByteSize
		return fmt.Sprintf(
			"func (m %s) %s() []%s {\n\toff := %s\n\tout := make([]%s, %d)\n\tfor i := 0; i < %d; i++ {\n\t\tout[i] = New%s(m.b[off+i*%d:off+(i+1)*%d], m.order)\n\t}\n\treturn out\n}\n",
			typeName, name, target, offExpr, target, mf.MaxLen, mf.MaxLen, target, elemSize, elemSize,
		)

	case ir.MFPayloadList:
		elemReadFn := messageReadFunc(proto, mf.MessageRef)
		elemTarget := messageRefName(proto, mf.MessageRef)
		var b strings.Builder
		fmt.Fprintf(&b, "func (m %s) %s() wire.PayloadList {\n\tdata, _ := wire.ReadLenPrefixedBytes(m.b, %s, m.order)\n\treturn wire.NewPayloadList(data, m.order)\n}\n\n",
			typeName, name, offExpr)
		fmt.Fprintf(&b, "func (m %s) %sAt(i int) (%s, error) {\n\treturn %s(m.%s().At(i), m.order)\n}\n",
			typeName, name, elemTarget, elemReadFn, name)
		return b.String()

	case ir.MFUnionArm:
		unionType := exportName(mf.Union.Name)
		onIdx := fieldIndexByName(fields, mf.OnFieldName)
		discByteOffset, discBitOffset, discBitSize, discByteSize := unionDiscriminantLocation(mf.Union)
		var b strings.Builder
		fmt.Fprintf(&b, "func (m %s) %sCase() %s {\n\toff := m.offsets[%d] + %d\n\traw := wire.ReadUnaligned[uint64](wire.NewView(m.b, m.order), off, %d, %d, %d)\n\treturn %s(raw)\n}\n\n",
			typeName, name, unionType, onIdx, discByteOffset, discByteSize, discBitOffset, discBitSize, unionType)
		fmt.Fprintf(&b, "func (m %s) %s() []byte {\n\treturn m.b[%s:%s]\n}\n", typeName, name, offExpr, endExpr)
		return b.String()

	case ir.MFPayload:
		return fmt.Sprintf("func (m %s) %s() []byte {\n\treturn m.b[%s:%s]\n}\n", typeName, name, offExpr, endExpr)
	}
	return ""
}

// messageFieldReadStmt emits the statement(s) that advance Read{TypeName}'s
// running cursor past one field, recording its start in m.offsets.
func messageFieldReadStmt(idx int, mf *ir.MessageField, fields []ir.MessageField) string {
	var b strings.Builder
	record := func(consumedExpr string) {
		fmt.Fprintf(&b, "\tm.offsets[%d] = off\n\toff += %s\n", idx, consumedExpr)
	}

	switch mf.Kind {
	case ir.MFFixed:
		record(fmt.Sprintf("%d", mf.Fixed.Location.ByteSize))

	case ir.MFStructRef:
		record(fmt.Sprintf("%d", mf.StructRef.ByteSize))

	case ir.MFMessageRef:
		fmt.Fprintf(&b, "\tn%d := int(wire.ReadAligned[uint32](wire.NewView(m.b, m.order), off))\n", idx)
		record(fmt.Sprintf("4 + n%d", idx))

	case ir.MFStringNullTerm:
		fmt.Fprintf(&b, "\t_, n%d := wire.ReadNullTermString(m.b, off)\n", idx)
		record(fmt.Sprintf("n%d", idx))

	case ir.MFStringLenPrefixed:
		prefixBytes := field.ByteSize(mf.LenPrefixType)
		fmt.Fprintf(&b, "\t_, n%d := wire.ReadLenPrefixedString(m.b, off, m.order, %d)\n", idx, prefixBytes)
		record(fmt.Sprintf("n%d", idx))

	case ir.MFFixedArray:
		record(fmt.Sprintf("%d", mf.MaxLen*mf.StructRef.ByteSize))

	case ir.MFPayloadList:
		fmt.Fprintf(&b, "\tn%d := int(wire.ReadAligned[uint32](wire.NewView(m.b, m.order), off))\n", idx)
		record(fmt.Sprintf("4 + n%d", idx))

	case ir.MFUnionArm:
		onIdx := fieldIndexByName(fields, mf.OnFieldName)
		discByteOffset, discBitOffset, discBitSize, discByteSize := unionDiscriminantLocation(mf.Union)
		fmt.Fprintf(&b, "\tdiscOff%d := m.offsets[%d] + %d\n", idx, onIdx, discByteOffset)
		fmt.Fprintf(&b, "\traw%d := wire.ReadUnaligned[uint64](wire.NewView(m.b, m.order), discOff%d, %d, %d, %d)\n",
			idx, idx, discByteSize, discBitOffset, discBitSize)
		fmt.Fprintf(&b, "\tvar n%d int\n\tswitch raw%d {\n", idx, idx)
		for _, c := range mf.Union.Cases {
			switch {
			case c.ItemStruct != nil:
				fmt.Fprintf(&b, "\tcase %d:\n\t\tn%d = %d\n", c.DiscriminantVal, idx, c.ItemStruct.ByteSize)
			case c.ItemMessage != nil:
				fmt.Fprintf(&b, "\tcase %d:\n\t\tn%d = 4 + int(wire.ReadAligned[uint32](wire.NewView(m.b, m.order), off))\n", c.DiscriminantVal, idx)
			default:
				fmt.Fprintf(&b, "\tcase %d:\n\t\tn%d = 0\n", c.DiscriminantVal, idx)
			}
		}
		fmt.Fprintf(&b, "\t}\n")
		record(fmt.Sprintf("n%d", idx))

	case ir.MFPayload:
		fmt.Fprintf(&b, "\tm.offsets[%d] = off\n\toff = len(m.b)\n", idx)
	}

	return b.String()
}

// messageFieldBuilderField emits the {TypeName}Builder struct field for mf.
// Every non-fixed kind is carried as raw pre-encoded bytes (or a string):
// the builder is a thin sequential encoder, not a typed tree-construction
// API, so a nested struct/message/list is built through its own
// New.../Builder and handed here already encoded.
func messageFieldBuilderField(mf *ir.MessageField) string {
	name := exportName(mf.Name)
	switch mf.Kind {
	case ir.MFFixed:
		rawType := goScalarType(mf.Fixed.Type)
		return fmt.Sprintf("\t%s %s\n", name, fixedGoType(mf.Fixed, rawType))
	case ir.MFStringNullTerm, ir.MFStringLenPrefixed:
		return fmt.Sprintf("\t%s string\n", name)
	case ir.MFFixedArray:
		return fmt.Sprintf("\t%s [][]byte\n", name)
	default:
		return fmt.Sprintf("\t%s []byte\n", name)
	}
}

// messageFieldWriteStmt emits the statement(s) that encode one builder
// field into buf, validating the shape the read side assumes (fixed
// element/array widths, max string length) before committing any bytes.
func messageFieldWriteStmt(idx int, mf *ir.MessageField) string {
	name := exportName(mf.Name)
	var b strings.Builder

	switch mf.Kind {
	case ir.MFFixed:
		rawType := goScalarType(mf.Fixed.Type)
		size := mf.Fixed.Location.ByteSize
		raw := fixedEncodeExpr(mf.Fixed, rawType, "b."+name)
		fmt.Fprintf(&b, "\traw%d := %s\n\ttmp%d := make([]byte, %d)\n", idx, raw, idx, size)
		if mf.Fixed.Location.Aligned(mf.Fixed.Type) && mf.Fixed.Location.BitSize == 8*size {
			fmt.Fprintf(&b, "\twire.WriteAligned[%s](wire.NewView(tmp%d, order), 0, raw%d)\n", rawType, idx, idx)
		} else {
			fmt.Fprintf(&b, "\twire.WriteUnaligned[%s](wire.NewView(tmp%d, order), 0, %d, %d, %d, raw%d)\n",
				rawType, idx, size, mf.Fixed.Location.BitOffset, mf.Fixed.Location.BitSize, idx)
		}
		fmt.Fprintf(&b, "\tbuf.Write(tmp%d)\n", idx)

	case ir.MFStructRef:
		fmt.Fprintf(&b, "\tif len(b.%s) != %d {\n\t\treturn 0, fmt.Errorf(\"%s: expected %d bytes, got %%d\", len(b.%s))\n\t}\n\tbuf.Write(b.%s)\n",
			name, mf.StructRef.ByteSize, name, mf.StructRef.ByteSize, name, name)

	case ir.MFMessageRef:
		fmt.Fprintf(&b, "\tlenbuf%d := make([]byte, 4)\n\twire.WriteAligned[uint32](wire.NewView(lenbuf%d, order), 0, uint32(len(b.%s)))\n\tbuf.Write(lenbuf%d)\n\tbuf.Write(b.%s)\n",
			idx, idx, name, idx, name)

	case ir.MFStringNullTerm:
		fmt.Fprintf(&b, "\tbuf.WriteString(b.%s)\n\tbuf.WriteByte(0)\n", name)

	case ir.MFStringLenPrefixed:
		lenType := goScalarType(mf.LenPrefixType)
		prefixBytes := field.ByteSize(mf.LenPrefixType)
		fmt.Fprintf(&b, "\tif len(b.%s) > %d {\n\t\treturn 0, fmt.Errorf(\"%s: value exceeds max length %d\")\n\t}\n",
			name, mf.MaxLen, name, mf.MaxLen)
		fmt.Fprintf(&b, "\tlenbuf%d := make([]byte, %d)\n\twire.WriteAligned[%s](wire.NewView(lenbuf%d, order), 0, %s(len(b.%s)))\n\tbuf.Write(lenbuf%d)\n\tbuf.WriteString(b.%s)\n",
			idx, prefixBytes, lenType, idx, lenType, name, idx, name)

	case ir.MFFixedArray:
		elemSize := mf.StructRef.ByteSize
		fmt.Fprintf(&b, "\tif len(b.%s) != %d {\n\t\treturn 0, fmt.Errorf(\"%s: expected %d elements, got %%d\", len(b.%s))\n\t}\n",
			name, mf.MaxLen, name, mf.MaxLen, name)
		fmt.Fprintf(&b, "\tfor _, elem := range b.%s {\n\t\tif len(elem) != %d {\n\t\t\treturn 0, fmt.Errorf(\"%s: element must be %d bytes\")\n\t\t}\n\t\tbuf.Write(elem)\n\t}\n",
			name, elemSize, name, elemSize)

	case ir.MFPayloadList:
		fmt.Fprintf(&b, "\tlenbuf%d := make([]byte, 4)\n\twire.WriteAligned[uint32](wire.NewView(lenbuf%d, order), 0, uint32(len(b.%s)))\n\tbuf.Write(lenbuf%d)\n\tbuf.Write(b.%s)\n",
			idx, idx, name, idx, name)

	case ir.MFUnionArm, ir.MFPayload:
		fmt.Fprintf(&b, "\tbuf.Write(b.%s)\n", name)
	}

	return b.String()
}

// RenderMessage implements codegen.Utilities.
func (u Utilities) RenderMessage(proto *ir.Protocol, m *ir.Message) (structFile, readingFile, writingFile []byte, err error) {
	typeName := exportName(m.Name)

	var accessors, readBody, builderFields, writeBody strings.Builder
	for idx := range m.Fields {
		mf := &m.Fields[idx]
		accessors.WriteString(messageFieldAccessor(proto, typeName, idx, mf, m.Fields))
		accessors.WriteString("\n")
		readBody.WriteString(messageFieldReadStmt(idx, mf, m.Fields))
		builderFields.WriteString(messageFieldBuilderField(mf))
		writeBody.WriteString(messageFieldWriteStmt(idx, mf))
	}

	structFile, err = render("Message", map[string]string{
		"TypeName":  typeName,
		"Protocol":  proto.Name,
		"Accessors": accessors.String(),
	})
	if err != nil {
		return nil, nil, nil, err
	}

	readingFile, err = render("Message.Reading", map[string]string{
		"TypeName":   typeName,
		"Protocol":   proto.Name,
		"FieldCount": fmt.Sprintf("%d", len(m.Fields)),
		"ReadBody":   readBody.String(),
	})
	if err != nil {
		return nil, nil, nil, err
	}

	writingFile, err = render("Message.Writing", map[string]string{
		"TypeName":      typeName,
		"Protocol":      proto.Name,
		"BuilderFields": builderFields.String(),
		"WriteBody":     writeBody.String(),
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return structFile, readingFile, writingFile, nil
}

// Umbrella implements codegen.Utilities.
func (u Utilities) Umbrella(proto *ir.Protocol, files []codegen.File) ([]byte, error) {
	var list strings.Builder
	for _, f := range files {
		fmt.Fprintf(&list, "//   %s (%s)\n", f.Name, f.Type)
	}

	out, err := render("Umbrella", map[string]string{
		"Protocol": proto.Name,
		"Package":  u.Package,
		"FileList": list.String(),
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimLeft(out, "\n"), nil
}
