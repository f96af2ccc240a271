package union

import (
	"testing"

	"github.com/bearlytools/wiregen/internal/field"
	"github.com/bearlytools/wiregen/internal/ir"
	"github.com/bearlytools/wiregen/internal/layout"
	"github.com/bearlytools/wiregen/internal/schema"
)

func mustStruct(t *testing.T, def schema.StructDef, structs layout.StructLookup, enums layout.EnumLookup) *ir.Struct {
	t.Helper()
	s, err := layout.ComputeStruct(def, structs, enums)
	if err != nil {
		t.Fatalf("ComputeStruct(%s): %s", def.Name, err)
	}
	return s
}

// TestResolveNestedStruct grounds scenario S5: a discriminant path that
// walks through an intermediate KindStruct slot before reaching a KindFixed
// leaf.
func TestResolveNestedStruct(t *testing.T) {
	noStructs := func(string) (*ir.Struct, bool) { return nil, false }
	noEnums := func(string) (*ir.Enum, bool) { return nil, false }

	kind := mustStruct(t, schema.StructDef{
		Name:   "Kind",
		Fields: []schema.StructFieldDef{{Name: "tag", Info: schema.FieldInfo{Type: "unsigned", Bits: 8}}},
	}, noStructs, noEnums)

	structs := func(name string) (*ir.Struct, bool) {
		if name == "Kind" {
			return kind, true
		}
		return nil, false
	}

	header := mustStruct(t, schema.StructDef{
		Name: "Header",
		Fields: []schema.StructFieldDef{
			{Name: "sub", Info: schema.FieldInfo{Type: "struct", ItemType: "Kind"}},
		},
	}, structs, noEnums)

	proto := ir.NewProtocol("p", ir.LittleEndian)
	proto.AddStruct(kind)
	proto.AddStruct(header)

	disc, err := Resolve("Header.sub.tag", proto)
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	if disc.Root != header {
		t.Fatal("Root != Header")
	}
	if disc.LeafField.Name != "tag" {
		t.Fatalf("LeafField = %q, want tag", disc.LeafField.Name)
	}
	if len(disc.IndexPath) != 2 {
		t.Fatalf("IndexPath = %v, want length 2", disc.IndexPath)
	}
}

func TestResolveRejectsArrayInPath(t *testing.T) {
	noStructs := func(string) (*ir.Struct, bool) { return nil, false }
	noEnums := func(string) (*ir.Enum, bool) { return nil, false }

	header := mustStruct(t, schema.StructDef{
		Name: "Header",
		Fields: []schema.StructFieldDef{
			{Name: "tags", Info: schema.FieldInfo{Type: "unsigned", Bits: 8}, ArrayLen: 4},
		},
	}, noStructs, noEnums)

	proto := ir.NewProtocol("p", ir.LittleEndian)
	proto.AddStruct(header)

	if _, err := Resolve("Header.tags", proto); err == nil {
		t.Fatal("Resolve(array leaf) = nil error, want InvalidUnionDiscriminant")
	}
}

func TestResolveRejectsFloatLeaf(t *testing.T) {
	noStructs := func(string) (*ir.Struct, bool) { return nil, false }
	noEnums := func(string) (*ir.Enum, bool) { return nil, false }

	header := mustStruct(t, schema.StructDef{
		Name: "Header",
		Fields: []schema.StructFieldDef{
			{Name: "ratio", Info: schema.FieldInfo{Type: "float", Bits: 32}},
		},
	}, noStructs, noEnums)

	proto := ir.NewProtocol("p", ir.LittleEndian)
	proto.AddStruct(header)

	_, err := Resolve("Header.ratio", proto)
	if err == nil {
		t.Fatal("Resolve(float leaf) = nil error, want FloatInUnionDiscriminant")
	}
	if !field.IsFloat(field.Float32) {
		t.Fatal("sanity: Float32 must report IsFloat")
	}
}

func TestParseCaseEnumAndInteger(t *testing.T) {
	enum := &ir.Enum{Name: "Kind", Variants: []ir.EnumVariant{{Name: "A", Value: 0}, {Name: "B", Value: 1}}}
	leaf := &ir.Fixed{Name: "tag", Type: field.UInt8, View: ir.View{Kind: ir.ViewEnum, Enum: enum}}
	disc := &ir.DiscriminantPath{LeafField: leaf}

	v, err := ParseCase(disc, "B")
	if err != nil {
		t.Fatalf("ParseCase(B): %s", err)
	}
	if v != 1 {
		t.Fatalf("ParseCase(B) = %d, want 1", v)
	}

	if _, err := ParseCase(disc, "Nonexistent"); err == nil {
		t.Fatal("ParseCase(Nonexistent) = nil error, want InvalidUnionCase")
	}

	intLeaf := &ir.Fixed{Name: "tag", Type: field.Int32, View: ir.View{Kind: ir.ViewTransmute}}
	intDisc := &ir.DiscriminantPath{LeafField: intLeaf}
	v, err = ParseCase(intDisc, "-5")
	if err != nil {
		t.Fatalf("ParseCase(-5): %s", err)
	}
	if v != -5 {
		t.Fatalf("ParseCase(-5) = %d, want -5", v)
	}
}

func TestBuildUnionDuplicateCaseWarns(t *testing.T) {
	noStructs := func(string) (*ir.Struct, bool) { return nil, false }
	noEnums := func(string) (*ir.Enum, bool) { return nil, false }

	header := mustStruct(t, schema.StructDef{
		Name:   "Header",
		Fields: []schema.StructFieldDef{{Name: "tag", Info: schema.FieldInfo{Type: "unsigned", Bits: 8}}},
	}, noStructs, noEnums)

	proto := ir.NewProtocol("p", ir.LittleEndian)
	proto.AddStruct(header)

	def := schema.UnionDef{
		Name:         "Body",
		Discriminant: "Header.tag",
		Cases: []schema.UnionCaseDef{
			{Name: "First", Case: "1"},
			{Name: "Second", Case: "1"},
		},
	}

	u, err := BuildUnion(def, proto)
	if err != nil {
		t.Fatalf("BuildUnion: %s", err)
	}
	if len(u.Cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(u.Cases))
	}
	if len(proto.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one duplicate-case warning", proto.Warnings)
	}
}
