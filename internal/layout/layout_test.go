package layout

import (
	"testing"

	"github.com/bearlytools/wiregen/internal/field"
	"github.com/bearlytools/wiregen/internal/ir"
	"github.com/bearlytools/wiregen/internal/schema"
)

func TestScalarForBoundaries(t *testing.T) {
	cases := []struct {
		simple string
		bits   int
		want   field.Type
	}{
		{"unsigned", 1, field.UInt8},
		{"unsigned", 8, field.UInt8},
		{"unsigned", 9, field.UInt16},
		{"unsigned", 16, field.UInt16},
		{"unsigned", 17, field.UInt32},
		{"unsigned", 32, field.UInt32},
		{"unsigned", 33, field.UInt64},
		{"unsigned", 64, field.UInt64},
		{"signed", 8, field.Int8},
		{"signed", 16, field.Int16},
		{"boolean", 0, field.Bool},
		{"float", 32, field.Float32},
		{"float", 64, field.Float64},
	}
	for _, c := range cases {
		got, err := ScalarFor(c.simple, c.bits)
		if err != nil {
			t.Fatalf("ScalarFor(%q, %d): %s", c.simple, c.bits, err)
		}
		if got != c.want {
			t.Fatalf("ScalarFor(%q, %d) = %s, want %s", c.simple, c.bits, got, c.want)
		}
	}
}

func TestScalarForRejectsOversizeBits(t *testing.T) {
	if _, err := ScalarFor("unsigned", 65); err == nil {
		t.Fatal("ScalarFor(unsigned, 65) = nil error, want UnsupportedBitSize")
	}
}

func TestScalarForRange(t *testing.T) {
	cases := []struct {
		max  uint64
		want field.Type
	}{
		{0, field.UInt8},
		{0xFF, field.UInt8},
		{0x100, field.UInt16},
		{0xFFFF, field.UInt16},
		{0x10000, field.UInt32},
		{0xFFFFFFFF, field.UInt32},
		{0x100000000, field.UInt64},
	}
	for _, c := range cases {
		if got := ScalarForRange(c.max); got != c.want {
			t.Fatalf("ScalarForRange(%d) = %s, want %s", c.max, got, c.want)
		}
	}
}

func noStructs(string) (*ir.Struct, bool) { return nil, false }
func noEnums(string) (*ir.Enum, bool)     { return nil, false }

func TestComputeStructRejectsZeroFields(t *testing.T) {
	_, err := ComputeStruct(schema.StructDef{Name: "Empty"}, noStructs, noEnums)
	if err == nil {
		t.Fatal("ComputeStruct(empty) = nil error, want ZeroStruct")
	}
}

func TestComputeStructLayout(t *testing.T) {
	def := schema.StructDef{
		Name: "Header",
		Fields: []schema.StructFieldDef{
			{Name: "kind", Info: schema.FieldInfo{Type: "unsigned", Bits: 3}},
			{Name: "flag", Info: schema.FieldInfo{Type: "boolean"}},
			{Name: "count", Info: schema.FieldInfo{Type: "unsigned", Bits: 8}},
		},
	}
	s, err := ComputeStruct(def, noStructs, noEnums)
	if err != nil {
		t.Fatalf("ComputeStruct: %s", err)
	}
	if len(s.Fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(s.Fields))
	}

	kind := s.Fields[0].Fixed
	if kind.Location.ByteOffset != 0 || kind.Location.BitOffset != 0 || kind.Location.BitSize != 3 {
		t.Fatalf("kind location = %+v, want offset 0/0 size 3", kind.Location)
	}

	flag := s.Fields[1].Fixed
	if flag.Location.ByteOffset != 0 || flag.Location.BitOffset != 3 || flag.Location.BitSize != 8 {
		t.Fatalf("flag location = %+v, want offset 0/3 size 8", flag.Location)
	}

	count := s.Fields[2].Fixed
	if count.Location.ByteOffset != 1 || count.Location.BitOffset != 3 || count.Location.BitSize != 8 {
		t.Fatalf("count location = %+v, want offset 1/3 size 8", count.Location)
	}

	if s.BitSize != 19 {
		t.Fatalf("BitSize = %d, want 19", s.BitSize)
	}
	if s.ByteSize != 3 {
		t.Fatalf("ByteSize = %d, want 3", s.ByteSize)
	}
}

func TestComputeStructRejectsUnalignedArray(t *testing.T) {
	def := schema.StructDef{
		Name: "Bad",
		Fields: []schema.StructFieldDef{
			{Name: "a", Info: schema.FieldInfo{Type: "unsigned", Bits: 3}},
			{Name: "b", Info: schema.FieldInfo{Type: "unsigned", Bits: 8}, ArrayLen: 4},
		},
	}
	if _, err := ComputeStruct(def, noStructs, noEnums); err == nil {
		t.Fatal("ComputeStruct(unaligned array) = nil error, want UnalignedArrayCodec")
	}
}

func TestComputeEnumReprSelection(t *testing.T) {
	def := schema.EnumDef{Name: "Maker", Variants: map[string]int{"Toyota": 0, "Ford": 1, "Tesla": 257}}
	e, err := ComputeEnum(def)
	if err != nil {
		t.Fatalf("ComputeEnum: %s", err)
	}
	if e.Largest != 257 {
		t.Fatalf("Largest = %d, want 257", e.Largest)
	}
	if e.ReprType != field.UInt16 {
		t.Fatalf("ReprType = %s, want UInt16 (257 overflows uint8)", e.ReprType)
	}
	if e.Variants[0].Name != "Toyota" || e.Variants[2].Name != "Tesla" {
		t.Fatalf("Variants not sorted ascending by value: %+v", e.Variants)
	}
}

// TestComputeStructFloatRangeUsesDeclaredBits grounds scenario S6: the
// float-range view's a/b coefficients must scale against the declared bit
// size (8 here), not the storage scalar's rounded-up width (32, since the
// scalar bucket for a float under 32 bits is still Float32).
func TestComputeStructFloatRangeUsesDeclaredBits(t *testing.T) {
	def := schema.StructDef{
		Name: "Reading",
		Fields: []schema.StructFieldDef{
			{
				Name: "temp",
				Info: schema.FieldInfo{Type: "float", Bits: 8},
				View: &schema.ViewSpec{Type: "float-range", Min: 0, Max: 25.5},
			},
		},
	}
	s, err := ComputeStruct(def, noStructs, noEnums)
	if err != nil {
		t.Fatalf("ComputeStruct: %s", err)
	}
	view := s.Fields[0].Fixed.View
	if view.Kind != ir.ViewFloatRange {
		t.Fatalf("View.Kind = %v, want ViewFloatRange", view.Kind)
	}
	const tol = 1e-9
	if diff := view.A - 0.1; diff > tol || diff < -tol {
		t.Fatalf("A = %v, want 0.1", view.A)
	}
	if view.B != 0 {
		t.Fatalf("B = %v, want 0", view.B)
	}
	if diff := view.AInv - 10.0; diff > tol || diff < -tol {
		t.Fatalf("AInv = %v, want 10.0", view.AInv)
	}
	if view.BInv != 0 {
		t.Fatalf("BInv = %v, want 0", view.BInv)
	}

	got := float64(127)*view.A + view.B
	if got < 12.65 || got > 12.75 {
		t.Fatalf("decoded value for raw=127 = %v, want 12.7 ± 0.05", got)
	}
}

func TestComputeEnumRejectsEmpty(t *testing.T) {
	if _, err := ComputeEnum(schema.EnumDef{Name: "Empty"}); err == nil {
		t.Fatal("ComputeEnum(empty) = nil error, want ZeroEnum")
	}
}
