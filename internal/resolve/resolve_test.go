package resolve

import (
	"testing"

	"github.com/bearlytools/wiregen/internal/ir"
	"github.com/bearlytools/wiregen/internal/schema"
)

func TestDefaultNamer(t *testing.T) {
	if got := DefaultNamer("manufacturers", "Manufacturer"); got != "manufacturers.Manufacturer" {
		t.Fatalf("DefaultNamer = %q, want manufacturers.Manufacturer", got)
	}
}

func TestImportsAliasesAndRecordsIdentity(t *testing.T) {
	src := ir.NewProtocol("manufacturers", ir.LittleEndian)
	e := &ir.Enum{Name: "Manufacturer", Variants: []ir.EnumVariant{{Name: "Toyota", Value: 0}}}
	src.AddEnum(e)

	store := ir.NewProtocolStore()
	store.Insert("manufacturers", src)

	dst := ir.NewProtocol("vehicles", ir.LittleEndian)
	doc := &schema.Document{
		Name:    "vehicles",
		Imports: []schema.ImportSpec{{Protocol: "manufacturers", TypeName: "Manufacturer"}},
	}

	if err := Imports(doc, store, dst, nil); err != nil {
		t.Fatalf("Imports: %s", err)
	}

	got, ok := dst.Enum("Manufacturer")
	if !ok || got != e {
		t.Fatal("Manufacturer was not aliased into vehicles' local tables as the same *ir.Enum")
	}
	if dst.TypePathMap[e] != "manufacturers.Manufacturer" {
		t.Fatalf("TypePathMap[e] = %q, want manufacturers.Manufacturer", dst.TypePathMap[e])
	}
}

func TestImportsRejectsUndefinedProtocol(t *testing.T) {
	store := ir.NewProtocolStore()
	dst := ir.NewProtocol("vehicles", ir.LittleEndian)
	doc := &schema.Document{
		Name:    "vehicles",
		Imports: []schema.ImportSpec{{Protocol: "nonexistent", TypeName: "Manufacturer"}},
	}
	if err := Imports(doc, store, dst, nil); err == nil {
		t.Fatal("Imports(unknown protocol) = nil error, want UndefinedReference")
	}
}

func TestImportsRejectsUndefinedTypeName(t *testing.T) {
	src := ir.NewProtocol("manufacturers", ir.LittleEndian)
	store := ir.NewProtocolStore()
	store.Insert("manufacturers", src)

	dst := ir.NewProtocol("vehicles", ir.LittleEndian)
	doc := &schema.Document{
		Name:    "vehicles",
		Imports: []schema.ImportSpec{{Protocol: "manufacturers", TypeName: "NoSuchType"}},
	}
	if err := Imports(doc, store, dst, nil); err == nil {
		t.Fatal("Imports(unknown type name) = nil error, want UndefinedReference")
	}
}

func TestImportsUsesCustomNamer(t *testing.T) {
	src := ir.NewProtocol("manufacturers", ir.LittleEndian)
	e := &ir.Enum{Name: "Manufacturer", Variants: []ir.EnumVariant{{Name: "Toyota", Value: 0}}}
	src.AddEnum(e)
	store := ir.NewProtocolStore()
	store.Insert("manufacturers", src)

	dst := ir.NewProtocol("vehicles", ir.LittleEndian)
	doc := &schema.Document{
		Name:    "vehicles",
		Imports: []schema.ImportSpec{{Protocol: "manufacturers", TypeName: "Manufacturer"}},
	}

	custom := func(sourceProtocol, typeName string) string { return sourceProtocol + "::" + typeName }
	if err := Imports(doc, store, dst, custom); err != nil {
		t.Fatalf("Imports: %s", err)
	}
	if dst.TypePathMap[e] != "manufacturers::Manufacturer" {
		t.Fatalf("TypePathMap[e] = %q, want manufacturers::Manufacturer", dst.TypePathMap[e])
	}
}
