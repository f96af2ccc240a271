package ir

import (
	"testing"

	"github.com/bearlytools/wiregen/internal/field"
)

func TestLocationAligned(t *testing.T) {
	cases := []struct {
		loc  Location
		t    field.Type
		want bool
	}{
		{Location{ByteOffset: 0, BitOffset: 0, ByteSize: 4}, field.UInt32, true},
		{Location{ByteOffset: 0, BitOffset: 1, ByteSize: 4}, field.UInt32, false},
		{Location{ByteOffset: 0, BitOffset: 0, ByteSize: 1}, field.UInt32, false},
	}
	for _, c := range cases {
		if got := c.loc.Aligned(c.t); got != c.want {
			t.Fatalf("Aligned(%+v, %s) = %v, want %v", c.loc, c.t, got, c.want)
		}
	}
}

func TestProtocolStoreOrdering(t *testing.T) {
	store := NewProtocolStore()
	p1 := NewProtocol("a", LittleEndian)
	p2 := NewProtocol("b", LittleEndian)
	store.Insert("a", p1)
	store.Insert("b", p2)

	if !store.Has("a") || !store.Has("b") {
		t.Fatal("Has() false for inserted protocols")
	}
	ordered := store.Ordered()
	if len(ordered) != 2 || ordered[0] != p1 || ordered[1] != p2 {
		t.Fatalf("Ordered() did not preserve insertion order: %+v", ordered)
	}
}

func TestProtocolStoreInsertTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Insert(duplicate name) did not panic")
		}
	}()
	store := NewProtocolStore()
	store.Insert("a", NewProtocol("a", LittleEndian))
	store.Insert("a", NewProtocol("a", LittleEndian))
}

func TestImportAliasAndLookup(t *testing.T) {
	src := NewProtocol("src", LittleEndian)
	s := &Struct{Name: "Thing"}
	src.AddStruct(s)

	dst := NewProtocol("dst", LittleEndian)
	dst.TypePathMap[s] = "src.Thing"
	dst.ImportAlias("Thing", s)

	got, ok := dst.Struct("Thing")
	if !ok || got != s {
		t.Fatal("ImportAlias did not make the imported struct locally visible")
	}
	if dst.TypePathMap[s] != "src.Thing" {
		t.Fatalf("TypePathMap[s] = %q, want src.Thing", dst.TypePathMap[s])
	}
}
