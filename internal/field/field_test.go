package field

import "testing"

func TestTypeString(t *testing.T) {
	cases := []struct {
		in   Type
		want string
	}{
		{UInt8, "uint8"},
		{Int64, "int64"},
		{StringNullTerm, "string(null-term)"},
		{StringLenPrefixed, "string(len-prefixed)"},
		{Union, "union"},
		{Type(255), "unknown"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Fatalf("%d.String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsInteger(t *testing.T) {
	for _, i := range []Type{Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64} {
		if !IsInteger(i) {
			t.Fatalf("IsInteger(%s) = false, want true", i)
		}
	}
	for _, nonInt := range []Type{Bool, Float32, Struct, Payload} {
		if IsInteger(nonInt) {
			t.Fatalf("IsInteger(%s) = true, want false", nonInt)
		}
	}
}

func TestIsUnsigned(t *testing.T) {
	if !IsUnsigned(UInt32) {
		t.Fatal("IsUnsigned(UInt32) = false, want true")
	}
	if IsUnsigned(Int32) {
		t.Fatal("IsUnsigned(Int32) = true, want false")
	}
}

func TestIsFloat(t *testing.T) {
	if !IsFloat(Float32) || !IsFloat(Float64) {
		t.Fatal("IsFloat(Float32/Float64) = false, want true")
	}
	if IsFloat(UInt32) {
		t.Fatal("IsFloat(UInt32) = true, want false")
	}
}

func TestByteSize(t *testing.T) {
	cases := []struct {
		in   Type
		want int
	}{
		{Bool, 1}, {UInt8, 1}, {UInt16, 2}, {UInt32, 4}, {Float32, 4}, {Int64, 8}, {Float64, 8},
	}
	for _, c := range cases {
		if got := ByteSize(c.in); got != c.want {
			t.Fatalf("ByteSize(%s) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestByteSizePanicsOnNonScalar(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("ByteSize(Struct) did not panic")
		}
	}()
	ByteSize(Struct)
}
