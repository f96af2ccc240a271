// Package field enumerates the scalar and aggregate kinds a compiled field
// can take, the vocabulary the layout engine, classifier, and generators all
// share.
package field

// Type represents the kind of a field after classification.
type Type uint8

const (
	Unknown Type = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	// Struct is an embedded fixed-size struct reference.
	Struct
	// MessageRef is a reference to another message.
	MessageRef
	// StringNullTerm is a null-terminated string.
	StringNullTerm
	// StringLenPrefixed is a length-prefixed string.
	StringLenPrefixed
	// Array is a fixed-length run of fixed-size items.
	Array
	// List is a variable-length run of items (sized or unsized).
	List
	// Union is a union-arm field tied to a discriminant.
	Union
	// Payload is the opaque trailing payload.
	Payload
)

func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case UInt8:
		return "uint8"
	case UInt16:
		return "uint16"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Struct:
		return "struct"
	case MessageRef:
		return "message"
	case StringNullTerm:
		return "string(null-term)"
	case StringLenPrefixed:
		return "string(len-prefixed)"
	case Array:
		return "array"
	case List:
		return "list"
	case Union:
		return "union"
	case Payload:
		return "payload"
	}
	return "unknown"
}

// IsInteger reports whether t is one of the signed/unsigned integer scalars.
func IsInteger(t Type) bool {
	switch t {
	case Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64:
		return true
	}
	return false
}

// IsUnsigned reports whether t is one of the unsigned integer scalars.
func IsUnsigned(t Type) bool {
	switch t {
	case UInt8, UInt16, UInt32, UInt64:
		return true
	}
	return false
}

// IsFloat reports whether t is a floating point scalar.
func IsFloat(t Type) bool {
	return t == Float32 || t == Float64
}

// ByteSize returns the natural byte size of a raw scalar type. Panics for
// non-scalar kinds; callers must only ask this of scalar Types.
func ByteSize(t Type) int {
	switch t {
	case Bool, Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Int64, UInt64, Float64:
		return 8
	}
	panic("field: ByteSize() called on a non-scalar Type " + t.String())
}
