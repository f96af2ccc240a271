// Package binary implements the byte codec contract (spec.md §6): reading
// and writing an N-byte scalar in a declared endianness, with no shift or
// mask applied. It generalizes the teacher's little-endian-only helper to
// both byte orders, since endianness is declared per protocol.
package binary

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

// Order is the declared endianness of a protocol. Little is the default
// per spec.md §6.
type Order uint8

const (
	Little Order = iota
	Big
)

func (o Order) byteOrder() binary.ByteOrder {
	if o == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Get reads a scalar of type T out of b in the declared order. b must have
// at least sizeof(T) bytes.
func Get[T constraints.Integer](o Order, b []byte) T {
	bo := o.byteOrder()
	var r T
	switch any(r).(type) {
	case int8, uint8:
		return T(b[0])
	case int16, uint16:
		return T(bo.Uint16(b))
	case int32, uint32:
		return T(bo.Uint32(b))
	case int64, uint64:
		return T(bo.Uint64(b))
	}
	panic("binary: unsupported type in Get")
}

// Put writes v into b in the declared order. b must have at least
// sizeof(T) bytes.
func Put[T constraints.Integer](o Order, b []byte, v T) {
	bo := o.byteOrder()
	switch any(v).(type) {
	case int8, uint8:
		b[0] = byte(v)
	case int16, uint16:
		bo.PutUint16(b, uint16(v))
	case int32, uint32:
		bo.PutUint32(b, uint32(v))
	case int64, uint64:
		bo.PutUint64(b, uint64(v))
	default:
		panic("binary: unsupported type in Put")
	}
}
