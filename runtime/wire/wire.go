// Package wire is the runtime companion generated code imports: zero-copy
// byte-slice accessors for the aligned/unaligned bit codec contract, the
// float/signed view transforms, and the string/list wire shapes spec.md §6
// defines. Everything here operates on plain byte slices and numeric
// primitives — never on internal/ir types — since it is linked into
// generated output, not into the compiler itself.
//
// Adapted from languages/go/types/list (typed list wrapper over a raw byte
// region) and languages/go/structs/lists.go (packed-bit list wrapper), with
// the teacher's length-prefixed tag-value framing replaced by the
// fixed-offset/bit-packed framing spec.md §6 specifies.
package wire

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/bearlytools/wiregen/internal/binary"
	"github.com/bearlytools/wiregen/internal/bits"
)

// Order re-exports internal/binary.Order so generated code only needs to
// import this package.
type Order = binary.Order

const (
	Little = binary.Little
	Big    = binary.Big
)

// View is a zero-copy wrapper over one structure's or message's backing
// bytes.
type View struct {
	b     []byte
	Order Order
}

// NewView wraps b without copying it.
func NewView(b []byte, order Order) View { return View{b: b, Order: order} }

// Bytes returns the backing slice.
func (v View) Bytes() []byte { return v.b }

func sizeOf[T constraints.Integer](v T) int {
	switch any(v).(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32:
		return 4
	case int64, uint64:
		return 8
	}
	panic("wire: unsupported scalar width")
}

// ReadAligned reads a whole scalar window directly — the fast path used
// when the field's byte window exactly matches T's natural size and starts
// at bit offset 0 (spec.md §6, ir.Location.Aligned).
func ReadAligned[T constraints.Integer](v View, byteOffset int) T {
	return binary.Get[T](v.Order, v.b[byteOffset:])
}

// WriteAligned is ReadAligned's write counterpart.
func WriteAligned[T constraints.Integer](v View, byteOffset int, val T) {
	binary.Put[T](v.Order, v.b[byteOffset:], val)
}

// ReadUnaligned reads a sub-byte bit window: it loads the smallest
// containing byte span into a 64-bit container, then masks and shifts out
// [bitOffset, bitOffset+bitSize).
func ReadUnaligned[U constraints.Unsigned](v View, byteOffset, windowBytes, bitOffset, bitSize int) U {
	var buf [8]byte
	start := 0
	if v.Order == Big {
		// A big-endian window ends with its least significant byte.
		start = 8 - windowBytes
	}
	copy(buf[start:], v.b[byteOffset:byteOffset+windowBytes])
	container := binary.Get[uint64](v.Order, buf[:])
	mask := bits.Mask[uint64](uint64(bitOffset), uint64(bitOffset+bitSize))
	return bits.GetValue[uint64, U](container, mask, uint64(bitOffset))
}

// WriteUnaligned is ReadUnaligned's write counterpart: read-modify-write
// the containing window so neighboring bit fields are preserved.
func WriteUnaligned[U constraints.Unsigned](v View, byteOffset, windowBytes, bitOffset, bitSize int, val U) {
	var buf [8]byte
	start := 0
	if v.Order == Big {
		start = 8 - windowBytes
	}
	copy(buf[start:], v.b[byteOffset:byteOffset+windowBytes])
	container := binary.Get[uint64](v.Order, buf[:])
	container = bits.SetValue[U, uint64](val, container, uint64(bitOffset), uint64(bitOffset+bitSize))
	binary.Put[uint64](v.Order, buf[:], container)
	copy(v.b[byteOffset:byteOffset+windowBytes], buf[start:start+windowBytes])
}

// DecodeSigned applies the SignedCast view: a raw unsigned value above
// maxPositive is the two's-complement negative range for bitSize bits.
func DecodeSigned(raw uint64, maxPositive uint64, bitSize int) int64 {
	if raw <= maxPositive {
		return int64(raw)
	}
	return int64(raw) - int64(uint64(1)<<uint(bitSize))
}

// EncodeSigned is DecodeSigned's write counterpart.
func EncodeSigned(v int64, bitSize int) uint64 {
	return uint64(v) & ((uint64(1) << uint(bitSize)) - 1)
}

// DecodeFloat applies a FloatRange or FloatMultiplier view: value = raw*a+b.
func DecodeFloat(raw uint64, a, b float64) float64 {
	return float64(raw)*a + b
}

// EncodeFloat is DecodeFloat's write counterpart using the view's
// precomputed inverse coefficients: raw = round(value*aInv + bInv).
func EncodeFloat(value float64, aInv, bInv float64) uint64 {
	return uint64(math.Round(value*aInv + bInv))
}

// ReadNullTermString scans b from offset for a NUL terminator, returning
// the decoded string and the number of bytes consumed including the
// terminator.
func ReadNullTermString(b []byte, offset int) (string, int) {
	end := offset
	for end < len(b) && b[end] != 0 {
		end++
	}
	return string(b[offset:end]), end - offset + 1
}

// WriteNullTermString writes s followed by a NUL byte, returning bytes
// written including the terminator.
func WriteNullTermString(b []byte, offset int, s string) int {
	n := copy(b[offset:], s)
	b[offset+n] = 0
	return n + 1
}

// ReadLenPrefixedString reads a prefixBytes-wide length prefix (1, 2, 4, or
// 8) followed by that many bytes of string data.
func ReadLenPrefixedString(b []byte, offset int, order Order, prefixBytes int) (string, int) {
	n := int(readPrefix(b, offset, order, prefixBytes))
	start := offset + prefixBytes
	return string(b[start : start+n]), prefixBytes + n
}

// WriteLenPrefixedString is ReadLenPrefixedString's write counterpart.
func WriteLenPrefixedString(b []byte, offset int, order Order, prefixBytes int, s string) int {
	writePrefix(b, offset, order, prefixBytes, uint64(len(s)))
	start := offset + prefixBytes
	copy(b[start:], s)
	return prefixBytes + len(s)
}

// ReadLenPrefixedBytes reads a 4-byte byte-length prefix followed by that
// many raw bytes — the framing a message field uses to bound a nested
// message-ref or an entire payload-list field within the parent's buffer.
func ReadLenPrefixedBytes(b []byte, offset int, order Order) ([]byte, int) {
	n := int(binary.Get[uint32](order, b[offset:]))
	start := offset + 4
	return b[start : start+n], 4 + n
}

// WriteLenPrefixedBytes is ReadLenPrefixedBytes's write counterpart.
func WriteLenPrefixedBytes(b []byte, offset int, order Order, data []byte) int {
	binary.Put[uint32](order, b[offset:], uint32(len(data)))
	start := offset + 4
	copy(b[start:], data)
	return 4 + len(data)
}

func readPrefix(b []byte, offset int, order Order, prefixBytes int) uint64 {
	switch prefixBytes {
	case 1:
		return uint64(binary.Get[uint8](order, b[offset:]))
	case 2:
		return uint64(binary.Get[uint16](order, b[offset:]))
	case 4:
		return uint64(binary.Get[uint32](order, b[offset:]))
	case 8:
		return binary.Get[uint64](order, b[offset:])
	}
	panic("wire: unsupported length-prefix width")
}

func writePrefix(b []byte, offset int, order Order, prefixBytes int, n uint64) {
	switch prefixBytes {
	case 1:
		binary.Put[uint8](order, b[offset:], uint8(n))
	case 2:
		binary.Put[uint16](order, b[offset:], uint16(n))
	case 4:
		binary.Put[uint32](order, b[offset:], uint32(n))
	case 8:
		binary.Put[uint64](order, b[offset:], n)
	default:
		panic("wire: unsupported length-prefix width")
	}
}

// FixedArray is a zero-copy view over a run of N fixed-width scalars.
type FixedArray[T constraints.Integer] struct {
	b     []byte
	order Order
	n     int
}

// NewFixedArray wraps the byte region holding n elements of T.
func NewFixedArray[T constraints.Integer](b []byte, order Order, n int) FixedArray[T] {
	return FixedArray[T]{b: b, order: order, n: n}
}

// Len returns the number of elements.
func (a FixedArray[T]) Len() int { return a.n }

// At reads the i'th element.
func (a FixedArray[T]) At(i int) T {
	var zero T
	size := sizeOf(zero)
	return binary.Get[T](a.order, a.b[i*size:])
}

// Set writes the i'th element.
func (a FixedArray[T]) Set(i int, v T) {
	size := sizeOf(v)
	binary.Put[T](a.order, a.b[i*size:], v)
}

// PayloadList is a zero-copy view over a variable-length run of
// sub-messages, each framed by a uint32 byte-length prefix so entries can
// be skipped without decoding them.
type PayloadList struct {
	b     []byte
	order Order
}

// NewPayloadList wraps the byte region holding the list.
func NewPayloadList(b []byte, order Order) PayloadList {
	return PayloadList{b: b, order: order}
}

// Count walks the length-prefix chain once to report how many entries are
// present.
func (p PayloadList) Count() int {
	n, off := 0, 0
	for off < len(p.b) {
		sz := int(binary.Get[uint32](p.order, p.b[off:]))
		off += 4 + sz
		n++
	}
	return n
}

// At returns the raw bytes of the i'th sub-message, or nil if out of range.
func (p PayloadList) At(i int) []byte {
	off := 0
	for cur := 0; off < len(p.b); cur++ {
		sz := int(binary.Get[uint32](p.order, p.b[off:]))
		start := off + 4
		if cur == i {
			return p.b[start : start+sz]
		}
		off = start + sz
	}
	return nil
}
