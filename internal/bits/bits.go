// Package bits implements the sub-byte portion of the bit codec contract: the
// mask/shift arithmetic used to read and write a fixed field of bit-size b
// starting at bit-offset o inside a w-byte window.
package bits

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Mask builds a mask covering bits [start, end) (end exclusive, 0-indexed).
// Panics if start >= end or end > 64; bits at or above U's width are
// dropped.
func Mask[U constraints.Unsigned](start, end uint64) U {
	return U(setBits(uint64(0), start, end))
}

func setBits(n uint64, start, end uint64) uint64 {
	if start >= end {
		panic("bits: start must be < end")
	}
	if end > 64 {
		panic("bits: end cannot exceed 64")
	}
	var r uint64
	for x := start; x < end; x++ {
		r |= uint64(1) << x
	}
	return n | r
}

// GetValue extracts the value stored in store under bitMask, right-shifted
// by start. This is step 2-3 of the bit codec contract in spec.md §6.
func GetValue[U, V constraints.Unsigned](store U, bitMask U, start uint64) V {
	return V((store & bitMask) >> start)
}

// SetValue performs a read-modify-write of val into store, occupying
// [start, end) of store. start must be < end.
func SetValue[I, U constraints.Unsigned](val I, store U, start, end uint64) U {
	if start >= end {
		panic("bits: start must be < end")
	}
	mask := Mask[U](start, end)
	cleared := store &^ mask
	return cleared | (U(val)<<start)&mask
}

// GetBit reports whether the bit at pos is set in store.
func GetBit[U constraints.Unsigned](store U, pos uint8) bool {
	return store&(U(1)<<pos) != 0
}

// SetBit sets (or clears) the bit at pos in store.
func SetBit[U constraints.Unsigned](store U, pos uint8, val bool) U {
	if val {
		return store | (U(1) << pos)
	}
	return store &^ (U(1) << pos)
}

// PopCount returns the number of set bits.
func PopCount(v uint64) int {
	return bits.OnesCount64(v)
}
