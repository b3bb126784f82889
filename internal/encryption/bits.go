package encryption

import "fmt"

// word64 carries a 64-bit working value as two 32-bit halves. Bit
// positions follow the DES convention: position 1 is the most significant
// bit of hi and position 64 the least significant bit of lo. Values
// narrower than 64 bits (subkeys, permutation outputs) are left-justified
// in the same container with the unused low bits zero.
type word64 struct {
	hi, lo uint32
}

// word64FromBytes packs 8 bytes into a word64, first byte most significant.
func word64FromBytes(b []byte) word64 {
	return word64{
		hi: uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]),
		lo: uint32(b[4])<<24 | uint32(b[5])<<16 | uint32(b[6])<<8 | uint32(b[7]),
	}
}

// bytes unpacks the word back into 8 bytes, most significant first.
func (w word64) bytes() []byte {
	return []byte{
		byte(w.hi >> 24), byte(w.hi >> 16), byte(w.hi >> 8), byte(w.hi),
		byte(w.lo >> 24), byte(w.lo >> 16), byte(w.lo >> 8), byte(w.lo),
	}
}

// bit returns the bit at the given 1-indexed position. Positions outside
// [1,64] are programmer error and panic.
func (w word64) bit(pos int) uint32 {
	if pos < 1 || pos > 64 {
		panic(fmt.Sprintf("encryption: bit position %d out of range [1,64]", pos))
	}
	if pos <= 32 {
		return (w.hi >> (32 - pos)) & 1
	}
	return (w.lo >> (64 - pos)) & 1
}

// setBit sets the bit at the given 1-indexed position to the low bit of v.
func (w *word64) setBit(pos int, v uint32) {
	if pos < 1 || pos > 64 {
		panic(fmt.Sprintf("encryption: bit position %d out of range [1,64]", pos))
	}
	if pos <= 32 {
		mask := uint32(1) << (32 - pos)
		if v&1 == 1 {
			w.hi |= mask
		} else {
			w.hi &^= mask
		}
		return
	}
	mask := uint32(1) << (64 - pos)
	if v&1 == 1 {
		w.lo |= mask
	} else {
		w.lo &^= mask
	}
}

// permute builds a new word whose bit i is the input's bit table[i-1].
// The output occupies the top len(table) bit positions.
func (w word64) permute(table []int) word64 {
	var out word64
	for i, src := range table {
		out.setBit(i+1, w.bit(src))
	}
	return out
}

// leftRotate28 circularly rotates a 28-bit value left by amount bits.
// Callers only ever pass 1 or 2; anything outside [0,28) panics.
func leftRotate28(v uint32, amount int) uint32 {
	if amount < 0 || amount >= 28 {
		panic(fmt.Sprintf("encryption: rotation amount %d out of range [0,28)", amount))
	}
	const mask = 0x0FFFFFFF
	v &= mask
	return ((v << amount) | (v >> (28 - amount))) & mask
}
