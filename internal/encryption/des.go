// From-scratch DES block cipher used for the encrypted telemetry mode.
//
// DES is cryptographically broken and is reproduced here deliberately as
// course material for the water tank project, not as a security measure.
// The structure follows the published specification: a 16-round Feistel
// network over 8-byte blocks with table-driven permutations and S-boxes.
package encryption

import "fmt"

// BlockSize is the DES block size in bytes.
const BlockSize = 8

// desCipher holds the 16 round subkeys derived from one 8-byte key.
type desCipher struct {
	subkeys [16]word64
}

// newDESCipher derives the round key schedule for an 8-byte key.
func newDESCipher(key []byte) (*desCipher, error) {
	if len(key) != BlockSize {
		return nil, fmt.Errorf("encryption: DES key must be %d bytes, got %d", BlockSize, len(key))
	}
	return &desCipher{subkeys: deriveSubkeys(key)}, nil
}

// deriveSubkeys computes the 16 48-bit round subkeys. PC-1 drops the
// parity bits and splits the key into two 28-bit halves; each round
// rotates both halves per the fixed schedule and extracts a subkey
// through PC-2. Encryption consumes the subkeys in order 0..15,
// decryption in order 15..0; the schedule itself is identical.
func deriveSubkeys(key []byte) [16]word64 {
	permuted := word64FromBytes(key).permute(permutedChoice1)

	// The 56-bit PC-1 output is left-justified: positions 1-28 form C,
	// positions 29-56 form D.
	c := permuted.hi >> 4
	d := ((permuted.hi & 0xF) << 24) | (permuted.lo >> 8)

	var subkeys [16]word64
	for round := 0; round < 16; round++ {
		c = leftRotate28(c, keyRotations[round])
		d = leftRotate28(d, keyRotations[round])

		combined := word64{
			hi: (c << 4) | (d >> 24),
			lo: (d & 0xFFFFFF) << 8,
		}
		subkeys[round] = combined.permute(permutedChoice2)
	}
	return subkeys
}

// feistel is the DES round function: expand the 32-bit half to 48 bits,
// mix in the subkey, substitute through the eight S-boxes, and permute
// the recombined 32 bits.
func feistel(r uint32, subkey word64) uint32 {
	expanded := word64{hi: r}.permute(expansion)
	mixed := word64{hi: expanded.hi ^ subkey.hi, lo: expanded.lo ^ subkey.lo}

	var substituted uint32
	for box := 0; box < 8; box++ {
		var group uint32
		for j := 1; j <= 6; j++ {
			group = group<<1 | mixed.bit(box*6+j)
		}
		// Outer two bits select the row, middle four the column.
		row := ((group & 0x20) >> 4) | (group & 0x01)
		col := (group & 0x1E) >> 1
		substituted |= uint32(sBoxes[box][row*16+col]) << (28 - box*4)
	}

	return word64{hi: substituted}.permute(pPermutation).hi
}

// encryptBlock encrypts exactly one 8-byte block in place.
func (c *desCipher) encryptBlock(block []byte) {
	c.cryptBlock(block, false)
}

// decryptBlock decrypts exactly one 8-byte block in place.
func (c *desCipher) decryptBlock(block []byte) {
	c.cryptBlock(block, true)
}

func (c *desCipher) cryptBlock(block []byte, reverse bool) {
	v := word64FromBytes(block).permute(initialPermutation)
	left, right := v.hi, v.lo

	for round := 0; round < 16; round++ {
		idx := round
		if reverse {
			idx = 15 - round
		}
		left, right = right, left^feistel(right, c.subkeys[idx])
	}

	// The halves are recombined as (R,L), not (L,R), before the final
	// permutation.
	out := word64{hi: right, lo: left}.permute(finalPermutation)
	copy(block, out.bytes())
}
