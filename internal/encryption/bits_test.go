package encryption

import "testing"

func TestWord64RoundTrip(t *testing.T) {
	raw := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}
	w := word64FromBytes(raw)

	if w.hi != 0x01234567 || w.lo != 0x89ABCDEF {
		t.Fatalf("word64FromBytes() = %08X%08X, want 0123456789ABCDEF", w.hi, w.lo)
	}

	got := w.bytes()
	for i := range raw {
		if got[i] != raw[i] {
			t.Errorf("bytes()[%d] = %02X, want %02X", i, got[i], raw[i])
		}
	}
}

func TestBitPositions(t *testing.T) {
	// Bit 1 is the MSB of hi, bit 64 the LSB of lo.
	w := word64{hi: 0x80000000, lo: 0x00000001}

	if got := w.bit(1); got != 1 {
		t.Errorf("bit(1) = %d, want 1", got)
	}
	if got := w.bit(64); got != 1 {
		t.Errorf("bit(64) = %d, want 1", got)
	}
	for _, pos := range []int{2, 32, 33, 63} {
		if got := w.bit(pos); got != 0 {
			t.Errorf("bit(%d) = %d, want 0", pos, got)
		}
	}

	var set word64
	set.setBit(1, 1)
	set.setBit(64, 1)
	if set != w {
		t.Errorf("setBit() built %08X%08X, want %08X%08X", set.hi, set.lo, w.hi, w.lo)
	}
	set.setBit(1, 0)
	if set.hi != 0 {
		t.Errorf("setBit(1, 0) left hi = %08X", set.hi)
	}
}

func TestBitPanicsOutOfRange(t *testing.T) {
	for _, pos := range []int{0, -1, 65} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("bit(%d) expected a panic", pos)
				}
			}()
			var w word64
			w.bit(pos)
		}()
	}
}

// Applying the initial permutation to the published vector's plaintext
// must reproduce the documented post-IP halves.
func TestPermute_InitialPermutation(t *testing.T) {
	w := word64FromBytes([]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF})
	permuted := w.permute(initialPermutation)

	if permuted.hi != 0xCC00CCFF {
		t.Errorf("post-IP left half = %08X, want CC00CCFF", permuted.hi)
	}
	if permuted.lo != 0xF0AAF0AA {
		t.Errorf("post-IP right half = %08X, want F0AAF0AA", permuted.lo)
	}
}

// FP must undo IP exactly.
func TestPermute_FinalInvertsInitial(t *testing.T) {
	w := word64{hi: 0xDEADBEEF, lo: 0x01234567}
	if got := w.permute(initialPermutation).permute(finalPermutation); got != w {
		t.Errorf("FP(IP(w)) = %08X%08X, want %08X%08X", got.hi, got.lo, w.hi, w.lo)
	}
}

func TestLeftRotate28(t *testing.T) {
	tests := []struct {
		name   string
		value  uint32
		amount int
		want   uint32
	}{
		{"rotate by one", 0x0000001, 1, 0x0000002},
		{"high bit wraps", 0x8000000, 1, 0x0000001},
		{"rotate by two", 0xC000000, 2, 0x0000003},
		{"zero amount", 0xABCDEF0 & 0x0FFFFFFF, 0, 0xABCDEF0 & 0x0FFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := leftRotate28(tt.value, tt.amount); got != tt.want {
				t.Errorf("leftRotate28(%07X, %d) = %07X, want %07X", tt.value, tt.amount, got, tt.want)
			}
		})
	}
}

func TestLeftRotate28PanicsOutOfRange(t *testing.T) {
	for _, amount := range []int{-1, 28, 29} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("leftRotate28(v, %d) expected a panic", amount)
				}
			}()
			leftRotate28(1, amount)
		}()
	}
}
