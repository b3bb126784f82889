package encryption

import "fmt"

// pkcs7Pad appends PKCS#7 padding up to the next multiple of the block
// size. Data already block-aligned gains a full block of padding so that
// removal is always unambiguous.
func pkcs7Pad(data []byte) []byte {
	padLen := BlockSize - len(data)%BlockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs7Unpad validates and strips PKCS#7 padding. The final byte is the
// padding length; it must be in [1,8], must not exceed the data length,
// and every one of the trailing padLen bytes must carry that same value.
// Anything else means a corrupted ciphertext or, far more commonly, a
// wrong key.
func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrInvalidPadding)
	}
	padLen := int(data[len(data)-1])
	if padLen < 1 || padLen > BlockSize {
		return nil, fmt.Errorf("%w: length marker %d", ErrInvalidPadding, padLen)
	}
	if padLen > len(data) {
		return nil, fmt.Errorf("%w: marker %d exceeds data length %d", ErrInvalidPadding, padLen, len(data))
	}
	for i := len(data) - padLen; i < len(data); i++ {
		if data[i] != byte(padLen) {
			return nil, fmt.Errorf("%w: inconsistent trailing bytes", ErrInvalidPadding)
		}
	}
	return data[:len(data)-padLen], nil
}
