package encryption

// XOR stream cipher, the lightweight fallback for devices without enough
// memory for the DES tables. Each byte is XORed against the key byte at
// the same position with the key repeated cyclically; unlike DES the key
// is never normalized to a fixed width. Trivially reversible, kept only
// for the course's side-by-side comparison.

// EncryptXOR encrypts plaintext under key and returns uppercase hex.
func EncryptXOR(plaintext, key string) (string, error) {
	if len(key) == 0 {
		return "", ErrInvalidKey
	}
	data := []byte(plaintext)
	for i := range data {
		data[i] ^= key[i%len(key)]
	}
	return encodeHex(data), nil
}

// DecryptXOR reverses EncryptXOR. Any even-length hex string decodes
// structurally; whether the result is meaningful is for the caller (or
// the dispatcher's plausibility check) to decide.
func DecryptXOR(ciphertext, key string) (string, error) {
	if len(key) == 0 {
		return "", ErrInvalidKey
	}
	decoded, err := decodeHex(ciphertext)
	if err != nil {
		return "", err
	}
	for i := range decoded {
		decoded[i] ^= key[i%len(key)]
	}
	return string(decoded), nil
}
