package encryption

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// normalizeKey stretches or truncates a key string to exactly BlockSize
// bytes: byte i of the result is byte i mod len(key) of the original, so
// short keys repeat cyclically and long keys keep their first 8 bytes.
// The same normalization runs on the device, so both sides derive the
// identical schedule from the shared secret.
func normalizeKey(key string) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrInvalidKey
	}
	raw := []byte(key)
	normalized := make([]byte, BlockSize)
	for i := range normalized {
		normalized[i] = raw[i%len(raw)]
	}
	return normalized, nil
}

// decodeHex decodes a hex ciphertext string, reporting any structural
// problem as ErrCiphertextFormat.
func decodeHex(ciphertext string) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, fmt.Errorf("%w: empty ciphertext", ErrCiphertextFormat)
	}
	if len(ciphertext)%2 != 0 {
		return nil, fmt.Errorf("%w: odd hex length %d", ErrCiphertextFormat, len(ciphertext))
	}
	decoded, err := hex.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCiphertextFormat, err)
	}
	return decoded, nil
}

// encodeHex renders ciphertext bytes in the uppercase two-chars-per-byte
// form the device emits.
func encodeHex(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}

// EncryptDES encrypts a plaintext string under the given key and returns
// the ciphertext as uppercase hex. The key is normalized to 8 bytes, the
// plaintext PKCS#7-padded, and each 8-byte block encrypted independently
// (ECB; no IV, so identical inputs produce identical outputs).
func EncryptDES(plaintext, key string) (string, error) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	cipher, err := newDESCipher(normalized)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext))
	for i := 0; i < len(padded); i += BlockSize {
		cipher.encryptBlock(padded[i : i+BlockSize])
	}
	return encodeHex(padded), nil
}

// DecryptDES reverses EncryptDES. It returns ErrCiphertextFormat for hex
// that does not decode to a positive multiple of the block size and
// ErrInvalidPadding when the decrypted bytes fail padding validation.
func DecryptDES(ciphertext, key string) (string, error) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	decoded, err := decodeHex(ciphertext)
	if err != nil {
		return "", err
	}
	if len(decoded)%BlockSize != 0 {
		return "", fmt.Errorf("%w: length %d not a multiple of the block size", ErrCiphertextFormat, len(decoded))
	}

	cipher, err := newDESCipher(normalized)
	if err != nil {
		return "", err
	}
	for i := 0; i < len(decoded); i += BlockSize {
		cipher.decryptBlock(decoded[i : i+BlockSize])
	}

	unpadded, err := pkcs7Unpad(decoded)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}
