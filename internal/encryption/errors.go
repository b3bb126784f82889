package encryption

import "errors"

var (
	// ErrInvalidKey indicates an empty key, which cannot be normalized.
	ErrInvalidKey = errors.New("encryption: key must not be empty")

	// ErrCiphertextFormat indicates a ciphertext that is not valid
	// uppercase/lowercase hex or whose decoded length does not fit the
	// cipher (for DES, a positive multiple of the block size).
	ErrCiphertextFormat = errors.New("encryption: malformed ciphertext")

	// ErrInvalidPadding indicates that the decrypted data did not end in
	// valid PKCS#7 padding. A wrong key almost always surfaces here.
	ErrInvalidPadding = errors.New("encryption: invalid padding")

	// ErrImplausibleValue indicates a structurally valid decode whose
	// numeric value falls outside the expected sensor range.
	ErrImplausibleValue = errors.New("encryption: decoded value outside plausible sensor range")

	// ErrUndecodable indicates that every candidate algorithm failed.
	ErrUndecodable = errors.New("encryption: ciphertext could not be decoded with any algorithm")
)
