package encryption

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Algorithm identifies which cipher produced, or should be used to read,
// a telemetry payload.
type Algorithm string

const (
	// AlgorithmAuto tries DES first, then XOR.
	AlgorithmAuto Algorithm = "AUTO"
	AlgorithmDES  Algorithm = "DES"
	AlgorithmXOR  Algorithm = "XOR"
)

// Plausible bounds for a decoded water level reading in centimeters. A
// decode whose numeral falls outside this window is treated as a failed
// attempt. The window is deliberately loose and can accept a garbage
// decode that happens to land in range; that ambiguity is inherent to
// running two unauthenticated ciphers behind one auto-detecting reader.
const (
	MinPlausibleLevel = 0
	MaxPlausibleLevel = 1000
)

// ParseAlgorithm maps a request-supplied algorithm name to an Algorithm.
// An empty string means auto-detect.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "AUTO":
		return AlgorithmAuto, nil
	case "DES":
		return AlgorithmDES, nil
	case "XOR":
		return AlgorithmXOR, nil
	}
	return "", fmt.Errorf("encryption: unknown algorithm %q", s)
}

// Result is a successful decode: the algorithm that produced it, the
// decrypted text, and its numeric value.
type Result struct {
	Algorithm Algorithm
	Text      string
	Value     float64
}

type decryptFunc func(ciphertext, key string) (string, error)

// decoders lists the candidate algorithms in auto-detection order,
// strongest cipher first.
var decoders = []struct {
	algorithm Algorithm
	decrypt   decryptFunc
}{
	{AlgorithmDES, DecryptDES},
	{AlgorithmXOR, DecryptXOR},
}

// Decode decrypts a hex ciphertext with the given key. With hint
// AlgorithmAuto each candidate cipher is attempted in order and the first
// structurally valid, plausible decode wins; a specific hint restricts
// the attempt to that algorithm. Failures of individual attempts are
// retried with the next candidate, and only exhaustion is reported.
func Decode(ciphertext, key string, hint Algorithm) (*Result, error) {
	if len(key) == 0 {
		return nil, ErrInvalidKey
	}

	var lastErr error
	attempted := false

	for _, d := range decoders {
		if hint != AlgorithmAuto && hint != d.algorithm {
			continue
		}
		attempted = true

		result, err := attempt(d.algorithm, d.decrypt, ciphertext, key)
		if err != nil {
			lastErr = err
			continue
		}
		return result, nil
	}

	if !attempted {
		return nil, fmt.Errorf("encryption: unknown algorithm %q", hint)
	}
	if hint != AlgorithmAuto {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %v", ErrUndecodable, lastErr)
}

// attempt runs one cipher and applies the plausibility filter.
func attempt(algorithm Algorithm, decrypt decryptFunc, ciphertext, key string) (*Result, error) {
	text, err := decrypt(ciphertext, key)
	if err != nil {
		return nil, err
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a numeral", ErrImplausibleValue, text)
	}
	if !(value >= MinPlausibleLevel && value <= MaxPlausibleLevel) {
		return nil, fmt.Errorf("%w: %v", ErrImplausibleValue, value)
	}

	return &Result{Algorithm: algorithm, Text: text, Value: value}, nil
}

// IsExpectedDecodeFailure reports whether err is one of the failure modes
// a wrong key or algorithm routinely produces, as opposed to a caller bug.
func IsExpectedDecodeFailure(err error) bool {
	return errors.Is(err, ErrInvalidPadding) ||
		errors.Is(err, ErrCiphertextFormat) ||
		errors.Is(err, ErrImplausibleValue) ||
		errors.Is(err, ErrUndecodable)
}
