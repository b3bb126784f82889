package encryption

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode_AutoPrefersDES(t *testing.T) {
	ciphertext, err := EncryptDES("12.5", "MySecretKey123")
	if err != nil {
		t.Fatalf("EncryptDES() error = %v", err)
	}

	result, err := Decode(ciphertext, "MySecretKey123", AlgorithmAuto)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := &Result{Algorithm: AlgorithmDES, Text: "12.5", Value: 12.5}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("Decode() mismatch; diff:\n%s", diff)
	}
}

// An XOR payload is four bytes for a typical reading, which can never be
// a whole DES block, so the DES attempt fails structurally and auto
// detection must fall through to XOR.
func TestDecode_AutoFallsBackToXOR(t *testing.T) {
	ciphertext, err := EncryptXOR("42.0", "fieldkey")
	if err != nil {
		t.Fatalf("EncryptXOR() error = %v", err)
	}

	result, err := Decode(ciphertext, "fieldkey", AlgorithmAuto)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := &Result{Algorithm: AlgorithmXOR, Text: "42.0", Value: 42.0}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("Decode() mismatch; diff:\n%s", diff)
	}
}

func TestDecode_HintRestrictsAlgorithm(t *testing.T) {
	ciphertext, err := EncryptXOR("42.0", "fieldkey")
	if err != nil {
		t.Fatalf("EncryptXOR() error = %v", err)
	}

	// Forced to DES, the XOR payload is a format error, not a fallback.
	if _, err := Decode(ciphertext, "fieldkey", AlgorithmDES); !errors.Is(err, ErrCiphertextFormat) {
		t.Errorf("Decode(hint=DES) error = %v, want ErrCiphertextFormat", err)
	}

	result, err := Decode(ciphertext, "fieldkey", AlgorithmXOR)
	if err != nil {
		t.Fatalf("Decode(hint=XOR) error = %v", err)
	}
	if result.Algorithm != AlgorithmXOR || result.Value != 42.0 {
		t.Errorf("Decode(hint=XOR) = %+v, want XOR/42.0", result)
	}
}

func TestDecode_ImplausibleValue(t *testing.T) {
	ciphertext, err := EncryptDES("5000.0", "MySecretKey123")
	if err != nil {
		t.Fatalf("EncryptDES() error = %v", err)
	}

	_, err = Decode(ciphertext, "MySecretKey123", AlgorithmDES)
	if !errors.Is(err, ErrImplausibleValue) {
		t.Errorf("Decode() error = %v, want ErrImplausibleValue", err)
	}
}

func TestDecode_ExhaustionReturnsUndecodable(t *testing.T) {
	// "hello" survives the XOR path structurally but is not a numeral,
	// and its five bytes can never satisfy the DES block rule.
	ciphertext, err := EncryptXOR("hello", "fieldkey")
	if err != nil {
		t.Fatalf("EncryptXOR() error = %v", err)
	}

	_, err = Decode(ciphertext, "fieldkey", AlgorithmAuto)
	if !errors.Is(err, ErrUndecodable) {
		t.Errorf("Decode() error = %v, want ErrUndecodable", err)
	}
}

func TestDecode_NonHexFailsBothAlgorithms(t *testing.T) {
	_, err := Decode("NOTHEX!!", "fieldkey", AlgorithmAuto)
	if !errors.Is(err, ErrUndecodable) {
		t.Errorf("Decode() error = %v, want ErrUndecodable", err)
	}
}

func TestDecode_EmptyKey(t *testing.T) {
	if _, err := Decode("ABCD", "", AlgorithmAuto); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Decode() error = %v, want ErrInvalidKey", err)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Algorithm
		wantErr bool
	}{
		"empty means auto": {input: "", want: AlgorithmAuto},
		"auto lowercase":   {input: "auto", want: AlgorithmAuto},
		"des":              {input: "des", want: AlgorithmDES},
		"xor with space":   {input: " XOR ", want: AlgorithmXOR},
		"unknown":          {input: "AES", wantErr: true},
		"garbage":          {input: "??", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAlgorithm(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAlgorithm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
