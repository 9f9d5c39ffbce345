package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/snippet-vault/internal/apperror"
)

// =========================================================================
// HELPERS
// =========================================================================

// testKey returns a valid base64-encoded 32-byte key. The pattern byte lets
// tests build two DIFFERENT valid keys for wrong-key scenarios.
func testKey(pattern byte) string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{pattern}, KeySize))
}

func newTestCipher(t *testing.T, pattern byte) *Cipher {
	t.Helper()
	c, err := New(testKey(pattern))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

// =========================================================================
// CONSTRUCTION TESTS
// =========================================================================

func TestNew_RejectsEmptyKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("New(\"\") should fail — an empty key is a fatal configuration error")
	}
}

func TestNew_RejectsInvalidBase64(t *testing.T) {
	if _, err := New("not-valid-base64!!!"); err == nil {
		t.Fatal("New() should reject a key that is not valid base64")
	}
}

func TestNew_RejectsWrongLengthKey(t *testing.T) {
	short := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{'k'}, 16))
	if _, err := New(short); err == nil {
		t.Fatal("New() should reject a 16-byte key — AES-256 needs exactly 32 bytes")
	}
}

// =========================================================================
// ROUND-TRIP TESTS
// =========================================================================

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := newTestCipher(t, 'a')

	cases := []string{
		"package main",
		"",
		"def hello():\n    print('hi')\n",
		"unicode: ñ → 日本語 🎉",
		strings.Repeat("x", 50000),
	}

	for _, plaintext := range cases {
		ciphertext, err := c.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt() error = %v", err)
		}

		got, err := c.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if got != plaintext {
			t.Errorf("round trip mismatch: got %q, want %q", got, plaintext)
		}
	}
}

func TestEncrypt_OutputIsNotPlaintext(t *testing.T) {
	c := newTestCipher(t, 'a')

	plaintext := "package main\n\nfunc main() {}"
	ciphertext, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if ciphertext == plaintext {
		t.Error("Encrypt() returned the plaintext unchanged")
	}
	if strings.Contains(ciphertext, "package main") {
		t.Error("ciphertext contains a recognisable plaintext substring")
	}
}

func TestEncrypt_SamePlaintextProducesDifferentCiphertexts(t *testing.T) {
	c := newTestCipher(t, 'a')

	// The nonce is random per call — identical plaintexts must not produce
	// identical ciphertexts, or an observer could spot duplicate snippets.
	ct1, _ := c.Encrypt("same code")
	ct2, _ := c.Encrypt("same code")

	if ct1 == ct2 {
		t.Error("Encrypt() produced identical ciphertexts for the same plaintext (nonce must be random)")
	}
}

func TestEncrypt_OutputIsTextSafe(t *testing.T) {
	c := newTestCipher(t, 'a')

	ciphertext, err := c.Encrypt("some code")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if _, err := base64.StdEncoding.DecodeString(ciphertext); err != nil {
		t.Errorf("ciphertext is not valid base64: %v", err)
	}
}

// =========================================================================
// FAILURE TESTS
// =========================================================================

func TestDecrypt_WrongKeyFails(t *testing.T) {
	c1 := newTestCipher(t, 'a')
	c2 := newTestCipher(t, 'b')

	ciphertext, err := c1.Encrypt("secret code")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	// Decrypting under a different key must FAIL — never silently return
	// corrupted plaintext.
	got, err := c2.Decrypt(ciphertext)
	if err == nil {
		t.Fatalf("Decrypt() under the wrong key returned %q, want error", got)
	}
	if !errors.Is(err, apperror.ErrDecryption) {
		t.Errorf("Decrypt() error = %v, want ErrDecryption in the chain", err)
	}
}

func TestDecrypt_TamperedCiphertextFails(t *testing.T) {
	c := newTestCipher(t, 'a')

	ciphertext, err := c.Encrypt("secret code")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	// Flip one byte of the decoded ciphertext and re-encode. The GCM auth
	// tag must catch it.
	raw, _ := base64.StdEncoding.DecodeString(ciphertext)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	if _, err := c.Decrypt(tampered); !errors.Is(err, apperror.ErrDecryption) {
		t.Errorf("Decrypt(tampered) error = %v, want ErrDecryption", err)
	}
}

func TestDecrypt_MalformedInputFails(t *testing.T) {
	c := newTestCipher(t, 'a')

	cases := map[string]string{
		"not base64":          "!!!not-base64!!!",
		"empty":               "",
		"shorter than nonce":  base64.StdEncoding.EncodeToString([]byte("tiny")),
		"plaintext by itself": "cGxhaW4gdGV4dA==", // valid base64, not a sealed message
	}

	for name, input := range cases {
		if _, err := c.Decrypt(input); !errors.Is(err, apperror.ErrDecryption) {
			t.Errorf("%s: Decrypt(%q) error = %v, want ErrDecryption", name, input, err)
		}
	}
}
