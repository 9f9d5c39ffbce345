// Package crypto — reversible encryption for snippet content.
//
// WHY AES-GCM?
// GCM is an AEAD mode (Authenticated Encryption with Associated Data):
// every ciphertext carries an authentication tag, so Decrypt doesn't just
// unscramble bytes — it PROVES the ciphertext is intact and was produced
// under this key. Tampered data, truncated data, or data encrypted under a
// different key all fail the tag check instead of decoding into garbage.
//
// That authentication matters here because decrypted snippet code is
// returned to callers verbatim. Silently returning corrupted plaintext
// would look like data loss; failing loudly points straight at the real
// problem (a corrupted store or a changed key).
//
// CIPHERTEXT LAYOUT:
//
//	base64( nonce || sealed )
//	         ^        ^
//	         |        AES-GCM output: ciphertext + 16-byte auth tag
//	         12 random bytes, fresh per call
//
// The nonce is generated randomly for every Encrypt call and prepended to
// the sealed bytes, so the same plaintext encrypts to a different string
// every time. Base64 keeps the result storable alongside ordinary text
// fields in the JSON document.
//
// KEY ROTATION IS NOT SUPPORTED:
// There is exactly one key, loaded once at startup. Changing it renders all
// previously stored ciphertext permanently undecryptable.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/sakif/snippet-vault/internal/apperror"
)

// KeySize is the required key length in bytes. 32 bytes selects AES-256.
const KeySize = 32

// Cipher encrypts and decrypts snippet content with a single symmetric key.
//
// It's a struct (not free functions) so the key is injected once at
// construction — no package-level key state, and tests can build ciphers
// with throwaway keys.
type Cipher struct {
	aead cipher.AEAD
}

// New creates a Cipher from a base64-encoded 32-byte key.
//
// This is a startup-time constructor: a missing, undecodable, or
// wrong-length key is a configuration error that should abort the process,
// never a per-request condition. main.go calls this before the server
// accepts any traffic.
func New(encodedKey string) (*Cipher, error) {
	if encodedKey == "" {
		return nil, fmt.Errorf("crypto: encryption key is required")
	}

	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("crypto: decoding encryption key: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("crypto: encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: creating AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: creating GCM mode: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext into a text-safe ciphertext string.
//
// Non-deterministic: two calls with the same plaintext produce different
// outputs, because the nonce is random per call. Deterministic output would
// leak which snippets share identical code.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypto: generating nonce: %w", err)
	}

	// Seal appends the encrypted bytes (plus auth tag) to the nonce, giving
	// us nonce||sealed in one slice.
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
//
// Every failure path — bad base64, truncated input, failed auth tag —
// returns apperror.ErrDecryption. The caller cannot distinguish them, and
// shouldn't: all of them mean the stored value is unusable under this key.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", apperror.Decryption(fmt.Errorf("crypto: decoding ciphertext: %w", err))
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", apperror.Decryption(fmt.Errorf("crypto: ciphertext shorter than nonce"))
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]

	// Open verifies the auth tag before returning anything. Wrong key,
	// flipped bit, truncation — all surface here as an error, never as
	// corrupted plaintext.
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", apperror.Decryption(fmt.Errorf("crypto: opening ciphertext: %w", err))
	}

	return string(plaintext), nil
}
