package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrDecryptFailed reports that a ciphertext could not be authenticated and
// decrypted: it was corrupted, truncated, or sealed under a different key.
// Callers surface a readable placeholder instead of the raw error; the
// ciphertext itself is never shown.
var ErrDecryptFailed = errors.New("cryptox: decrypt failed")

// Sealer performs authenticated encryption of sensitive text fields with a
// process-lifetime key. The key is fixed at construction and read-only
// afterwards, so a single Sealer is safe for concurrent use. The key is never
// logged, persisted, or returned to callers.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer wraps the derived key in an AES-256-GCM AEAD. An error here means
// the crypto primitive itself is unavailable; the caller must treat that as
// fatal rather than run without encryption.
func NewSealer(key [KeySize]byte) (*Sealer, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("cryptox: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create GCM: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts and authenticates plaintext, returning a base64url blob with
// the random nonce prefixed: [12-byte nonce][ciphertext][16-byte tag].
// Empty plaintext maps to an empty blob so an unset field stays unset.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("cryptox: generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a blob produced by Seal. Empty input yields an empty string.
// Any verification failure yields ErrDecryptFailed with no further detail,
// so a wrong key and a tampered blob are indistinguishable to callers.
func (s *Sealer) Open(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecryptFailed
	}

	nonceSize := s.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrDecryptFailed
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
