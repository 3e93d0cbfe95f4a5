package cryptox

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

// KeySize is the length of the derived symmetric key in bytes (AES-256).
const KeySize = 32

// kdfIterations is the PBKDF2 work factor. It is a fixed constant: the key is
// re-derived from the same inputs on every process start and must come out
// identical, so the iteration count can never vary per call.
const kdfIterations = 100_000

// ErrEmptyKeyMaterial reports missing secret or salt at startup. The process
// must refuse to serve traffic rather than run without a usable key.
var ErrEmptyKeyMaterial = errors.New("cryptox: secret and salt must be non-empty")

// DeriveKey stretches the server secret into a 32-byte symmetric key using
// PBKDF2-HMAC-SHA256. Deterministic: the same secret and salt always yield
// the same key.
func DeriveKey(secret, salt []byte) ([KeySize]byte, error) {
	var key [KeySize]byte
	if len(secret) == 0 || len(salt) == 0 {
		return key, ErrEmptyKeyMaterial
	}
	copy(key[:], pbkdf2.Key(secret, salt, kdfIterations, KeySize, sha256.New))
	return key, nil
}
