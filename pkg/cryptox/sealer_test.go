package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSealer(t *testing.T, secret string) *Sealer {
	t.Helper()

	key, err := DeriveKey([]byte(secret), []byte("test-salt"))
	require.NoError(t, err)

	s, err := NewSealer(key)
	require.NoError(t, err)
	return s
}

func TestSealOpenRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestSealer(t, "server-secret")

	for _, plaintext := range []string{
		"PIN 9988",
		"a",
		"multi\nline\nnote",
		"ünïcødé — 日本語",
	} {
		sealed, err := s.Seal(plaintext)
		require.NoError(t, err)
		require.NotEmpty(t, sealed)
		require.NotContains(t, sealed, plaintext)

		opened, err := s.Open(sealed)
		require.NoError(t, err)
		require.Equal(t, plaintext, opened)
	}
}

func TestSealEmptyIsNoOp(t *testing.T) {
	t.Parallel()

	s := newTestSealer(t, "server-secret")

	sealed, err := s.Seal("")
	require.NoError(t, err)
	require.Empty(t, sealed)

	opened, err := s.Open("")
	require.NoError(t, err)
	require.Empty(t, opened)
}

func TestSealUsesFreshNonce(t *testing.T) {
	t.Parallel()

	s := newTestSealer(t, "server-secret")

	a, err := s.Seal("same plaintext")
	require.NoError(t, err)
	b, err := s.Seal("same plaintext")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestOpenDetectsTampering(t *testing.T) {
	t.Parallel()

	s := newTestSealer(t, "server-secret")

	sealed, err := s.Seal("PIN 9988")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	require.NoError(t, err)

	// Flipping any single byte must fail authentication, never yield a
	// silently-wrong plaintext.
	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		_, err := s.Open(base64.RawURLEncoding.EncodeToString(tampered))
		require.ErrorIs(t, err, ErrDecryptFailed, "byte %d", i)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	t.Parallel()

	s := newTestSealer(t, "server-secret")

	for _, ciphertext := range []string{
		"not base64 at all!!!",
		base64.RawURLEncoding.EncodeToString([]byte("short")),
		"AAAA",
	} {
		_, err := s.Open(ciphertext)
		require.ErrorIs(t, err, ErrDecryptFailed)
	}
}

func TestOpenFailsAfterSecretChange(t *testing.T) {
	t.Parallel()

	oldSealer := newTestSealer(t, "old-server-secret")
	newSealer := newTestSealer(t, "new-server-secret")

	sealed, err := oldSealer.Seal("PIN 9988")
	require.NoError(t, err)

	opened, err := oldSealer.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, "PIN 9988", opened)

	_, err = newSealer.Open(sealed)
	require.ErrorIs(t, err, ErrDecryptFailed)
}
