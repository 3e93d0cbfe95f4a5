package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKeyIsDeterministic(t *testing.T) {
	t.Parallel()

	a, err := DeriveKey([]byte("server-secret"), []byte("fixed-salt"))
	require.NoError(t, err)

	b, err := DeriveKey([]byte("server-secret"), []byte("fixed-salt"))
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestDeriveKeyDependsOnBothInputs(t *testing.T) {
	t.Parallel()

	base, err := DeriveKey([]byte("server-secret"), []byte("fixed-salt"))
	require.NoError(t, err)

	otherSecret, err := DeriveKey([]byte("different-secret"), []byte("fixed-salt"))
	require.NoError(t, err)
	require.NotEqual(t, base, otherSecret)

	otherSalt, err := DeriveKey([]byte("server-secret"), []byte("different-salt"))
	require.NoError(t, err)
	require.NotEqual(t, base, otherSalt)
}

func TestDeriveKeyRejectsEmptyMaterial(t *testing.T) {
	t.Parallel()

	_, err := DeriveKey(nil, []byte("salt"))
	require.ErrorIs(t, err, ErrEmptyKeyMaterial)

	_, err = DeriveKey([]byte("secret"), nil)
	require.ErrorIs(t, err, ErrEmptyKeyMaterial)
}
