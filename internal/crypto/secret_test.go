package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorrow/lockbox/internal/crypto"
)

func TestSecretBufferOwnsCopy(t *testing.T) {
	src := []byte("topsecret")
	sec := crypto.NewSecret(src)
	defer sec.Destroy()

	// Mutating the source must not reach the buffer.
	src[0] = 'X'
	assert.Equal(t, []byte("topsecret"), sec.Bytes())
}

func TestSecretBufferDestroyZeroizes(t *testing.T) {
	sec := crypto.NewSecret([]byte("topsecret"))
	backing := sec.Bytes()
	require.NotEmpty(t, backing)

	sec.Destroy()

	for i, b := range backing {
		assert.Zerof(t, b, "byte %d not zeroized", i)
	}
	assert.Nil(t, sec.Bytes())
	assert.Zero(t, sec.Len())

	// Double destroy is a no-op.
	sec.Destroy()
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	crypto.Wipe(b)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)
}
