package vault_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorrow/lockbox/internal/vault"
)

func TestGeneratePassword(t *testing.T) {
	pw, err := vault.GeneratePassword(vault.DefaultGeneratorOptions())
	require.NoError(t, err)
	assert.Len(t, pw, 16)

	// Lookalike characters are filtered by default.
	for _, c := range "il1Lo0O" {
		assert.NotContainsf(t, pw, string(c), "ambiguous char in %q", pw)
	}
}

func TestGeneratePasswordSingleClass(t *testing.T) {
	opts := vault.GeneratorOptions{Length: 32, Digits: true}
	pw, err := vault.GeneratePassword(opts)
	require.NoError(t, err)

	for _, c := range pw {
		assert.Contains(t, "0123456789", string(c))
	}
}

func TestGeneratePasswordErrors(t *testing.T) {
	t.Run("zero length", func(t *testing.T) {
		_, err := vault.GeneratePassword(vault.GeneratorOptions{Uppercase: true})
		assert.Error(t, err)
	})

	t.Run("no classes", func(t *testing.T) {
		_, err := vault.GeneratePassword(vault.GeneratorOptions{Length: 8})
		assert.Error(t, err)
	})

	t.Run("ambiguous filter applies to digits", func(t *testing.T) {
		pw, err := vault.GeneratePassword(vault.GeneratorOptions{
			Length: 8, Digits: true, AvoidAmbiguous: true,
		})
		require.NoError(t, err)
		assert.Len(t, pw, 8)
		assert.False(t, strings.ContainsAny(pw, "10"))
	})
}

func TestGeneratePasswordVariability(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		pw, err := vault.GeneratePassword(vault.DefaultGeneratorOptions())
		require.NoError(t, err)
		seen[pw] = true
	}
	assert.Greater(t, len(seen), 15, "generator output suspiciously repetitive")
}
