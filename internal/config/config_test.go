package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorrow/lockbox/internal/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.NotEmpty(t, cfg.Vault.Path)
	assert.GreaterOrEqual(t, cfg.KDF.MemoryKiB, uint32(19*1024))
	assert.GreaterOrEqual(t, cfg.KDF.Time, uint32(2))
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty vault path", func(c *config.Config) { c.Vault.Path = "" }},
		{"zero kdf time", func(c *config.Config) { c.KDF.Time = 0 }},
		{"audit enabled without path", func(c *config.Config) {
			c.Audit.Enabled = true
			c.Audit.Path = ""
		}},
		{"zero generator length", func(c *config.Config) { c.Generator.Length = 0 }},
		{"unknown log format", func(c *config.Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("vault:\n  path: /tmp/test-vault.db\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test-vault.db", cfg.Vault.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep defaults.
	assert.Equal(t, uint32(64*1024), cfg.KDF.MemoryKiB)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LOCKBOX_LOG_LEVEL", "error")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
