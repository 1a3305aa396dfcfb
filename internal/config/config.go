// Package config holds application configuration for the lockbox CLI.
package config

import (
	"errors"
	"os"
	"path/filepath"
)

// Config holds all application configuration.
type Config struct {
	// Vault settings
	Vault VaultConfig `mapstructure:"vault"`

	// Key derivation costs for new envelopes
	KDF KDFConfig `mapstructure:"kdf"`

	// Audit trail
	Audit AuditConfig `mapstructure:"audit"`

	// Password generator defaults
	Generator GeneratorConfig `mapstructure:"generator"`

	// Logging
	Log LogConfig `mapstructure:"log"`
}

// VaultConfig for vault file location.
type VaultConfig struct {
	// Path is the default vault file; --vault overrides it.
	Path string `mapstructure:"path"`
}

// KDFConfig for Argon2id cost parameters.
type KDFConfig struct {
	MemoryKiB   uint32 `mapstructure:"memory_kib"`
	Time        uint32 `mapstructure:"time"`
	Parallelism uint8  `mapstructure:"parallelism"`
}

// AuditConfig for the local operation trail.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // SQLite database path
}

// GeneratorConfig for generated passwords.
type GeneratorConfig struct {
	Length         int  `mapstructure:"length"`
	Uppercase      bool `mapstructure:"uppercase"`
	Lowercase      bool `mapstructure:"lowercase"`
	Digits         bool `mapstructure:"digits"`
	Symbols        bool `mapstructure:"symbols"`
	AvoidAmbiguous bool `mapstructure:"avoid_ambiguous"`
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
	File   string `mapstructure:"file"`   // empty = stderr
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() *Config {
	dataDir := ".lockbox"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".lockbox")
	}

	return &Config{
		Vault: VaultConfig{
			Path: filepath.Join(dataDir, "vault.db"),
		},
		KDF: KDFConfig{
			MemoryKiB:   64 * 1024,
			Time:        2,
			Parallelism: 1,
		},
		Audit: AuditConfig{
			Enabled: false,
			Path:    filepath.Join(dataDir, "audit.db"),
		},
		Generator: GeneratorConfig{
			Length:         16,
			Uppercase:      true,
			Lowercase:      true,
			Digits:         true,
			Symbols:        true,
			AvoidAmbiguous: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Vault.Path == "" {
		return errors.New("vault.path is required")
	}

	if c.KDF.MemoryKiB == 0 || c.KDF.Time == 0 || c.KDF.Parallelism == 0 {
		return errors.New("kdf costs must be positive")
	}

	if c.Audit.Enabled && c.Audit.Path == "" {
		return errors.New("audit.path is required when audit is enabled")
	}

	if c.Generator.Length <= 0 {
		return errors.New("generator.length must be positive")
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.New("log.format must be text or json")
	}

	return nil
}
