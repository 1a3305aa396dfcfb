package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "LOCKBOX"

// Load reads configuration from file and environment. An explicit path wins
// over the default search locations; environment variables with the LOCKBOX_
// prefix override everything.
func Load(configPath string) (*Config, error) {
	// A .env beside the binary is a convenience for development; missing is
	// not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".lockbox"))
			v.AddConfigPath(filepath.Join(home, ".config", "lockbox"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers defaults so env-only overrides work without a file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("vault.path", cfg.Vault.Path)
	v.SetDefault("kdf.memory_kib", cfg.KDF.MemoryKiB)
	v.SetDefault("kdf.time", cfg.KDF.Time)
	v.SetDefault("kdf.parallelism", cfg.KDF.Parallelism)
	v.SetDefault("audit.enabled", cfg.Audit.Enabled)
	v.SetDefault("audit.path", cfg.Audit.Path)
	v.SetDefault("generator.length", cfg.Generator.Length)
	v.SetDefault("generator.uppercase", cfg.Generator.Uppercase)
	v.SetDefault("generator.lowercase", cfg.Generator.Lowercase)
	v.SetDefault("generator.digits", cfg.Generator.Digits)
	v.SetDefault("generator.symbols", cfg.Generator.Symbols)
	v.SetDefault("generator.avoid_ambiguous", cfg.Generator.AvoidAmbiguous)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
}
