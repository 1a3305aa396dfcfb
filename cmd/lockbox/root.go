package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmorrow/lockbox/internal/audit"
	"github.com/kmorrow/lockbox/internal/config"
	"github.com/kmorrow/lockbox/internal/crypto"
	"github.com/kmorrow/lockbox/internal/events"
	"github.com/kmorrow/lockbox/internal/vault"
)

var rootCmd = &cobra.Command{
	Use:   "lockbox",
	Short: "Local encrypted password vault",
	Long: `Lockbox stores credentials in a single file encrypted with a key
derived from your master passphrase. Every command unlocks the vault,
applies its change, and writes a fresh envelope atomically.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var (
	cfgFile    string
	vaultPath  string
	jsonOutput bool
	verbose    bool

	cfg    *config.Config
	logger *events.Logger
	trail  *audit.Trail
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file path (default: ./config.yaml, ~/.lockbox/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "",
		"Vault file path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

// setup loads config and wires the logger and optional audit trail before
// any command runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err = events.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	if vaultPath == "" {
		vaultPath = cfg.Vault.Path
	}

	if cfg.Audit.Enabled {
		trail, err = audit.Open(cfg.Audit.Path, logger)
		if err != nil {
			return fmt.Errorf("open audit trail: %w", err)
		}
	}

	return nil
}

// newStore builds the vault store for the resolved path.
func newStore() *vault.Store {
	opts := []vault.Option{
		vault.WithKDFParams(crypto.KDFParams{
			MemoryKiB:   cfg.KDF.MemoryKiB,
			Time:        cfg.KDF.Time,
			Parallelism: cfg.KDF.Parallelism,
		}),
	}
	if trail != nil {
		opts = append(opts, vault.WithAudit(trail))
	}
	return vault.New(vaultPath, logger, opts...)
}

// Execute runs the CLI.
func Execute() error {
	defer func() {
		if trail != nil {
			_ = trail.Close()
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		printUserError(err)
		return err
	}
	return nil
}
