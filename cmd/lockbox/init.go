package main

import (
	"context"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new empty vault",
	Long: `Init creates the vault file, encrypted under a key derived from
your master passphrase. It refuses to overwrite an existing vault.`,
	Example: `  lockbox init
  lockbox init --vault /secure/vault.db`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	passphrase, err := promptNewPassphrase()
	if err != nil {
		return err
	}
	defer passphrase.Destroy()

	store := newStore()
	defer store.Close()

	if err := store.Init(context.Background(), passphrase); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{"success": true, "path": store.Path()})
	} else {
		printInfo("Vault created at %s", store.Path())
	}
	return nil
}
