package main

import (
	"context"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <label>",
	Aliases: []string{"rm"},
	Short:   "Delete a record",
	Example: `  lockbox delete gmail`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	label := args[0]
	ctx := context.Background()

	passphrase, err := promptPassphrase("Master passphrase: ")
	if err != nil {
		return err
	}
	defer passphrase.Destroy()

	store := newStore()
	defer store.Close()

	if err := store.Load(ctx, passphrase); err != nil {
		return err
	}

	if err := store.Delete(label); err != nil {
		return err
	}

	if err := store.Save(ctx, passphrase); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{"success": true, "label": label})
	} else {
		printInfo("Deleted %q", label)
	}
	return nil
}
