package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kmorrow/lockbox/internal/vault"
)

var updateCmd = &cobra.Command{
	Use:   "update <label>",
	Short: "Replace fields of an existing record",
	Long: `Update replaces the record stored under a label and refreshes its
timestamp. Flags that are not set keep their current value.`,
	Example: `  lockbox update gmail --secret newpass
  lockbox update gmail --username new@b.com`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var (
	updateUsername string
	updateSecret   string
	updateURL      string
	updateNotes    string
	updateTags     []string
	updateGenerate bool
)

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVarP(&updateUsername, "username", "u", "", "New username")
	updateCmd.Flags().StringVarP(&updateSecret, "secret", "s", "", "New secret value")
	updateCmd.Flags().StringVar(&updateURL, "url", "", "New URL")
	updateCmd.Flags().StringVarP(&updateNotes, "notes", "n", "", "New notes")
	updateCmd.Flags().StringSliceVarP(&updateTags, "tag", "t", nil, "New tags (replaces all)")
	updateCmd.Flags().BoolVarP(&updateGenerate, "generate", "g", false, "Generate a new secret")
}

func runUpdate(cmd *cobra.Command, args []string) error {
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

	rec, err := store.Get(label)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("username") {
		rec.Username = updateUsername
	}
	if cmd.Flags().Changed("url") {
		rec.URL = updateURL
	}
	if cmd.Flags().Changed("notes") {
		rec.Notes = updateNotes
	}
	if cmd.Flags().Changed("tag") {
		rec.Tags = updateTags
	}

	generated := ""
	switch {
	case updateGenerate:
		generated, err = vault.GeneratePassword(generatorOptions())
		if err != nil {
			return err
		}
		rec.Secret = generated
	case cmd.Flags().Changed("secret"):
		rec.Secret = updateSecret
	}

	if err := store.Update(label, rec); err != nil {
		return err
	}

	if err := store.Save(ctx, passphrase); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{"success": true, "label": label})
	} else {
		printInfo("Updated %q", label)
		if generated != "" {
			printInfo("Generated secret: %s", generated)
		}
	}
	return nil
}
