package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kmorrow/lockbox/internal/models"
	"github.com/kmorrow/lockbox/internal/vault"
)

var addCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add a credential record",
	Long: `Add stores a new record under a unique label. Adding an existing
label fails; use update to replace a record.`,
	Example: `  lockbox add gmail --username a@b.com
  lockbox add wifi --notes "router password" --generate`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var (
	addUsername string
	addSecret   string
	addURL      string
	addNotes    string
	addTags     []string
	addGenerate bool
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addUsername, "username", "u", "", "Username for the record")
	addCmd.Flags().StringVarP(&addSecret, "secret", "s", "", "Secret value (will prompt if not provided)")
	addCmd.Flags().StringVar(&addURL, "url", "", "Associated URL")
	addCmd.Flags().StringVarP(&addNotes, "notes", "n", "", "Free-form notes")
	addCmd.Flags().StringSliceVarP(&addTags, "tag", "t", nil, "Tags (repeatable)")
	addCmd.Flags().BoolVarP(&addGenerate, "generate", "g", false, "Generate the secret instead of prompting")
}

func runAdd(cmd *cobra.Command, args []string) error {
	label := args[0]
	ctx := context.Background()

	secret := addSecret
	if secret == "" {
		var err error
		if addGenerate {
			secret, err = vault.GeneratePassword(generatorOptions())
		} else {
			secret, err = promptSecret("Secret for " + label + ": ")
		}
		if err != nil {
			return err
		}
	}

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

	rec := models.Record{
		Label:    label,
		Username: addUsername,
		Secret:   secret,
		URL:      addURL,
		Notes:    addNotes,
		Tags:     addTags,
	}
	if err := store.Add(rec); err != nil {
		return err
	}

	if err := store.Save(ctx, passphrase); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{"success": true, "label": label})
	} else {
		printInfo("Added %q", label)
		if addGenerate {
			printInfo("Generated secret: %s", secret)
		}
	}
	return nil
}

// generatorOptions maps config defaults to generator options.
func generatorOptions() vault.GeneratorOptions {
	return vault.GeneratorOptions{
		Length:         cfg.Generator.Length,
		Uppercase:      cfg.Generator.Uppercase,
		Lowercase:      cfg.Generator.Lowercase,
		Digits:         cfg.Generator.Digits,
		Symbols:        cfg.Generator.Symbols,
		AvoidAmbiguous: cfg.Generator.AvoidAmbiguous,
	}
}
