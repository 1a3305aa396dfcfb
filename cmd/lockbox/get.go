package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <label>",
	Short: "Show one record, including its secret",
	Example: `  lockbox get gmail
  lockbox get gmail --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var getShowSecret bool

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().BoolVar(&getShowSecret, "show-secret", false,
		"Print the secret value instead of masking it")
}

func runGet(cmd *cobra.Command, args []string) error {
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

	secret := "***"
	if getShowSecret {
		secret = rec.Secret
	}

	if jsonOutput {
		out := map[string]interface{}{
			"label":      rec.Label,
			"username":   rec.Username,
			"secret":     secret,
			"updated_at": rec.UpdatedAt,
		}
		if rec.URL != "" {
			out["url"] = rec.URL
		}
		if rec.Notes != "" {
			out["notes"] = rec.Notes
		}
		if len(rec.Tags) > 0 {
			out["tags"] = rec.Tags
		}
		printJSON(out)
		return nil
	}

	fmt.Printf("Label:    %s\n", rec.Label)
	if rec.Username != "" {
		fmt.Printf("Username: %s\n", rec.Username)
	}
	fmt.Printf("Secret:   %s\n", secret)
	if rec.URL != "" {
		fmt.Printf("URL:      %s\n", rec.URL)
	}
	if len(rec.Tags) > 0 {
		fmt.Printf("Tags:     %s\n", strings.Join(rec.Tags, ", "))
	}
	if rec.Notes != "" {
		fmt.Printf("Notes:    %s\n", rec.Notes)
	}
	fmt.Printf("Updated:  %s\n", rec.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}
