package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kmorrow/lockbox/internal/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records (labels only, secrets are never shown)",
	Example: `  lockbox list
  lockbox list --search mail`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listSearch string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listSearch, "search", "s", "",
		"Filter by label, username, URL, or tag")
}

func runList(cmd *cobra.Command, args []string) error {
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

	var summaries []models.RecordSummary
	if listSearch != "" {
		summaries, err = store.Search(listSearch)
	} else {
		summaries, err = store.List()
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(summaries)
		return nil
	}

	if len(summaries) == 0 {
		fmt.Println("No records.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tUSERNAME\tUPDATED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			s.Label, s.Username, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
