package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmorrow/lockbox/internal/export"
	"github.com/kmorrow/lockbox/internal/models"
	"github.com/kmorrow/lockbox/internal/vault"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Export records to CSV",
	Long: `Export writes all records to a CSV file. Secrets are masked
unless --plaintext is given; exported plaintext leaves the vault's
protection entirely.`,
	Example: `  lockbox export backup.csv
  lockbox export backup.csv --plaintext`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var exportPlaintext bool

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&exportPlaintext, "plaintext", false,
		"Include secret values in the export")
}

func runExport(cmd *cobra.Command, args []string) error {
	outPath := args[0]
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

	summaries, err := store.List()
	if err != nil {
		return err
	}

	data := models.NewVaultData()
	for _, s := range summaries {
		rec, err := store.Get(s.Label)
		if err != nil {
			return err
		}
		if err := data.Add(rec); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := export.WriteCSV(f, data, exportPlaintext); err != nil {
		return err
	}
	data.Wipe()

	if jsonOutput {
		printJSON(map[string]interface{}{"success": true, "records": len(summaries), "path": outPath})
	} else {
		printInfo("Exported %d records to %s", len(summaries), outPath)
		if exportPlaintext {
			printError("Warning: the export contains plaintext secrets")
		}
	}
	return nil
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import records from CSV",
	Long: `Import reads records from a CSV file and adds them to the vault.
Rows whose label already exists are reported and skipped.`,
	Example: `  lockbox import backup.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	ctx := context.Background()

	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	records, err := export.ReadCSV(f)
	if err != nil {
		return err
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

	added, skipped, err := importRecords(store, records)
	if err != nil {
		return err
	}

	if err := store.Save(ctx, passphrase); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{"success": true, "added": added, "skipped": skipped})
	} else {
		printInfo("Imported %d records (%d skipped)", added, len(skipped))
		for _, label := range skipped {
			printError("Skipped duplicate label %q", label)
		}
	}
	return nil
}

// importRecords adds records one by one, skipping duplicate labels. Any
// other failure aborts the import before anything is saved.
func importRecords(store *vault.Store, records []models.Record) (int, []string, error) {
	added := 0
	var skipped []string
	for _, rec := range records {
		if err := store.Add(rec); err != nil {
			if errors.Is(err, models.ErrDuplicateLabel) {
				skipped = append(skipped, rec.Label)
				continue
			}
			return added, skipped, err
		}
		added++
	}
	return added, skipped, nil
}
