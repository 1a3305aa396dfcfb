package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent vault operations",
	Long: `Audit lists the local operation trail. The trail records which
operations ran and when; it never contains secret values. Enable it with
audit.enabled in the config.`,
	Args: cobra.NoArgs,
	RunE: runAudit,
}

var auditLimit int

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().IntVarP(&auditLimit, "limit", "l", 20, "Number of entries to show")
}

func runAudit(cmd *cobra.Command, args []string) error {
	if trail == nil {
		return errors.New("audit trail is disabled (set audit.enabled: true)")
	}

	entries, err := trail.Recent(auditLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(entries)
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No audit entries.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tOPERATION\tLABEL\tVAULT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Operation, e.Label, e.VaultPath)
	}
	return w.Flush()
}
