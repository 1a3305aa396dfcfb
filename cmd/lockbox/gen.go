package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmorrow/lockbox/internal/vault"
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a random password without touching the vault",
	Example: `  lockbox gen
  lockbox gen --length 32 --no-symbols`,
	Args: cobra.NoArgs,
	RunE: runGen,
}

var (
	genLength    int
	genNoUpper   bool
	genNoLower   bool
	genNoDigits  bool
	genNoSymbols bool
	genAmbiguous bool
)

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().IntVarP(&genLength, "length", "l", 0, "Password length (default from config)")
	genCmd.Flags().BoolVar(&genNoUpper, "no-upper", false, "Exclude uppercase letters")
	genCmd.Flags().BoolVar(&genNoLower, "no-lower", false, "Exclude lowercase letters")
	genCmd.Flags().BoolVar(&genNoDigits, "no-digits", false, "Exclude digits")
	genCmd.Flags().BoolVar(&genNoSymbols, "no-symbols", false, "Exclude symbols")
	genCmd.Flags().BoolVar(&genAmbiguous, "ambiguous", false, "Allow lookalike characters (0/O, 1/l)")
}

func runGen(cmd *cobra.Command, args []string) error {
	opts := generatorOptions()
	if genLength > 0 {
		opts.Length = genLength
	}
	opts.Uppercase = opts.Uppercase && !genNoUpper
	opts.Lowercase = opts.Lowercase && !genNoLower
	opts.Digits = opts.Digits && !genNoDigits
	opts.Symbols = opts.Symbols && !genNoSymbols
	opts.AvoidAmbiguous = opts.AvoidAmbiguous && !genAmbiguous

	password, err := vault.GeneratePassword(opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{"password": password, "length": len(password)})
	} else {
		fmt.Println(password)
	}
	return nil
}
