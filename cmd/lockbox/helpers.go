package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"
	"golang.org/x/text/unicode/norm"

	"github.com/kmorrow/lockbox/internal/crypto"
	"github.com/kmorrow/lockbox/internal/models"
)

// promptPassphrase reads the master passphrase without echo and returns it
// as a SecretBuffer. The input is normalized to NFKC so the same passphrase
// typed on different platforms derives the same key.
func promptPassphrase(prompt string) (*crypto.SecretBuffer, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}

	normalized := norm.NFKC.Bytes(raw)
	crypto.Wipe(raw)

	secret := crypto.NewSecret(normalized)
	crypto.Wipe(normalized)
	return secret, nil
}

// promptNewPassphrase asks twice and requires both entries to match.
func promptNewPassphrase() (*crypto.SecretBuffer, error) {
	first, err := promptPassphrase("New master passphrase: ")
	if err != nil {
		return nil, err
	}

	second, err := promptPassphrase("Confirm passphrase: ")
	if err != nil {
		first.Destroy()
		return nil, err
	}
	defer second.Destroy()

	if string(first.Bytes()) != string(second.Bytes()) {
		first.Destroy()
		return nil, errors.New("passphrases do not match")
	}
	return first, nil
}

// promptSecret reads a record secret without echo.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	out := string(raw)
	crypto.Wipe(raw)
	return out, nil
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		printError("Encode output: %v", err)
		return
	}
	fmt.Println(string(data))
}

func printInfo(format string, args ...interface{}) {
	fmt.Println(color.GreenString(format, args...))
}

func printError(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, color.RedString(format, args...))
}

// printUserError maps engine errors to messages. The wrong-passphrase and
// corruption cases share one message; the engine merges them and this layer
// must not re-split them.
func printUserError(err error) {
	switch {
	case errors.Is(err, models.ErrWrongPassphraseOrCorrupt):
		printError("Error: wrong passphrase or corrupted vault")
	case errors.Is(err, models.ErrVaultBusy):
		printError("Error: vault is in use by another process")
	case errors.Is(err, models.ErrVaultNotFound):
		printError("Error: vault not found (run `lockbox init` first)")
	case errors.Is(err, models.ErrAlreadyExists):
		printError("Error: vault already exists")
	case errors.Is(err, models.ErrDuplicateLabel):
		printError("Error: a record with that label already exists (use `lockbox update`)")
	case errors.Is(err, models.ErrEmptyLabel):
		printError("Error: record label must not be empty")
	case errors.Is(err, models.ErrNotFound):
		printError("Error: no record with that label")
	default:
		printError("Error: %v", err)
	}
}
