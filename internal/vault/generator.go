package vault

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	ambiguousChars = "il1Lo0O"
)

// GeneratorOptions controls password generation.
type GeneratorOptions struct {
	Length         int
	Uppercase      bool
	Lowercase      bool
	Digits         bool
	Symbols        bool
	AvoidAmbiguous bool
}

// DefaultGeneratorOptions returns 16 characters from all classes, with
// lookalike characters excluded.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:         16,
		Uppercase:      true,
		Lowercase:      true,
		Digits:         true,
		Symbols:        true,
		AvoidAmbiguous: true,
	}
}

// GeneratePassword draws from the selected character classes using the
// system's cryptographic random source.
func GeneratePassword(opts GeneratorOptions) (string, error) {
	if opts.Length <= 0 {
		return "", errors.New("password length must be positive")
	}

	var charset strings.Builder
	if opts.Uppercase {
		charset.WriteString(uppercaseChars)
	}
	if opts.Lowercase {
		charset.WriteString(lowercaseChars)
	}
	if opts.Digits {
		charset.WriteString(digitChars)
	}
	if opts.Symbols {
		charset.WriteString(symbolChars)
	}

	chars := charset.String()
	if opts.AvoidAmbiguous {
		chars = strings.Map(func(r rune) rune {
			if strings.ContainsRune(ambiguousChars, r) {
				return -1
			}
			return r
		}, chars)
	}

	if chars == "" {
		return "", errors.New("at least one character class must be selected")
	}

	max := big.NewInt(int64(len(chars)))
	out := make([]byte, opts.Length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = chars[n.Int64()]
	}

	return string(out), nil
}
