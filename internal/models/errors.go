package models

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrAlreadyExists  = errors.New("vault already exists")
	ErrVaultNotFound  = errors.New("vault not found")
	ErrVaultBusy      = errors.New("vault is locked by another process")
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateLabel = errors.New("record label already exists")
	ErrEmptyLabel     = errors.New("record label must not be empty")
	ErrVaultSealed    = errors.New("vault not unlocked")

	// ErrWrongPassphraseOrCorrupt covers both authentication failure and
	// on-disk corruption. The two cases are merged on purpose so callers
	// cannot build an oracle out of which check failed.
	ErrWrongPassphraseOrCorrupt = errors.New("wrong passphrase or corrupted vault")
)

// FormatReason identifies why envelope parsing failed.
type FormatReason string

const (
	BadMagic           FormatReason = "bad magic"
	UnsupportedVersion FormatReason = "unsupported version"
	Truncated          FormatReason = "truncated"
	TrailingData       FormatReason = "trailing data"
	InvalidPayload     FormatReason = "invalid payload"
)

// FormatError represents a malformed vault envelope or payload.
type FormatError struct {
	Reason FormatReason
	Detail string
}

func (e *FormatError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("vault format: %s: %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("vault format: %s", e.Reason)
}

// Is lets errors.Is match any FormatError, or one with the same reason.
func (e *FormatError) Is(target error) bool {
	t, ok := target.(*FormatError)
	if !ok {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// DerivationError represents malformed key-derivation inputs. It is never
// raised for passphrase content, only for parameters.
type DerivationError struct {
	Reason string
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("key derivation: %s", e.Reason)
}
