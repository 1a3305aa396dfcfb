// Package crypto implements the vault's key derivation, authenticated
// encryption, and secret memory handling.
package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"

	"github.com/kmorrow/lockbox/internal/models"
)

const (
	// KeySize is the derived key length (AES-256).
	KeySize = 32

	// Salt bounds accepted by Derive.
	MinSaltSize = 16
	MaxSaltSize = 32

	// Argon2id floors. Envelopes store their own parameters, so these only
	// constrain what this build will derive with, not what it can read.
	MinMemoryKiB   = 19 * 1024
	MinTimeCost    = 2
	MinParallelism = 1
)

// KDFAlgorithmArgon2id is the only algorithm id currently written to disk.
const KDFAlgorithmArgon2id = 1

// KDFParams are the tunable Argon2id cost parameters. They are persisted in
// the envelope so older vaults stay readable if defaults change.
type KDFParams struct {
	MemoryKiB   uint32
	Time        uint32
	Parallelism uint8
}

// DefaultKDFParams returns the derivation costs used for new envelopes:
// 64 MiB, two passes, one lane.
func DefaultKDFParams() KDFParams {
	return KDFParams{MemoryKiB: 64 * 1024, Time: 2, Parallelism: 1}
}

// Validate checks the parameters against the minimum costs.
func (p KDFParams) Validate() error {
	if p.MemoryKiB < MinMemoryKiB {
		return &models.DerivationError{Reason: fmt.Sprintf("memory cost %d KiB below minimum %d", p.MemoryKiB, MinMemoryKiB)}
	}
	if p.Time < MinTimeCost {
		return &models.DerivationError{Reason: fmt.Sprintf("time cost %d below minimum %d", p.Time, MinTimeCost)}
	}
	if p.Parallelism < MinParallelism {
		return &models.DerivationError{Reason: "parallelism must be at least 1"}
	}
	return nil
}

// Derive stretches a passphrase into a 32-byte key with Argon2id. It is
// deterministic for fixed inputs and fails only on malformed parameters or
// salt, never on passphrase content. An empty passphrase is accepted;
// passphrase policy belongs to the caller.
func Derive(passphrase *SecretBuffer, salt []byte, params KDFParams) (*SecretBuffer, error) {
	if len(salt) < MinSaltSize || len(salt) > MaxSaltSize {
		return nil, &models.DerivationError{Reason: fmt.Sprintf("salt must be %d..%d bytes, got %d", MinSaltSize, MaxSaltSize, len(salt))}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	raw := argon2.IDKey(passphrase.Bytes(), salt, params.Time, params.MemoryKiB, params.Parallelism, KeySize)
	key := NewSecret(raw)
	Wipe(raw)
	return key, nil
}

// NewSalt generates a random derivation salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, MinSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}
