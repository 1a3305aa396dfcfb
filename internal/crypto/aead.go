package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/kmorrow/lockbox/internal/models"
)

const (
	NonceSize = 12 // GCM standard
	TagSize   = 16 // GCM tag
)

// ErrAuthFailed is returned when the authentication tag does not verify.
// Wrong key, wrong nonce, and tampered ciphertext are indistinguishable.
var ErrAuthFailed = errors.New("authentication failed")

// Seal encrypts plaintext with AES-256-GCM under key and nonce, returning
// ciphertext with the trailing tag. The nonce must be freshly random for
// every call under the same key; reuse breaks confidentiality. Callers
// generate it with NewNonce immediately before sealing.
func Seal(key *SecretBuffer, nonce, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("invalid nonce size: expected %d, got %d", NonceSize, len(nonce))
	}
	return aead.Seal(nil, nonce, plaintext, nil), nil
}

// Open decrypts and authenticates ciphertext produced by Seal. Any tag
// mismatch surfaces as ErrAuthFailed.
func Open(key *SecretBuffer, nonce, ciphertextAndTag []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, ErrAuthFailed
	}
	if len(ciphertextAndTag) < TagSize {
		return nil, ErrAuthFailed
	}
	plaintext, err := aead.Open(nil, nonce, ciphertextAndTag, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

// NewNonce generates a fresh random nonce.
func NewNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return nonce, nil
}

func newAEAD(key *SecretBuffer) (cipher.AEAD, error) {
	if key.Len() != KeySize {
		return nil, &models.DerivationError{Reason: fmt.Sprintf("invalid key size: expected %d, got %d", KeySize, key.Len())}
	}
	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return aead, nil
}
