// Package vault implements the encrypted vault engine: the on-disk envelope
// codec and the store that loads, mutates, and atomically persists it.
package vault

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/kmorrow/lockbox/internal/crypto"
	"github.com/kmorrow/lockbox/internal/models"
)

// Magic identifies a lockbox vault file.
var Magic = [8]byte{'L', 'B', 'V', 'A', 'U', 'L', 'T', '1'}

// FormatVersion is the newest envelope version this build writes and reads.
const FormatVersion uint16 = 1

// Envelope is the self-describing on-disk container. Everything needed to
// decrypt it is inside, except the master passphrase.
type Envelope struct {
	Version        uint16
	KDFAlgorithm   uint8
	KDFMemoryKiB   uint32
	KDFTime        uint32
	KDFParallelism uint32
	Salt           []byte
	Nonce          []byte
	Ciphertext     []byte // includes trailing authentication tag
}

// KDFParams converts the stored derivation fields. Parallelism above 255 is
// unrepresentable for Argon2id and rejected.
func (e *Envelope) KDFParams() (crypto.KDFParams, error) {
	if e.KDFAlgorithm != crypto.KDFAlgorithmArgon2id {
		return crypto.KDFParams{}, &models.FormatError{
			Reason: models.UnsupportedVersion,
			Detail: fmt.Sprintf("kdf algorithm %d", e.KDFAlgorithm),
		}
	}
	if e.KDFParallelism > 255 {
		return crypto.KDFParams{}, &models.DerivationError{
			Reason: fmt.Sprintf("parallelism %d out of range", e.KDFParallelism),
		}
	}
	return crypto.KDFParams{
		MemoryKiB:   e.KDFMemoryKiB,
		Time:        e.KDFTime,
		Parallelism: uint8(e.KDFParallelism),
	}, nil
}

// EncodePayload serializes the record set to the canonical plaintext bytes.
func EncodePayload(data *models.VaultData) ([]byte, error) {
	buf, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return buf, nil
}

// DecodePayload parses plaintext bytes back into a record set. Exact inverse
// of EncodePayload. Duplicate labels are corrupt input, not a merge.
func DecodePayload(buf []byte) (*models.VaultData, error) {
	data := models.NewVaultData()
	if err := json.Unmarshal(buf, data); err != nil {
		return nil, &models.FormatError{Reason: models.InvalidPayload, Detail: err.Error()}
	}
	if label, dup := data.Reindex(); dup {
		return nil, &models.FormatError{
			Reason: models.InvalidPayload,
			Detail: fmt.Sprintf("duplicate label %q", label),
		}
	}
	return data, nil
}

// EncodeEnvelope serializes the on-disk layout. All integers little-endian:
//
//	magic[8] version:u16 kdf_alg:u8 mem_kib:u32 time:u32 parallelism:u32
//	salt_len:u8 salt nonce[12] ct_len:u32 ciphertext+tag
func EncodeEnvelope(env *Envelope) ([]byte, error) {
	if len(env.Salt) < crypto.MinSaltSize || len(env.Salt) > crypto.MaxSaltSize {
		return nil, fmt.Errorf("encode envelope: salt length %d out of range", len(env.Salt))
	}
	if len(env.Nonce) != crypto.NonceSize {
		return nil, fmt.Errorf("encode envelope: nonce length %d, want %d", len(env.Nonce), crypto.NonceSize)
	}

	buf := new(bytes.Buffer)
	buf.Write(Magic[:])

	le := binary.LittleEndian
	var scratch [4]byte

	le.PutUint16(scratch[:2], env.Version)
	buf.Write(scratch[:2])

	buf.WriteByte(env.KDFAlgorithm)

	le.PutUint32(scratch[:], env.KDFMemoryKiB)
	buf.Write(scratch[:])
	le.PutUint32(scratch[:], env.KDFTime)
	buf.Write(scratch[:])
	le.PutUint32(scratch[:], env.KDFParallelism)
	buf.Write(scratch[:])

	buf.WriteByte(uint8(len(env.Salt)))
	buf.Write(env.Salt)
	buf.Write(env.Nonce)

	le.PutUint32(scratch[:], uint32(len(env.Ciphertext)))
	buf.Write(scratch[:])
	buf.Write(env.Ciphertext)

	return buf.Bytes(), nil
}

// DecodeEnvelope parses the on-disk layout, checking the magic, the version,
// and every declared length against the available bytes.
func DecodeEnvelope(buf []byte) (*Envelope, error) {
	r := &envelopeReader{buf: buf}

	magic, err := r.take(len(Magic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, Magic[:]) {
		return nil, &models.FormatError{Reason: models.BadMagic}
	}

	env := &Envelope{}
	if env.Version, err = r.uint16(); err != nil {
		return nil, err
	}
	if env.Version > FormatVersion {
		return nil, &models.FormatError{
			Reason: models.UnsupportedVersion,
			Detail: fmt.Sprintf("format version %d, newest supported %d", env.Version, FormatVersion),
		}
	}

	if env.KDFAlgorithm, err = r.uint8(); err != nil {
		return nil, err
	}
	if env.KDFMemoryKiB, err = r.uint32(); err != nil {
		return nil, err
	}
	if env.KDFTime, err = r.uint32(); err != nil {
		return nil, err
	}
	if env.KDFParallelism, err = r.uint32(); err != nil {
		return nil, err
	}

	saltLen, err := r.uint8()
	if err != nil {
		return nil, err
	}
	if env.Salt, err = r.take(int(saltLen)); err != nil {
		return nil, err
	}
	if env.Nonce, err = r.take(crypto.NonceSize); err != nil {
		return nil, err
	}

	ctLen, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if env.Ciphertext, err = r.take(int(ctLen)); err != nil {
		return nil, err
	}

	if r.remaining() != 0 {
		return nil, &models.FormatError{
			Reason: models.TrailingData,
			Detail: fmt.Sprintf("%d bytes beyond declared lengths", r.remaining()),
		}
	}

	return env, nil
}

// envelopeReader walks the byte layout, turning any shortage into Truncated.
type envelopeReader struct {
	buf []byte
	off int
}

func (r *envelopeReader) take(n int) ([]byte, error) {
	if r.off+n > len(r.buf) {
		return nil, &models.FormatError{
			Reason: models.Truncated,
			Detail: fmt.Sprintf("need %d bytes at offset %d, have %d", n, r.off, len(r.buf)-r.off),
		}
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out, nil
}

func (r *envelopeReader) uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *envelopeReader) uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *envelopeReader) uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *envelopeReader) remaining() int {
	return len(r.buf) - r.off
}
