package vault_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorrow/lockbox/internal/crypto"
	"github.com/kmorrow/lockbox/internal/models"
	"github.com/kmorrow/lockbox/internal/vault"
)

func samplePayload(t *testing.T) *models.VaultData {
	t.Helper()
	data := models.NewVaultData()
	require.NoError(t, data.Add(models.Record{
		Label:    "gmail",
		Username: "a@b.com",
		Secret:   "xyz",
		Tags:     []string{"mail", "personal"},
	}))
	require.NoError(t, data.Add(models.Record{
		Label:  "bank",
		Secret: "correct horse",
		Notes:  "ask branch for OTP reset",
	}))
	return data
}

func sampleEnvelope() *vault.Envelope {
	return &vault.Envelope{
		Version:        vault.FormatVersion,
		KDFAlgorithm:   crypto.KDFAlgorithmArgon2id,
		KDFMemoryKiB:   64 * 1024,
		KDFTime:        2,
		KDFParallelism: 1,
		Salt:           bytes.Repeat([]byte{0x11}, 16),
		Nonce:          bytes.Repeat([]byte{0x22}, crypto.NonceSize),
		Ciphertext:     []byte("not real ciphertext but length is fine"),
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data *models.VaultData
	}{
		{"empty", models.NewVaultData()},
		{"records", samplePayload(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := vault.EncodePayload(tt.data)
			require.NoError(t, err)

			got, err := vault.DecodePayload(buf)
			require.NoError(t, err)

			assert.Equal(t, tt.data.Len(), got.Len())
			for _, rec := range tt.data.Records {
				round, err := got.Get(rec.Label)
				require.NoError(t, err)
				assert.Equal(t, rec.Username, round.Username)
				assert.Equal(t, rec.Secret, round.Secret)
				assert.Equal(t, rec.Tags, round.Tags)
				assert.Equal(t, rec.Notes, round.Notes)
				assert.WithinDuration(t, rec.UpdatedAt, round.UpdatedAt, 0)
			}
			// Insertion order survives.
			assert.Equal(t, tt.data.List(), got.List())
		})
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, err := vault.DecodePayload([]byte("{not json"))
	var ferr *models.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, models.InvalidPayload, ferr.Reason)
}

func TestDecodePayloadRejectsDuplicateLabels(t *testing.T) {
	buf := []byte(`{"records":[{"label":"a","secret":"1"},{"label":"a","secret":"2"}]}`)
	_, err := vault.DecodePayload(buf)
	var ferr *models.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, models.InvalidPayload, ferr.Reason)
	assert.Contains(t, ferr.Detail, `"a"`)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := sampleEnvelope()

	raw, err := vault.EncodeEnvelope(env)
	require.NoError(t, err)

	got, err := vault.DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, env, got)
}

func TestEncodeEnvelopeValidation(t *testing.T) {
	t.Run("bad salt length", func(t *testing.T) {
		env := sampleEnvelope()
		env.Salt = []byte{1, 2, 3}
		_, err := vault.EncodeEnvelope(env)
		assert.Error(t, err)
	})

	t.Run("bad nonce length", func(t *testing.T) {
		env := sampleEnvelope()
		env.Nonce = []byte{1, 2, 3}
		_, err := vault.EncodeEnvelope(env)
		assert.Error(t, err)
	})
}

func TestDecodeEnvelopeBadMagic(t *testing.T) {
	raw, err := vault.EncodeEnvelope(sampleEnvelope())
	require.NoError(t, err)
	raw[0] ^= 0xFF

	_, err = vault.DecodeEnvelope(raw)
	var ferr *models.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, models.BadMagic, ferr.Reason)
}

func TestDecodeEnvelopeUnsupportedVersion(t *testing.T) {
	env := sampleEnvelope()
	env.Version = vault.FormatVersion + 1
	raw, err := vault.EncodeEnvelope(env)
	require.NoError(t, err)

	_, err = vault.DecodeEnvelope(raw)
	var ferr *models.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, models.UnsupportedVersion, ferr.Reason)
}

func TestDecodeEnvelopeTruncated(t *testing.T) {
	raw, err := vault.EncodeEnvelope(sampleEnvelope())
	require.NoError(t, err)

	// Every strict prefix must fail as Truncated (after the magic survives)
	// or BadMagic (before it is complete), never parse.
	for cut := 0; cut < len(raw); cut++ {
		_, err := vault.DecodeEnvelope(raw[:cut])
		require.Errorf(t, err, "prefix of %d bytes parsed", cut)
		var ferr *models.FormatError
		require.ErrorAs(t, err, &ferr)
		if cut >= len(vault.Magic) {
			assert.Equal(t, models.Truncated, ferr.Reason, "cut at %d", cut)
		}
	}
}

func TestDecodeEnvelopeTrailingBytes(t *testing.T) {
	raw, err := vault.EncodeEnvelope(sampleEnvelope())
	require.NoError(t, err)
	raw = append(raw, 0xAA)

	_, err = vault.DecodeEnvelope(raw)
	var ferr *models.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, models.TrailingData, ferr.Reason)
	assert.Contains(t, ferr.Detail, "1 bytes")
}

func TestEnvelopeKDFParams(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		params, err := sampleEnvelope().KDFParams()
		require.NoError(t, err)
		assert.Equal(t, uint32(64*1024), params.MemoryKiB)
		assert.Equal(t, uint8(1), params.Parallelism)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		env := sampleEnvelope()
		env.KDFAlgorithm = 9
		_, err := env.KDFParams()
		var ferr *models.FormatError
		assert.ErrorAs(t, err, &ferr)
	})

	t.Run("parallelism overflow", func(t *testing.T) {
		env := sampleEnvelope()
		env.KDFParallelism = 300
		_, err := env.KDFParams()
		var derr *models.DerivationError
		assert.ErrorAs(t, err, &derr)
	})
}
