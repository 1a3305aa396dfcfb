package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorrow/lockbox/internal/export"
	"github.com/kmorrow/lockbox/internal/models"
)

func sampleData(t *testing.T) *models.VaultData {
	t.Helper()
	data := models.NewVaultData()
	require.NoError(t, data.Add(models.Record{
		Label:    "gmail",
		Username: "a@b.com",
		Secret:   "xyz",
		URL:      "https://mail.google.com",
		Tags:     []string{"mail", "personal"},
	}))
	return data
}

func TestWriteCSVMasksSecretsByDefault(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleData(t), false))

	out := buf.String()
	assert.Contains(t, out, "gmail,a@b.com,***")
	assert.NotContains(t, out, "xyz")
}

func TestWriteCSVPlaintextOptIn(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleData(t), true))

	assert.Contains(t, buf.String(), "xyz")
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleData(t), true))

	records, err := export.ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "gmail", rec.Label)
	assert.Equal(t, "a@b.com", rec.Username)
	assert.Equal(t, "xyz", rec.Secret)
	assert.Equal(t, "https://mail.google.com", rec.URL)
	assert.Equal(t, []string{"mail", "personal"}, rec.Tags)
}

func TestReadCSVSkipsInvalidRows(t *testing.T) {
	input := strings.Join([]string{
		"label,username,secret",
		",nobody,secret1",      // missing label
		"short,row",            // too few fields
		"ok,user,pass",
	}, "\n")

	records, err := export.ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].Label)
}
