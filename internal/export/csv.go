// Package export moves records in and out of the vault as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/kmorrow/lockbox/internal/models"
)

// MaskedSecret replaces secret values in exports unless the caller
// explicitly asks for plaintext.
const MaskedSecret = "***"

var csvHeader = []string{"label", "username", "secret", "url", "notes", "tags"}

// WriteCSV writes all records. Secrets are masked unless includeSecrets is
// set; an export that leaves the vault's protection is an explicit decision.
func WriteCSV(w io.Writer, data *models.VaultData, includeSecrets bool) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range data.Records {
		secret := MaskedSecret
		if includeSecrets {
			secret = rec.Secret
		}
		row := []string{
			rec.Label,
			rec.Username,
			secret,
			rec.URL,
			rec.Notes,
			strings.Join(rec.Tags, ";"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses records from CSV. Rows without a label are skipped; the
// header row is detected and ignored. Inserting the result into a vault is
// the caller's job, so duplicate handling follows the store's add policy.
func ReadCSV(r io.Reader) ([]models.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var records []models.Record
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		if first {
			first = false
			if len(row) > 0 && strings.EqualFold(row[0], "label") {
				continue
			}
		}

		if len(row) < 3 || row[0] == "" {
			continue
		}

		rec := models.Record{
			Label:    row[0],
			Username: row[1],
			Secret:   row[2],
		}
		if len(row) > 3 {
			rec.URL = row[3]
		}
		if len(row) > 4 {
			rec.Notes = row[4]
		}
		if len(row) > 5 && row[5] != "" {
			for _, tag := range strings.Split(row[5], ";") {
				if tag = strings.TrimSpace(tag); tag != "" {
					rec.Tags = append(rec.Tags, tag)
				}
			}
		}

		records = append(records, rec)
	}

	return records, nil
}
