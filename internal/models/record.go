package models

import (
	"strings"
	"time"
)

// Record is one stored credential.
type Record struct {
	Label     string    `json:"label"`
	Username  string    `json:"username,omitempty"`
	Secret    string    `json:"secret"`
	URL       string    `json:"url,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordSummary is the listing view of a record. It deliberately omits the
// secret so a plain `list` never puts credentials on a shared terminal.
type RecordSummary struct {
	Label     string    `json:"label"`
	Username  string    `json:"username,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MatchesSearch reports whether the record matches a case-insensitive query
// against label, username, URL, or tags.
func (r *Record) MatchesSearch(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(r.Label), q) ||
		strings.Contains(strings.ToLower(r.Username), q) ||
		strings.Contains(strings.ToLower(r.URL), q) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// VaultData is the decrypted record set. Records keep insertion order;
// labels are unique with exact, case-sensitive matching.
type VaultData struct {
	Records    []Record  `json:"records"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`

	index map[string]int
}

// NewVaultData creates an empty record set.
func NewVaultData() *VaultData {
	now := time.Now().UTC()
	return &VaultData{
		Records:    []Record{},
		CreatedAt:  now,
		ModifiedAt: now,
		index:      make(map[string]int),
	}
}

// Reindex rebuilds the label index after deserialization. It reports the
// first duplicate label found, if any.
func (v *VaultData) Reindex() (string, bool) {
	v.index = make(map[string]int, len(v.Records))
	for i, rec := range v.Records {
		if _, dup := v.index[rec.Label]; dup {
			return rec.Label, true
		}
		v.index[rec.Label] = i
	}
	return "", false
}

// Add appends a record. Fails with ErrDuplicateLabel if the label exists;
// add and update are distinct operations so nothing is silently overwritten.
func (v *VaultData) Add(rec Record) error {
	if _, ok := v.index[rec.Label]; ok {
		return ErrDuplicateLabel
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	v.index[rec.Label] = len(v.Records)
	v.Records = append(v.Records, rec)
	v.ModifiedAt = now
	return nil
}

// Get returns the record for label.
func (v *VaultData) Get(label string) (Record, error) {
	i, ok := v.index[label]
	if !ok {
		return Record{}, ErrNotFound
	}
	return v.Records[i], nil
}

// Update replaces the record for label, refreshing UpdatedAt. The label of
// the replacement is forced to match; relabeling is delete + add.
func (v *VaultData) Update(label string, rec Record) error {
	i, ok := v.index[label]
	if !ok {
		return ErrNotFound
	}
	rec.Label = label
	rec.CreatedAt = v.Records[i].CreatedAt
	rec.UpdatedAt = time.Now().UTC()
	v.Records[i] = rec
	v.ModifiedAt = rec.UpdatedAt
	return nil
}

// Delete removes the record for label.
func (v *VaultData) Delete(label string) error {
	i, ok := v.index[label]
	if !ok {
		return ErrNotFound
	}
	v.Records = append(v.Records[:i], v.Records[i+1:]...)
	v.ModifiedAt = time.Now().UTC()
	_, _ = v.Reindex()
	return nil
}

// List returns summaries in insertion order.
func (v *VaultData) List() []RecordSummary {
	out := make([]RecordSummary, 0, len(v.Records))
	for _, rec := range v.Records {
		out = append(out, RecordSummary{
			Label:     rec.Label,
			Username:  rec.Username,
			UpdatedAt: rec.UpdatedAt,
		})
	}
	return out
}

// Len returns the number of records.
func (v *VaultData) Len() int {
	return len(v.Records)
}

// Wipe overwrites secret fields in place before the data is released.
// Best effort: strings already handed out to callers are not reachable.
func (v *VaultData) Wipe() {
	for i := range v.Records {
		v.Records[i].Secret = ""
		v.Records[i].Notes = ""
	}
	v.Records = nil
	v.index = nil
}
