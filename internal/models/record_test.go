package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorrow/lockbox/internal/models"
)

func TestVaultDataAddGetOrder(t *testing.T) {
	data := models.NewVaultData()
	require.NoError(t, data.Add(models.Record{Label: "b", Secret: "1"}))
	require.NoError(t, data.Add(models.Record{Label: "a", Secret: "2"}))

	// Insertion order, not lexical.
	list := data.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Label)
	assert.Equal(t, "a", list[1].Label)

	rec, err := data.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "2", rec.Secret)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestVaultDataDuplicate(t *testing.T) {
	data := models.NewVaultData()
	require.NoError(t, data.Add(models.Record{Label: "a", Secret: "1"}))
	assert.ErrorIs(t, data.Add(models.Record{Label: "a", Secret: "2"}), models.ErrDuplicateLabel)
}

func TestVaultDataUpdatePreservesIdentity(t *testing.T) {
	data := models.NewVaultData()
	require.NoError(t, data.Add(models.Record{Label: "a", Secret: "1"}))
	orig, _ := data.Get("a")

	// Update cannot relabel and keeps CreatedAt.
	require.NoError(t, data.Update("a", models.Record{Label: "sneaky", Secret: "2"}))
	rec, err := data.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.Label)
	assert.Equal(t, "2", rec.Secret)
	assert.Equal(t, orig.CreatedAt, rec.CreatedAt)

	_, err = data.Get("sneaky")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestVaultDataDeleteReindexes(t *testing.T) {
	data := models.NewVaultData()
	require.NoError(t, data.Add(models.Record{Label: "a", Secret: "1"}))
	require.NoError(t, data.Add(models.Record{Label: "b", Secret: "2"}))
	require.NoError(t, data.Add(models.Record{Label: "c", Secret: "3"}))

	require.NoError(t, data.Delete("b"))

	rec, err := data.Get("c")
	require.NoError(t, err)
	assert.Equal(t, "3", rec.Secret)
	assert.Equal(t, 2, data.Len())
}

func TestReindexDetectsDuplicates(t *testing.T) {
	data := &models.VaultData{
		Records: []models.Record{
			{Label: "a"},
			{Label: "a"},
		},
	}
	label, dup := data.Reindex()
	assert.True(t, dup)
	assert.Equal(t, "a", label)
}

func TestMatchesSearch(t *testing.T) {
	rec := models.Record{
		Label:    "GitHub",
		Username: "dev@example.com",
		URL:      "https://github.com",
		Tags:     []string{"work"},
	}

	assert.True(t, rec.MatchesSearch("github"))
	assert.True(t, rec.MatchesSearch("DEV@"))
	assert.True(t, rec.MatchesSearch("work"))
	assert.False(t, rec.MatchesSearch("gitlab"))
}

func TestWipeClearsSecrets(t *testing.T) {
	data := models.NewVaultData()
	require.NoError(t, data.Add(models.Record{Label: "a", Secret: "1", Notes: "n"}))

	data.Wipe()
	assert.Nil(t, data.Records)
	assert.Zero(t, data.Len())
}
