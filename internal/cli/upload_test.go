package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermediavault/vault-admin/internal/models"
)

func TestParseMetaFlags(t *testing.T) {
	entries, err := parseMetaFlags([]string{
		"source:url=https://example.com/a",
		"year:number=2026",
		"notes:text=",
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, models.MetaEntry{Name: "source", Type: models.MetaTypeURL, Value: "https://example.com/a"}, entries[0])
	assert.Equal(t, models.MetaEntry{Name: "year", Type: models.MetaTypeNumber, Value: "2026"}, entries[1])
	assert.Equal(t, models.MetaEntry{Name: "notes", Type: models.MetaTypeText, Value: ""}, entries[2])
}

func TestParseMetaFlagsValueMayContainSeparators(t *testing.T) {
	entries, err := parseMetaFlags([]string{"link:url=https://example.com/watch?v=a=b"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://example.com/watch?v=a=b", entries[0].Value)
}

func TestParseMetaFlagsRejectsMalformed(t *testing.T) {
	_, err := parseMetaFlags([]string{"no-equals"})
	require.Error(t, err)

	_, err = parseMetaFlags([]string{"no-type=value"})
	require.Error(t, err)
}

func TestBuildBatchSharesSelection(t *testing.T) {
	metadata := []models.MetaEntry{{Name: "source", Type: models.MetaTypeURL, Value: "https://example.com"}}
	batch := buildBatch([]string{"/tmp/a.mp4", "/tmp/b.mp4"}, 3, "cat-1", "", metadata)

	assert.Equal(t, int64(3), batch.ProviderID)
	assert.Equal(t, "cat-1", batch.CategoryUID)
	require.Len(t, batch.Items, 2)
	assert.Equal(t, "a.mp4", batch.Items[0].FieldName())
	assert.Equal(t, "b.mp4", batch.Items[1].FieldName())
	assert.Equal(t, metadata, batch.Items[1].Metadata)
}
