package upload

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermediavault/vault-admin/internal/api"
	"github.com/evermediavault/vault-admin/internal/models"
)

type memorySource struct {
	name string
	data []byte
}

func (m memorySource) Name() string { return m.name }

func (m memorySource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

// decodeBody parses an encoded batch back into scalar fields and file
// parts keyed by field name.
func decodeBody(t *testing.T, body *bytes.Reader, contentType string) (map[string]string, map[string]struct {
	filename string
	data     []byte
}) {
	t.Helper()

	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)

	reader := multipart.NewReader(body, params["boundary"])
	fields := make(map[string]string)
	files := make(map[string]struct {
		filename string
		data     []byte
	})

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() != "" {
			files[part.FormName()] = struct {
				filename string
				data     []byte
			}{part.FileName(), data}
		} else {
			fields[part.FormName()] = string(data)
		}
	}
	return fields, files
}

func TestEncodeFieldLayout(t *testing.T) {
	batch := Batch{
		ProviderID:  7,
		CategoryUID: "cat-123",
		Items: []Item{
			{
				Source:      memorySource{name: "report.pdf", data: []byte("pdf-bytes")},
				DisplayName: "Q3 Report",
				Metadata: []models.MetaEntry{
					{Name: "source", Type: models.MetaTypeURL, Value: "https://example.com"},
				},
			},
			{
				Source: memorySource{name: "photo.jpg", data: []byte("jpg-bytes")},
				// no display name, no metadata
			},
		},
	}

	body, contentType, err := Encode(batch)
	require.NoError(t, err)
	assert.Contains(t, contentType, "multipart/form-data")

	fields, files := decodeBody(t, body, contentType)

	assert.Equal(t, "7", fields["providerId"])
	assert.Equal(t, "cat-123", fields["categoryUid"])

	// Ordinals are 0-based and contiguous.
	require.Contains(t, files, "file_0")
	require.Contains(t, files, "file_1")
	assert.NotContains(t, files, "file_2")

	assert.Equal(t, "Q3 Report", files["file_0"].filename)
	assert.Equal(t, []byte("pdf-bytes"), files["file_0"].data)
	assert.Equal(t, "Q3 Report", fields["name_0"])

	// Display name falls back to the source file name.
	assert.Equal(t, "photo.jpg", files["file_1"].filename)
	assert.Equal(t, "photo.jpg", fields["name_1"])

	var meta0 []models.MetaEntry
	require.NoError(t, json.Unmarshal([]byte(fields["metadata_0"]), &meta0))
	require.Len(t, meta0, 1)
	assert.Equal(t, "source", meta0[0].Name)

	// Missing metadata still encodes as an explicit empty array.
	assert.Equal(t, "[]", fields["metadata_1"])
}

func TestEncodeCategoryTrimmedAndOmitted(t *testing.T) {
	item := Item{Source: memorySource{name: "a.txt", data: []byte("x")}}

	body, contentType, err := Encode(Batch{ProviderID: 1, CategoryUID: "  uid-9  ", Items: []Item{item}})
	require.NoError(t, err)
	fields, _ := decodeBody(t, body, contentType)
	assert.Equal(t, "uid-9", fields["categoryUid"])

	body, contentType, err = Encode(Batch{ProviderID: 1, CategoryUID: "   ", Items: []Item{item}})
	require.NoError(t, err)
	fields, _ = decodeBody(t, body, contentType)
	_, present := fields["categoryUid"]
	assert.False(t, present, "blank category must be omitted entirely")
}

func TestEncodeEmptyBatch(t *testing.T) {
	body, contentType, err := Encode(Batch{ProviderID: 3})
	require.NoError(t, err)

	fields, files := decodeBody(t, body, contentType)
	assert.Equal(t, "3", fields["providerId"])
	assert.Empty(t, files)
}

func TestEncodeRejectsUnvalidatedBatch(t *testing.T) {
	// No provider selected.
	_, _, err := Encode(Batch{Items: []Item{{Source: memorySource{name: "a", data: nil}}}})
	require.Error(t, err)
	assert.Equal(t, api.KindEncodingPrecondition, api.ErrorKind(err))

	// Invalid metadata.
	_, _, err = Encode(Batch{
		ProviderID: 1,
		Items: []Item{{
			Source:   memorySource{name: "a", data: nil},
			Metadata: []models.MetaEntry{{Name: "n", Type: models.MetaTypeNumber, Value: "not-a-number"}},
		}},
	})
	require.Error(t, err)
	assert.Equal(t, api.KindEncodingPrecondition, api.ErrorKind(err))
}

func TestValidate(t *testing.T) {
	err := Batch{}.Validate()
	require.Error(t, err)
	assert.Equal(t, api.KindValidation, api.ErrorKind(err))

	err = Batch{ProviderID: 1, Items: []Item{{}}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no file")

	err = Batch{ProviderID: 1, Items: []Item{{Source: memorySource{name: "ok"}}}}.Validate()
	assert.NoError(t, err)
}

func TestEncodedBodyIsRewindable(t *testing.T) {
	body, _, err := Encode(Batch{
		ProviderID: 1,
		Items:      []Item{{Source: memorySource{name: "a.txt", data: []byte("payload")}}},
	})
	require.NoError(t, err)

	first, err := io.ReadAll(body)
	require.NoError(t, err)

	_, err = body.Seek(0, io.SeekStart)
	require.NoError(t, err)

	second, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
