// Package upload implements the batch encoder and the upload engine: the
// pipeline turning file/metadata selections into reliable transfers.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/evermediavault/vault-admin/internal/models"
)

// FileSource is the binary handle behind an upload item. Open is called
// once per transfer attempt; the caller closes the reader.
type FileSource interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// localFile sources a file from the local filesystem.
type localFile struct {
	path string
}

func (f localFile) Name() string {
	return filepath.Base(f.path)
}

func (f localFile) Open() (io.ReadCloser, error) {
	r, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.path, err)
	}
	return r, nil
}

// LocalFile creates a FileSource reading from path.
func LocalFile(path string) FileSource {
	return localFile{path: path}
}

// Item is one (file, display name, metadata) triple. Immutable once
// submitted to the engine.
type Item struct {
	// ID is the engine-assigned handle; empty for items encoded directly
	// without engine registration.
	ID string

	Source      FileSource
	DisplayName string
	Metadata    []models.MetaEntry
}

// FieldName returns the display name, falling back to the source file
// name when the display name is blank. Used for both the multipart
// filename and the name_{i} scalar field.
func (it Item) FieldName() string {
	if it.DisplayName != "" {
		return it.DisplayName
	}
	return it.Source.Name()
}
