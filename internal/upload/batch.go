package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/evermediavault/vault-admin/internal/api"
	"github.com/evermediavault/vault-admin/internal/models"
	"github.com/evermediavault/vault-admin/internal/validate"
)

// Batch is an ordered sequence of items sharing one provider and an
// optional category. The encoder consumes it by value and retains no
// reference afterward.
type Batch struct {
	ProviderID  int64
	CategoryUID string
	Items       []Item
}

// Validate checks the batch's encode preconditions: a provider is
// selected and every item's metadata passes its type-specific rule.
// Failures surface as validation errors and never reach the network.
func (b Batch) Validate() error {
	if b.ProviderID <= 0 {
		return api.NewError(api.KindValidation, "no storage provider selected", nil)
	}
	for i, item := range b.Items {
		if item.Source == nil {
			return api.NewError(api.KindValidation, fmt.Sprintf("item %d has no file", i), nil)
		}
		if err := validate.MetaEntries(item.Metadata); err != nil {
			return api.NewError(api.KindValidation, fmt.Sprintf("item %d (%s): %s", i, item.FieldName(), err), err)
		}
	}
	return nil
}

// Encode writes the batch as one multipart request body:
//
//	providerId              scalar
//	categoryUid             scalar, trimmed, omitted when blank
//	file_{i}                file part, filename = display name or original
//	name_{i}                scalar, same fallback
//	metadata_{i}            JSON array of {name, type, value}
//
// Ordinals are 0-based and contiguous regardless of any prior filtering;
// the backend reconstructs exactly N items in exactly this order. The
// encoder trusts already-validated items: attempting to encode a batch
// that fails Validate is an encoding-precondition error.
//
// The returned reader is rewindable so the transport retry layer can
// replay the body.
func Encode(b Batch) (*bytes.Reader, string, error) {
	if err := b.Validate(); err != nil {
		return nil, "", api.NewError(api.KindEncodingPrecondition, "batch failed validation before encode", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("providerId", strconv.FormatInt(b.ProviderID, 10)); err != nil {
		return nil, "", fmt.Errorf("failed to write providerId field: %w", err)
	}
	if category := strings.TrimSpace(b.CategoryUID); category != "" {
		if err := w.WriteField("categoryUid", category); err != nil {
			return nil, "", fmt.Errorf("failed to write categoryUid field: %w", err)
		}
	}

	for i, item := range b.Items {
		name := item.FieldName()

		part, err := w.CreateFormFile(fmt.Sprintf("file_%d", i), name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part %d: %w", i, err)
		}
		src, err := item.Source.Open()
		if err != nil {
			return nil, "", fmt.Errorf("item %d: %w", i, err)
		}
		_, copyErr := io.Copy(part, src)
		src.Close()
		if copyErr != nil {
			return nil, "", fmt.Errorf("failed to read item %d: %w", i, copyErr)
		}

		if err := w.WriteField(fmt.Sprintf("name_%d", i), name); err != nil {
			return nil, "", fmt.Errorf("failed to write name field %d: %w", i, err)
		}

		metadata := item.Metadata
		if metadata == nil {
			metadata = []models.MetaEntry{}
		}
		metaJSON, err := json.Marshal(metadata)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal item %d metadata: %w", i, err)
		}
		if err := w.WriteField(fmt.Sprintf("metadata_%d", i), string(metaJSON)); err != nil {
			return nil, "", fmt.Errorf("failed to write metadata field %d: %w", i, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return bytes.NewReader(buf.Bytes()), w.FormDataContentType(), nil
}
