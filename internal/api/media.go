package api

import (
	"bytes"
	"context"
	"net/url"
	"strconv"

	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/models"
)

// Media endpoints.
const (
	uploadPath      = "/media/upload"
	mediaListPath   = "/media/list"
	storageInfoPath = "/media/storage-info"
)

// UploadBatch posts one encoded multipart batch and returns the created
// records, one per item in submission order. The body must be rewindable
// (the encoder returns a *bytes.Reader) so the retry layer can replay it.
// Uploads run under the long deadline: the backend performs durable
// storage and settlement before answering.
func (c *Client) UploadBatch(ctx context.Context, body *bytes.Reader, contentType string) ([]models.FileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.UploadTimeout)
	defer cancel()

	env, err := c.call(ctx, "POST", uploadPath, nil, body, contentType, callOptions{})
	if err != nil {
		return nil, err
	}

	var records []models.FileRecord
	if len(env.Data) > 0 {
		if err := unmarshalData(env.Data, &records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ListFiles retrieves one page of the file list. The endpoint is
// unauthenticated; a token is still attached when the session has one.
func (c *Client) ListFiles(ctx context.Context, q models.ListQuery) ([]models.FileRecord, *models.PageMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.APITimeout)
	defer cancel()

	var files []models.FileRecord
	var meta models.PageMeta
	if err := c.getJSON(ctx, mediaListPath, pageQuery(q), &files, &meta); err != nil {
		return nil, nil, err
	}
	return files, &meta, nil
}

// StorageProviders retrieves every configured storage provider. Callers
// that present a selection should filter with ActiveProviders.
func (c *Client) StorageProviders(ctx context.Context) ([]models.StorageProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.APITimeout)
	defer cancel()

	var data struct {
		Providers []models.StorageProvider `json:"providers"`
	}
	if err := c.getJSON(ctx, storageInfoPath, nil, &data, nil); err != nil {
		return nil, err
	}
	return data.Providers, nil
}

// ActiveProviders filters providers down to the selectable ones.
func ActiveProviders(providers []models.StorageProvider) []models.StorageProvider {
	active := make([]models.StorageProvider, 0, len(providers))
	for _, p := range providers {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active
}

// pageQuery builds the common pagination/ordering query values.
func pageQuery(q models.ListQuery) url.Values {
	values := url.Values{}
	page := q.Page
	if page <= 0 {
		page = constants.DefaultPage
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("page_size", strconv.Itoa(pageSize))
	if q.SortBy != "" {
		values.Set("sort_by", q.SortBy)
	}
	if q.Order != "" {
		values.Set("order", q.Order)
	}
	return values
}
