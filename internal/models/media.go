package models

// MetaType enumerates the accepted metadata entry value formats.
type MetaType string

const (
	MetaTypeURL    MetaType = "url"
	MetaTypeInput  MetaType = "input"
	MetaTypeText   MetaType = "text"
	MetaTypeNumber MetaType = "number"
)

// MetaEntry is one (name, type, value) metadata triple attached to an
// upload item. Serialized as a JSON array element in the batch's
// metadata_{i} field.
type MetaEntry struct {
	Name  string   `json:"name"`
	Type  MetaType `json:"type"`
	Value string   `json:"value"`
}

// StorageProvider describes one selectable storage backend, as returned
// by GET /media/storage-info. Read-only to this client; only active
// providers may be chosen for an upload.
type StorageProvider struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	IsActive        bool   `json:"isActive"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// FileRecord is one stored media file as the backend reports it, both in
// upload responses and in GET /media/list rows.
type FileRecord struct {
	ID                int64            `json:"id"`
	Name              string           `json:"name"`
	FileType          string           `json:"file_type"`
	SynapseIndexID    string           `json:"synapse_index_id"`
	SynapseDataSetID  int64            `json:"synapse_data_set_id,omitempty"`
	StorageID         int64            `json:"storage_id,omitempty"`
	StorageInfo       *StorageProvider `json:"storage_info,omitempty"`
	UploadedAt        string           `json:"uploaded_at"`
}

// PageMeta carries the pagination block returned alongside list data.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListQuery holds pagination and ordering parameters for list endpoints.
// Zero values fall back to server defaults.
type ListQuery struct {
	Page     int
	PageSize int
	SortBy   string
	Order    string
}
