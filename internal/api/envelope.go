package api

import (
	"encoding/json"
)

// envelope is the backend's uniform response wrapper.
//
// Success responses: {success:true, message, data?}.
// Error responses: {success:false, message, status_code, detail?}.
// Absence of success:true is treated as failure even on a 2xx transport
// status.
type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	StatusCode int             `json:"status_code,omitempty"`
	Detail     string          `json:"detail,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Meta       json.RawMessage `json:"meta,omitempty"`
}

// unmarshalSection decodes one envelope section, normalizing decode
// failures into a server error carrying the raw payload as detail.
func unmarshalSection(raw json.RawMessage, dest interface{}, section string) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return &Error{Kind: KindServer, Message: "malformed response " + section, Detail: string(raw), err: err}
	}
	return nil
}

// unmarshalData decodes an envelope's data payload.
func unmarshalData(raw json.RawMessage, dest interface{}) error {
	return unmarshalSection(raw, dest, "data")
}
