// internal/domain/models/id.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a backend record.
//
// The backend is not consistent: some resources use auto-increment integers,
// others use UUID strings. Both decode into ID, and ID re-encodes numeric
// values as JSON numbers so payloads round-trip unchanged.
type ID string

// String returns the identifier as it appears in URLs.
func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool { return id == "" }

// IsNumeric reports whether the identifier is an integer.
func (id ID) IsNumeric() bool {
	if id == "" {
		return false
	}
	_, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil
}

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("models: id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes integers as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// decodeActive fills dst from either "isActive" or "active". Older
// endpoints still send the short form.
func decodeActive(b []byte, dst *bool) error {
	var f struct {
		IsActive *bool `json:"isActive"`
		Active   *bool `json:"active"`
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	switch {
	case f.IsActive != nil:
		*dst = *f.IsActive
	case f.Active != nil:
		*dst = *f.Active
	}
	return nil
}
