// internal/app/system/apiclient/envelope.go
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The backend answers in one of several shapes:
//
//	[ ... ]                                  bare array
//	{"data": [ ... ]}                        data envelope
//	{"success": true, "data": [ ... ]}       success envelope
//	{"success": true, "data": {"items": [ ... ], "total": n}}  paged (v2)
//
// NormalizeList and NormalizeOne are the only places that know this.

// fields decodes a JSON object into its members so one oddly typed
// sibling cannot hide the others. ok is false for anything but an object.
func fields(body []byte) (map[string]json.RawMessage, bool) {
	if !isObject(body) {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, false
	}
	return m, true
}

// NormalizeList extracts the item sequence from a list response. Shapes
// that carry no sequence yield an empty, non-nil slice.
func NormalizeList(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []json.RawMessage{}, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrDecode)
	}

	if items, ok := asArray(body); ok {
		return items, nil
	}

	env, ok := fields(body)
	if !ok {
		// valid JSON but not an object: a string, number, etc.
		return []json.RawMessage{}, nil
	}
	if items, ok := asArray(env["data"]); ok {
		return items, nil
	}

	if p, ok := fields(bytes.TrimSpace(env["data"])); ok {
		if items, ok := asArray(p["items"]); ok {
			return items, nil
		}
		if items, ok := asArray(p["rows"]); ok {
			return items, nil
		}
	}
	return []json.RawMessage{}, nil
}

// NormalizeOne extracts a single record: either the body itself or its
// data field when the body is an envelope.
func NormalizeOne(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrDecode)
	}
	if env, ok := fields(body); ok {
		data := bytes.TrimSpace(env["data"])
		if _, hasID := env["id"]; !hasID && isObject(data) {
			return json.RawMessage(data), nil
		}
	}
	return json.RawMessage(body), nil
}

// envelopeFailure inspects a 2xx body for success=false and returns the
// message it carries. Only a JSON false counts as failure.
func envelopeFailure(body []byte) (string, bool) {
	env, ok := fields(bytes.TrimSpace(body))
	if !ok {
		return "", false
	}
	var success bool
	if err := json.Unmarshal(env["success"], &success); err != nil || success {
		return "", false
	}
	if msg := errorText(env["message"]); msg != "" {
		return msg, true
	}
	return errorText(env["error"]), true
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(body []byte) string {
	env, ok := fields(bytes.TrimSpace(body))
	if !ok {
		return ""
	}
	if msg := errorText(env["message"]); msg != "" {
		return msg
	}
	return errorText(env["error"])
}

// errorText accepts "error": "text" and "error": {"message": "text"}.
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Message
	}
	return ""
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, true
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
