package mockapi

import (
	"fmt"
	"strconv"
	"strings"
)

// envelope is how a resource wraps its responses.
type envelope int

const (
	bare    envelope = iota // [..] / {..}
	wrapped                 // {"success":true,"data":..,"message":..}
	dataOnly                // {"data":..}
	paged                   // {"success":true,"data":{"items":[..],"total":n}}
)

// resourceSpec describes one backend collection.
type resourceSpec struct {
	Name      string // seed key and audit name
	Path      string
	Aliases   []string
	Envelope  envelope
	Required  []string
	Unique    [][]string // each entry is a set of fields that must be unique together
	StringIDs bool       // uuid identifiers instead of integers
	Filters   []string   // query parameters matched exactly against fields
	Toggles   map[string]string
	Exclusive map[string]string // toggle field -> scope field; setting it clears siblings
	Defaults  map[string]any
	ReadOnly  bool
	Label     string // used in messages
}

var specs = []resourceSpec{
	{
		Name:     "users",
		Path:     "/api/v1/users",
		Envelope: wrapped,
		Required: []string{"name", "email"},
		Unique:   [][]string{{"email"}, {"username"}},
		Toggles:  map[string]string{"status": "isActive"},
		Defaults: map[string]any{"isActive": true, "isVerified": false, "role": "user"},
		Label:    "Pengguna",
	},
	{
		Name:     "roles",
		Path:     "/api/v1/roles",
		Envelope: bare,
		Required: []string{"name", "slug"},
		Unique:   [][]string{{"slug"}},
		Defaults: map[string]any{"isActive": true, "isDefault": false},
		Label:    "Peran",
	},
	{
		Name:     "feature-categories",
		Path:     "/api/v1/feature-categories",
		Envelope: dataOnly,
		Required: []string{"name", "slug"},
		Unique:   [][]string{{"slug"}},
		Defaults: map[string]any{"isActive": true, "sortOrder": 0},
		Label:    "Kategori",
	},
	{
		Name:     "features",
		Path:     "/api/v1/features",
		Envelope: wrapped,
		Required: []string{"name", "slug", "categorySlug"},
		Unique:   [][]string{{"slug"}},
		Toggles:  map[string]string{"status": "isActive"},
		Defaults: map[string]any{"isActive": true},
		Label:    "Fitur",
	},
	{
		Name:     "route-features",
		Path:     "/api/v1/route-features",
		Aliases:  []string{"/api/v1/route_features"},
		Envelope: bare,
		Required: []string{"path", "method", "featureId"},
		Unique:   [][]string{{"method", "path"}},
		Defaults: map[string]any{"isActive": true},
		Label:    "Rute",
	},
	{
		Name:      "user-addresses",
		Path:      "/api/v1/user-addresses",
		Aliases:   []string{"/api/v1/user_addresses"},
		Envelope:  wrapped,
		Required:  []string{"userId", "label", "street", "city"},
		Filters:   []string{"userId"},
		Toggles:   map[string]string{"default": "isDefault"},
		Exclusive: map[string]string{"isDefault": "userId"},
		Defaults:  map[string]any{"isDefault": false, "country": "ID"},
		Label:     "Alamat",
	},
	{
		Name:      "phones",
		Path:      "/api/v2/phones",
		Envelope:  paged,
		Required:  []string{"userId", "countryCode", "number"},
		Unique:    [][]string{{"countryCode", "number"}},
		StringIDs: true,
		Filters:   []string{"userId", "countryCode"},
		Toggles:   map[string]string{"default": "isDefault"},
		Exclusive: map[string]string{"isDefault": "userId"},
		Defaults:  map[string]any{"isDefault": false, "isVerified": false},
		Label:     "Telepon",
	},
	{
		Name:     "access-logs",
		Path:     "/api/v1/access-logs",
		Envelope: dataOnly,
		Filters:  []string{"userId", "method"},
		ReadOnly: true,
		Label:    "Log akses",
	},
}

// record is one stored item. Values are whatever encoding/json produces.
type record map[string]any

func (r record) clone() record {
	out := make(record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (r record) id() string { return valueString(r["id"]) }

// valueString renders a stored value for comparison with a query parameter.
func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

// collection is the in-memory state of one resource.
type collection struct {
	spec   resourceSpec
	items  []record
	nextID int
}

func (c *collection) find(id string) (int, bool) {
	for i, it := range c.items {
		if it.id() == id {
			return i, true
		}
	}
	return -1, false
}

// missing returns the first required field absent from rec.
func (c *collection) missing(rec record) string {
	for _, f := range c.spec.Required {
		if isBlank(rec[f]) {
			return f
		}
	}
	return ""
}

// conflict returns the unique field set rec collides on, skipping selfID.
func (c *collection) conflict(rec record, selfID string) []string {
	for _, set := range c.spec.Unique {
		if anyBlank(rec, set) {
			continue
		}
		for _, it := range c.items {
			if it.id() == selfID {
				continue
			}
			if sameValues(it, rec, set) {
				return set
			}
		}
	}
	return nil
}

func anyBlank(rec record, fields []string) bool {
	for _, f := range fields {
		if isBlank(rec[f]) {
			return true
		}
	}
	return false
}

func sameValues(a, b record, fields []string) bool {
	for _, f := range fields {
		if !strings.EqualFold(valueString(a[f]), valueString(b[f])) {
			return false
		}
	}
	return true
}

// clearSiblings unsets field on every record sharing rec's scope value.
func (c *collection) clearSiblings(rec record, field string) {
	scope, ok := c.spec.Exclusive[field]
	if !ok {
		return
	}
	for _, it := range c.items {
		if it.id() != rec.id() && valueString(it[scope]) == valueString(rec[scope]) {
			it[field] = false
		}
	}
}
