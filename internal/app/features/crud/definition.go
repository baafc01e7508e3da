// internal/app/features/crud/definition.go
//
// Package crud serves the list, form, detail and delete pages of one
// backend collection. Each entity package fills in a Definition; the
// Handler does the fetching, view state, mutations and audit logging the
// same way for all of them.
package crud

import (
	"net/http"
	"net/url"

	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
)

// Column is one table column.
type Column[T any] struct {
	Label string
	Sort  string // sort key name; empty when the column is not sortable
	Value func(item T) string
	Tone  func(item T) string // optional badge tone: "good", "warn", "muted"
}

// Field kinds.
const (
	KindText     = "text"
	KindEmail    = "email"
	KindNumber   = "number"
	KindTextarea = "textarea"
	KindSelect   = "select"
	KindCheckbox = "checkbox"
	KindPassword = "password"
)

// Field is one input of the create/edit form.
type Field struct {
	Name     string
	Label    string
	Kind     string
	Required bool
	Help     string
	Options  []listview.Option
	// CreateOnly fields are left out of the edit form.
	CreateOnly bool
}

// Detail is one labeled row on the detail page.
type Detail[T any] struct {
	Label string
	Value func(item T) string
	// Rich renders the value as sanitized HTML, with newlines kept.
	Rich bool
}

// Action is a one-click PATCH on a record, e.g. toggling status or
// making an address the default.
type Action[T any] struct {
	// Name is both the route segment and the PATCH suffix.
	Name string
	// EventType is recorded in the audit log.
	EventType string
	Label     func(item T) string
	// Visible hides the button for rows where the action does nothing.
	Visible func(item T) bool
	// Hidden becomes hidden inputs on the row's form.
	Hidden func(item T) map[string]string
	// Payload builds the PATCH body from the posted form; nil sends none.
	Payload func(form url.Values) any
}

// Definition describes one entity.
type Definition[T any] struct {
	Slug     string // mount path segment and audit resource name
	Title    string // plural, for headings
	Singular string

	Resource resourcelist.Resource[T]
	List     listview.Config[T]
	Columns  []Column[T]
	Stats    func(items []T) []format.Stat
	Details  []Detail[T]
	Actions  []Action[T]

	ID    func(item T) models.ID
	Label func(item T) string

	// ReadOnly entities have no form, delete or actions.
	ReadOnly bool
	Fields   []Field
	// Values prefills the edit form.
	Values func(item T) url.Values
	// Payload validates a posted form and builds the request body. Field
	// errors are keyed by field name.
	Payload func(form url.Values, editing bool) (map[string]any, map[string]string)

	// Scope names request parameters that are forwarded to the backend as
	// server-side filters and kept on every link (userId, countryCode).
	Scope []string
}

func (d Definition[T]) base() string { return "/" + d.Slug }

func (d Definition[T]) action(name string) (Action[T], bool) {
	for _, a := range d.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action[T]{}, false
}

func (d Definition[T]) scope(r *http.Request) url.Values {
	if len(d.Scope) == 0 {
		return nil
	}
	q := r.URL.Query()
	out := url.Values{}
	for _, k := range d.Scope {
		v := q.Get(k)
		if v == "" {
			v = r.PostFormValue(k)
		}
		if v != "" {
			out.Set(k, v)
		}
	}
	return out
}
