// internal/app/features/crud/fields.go
package crud

import (
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/accessdeck/internal/app/system/htmlsanitize"
	"github.com/dalemusser/waffle/pantry/text"
)

// Form reads posted values for a Payload func. Text is stripped of markup
// before it is sent to the backend.
type Form struct {
	Values url.Values
	Errors map[string]string
}

// NewForm wraps posted values.
func NewForm(v url.Values) *Form {
	return &Form{Values: v, Errors: map[string]string{}}
}

// Text returns the trimmed, markup-free value of name.
func (f *Form) Text(name string) string {
	return htmlsanitize.Plain(f.Values.Get(name))
}

// Required returns Text(name) and records an error when it is empty.
func (f *Form) Required(name, label string) string {
	v := f.Text(name)
	if v == "" {
		f.Errors[name] = label + " wajib diisi."
	}
	return v
}

// Email returns a required, syntactically valid address.
func (f *Form) Email(name, label string) string {
	v := f.Required(name, label)
	if v == "" {
		return v
	}
	if _, err := mail.ParseAddress(v); err != nil || !strings.Contains(v, "@") {
		f.Errors[name] = label + " tidak valid."
	}
	return strings.ToLower(v)
}

// Slug returns a required lower-case identifier of letters, digits and
// dashes.
func (f *Form) Slug(name, label string) string {
	v := text.Fold(f.Required(name, label))
	for _, r := range v {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			f.Errors[name] = label + " hanya boleh huruf kecil, angka dan tanda hubung."
			break
		}
	}
	return v
}

// Int returns the integer value of name, or def when empty.
func (f *Form) Int(name, label string, def int) int {
	v := f.Text(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f.Errors[name] = label + " harus berupa angka."
		return def
	}
	return n
}

// Checked reports whether a checkbox was ticked.
func (f *Form) Checked(name string) bool {
	return Checked(f.Values, name)
}

// OneOf returns Text(name) and records an error unless it is one of allowed.
func (f *Form) OneOf(name, label string, allowed ...string) string {
	v := f.Text(name)
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	f.Errors[name] = label + " tidak valid."
	return v
}

// Result returns payload and the collected errors, nil when there are none.
func (f *Form) Result(payload map[string]any) (map[string]any, map[string]string) {
	if len(f.Errors) == 0 {
		return payload, nil
	}
	return payload, f.Errors
}

// Checked reports whether a checkbox value is set in v.
func Checked(v url.Values, name string) bool {
	switch strings.ToLower(v.Get(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Bool formats a flag for form prefill.
func Bool(b bool) string {
	if b {
		return "on"
	}
	return ""
}
