// internal/app/features/crud/filters.go
package crud

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
)

// StatusFilter filters on an active flag with "active" and "inactive".
func StatusFilter[T any](active func(T) bool) listview.Filter[T] {
	return FlagFilter("status", "Status", "Aktif", "Nonaktif", active)
}

// FlagFilter filters on a boolean with the values "yes" and "no". Any
// other value matches nothing.
func FlagFilter[T any](name, label, yes, no string, flag func(T) bool) listview.Filter[T] {
	return listview.Filter[T]{
		Name:  name,
		Label: label,
		Options: []listview.Option{
			{Value: "yes", Label: yes},
			{Value: "no", Label: no},
		},
		Match: func(it T, v string) bool {
			switch v {
			case "yes", "active", "true":
				return flag(it)
			case "no", "inactive", "false":
				return !flag(it)
			}
			return false
		},
	}
}

// ValueFilter filters on exact (case-insensitive) equality with key. Its
// options are the distinct non-empty values present in the collection.
func ValueFilter[T any](name, label string, key func(T) string, display func(T) string) listview.Filter[T] {
	return listview.Filter[T]{
		Name:        name,
		Label:       label,
		OptionsFrom: func(items []T) []listview.Option { return DistinctOptions(items, key, display) },
		Match: func(it T, v string) bool {
			return strings.EqualFold(key(it), v)
		},
	}
}

// DistinctOptions lists each non-empty key once, labeled by display (or
// the key itself when display is nil or empty), sorted by label.
func DistinctOptions[T any](items []T, key func(T) string, display func(T) string) []listview.Option {
	seen := map[string]bool{}
	var out []listview.Option
	for _, it := range items {
		k := key(it)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		label := k
		if display != nil {
			if d := display(it); d != "" {
				label = d
			}
		}
		out = append(out, listview.Option{Value: k, Label: label})
	}
	slices.SortFunc(out, func(a, b listview.Option) int {
		return cmp.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label))
	})
	return out
}

// ActiveTone is the badge tone of an active flag.
func ActiveTone(active bool) string {
	if active {
		return "good"
	}
	return "muted"
}

// ActiveCell renders an active flag as a column value.
func ActiveCell[T any](active func(T) bool) func(T) string {
	return func(it T) string { return format.ActiveLabel(active(it)) }
}
