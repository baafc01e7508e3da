// internal/app/resources/resources.go
//
// Package resources holds the page layout every console template wraps
// itself in: layout_head opens the page with the sidebar and operator
// header, layout_foot closes it.
package resources

import (
	"embed"
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

const setName = "layout"

var registerOnce sync.Once

// LoadSharedTemplates registers the layout set. Safe to call more than once.
func LoadSharedTemplates() {
	registerOnce.Do(func() {
		templates.Register(templates.Set{
			Name:     setName,
			FS:       FS,
			Patterns: []string{"templates/*.gohtml"},
		})
	})
}
