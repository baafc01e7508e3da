// internal/app/features/categories/definition.go
package categories

import (
	"net/url"
	"strconv"

	"github.com/dalemusser/accessdeck/internal/app/features/crud"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
)

// Path is the backend collection.
const Path = "/api/v1/feature-categories"

func active(c models.FeatureCategory) bool { return c.IsActive }

// Definition describes the feature category pages.
func Definition() crud.Definition[models.FeatureCategory] {
	return crud.Definition[models.FeatureCategory]{
		Slug:     "categories",
		Title:    "Kategori Fitur",
		Singular: "Kategori",
		Resource: resourcelist.Resource[models.FeatureCategory]{Path: Path},

		List: listview.Config[models.FeatureCategory]{
			Search: []func(models.FeatureCategory) string{
				func(c models.FeatureCategory) string { return c.Name },
				func(c models.FeatureCategory) string { return c.Slug },
				func(c models.FeatureCategory) string { return c.Description },
			},
			Filters: []listview.Filter[models.FeatureCategory]{crud.StatusFilter(active)},
			Sorts: []listview.SortKey[models.FeatureCategory]{
				{Name: "name", Label: "Nama", Value: func(c models.FeatureCategory) any { return c.Name }},
				{Name: "sortOrder", Label: "Urutan", Value: func(c models.FeatureCategory) any { return c.SortOrder }},
			},
			DefaultSort: "sortOrder",
		},

		Columns: []crud.Column[models.FeatureCategory]{
			{Label: "Urutan", Sort: "sortOrder", Value: func(c models.FeatureCategory) string { return strconv.Itoa(c.SortOrder) }},
			{Label: "Nama", Sort: "name", Value: func(c models.FeatureCategory) string { return c.Name }},
			{Label: "Slug", Value: func(c models.FeatureCategory) string { return c.Slug }},
			{Label: "Status", Value: crud.ActiveCell(active), Tone: func(c models.FeatureCategory) string { return crud.ActiveTone(c.IsActive) }},
		},
		Stats: func(items []models.FeatureCategory) []format.Stat { return format.ActiveStats(items, active) },

		Details: []crud.Detail[models.FeatureCategory]{
			{Label: "Nama", Value: func(c models.FeatureCategory) string { return c.Name }},
			{Label: "Slug", Value: func(c models.FeatureCategory) string { return c.Slug }},
			{Label: "Deskripsi", Value: func(c models.FeatureCategory) string { return c.Description }, Rich: true},
			{Label: "Ikon", Value: func(c models.FeatureCategory) string { return c.Icon }},
			{Label: "Urutan", Value: func(c models.FeatureCategory) string { return strconv.Itoa(c.SortOrder) }},
			{Label: "Status", Value: crud.ActiveCell(active)},
		},

		ID:    func(c models.FeatureCategory) models.ID { return c.ID },
		Label: func(c models.FeatureCategory) string { return c.Name },

		Fields: []crud.Field{
			{Name: "name", Label: "Nama", Kind: crud.KindText, Required: true},
			{Name: "slug", Label: "Slug", Kind: crud.KindText, Required: true},
			{Name: "description", Label: "Deskripsi", Kind: crud.KindTextarea},
			{Name: "icon", Label: "Ikon", Kind: crud.KindText},
			{Name: "sortOrder", Label: "Urutan", Kind: crud.KindNumber},
			{Name: "isActive", Label: "Aktif", Kind: crud.KindCheckbox},
		},
		Values: func(c models.FeatureCategory) url.Values {
			return url.Values{
				"name":        {c.Name},
				"slug":        {c.Slug},
				"description": {c.Description},
				"icon":        {c.Icon},
				"sortOrder":   {strconv.Itoa(c.SortOrder)},
				"isActive":    {crud.Bool(c.IsActive)},
			}
		},
		Payload: func(form url.Values, _ bool) (map[string]any, map[string]string) {
			f := crud.NewForm(form)
			return f.Result(map[string]any{
				"name":        f.Required("name", "Nama"),
				"slug":        f.Slug("slug", "Slug"),
				"description": f.Text("description"),
				"icon":        f.Text("icon"),
				"sortOrder":   f.Int("sortOrder", "Urutan", 0),
				"isActive":    f.Checked("isActive"),
			})
		},
	}
}

// NewHandler constructs the categories handler.
func NewHandler(api resourcelist.API, deps crud.Deps) *crud.Handler[models.FeatureCategory] {
	return crud.NewHandler(api, Definition(), deps)
}
