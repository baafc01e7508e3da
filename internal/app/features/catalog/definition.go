// internal/app/features/catalog/definition.go
//
// Package catalog manages features, the toggleable capabilities routes are
// gated on. Category names are looked up from the category list after every
// fetch.
package catalog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dalemusser/accessdeck/internal/app/features/categories"
	"github.com/dalemusser/accessdeck/internal/app/features/crud"
	"github.com/dalemusser/accessdeck/internal/app/store/audit"
	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
)

// Path is the backend collection.
const Path = "/api/v1/features"

func active(f models.Feature) bool { return f.IsActive }

// WithCategoryNames returns an enrich step that fills CategoryName from
// the category list. Features whose slug matches no category keep an
// empty name.
func WithCategoryNames(api apiclient.Lister) func(context.Context, []models.Feature) ([]models.Feature, error) {
	return func(ctx context.Context, items []models.Feature) ([]models.Feature, error) {
		cats, err := apiclient.FetchList[models.FeatureCategory](ctx, api, categories.Path, nil)
		if err != nil {
			return nil, err
		}
		names := make(map[string]string, len(cats))
		for _, c := range cats {
			names[c.Slug] = c.Name
		}
		for i := range items {
			items[i].CategoryName = names[items[i].CategorySlug]
		}
		return items, nil
	}
}

func category(f models.Feature) string {
	if f.CategoryName == "" {
		return format.Empty
	}
	return f.CategoryName
}

// Definition describes the feature pages. api serves the category lookup.
func Definition(api apiclient.Lister) crud.Definition[models.Feature] {
	return crud.Definition[models.Feature]{
		Slug:     "features",
		Title:    "Fitur",
		Singular: "Fitur",
		Resource: resourcelist.Resource[models.Feature]{Path: Path, Enrich: WithCategoryNames(api)},

		List: listview.Config[models.Feature]{
			Search: []func(models.Feature) string{
				func(f models.Feature) string { return f.Name },
				func(f models.Feature) string { return f.Slug },
				func(f models.Feature) string { return f.Description },
				func(f models.Feature) string { return f.CategorySlug },
			},
			Filters: []listview.Filter[models.Feature]{
				crud.StatusFilter(active),
				crud.ValueFilter("category", "Kategori",
					func(f models.Feature) string {
						if f.CategoryName == "" {
							return ""
						}
						return f.CategorySlug
					},
					func(f models.Feature) string { return f.CategoryName }),
			},
			Sorts: []listview.SortKey[models.Feature]{
				{Name: "name", Label: "Nama", Value: func(f models.Feature) any { return f.Name }},
				{Name: "category", Label: "Kategori", Value: func(f models.Feature) any { return f.CategoryName }},
				{Name: "createdAt", Label: "Dibuat", Value: func(f models.Feature) any { return f.CreatedAt }},
			},
			DefaultSort: "name",
		},

		Columns: []crud.Column[models.Feature]{
			{Label: "Nama", Sort: "name", Value: func(f models.Feature) string { return f.Name }},
			{Label: "Slug", Value: func(f models.Feature) string { return f.Slug }},
			{Label: "Kategori", Sort: "category", Value: category},
			{Label: "Status", Value: crud.ActiveCell(active), Tone: func(f models.Feature) string { return crud.ActiveTone(f.IsActive) }},
			{Label: "Dibuat", Sort: "createdAt", Value: func(f models.Feature) string { return format.Date(f.CreatedAt) }},
		},
		Stats: func(items []models.Feature) []format.Stat {
			out := format.ActiveStats(items, active)
			orphan := format.Count(items, func(f models.Feature) bool { return f.CategoryName == "" })
			tone := ""
			if orphan > 0 {
				tone = "warn"
			}
			return append(out, format.IntStat("Tanpa kategori", orphan, tone))
		},

		Details: []crud.Detail[models.Feature]{
			{Label: "Nama", Value: func(f models.Feature) string { return f.Name }},
			{Label: "Slug", Value: func(f models.Feature) string { return f.Slug }},
			{Label: "Deskripsi", Value: func(f models.Feature) string { return f.Description }, Rich: true},
			{Label: "Kategori", Value: category},
			{Label: "Slug kategori", Value: func(f models.Feature) string { return f.CategorySlug }},
			{Label: "Status", Value: crud.ActiveCell(active)},
			{Label: "Dibuat", Value: func(f models.Feature) string { return format.DateTime(f.CreatedAt) }},
		},

		Actions: []crud.Action[models.Feature]{{
			Name:      "status",
			EventType: audit.EventStatusChanged,
			Label: func(f models.Feature) string {
				if f.IsActive {
					return "Nonaktifkan"
				}
				return "Aktifkan"
			},
			Hidden: func(f models.Feature) map[string]string {
				return map[string]string{"isActive": strconv.FormatBool(!f.IsActive)}
			},
			Payload: func(form url.Values) any {
				return map[string]bool{"isActive": form.Get("isActive") == "true"}
			},
		}},

		ID:    func(f models.Feature) models.ID { return f.ID },
		Label: func(f models.Feature) string { return f.Name },

		Fields: []crud.Field{
			{Name: "name", Label: "Nama", Kind: crud.KindText, Required: true},
			{Name: "slug", Label: "Slug", Kind: crud.KindText, Required: true},
			{Name: "description", Label: "Deskripsi", Kind: crud.KindTextarea},
			{Name: "categorySlug", Label: "Slug kategori", Kind: crud.KindText, Required: true},
			{Name: "isActive", Label: "Aktif", Kind: crud.KindCheckbox},
		},
		Values: func(f models.Feature) url.Values {
			return url.Values{
				"name":         {f.Name},
				"slug":         {f.Slug},
				"description":  {f.Description},
				"categorySlug": {f.CategorySlug},
				"isActive":     {crud.Bool(f.IsActive)},
			}
		},
		Payload: func(form url.Values, _ bool) (map[string]any, map[string]string) {
			f := crud.NewForm(form)
			return f.Result(map[string]any{
				"name":         f.Required("name", "Nama"),
				"slug":         f.Slug("slug", "Slug"),
				"description":  f.Text("description"),
				"categorySlug": f.Slug("categorySlug", "Slug kategori"),
				"isActive":     f.Checked("isActive"),
			})
		},
	}
}

// NewHandler constructs the features handler.
func NewHandler(api resourcelist.API, deps crud.Deps) *crud.Handler[models.Feature] {
	return crud.NewHandler(api, Definition(api), deps)
}
