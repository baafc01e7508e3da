// internal/app/features/routefeatures/definition.go
//
// Package routefeatures manages the bindings between backend routes and the
// features that gate them.
package routefeatures

import (
	"context"
	"net/url"
	"strings"

	"github.com/dalemusser/accessdeck/internal/app/features/catalog"
	"github.com/dalemusser/accessdeck/internal/app/features/crud"
	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
)

// Path is the backend collection.
const Path = "/api/v1/route-features"

// Methods are the HTTP methods a route binding may name.
var Methods = []listview.Option{
	{Value: "GET", Label: "GET"},
	{Value: "POST", Label: "POST"},
	{Value: "PUT", Label: "PUT"},
	{Value: "PATCH", Label: "PATCH"},
	{Value: "DELETE", Label: "DELETE"},
}

func active(rf models.RouteFeature) bool { return rf.IsActive }

// WithFeatureNames returns an enrich step that fills FeatureName and
// FeatureSlug from the feature list.
func WithFeatureNames(api apiclient.Lister) func(context.Context, []models.RouteFeature) ([]models.RouteFeature, error) {
	return func(ctx context.Context, items []models.RouteFeature) ([]models.RouteFeature, error) {
		feats, err := apiclient.FetchList[models.Feature](ctx, api, catalog.Path, nil)
		if err != nil {
			return nil, err
		}
		byID := make(map[models.ID]models.Feature, len(feats))
		for _, f := range feats {
			byID[f.ID] = f
		}
		for i := range items {
			if f, ok := byID[items[i].FeatureID]; ok {
				items[i].FeatureName = f.Name
				items[i].FeatureSlug = f.Slug
			}
		}
		return items, nil
	}
}

func feature(rf models.RouteFeature) string {
	if rf.FeatureName == "" {
		return "#" + rf.FeatureID.String() + " (tidak ditemukan)"
	}
	return rf.FeatureName
}

func methodTone(rf models.RouteFeature) string {
	switch rf.Method {
	case "GET":
		return "good"
	case "DELETE":
		return "warn"
	}
	return ""
}

// Definition describes the route binding pages. api serves the feature
// lookup.
func Definition(api apiclient.Lister) crud.Definition[models.RouteFeature] {
	return crud.Definition[models.RouteFeature]{
		Slug:     "route-features",
		Title:    "Rute Fitur",
		Singular: "Rute",
		Resource: resourcelist.Resource[models.RouteFeature]{Path: Path, Enrich: WithFeatureNames(api)},

		List: listview.Config[models.RouteFeature]{
			Search: []func(models.RouteFeature) string{
				func(rf models.RouteFeature) string { return rf.Path },
				func(rf models.RouteFeature) string { return rf.Method },
				func(rf models.RouteFeature) string { return rf.FeatureSlug },
			},
			Filters: []listview.Filter[models.RouteFeature]{
				{
					Name:    "method",
					Label:   "Metode",
					Options: Methods,
					Match:   func(rf models.RouteFeature, v string) bool { return strings.EqualFold(rf.Method, v) },
				},
				crud.StatusFilter(active),
			},
			Sorts: []listview.SortKey[models.RouteFeature]{
				{Name: "path", Label: "Path", Value: func(rf models.RouteFeature) any { return rf.Path }},
				{Name: "method", Label: "Metode", Value: func(rf models.RouteFeature) any { return rf.Method }},
				{Name: "feature", Label: "Fitur", Value: func(rf models.RouteFeature) any { return rf.FeatureName }},
			},
			DefaultSort: "path",
		},

		Columns: []crud.Column[models.RouteFeature]{
			{Label: "Metode", Sort: "method", Value: func(rf models.RouteFeature) string { return rf.Method }, Tone: methodTone},
			{Label: "Path", Sort: "path", Value: func(rf models.RouteFeature) string { return rf.Path }},
			{Label: "Fitur", Sort: "feature", Value: feature},
			{Label: "Status", Value: crud.ActiveCell(active), Tone: func(rf models.RouteFeature) string { return crud.ActiveTone(rf.IsActive) }},
		},
		Stats: func(items []models.RouteFeature) []format.Stat {
			out := format.ActiveStats(items, active)
			for _, b := range format.SortedCounts(format.CountBy(items, func(rf models.RouteFeature) string { return rf.Method })) {
				out = append(out, format.IntStat(b.Key, b.Count, ""))
			}
			return out
		},

		Details: []crud.Detail[models.RouteFeature]{
			{Label: "Metode", Value: func(rf models.RouteFeature) string { return rf.Method }},
			{Label: "Path", Value: func(rf models.RouteFeature) string { return rf.Path }},
			{Label: "Fitur", Value: feature},
			{Label: "Slug fitur", Value: func(rf models.RouteFeature) string { return rf.FeatureSlug }},
			{Label: "Deskripsi", Value: func(rf models.RouteFeature) string { return rf.Description }},
			{Label: "Status", Value: crud.ActiveCell(active)},
		},

		ID:    func(rf models.RouteFeature) models.ID { return rf.ID },
		Label: func(rf models.RouteFeature) string { return rf.Method + " " + rf.Path },

		Fields: []crud.Field{
			{Name: "path", Label: "Path", Kind: crud.KindText, Required: true, Help: "Contoh: /api/v1/users/:id"},
			{Name: "method", Label: "Metode", Kind: crud.KindSelect, Required: true, Options: Methods},
			{Name: "featureId", Label: "ID fitur", Kind: crud.KindNumber, Required: true},
			{Name: "description", Label: "Deskripsi", Kind: crud.KindText},
			{Name: "isActive", Label: "Aktif", Kind: crud.KindCheckbox},
		},
		Values: func(rf models.RouteFeature) url.Values {
			return url.Values{
				"path":        {rf.Path},
				"method":      {rf.Method},
				"featureId":   {rf.FeatureID.String()},
				"description": {rf.Description},
				"isActive":    {crud.Bool(rf.IsActive)},
			}
		},
		Payload: payload,
	}
}

func payload(form url.Values, _ bool) (map[string]any, map[string]string) {
	f := crud.NewForm(form)
	path := f.Required("path", "Path")
	if path != "" && !strings.HasPrefix(path, "/") {
		f.Errors["path"] = "Path harus diawali /."
	}
	method := strings.ToUpper(f.Required("method", "Metode"))
	if method != "" && !validMethod(method) {
		f.Errors["method"] = "Metode tidak valid."
	}
	id := f.Int("featureId", "ID fitur", 0)
	if id <= 0 && f.Errors["featureId"] == "" {
		f.Errors["featureId"] = "ID fitur wajib diisi."
	}
	return f.Result(map[string]any{
		"path":        path,
		"method":      method,
		"featureId":   id,
		"description": f.Text("description"),
		"isActive":    f.Checked("isActive"),
	})
}

func validMethod(m string) bool {
	for _, o := range Methods {
		if o.Value == m {
			return true
		}
	}
	return false
}

// NewHandler constructs the route binding handler.
func NewHandler(api resourcelist.API, deps crud.Deps) *crud.Handler[models.RouteFeature] {
	return crud.NewHandler(api, Definition(api), deps)
}
