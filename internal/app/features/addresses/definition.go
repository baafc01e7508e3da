// internal/app/features/addresses/definition.go
//
// Package addresses manages user postal addresses. A list can be scoped to
// one user with ?userId=; the backend filters on it.
package addresses

import (
	"net/url"
	"strings"

	"github.com/dalemusser/accessdeck/internal/app/features/crud"
	"github.com/dalemusser/accessdeck/internal/app/store/audit"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
)

// Path is the backend collection.
const Path = "/api/v1/user-addresses"

func isDefault(a models.Address) bool { return a.IsDefault }

func cityLine(a models.Address) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.City, a.Province, a.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Definition describes the address pages.
func Definition() crud.Definition[models.Address] {
	return crud.Definition[models.Address]{
		Slug:     "addresses",
		Title:    "Alamat",
		Singular: "Alamat",
		Resource: resourcelist.Resource[models.Address]{Path: Path},
		Scope:    []string{"userId"},

		List: listview.Config[models.Address]{
			Search: []func(models.Address) string{
				func(a models.Address) string { return a.Label },
				func(a models.Address) string { return a.Street },
				func(a models.Address) string { return a.City },
				func(a models.Address) string { return a.Province },
				func(a models.Address) string { return a.PostalCode },
			},
			Filters: []listview.Filter[models.Address]{
				crud.FlagFilter("default", "Utama", "Utama", "Lainnya", isDefault),
				crud.ValueFilter("city", "Kota", func(a models.Address) string { return a.City }, nil),
			},
			Sorts: []listview.SortKey[models.Address]{
				{Name: "label", Label: "Label", Value: func(a models.Address) any { return a.Label }},
				{Name: "city", Label: "Kota", Value: func(a models.Address) any { return a.City }},
				{Name: "createdAt", Label: "Dibuat", Value: func(a models.Address) any { return a.CreatedAt }},
			},
			DefaultSort:  "createdAt",
			DefaultOrder: listview.Desc,
		},

		Columns: []crud.Column[models.Address]{
			{Label: "Pengguna", Value: func(a models.Address) string { return "#" + a.UserID.String() }},
			{Label: "Label", Sort: "label", Value: func(a models.Address) string { return a.Label }},
			{Label: "Jalan", Value: func(a models.Address) string { return a.Street }},
			{Label: "Kota", Sort: "city", Value: cityLine},
			{Label: "Utama", Value: func(a models.Address) string { return format.YesNo(a.IsDefault) }, Tone: func(a models.Address) string {
				if a.IsDefault {
					return "good"
				}
				return ""
			}},
		},
		Stats: func(items []models.Address) []format.Stat {
			users := len(format.CountBy(items, func(a models.Address) string { return a.UserID.String() }))
			cities := len(format.CountBy(items, func(a models.Address) string { return a.City }))
			return []format.Stat{
				format.IntStat("Total", len(items), ""),
				format.IntStat("Pengguna", users, ""),
				format.IntStat("Kota", cities, ""),
			}
		},

		Details: []crud.Detail[models.Address]{
			{Label: "Pengguna", Value: func(a models.Address) string { return a.UserID.String() }},
			{Label: "Label", Value: func(a models.Address) string { return a.Label }},
			{Label: "Penerima", Value: func(a models.Address) string { return a.Recipient }},
			{Label: "Jalan", Value: func(a models.Address) string { return a.Street }},
			{Label: "Kota", Value: cityLine},
			{Label: "Negara", Value: func(a models.Address) string { return a.Country }},
			{Label: "Utama", Value: func(a models.Address) string { return format.YesNo(a.IsDefault) }},
			{Label: "Dibuat", Value: func(a models.Address) string { return format.DateTime(a.CreatedAt) }},
		},

		Actions: []crud.Action[models.Address]{{
			Name:      "default",
			EventType: audit.EventDefaultSet,
			Label:     func(models.Address) string { return "Jadikan utama" },
			Visible:   func(a models.Address) bool { return !a.IsDefault },
		}},

		ID:    func(a models.Address) models.ID { return a.ID },
		Label: func(a models.Address) string { return a.Label + " (" + a.City + ")" },

		Fields: []crud.Field{
			{Name: "userId", Label: "ID pengguna", Kind: crud.KindNumber, Required: true, CreateOnly: true},
			{Name: "label", Label: "Label", Kind: crud.KindText, Required: true, Help: "Misalnya Rumah atau Kantor."},
			{Name: "recipient", Label: "Penerima", Kind: crud.KindText},
			{Name: "street", Label: "Jalan", Kind: crud.KindTextarea, Required: true},
			{Name: "city", Label: "Kota", Kind: crud.KindText, Required: true},
			{Name: "province", Label: "Provinsi", Kind: crud.KindText},
			{Name: "postalCode", Label: "Kode pos", Kind: crud.KindText},
			{Name: "country", Label: "Negara", Kind: crud.KindText, Help: "Kode ISO, misalnya ID."},
			{Name: "isDefault", Label: "Alamat utama", Kind: crud.KindCheckbox},
		},
		Values: func(a models.Address) url.Values {
			return url.Values{
				"userId":     {a.UserID.String()},
				"label":      {a.Label},
				"recipient":  {a.Recipient},
				"street":     {a.Street},
				"city":       {a.City},
				"province":   {a.Province},
				"postalCode": {a.PostalCode},
				"country":    {a.Country},
				"isDefault":  {crud.Bool(a.IsDefault)},
			}
		},
		Payload: payload,
	}
}

func payload(form url.Values, editing bool) (map[string]any, map[string]string) {
	f := crud.NewForm(form)
	p := map[string]any{
		"label":      f.Required("label", "Label"),
		"recipient":  f.Text("recipient"),
		"street":     f.Required("street", "Jalan"),
		"city":       f.Required("city", "Kota"),
		"province":   f.Text("province"),
		"postalCode": f.Text("postalCode"),
		"country":    strings.ToUpper(f.Text("country")),
		"isDefault":  f.Checked("isDefault"),
	}
	if !editing {
		id := f.Int("userId", "ID pengguna", 0)
		if id <= 0 && f.Errors["userId"] == "" {
			f.Errors["userId"] = "ID pengguna wajib diisi."
		}
		p["userId"] = id
	}
	return f.Result(p)
}

// NewHandler constructs the addresses handler.
func NewHandler(api resourcelist.API, deps crud.Deps) *crud.Handler[models.Address] {
	return crud.NewHandler(api, Definition(), deps)
}
