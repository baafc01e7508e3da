// internal/app/features/phones/definition.go
//
// Package phones manages user phone numbers. Lists can be scoped by
// ?userId= and ?countryCode=.
package phones

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

// Path is the backend collection. Phones live on the v2 API.
const Path = "/api/v2/phones"

func isDefault(p models.Phone) bool  { return p.IsDefault }
func isVerified(p models.Phone) bool { return p.IsVerified }

// Definition describes the phone pages.
func Definition() crud.Definition[models.Phone] {
	return crud.Definition[models.Phone]{
		Slug:     "phones",
		Title:    "Nomor Telepon",
		Singular: "Nomor",
		Resource: resourcelist.Resource[models.Phone]{Path: Path},
		Scope:    []string{"userId", "countryCode"},

		List: listview.Config[models.Phone]{
			Search: []func(models.Phone) string{
				func(p models.Phone) string { return p.Number },
				func(p models.Phone) string { return p.Label },
				func(p models.Phone) string { return p.CountryCode },
			},
			Filters: []listview.Filter[models.Phone]{
				crud.FlagFilter("default", "Utama", "Utama", "Lainnya", isDefault),
				crud.FlagFilter("verified", "Verifikasi", "Terverifikasi", "Belum", isVerified),
				crud.ValueFilter("country", "Kode negara", func(p models.Phone) string { return p.CountryCode }, nil),
			},
			Sorts: []listview.SortKey[models.Phone]{
				{Name: "number", Label: "Nomor", Value: func(p models.Phone) any { return p.E164() }},
				{Name: "createdAt", Label: "Dibuat", Value: func(p models.Phone) any { return p.CreatedAt }},
			},
			DefaultSort:  "createdAt",
			DefaultOrder: listview.Desc,
		},

		Columns: []crud.Column[models.Phone]{
			{Label: "Pengguna", Value: func(p models.Phone) string { return "#" + p.UserID.String() }},
			{Label: "Nomor", Sort: "number", Value: func(p models.Phone) string { return p.E164() }},
			{Label: "Label", Value: func(p models.Phone) string { return p.Label }},
			{Label: "Utama", Value: func(p models.Phone) string { return format.YesNo(p.IsDefault) }},
			{Label: "Terverifikasi", Value: func(p models.Phone) string { return format.YesNo(p.IsVerified) }, Tone: func(p models.Phone) string {
				if p.IsVerified {
					return "good"
				}
				return "warn"
			}},
			{Label: "Dibuat", Sort: "createdAt", Value: func(p models.Phone) string { return format.Date(p.CreatedAt) }},
		},
		Stats: func(items []models.Phone) []format.Stat {
			verified := format.Count(items, isVerified)
			return []format.Stat{
				format.IntStat("Total", len(items), ""),
				format.IntStat("Terverifikasi", verified, "good"),
				format.IntStat("Belum", len(items)-verified, "warn"),
			}
		},

		Details: []crud.Detail[models.Phone]{
			{Label: "Pengguna", Value: func(p models.Phone) string { return p.UserID.String() }},
			{Label: "Nomor", Value: func(p models.Phone) string { return p.E164() }},
			{Label: "Label", Value: func(p models.Phone) string { return p.Label }},
			{Label: "Utama", Value: func(p models.Phone) string { return format.YesNo(p.IsDefault) }},
			{Label: "Terverifikasi", Value: func(p models.Phone) string { return format.YesNo(p.IsVerified) }},
			{Label: "Dibuat", Value: func(p models.Phone) string { return format.DateTime(p.CreatedAt) }},
		},

		Actions: []crud.Action[models.Phone]{{
			Name:      "default",
			EventType: audit.EventDefaultSet,
			Label:     func(models.Phone) string { return "Jadikan utama" },
			Visible:   func(p models.Phone) bool { return !p.IsDefault },
		}},

		ID:    func(p models.Phone) models.ID { return p.ID },
		Label: func(p models.Phone) string { return p.E164() },

		Fields: []crud.Field{
			{Name: "userId", Label: "ID pengguna", Kind: crud.KindNumber, Required: true, CreateOnly: true},
			{Name: "countryCode", Label: "Kode negara", Kind: crud.KindText, Required: true, Help: "Misalnya +62."},
			{Name: "number", Label: "Nomor", Kind: crud.KindText, Required: true, Help: "Tanpa kode negara dan tanpa 0 di depan."},
			{Name: "label", Label: "Label", Kind: crud.KindText},
			{Name: "isDefault", Label: "Nomor utama", Kind: crud.KindCheckbox},
			{Name: "isVerified", Label: "Terverifikasi", Kind: crud.KindCheckbox},
		},
		Values: func(p models.Phone) url.Values {
			return url.Values{
				"userId":      {p.UserID.String()},
				"countryCode": {p.CountryCode},
				"number":      {p.Number},
				"label":       {p.Label},
				"isDefault":   {crud.Bool(p.IsDefault)},
				"isVerified":  {crud.Bool(p.IsVerified)},
			}
		},
		Payload: payload,
	}
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func payload(form url.Values, editing bool) (map[string]any, map[string]string) {
	f := crud.NewForm(form)

	cc := f.Required("countryCode", "Kode negara")
	if cc != "" {
		cc = "+" + strings.TrimPrefix(cc, "+")
		if !digits(cc[1:]) {
			f.Errors["countryCode"] = "Kode negara harus berupa angka, misalnya +62."
		}
	}
	number := strings.NewReplacer(" ", "", "-", "").Replace(f.Required("number", "Nomor"))
	number = strings.TrimPrefix(number, "0")
	if number != "" && !digits(number) {
		f.Errors["number"] = "Nomor hanya boleh berisi angka."
	}

	p := map[string]any{
		"countryCode": cc,
		"number":      number,
		"label":       f.Text("label"),
		"isDefault":   f.Checked("isDefault"),
		"isVerified":  f.Checked("isVerified"),
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

// NewHandler constructs the phones handler.
func NewHandler(api resourcelist.API, deps crud.Deps) *crud.Handler[models.Phone] {
	return crud.NewHandler(api, Definition(), deps)
}
