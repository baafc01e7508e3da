// internal/app/features/users/definition.go
//
// Package users manages backend accounts.
package users

import (
	"net/url"
	"strconv"

	"github.com/dalemusser/accessdeck/internal/app/features/crud"
	"github.com/dalemusser/accessdeck/internal/app/store/audit"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
)

// Path is the backend collection.
const Path = "/api/v1/users"

const minPassword = 8

func active(u models.User) bool   { return u.IsActive }
func verified(u models.User) bool { return u.IsVerified }

// Definition describes the users pages.
func Definition() crud.Definition[models.User] {
	return crud.Definition[models.User]{
		Slug:     "users",
		Title:    "Pengguna",
		Singular: "Pengguna",
		Resource: resourcelist.Resource[models.User]{Path: Path},

		List: listview.Config[models.User]{
			Search: []func(models.User) string{
				func(u models.User) string { return u.Name },
				func(u models.User) string { return u.Email },
				func(u models.User) string { return u.Username },
			},
			Filters: []listview.Filter[models.User]{
				crud.StatusFilter(active),
				crud.ValueFilter("role", "Peran", func(u models.User) string { return u.Role }, nil),
				crud.FlagFilter("verified", "Verifikasi", "Terverifikasi", "Belum", verified),
			},
			Sorts: []listview.SortKey[models.User]{
				{Name: "name", Label: "Nama", Value: func(u models.User) any { return u.Name }},
				{Name: "email", Label: "Email", Value: func(u models.User) any { return u.Email }},
				{Name: "createdAt", Label: "Dibuat", Value: func(u models.User) any { return u.CreatedAt }},
			},
			DefaultSort:  "name",
			DefaultOrder: listview.Asc,
		},

		Columns: []crud.Column[models.User]{
			{Label: "Nama", Sort: "name", Value: func(u models.User) string { return u.Name }},
			{Label: "Email", Sort: "email", Value: func(u models.User) string { return u.Email }},
			{Label: "Peran", Value: func(u models.User) string { return u.Role }},
			{Label: "Status", Value: crud.ActiveCell(active), Tone: func(u models.User) string { return crud.ActiveTone(u.IsActive) }},
			{Label: "Terverifikasi", Value: func(u models.User) string { return format.YesNo(u.IsVerified) }},
			{Label: "Dibuat", Sort: "createdAt", Value: func(u models.User) string { return format.Date(u.CreatedAt) }},
		},

		Stats: func(items []models.User) []format.Stat {
			out := format.ActiveStats(items, active)
			return append(out, format.IntStat("Terverifikasi", format.Count(items, verified), ""))
		},

		Details: []crud.Detail[models.User]{
			{Label: "Nama", Value: func(u models.User) string { return u.Name }},
			{Label: "Username", Value: func(u models.User) string { return orDash(u.Username) }},
			{Label: "Email", Value: func(u models.User) string { return u.Email }},
			{Label: "Peran", Value: func(u models.User) string { return u.Role }},
			{Label: "Status", Value: crud.ActiveCell(active)},
			{Label: "Terverifikasi", Value: func(u models.User) string { return format.YesNo(u.IsVerified) }},
			{Label: "Login terakhir", Value: func(u models.User) string { return format.DatePtr(u.LastLoginAt) }},
			{Label: "Dibuat", Value: func(u models.User) string { return format.DateTime(u.CreatedAt) }},
		},

		Actions: []crud.Action[models.User]{{
			Name:      "status",
			EventType: audit.EventStatusChanged,
			Label: func(u models.User) string {
				if u.IsActive {
					return "Nonaktifkan"
				}
				return "Aktifkan"
			},
			Hidden: func(u models.User) map[string]string {
				return map[string]string{"isActive": strconv.FormatBool(!u.IsActive)}
			},
			Payload: func(form url.Values) any {
				return map[string]bool{"isActive": form.Get("isActive") == "true"}
			},
		}},

		ID:    func(u models.User) models.ID { return u.ID },
		Label: func(u models.User) string { return u.Name },

		Fields: []crud.Field{
			{Name: "name", Label: "Nama", Kind: crud.KindText, Required: true},
			{Name: "username", Label: "Username", Kind: crud.KindText},
			{Name: "email", Label: "Email", Kind: crud.KindEmail, Required: true},
			{Name: "role", Label: "Peran", Kind: crud.KindText, Required: true, Help: "Slug peran, misalnya admin atau user."},
			{Name: "password", Label: "Kata sandi", Kind: crud.KindPassword, Required: true, CreateOnly: true, Help: "Minimal 8 karakter."},
			{Name: "isActive", Label: "Aktif", Kind: crud.KindCheckbox},
			{Name: "isVerified", Label: "Email terverifikasi", Kind: crud.KindCheckbox},
		},
		Values: func(u models.User) url.Values {
			return url.Values{
				"name":       {u.Name},
				"username":   {u.Username},
				"email":      {u.Email},
				"role":       {u.Role},
				"isActive":   {crud.Bool(u.IsActive)},
				"isVerified": {crud.Bool(u.IsVerified)},
			}
		},
		Payload: payload,
	}
}

func payload(form url.Values, editing bool) (map[string]any, map[string]string) {
	f := crud.NewForm(form)
	p := map[string]any{
		"name":       f.Required("name", "Nama"),
		"email":      f.Email("email", "Email"),
		"role":       f.Slug("role", "Peran"),
		"isActive":   f.Checked("isActive"),
		"isVerified": f.Checked("isVerified"),
	}
	if v := f.Text("username"); v != "" {
		p["username"] = v
	}
	if !editing {
		pw := form.Get("password")
		if len(pw) < minPassword {
			f.Errors["password"] = "Kata sandi minimal 8 karakter."
		}
		p["password"] = pw
	}
	return f.Result(p)
}

func orDash(s string) string {
	if s == "" {
		return format.Empty
	}
	return s
}
