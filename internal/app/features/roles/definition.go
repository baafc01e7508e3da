// internal/app/features/roles/definition.go
package roles

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/accessdeck/internal/app/features/crud"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
)

// Path is the backend collection.
const Path = "/api/v1/roles"

func active(r models.Role) bool { return r.IsActive }

// Definition describes the roles pages.
func Definition() crud.Definition[models.Role] {
	return crud.Definition[models.Role]{
		Slug:     "roles",
		Title:    "Peran",
		Singular: "Peran",
		Resource: resourcelist.Resource[models.Role]{Path: Path},

		List: listview.Config[models.Role]{
			Search: []func(models.Role) string{
				func(r models.Role) string { return r.Name },
				func(r models.Role) string { return r.Description },
				func(r models.Role) string { return r.Slug },
			},
			Filters: []listview.Filter[models.Role]{
				crud.StatusFilter(active),
				crud.FlagFilter("default", "Bawaan", "Bawaan", "Bukan bawaan", func(r models.Role) bool { return r.IsDefault }),
			},
			Sorts: []listview.SortKey[models.Role]{
				{Name: "name", Label: "Nama", Value: func(r models.Role) any { return r.Name }},
				{Name: "createdAt", Label: "Dibuat", Value: func(r models.Role) any { return r.CreatedAt }},
				{Name: "userCount", Label: "Pengguna", Value: func(r models.Role) any { return r.UserCount }},
			},
			DefaultSort: "name",
		},

		Columns: []crud.Column[models.Role]{
			{Label: "Nama", Sort: "name", Value: func(r models.Role) string { return r.Name }},
			{Label: "Slug", Value: func(r models.Role) string { return r.Slug }},
			{Label: "Pengguna", Sort: "userCount", Value: func(r models.Role) string { return strconv.Itoa(r.UserCount) }},
			{Label: "Bawaan", Value: func(r models.Role) string { return format.YesNo(r.IsDefault) }},
			{Label: "Status", Value: crud.ActiveCell(active), Tone: func(r models.Role) string { return crud.ActiveTone(r.IsActive) }},
			{Label: "Dibuat", Sort: "createdAt", Value: func(r models.Role) string { return format.Date(r.CreatedAt) }},
		},

		Stats: func(items []models.Role) []format.Stat {
			out := format.ActiveStats(items, active)
			users := format.Sum(items, func(r models.Role) int { return r.UserCount })
			return append(out, format.IntStat("Pengguna", users, ""))
		},

		Details: []crud.Detail[models.Role]{
			{Label: "Nama", Value: func(r models.Role) string { return r.Name }},
			{Label: "Slug", Value: func(r models.Role) string { return r.Slug }},
			{Label: "Deskripsi", Value: func(r models.Role) string { return r.Description }, Rich: true},
			{Label: "Izin", Value: func(r models.Role) string { return strings.Join(r.Permissions, ", ") }},
			{Label: "Pengguna", Value: func(r models.Role) string { return strconv.Itoa(r.UserCount) }},
			{Label: "Bawaan", Value: func(r models.Role) string { return format.YesNo(r.IsDefault) }},
			{Label: "Status", Value: crud.ActiveCell(active)},
		},

		ID:    func(r models.Role) models.ID { return r.ID },
		Label: func(r models.Role) string { return r.Name },

		Fields: []crud.Field{
			{Name: "name", Label: "Nama", Kind: crud.KindText, Required: true},
			{Name: "slug", Label: "Slug", Kind: crud.KindText, Required: true},
			{Name: "description", Label: "Deskripsi", Kind: crud.KindTextarea},
			{Name: "permissions", Label: "Izin", Kind: crud.KindText, Help: "Pisahkan dengan koma, misalnya users.read, users.write."},
			{Name: "isDefault", Label: "Peran bawaan untuk akun baru", Kind: crud.KindCheckbox},
			{Name: "isActive", Label: "Aktif", Kind: crud.KindCheckbox},
		},
		Values: func(r models.Role) url.Values {
			return url.Values{
				"name":        {r.Name},
				"slug":        {r.Slug},
				"description": {r.Description},
				"permissions": {strings.Join(r.Permissions, ", ")},
				"isDefault":   {crud.Bool(r.IsDefault)},
				"isActive":    {crud.Bool(r.IsActive)},
			}
		},
		Payload: payload,
	}
}

func payload(form url.Values, _ bool) (map[string]any, map[string]string) {
	f := crud.NewForm(form)
	return f.Result(map[string]any{
		"name":        f.Required("name", "Nama"),
		"slug":        f.Slug("slug", "Slug"),
		"description": f.Text("description"),
		"permissions": splitList(f.Text("permissions")),
		"isDefault":   f.Checked("isDefault"),
		"isActive":    f.Checked("isActive"),
	})
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
