// internal/app/features/accesslogs/definition.go
//
// Package accesslogs is a read-only view of the requests the backend has
// recorded.
package accesslogs

import (
	"strconv"
	"strings"

	"github.com/dalemusser/accessdeck/internal/app/features/crud"
	"github.com/dalemusser/accessdeck/internal/app/features/routefeatures"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
)

// Path is the backend collection.
const Path = "/api/v1/access-logs"

// StatusClasses are the response classes the status filter offers.
var StatusClasses = []listview.Option{
	{Value: "2xx", Label: "2xx Sukses"},
	{Value: "3xx", Label: "3xx Alihkan"},
	{Value: "4xx", Label: "4xx Klien"},
	{Value: "5xx", Label: "5xx Server"},
}

func failed(l models.AccessLog) bool { return l.StatusCode >= 400 }

func statusTone(l models.AccessLog) string {
	switch {
	case l.StatusCode >= 500:
		return "warn"
	case l.StatusCode >= 400:
		return "muted"
	}
	return "good"
}

func duration(l models.AccessLog) string { return strconv.Itoa(l.DurationMs) + " ms" }

// AverageDuration is the mean response time in milliseconds, 0 for no logs.
func AverageDuration(items []models.AccessLog) int {
	if len(items) == 0 {
		return 0
	}
	return format.Sum(items, func(l models.AccessLog) int { return l.DurationMs }) / len(items)
}

// Definition describes the access log pages.
func Definition() crud.Definition[models.AccessLog] {
	return crud.Definition[models.AccessLog]{
		Slug:     "access-logs",
		Title:    "Log Akses",
		Singular: "Log",
		Resource: resourcelist.Resource[models.AccessLog]{Path: Path},
		ReadOnly: true,
		Scope:    []string{"userId"},

		List: listview.Config[models.AccessLog]{
			Search: []func(models.AccessLog) string{
				func(l models.AccessLog) string { return l.Path },
				func(l models.AccessLog) string { return l.Method },
				func(l models.AccessLog) string { return l.UserEmail },
				func(l models.AccessLog) string { return l.IP },
			},
			Filters: []listview.Filter[models.AccessLog]{
				{
					Name:    "method",
					Label:   "Metode",
					Options: routefeatures.Methods,
					Match:   func(l models.AccessLog, v string) bool { return strings.EqualFold(l.Method, v) },
				},
				{
					Name:    "status",
					Label:   "Status",
					Options: StatusClasses,
					Match:   func(l models.AccessLog, v string) bool { return l.StatusClass() == strings.ToLower(v) },
				},
			},
			Sorts: []listview.SortKey[models.AccessLog]{
				{Name: "createdAt", Label: "Waktu", Value: func(l models.AccessLog) any { return l.CreatedAt }},
				{Name: "path", Label: "Path", Value: func(l models.AccessLog) any { return l.Path }},
				{Name: "duration", Label: "Durasi", Value: func(l models.AccessLog) any { return l.DurationMs }},
			},
			DefaultSort:  "createdAt",
			DefaultOrder: listview.Desc,
			PerPage:      25,
		},

		Columns: []crud.Column[models.AccessLog]{
			{Label: "Waktu", Sort: "createdAt", Value: func(l models.AccessLog) string { return format.DateTime(l.CreatedAt) }},
			{Label: "Metode", Value: func(l models.AccessLog) string { return l.Method }},
			{Label: "Path", Sort: "path", Value: func(l models.AccessLog) string { return l.Path }},
			{Label: "Status", Value: func(l models.AccessLog) string { return strconv.Itoa(l.StatusCode) }, Tone: statusTone},
			{Label: "Durasi", Sort: "duration", Value: duration},
			{Label: "Pengguna", Value: func(l models.AccessLog) string { return l.UserEmail }},
		},
		Stats: func(items []models.AccessLog) []format.Stat {
			errs := format.Count(items, failed)
			tone := ""
			if errs > 0 {
				tone = "warn"
			}
			return []format.Stat{
				format.IntStat("Permintaan", len(items), ""),
				format.IntStat("Gagal", errs, tone),
				{Label: "Tingkat gagal", Value: strconv.Itoa(format.Percent(errs, len(items))) + "%", Tone: tone},
				{Label: "Rata-rata durasi", Value: strconv.Itoa(AverageDuration(items)) + " ms"},
			}
		},

		Details: []crud.Detail[models.AccessLog]{
			{Label: "Waktu", Value: func(l models.AccessLog) string { return format.DateTime(l.CreatedAt) }},
			{Label: "Metode", Value: func(l models.AccessLog) string { return l.Method }},
			{Label: "Path", Value: func(l models.AccessLog) string { return l.Path }},
			{Label: "Status", Value: func(l models.AccessLog) string { return strconv.Itoa(l.StatusCode) }},
			{Label: "Durasi", Value: duration},
			{Label: "Pengguna", Value: func(l models.AccessLog) string { return l.UserEmail }},
			{Label: "IP", Value: func(l models.AccessLog) string { return l.IP }},
			{Label: "User agent", Value: func(l models.AccessLog) string { return l.UserAgent }},
		},

		ID:    func(l models.AccessLog) models.ID { return l.ID },
		Label: func(l models.AccessLog) string { return l.Method + " " + l.Path },
	}
}

// NewHandler constructs the access log handler.
func NewHandler(api resourcelist.API, deps crud.Deps) *crud.Handler[models.AccessLog] {
	return crud.NewHandler(api, Definition(), deps)
}
