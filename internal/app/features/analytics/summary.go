package analytics

import (
	"time"

	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/domain/models"
)

// Days is how far back the request chart reaches, today included.
const Days = 7

// TopPaths is how many paths the path chart shows.
const TopPaths = 5

// Summary is everything the dashboard shows.
type Summary struct {
	Stats    []format.Stat
	Requests []format.Bucket // per day, oldest first; Key is "02 Jan"
	Paths    []format.Bucket // busiest first
	Roles    []format.Bucket // users per role, labeled by role name
}

// Summarize derives the dashboard from a snapshot. Days are calendar
// days in now's location.
func Summarize(s Snapshot, now time.Time) Summary {
	loc := now.Location()
	today := dayOf(now, loc)

	perDay := make(map[time.Time]int, Days)
	for _, l := range s.Logs {
		perDay[dayOf(l.CreatedAt, loc)]++
	}

	var sum Summary
	for i := Days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		sum.Requests = append(sum.Requests, format.Bucket{Key: d.Format("02 Jan"), Count: perDay[d]})
	}

	paths := format.SortedCounts(format.CountBy(s.Logs, func(l models.AccessLog) string { return l.Path }))
	if len(paths) > TopPaths {
		paths = paths[:TopPaths]
	}
	sum.Paths = paths

	names := make(map[string]string, len(s.Roles))
	for _, r := range s.Roles {
		names[r.Slug] = r.Name
	}
	for _, b := range format.SortedCounts(format.CountBy(s.Users, func(u models.User) string { return u.Role })) {
		if n, ok := names[b.Key]; ok {
			b.Key = n
		} else if b.Key == "" {
			b.Key = format.Empty
		}
		sum.Roles = append(sum.Roles, b)
	}

	activeUsers := format.Count(s.Users, func(u models.User) bool { return u.IsActive })
	activeFeatures := format.Count(s.Features, func(f models.Feature) bool { return f.IsActive })
	failed := format.Count(s.Logs, func(l models.AccessLog) bool { return l.StatusCode >= 400 })
	tone := ""
	if failed > 0 {
		tone = "warn"
	}
	sum.Stats = []format.Stat{
		format.IntStat("Pengguna", len(s.Users), ""),
		format.IntStat("Pengguna aktif", activeUsers, "good"),
		format.IntStat("Peran", len(s.Roles), ""),
		{Label: "Fitur aktif", Value: format.Ratio(activeFeatures, len(s.Features))},
		format.IntStat("Permintaan hari ini", perDay[today], ""),
		format.IntStat("Permintaan gagal", failed, tone),
	}
	return sum
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
