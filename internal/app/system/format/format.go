// internal/app/system/format/format.go
//
// Package format holds the small display helpers shared by every page:
// initials for avatars, dates, masked tokens and derived counts.
package format

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Empty is shown in place of missing values.
const Empty = "-"

var months = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// Initials returns up to two upper-case initials: first and last word.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "?"
	}
	first := firstLetter(words[0])
	if len(words) == 1 {
		return first
	}
	return first + firstLetter(words[len(words)-1])
}

func firstLetter(w string) string {
	r, _ := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r))
}

// Date formats t as "2 Jan 2024" with Indonesian month abbreviations.
func Date(t time.Time) string {
	if t.IsZero() {
		return Empty
	}
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

// DateTime formats t as "2 Jan 2024 15:04".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return Empty
	}
	return fmt.Sprintf("%s %02d:%02d", Date(t), t.Hour(), t.Minute())
}

// DatePtr is Date for optional timestamps.
func DatePtr(t *time.Time) string {
	if t == nil {
		return Empty
	}
	return DateTime(*t)
}

// MaskToken keeps the first 6 and last 4 characters of a token.
func MaskToken(tok string) string {
	if tok == "" {
		return Empty
	}
	if len(tok) <= 12 {
		return strings.Repeat("•", 8)
	}
	return tok[:6] + "…" + tok[len(tok)-4:]
}

// Percent returns part/total as a whole percentage, 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (part*100 + total/2) / total
}

// Ratio renders "part/total".
func Ratio(part, total int) string {
	return strconv.Itoa(part) + "/" + strconv.Itoa(total)
}

// YesNo renders a flag.
func YesNo(b bool) string {
	if b {
		return "Ya"
	}
	return "Tidak"
}

// ActiveLabel renders an active flag.
func ActiveLabel(active bool) string {
	if active {
		return "Aktif"
	}
	return "Nonaktif"
}

// Count returns how many items satisfy pred.
func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}

// Sum adds up value over items.
func Sum[T any](items []T, value func(T) int) int {
	n := 0
	for _, it := range items {
		n += value(it)
	}
	return n
}

// CountBy groups items by key and counts each group.
func CountBy[T any](items []T, key func(T) string) map[string]int {
	out := make(map[string]int)
	for _, it := range items {
		out[key(it)]++
	}
	return out
}

// Bucket is one group of a CountBy result.
type Bucket struct {
	Key   string
	Count int
}

// SortedCounts orders counts by descending count, then key.
func SortedCounts(counts map[string]int) []Bucket {
	out := make([]Bucket, 0, len(counts))
	for k, v := range counts {
		out = append(out, Bucket{Key: k, Count: v})
	}
	slices.SortFunc(out, func(a, b Bucket) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

// Stat is one statistic card.
type Stat struct {
	Label string
	Value string
	Tone  string // "", "good", "warn", "muted"
}

// IntStat builds a Stat from a count.
func IntStat(label string, n int, tone string) Stat {
	return Stat{Label: label, Value: strconv.Itoa(n), Tone: tone}
}

// ActiveStats is the total/active/inactive trio most pages show.
func ActiveStats[T any](items []T, active func(T) bool) []Stat {
	on := Count(items, active)
	return []Stat{
		IntStat("Total", len(items), ""),
		IntStat("Aktif", on, "good"),
		IntStat("Nonaktif", len(items)-on, "muted"),
	}
}
