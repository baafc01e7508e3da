package format

import (
	"reflect"
	"testing"
	"time"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "?"},
		{"   ", "?"},
		{"ana", "A"},
		{"Budi Santoso", "BS"},
		{"siti nur aisyah", "SA"},
		{"Élodie  martin", "ÉM"},
	}
	for _, tt := range tests {
		if got := Initials(tt.in); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2024, time.August, 5, 9, 7, 0, 0, time.UTC)
	if got := Date(ts); got != "5 Agu 2024" {
		t.Errorf("Date = %q", got)
	}
	if got := DateTime(ts); got != "5 Agu 2024 09:07" {
		t.Errorf("DateTime = %q", got)
	}
	if got := Date(time.Time{}); got != Empty {
		t.Errorf("Date(zero) = %q", got)
	}
	if got := DatePtr(nil); got != Empty {
		t.Errorf("DatePtr(nil) = %q", got)
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", Empty},
		{"short", "••••••••"},
		{"eyJhbGciOiJIUzI1NiJ9.payload.sig1234", "eyJhbG…1234"},
	}
	for _, tt := range tests {
		if got := MaskToken(tt.in); got != tt.want {
			t.Errorf("MaskToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.part, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.part, tt.total, got, tt.want)
		}
	}
	if got := Ratio(6, 9); got != "6/9" {
		t.Errorf("Ratio = %q", got)
	}
}

func TestCounts(t *testing.T) {
	roles := []string{"admin", "user", "user", "editor", "user", "admin"}
	counts := CountBy(roles, func(s string) string { return s })
	got := SortedCounts(counts)
	want := []Bucket{{"user", 3}, {"admin", 2}, {"editor", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedCounts = %v, want %v", got, want)
	}

	if n := Count(roles, func(s string) bool { return s == "admin" }); n != 2 {
		t.Errorf("Count = %d", n)
	}
	if n := Sum(roles, func(s string) int { return len(s) }); n != 5+4+4+6+4+5 {
		t.Errorf("Sum = %d", n)
	}
}

func TestActiveStats(t *testing.T) {
	flags := []bool{true, false, true}
	got := ActiveStats(flags, func(b bool) bool { return b })
	if len(got) != 3 || got[0].Value != "3" || got[1].Value != "2" || got[2].Value != "1" {
		t.Errorf("ActiveStats = %+v", got)
	}
}
