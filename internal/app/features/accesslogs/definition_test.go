package accesslogs_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/dalemusser/accessdeck/internal/app/features/accesslogs"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
	"github.com/dalemusser/accessdeck/internal/testutil"
)

func TestFilters(t *testing.T) {
	_, api := testutil.NewMockAPI(t)
	def := accesslogs.Definition()
	ctl := resourcelist.New(api, def.Resource)
	if err := ctl.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 91},
		{"f_method=GET", 56},
		{"f_status=2xx", 70},
		{"f_status=4xx", 14},
		{"f_status=5XX", 7},
		{"f_method=DELETE&f_status=4xx", 7},
		{"search=reports", 7},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			if got := ctl.View(def.List, listview.ParseState(q, def.List)).Filtered; got != tt.want {
				t.Errorf("Filtered = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDefaultSort_NewestFirst(t *testing.T) {
	_, api := testutil.NewMockAPI(t)
	def := accesslogs.Definition()
	ctl := resourcelist.New(api, def.Resource)
	if err := ctl.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	res := ctl.View(def.List, listview.ParseState(url.Values{}, def.List))
	if len(res.Items) != 25 {
		t.Fatalf("page size = %d, want 25", len(res.Items))
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].CreatedAt.After(res.Items[i-1].CreatedAt) {
			t.Fatalf("item %d is newer than item %d", i, i-1)
		}
	}
}

func TestAverageDuration(t *testing.T) {
	logs := []models.AccessLog{{DurationMs: 10}, {DurationMs: 20}, {DurationMs: 33}}
	if got := accesslogs.AverageDuration(logs); got != 21 {
		t.Errorf("AverageDuration = %d, want 21", got)
	}
	if got := accesslogs.AverageDuration(nil); got != 0 {
		t.Errorf("AverageDuration(nil) = %d, want 0", got)
	}
}

func TestReadOnly(t *testing.T) {
	def := accesslogs.Definition()
	if !def.ReadOnly || def.Payload != nil || len(def.Actions) != 0 {
		t.Error("access logs must be read-only")
	}
}
