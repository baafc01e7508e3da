package users_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/dalemusser/accessdeck/internal/app/features/users"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/testutil"
)

func TestDefinition_FiltersAgainstSeed(t *testing.T) {
	_, api := testutil.NewMockAPI(t)
	def := users.Definition()
	ctl := resourcelist.New(api, def.Resource)
	if err := ctl.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 12},
		{"inactive", "f_status=no", 2},
		{"role user and active", "f_role=user&f_status=yes", 5},
		{"verified", "f_verified=yes", 8},
		{"search username", "search=hendra", 1},
		{"search email domain", "search=accessdeck.test", 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			s := listview.ParseState(q, def.List)
			if got := ctl.View(def.List, s).Filtered; got != tt.want {
				t.Errorf("filtered = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDefinition_RoleOptionsComeFromData(t *testing.T) {
	_, api := testutil.NewMockAPI(t)
	def := users.Definition()
	ctl := resourcelist.New(api, def.Resource)
	if err := ctl.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	opts := def.List.Filters[1].FilterOptions(ctl.Items())
	if len(opts) != 4 {
		t.Fatalf("role options = %v, want 4 distinct roles", opts)
	}
	if opts[0].Value != "admin" {
		t.Errorf("options not sorted: %v", opts)
	}
}

func TestPayload(t *testing.T) {
	def := users.Definition()

	tests := []struct {
		name    string
		form    url.Values
		editing bool
		errKeys []string
	}{
		{
			name: "valid create",
			form: url.Values{"name": {"Ani"}, "email": {"Ani@Example.com"}, "role": {"user"}, "password": {"rahasia123"}, "isActive": {"on"}},
		},
		{
			name:    "short password on create",
			form:    url.Values{"name": {"Ani"}, "email": {"ani@example.com"}, "role": {"user"}, "password": {"123"}},
			errKeys: []string{"password"},
		},
		{
			name:    "password ignored on edit",
			form:    url.Values{"name": {"Ani"}, "email": {"ani@example.com"}, "role": {"user"}},
			editing: true,
		},
		{
			name:    "bad email and missing name",
			form:    url.Values{"email": {"bukan-email"}, "role": {"user"}, "password": {"rahasia123"}},
			errKeys: []string{"name", "email"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, errs := def.Payload(tt.form, tt.editing)
			if len(errs) != len(tt.errKeys) {
				t.Fatalf("errors = %v, want keys %v", errs, tt.errKeys)
			}
			for _, k := range tt.errKeys {
				if errs[k] == "" {
					t.Errorf("missing error for %s", k)
				}
			}
			if _, has := p["password"]; has == tt.editing {
				t.Errorf("password present = %v while editing = %v", has, tt.editing)
			}
		})
	}

	p, _ := def.Payload(url.Values{"name": {"<b>Ani</b>"}, "email": {"Ani@Example.com"}, "role": {"user"}, "password": {"rahasia123"}, "isActive": {"on"}}, false)
	if p["name"] != "Ani" || p["email"] != "ani@example.com" || p["isActive"] != true {
		t.Errorf("payload = %v", p)
	}
}
