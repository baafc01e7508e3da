package viewdata_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/dalemusser/accessdeck/internal/app/system/viewdata"
)

func TestNewBaseVM_Disconnected(t *testing.T) {
	r := httptest.NewRequest("GET", "/connect", nil)
	vm := viewdata.NewBaseVM(r, "Hubungkan", "/")
	if vm.IsConnected || vm.Operator != "" {
		t.Errorf("expected disconnected VM, got %+v", vm)
	}
	if vm.Title != "Hubungkan" || vm.SiteName == "" {
		t.Errorf("vm = %+v", vm)
	}
	for _, it := range vm.Nav {
		if it.Active {
			t.Errorf("no nav item should be active on /connect, got %q", it.Href)
		}
	}
}

func TestNewBaseVM_Connected(t *testing.T) {
	r := httptest.NewRequest("GET", "/roles/3/edit", nil)
	r = auth.WithTestConnection(r, &auth.Connection{
		Operator:    "Sari Dewi",
		AccessToken: "abcdefghijklmnopqrstuvwxyz",
		Claims:      auth.Claims{Role: "superadmin"},
	})

	vm := viewdata.NewBaseVM(r, "Ubah Peran", "/roles")
	if !vm.IsConnected || vm.Operator != "Sari Dewi" || vm.Initials != "SD" {
		t.Errorf("vm = %+v", vm)
	}
	if vm.Role != "superadmin" {
		t.Errorf("Role = %q", vm.Role)
	}
	if vm.TokenMasked != "abcdef…wxyz" {
		t.Errorf("TokenMasked = %q", vm.TokenMasked)
	}

	active := 0
	for _, it := range vm.Nav {
		if it.Active {
			active++
			if it.Href != "/roles" {
				t.Errorf("active nav = %q, want /roles", it.Href)
			}
		}
	}
	if active != 1 {
		t.Errorf("active nav items = %d, want 1", active)
	}
}
