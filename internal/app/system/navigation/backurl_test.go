package navigation_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/accessdeck/internal/app/system/navigation"
)

func TestSafeBackURL(t *testing.T) {
	opts := navigation.ForList("/users")
	tests := []struct {
		name, target, want string
	}{
		{"no return", "/users/new", "/users"},
		{"list state kept", "/users/new?return=%2Fusers%3Fpage%3D2", "/users?page=2"},
		{"other prefix", "/users/new?return=%2Froles", "/users"},
		{"edit excluded", "/users/5?return=%2Fusers%2F5%2Fedit", "/users"},
		{"absolute url", "/users/new?return=https%3A%2F%2Fevil.example%2Fusers", "/users"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := navigation.SafeBackURL(r, opts); got != tt.want {
				t.Errorf("SafeBackURL = %q, want %q", got, tt.want)
			}
		})
	}
}
