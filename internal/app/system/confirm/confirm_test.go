package confirm_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/accessdeck/internal/app/system/confirm"
)

const testKey = "test-confirm-key-must-be-32-chars-long"

func newIssuer(t *testing.T) *confirm.Issuer {
	t.Helper()
	iss, err := confirm.NewIssuer(testKey, time.Minute)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

func TestNewIssuer_ShortKey(t *testing.T) {
	if _, err := confirm.NewIssuer("short", time.Minute); err == nil {
		t.Error("expected error for short key")
	}
}

func TestIssueVerify(t *testing.T) {
	iss := newIssuer(t)
	tok, err := iss.Issue("roles", "7")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := iss.Verify(tok, "roles", "7"); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestVerify_Rejects(t *testing.T) {
	iss := newIssuer(t)
	tok, err := iss.Issue("roles", "7")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other, err := confirm.NewIssuer("another-confirm-key-also-32-chars-long", time.Minute)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	tests := []struct {
		name     string
		iss      *confirm.Issuer
		token    string
		resource string
		id       string
	}{
		{"empty token", iss, "", "roles", "7"},
		{"other id", iss, tok, "roles", "8"},
		{"other resource", iss, tok, "users", "7"},
		{"tampered", iss, tok[:len(tok)-2] + "xx", "roles", "7"},
		{"other key", other, tok, "roles", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.iss.Verify(tt.token, tt.resource, tt.id); !errors.Is(err, confirm.ErrInvalidToken) {
				t.Errorf("Verify = %v, want ErrInvalidToken", err)
			}
		})
	}
}
