package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/dalemusser/accessdeck/internal/app/system/confirm"
	"github.com/dalemusser/accessdeck/internal/app/system/mockapi"
	"go.uber.org/zap"
)

// TestConfirmKey signs confirmation tokens in tests.
const TestConfirmKey = "test-confirm-key-0123456789abcdef"

// NewMockAPI starts an in-process mock backend seeded with the default
// fixtures and returns it with a client pointed at it.
func NewMockAPI(t *testing.T) (*mockapi.Server, *apiclient.Client) {
	t.Helper()
	srv, err := mockapi.New(mockapi.Options{})
	if err != nil {
		t.Fatalf("mockapi.New: %v", err)
	}
	c, err := apiclient.New(apiclient.Config{BaseURL: mockapi.BaseURL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	return srv, c
}

// NewConfirmIssuer returns an issuer signed with TestConfirmKey.
func NewConfirmIssuer(t *testing.T) *confirm.Issuer {
	t.Helper()
	iss, err := confirm.NewIssuer(TestConfirmKey, 0)
	if err != nil {
		t.Fatalf("confirm.NewIssuer: %v", err)
	}
	return iss
}

// TestSessionKey signs session cookies in tests.
const TestSessionKey = "test-session-key-must-be-32-chars-long"

// NewSessionManager returns an insecure cookie session manager.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(TestSessionKey, "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("auth.NewSessionManager: %v", err)
	}
	return sm
}

// LoadConnection replays the cookies set on a response through sm.Load and
// returns the connection they carry, or nil.
func LoadConnection(sm *auth.SessionManager, cookies []*http.Cookie) *auth.Connection {
	var got *auth.Connection
	h := sm.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentConnection(r)
	}))
	req := NewRequest(http.MethodGet, "/")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(NewRecorder(), req)
	return got
}
