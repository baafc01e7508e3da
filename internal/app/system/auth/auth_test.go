package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		logger,
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestRequireConnected_NoConnection_RedirectsToConnect(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireConnected(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/users?page=2", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/connect?return=") {
		t.Errorf("expected redirect to /connect, got %q", location)
	}
	if !strings.Contains(location, "%2Fusers%3Fpage%3D2") {
		t.Errorf("expected return path to be preserved, got %q", location)
	}
}

func TestRequireConnected_NoConnection_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireConnected(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/analytics/data", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireConnected_NoConnection_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireConnected(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/roles/table", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if hx := rec.Header().Get("HX-Redirect"); !strings.HasPrefix(hx, "/connect") {
		t.Errorf("expected HX-Redirect to /connect, got %q", hx)
	}
}

func TestRequireConnected_WithConnection_Passes(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireConnected(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/users", nil)
	req = auth.WithTestConnection(req, &auth.Connection{Operator: "ops", AccessToken: "tok"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	access := signedToken(t, jwt.MapClaims{
		"sub":   "7",
		"name":  "Rina Wulandari",
		"email": "rina@example.com",
		"role":  "admin",
		"exp":   exp.Unix(),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/connect", nil)
	if err := sm.Save(rec, req, auth.Connection{Operator: "ops", AccessToken: access, RefreshToken: "r1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var got *auth.Connection
	handler := sm.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentConnection(r)
	}))

	next := httptest.NewRequest("GET", "/users", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), next)

	if got == nil {
		t.Fatal("expected connection in context")
	}
	if got.AccessToken != access || got.RefreshToken != "r1" || got.Operator != "ops" {
		t.Errorf("connection = %+v", got)
	}
	if got.Claims.Subject != "7" || got.Claims.Role != "admin" {
		t.Errorf("claims = %+v", got.Claims)
	}
	if got.DisplayName() != "Rina Wulandari" {
		t.Errorf("DisplayName = %q", got.DisplayName())
	}
	if !got.Expiry.Equal(exp) {
		t.Errorf("Expiry = %v, want %v (from exp claim)", got.Expiry, exp)
	}
}

func TestLoad_NoCookie_NoConnection(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentConnection(r); ok {
			t.Error("expected no connection")
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !called {
		t.Fatal("next handler not called")
	}
}

func TestClear_ExpiresCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	if err := sm.Clear(rec, httptest.NewRequest("POST", "/disconnect", nil)); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expired cookie, got %+v", cookies)
	}
}

func TestDecodeClaims_Opaque(t *testing.T) {
	c, err := auth.DecodeClaims("not-a-jwt")
	if err == nil {
		t.Fatal("expected error for opaque token")
	}
	if c.Subject != "" {
		t.Errorf("claims = %+v", c)
	}
}

func TestAttachToken_ValidTokenUsedAsIs(t *testing.T) {
	sm := newTestSessionManager(t)

	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	handler := sm.AttachToken(client)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := client.List(r.Context(), "/api/v1/roles", nil); err != nil {
			t.Errorf("List: %v", err)
		}
	}))

	req := httptest.NewRequest("GET", "/roles", nil)
	req = auth.WithTestConnection(req, &auth.Connection{
		AccessToken:  "abc",
		RefreshToken: "r1",
		Expiry:       time.Now().Add(time.Hour),
	})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got := gotAuth.Load(); got != "Bearer abc" {
		t.Errorf("Authorization = %v, want Bearer abc", got)
	}
}

func TestAttachToken_ExpiredTokenRefreshesAndPersists(t *testing.T) {
	sm := newTestSessionManager(t)

	var refreshes atomic.Int32
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == apiclient.RefreshPath {
			refreshes.Add(1)
			w.Write([]byte(`{"success":true,"data":{"accessToken":"fresh","refreshToken":"r2","expiresIn":3600}}`))
			return
		}
		gotAuth.Store(r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client, err := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	handler := sm.AttachToken(client)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 2; i++ {
			if _, err := client.List(r.Context(), "/api/v1/users", nil); err != nil {
				t.Errorf("List: %v", err)
			}
		}
	}))

	req := httptest.NewRequest("GET", "/users", nil)
	req = auth.WithTestConnection(req, &auth.Connection{
		Operator:     "ops",
		AccessToken:  "stale",
		RefreshToken: "r1",
		Expiry:       time.Now().Add(-time.Minute),
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if n := refreshes.Load(); n != 1 {
		t.Errorf("refresh calls = %d, want 1", n)
	}
	if got := gotAuth.Load(); got != "Bearer fresh" {
		t.Errorf("Authorization = %v, want Bearer fresh", got)
	}

	// The refreshed pair is written back to the session cookie.
	var reloaded *auth.Connection
	load := sm.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reloaded, _ = auth.CurrentConnection(r)
	}))
	next := httptest.NewRequest("GET", "/users", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	load.ServeHTTP(httptest.NewRecorder(), next)
	if reloaded == nil || reloaded.AccessToken != "fresh" || reloaded.RefreshToken != "r2" {
		t.Errorf("reloaded = %+v", reloaded)
	}
}

func TestAttachToken_NoConnection_NoToken(t *testing.T) {
	sm := newTestSessionManager(t)

	var gotAuth atomic.Value
	gotAuth.Store("unset")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, _ := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	handler := sm.AttachToken(client)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		_, _ = client.List(ctx, "/api/v1/roles", nil)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got := gotAuth.Load(); got != "" {
		t.Errorf("Authorization = %v, want empty", got)
	}
}
