package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// TestOperator returns a connection as the connect page would store it.
func TestOperator() *auth.Connection {
	return &auth.Connection{
		Operator:     "Test Operator",
		AccessToken:  "test-access-token-0123456789",
		RefreshToken: "test-refresh-token",
		Expiry:       time.Now().Add(time.Hour),
		Claims: auth.Claims{
			Subject: "1",
			Name:    "Test Operator",
			Email:   "ops@test.com",
			Role:    "superadmin",
		},
	}
}

// WithConnection adds a connection to the request context for testing
// handlers behind RequireConnected.
func WithConnection(r *http.Request, c *auth.Connection) *http.Request {
	return auth.WithTestConnection(r, c)
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewConnectedRequest creates a request carrying TestOperator.
func NewConnectedRequest(method, target string) *http.Request {
	return WithConnection(NewRequest(method, target), TestOperator())
}

// ResponseRecorder wraps httptest.ResponseRecorder with assertions.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	if location := r.Header().Get("Location"); location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
