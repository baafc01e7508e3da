package connect_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/accessdeck/internal/app/features/connect"
	uierrors "github.com/dalemusser/accessdeck/internal/app/features/errors"
	"github.com/dalemusser/accessdeck/internal/app/store/audit"
	"github.com/dalemusser/accessdeck/internal/app/system/auditlog"
	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/dalemusser/accessdeck/internal/app/system/mockapi"
	"github.com/dalemusser/accessdeck/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	h    *connect.Handler
	sm   *auth.SessionManager
	srv  *mockapi.Server
	logs *observer.ObservedLogs
	name string
	data any
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv, api := testutil.NewMockAPI(t)
	sm := testutil.NewSessionManager(t)
	core, logs := observer.New(zapcore.InfoLevel)
	al := auditlog.New(nil, zap.New(core), auditlog.Config{Connection: "log", Mutation: "off"})

	f := &fixture{sm: sm, srv: srv, logs: logs}
	errLog := uierrors.NewErrorLogger(zap.NewNop())
	f.h = connect.NewHandler(api, sm, al, errLog, "", zap.NewNop())
	f.h.Render = func(_ http.ResponseWriter, _ *http.Request, name string, data any) {
		f.name, f.data = name, data
	}
	errLog.Render = f.h.Render
	return f
}

func (f *fixture) post(form url.Values) *testutil.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/connect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := testutil.NewRecorder()
	f.h.HandleConnect(rec, req)
	return rec
}

func (f *fixture) auditEvents(eventType string) int {
	return f.logs.FilterField(zap.String("event_type", eventType)).Len()
}

func TestServeConnect_ShowsForm(t *testing.T) {
	f := newFixture(t)
	f.h.Demo = f.srv.DemoToken

	f.h.ServeConnect(testutil.NewRecorder(), testutil.NewRequest(http.MethodGet, "/connect?return=/users"))

	if f.name != "connect_form" {
		t.Fatalf("rendered %q", f.name)
	}
	data := f.data.(connect.FormData)
	if data.ReturnURL != "/users" || data.NeedPassphrase || !data.DemoAvailable {
		t.Errorf("form data = %+v", data)
	}
	if strings.Contains(data.DemoMasked, f.srv.DemoToken().AccessToken) {
		t.Error("demo token should be masked")
	}
}

func TestServeConnect_ConnectedShowsStatus(t *testing.T) {
	f := newFixture(t)
	f.h.ServeConnect(testutil.NewRecorder(), testutil.NewConnectedRequest(http.MethodGet, "/connect"))

	if f.name != "connect_status" {
		t.Fatalf("rendered %q", f.name)
	}
	if data := f.data.(connect.StatusData); !data.CanRefresh || data.Expired {
		t.Errorf("status data = %+v", data)
	}
}

func TestHandleConnect_StoresToken(t *testing.T) {
	f := newFixture(t)
	pair := f.srv.DemoToken()

	rec := f.post(url.Values{
		"operator":      {"Ops"},
		"access_token":  {pair.AccessToken},
		"refresh_token": {pair.RefreshToken},
		"return":        {"/users"},
	})

	rec.AssertRedirect(t, "/users")
	c := testutil.LoadConnection(f.sm, rec.Result().Cookies())
	if c == nil {
		t.Fatal("no connection in session cookie")
	}
	if c.AccessToken != pair.AccessToken || c.RefreshToken != pair.RefreshToken || c.Operator != "Ops" {
		t.Errorf("connection = %+v", c)
	}
	if c.Claims.Subject != "1" || c.Expiry.IsZero() {
		t.Errorf("claims = %+v, expiry %v", c.Claims, c.Expiry)
	}
	if f.auditEvents(audit.EventConnected) != 1 {
		t.Error("expected a connected audit event")
	}
}

func TestHandleConnect_DefaultReturn(t *testing.T) {
	f := newFixture(t)
	rec := f.post(url.Values{"access_token": {"opaque-token-value"}})
	rec.AssertRedirect(t, connect.DefaultReturn)
}

func TestHandleConnect_Demo(t *testing.T) {
	f := newFixture(t)
	f.h.Demo = f.srv.DemoToken

	rec := f.post(url.Values{"demo": {"1"}})

	c := testutil.LoadConnection(f.sm, rec.Result().Cookies())
	if c == nil || c.AccessToken != f.srv.DemoToken().AccessToken {
		t.Errorf("connection = %+v, want the demo token", c)
	}
}

func TestHandleConnect_Rejections(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("x"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		hash string
		form url.Values
		want string
	}{
		{"wrong passphrase", string(hash), url.Values{"access_token": {"t"}, "passphrase": {"salah"}}, "Frasa sandi salah."},
		{"missing passphrase", string(hash), url.Values{"access_token": {"t"}}, "Frasa sandi salah."},
		{"missing token", "", url.Values{"operator": {"Ops"}}, "Token akses wajib diisi."},
		{"expired without refresh", "", url.Values{"access_token": {expired}}, "Token akses sudah kedaluwarsa dan tidak ada refresh token."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.h.PasswordHash = tt.hash

			rec := f.post(tt.form)

			if len(rec.Result().Cookies()) != 0 {
				t.Error("rejected connect must not set a session cookie")
			}
			if f.name != "connect_form" {
				t.Fatalf("rendered %q", f.name)
			}
			if got := f.data.(connect.FormData).Error; got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
			if f.auditEvents(audit.EventConnectFailed) != 1 {
				t.Error("expected a connect_failed audit event")
			}
		})
	}
}

func TestHandleConnect_CorrectPassphrase(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	f := newFixture(t)
	f.h.PasswordHash = string(hash)

	rec := f.post(url.Values{"access_token": {"opaque"}, "passphrase": {"rahasia"}})
	rec.AssertStatus(t, http.StatusSeeOther)
}

func TestHandleRefresh(t *testing.T) {
	f := newFixture(t)
	pair := f.srv.DemoToken()
	req := testutil.WithConnection(testutil.NewRequest(http.MethodPost, "/connect/refresh"), &auth.Connection{
		Operator:     "Ops",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	rec := testutil.NewRecorder()

	f.h.HandleRefresh(rec, req)

	rec.AssertRedirect(t, "/connect?notice=refreshed")
	if n := f.srv.CountRequests(http.MethodPost, mockapi.RefreshPath); n != 1 {
		t.Errorf("refresh calls = %d, want 1", n)
	}
	c := testutil.LoadConnection(f.sm, rec.Result().Cookies())
	if c == nil || c.AccessToken == pair.AccessToken || c.RefreshToken == pair.RefreshToken {
		t.Errorf("connection = %+v, want a rotated pair", c)
	}
	if f.auditEvents(audit.EventTokenRefresh) != 1 {
		t.Error("expected a token_refreshed audit event")
	}
}

func TestHandleRefresh_Rejected(t *testing.T) {
	f := newFixture(t)
	req := testutil.WithConnection(testutil.NewRequest(http.MethodPost, "/connect/refresh"), &auth.Connection{
		AccessToken:  "a",
		RefreshToken: "rt_unknown",
	})
	rec := testutil.NewRecorder()

	f.h.HandleRefresh(rec, req)

	if f.name != "connect_status" {
		t.Fatalf("rendered %q", f.name)
	}
	if got := f.data.(connect.StatusData).Error; !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q", got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("failed refresh must not touch the session")
	}
}

func TestHandleDisconnect(t *testing.T) {
	f := newFixture(t)
	rec := testutil.NewRecorder()
	f.h.HandleDisconnect(rec, testutil.NewConnectedRequest(http.MethodPost, "/connect/disconnect"))

	rec.AssertRedirect(t, auth.ConnectPath)
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Errorf("cookies = %+v, want an expired session cookie", cookies)
	}
	if f.auditEvents(audit.EventDisconnected) != 1 {
		t.Error("expected a disconnected audit event")
	}
}

func TestRoutes_RefreshRequiresConnection(t *testing.T) {
	f := newFixture(t)
	rec := testutil.NewRecorder()
	connect.Routes(f.h, f.sm).ServeHTTP(rec, testutil.NewRequest(http.MethodPost, "/refresh"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
