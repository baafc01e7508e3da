package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	operatorKey = "operator"
	accessKey   = "access_token"
	refreshKey  = "refresh_token"
	expiryKey   = "expiry" // unix seconds, 0 when unknown
)

// ConnectPath is where operators paste their backend token.
const ConnectPath = "/connect"

/*─────────────────────────────────────────────────────────────────────────────*
| Connection                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// Connection is the operator's link to the backend: the token pair pasted on
// the connect page, plus what the access token says about its holder.
type Connection struct {
	Operator     string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	Claims       Claims
}

// DisplayName prefers the token's name claim over the typed operator name.
func (c *Connection) DisplayName() string {
	if c.Claims.Name != "" {
		return c.Claims.Name
	}
	if c.Operator != "" {
		return c.Operator
	}
	return c.Claims.Email
}

// Token returns the access token as an oauth2 token.
func (c *Connection) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

type ctxKey string

const connectionKey ctxKey = "connection"

// CurrentConnection returns the connection loaded by SessionManager.Load.
func CurrentConnection(r *http.Request) (*Connection, bool) {
	c, ok := r.Context().Value(connectionKey).(*Connection)
	return c, ok && c != nil
}

// WithTestConnection injects a connection into the request context.
// Tests use it to bypass the cookie round trip.
func WithTestConnection(r *http.Request, c *Connection) *http.Request {
	return withConnection(r, c)
}

func withConnection(r *http.Request, c *Connection) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), connectionKey, c))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager stores the connection in a signed cookie.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds the cookie store. The `secure` flag controls
// whether cookies are marked Secure and which SameSite mode is used.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "accessdeck-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		opts.SameSite = http.SameSiteStrictMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Store exposes the cookie store.
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// GetSession returns the current session. A cookie that no longer decodes
// yields a fresh session together with the decode error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// Load injects the connection into the context when the session has one.
func (sm *SessionManager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			sm.log.Debug("session decode failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		access := getString(sess, accessKey)
		if access == "" {
			next.ServeHTTP(w, r)
			return
		}
		c := &Connection{
			Operator:     getString(sess, operatorKey),
			AccessToken:  access,
			RefreshToken: getString(sess, refreshKey),
		}
		if exp, ok := sess.Values[expiryKey].(int64); ok && exp > 0 {
			c.Expiry = time.Unix(exp, 0)
		}
		c.Claims, _ = DecodeClaims(access)
		if c.Expiry.IsZero() && !c.Claims.ExpiresAt.IsZero() {
			c.Expiry = c.Claims.ExpiresAt
		}
		next.ServeHTTP(w, withConnection(r, c))
	})
}

// Save writes the connection into the session cookie.
func (sm *SessionManager) Save(w http.ResponseWriter, r *http.Request, c Connection) error {
	sess, _ := sm.GetSession(r)
	sess.Values[operatorKey] = c.Operator
	sess.Values[accessKey] = c.AccessToken
	sess.Values[refreshKey] = c.RefreshToken
	var exp int64
	if !c.Expiry.IsZero() {
		exp = c.Expiry.Unix()
	}
	sess.Values[expiryKey] = exp
	return sess.Save(r, w)
}

// Clear deletes the session cookie.
func (sm *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.GetSession(r)
	sess.Values = map[any]any{}
	opts := *sm.store.Options
	opts.MaxAge = -1
	sess.Options = &opts
	return sess.Save(r, w)
}

// RequireConnected ensures there is a connection in context (set by Load).
// If not:
//   - HTMX: sends HX-Redirect to /connect?return=...
//   - HTML: 303 redirect to /connect?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireConnected(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentConnection(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		ret := url.QueryEscape(currentURI(r))

		// HTMX: full-page client redirect (no partial swap)
		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", ConnectPath+"?return="+ret)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if wantsHTML(r) {
			http.Redirect(w, r, ConnectPath+"?return="+ret, http.StatusSeeOther)
			return
		}

		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// helpers

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
