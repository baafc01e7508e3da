package auth

import (
	"net/http"
	"sync"

	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// AttachToken puts the operator's token source on the request context so
// every backend call made while serving the request carries the bearer
// token. When the access token has expired and a refresh token is present,
// the pair is refreshed once and written back to the session.
func (sm *SessionManager) AttachToken(client *apiclient.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, ok := CurrentConnection(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			var ts oauth2.TokenSource
			if conn.RefreshToken == "" || client == nil {
				ts = oauth2.StaticTokenSource(conn.Token())
			} else {
				ts = oauth2.ReuseTokenSource(conn.Token(), &persistingSource{
					sm:   sm,
					w:    w,
					r:    r,
					conn: *conn,
					src:  client.RefreshSource(r.Context(), conn.RefreshToken),
				})
			}
			ctx := apiclient.WithTokenSource(r.Context(), ts)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// persistingSource saves refreshed tokens back into the session cookie.
type persistingSource struct {
	sm   *SessionManager
	w    http.ResponseWriter
	r    *http.Request
	conn Connection
	src  oauth2.TokenSource

	mu sync.Mutex
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, err := p.src.Token()
	if err != nil {
		return nil, err
	}
	p.conn.AccessToken = tok.AccessToken
	p.conn.RefreshToken = tok.RefreshToken
	p.conn.Expiry = tok.Expiry
	if err := p.sm.Save(p.w, p.r, p.conn); err != nil {
		p.sm.log.Warn("persist refreshed token failed", zap.Error(err))
	} else {
		p.sm.log.Info("backend token refreshed", zap.String("operator", p.conn.Operator))
	}
	return tok, nil
}
