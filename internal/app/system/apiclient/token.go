// internal/app/system/apiclient/token.go
package apiclient

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/accessdeck/internal/domain/models"
	"golang.org/x/oauth2"
)

// RefreshPath is the backend endpoint that exchanges a refresh token.
const RefreshPath = "/api/v1/auth/refresh-token"

// ErrNoRefreshToken is returned by a refresh source that has nothing to
// exchange.
var ErrNoRefreshToken = errors.New("apiclient: no refresh token")

type tokenKey struct{}

// WithTokenSource attaches the operator's token source to ctx. Every
// request made with the returned context carries the bearer token.
func WithTokenSource(ctx context.Context, ts oauth2.TokenSource) context.Context {
	return context.WithValue(ctx, tokenKey{}, ts)
}

func tokenSource(ctx context.Context) oauth2.TokenSource {
	ts, _ := ctx.Value(tokenKey{}).(oauth2.TokenSource)
	return ts
}

// StaticToken wraps a raw access token as a token source.
func StaticToken(access string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: access, TokenType: "Bearer"})
}

// RefreshSource returns a token source that exchanges refreshToken for a
// new pair each time it is asked for a token. Wrap it in
// oauth2.ReuseTokenSource to only refresh on expiry.
func (c *Client) RefreshSource(ctx context.Context, refreshToken string) oauth2.TokenSource {
	return &refreshSource{c: c, ctx: ctx, refresh: refreshToken}
}

type refreshSource struct {
	c   *Client
	ctx context.Context

	mu      sync.Mutex
	refresh string
}

func (s *refreshSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refresh == "" {
		return nil, ErrNoRefreshToken
	}

	// The refresh call itself is unauthenticated.
	ctx := WithTokenSource(s.ctx, nil)
	var pair models.TokenPair
	if err := s.c.Send(ctx, http.MethodPost, RefreshPath, map[string]string{"refreshToken": s.refresh}, &pair); err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, &StatusError{Status: http.StatusBadGateway, Message: "refresh response carried no access token", Method: http.MethodPost, Path: RefreshPath}
	}

	tok := &oauth2.Token{
		AccessToken:  pair.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: pair.RefreshToken,
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = s.refresh
	}
	if pair.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(pair.ExpiresIn) * time.Second)
	}
	s.refresh = tok.RefreshToken
	return tok, nil
}
