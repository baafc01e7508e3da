// internal/app/system/apiclient/client.go
//
// Package apiclient talks to the access-control REST backend. It owns the
// response envelope handling and the error taxonomy so the rest of the
// console only ever sees flat item sequences and typed errors.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxBody caps how much of a response is read.
const maxBody = 10 << 20

// Config configures a Client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
	UserAgent  string
}

// Client issues JSON requests against the backend. It holds no per-operator
// state; the bearer token travels on the request context.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	ua      string
}

// New builds a Client. The HTTP client has no timeout of its own; callers
// bound every call with a context deadline.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("apiclient: base url is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apiclient: invalid base url %q", cfg.BaseURL)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "accessdeck"
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		log:     logger,
		ua:      ua,
	}, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// List GETs a collection and returns its items, whatever envelope the
// endpoint uses.
func (c *Client) List(ctx context.Context, path string, q url.Values) ([]json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeList(body)
}

// Get GETs a single record.
func (c *Client) Get(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeOne(body)
}

// Send issues a mutation. payload is encoded as JSON when non-nil; out,
// when non-nil, receives the response record.
func (c *Client) Send(ctx context.Context, method, path string, payload, out any) error {
	body, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	raw, err := NormalizeOne(body)
	if err != nil || len(raw) == 0 {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrDecode, method, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload any) ([]byte, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encode payload: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("X-Request-ID", reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts := tokenSource(ctx); ts != nil {
		tok, err := ts.Token()
		if err != nil {
			return nil, fmt.Errorf("apiclient: token: %w", err)
		}
		tok.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %w", ErrTransport, method, path, err)
	}

	c.log.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", reqID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Status:  resp.StatusCode,
			Message: errorMessage(body),
			Method:  method,
			Path:    path,
		}
	}
	if msg, failed := envelopeFailure(body); failed {
		return nil, &StatusError{
			Status:  resp.StatusCode,
			Message: msg,
			Method:  method,
			Path:    path,
		}
	}
	return body, nil
}

// Lister is satisfied by Client and by test doubles.
type Lister interface {
	List(ctx context.Context, path string, q url.Values) ([]json.RawMessage, error)
}

// FetchList lists path and decodes every item into T.
func FetchList[T any](ctx context.Context, c Lister, path string, q url.Values) ([]T, error) {
	raw, err := c.List(ctx, path, q)
	if err != nil {
		return nil, err
	}
	return DecodeItems[T](raw)
}

// DecodeItems decodes normalized items into T.
func DecodeItems[T any](raw []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrDecode, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Getter is satisfied by Client and by test doubles.
type Getter interface {
	Get(ctx context.Context, path string, q url.Values) (json.RawMessage, error)
}

// FetchOne GETs path and decodes the record into T.
func FetchOne[T any](ctx context.Context, c Getter, path string) (T, error) {
	var v T
	raw, err := c.Get(ctx, path, nil)
	if err != nil {
		return v, err
	}
	if len(raw) == 0 {
		return v, fmt.Errorf("%w: empty body for %s", ErrDecode, path)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return v, nil
}
