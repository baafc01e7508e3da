// internal/app/system/mockapi/mockapi.go
//
// Package mockapi is an in-memory implementation of the access-control
// backend. Each resource answers with the envelope the real service uses
// for it, so the console's normalization runs against every shape. It backs
// handler tests, the console's mock mode and the standalone mockapi command.
package mockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/accessdeck/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BaseURL is the address a Client built by Server.Client talks to.
const BaseURL = "http://mockapi.internal"

// Options configures a Server.
type Options struct {
	Logger       *zap.Logger
	Seed         []byte // fixture YAML; nil uses the embedded seed
	Secret       string // HS256 signing key for access tokens
	TokenTTL     time.Duration
	RequireToken bool
	Now          func() time.Time
}

// Request is one recorded call.
type Request struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
}

type fault struct {
	method string
	status int
}

// Server holds the backend state.
type Server struct {
	log    *zap.Logger
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu           sync.Mutex
	cols         map[string]*collection
	refresh      map[string]string // refresh token -> user id
	faults       []fault
	requests     []Request
	requireToken bool
	latency      time.Duration
	demo         models.TokenPair

	router chi.Router
}

// New builds a Server from the seed in opts.
func New(opts Options) (*Server, error) {
	s := &Server{
		log:          opts.Logger,
		secret:       []byte(opts.Secret),
		ttl:          opts.TokenTTL,
		now:          opts.Now,
		cols:         make(map[string]*collection, len(specs)),
		refresh:      make(map[string]string),
		requireToken: opts.RequireToken,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if len(s.secret) == 0 {
		s.secret = []byte(DefaultSecret)
	}
	if s.ttl <= 0 {
		s.ttl = time.Hour
	}
	if s.now == nil {
		s.now = time.Now
	}

	doc := opts.Seed
	if doc == nil {
		doc = defaultSeed
	}
	seeded, err := loadSeed(doc, s.now())
	if err != nil {
		return nil, err
	}

	for _, sp := range specs {
		c := &collection{spec: sp, items: seeded[sp.Name]}
		c.nextID = maxNumericID(c.items) + 1
		s.cols[sp.Name] = c
	}

	if users := s.cols["users"]; len(users.items) > 0 {
		pair, err := s.issueLocked(users.items[0].id())
		if err != nil {
			return nil, err
		}
		s.demo = pair
	}

	s.router = s.routes()
	return s, nil
}

func maxNumericID(items []record) int {
	hi := 0
	for _, it := range items {
		if f, ok := it["id"].(float64); ok && int(f) > hi {
			hi = int(f)
		}
	}
	return hi
}

// Handler returns the HTTP handler for the backend.
func (s *Server) Handler() http.Handler { return s.router }

// Client returns an http.Client that serves every request in process
// through Handler. Use it with BaseURL.
func (s *Server) Client() *http.Client {
	return &http.Client{Transport: handlerTransport{h: s.router}}
}

type handlerTransport struct {
	h http.Handler
}

func (t handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	// The caller may itself be running inside a chi router; its route
	// context must not leak into the mock's mux.
	in := req.Clone(context.WithValue(req.Context(), chi.RouteCtxKey, nil))
	if in.Body == nil {
		in.Body = http.NoBody
	}
	in.RequestURI = req.URL.RequestURI()
	in.RemoteAddr = "127.0.0.1:0"

	rec := httptest.NewRecorder()
	t.h.ServeHTTP(rec, in)
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

// DemoToken returns the pair issued at startup for the first seeded user.
func (s *Server) DemoToken() models.TokenPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.demo
}

// FailNext makes the next request with method (any method when empty)
// answer with status. Calls queue up in order.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{method: method, status: status})
}

// SetRequireToken turns bearer token checking on or off.
func (s *Server) SetRequireToken(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireToken = on
}

// SetLatency delays every response by d.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests returns how many calls matched method and path.
func (s *Server) CountRequests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// ResetRequests clears the request log.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Records returns a copy of a resource's items in storage order.
func (s *Server) Records(resource string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cols[resource]
	if !ok {
		return nil
	}
	out := make([]map[string]any, len(c.items))
	for i, it := range c.items {
		out[i] = s.present(c, it)
	}
	return out
}

// Resources lists the resource names in a stable order.
func (s *Server) Resources() []string {
	names := make([]string, 0, len(specs))
	for _, sp := range specs {
		names = append(names, sp.Name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) takeFault(method string) int {
	for i, f := range s.faults {
		if f.method == "" || f.method == method {
			s.faults = append(s.faults[:i], s.faults[i+1:]...)
			return f.status
		}
	}
	return 0
}
