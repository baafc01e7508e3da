// internal/app/system/resourcelist/controller.go
//
// Package resourcelist is the fetch, view and mutate-then-refetch cycle
// every entity page shares. A Controller holds one fetched collection, the
// source of truth for a page; mutations go to the backend and are followed
// by a fresh fetch, never by patching the collection in place.
package resourcelist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/domain/models"
)

// ErrSuperseded is returned by a fetch whose result was dropped because a
// newer fetch was started before it completed.
var ErrSuperseded = errors.New("resourcelist: superseded by a newer fetch")

// API is the backend surface a controller needs. *apiclient.Client
// satisfies it.
type API interface {
	List(ctx context.Context, path string, q url.Values) ([]json.RawMessage, error)
	Get(ctx context.Context, path string, q url.Values) (json.RawMessage, error)
	Send(ctx context.Context, method, path string, payload, out any) error
}

// Resource describes where a collection lives.
type Resource[T any] struct {
	// Path is the collection endpoint, e.g. /api/v1/roles.
	Path string
	// ItemPath builds the path of one record. Defaults to Path + "/" + id.
	ItemPath func(id models.ID) string
	// Enrich runs after every successful fetch, e.g. to look up derived
	// display names from a related collection. Optional.
	Enrich func(ctx context.Context, items []T) ([]T, error)
}

// Item returns the endpoint for one record.
func (r Resource[T]) Item(id models.ID) string {
	if r.ItemPath != nil {
		return r.ItemPath(id)
	}
	return r.Path + "/" + url.PathEscape(id.String())
}

// Status is the controller's lifecycle state.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
	Submitting
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Submitting:
		return "submitting"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Mutation is one write against the backend.
type Mutation struct {
	Method  string
	Path    string
	Payload any
}

// Controller owns one collection. It is safe for concurrent use.
type Controller[T any] struct {
	api API
	res Resource[T]

	mu      sync.Mutex
	items   []T
	status  Status
	err     error
	query   url.Values
	seq     uint64 // last fetch issued
	fetches int    // fetches applied
}

// New creates an idle controller with an empty collection.
func New[T any](api API, res Resource[T]) *Controller[T] {
	return &Controller[T]{api: api, res: res, items: []T{}}
}

// SetQuery sets the query parameters sent with every fetch, for endpoints
// that filter server side (userId, countryCode).
func (c *Controller[T]) SetQuery(q url.Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

// Fetch loads the collection. On success the collection is replaced as a
// whole. On failure the error is recorded and the previous collection is
// kept so the page can still show stale rows under the error banner.
//
// If another Fetch starts before this one completes, this one's result is
// discarded and ErrSuperseded is returned.
func (c *Controller[T]) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.status = Loading
	q := c.query
	c.mu.Unlock()

	raw, err := c.api.List(ctx, c.res.Path, q)
	var items []T
	if err == nil {
		items, err = apiclient.DecodeItems[T](raw)
	}
	if err == nil && c.res.Enrich != nil {
		items, err = c.res.Enrich(ctx, items)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return ErrSuperseded
	}
	if err != nil {
		c.status = Failed
		c.err = err
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.status = Ready
	c.err = nil
	c.fetches++
	return nil
}

// Dispatch sends a mutation without refetching. On failure the controller
// is back in Ready with Err set and the collection untouched.
func (c *Controller[T]) Dispatch(ctx context.Context, m Mutation) error {
	c.mu.Lock()
	prev := c.status
	c.status = Submitting
	c.mu.Unlock()

	err := c.api.Send(ctx, m.Method, m.Path, m.Payload, nil)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status = Ready
		if prev == Failed || prev == Idle {
			c.status = prev
		}
		c.err = err
		return err
	}
	c.status = prev
	c.err = nil
	return nil
}

// Submit sends a mutation and, on success, fetches the collection exactly
// once. A failed mutation is not followed by a fetch.
func (c *Controller[T]) Submit(ctx context.Context, m Mutation) error {
	if err := c.Dispatch(ctx, m); err != nil {
		return err
	}
	return c.Fetch(ctx)
}

// Create POSTs payload to the collection.
func (c *Controller[T]) Create(ctx context.Context, payload any) error {
	return c.Submit(ctx, Mutation{Method: http.MethodPost, Path: c.res.Path, Payload: payload})
}

// Update PUTs payload to one record.
func (c *Controller[T]) Update(ctx context.Context, id models.ID, payload any) error {
	return c.Submit(ctx, Mutation{Method: http.MethodPut, Path: c.res.Item(id), Payload: payload})
}

// Patch PATCHes a sub-resource of one record, e.g. "status" or "default".
func (c *Controller[T]) Patch(ctx context.Context, id models.ID, suffix string, payload any) error {
	path := c.res.Item(id)
	if suffix != "" {
		path += "/" + suffix
	}
	return c.Submit(ctx, Mutation{Method: http.MethodPatch, Path: path, Payload: payload})
}

// Delete removes one record.
func (c *Controller[T]) Delete(ctx context.Context, id models.ID) error {
	return c.Submit(ctx, Mutation{Method: http.MethodDelete, Path: c.res.Item(id)})
}

// View applies the view state to the current collection.
func (c *Controller[T]) View(cfg listview.Config[T], s listview.State) listview.Result[T] {
	return listview.Apply(c.Items(), cfg, s)
}

// Items returns a copy of the current collection.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Find returns the first item for which match is true.
func (c *Controller[T]) Find(match func(T) bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Status returns the lifecycle state.
func (c *Controller[T]) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the last fetch or mutation error, nil after a success.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Message returns the banner text for Err.
func (c *Controller[T]) Message() string {
	return apiclient.UserMessage(c.Err())
}

// Fetches reports how many fetches have been applied.
func (c *Controller[T]) Fetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

// Resource returns the endpoint description.
func (c *Controller[T]) Resource() Resource[T] { return c.res }
