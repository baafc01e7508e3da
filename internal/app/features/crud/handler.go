// internal/app/features/crud/handler.go
package crud

import (
	"net/http"
	"net/url"
	"strings"

	uierrors "github.com/dalemusser/accessdeck/internal/app/features/errors"
	"github.com/dalemusser/accessdeck/internal/app/system/auditlog"
	"github.com/dalemusser/accessdeck/internal/app/system/confirm"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/navigation"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// SnippetFunc writes a named fragment template without the layout.
type SnippetFunc func(w http.ResponseWriter, name string, data any)

// Deps are shared by every entity handler.
type Deps struct {
	Confirm  *confirm.Issuer
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
	// PerPage is the default page size for definitions that do not set one.
	PerPage int
}

// Handler serves one entity.
type Handler[T any] struct {
	API resourcelist.API
	Def Definition[T]

	Confirm  *confirm.Issuer
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	Render  uierrors.RenderFunc
	Snippet SnippetFunc

	cfg listview.Config[T]
}

// NewHandler builds a handler for def against api.
func NewHandler[T any](api resourcelist.API, def Definition[T], deps Deps) *Handler[T] {
	logger := deps.Log
	if logger == nil {
		logger = zap.NewNop()
	}
	errLog := deps.ErrLog
	if errLog == nil {
		errLog = uierrors.NewErrorLogger(logger)
	}
	cfg := def.List
	if cfg.PerPage == 0 {
		cfg.PerPage = deps.PerPage
	}
	return &Handler[T]{
		API:      api,
		Def:      def,
		Confirm:  deps.Confirm,
		AuditLog: deps.AuditLog,
		ErrLog:   errLog,
		Log:      logger.With(zap.String("resource", def.Slug)),
		Render:   renderPage,
		Snippet:  renderSnippet,
		cfg:      cfg,
	}
}

// controller returns a fresh controller for this request, with the
// request's scope forwarded to the backend.
func (h *Handler[T]) controller(r *http.Request) *resourcelist.Controller[T] {
	ctl := resourcelist.New[T](h.API, h.Def.Resource)
	if q := h.Def.scope(r); len(q) > 0 {
		ctl.SetQuery(q)
	}
	return ctl
}

// find locates the record with id in a fetched collection.
func (h *Handler[T]) find(ctl *resourcelist.Controller[T], id string) (T, bool) {
	return ctl.Find(func(it T) bool { return h.Def.ID(it) == models.ID(id) })
}

// listURL is the list page for state, keeping the request's scope.
func (h *Handler[T]) listURL(s listview.State, scope url.Values) string {
	return withScope(h.Def.base(), s.Values(), scope)
}

// itemURL is base/id/suffix with the scope and return URL attached.
func (h *Handler[T]) itemURL(id models.ID, suffix, ret string, scope url.Values) string {
	p := h.Def.base() + "/" + url.PathEscape(id.String())
	if suffix != "" {
		p += "/" + suffix
	}
	v := url.Values{}
	if ret != "" {
		v.Set("return", ret)
	}
	return withScope(p, v, scope)
}

// returnURL is where a form or confirmation goes back to: a safe return
// parameter under this entity's base, or the bare list.
func (h *Handler[T]) returnURL(r *http.Request) string {
	opts := navigation.ForList(h.Def.base())
	opts.Fallback = withScope(h.Def.base(), nil, h.Def.scope(r))
	return navigation.SafeBackURL(r, opts)
}

func withScope(path string, v, scope url.Values) string {
	if v == nil {
		v = url.Values{}
	}
	for k := range scope {
		v.Set(k, scope.Get(k))
	}
	if q := v.Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

func renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
}

func renderSnippet(w http.ResponseWriter, name string, data any) {
	templates.RenderSnippet(w, name, data)
}

func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}
