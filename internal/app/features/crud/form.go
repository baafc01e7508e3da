// internal/app/features/crud/form.go
package crud

import (
	"net/http"
	"net/url"

	"github.com/dalemusser/accessdeck/internal/app/store/audit"
	"github.com/dalemusser/accessdeck/internal/app/system/auditlog"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/app/system/timeouts"
	"github.com/dalemusser/accessdeck/internal/app/system/viewdata"
	"github.com/dalemusser/accessdeck/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /new, POST / – create                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeNew renders an empty form. Fields named like a scope parameter
// start with its value.
func (h *Handler[T]) ServeNew(w http.ResponseWriter, r *http.Request) {
	vals := url.Values{}
	for k, v := range h.Def.scope(r) {
		vals[k] = v
	}
	h.renderForm(w, r, "", vals, nil, "")
}

// HandleCreate validates the form, POSTs it and redirects back to the list.
// Validation and backend errors re-render the form with what was posted.
func (h *Handler[T]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Form tidak valid.", h.returnURL(r))
		return
	}
	payload, errs := h.Def.Payload(r.PostForm, false)
	if len(errs) > 0 {
		h.renderForm(w, r, "", r.PostForm, errs, "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, h.Def.Slug+" create")
	defer cancel()

	m := resourcelist.Mutation{Method: http.MethodPost, Path: h.Def.Resource.Path, Payload: payload}
	err := h.controller(r).Dispatch(ctx, m)
	h.audit(r, m, "", audit.EventCreated, err)
	if err != nil {
		h.Log.Warn("create failed", zap.Error(err))
		h.renderForm(w, r, "", r.PostForm, nil, bannerFor(err))
		return
	}
	h.redirect(w, r, h.returnURL(r))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{id}/edit, POST /{id}/edit – update                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeEdit renders the form prefilled from the current record.
func (h *Handler[T]) ServeEdit(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}
	vals := url.Values{}
	if h.Def.Values != nil {
		vals = h.Def.Values(item)
	}
	h.renderForm(w, r, h.Def.ID(item).String(), vals, nil, "")
}

// HandleEdit validates the form, PUTs it and redirects back to the list.
func (h *Handler[T]) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Form tidak valid.", h.returnURL(r))
		return
	}
	payload, errs := h.Def.Payload(r.PostForm, true)
	if len(errs) > 0 {
		h.renderForm(w, r, id, r.PostForm, errs, "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, h.Def.Slug+" update")
	defer cancel()

	m := resourcelist.Mutation{Method: http.MethodPut, Path: h.Def.Resource.Item(models.ID(id)), Payload: payload}
	err := h.controller(r).Dispatch(ctx, m)
	h.audit(r, m, id, audit.EventUpdated, err)
	if err != nil {
		h.Log.Warn("update failed", zap.String("id", id), zap.Error(err))
		h.renderForm(w, r, id, r.PostForm, nil, bannerFor(err))
		return
	}
	h.redirect(w, r, h.returnURL(r))
}

func (h *Handler[T]) renderForm(w http.ResponseWriter, r *http.Request, id string, vals url.Values, errs map[string]string, banner string) {
	def := h.Def
	editing := id != ""
	title := "Tambah " + def.Singular
	action := def.base()
	if editing {
		title = "Ubah " + def.Singular
		action = def.base() + "/" + url.PathEscape(id) + "/edit"
	}
	ret := h.returnURL(r)

	data := FormData{
		BaseVM:    viewdata.NewBaseVM(r, title, ret),
		Slug:      def.Slug,
		Singular:  def.Singular,
		Editing:   editing,
		ID:        id,
		Action:    action,
		Scope:     flatten(formScope(def.scope(r), def.Fields)),
		Error:     banner,
		ReturnURL: ret,
	}
	for _, f := range def.Fields {
		if editing && f.CreateOnly {
			continue
		}
		fv := fieldView{
			Name:     f.Name,
			Label:    f.Label,
			Kind:     f.Kind,
			Required: f.Required,
			Help:     f.Help,
			Value:    vals.Get(f.Name),
			Error:    errs[f.Name],
		}
		if f.Kind == KindCheckbox {
			fv.Checked = Checked(vals, f.Name)
		}
		for _, o := range f.Options {
			fv.Options = append(fv.Options, optionView{Value: o.Value, Label: o.Label, Selected: o.Value == fv.Value})
		}
		data.Fields = append(data.Fields, fv)
	}

	if isHTMX(r) {
		h.Snippet(w, "crud_form", data)
		return
	}
	h.Render(w, r, "crud_form_page", data)
}

// redirect finishes a successful mutation. HTMX dialogs are told to load
// the list as a full page.
func (h *Handler[T]) redirect(w http.ResponseWriter, r *http.Request, to string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *Handler[T]) audit(r *http.Request, m resourcelist.Mutation, id, event string, err error) {
	h.AuditLog.Mutated(r.Context(), r, auditlog.Mutation{
		Resource:  h.Def.Slug,
		ID:        id,
		EventType: event,
		Method:    m.Method,
		Path:      m.Path,
	}, err)
}

// formScope drops scope parameters the form already posts as fields.
func formScope(scope url.Values, fields []Field) url.Values {
	for _, f := range fields {
		scope.Del(f.Name)
	}
	return scope
}
