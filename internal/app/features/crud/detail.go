// internal/app/features/crud/detail.go
package crud

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/dalemusser/accessdeck/internal/app/store/audit"
	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/confirm"
	"github.com/dalemusser/accessdeck/internal/app/system/htmlsanitize"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/app/system/timeouts"
	"github.com/dalemusser/accessdeck/internal/app/system/viewdata"
	"github.com/dalemusser/accessdeck/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// load fetches the collection and finds the record named by the {id} URL
// parameter, asking the backend for the record itself when the collection
// does not hold it. On failure it has already answered the request.
func (h *Handler[T]) load(w http.ResponseWriter, r *http.Request) (T, bool) {
	var zero T
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, h.Def.Slug+" load")
	defer cancel()

	ctl := h.controller(r)
	if err := ctl.Fetch(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "fetch failed", err, ctl.Message(), h.returnURL(r))
		return zero, false
	}
	if item, ok := h.find(ctl, id); ok {
		return item, true
	}

	item, err := apiclient.FetchOne[T](ctx, h.API, h.Def.Resource.Item(models.ID(id)))
	switch {
	case apiclient.IsStatus(err, http.StatusNotFound):
		h.ErrLog.NotFound(w, r, h.Def.Singular+" tidak ditemukan.", h.returnURL(r))
		return zero, false
	case err != nil:
		h.ErrLog.LogServerError(w, r, "fetch record failed", err, apiclient.UserMessage(err), h.returnURL(r))
		return zero, false
	case h.Def.ID(item) != models.ID(id):
		h.ErrLog.NotFound(w, r, h.Def.Singular+" tidak ditemukan.", h.returnURL(r))
		return zero, false
	}
	return item, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{id} – detail                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeView renders one record read-only.
func (h *Handler[T]) ServeView(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}
	def := h.Def
	id := def.ID(item)
	ret := h.returnURL(r)
	scope := def.scope(r)

	data := DetailData{
		BaseVM:    viewdata.NewBaseVM(r, def.Singular, ret),
		Slug:      def.Slug,
		Singular:  def.Singular,
		ID:        id.String(),
		Label:     def.Label(item),
		ReadOnly:  def.ReadOnly,
		ReturnURL: ret,
	}
	for _, d := range def.Details {
		row := detailRow{Label: d.Label, Value: d.Value(item)}
		if d.Rich {
			row.HTML = htmlsanitize.PrepareForDisplay(row.Value)
		}
		data.Rows = append(data.Rows, row)
	}
	if !def.ReadOnly {
		data.EditURL = h.itemURL(id, "edit", ret, scope)
		data.DeleteURL = h.itemURL(id, "delete", ret, scope)
	}
	h.Render(w, r, "crud_detail", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{id}/delete, POST /{id}/delete – confirm and delete                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDelete renders the confirmation for deleting one record.
func (h *Handler[T]) ServeDelete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderConfirm(w, r, item, "")
}

// HandleDelete deletes the record if the posted confirmation token was
// issued for it. Without a valid token nothing is sent to the backend and
// the confirmation is shown again.
func (h *Handler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Form tidak valid.", h.returnURL(r))
		return
	}

	if err := h.Confirm.Verify(r.PostFormValue("confirm_token"), h.Def.Slug, id); err != nil {
		h.Log.Warn("delete without valid confirmation", zap.String("id", id), zap.Error(err))
		item, ok := h.load(w, r)
		if !ok {
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		h.renderConfirm(w, r, item, "Konfirmasi tidak valid atau kedaluwarsa. Silakan konfirmasi ulang.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, h.Def.Slug+" delete")
	defer cancel()

	m := resourcelist.Mutation{Method: http.MethodDelete, Path: h.Def.Resource.Item(models.ID(id))}
	err := h.controller(r).Dispatch(ctx, m)
	h.audit(r, m, id, audit.EventDeleted, err)
	if err != nil {
		h.Log.Warn("delete failed", zap.String("id", id), zap.Error(err))
		item, ok := h.load(w, r)
		if !ok {
			return
		}
		h.renderConfirm(w, r, item, bannerFor(err))
		return
	}
	h.redirect(w, r, h.returnURL(r))
}

func (h *Handler[T]) renderConfirm(w http.ResponseWriter, r *http.Request, item T, banner string) {
	def := h.Def
	id := def.ID(item)
	tok, err := h.Confirm.Issue(def.Slug, id.String())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue confirmation failed", err, "", h.returnURL(r))
		return
	}
	ret := h.returnURL(r)

	view := confirm.View{
		Title:     "Hapus " + def.Singular,
		Message:   "Data berikut akan dihapus permanen. Tindakan ini tidak dapat dibatalkan.",
		Action:    def.base() + "/" + url.PathEscape(id.String()) + "/delete",
		Token:     tok,
		CancelURL: ret,
		Error:     banner,
	}
	view.Details = append(view.Details, confirm.Detail{Label: "ID", Value: id.String()})
	for _, d := range def.Details {
		view.Details = append(view.Details, confirm.Detail{Label: d.Label, Value: d.Value(item)})
	}

	data := ConfirmData{
		BaseVM: viewdata.NewBaseVM(r, view.Title, ret),
		View:   view,
		Slug:   def.Slug,
		Scope:  flatten(def.scope(r)),
	}
	if isHTMX(r) {
		h.Snippet(w, "crud_confirm", data)
		return
	}
	h.Render(w, r, "crud_confirm_page", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /{id}/actions/{action} – row actions                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleAction sends a row action's PATCH. From a table swap it refetches
// and answers with the refreshed table; otherwise it redirects back.
func (h *Handler[T]) HandleAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	act, ok := h.Def.action(chi.URLParam(r, "action"))
	if !ok || h.Def.ReadOnly {
		h.ErrLog.NotFound(w, r, "Aksi tidak dikenal.", h.returnURL(r))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Form tidak valid.", h.returnURL(r))
		return
	}
	var payload any
	if act.Payload != nil {
		payload = act.Payload(r.PostForm)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, h.Def.Slug+" "+act.Name)
	defer cancel()

	ctl := h.controller(r)
	m := resourcelist.Mutation{
		Method:  http.MethodPatch,
		Path:    h.Def.Resource.Item(models.ID(id)) + "/" + act.Name,
		Payload: payload,
	}
	ret := h.returnURL(r)

	err := ctl.Dispatch(ctx, m)
	h.audit(r, m, id, act.EventType, err)
	if err != nil {
		h.Log.Warn("action failed", zap.String("id", id), zap.String("action", act.Name), zap.Error(err))
		if isHTMX(r) {
			w.Header().Set("HX-Retarget", "#flash")
			w.Header().Set("HX-Reswap", "innerHTML")
			h.Snippet(w, "crud_flash", flashData{Error: bannerFor(err)})
			return
		}
		h.ErrLog.LogBadRequest(w, r, "action rejected", err, bannerFor(err), ret)
		return
	}

	if !isHTMX(r) {
		http.Redirect(w, r, ret, http.StatusSeeOther)
		return
	}
	// Table swap: refetch once and render the view carried in ret.
	if ferr := ctl.Fetch(ctx); ferr != nil {
		h.Log.Warn("refetch after action failed", zap.Error(ferr))
	}
	h.renderList(w, r, ctl, h.stateFrom(ret))
}

type flashData struct {
	Error   string
	Message string
}

// stateFrom parses the view state out of a list return URL.
func (h *Handler[T]) stateFrom(ret string) listview.State {
	var q url.Values
	if u, err := url.Parse(ret); err == nil {
		q = u.Query()
	}
	return listview.ParseState(q, h.cfg)
}

// bannerFor is the text shown above a form or confirmation after a failed
// backend call.
func bannerFor(err error) string {
	var se *apiclient.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return apiclient.UserMessage(err)
}
