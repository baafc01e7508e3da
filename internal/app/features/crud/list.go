// internal/app/features/crud/list.go
package crud

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/app/system/timeouts"
	"github.com/dalemusser/accessdeck/internal/app/system/viewdata"
	"go.uber.org/zap"
)

var perPageChoices = []int{10, 25, 50, 100}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – list                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList fetches the collection once and renders the requested view of
// it. HTMX requests get only the table fragment.
func (h *Handler[T]) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, h.Def.Slug+" list")
	defer cancel()

	ctl := h.controller(r)
	err := ctl.Fetch(ctx)
	if err != nil && !errors.Is(err, resourcelist.ErrSuperseded) {
		h.Log.Warn("list fetch failed", zap.Error(err))
	}

	state := listview.ParseState(r.URL.Query(), h.cfg)
	h.renderList(w, r, ctl, state)
}

func (h *Handler[T]) renderList(w http.ResponseWriter, r *http.Request, ctl *resourcelist.Controller[T], state listview.State) {
	data := h.listData(r, ctl, state)
	if isHTMX(r) {
		h.Snippet(w, "crud_table", data)
		return
	}
	h.Render(w, r, "crud_list", data)
}

func (h *Handler[T]) listData(r *http.Request, ctl *resourcelist.Controller[T], state listview.State) ListData {
	def := h.Def
	scope := def.scope(r)
	items := ctl.Items()
	res := listview.Apply(items, h.cfg, state)
	self := h.listURL(state, scope)

	data := ListData{
		BaseVM:     viewdata.NewBaseVM(r, def.Title, "/"),
		Slug:       def.Slug,
		Base:       def.base(),
		Singular:   def.Singular,
		ReadOnly:   def.ReadOnly,
		Search:     state.Search,
		SearchURL:  def.base(),
		Scope:      flatten(scope),
		Sort:       state.SortBy,
		Order:      string(state.SortOrder),
		Size:       state.PerPage,
		ReturnURL:  self,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		Start:      res.Start,
		End:        res.End,
		Filtered:   res.Filtered,
		Total:      res.Total,
		Status:     ctl.Status().String(),
	}
	if !def.ReadOnly {
		data.NewURL = withScope(def.base()+"/new", url.Values{"return": {self}}, scope)
	}
	if def.Stats != nil {
		data.Stats = def.Stats(items)
	}

	for _, f := range h.cfg.Filters {
		sel := state.Filter(f.Name)
		fv := filterView{Name: f.Name, Label: f.Label}
		fv.Options = append(fv.Options, optionView{Value: listview.All, Label: "Semua", Selected: sel == listview.All})
		for _, o := range f.FilterOptions(items) {
			fv.Options = append(fv.Options, optionView{Value: o.Value, Label: o.Label, Selected: sel == o.Value})
		}
		data.Filters = append(data.Filters, fv)
	}

	for _, c := range def.Columns {
		hv := headerView{Label: c.Label}
		if c.Sort != "" {
			hv.Link = h.listURL(state.ToggleSort(c.Sort), scope)
			hv.Active = state.SortBy == c.Sort
			hv.Order = string(state.SortOrder)
		}
		data.Headers = append(data.Headers, hv)
	}

	for _, it := range res.Items {
		data.Rows = append(data.Rows, h.row(it, self, scope))
	}

	for _, n := range perPageChoices {
		data.PerPage = append(data.PerPage, optionView{
			Value:    h.listURL(state.WithPerPage(n), scope),
			Label:    strconv.Itoa(n),
			Selected: n == res.PerPage,
		})
	}
	if res.HasPrev {
		data.PrevURL = h.listURL(state.WithPage(res.Page-1), scope)
	}
	if res.HasNext {
		data.NextURL = h.listURL(state.WithPage(res.Page+1), scope)
	}
	for _, l := range res.PageLinks {
		pv := pageView{Number: l.Number, Current: l.Current, Gap: l.Gap}
		if !l.Gap {
			pv.URL = h.listURL(state.WithPage(l.Number), scope)
		}
		data.Pages = append(data.Pages, pv)
	}

	if err := ctl.Err(); err != nil {
		data.Error = ctl.Message()
		data.RetryURL = r.URL.RequestURI()
		if r.Method != http.MethodGet {
			data.RetryURL = self
		}
	}
	return data
}

func (h *Handler[T]) row(it T, ret string, scope url.Values) rowView {
	def := h.Def
	id := def.ID(it)
	rv := rowView{
		ID:      id.String(),
		ViewURL: h.itemURL(id, "", ret, scope),
	}
	for _, c := range def.Columns {
		cv := cellView{Text: c.Value(it)}
		if c.Tone != nil {
			cv.Tone = c.Tone(it)
		}
		rv.Cells = append(rv.Cells, cv)
	}
	if def.ReadOnly {
		return rv
	}
	rv.EditURL = h.itemURL(id, "edit", ret, scope)
	rv.DeleteURL = h.itemURL(id, "delete", ret, scope)
	for _, a := range def.Actions {
		if a.Visible != nil && !a.Visible(it) {
			continue
		}
		av := actionView{
			Label: a.Label(it),
			URL:   h.itemURL(id, "actions/"+a.Name, ret, scope),
		}
		if a.Hidden != nil {
			av.Hidden = a.Hidden(it)
		}
		rv.Actions = append(rv.Actions, av)
	}
	return rv
}

func flatten(v url.Values) map[string]string {
	if len(v) == 0 {
		return nil
	}
	out := make(map[string]string, len(v))
	for k := range v {
		out[k] = v.Get(k)
	}
	return out
}
