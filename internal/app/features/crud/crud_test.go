package crud_test

import (
	"bytes"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/accessdeck/internal/app/features/crud"
	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/dalemusser/accessdeck/internal/app/system/listview"
	"github.com/dalemusser/accessdeck/internal/app/system/mockapi"
	"github.com/dalemusser/accessdeck/internal/app/system/resourcelist"
	"github.com/dalemusser/accessdeck/internal/domain/models"
	"github.com/dalemusser/accessdeck/internal/testutil"
	"go.uber.org/zap"
)

type capture struct {
	name    string
	data    any
	snippet bool
}

func roleDef() crud.Definition[models.Role] {
	return crud.Definition[models.Role]{
		Slug:     "roles",
		Title:    "Peran",
		Singular: "Peran",
		Resource: resourcelist.Resource[models.Role]{Path: "/api/v1/roles"},
		List: listview.Config[models.Role]{
			Search:      []func(models.Role) string{func(r models.Role) string { return r.Name }},
			Sorts:       []listview.SortKey[models.Role]{{Name: "name", Label: "Nama", Value: func(r models.Role) any { return r.Name }}},
			DefaultSort: "name",
		},
		Columns: []crud.Column[models.Role]{
			{Label: "Nama", Sort: "name", Value: func(r models.Role) string { return r.Name }},
		},
		Details: []crud.Detail[models.Role]{{Label: "Slug", Value: func(r models.Role) string { return r.Slug }}},
		ID:      func(r models.Role) models.ID { return r.ID },
		Label:   func(r models.Role) string { return r.Name },
		Fields: []crud.Field{
			{Name: "name", Label: "Nama", Kind: crud.KindText, Required: true},
			{Name: "slug", Label: "Slug", Kind: crud.KindText, Required: true},
		},
		Values: func(r models.Role) url.Values {
			return url.Values{"name": {r.Name}, "slug": {r.Slug}}
		},
		Payload: func(form url.Values, editing bool) (map[string]any, map[string]string) {
			f := crud.NewForm(form)
			name := f.Required("name", "Nama")
			slug := f.Slug("slug", "Slug")
			return f.Result(map[string]any{"name": name, "slug": slug})
		},
	}
}

func featureDef() crud.Definition[models.Feature] {
	return crud.Definition[models.Feature]{
		Slug:     "features",
		Title:    "Fitur",
		Singular: "Fitur",
		Resource: resourcelist.Resource[models.Feature]{Path: "/api/v1/features"},
		Columns: []crud.Column[models.Feature]{
			{Label: "Nama", Value: func(f models.Feature) string { return f.Name }},
		},
		ID:    func(f models.Feature) models.ID { return f.ID },
		Label: func(f models.Feature) string { return f.Name },
		Actions: []crud.Action[models.Feature]{{
			Name:  "status",
			Label: func(f models.Feature) string { return "Ubah status" },
		}},
		Payload: func(url.Values, bool) (map[string]any, map[string]string) { return nil, nil },
	}
}

func newHandler[T any](t *testing.T, def crud.Definition[T]) (*crud.Handler[T], *mockapi.Server, *capture) {
	t.Helper()
	srv, api := testutil.NewMockAPI(t)
	h := crud.NewHandler(api, def, crud.Deps{
		Confirm: testutil.NewConfirmIssuer(t),
		Log:     zap.NewNop(),
		PerPage: 10,
	})
	got := &capture{}
	h.Render = func(w http.ResponseWriter, r *http.Request, name string, data any) {
		got.name, got.data, got.snippet = name, data, false
	}
	h.Snippet = func(w http.ResponseWriter, name string, data any) {
		got.name, got.data, got.snippet = name, data, true
	}
	h.ErrLog.Render = h.Render
	return h, srv, got
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return testutil.WithConnection(req, testutil.TestOperator())
}

func TestServeList_AppliesViewState(t *testing.T) {
	h, srv, got := newHandler(t, roleDef())

	req := testutil.NewConnectedRequest(http.MethodGet, "/roles?sort=name&order=desc&per_page=2")
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if got.name != "crud_list" || got.snippet {
		t.Fatalf("rendered %q (snippet=%v), want crud_list page", got.name, got.snippet)
	}
	data := got.data.(crud.ListData)
	if data.Total != 5 || data.TotalPages != 3 || len(data.Rows) != 2 {
		t.Fatalf("total=%d pages=%d rows=%d", data.Total, data.TotalPages, len(data.Rows))
	}
	if first := data.Rows[0].Cells[0].Text; first != "Super Admin" {
		t.Errorf("first row = %q, want Super Admin", first)
	}
	if data.NextURL == "" || data.PrevURL != "" {
		t.Errorf("prev=%q next=%q", data.PrevURL, data.NextURL)
	}
	if !data.Headers[0].Active || data.Headers[0].Order != "desc" {
		t.Errorf("header = %+v", data.Headers[0])
	}
	if data.Error != "" {
		t.Errorf("unexpected error banner %q", data.Error)
	}
	if n := srv.CountRequests(http.MethodGet, "/api/v1/roles"); n != 1 {
		t.Errorf("backend fetches = %d, want 1", n)
	}
}

func TestServeList_HTMXRendersTable(t *testing.T) {
	h, _, got := newHandler(t, roleDef())

	req := testutil.NewConnectedRequest(http.MethodGet, "/roles?search=admin")
	req.Header.Set("HX-Request", "true")
	h.ServeList(httptest.NewRecorder(), req)

	if got.name != "crud_table" || !got.snippet {
		t.Fatalf("rendered %q (snippet=%v), want crud_table fragment", got.name, got.snippet)
	}
	if data := got.data.(crud.ListData); data.Filtered != 2 {
		t.Errorf("filtered = %d, want 2 (Super Admin, Admin)", data.Filtered)
	}
}

func TestServeList_TableCarriesViewState(t *testing.T) {
	h, _, got := newHandler(t, roleDef())

	req := testutil.NewConnectedRequest(http.MethodGet, "/roles?sort=name&order=desc&per_page=2&search=admin")
	req.Header.Set("HX-Request", "true")
	h.ServeList(httptest.NewRecorder(), req)

	if got.name != "crud_table" || !got.snippet {
		t.Fatalf("rendered %q (snippet=%v), want crud_table fragment", got.name, got.snippet)
	}
	data := got.data.(crud.ListData)
	if data.Sort != "name" || data.Order != "desc" || data.Size != 2 {
		t.Fatalf("sort=%q order=%q size=%d", data.Sort, data.Order, data.Size)
	}

	// The fragment swapped by a header click or page-size change must
	// carry the state the search form resubmits.
	tmpl, err := template.ParseFiles("templates/crud_table.gohtml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "crud_table", data); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`id="view-state"`,
		`name="sort" value="name"`,
		`name="order" value="desc"`,
		`name="per_page" value="2"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table fragment missing %s", want)
		}
	}
}

func TestServeList_UnknownFlagValueMatchesNothing(t *testing.T) {
	def := roleDef()
	def.List.Filters = []listview.Filter[models.Role]{
		crud.StatusFilter(func(r models.Role) bool { return r.IsActive }),
	}
	h, _, got := newHandler(t, def)

	tests := []struct {
		query string
		want  int
	}{
		{"/roles?f_status=all", 5},
		{"/roles?f_status=bogus", 0},
	}
	for _, tt := range tests {
		h.ServeList(httptest.NewRecorder(), testutil.NewConnectedRequest(http.MethodGet, tt.query))
		if data := got.data.(crud.ListData); data.Filtered != tt.want {
			t.Errorf("%s: filtered = %d, want %d", tt.query, data.Filtered, tt.want)
		}
	}
}

func TestServeList_FetchFailureShowsBanner(t *testing.T) {
	h, srv, got := newHandler(t, roleDef())
	srv.FailNext(http.MethodGet, http.StatusInternalServerError)

	req := testutil.NewConnectedRequest(http.MethodGet, "/roles?page=2")
	h.ServeList(httptest.NewRecorder(), req)

	data := got.data.(crud.ListData)
	if data.Error != "HTTP 500: kegagalan simulasi" {
		t.Errorf("banner = %q", data.Error)
	}
	if data.RetryURL != "/roles?page=2" {
		t.Errorf("retry = %q", data.RetryURL)
	}
	if data.Status != "failed" || len(data.Rows) != 0 {
		t.Errorf("status=%s rows=%d", data.Status, len(data.Rows))
	}
}

func TestHandleCreate_RedirectsWithoutRefetch(t *testing.T) {
	h, srv, _ := newHandler(t, roleDef())

	req := postForm("/roles", url.Values{
		"name":   {"Support"},
		"slug":   {"support"},
		"return": {"/roles?page=2"},
	})
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)

	rec.AssertRedirect(t, "/roles?page=2")
	if n := len(srv.Records("roles")); n != 6 {
		t.Errorf("roles = %d, want 6", n)
	}
	if n := srv.CountRequests(http.MethodGet, "/api/v1/roles"); n != 0 {
		t.Errorf("create refetched %d times; the list page does that", n)
	}
}

func TestHandleCreate_ValidationKeepsValues(t *testing.T) {
	h, srv, got := newHandler(t, roleDef())

	req := postForm("/roles", url.Values{"name": {""}, "slug": {"Bad Slug"}})
	h.HandleCreate(httptest.NewRecorder(), req)

	if got.name != "crud_form_page" {
		t.Fatalf("rendered %q, want crud_form_page", got.name)
	}
	data := got.data.(crud.FormData)
	errs := map[string]string{}
	vals := map[string]string{}
	for _, f := range data.Fields {
		errs[f.Name] = f.Error
		vals[f.Name] = f.Value
	}
	if errs["name"] == "" || errs["slug"] == "" {
		t.Errorf("field errors = %v", errs)
	}
	if vals["slug"] != "Bad Slug" {
		t.Errorf("posted value lost: %q", vals["slug"])
	}
	if n := srv.CountRequests(http.MethodPost, "/api/v1/roles"); n != 0 {
		t.Errorf("invalid form reached the backend %d times", n)
	}
}

func TestHandleCreate_BackendConflict(t *testing.T) {
	h, _, got := newHandler(t, roleDef())

	req := postForm("/roles", url.Values{"name": {"Admin Dua"}, "slug": {"admin"}})
	req.Header.Set("HX-Request", "true")
	h.HandleCreate(httptest.NewRecorder(), req)

	if got.name != "crud_form" || !got.snippet {
		t.Fatalf("rendered %q, want crud_form fragment", got.name)
	}
	data := got.data.(crud.FormData)
	if data.Error != "slug sudah digunakan" {
		t.Errorf("banner = %q", data.Error)
	}
}

func TestHandleEdit_PutsAndRedirects(t *testing.T) {
	h, srv, _ := newHandler(t, roleDef())

	req := postForm("/roles/3/edit", url.Values{"name": {"Penyunting"}, "slug": {"editor"}})
	req = testutil.WithChiURLParam(req, "id", "3")
	rec := testutil.NewRecorder()
	h.HandleEdit(rec, req)

	rec.AssertRedirect(t, "/roles")
	for _, r := range srv.Records("roles") {
		if r["id"] == float64(3) && r["name"] != "Penyunting" {
			t.Errorf("role 3 name = %v", r["name"])
		}
	}
}

func TestHandleEdit_HTMXUsesHXRedirect(t *testing.T) {
	h, _, _ := newHandler(t, roleDef())

	req := postForm("/roles/3/edit", url.Values{"name": {"Penyunting"}, "slug": {"editor"}, "return": {"/roles?search=pen"}})
	req.Header.Set("HX-Request", "true")
	req = testutil.WithChiURLParam(req, "id", "3")
	rec := httptest.NewRecorder()
	h.HandleEdit(rec, req)

	if rec.Code != http.StatusOK || rec.Header().Get("HX-Redirect") != "/roles?search=pen" {
		t.Errorf("status=%d HX-Redirect=%q", rec.Code, rec.Header().Get("HX-Redirect"))
	}
}

func TestServeView_RichDetail(t *testing.T) {
	def := roleDef()
	def.Details = append(def.Details, crud.Detail[models.Role]{
		Label: "Deskripsi", Value: func(r models.Role) string { return r.Description }, Rich: true,
	})
	h, _, got := newHandler(t, def)

	req := testutil.WithChiURLParam(testutil.NewConnectedRequest(http.MethodGet, "/roles/1"), "id", "1")
	h.ServeView(httptest.NewRecorder(), req)

	if got.name != "crud_detail" {
		t.Fatalf("rendered %q, want crud_detail", got.name)
	}
	rows := got.data.(crud.DetailData).Rows
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].HTML != "" {
		t.Errorf("plain detail got HTML %q", rows[0].HTML)
	}
	if want := "<p>Akses penuh ke seluruh konsol.</p>"; string(rows[1].HTML) != want {
		t.Errorf("rich detail = %q, want %q", rows[1].HTML, want)
	}
}

func addressDef() crud.Definition[models.Address] {
	return crud.Definition[models.Address]{
		Slug:     "addresses",
		Title:    "Alamat",
		Singular: "Alamat",
		Resource: resourcelist.Resource[models.Address]{Path: "/api/v1/user-addresses"},
		Scope:    []string{"userId"},
		Columns: []crud.Column[models.Address]{
			{Label: "Label", Value: func(a models.Address) string { return a.Label }},
		},
		ID:      func(a models.Address) models.ID { return a.ID },
		Label:   func(a models.Address) string { return a.Label },
		Payload: func(url.Values, bool) (map[string]any, map[string]string) { return nil, nil },
	}
}

func TestServeView_RecordOutsideScopedCollection(t *testing.T) {
	h, srv, got := newHandler(t, addressDef())

	// Address 3 belongs to user 2, so the user 1 collection lacks it.
	req := testutil.WithChiURLParam(testutil.NewConnectedRequest(http.MethodGet, "/addresses/3?userId=1"), "id", "3")
	rec := httptest.NewRecorder()
	h.ServeView(rec, req)

	if got.name != "crud_detail" {
		t.Fatalf("status=%d template=%q, want crud_detail", rec.Code, got.name)
	}
	if id := got.data.(crud.DetailData).ID; id != "3" {
		t.Errorf("detail id = %q, want 3", id)
	}
	if n := srv.CountRequests(http.MethodGet, "/api/v1/user-addresses/3"); n != 1 {
		t.Errorf("single-record fetches = %d, want 1", n)
	}
}

func TestServeEdit_Prefills(t *testing.T) {
	h, _, got := newHandler(t, roleDef())

	req := testutil.WithChiURLParam(testutil.NewConnectedRequest(http.MethodGet, "/roles/2/edit"), "id", "2")
	h.ServeEdit(httptest.NewRecorder(), req)

	data := got.data.(crud.FormData)
	if !data.Editing || data.Action != "/roles/2/edit" || data.Fields[0].Value != "Admin" {
		t.Errorf("form = %+v", data)
	}
}

func TestServeEdit_NotFound(t *testing.T) {
	h, _, got := newHandler(t, roleDef())

	req := testutil.WithChiURLParam(testutil.NewConnectedRequest(http.MethodGet, "/roles/99/edit"), "id", "99")
	rec := httptest.NewRecorder()
	h.ServeEdit(rec, req)

	if rec.Code != http.StatusNotFound || got.name != "error_page" {
		t.Errorf("status=%d template=%q", rec.Code, got.name)
	}
}

func TestHandleDelete_RequiresConfirmation(t *testing.T) {
	h, srv, got := newHandler(t, roleDef())

	tests := []struct {
		name  string
		token func() string
	}{
		{"missing", func() string { return "" }},
		{"forged", func() string { return "not-a-token" }},
		{"other record", func() string {
			tok, _ := testutil.NewConfirmIssuer(t).Issue("roles", "4")
			return tok
		}},
		{"other resource", func() string {
			tok, _ := testutil.NewConfirmIssuer(t).Issue("features", "5")
			return tok
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := postForm("/roles/5/delete", url.Values{"confirm_token": {tt.token()}})
			req = testutil.WithChiURLParam(req, "id", "5")
			rec := httptest.NewRecorder()
			h.HandleDelete(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if got.name != "crud_confirm_page" {
				t.Errorf("rendered %q", got.name)
			}
			if data := got.data.(crud.ConfirmData); data.View.Error == "" || data.View.Token == "" {
				t.Errorf("confirm view = %+v", data.View)
			}
		})
	}
	if n := srv.CountRequests(http.MethodDelete, "/api/v1/roles/5"); n != 0 {
		t.Errorf("DELETE sent %d times without confirmation", n)
	}
	if n := len(srv.Records("roles")); n != 5 {
		t.Errorf("roles = %d, want 5", n)
	}
}

func TestDelete_ConfirmThenDelete(t *testing.T) {
	h, srv, got := newHandler(t, roleDef())

	req := testutil.WithChiURLParam(testutil.NewConnectedRequest(http.MethodGet, "/roles/5/delete?return=/roles?page=1"), "id", "5")
	h.ServeDelete(httptest.NewRecorder(), req)

	data := got.data.(crud.ConfirmData)
	if data.View.Action != "/roles/5/delete" || data.View.CancelURL != "/roles?page=1" {
		t.Fatalf("confirm view = %+v", data.View)
	}
	if len(data.View.Details) < 2 || data.View.Details[1].Value != "auditor" {
		t.Errorf("details = %+v", data.View.Details)
	}

	post := postForm("/roles/5/delete", url.Values{"confirm_token": {data.View.Token}, "return": {data.View.CancelURL}})
	post = testutil.WithChiURLParam(post, "id", "5")
	rec := testutil.NewRecorder()
	h.HandleDelete(rec, post)

	rec.AssertRedirect(t, "/roles?page=1")
	if n := len(srv.Records("roles")); n != 4 {
		t.Errorf("roles = %d, want 4", n)
	}
}

func TestHandleAction_HTMXRefetchesOnce(t *testing.T) {
	h, srv, got := newHandler(t, featureDef())

	req := postForm("/features/1/actions/status", url.Values{"return": {"/features?page=1"}})
	req.Header.Set("HX-Request", "true")
	req = testutil.WithChiURLParam(testutil.WithChiURLParam(req, "id", "1"), "action", "status")
	h.HandleAction(httptest.NewRecorder(), req)

	if got.name != "crud_table" {
		t.Fatalf("rendered %q, want crud_table", got.name)
	}
	if n := srv.CountRequests(http.MethodPatch, "/api/v1/features/1/status"); n != 1 {
		t.Errorf("PATCH count = %d", n)
	}
	if n := srv.CountRequests(http.MethodGet, "/api/v1/features"); n != 1 {
		t.Errorf("refetch count = %d, want 1", n)
	}
	for _, f := range srv.Records("features") {
		if f["id"] == float64(1) && f["isActive"] != false {
			t.Errorf("feature 1 still active")
		}
	}
}

func TestHandleAction_FailureShowsFlash(t *testing.T) {
	h, srv, got := newHandler(t, featureDef())
	srv.FailNext(http.MethodPatch, http.StatusForbidden)

	req := postForm("/features/1/actions/status", nil)
	req.Header.Set("HX-Request", "true")
	req = testutil.WithChiURLParam(testutil.WithChiURLParam(req, "id", "1"), "action", "status")
	rec := httptest.NewRecorder()
	h.HandleAction(rec, req)

	if got.name != "crud_flash" || rec.Header().Get("HX-Retarget") != "#flash" {
		t.Errorf("rendered %q retarget=%q", got.name, rec.Header().Get("HX-Retarget"))
	}
	if n := srv.CountRequests(http.MethodGet, "/api/v1/features"); n != 0 {
		t.Errorf("failed action refetched %d times", n)
	}
}

func TestHandleAction_Unknown(t *testing.T) {
	h, _, _ := newHandler(t, featureDef())

	req := postForm("/features/1/actions/explode", nil)
	req = testutil.WithChiURLParam(testutil.WithChiURLParam(req, "id", "1"), "action", "explode")
	rec := httptest.NewRecorder()
	h.HandleAction(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRoutes_ReadOnlyHasNoMutations(t *testing.T) {
	def := roleDef()
	def.ReadOnly = true
	h, _, _ := newHandler(t, def)
	sm, err := auth.NewSessionManager(testutil.TestConfirmKey, "", "", 0, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	router := crud.Routes(h, sm)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/", url.Values{"name": {"x"}, "slug": {"x"}}))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST / status = %d, want 405", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unconnected GET / status = %d, want 401", rec.Code)
	}
}
