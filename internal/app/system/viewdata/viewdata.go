// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"strings"

	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// DefaultSiteName is shown in the header when none is configured.
const DefaultSiteName = "AccessDeck"

// NavItem is one entry of the sidebar.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// sidebar lists every console section in display order.
var sidebar = []NavItem{
	{Label: "Dasbor", Href: "/analytics"},
	{Label: "Pengguna", Href: "/users"},
	{Label: "Peran", Href: "/roles"},
	{Label: "Kategori Fitur", Href: "/categories"},
	{Label: "Fitur", Href: "/features"},
	{Label: "Rute Fitur", Href: "/route-features"},
	{Label: "Alamat", Href: "/addresses"},
	{Label: "Telepon", Href: "/phones"},
	{Label: "Log Akses", Href: "/access-logs"},
	{Label: "Riwayat Audit", Href: "/audit"},
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string
	MockMode bool // backend is the built-in mock

	// Connection context (from auth middleware)
	IsConnected  bool
	Operator     string
	Initials     string
	Role         string
	TokenMasked  string
	TokenExpires string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	Nav         []NavItem
}

var (
	siteName = DefaultSiteName
	mockMode bool
)

// Init sets the site name and mock flag. Call this once at startup from
// bootstrap.
func Init(name string, mock bool) {
	if name != "" {
		siteName = name
	}
	mockMode = mock
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    siteName,
		MockMode:    mockMode,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
	}

	if c, ok := auth.CurrentConnection(r); ok {
		vm.IsConnected = true
		vm.Operator = c.DisplayName()
		vm.Initials = format.Initials(vm.Operator)
		vm.Role = c.Claims.Role
		vm.TokenMasked = format.MaskToken(c.AccessToken)
		if !c.Expiry.IsZero() {
			vm.TokenExpires = format.DateTime(c.Expiry)
		}
	}

	vm.Nav = navFor(r.URL.Path)
	return vm
}

func navFor(path string) []NavItem {
	out := make([]NavItem, len(sidebar))
	for i, it := range sidebar {
		it.Active = path == it.Href || strings.HasPrefix(path, it.Href+"/")
		out[i] = it
	}
	return out
}
