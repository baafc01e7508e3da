// internal/app/features/crud/types.go
package crud

import (
	"html/template"

	"github.com/dalemusser/accessdeck/internal/app/system/confirm"
	"github.com/dalemusser/accessdeck/internal/app/system/format"
	"github.com/dalemusser/accessdeck/internal/app/system/viewdata"
)

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type filterView struct {
	Name    string
	Label   string
	Options []optionView
}

type headerView struct {
	Label  string
	Link   string // empty when the column is not sortable
	Active bool
	Order  string
}

type cellView struct {
	Text string
	Tone string
}

type actionView struct {
	Label  string
	URL    string
	Hidden map[string]string
}

type rowView struct {
	ID        string
	Cells     []cellView
	ViewURL   string
	EditURL   string
	DeleteURL string
	Actions   []actionView
}

type pageView struct {
	Number  int
	URL     string
	Current bool
	Gap     bool
}

// ListData is the view model of the list page and of its HTMX table
// fragment.
type ListData struct {
	viewdata.BaseVM

	Slug     string
	Base     string
	Singular string
	ReadOnly bool

	Search     string
	SearchURL  string // form action; scope travels as hidden inputs
	Scope      map[string]string
	Filters    []filterView
	Headers    []headerView
	Rows       []rowView
	Stats      []format.Stat
	PerPage    []optionView
	Sort       string
	Order      string
	Size       int // explicit per_page; 0 means the configured default
	NewURL     string
	ReturnURL  string // this view, passed as ?return= to forms
	Page       int
	TotalPages int
	Start      int
	End        int
	Filtered   int
	Total      int
	PrevURL    string
	NextURL    string
	Pages      []pageView

	Status   string // controller status after the fetch
	Error    string
	RetryURL string
}

type fieldView struct {
	Name     string
	Label    string
	Kind     string
	Required bool
	Help     string
	Value    string
	Checked  bool
	Options  []optionView
	Error    string
}

// FormData is the view model of the create and edit forms.
type FormData struct {
	viewdata.BaseVM

	Slug      string
	Singular  string
	Editing   bool
	ID        string
	Action    string
	Fields    []fieldView
	Scope     map[string]string
	Error     string
	ReturnURL string
}

type detailRow struct {
	Label string
	Value string
	HTML  template.HTML // set for rich details
}

// DetailData is the view model of the read-only detail page.
type DetailData struct {
	viewdata.BaseVM

	Slug      string
	Singular  string
	ID        string
	Label     string
	Rows      []detailRow
	ReadOnly  bool
	EditURL   string
	DeleteURL string
	ReturnURL string
}

// ConfirmData is the view model of the delete confirmation.
type ConfirmData struct {
	viewdata.BaseVM

	View  confirm.View
	Slug  string
	Scope map[string]string
}
