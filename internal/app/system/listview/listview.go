// internal/app/system/listview/listview.go
//
// Package listview derives the visible page of a fetched collection:
// search, categorical filters, a single sort key and page slicing.
// Everything here is pure; callers hold the collection and the State.
package listview

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/accessdeck/internal/app/system/paging"
)

// All is the filter value that disables a filter.
const All = "all"

// DefaultPerPage is used when a Config does not set PerPage.
const DefaultPerPage = 10

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Option is one choice in a filter dropdown.
type Option struct {
	Value string
	Label string
}

// Filter is a categorical filter. Match is only called for values other
// than "" and All.
type Filter[T any] struct {
	Name    string
	Label   string
	Options []Option
	// OptionsFrom derives options from the collection, for filters whose
	// choices come from the data (roles, cities, country codes).
	OptionsFrom func(items []T) []Option
	Match       func(item T, value string) bool
}

// SortKey names a sortable column.
type SortKey[T any] struct {
	Name  string
	Label string
	Value func(item T) any
}

// Config describes how one entity list is searched, filtered and sorted.
type Config[T any] struct {
	Search       []func(item T) string
	Filters      []Filter[T]
	Sorts        []SortKey[T]
	DefaultSort  string
	DefaultOrder Order
	PerPage      int
	MaxPerPage   int
}

func (c Config[T]) perPage() int {
	if c.PerPage > 0 {
		return c.PerPage
	}
	return DefaultPerPage
}

func (c Config[T]) maxPerPage() int {
	if c.MaxPerPage > 0 {
		return c.MaxPerPage
	}
	return 100
}

func (c Config[T]) sortKey(name string) (SortKey[T], bool) {
	for _, s := range c.Sorts {
		if s.Name == name {
			return s, true
		}
	}
	return SortKey[T]{}, false
}

// FilterOptions returns the options for f, including derived ones.
func (f Filter[T]) FilterOptions(items []T) []Option {
	if f.OptionsFrom == nil {
		return f.Options
	}
	out := append([]Option(nil), f.Options...)
	return append(out, f.OptionsFrom(items)...)
}

// State is the view state of one list. The zero value shows page one of
// the unfiltered collection in the configured default order.
type State struct {
	Search    string
	Filters   map[string]string
	SortBy    string
	SortOrder Order
	Page      int
	PerPage   int
}

func (s State) clone() State {
	if s.Filters != nil {
		m := make(map[string]string, len(s.Filters))
		for k, v := range s.Filters {
			m[k] = v
		}
		s.Filters = m
	}
	return s
}

// Filter returns the selected value for a filter, or All.
func (s State) Filter(name string) string {
	if v := s.Filters[name]; v != "" {
		return v
	}
	return All
}

// WithSearch sets the search term and returns to page one.
func (s State) WithSearch(term string) State {
	s = s.clone()
	s.Search = term
	s.Page = 1
	return s
}

// WithFilter sets one filter and returns to page one.
func (s State) WithFilter(name, value string) State {
	s = s.clone()
	if s.Filters == nil {
		s.Filters = map[string]string{}
	}
	if value == "" || value == All {
		delete(s.Filters, name)
	} else {
		s.Filters[name] = value
	}
	s.Page = 1
	return s
}

// WithSort sets the sort key and order and returns to page one.
func (s State) WithSort(by string, order Order) State {
	s = s.clone()
	s.SortBy = by
	s.SortOrder = normalizeOrder(order, Asc)
	s.Page = 1
	return s
}

// ToggleSort is what clicking a column header does: same column flips
// the order, another column starts ascending.
func (s State) ToggleSort(by string) State {
	if s.SortBy == by && s.SortOrder == Asc {
		return s.WithSort(by, Desc)
	}
	return s.WithSort(by, Asc)
}

// WithPerPage changes the page size and returns to page one.
func (s State) WithPerPage(n int) State {
	s = s.clone()
	s.PerPage = n
	s.Page = 1
	return s
}

// WithPage moves to page n. Nothing else changes.
func (s State) WithPage(n int) State {
	s = s.clone()
	s.Page = n
	return s
}

// Values encodes the state as query parameters. Defaults are omitted.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Search != "" {
		v.Set("search", s.Search)
	}
	for k, val := range s.Filters {
		if val != "" && val != All {
			v.Set("f_"+k, val)
		}
	}
	if s.SortBy != "" {
		v.Set("sort", s.SortBy)
	}
	if s.SortOrder != "" {
		v.Set("order", string(s.SortOrder))
	}
	if s.Page > 1 {
		v.Set("page", strconv.Itoa(s.Page))
	}
	if s.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(s.PerPage))
	}
	return v
}

// Link returns path with the state as its query string.
func (s State) Link(path string) string {
	q := s.Values().Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

// ParseState reads the view state from query parameters. Unknown sort keys
// fall back to the configured default, bad numbers to their defaults.
func ParseState[T any](q url.Values, cfg Config[T]) State {
	s := State{
		Search:  strings.TrimSpace(q.Get("search")),
		Filters: map[string]string{},
		Page:    1,
		PerPage: cfg.perPage(),
	}
	for _, f := range cfg.Filters {
		if v := strings.TrimSpace(q.Get("f_" + f.Name)); v != "" && v != All {
			s.Filters[f.Name] = v
		}
	}

	s.SortBy = cfg.DefaultSort
	if by := q.Get("sort"); by != "" {
		if _, ok := cfg.sortKey(by); ok {
			s.SortBy = by
		}
	}
	s.SortOrder = normalizeOrder(Order(q.Get("order")), normalizeOrder(cfg.DefaultOrder, Asc))

	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		s.Page = n
	}
	if n, err := strconv.Atoi(q.Get("per_page")); err == nil && n > 0 {
		s.PerPage = min(n, cfg.maxPerPage())
	}
	return s
}

func normalizeOrder(o Order, def Order) Order {
	switch Order(strings.ToLower(string(o))) {
	case Asc:
		return Asc
	case Desc:
		return Desc
	}
	return def
}

// Result is one rendered page of a list.
type Result[T any] struct {
	Items      []T
	Filtered   int // items left after search and filters
	Total      int // items in the collection
	Page       int
	PerPage    int
	TotalPages int
	Start      int // 1-based index of the first row shown, 0 when empty
	End        int
	HasPrev    bool
	HasNext    bool
	PageLinks  []paging.Link
}

// Filtered runs search and filters. Order is preserved.
func Filtered[T any](items []T, cfg Config[T], s State) []T {
	term := strings.ToLower(strings.TrimSpace(s.Search))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if term != "" && !matchSearch(it, cfg.Search, term) {
			continue
		}
		if !matchFilters(it, cfg.Filters, s) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matchSearch[T any](it T, fields []func(T) string, term string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f(it)), term) {
			return true
		}
	}
	return false
}

func matchFilters[T any](it T, filters []Filter[T], s State) bool {
	for _, f := range filters {
		v := s.Filter(f.Name)
		if v == All || f.Match == nil {
			continue
		}
		if !f.Match(it, v) {
			return false
		}
	}
	return true
}

// Apply derives the visible page from the collection.
func Apply[T any](items []T, cfg Config[T], s State) Result[T] {
	filtered := Filtered(items, cfg, s)
	if key, ok := cfg.sortKey(s.SortBy); ok {
		SortBy(filtered, key.Value, normalizeOrder(s.SortOrder, Asc))
	}

	perPage := s.PerPage
	if perPage <= 0 {
		perPage = cfg.perPage()
	}
	pg := Paginate(filtered, s.Page, perPage)
	pg.Total = len(items)
	return pg
}

// Paginate slices one page out of items. A page past the end is clamped
// to the last page; an empty list reports page 1 of 0.
func Paginate[T any](items []T, page, perPage int) Result[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	n := len(items)
	totalPages := (n + perPage - 1) / perPage
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		page = 1
	}

	start := (page - 1) * perPage
	end := min(start+perPage, n)
	if start > n {
		start = n
	}

	res := Result[T]{
		Items:      items[start:end],
		Filtered:   n,
		Total:      n,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PageLinks:  paging.Links(page, totalPages, 2),
	}
	rng := paging.ComputeRange(page, perPage, end-start)
	res.Start, res.End = rng.Start, rng.End
	return res
}
