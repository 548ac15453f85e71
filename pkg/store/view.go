package store

import "strings"

// View is the ephemeral, client-only view state attached to a resource
// store: tab and filter selection, free-text search, and the 1-based page
// cursor. It performs no I/O; the typed stores read it when building list
// requests.
type View struct {
	Tab    string
	Filter string
	Search string
	Page   int
}

// NewView returns a View positioned on the first page.
func NewView() *View { return &View{Page: 1} }

// SetTab selects a tab. A change resets the page cursor to 1 and reports
// true, signalling the caller to clear the displayed items before the
// replacement fetch resolves.
func (v *View) SetTab(tab string) bool {
	if v.Tab == tab {
		return false
	}
	v.Tab = tab
	v.Page = 1
	return true
}

// SetFilter selects a status filter, with the same reset semantics as
// SetTab.
func (v *View) SetFilter(filter string) bool {
	if v.Filter == filter {
		return false
	}
	v.Filter = filter
	v.Page = 1
	return true
}

// SetSearch updates the free-text query. Search is a client-side predicate
// over the already-fetched page and never triggers a server fetch.
func (v *View) SetSearch(q string) {
	v.Search = q
}

// SetPage moves the page cursor. Values below 1 clamp to 1.
func (v *View) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.Page = page
}

// Matches reports whether any of the fields contains the view's search
// query, case-insensitively. An empty query matches everything.
func (v *View) Matches(fields ...string) bool {
	if v.Search == "" {
		return true
	}
	q := strings.ToLower(v.Search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// ApplySearch filters one fetched page down to the items matching the
// view's search query, using fields to pick the searchable text per item.
func ApplySearch[T any](v *View, items []T, fields func(T) []string) []T {
	if v.Search == "" {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		if v.Matches(fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}
