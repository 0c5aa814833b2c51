package grid

import (
	"strings"

	"github.com/roach88/jqgrid/internal/filter"
)

// DefaultRows is the page size used when a request does not set one.
const DefaultRows = 20

// Request carries the jqGrid request parameters: page, rows, sidx, sord,
// _search and the per-column toolbar filters.
type Request struct {
	Page    int
	Rows    int
	Sort    string
	Order   string
	Search  bool
	Filters filter.Filter
}

// Normalize returns r with page at least 1, rows defaulted and order
// lowercased to "asc" or "desc".
func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Rows <= 0 {
		r.Rows = DefaultRows
	}
	if strings.EqualFold(r.Order, "desc") {
		r.Order = "desc"
	} else {
		r.Order = "asc"
	}
	r.Sort = strings.TrimSpace(r.Sort)
	return r
}

// Offset is the number of rows before the requested page.
func (r Request) Offset() int {
	n := r.Normalize()
	return (n.Page - 1) * n.Rows
}

// filters returns the terms that apply: none unless searching, and never
// a term with an empty value.
func (r Request) filters() filter.Filter {
	if !r.Search {
		return nil
	}
	f := make(filter.Filter, 0, len(r.Filters))
	for _, t := range r.Filters {
		if t.Value != "" {
			f = append(f, t)
		}
	}
	return f
}
