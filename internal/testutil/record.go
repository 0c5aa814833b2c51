package testutil

import (
	"strings"

	"github.com/roach88/jqgrid/internal/record"
)

// Row is a field record with attributes a, b, c and id, plus a virtual
// attribute "va" that returns a uppercased.
//
// Unset attributes are nil, the way an ORM row reports missing columns.
type Row struct {
	A, B, C, ID any
}

// NewRow assigns values positionally to a, b, c and id.
func NewRow(values ...any) Row {
	var r Row
	fields := []*any{&r.A, &r.B, &r.C, &r.ID}
	for i, v := range values {
		if i >= len(fields) {
			break
		}
		*fields[i] = v
	}
	return r
}

// Shape implements record.Record.
func (Row) Shape() record.Shape { return record.ShapeFields }

// Field implements record.Record.
func (r Row) Field(name string) (any, bool) {
	switch name {
	case "a":
		return r.A, true
	case "b":
		return r.B, true
	case "c":
		return r.C, true
	case "id":
		return r.ID, true
	case "va":
		s, _ := r.A.(string)
		return strings.ToUpper(s), true
	default:
		return nil, false
	}
}

// Records converts rows to records.
func Records(rows ...Row) []record.Record {
	out := make([]record.Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
