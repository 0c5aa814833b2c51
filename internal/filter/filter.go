// Package filter turns grid search terms into query predicates.
//
// A term whose value is plain text becomes a substring match. A term
// whose value is a special match carries its own operator:
//
//	=v  !=v  <v  <=v  >v  >=v   typed comparison
//	!v                          does not contain
//	~v  !~v                     regular expression (negated)
//	^v  v$  ^v$                 prefix, suffix, exact pattern
//	a..b                        regular expression
//
// Leading whitespace always makes a value plain.
package filter

import (
	"fmt"
	"strings"
)

// Term is one column search.
type Term struct {
	Column string
	Value  string
}

// Filter is an ordered list of terms. The first term becomes the leftmost
// clause of the compiled expression.
type Filter []Term

// FromPairs builds a Filter from alternating column and value arguments.
// A trailing column without a value is ignored.
func FromPairs(kv ...string) Filter {
	f := make(Filter, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f = append(f, Term{Column: kv[i], Value: kv[i+1]})
	}
	return f
}

// Parse builds a Filter from "column=value" arguments, splitting on the
// first "=" so values may carry their own operator ("n=>=5").
func Parse(args []string) (Filter, error) {
	f := make(Filter, 0, len(args))
	for _, arg := range args {
		col, val, ok := strings.Cut(arg, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid filter %q: want column=value", arg)
		}
		f = append(f, Term{Column: col, Value: val})
	}
	return f, nil
}

// Columns returns the column of each term, in order.
func (f Filter) Columns() []string {
	cols := make([]string, len(f))
	for i, t := range f {
		cols[i] = t.Column
	}
	return cols
}
