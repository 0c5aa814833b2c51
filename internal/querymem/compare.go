package querymem

import (
	"cmp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/roach88/jqgrid/internal/ir"
)

func textOf(v any, dateFormat string) string {
	return ir.Text(v, dateFormat)
}

// like reports whether s matches a LIKE pattern. % matches any run of
// characters and _ exactly one; letters compare case-insensitively.
func like(pattern, s string) bool {
	fold := cases.Fold()
	p := []rune(fold.String(pattern))
	r := []rune(fold.String(s))

	// Greedy match with single-star backtracking.
	pi, ri := 0, 0
	star, mark := -1, 0
	for ri < len(r) {
		switch {
		case pi < len(p) && p[pi] == '%':
			star, mark = pi, ri
			pi++
		case pi < len(p) && (p[pi] == '_' || p[pi] == r[ri]):
			pi++
			ri++
		case star >= 0:
			pi = star + 1
			mark++
			ri = mark
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '%' {
		pi++
	}
	return pi == len(p)
}

// compareTo compares a record value with a coerced operand of the same
// kind. It reports false when a cannot be read as that kind, so missing
// values never satisfy a comparison. An empty string is a value and
// compares as text, as it does in SQL.
func compareTo(a any, b ir.Value) (int, bool) {
	switch bv := b.(type) {
	case ir.IRInt:
		if n, ok := ir.AsInt64(a); ok {
			return cmp.Compare(n, int64(bv)), true
		}
		if d, ok := ir.AsDecimal(a); ok {
			return d.Cmp(decimal.NewFromInt(int64(bv))), true
		}
	case ir.IRFloat:
		if f, ok := ir.AsFloat64(a); ok {
			return cmp.Compare(f, float64(bv)), true
		}
	case ir.IRDecimal:
		if d, ok := ir.AsDecimal(a); ok {
			return d.Cmp(bv.Decimal), true
		}
	case ir.IRDate:
		if t, ok := ir.AsTime(a); ok {
			return ir.NewIRDate(t).Compare(bv.Time), true
		}
	case ir.IRString:
		if a == nil {
			return 0, false
		}
		return strings.Compare(textOf(a, ""), string(bv)), true
	}
	return 0, false
}

// sortCompare orders two record values for ORDER BY. Blank values sort
// first; numbers compare numerically and dates chronologically when both
// sides agree, anything else by text.
func sortCompare(a, b any, dateFormat string) int {
	ba, bb := isBlank(a), isBlank(b)
	switch {
	case ba && bb:
		return 0
	case ba:
		return -1
	case bb:
		return 1
	}

	if isNumber(a) && isNumber(b) {
		da, okA := ir.AsDecimal(a)
		db, okB := ir.AsDecimal(b)
		if okA && okB {
			return da.Cmp(db)
		}
		fa, _ := ir.AsFloat64(a)
		fb, _ := ir.AsFloat64(b)
		return cmp.Compare(fa, fb)
	}
	if ta, ok := ir.AsTime(a); ok {
		if tb, ok := ir.AsTime(b); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(textOf(a, dateFormat), textOf(b, dateFormat))
}

func isNumber(v any) bool {
	switch ir.KindOf(v) {
	case ir.KindInt, ir.KindFloat, ir.KindDecimal:
		return true
	default:
		return false
	}
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case ir.IRString:
		return val == ""
	default:
		return false
	}
}
