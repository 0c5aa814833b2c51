package queryir

import "github.com/roach88/jqgrid/internal/ir"

// Query represents an abstract query.
//
// This is a sealed interface - only Select and Count implement it.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a filter condition on one row.
//
// This is a sealed interface - only types in this package implement it.
// Every predicate except And names a single Field (a column path).
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Select fetches one page of rows.
//
// Semantics:
//
//	SELECT <columns> FROM <from> WHERE <filter>
//	ORDER BY <order_by>, id LIMIT <limit> OFFSET <offset>
//
// Columns empty means every column. Limit 0 means no limit.
type Select struct {
	From    string
	Columns []string
	Filter  Predicate // nil = no filter
	OrderBy []Order
	Limit   int
	Offset  int
}

func (Select) queryNode() {}

// Count counts the rows a Select with the same From and Filter would see
// before paging.
type Count struct {
	From   string
	Filter Predicate
}

func (Count) queryNode() {}

// Order is one sort key.
type Order struct {
	Field string
	Desc  bool
}

// Op is a comparison operator.
type Op string

const (
	OpEq Op = "="
	OpNe Op = "<>"
	OpLt Op = "<"
	OpLe Op = "<="
	OpGt Op = ">"
	OpGe Op = ">="
)

// Valid reports whether op is one of the six comparison operators.
func (op Op) Valid() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	default:
		return false
	}
}

// Contains matches rows whose field contains Value as a substring.
//
//	<field> LIKE '%' || <value> || '%'
type Contains struct {
	Field string
	Value string
}

func (Contains) predicateNode() {}

// NotContains is the negation of Contains.
type NotContains struct {
	Field string
	Value string
}

func (NotContains) predicateNode() {}

// Compare compares a field with a typed value.
//
//	<field> <op> <value>
type Compare struct {
	Field string
	Op    Op
	Value ir.Value
}

func (Compare) predicateNode() {}

// Prefix matches rows whose field starts with Value.
type Prefix struct {
	Field string
	Value string
}

func (Prefix) predicateNode() {}

// Suffix matches rows whose field ends with Value.
type Suffix struct {
	Field string
	Value string
}

func (Suffix) predicateNode() {}

// Pattern matches the field against Value as a whole LIKE pattern, with
// no implicit wildcards ("^abc$" matches exactly "abc").
type Pattern struct {
	Field string
	Value string
}

func (Pattern) predicateNode() {}

// Regexp matches the field against a regular expression.
// Negate inverts the match.
type Regexp struct {
	Field  string
	Value  string
	Negate bool
}

func (Regexp) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
//
// Semantics:
//
//	<predicate1> AND <predicate2> AND ... AND <predicateN>
//
// Predicate order is preserved by every backend: the first predicate is
// the leftmost clause and its bind values come first.
// An empty And is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// FieldOf returns the column a leaf predicate tests, or "" for And.
func FieldOf(p Predicate) string {
	switch pred := p.(type) {
	case Contains:
		return pred.Field
	case NotContains:
		return pred.Field
	case Compare:
		return pred.Field
	case Prefix:
		return pred.Field
	case Suffix:
		return pred.Field
	case Pattern:
		return pred.Field
	case Regexp:
		return pred.Field
	default:
		return ""
	}
}
