package filter

import (
	"io"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/jqgrid/internal/coerce"
	"github.com/roach88/jqgrid/internal/datefmt"
	"github.com/roach88/jqgrid/internal/queryir"
	"github.com/roach88/jqgrid/internal/querysql"
)

// Builder converts a Filter into a queryir predicate.
type Builder struct {
	// Types holds the sampled kind of each column. Columns missing from
	// Types compare as strings.
	Types coerce.ColumnTypes

	// DateFormat parses date operands. Defaults to datefmt.Default.
	DateFormat string

	// Logger receives a debug line per skipped term. Nil discards.
	Logger *slog.Logger
}

// Result is the outcome of Build.
type Result struct {
	// Predicate holds one clause per kept term, in term order.
	Predicate queryir.And

	// Skipped lists terms whose comparison operand could not be coerced to
	// the column type (malformed dates). They do not restrict the result.
	Skipped []Term
}

// Build classifies each term and emits its predicate.
func (b Builder) Build(f Filter) Result {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	dateFormat := b.DateFormat
	if dateFormat == "" {
		dateFormat = datefmt.Default
	}

	res := Result{Predicate: queryir.And{Predicates: make([]queryir.Predicate, 0, len(f))}}
	for _, term := range f {
		pred, ok := b.term(term, dateFormat)
		if !ok {
			logger.Debug("skipping filter term",
				"column", term.Column,
				"value", term.Value,
				"kind", b.Types.Kind(term.Column).String())
			res.Skipped = append(res.Skipped, term)
			continue
		}
		res.Predicate.Predicates = append(res.Predicate.Predicates, pred)
	}
	return res
}

func (b Builder) term(t Term, dateFormat string) (queryir.Predicate, bool) {
	m := Classify(norm.NFC.String(t.Value))
	col := t.Column

	switch m.Op {
	case OpContains:
		return queryir.Contains{Field: col, Value: m.Operand}, true
	case OpNotContains:
		return queryir.NotContains{Field: col, Value: m.Operand}, true
	case OpPrefix:
		return queryir.Prefix{Field: col, Value: m.Operand}, true
	case OpSuffix:
		return queryir.Suffix{Field: col, Value: m.Operand}, true
	case OpExact:
		return queryir.Pattern{Field: col, Value: m.Operand}, true
	case OpMatch, OpRegexp:
		return queryir.Regexp{Field: col, Value: m.Operand}, true
	case OpNotMatch:
		return queryir.Regexp{Field: col, Value: m.Operand, Negate: true}, true
	}

	v, ok := coerce.Coerce(b.Types.Kind(col), m.Operand, dateFormat)
	if !ok {
		return nil, false
	}
	return queryir.Compare{Field: col, Op: compareOps[m.Op], Value: v}, true
}

var compareOps = map[Operator]queryir.Op{
	OpEq: queryir.OpEq,
	OpNe: queryir.OpNe,
	OpLt: queryir.OpLt,
	OpLe: queryir.OpLe,
	OpGt: queryir.OpGt,
	OpGe: queryir.OpGe,
}

// Conditions compiles f into a SQLite WHERE fragment and its bind values,
// treating every column as text. f must not be empty.
//
//	Conditions(FromPairs("a", "10", "b", "bb"))
//	// "a LIKE ? AND b LIKE ?", ["%10%", "%bb%"]
func Conditions(f Filter) (string, []any, error) {
	return ConditionsWith(Builder{}, querysql.NewCompiler(querysql.SQLite), f)
}

// ConditionsWith compiles f with a configured builder and compiler.
// Skipped terms are left out of the expression.
func ConditionsWith(b Builder, c *querysql.Compiler, f Filter) (string, []any, error) {
	res := b.Build(f)
	return c.CompilePredicate(res.Predicate)
}

