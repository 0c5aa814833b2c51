package queryir

import (
	"fmt"
	"regexp"
)

// ValidationResult lists the problems found in a query.
type ValidationResult struct {
	// IsValid is true when Problems is empty.
	IsValid bool

	// Problems describes each invalid node, in traversal order.
	Problems []string
}

// Validate checks the structural rules every backend relies on:
//  1. From is set
//  2. every leaf predicate names a field
//  3. Compare carries a known operator and a non-nil value
//  4. Regexp operands compile
//  5. Limit and Offset are not negative
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{problems: []string{}}
	v.validateQuery(query)

	return ValidationResult{
		IsValid:  len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case nil:
		v.addProblem("nil query")
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	case Count:
		v.validateFrom(query.From)
		v.validatePredicate(query.Filter)
	case *Count:
		v.validateFrom(query.From)
		v.validatePredicate(query.Filter)
	default:
		v.addProblem("unknown query type: %T", q)
	}
}

func (v *validator) validateFrom(from string) {
	if from == "" {
		v.addProblem("query has no source")
	}
}

func (v *validator) validateSelect(sel Select) {
	v.validateFrom(sel.From)
	if sel.Limit < 0 {
		v.addProblem("negative limit %d", sel.Limit)
	}
	if sel.Offset < 0 {
		v.addProblem("negative offset %d", sel.Offset)
	}
	for i, o := range sel.OrderBy {
		if o.Field == "" {
			v.addProblem("order key %d has no field", i)
		}
	}
	v.validatePredicate(sel.Filter)
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
		// no filter
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case *And:
		v.validatePredicate(*pred)
	case Compare:
		v.validateField(pred)
		if !pred.Op.Valid() {
			v.addProblem("field %q: unknown operator %q", pred.Field, pred.Op)
		}
		if pred.Value == nil {
			v.addProblem("field %q: comparison without a value", pred.Field)
		}
	case Regexp:
		v.validateField(pred)
		if _, err := regexp.Compile(pred.Value); err != nil {
			v.addProblem("field %q: invalid regular expression: %v", pred.Field, err)
		}
	case Contains, NotContains, Prefix, Suffix, Pattern:
		v.validateField(pred)
	default:
		v.addProblem("unknown predicate type: %T", p)
	}
}

func (v *validator) validateField(p Predicate) {
	if FieldOf(p) == "" {
		v.addProblem("%T has no field", p)
	}
}
