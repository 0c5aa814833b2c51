package ir

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the closed set of column value types a grid understands.
//
// A column's kind is never taken from the shape of user input. It is
// inferred once from the value a sample record already holds for that
// column, then used to coerce filter text into the same type.
type Kind int

const (
	// KindNull marks a column whose sample value was absent or unrecognized.
	// Coercion treats it like KindString.
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindDecimal
	KindDate
)

var kindNames = map[Kind]string{
	KindNull:    "null",
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindDecimal: "decimal",
	KindDate:    "date",
}

// String returns the lowercase kind name used in scenario and grid files.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindNull, false
}

// Value is a sealed interface over coerced filter values.
// Only IRString, IRInt, IRFloat, IRDecimal and IRDate implement it.
type Value interface {
	irValue() // Sealed - only these types implement it
	Kind() Kind
}

// IRString represents a string value.
type IRString string

func (IRString) irValue() {}

// Kind implements Value.
func (IRString) Kind() Kind { return KindString }

// IRInt represents an integer value. Always int64.
type IRInt int64

func (IRInt) irValue() {}

// Kind implements Value.
func (IRInt) Kind() Kind { return KindInt }

// IRFloat represents a binary floating-point value.
type IRFloat float64

func (IRFloat) irValue() {}

// Kind implements Value.
func (IRFloat) Kind() Kind { return KindFloat }

// IRDecimal represents an exact fixed-point value.
type IRDecimal struct {
	decimal.Decimal
}

func (IRDecimal) irValue() {}

// Kind implements Value.
func (IRDecimal) Kind() Kind { return KindDecimal }

// IRDate represents a calendar date. The time of day is always midnight UTC.
type IRDate struct {
	time.Time
}

func (IRDate) irValue() {}

// Kind implements Value.
func (IRDate) Kind() Kind { return KindDate }

// NewIRDecimal wraps a decimal.Decimal.
func NewIRDecimal(d decimal.Decimal) IRDecimal {
	return IRDecimal{Decimal: d}
}

// NewIRDate truncates t to its calendar date.
func NewIRDate(t time.Time) IRDate {
	y, m, d := t.Date()
	return IRDate{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// KindOf reports the kind of a native record value.
//
// This is the one place runtime types are inspected; callers sample a
// column once and switch on the returned tag afterwards.
func KindOf(v any) Kind {
	switch val := v.(type) {
	case nil:
		return KindNull
	case Value:
		return val.Kind()
	case string, []byte:
		return KindString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case decimal.Decimal, *decimal.Decimal:
		return KindDecimal
	case time.Time, *time.Time:
		return KindDate
	default:
		return KindNull
	}
}

// Param converts a Value to a Go native type for a SQL bind argument.
func Param(v Value) any {
	switch val := v.(type) {
	case IRString:
		return string(val)
	case IRInt:
		return int64(val)
	case IRFloat:
		return float64(val)
	case IRDecimal:
		return val.Decimal.String()
	case IRDate:
		return val.Time
	default:
		return nil
	}
}
