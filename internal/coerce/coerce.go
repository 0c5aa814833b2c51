// Package coerce converts free-text filter input into the value type a
// column already holds.
//
// The target type never comes from the input's own shape. It is sampled
// once from the first record of a result set (Sample) and then used for
// every term on that column (Coerce).
package coerce

import (
	"github.com/roach88/jqgrid/internal/datefmt"
	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/record"
)

// ColumnTypes maps a column path to its sampled kind.
type ColumnTypes map[string]ir.Kind

// Kind returns the kind recorded for column, KindString when unknown.
func (ct ColumnTypes) Kind(column string) ir.Kind {
	if k, ok := ct[column]; ok && k != ir.KindNull {
		return k
	}
	return ir.KindString
}

// Sample reads each column on the first record and records its kind.
// An empty sample list types every column as a string.
func Sample(samples []record.Record, columns []string) ColumnTypes {
	ct := make(ColumnTypes, len(columns))
	for _, col := range columns {
		ct[col] = ir.KindString
	}
	if len(samples) == 0 {
		return ct
	}
	first := samples[0]
	for _, col := range columns {
		if k := ir.KindOf(record.Resolve(first, col)); k != ir.KindNull {
			ct[col] = k
		}
	}
	return ct
}

// Coerce parses raw as kind.
//
// Numeric kinds always succeed, defaulting to zero on unparsable input.
// Dates are parsed strictly with dateFormat and report false when raw
// does not satisfy the whole pattern.
func Coerce(kind ir.Kind, raw, dateFormat string) (ir.Value, bool) {
	switch kind {
	case ir.KindInt:
		return ir.IRInt(ir.LeadingInt(raw)), true
	case ir.KindFloat:
		return ir.IRFloat(ir.LeadingFloat(raw)), true
	case ir.KindDecimal:
		return ir.NewIRDecimal(ir.LeadingDecimal(raw)), true
	case ir.KindDate:
		if dateFormat == "" {
			dateFormat = datefmt.Default
		}
		t, err := datefmt.Parse(dateFormat, raw)
		if err != nil {
			return nil, false
		}
		return ir.NewIRDate(t), true
	default:
		return ir.IRString(raw), true
	}
}

// StrToColumnType coerces raw into the type column holds on the first
// sample record.
func StrToColumnType(samples []record.Record, raw, column, dateFormat string) (ir.Value, bool) {
	var kind ir.Kind
	if len(samples) > 0 {
		kind = ir.KindOf(record.Resolve(samples[0], column))
	}
	return Coerce(kind, raw, dateFormat)
}
