package ir

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// AsInt64 returns v as an int64 when v holds an integer.
func AsInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case IRInt:
		return int64(val), true
	case uint:
		return int64(val), true
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		return int64(val), true
	default:
		return 0, false
	}
}

// AsFloat64 returns v as a float64 when v holds any number.
func AsFloat64(v any) (float64, bool) {
	if n, ok := AsInt64(v); ok {
		return float64(n), true
	}
	switch val := v.(type) {
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case IRFloat:
		return float64(val), true
	case decimal.Decimal:
		return val.InexactFloat64(), true
	case IRDecimal:
		return val.InexactFloat64(), true
	default:
		return 0, false
	}
}

// AsDecimal returns v as a decimal when v holds any number.
func AsDecimal(v any) (decimal.Decimal, bool) {
	if n, ok := AsInt64(v); ok {
		return decimal.NewFromInt(n), true
	}
	switch val := v.(type) {
	case float32:
		return decimalFromFloat(float64(val))
	case float64:
		return decimalFromFloat(val)
	case IRFloat:
		return decimalFromFloat(float64(val))
	case decimal.Decimal:
		return val, true
	case *decimal.Decimal:
		if val == nil {
			return decimal.Decimal{}, false
		}
		return *val, true
	case IRDecimal:
		return val.Decimal, true
	default:
		return decimal.Decimal{}, false
	}
}

// decimalFromFloat rejects NaN and infinities, which decimal cannot hold.
func decimalFromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(f), true
}

// AsTime returns v as a time when v holds a date.
func AsTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case IRDate:
		return val.Time, true
	default:
		return time.Time{}, false
	}
}
