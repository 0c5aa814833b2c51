package record

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/jqgrid/internal/ir"
)

// Casers carry state and must not be shared, so each call builds its own.
func upcase(s string) string   { return cases.Upper(language.Und).String(s) }
func downcase(s string) string { return cases.Lower(language.Und).String(s) }

// builtinTransforms are the chain segments every resolver understands.
// "to_s" is added per resolver because it depends on the date format.
var builtinTransforms = map[string]Transform{
	"upcase":     stringTransform(upcase),
	"downcase":   stringTransform(downcase),
	"capitalize": stringTransform(capitalize),
	"swapcase":   stringTransform(swapcase),
	"strip":      stringTransform(strings.TrimSpace),
	"reverse":    stringTransform(reverse),
	"length":     length,
	"size":       length,
	"to_i":       toInt,
	"to_f":       toFloat,
	"to_d":       toDecimal,
	"abs":        abs,
	"round":      roundWith(math.Round, roundDecimal),
	"floor":      roundWith(math.Floor, decimal.Decimal.Floor),
	"ceil":       roundWith(math.Ceil, decimal.Decimal.Ceil),
	"year":       datePart(func(t time.Time) int { return t.Year() }),
	"month":      datePart(func(t time.Time) int { return int(t.Month()) }),
	"day":        datePart(func(t time.Time) int { return t.Day() }),
}

func stringTransform(fn func(string) string) Transform {
	return func(v any) (any, bool) {
		s, ok := asString(v)
		if !ok {
			return nil, false
		}
		return fn(s), true
	}
}

func asString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case ir.IRString:
		return string(val), true
	case []byte:
		return string(val), true
	default:
		return "", false
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return upcase(string(r)) + downcase(s[size:])
}

func swapcase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		default:
			return r
		}
	}, s)
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func length(v any) (any, bool) {
	s, ok := asString(v)
	if !ok {
		return nil, false
	}
	return int64(utf8.RuneCountInString(s)), true
}

func toInt(v any) (any, bool) {
	if s, ok := asString(v); ok {
		return ir.LeadingInt(s), true
	}
	if n, ok := ir.AsInt64(v); ok {
		return n, true
	}
	if d, ok := ir.AsDecimal(v); ok {
		return d.IntPart(), true
	}
	return nil, false
}

func toFloat(v any) (any, bool) {
	if s, ok := asString(v); ok {
		return ir.LeadingFloat(s), true
	}
	if f, ok := ir.AsFloat64(v); ok {
		return f, true
	}
	return nil, false
}

func toDecimal(v any) (any, bool) {
	if s, ok := asString(v); ok {
		return ir.LeadingDecimal(s), true
	}
	if d, ok := ir.AsDecimal(v); ok {
		return d, true
	}
	return nil, false
}

func abs(v any) (any, bool) {
	if n, ok := ir.AsInt64(v); ok {
		if n < 0 {
			return -n, true
		}
		return n, true
	}
	switch val := v.(type) {
	case float32:
		return math.Abs(float64(val)), true
	case float64:
		return math.Abs(val), true
	case ir.IRFloat:
		return math.Abs(float64(val)), true
	}
	if d, ok := ir.AsDecimal(v); ok {
		return d.Abs(), true
	}
	return nil, false
}

// roundWith builds round/floor/ceil. Floats round to integers, decimals
// to whole decimals; integers pass through unchanged.
func roundWith(f func(float64) float64, d func(decimal.Decimal) decimal.Decimal) Transform {
	return func(v any) (any, bool) {
		if n, ok := ir.AsInt64(v); ok {
			return n, true
		}
		switch val := v.(type) {
		case float32:
			return wholeFloat(f(float64(val)))
		case float64:
			return wholeFloat(f(val))
		case ir.IRFloat:
			return wholeFloat(f(float64(val)))
		}
		if dec, ok := ir.AsDecimal(v); ok {
			return d(dec), true
		}
		return nil, false
	}
}

// wholeFloat returns an integral float as int64, or as a whole decimal
// when it lies outside the int64 range. NaN and infinities have no
// integer form.
func wholeFloat(r float64) (any, bool) {
	switch {
	case math.IsNaN(r) || math.IsInf(r, 0):
		return nil, false
	case r >= -(1<<63) && r < 1<<63:
		return int64(r), true
	default:
		return decimal.NewFromFloat(r), true
	}
}

func datePart(part func(time.Time) int) Transform {
	return func(v any) (any, bool) {
		t, ok := ir.AsTime(v)
		if !ok {
			return nil, false
		}
		return int64(part(t)), true
	}
}

func roundDecimal(d decimal.Decimal) decimal.Decimal { return d.Round(0) }
