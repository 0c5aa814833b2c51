package ir

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LeadingInt parses the integer prefix of s after optional whitespace and sign.
// Text without a numeric prefix yields 0; out-of-range values clamp to the
// int64 limits. Fractional text is ignored ("12.7" -> 12).
func LeadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\r\n\f\v")
	end := scanSign(s, 0)
	digits := scanDigits(s, end)
	if digits == end {
		return 0
	}
	// ParseInt returns the clamped limit on range errors.
	n, _ := strconv.ParseInt(s[:digits], 10, 64)
	return n
}

// LeadingFloat parses the floating-point prefix of s ("1.5abc" -> 1.5).
// Text without a numeric prefix yields 0.
func LeadingFloat(s string) float64 {
	prefix := numericPrefix(s, true)
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		if math.IsInf(f, 0) {
			return f
		}
		return 0
	}
	return f
}

// LeadingDecimal parses the decimal prefix of s, keeping every digit after
// the point ("3.412" -> 3.412 exactly). Text without a numeric prefix
// yields zero.
func LeadingDecimal(s string) decimal.Decimal {
	prefix := numericPrefix(s, true)
	if prefix == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// numericPrefix returns the longest prefix of s (after leading whitespace)
// that reads as a decimal literal: sign, digits, optional fraction and,
// when allowExp is set, an exponent.
func numericPrefix(s string, allowExp bool) string {
	s = strings.TrimLeft(s, " \t\r\n\f\v")
	i := scanSign(s, 0)
	intEnd := scanDigits(s, i)
	end := intEnd

	if end < len(s) && s[end] == '.' {
		fracEnd := scanDigits(s, end+1)
		if fracEnd > end+1 {
			end = fracEnd
		}
	}
	if end == i {
		return ""
	}

	if allowExp && end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		j := scanSign(s, end+1)
		expEnd := scanDigits(s, j)
		if expEnd > j {
			end = expEnd
		}
	}
	return s[:end]
}

func scanSign(s string, i int) int {
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		return i + 1
	}
	return i
}

func scanDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
