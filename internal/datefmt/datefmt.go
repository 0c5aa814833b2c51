// Package datefmt formats and parses calendar dates with strftime-style patterns.
//
// A single pattern (for example "%d/%m/%Y") drives both directions: grid
// cells are printed with it and filter text is parsed with it. Parsing
// follows strptime leniency for unpadded numbers ("18/7/2011") but never
// guesses: input that does not fully satisfy the pattern is an error.
// %Y requires a four-digit year, so "20/1/11" does not parse with the
// default pattern; use %y for two-digit years.
package datefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Default is the pattern used when no date format is configured.
const Default = "%d/%m/%Y"

// parseLayouts maps strftime directives to Go layout chunks used for parsing.
// Numeric chunks are the unpadded variants so both "7" and "07" are accepted.
var parseLayouts = map[byte]string{
	'd': "2",
	'e': "_2",
	'm': "1",
	'Y': "2006",
	'y': "06",
	'b': "Jan",
	'h': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'H': "15",
	'I': "3",
	'M': "4",
	'S': "5",
	'p': "PM",
	'j': "__2",
}

// Format renders t with the strftime pattern.
func Format(pattern string, t time.Time) string {
	return strftime.Format(pattern, t)
}

// Parse reads value according to the strftime pattern.
// The result is a date at midnight UTC.
func Parse(pattern, value string) (time.Time, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q with %q: %w", value, pattern, err)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// Validate reports whether pattern can be used for parsing.
func Validate(pattern string) error {
	_, err := Layout(pattern)
	return err
}

// Layout translates a strftime pattern into a lenient Go parse layout.
//
// Literal letters, digits and underscores are rejected because Go layouts
// have no escaping and would read them as layout tokens.
func Layout(pattern string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("empty date pattern")
	}

	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			if isLayoutRune(c) {
				return "", fmt.Errorf("date pattern %q: literal %q is not supported", pattern, c)
			}
			b.WriteByte(c)
			continue
		}

		i++
		if i >= len(pattern) {
			return "", fmt.Errorf("date pattern %q: trailing %%", pattern)
		}
		d := pattern[i]
		if d == '%' {
			b.WriteByte('%')
			continue
		}
		chunk, ok := parseLayouts[d]
		if !ok {
			return "", fmt.Errorf("date pattern %q: unsupported directive %%%c", pattern, d)
		}
		b.WriteString(chunk)
	}
	return b.String(), nil
}

func isLayoutRune(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
