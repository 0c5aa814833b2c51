package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSpecial(t *testing.T) {
	tests := map[string]bool{
		"hello=":    false,
		"=hello":    true,
		"!=hello":   true,
		"~hello":    true,
		"!~hello":   true,
		">hello":    true,
		"<hello":    true,
		"<=hello":   true,
		">=hello":   true,
		"^hello":    true,
		"hello$":    true,
		"hel..lo":   true,
		" =hello":   false,
		" !=hello":  false,
		" ~hello":   false,
		" !~hello":  false,
		" >hello":   false,
		" <hello":   false,
		" <=hello":  false,
		" >=hello":  false,
		" ^hello":   false,
		" hello$":   false,
		" hel..lo":  false,
		"\t=hello":  false,
		"hello$ ":   false,
		"":          false,
		"hello":     false,
		"hel.lo":    false,
		"!hello":    true,
		"10":        false,
		"a$b":       false,
		"$":         true,
		"version..": true,
	}

	for param, want := range tests {
		assert.Equal(t, want, IsSpecial(param), "For test param: '%s'", param)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Match
	}{
		{"hello", Match{OpContains, "hello"}},
		{" =hello", Match{OpContains, " =hello"}},
		{"=5", Match{OpEq, "5"}},
		{"!=5", Match{OpNe, "5"}},
		{"<5", Match{OpLt, "5"}},
		{"<=5", Match{OpLe, "5"}},
		{">5", Match{OpGt, "5"}},
		{">=5", Match{OpGe, "5"}},
		{"!abc", Match{OpNotContains, "abc"}},
		{"~^a.c$", Match{OpMatch, "^a.c$"}},
		{"!~a.c", Match{OpNotMatch, "a.c"}},
		{"^he", Match{OpPrefix, "he"}},
		{"^hello$", Match{OpExact, "hello"}},
		{"^$", Match{OpExact, ""}},
		{"lo$", Match{OpSuffix, "lo"}},
		{"hel..lo", Match{OpRegexp, "hel..lo"}},
		{"=a..b", Match{OpEq, "a..b"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw))
		})
	}
}

func TestOperator_String(t *testing.T) {
	assert.Equal(t, "contains", OpContains.String())
	assert.Equal(t, "regexp", OpRegexp.String())
	assert.Equal(t, "unknown", Operator(99).String())
}
