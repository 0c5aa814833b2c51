package filter

import "strings"

// Operator is the match a term value asks for.
type Operator int

const (
	OpContains Operator = iota
	OpNotContains
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpMatch
	OpNotMatch
	OpPrefix
	OpSuffix
	OpExact
	OpRegexp
)

var operatorNames = [...]string{
	OpContains:    "contains",
	OpNotContains: "not-contains",
	OpEq:          "eq",
	OpNe:          "ne",
	OpLt:          "lt",
	OpLe:          "le",
	OpGt:          "gt",
	OpGe:          "ge",
	OpMatch:       "match",
	OpNotMatch:    "not-match",
	OpPrefix:      "prefix",
	OpSuffix:      "suffix",
	OpExact:       "exact",
	OpRegexp:      "regexp",
}

func (op Operator) String() string {
	if op >= 0 && int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return "unknown"
}

// Match is a classified term value.
type Match struct {
	Op      Operator
	Operand string
}

// specialPrefixes is checked in order so two-character operators win.
var specialPrefixes = []struct {
	token string
	op    Operator
}{
	{"!=", OpNe},
	{"!~", OpNotMatch},
	{"<=", OpLe},
	{">=", OpGe},
	{"=", OpEq},
	{"~", OpMatch},
	{"<", OpLt},
	{">", OpGt},
	{"^", OpPrefix},
	{"!", OpNotContains},
}

// IsSpecial reports whether raw encodes its own operator: it starts with
// one of = ! ~ < > ^, ends with $, or contains "..". The check is made on
// raw as given, so leading whitespace makes any value plain and a "$"
// must be the last character.
func IsSpecial(raw string) bool {
	if raw == "" {
		return false
	}
	switch raw[0] {
	case '=', '!', '~', '<', '>', '^':
		return true
	}
	if isSpace(raw[0]) {
		return false
	}
	return strings.HasSuffix(raw, "$") || strings.Contains(raw, "..")
}

// Classify splits raw into an operator and its operand.
// Plain values classify as OpContains with raw as the operand.
func Classify(raw string) Match {
	if !IsSpecial(raw) {
		return Match{Op: OpContains, Operand: raw}
	}

	for _, p := range specialPrefixes {
		if !strings.HasPrefix(raw, p.token) {
			continue
		}
		operand := raw[len(p.token):]
		if p.op == OpPrefix && len(operand) > 0 && strings.HasSuffix(operand, "$") {
			return Match{Op: OpExact, Operand: strings.TrimSuffix(operand, "$")}
		}
		return Match{Op: p.op, Operand: operand}
	}

	if strings.HasSuffix(raw, "$") {
		return Match{Op: OpSuffix, Operand: strings.TrimSuffix(raw, "$")}
	}
	return Match{Op: OpRegexp, Operand: raw}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}
