package ir

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	d := time.Date(2011, time.January, 20, 0, 0, 0, 0, time.UTC)
	dec := decimal.RequireFromString("1.12")

	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{"nil", nil, KindNull},
		{"string", "aa", KindString},
		{"bytes", []byte("aa"), KindString},
		{"int", 42, KindInt},
		{"int32", int32(42), KindInt},
		{"int64", int64(42), KindInt},
		{"uint8", uint8(4), KindInt},
		{"float64", 42.0, KindFloat},
		{"float32", float32(1.5), KindFloat},
		{"decimal", dec, KindDecimal},
		{"decimal pointer", &dec, KindDecimal},
		{"time", d, KindDate},
		{"time pointer", &d, KindDate},
		{"IRString", IRString("x"), KindString},
		{"IRInt", IRInt(1), KindInt},
		{"IRFloat", IRFloat(1), KindFloat},
		{"IRDecimal", NewIRDecimal(dec), KindDecimal},
		{"IRDate", NewIRDate(d), KindDate},
		{"bool", true, KindNull},
		{"struct", struct{}{}, KindNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.value))
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindNull, KindString, KindInt, KindFloat, KindDecimal, KindDate} {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}

	_, ok := ParseKind("money")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestNewIRDate_TruncatesToDay(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	got := NewIRDate(time.Date(2012, time.February, 21, 23, 59, 1, 5, loc))
	assert.Equal(t, time.Date(2012, time.February, 21, 0, 0, 0, 0, time.UTC), got.Time)
}

func TestText(t *testing.T) {
	d := time.Date(2011, time.January, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "aa", "aa"},
		{"int", 10, "10"},
		{"negative int64", int64(-7), "-7"},
		{"uint", uint(7), "7"},
		{"large int no separators", 1234567, "1234567"},
		{"float with fraction", 1.1, "1.1"},
		{"whole float keeps fraction", 3.0, "3.0"},
		{"float32", float32(2.5), "2.5"},
		{"large float no exponent", 1e21, "1000000000000000000000.0"},
		{"small float no exponent", 0.000001, "0.000001"},
		{"decimal", decimal.RequireFromString("30.33"), "30.33"},
		{"date", d, "20/01/2011"},
		{"IRDate", NewIRDate(d), "20/01/2011"},
		{"IRFloat", IRFloat(22.23), "22.23"},
		{"bool", true, "true"},
		{"nan", math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.value, ""))
		})
	}
}

func TestText_UsesDateFormat(t *testing.T) {
	d := time.Date(2012, time.February, 21, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2012-02-21", Text(d, "%Y-%m-%d"))
}

func TestParam(t *testing.T) {
	d := time.Date(2012, time.February, 21, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "a", Param(IRString("a")))
	assert.Equal(t, int64(3), Param(IRInt(3)))
	assert.Equal(t, 3.5, Param(IRFloat(3.5)))
	assert.Equal(t, "3.412", Param(NewIRDecimal(decimal.RequireFromString("3.412"))))
	assert.Equal(t, d, Param(NewIRDate(d)))
	assert.Nil(t, Param(nil))
}
