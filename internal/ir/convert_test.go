package ir

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAsInt64(t *testing.T) {
	for _, v := range []any{int(7), int8(7), int16(7), int32(7), int64(7), IRInt(7), uint(7), uint8(7), uint16(7), uint32(7), uint64(7)} {
		n, ok := AsInt64(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, int64(7), n, "%T", v)
	}

	_, ok := AsInt64(7.0)
	assert.False(t, ok)
	_, ok = AsInt64("7")
	assert.False(t, ok)
}

func TestAsFloat64(t *testing.T) {
	tests := []struct {
		v    any
		want float64
	}{
		{3, 3},
		{float32(0.5), 0.5},
		{2.25, 2.25},
		{IRFloat(-1), -1},
		{IRInt(4), 4},
		{decimal.RequireFromString("1.5"), 1.5},
	}
	for _, tt := range tests {
		got, ok := AsFloat64(tt.v)
		assert.True(t, ok, "%T", tt.v)
		assert.Equal(t, tt.want, got, "%T", tt.v)
	}

	_, ok := AsFloat64("1.5")
	assert.False(t, ok)
}

func TestAsDecimal(t *testing.T) {
	d, ok := AsDecimal(12)
	assert.True(t, ok)
	assert.Equal(t, "12", d.String())

	d, ok = AsDecimal(NewIRDecimal(decimal.RequireFromString("30.33")))
	assert.True(t, ok)
	assert.Equal(t, "30.33", d.String())

	d, ok = AsDecimal(0.25)
	assert.True(t, ok)
	assert.Equal(t, "0.25", d.String())

	_, ok = AsDecimal(math.NaN())
	assert.False(t, ok)
	_, ok = AsDecimal((*decimal.Decimal)(nil))
	assert.False(t, ok)
	_, ok = AsDecimal("1")
	assert.False(t, ok)
}

func TestAsTime(t *testing.T) {
	day := time.Date(2011, time.January, 20, 0, 0, 0, 0, time.UTC)

	got, ok := AsTime(day)
	assert.True(t, ok)
	assert.Equal(t, day, got)

	got, ok = AsTime(&day)
	assert.True(t, ok)
	assert.Equal(t, day, got)

	got, ok = AsTime(NewIRDate(day))
	assert.True(t, ok)
	assert.Equal(t, day, got)

	_, ok = AsTime((*time.Time)(nil))
	assert.False(t, ok)
	_, ok = AsTime("20/01/2011")
	assert.False(t, ok)
}
