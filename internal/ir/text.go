package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/jqgrid/internal/datefmt"
)

// Text renders a record value in its natural textual form.
//
// Floats always carry a fractional part and never use exponent notation
// ("3.0", "1.1"). Decimals print their exact digits. Dates print through
// dateFormat (datefmt.Default when empty). nil renders as "".
func Text(v any, dateFormat string) string {
	if dateFormat == "" {
		dateFormat = datefmt.Default
	}

	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case IRString:
		return string(val)
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case IRInt:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return formatFloat(float64(val), 32)
	case float64:
		return formatFloat(val, 64)
	case IRFloat:
		return formatFloat(float64(val), 64)
	case decimal.Decimal:
		return val.String()
	case *decimal.Decimal:
		if val == nil {
			return ""
		}
		return val.String()
	case IRDecimal:
		return val.Decimal.String()
	case time.Time:
		return datefmt.Format(dateFormat, val)
	case *time.Time:
		if val == nil {
			return ""
		}
		return datefmt.Format(dateFormat, *val)
	case IRDate:
		return datefmt.Format(dateFormat, val.Time)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bitSize int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
