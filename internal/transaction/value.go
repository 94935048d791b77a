package transaction

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"ari/moneyworks-cli/internal/dateutils"
	"ari/moneyworks-cli/internal/mwerror"

	"github.com/shopspring/decimal"
)

// Value is a field value already rendered in wire form. The zero Value is an
// empty string; use Null for a value the server should work out itself.
type Value struct {
	text string
	null bool
}

// Null asks the server to compute the field (work-it-out="true").
func Null() Value {
	return Value{null: true}
}

// Date renders t as YYYYMMDD. The time of day is dropped.
func Date(t time.Time) Value {
	return Value{text: dateutils.FormatDate(t)}
}

func String(s string) Value {
	return Value{text: s}
}

func Int(i int64) Value {
	return Value{text: strconv.FormatInt(i, 10)}
}

func Uint(u uint64) Value {
	return Value{text: strconv.FormatUint(u, 10)}
}

// Float renders f in shortest round-trip form. Integral values keep a
// trailing ".0" so 2.0 is not confused with the integer 2.
func Float(f float64) Value {
	return Value{text: formatFloat(f)}
}

// Decimal renders an exact amount, e.g. 199.95.
func Decimal(d decimal.Decimal) Value {
	return Value{text: d.String()}
}

func Bool(b bool) Value {
	return Value{text: strconv.FormatBool(b)}
}

// IsNull reports whether the value is the work-it-out marker.
func (v Value) IsNull() bool {
	return v.null
}

// String returns the wire text. It is empty for Null.
func (v Value) String() string {
	return v.text
}

// ValueOf maps a dynamically typed value onto a Value. It is the entry point
// for loaders that decode into interface{} (YAML documents, CLI flags).
// Unsupported kinds fail with *mwerror.InvalidArgumentError.
func ValueOf(key string, v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case time.Time:
		return Date(x), nil
	case *time.Time:
		if x == nil {
			return Null(), nil
		}
		return Date(*x), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Uint(uint64(x)), nil
	case uint8:
		return Uint(uint64(x)), nil
	case uint16:
		return Uint(uint64(x)), nil
	case uint32:
		return Uint(uint64(x)), nil
	case uint64:
		return Uint(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case decimal.Decimal:
		return Decimal(x), nil
	case *decimal.Decimal:
		if x == nil {
			return Null(), nil
		}
		return Decimal(*x), nil
	case fmt.Stringer:
		if isNilPointer(x) {
			return Null(), nil
		}
		return String(x.String()), nil
	}
	return Value{}, &mwerror.InvalidArgumentError{
		Key:    key,
		Reason: fmt.Sprintf("unsupported value type %T", v),
	}
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
