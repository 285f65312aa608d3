package flow

import (
	"math"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// Count converts a payload into the number of items it represents.
//
//   - nil and the empty string count as 0
//   - a Counter reports itself
//   - integers, and floats with an integral value, count as their value,
//     clamped to [0, math.MaxInt]
//   - slices, arrays, maps and cty collections count their elements
//   - any other value counts as 1
func Count(payload any) int {
	switch v := payload.(type) {
	case nil:
		return 0
	case Counter:
		return max(v.Count(), 0)
	case string:
		if v == "" {
			return 0
		}
		return 1
	case cty.Value:
		return countCty(v)
	}

	rv := reflect.ValueOf(payload)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return 0
		}
		return 1
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return clampInt64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u < math.MaxInt {
			return int(u)
		}
		return math.MaxInt
	case reflect.Float32, reflect.Float64:
		return countFloat(rv.Float())
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return 0
		}
		return rv.Len()
	case reflect.Array:
		return rv.Len()
	default:
		return 1
	}
}

func countCty(v cty.Value) int {
	if v.IsNull() || !v.IsKnown() {
		return 0
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		if v.AsString() == "" {
			return 0
		}
		return 1
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			// Int64 saturates outside the int64 range.
			i, _ := bf.Int64()
			return clampInt64(i)
		}
		return 1
	case ty.IsListType(), ty.IsSetType(), ty.IsMapType(), ty.IsTupleType():
		return v.LengthInt()
	case ty.IsObjectType():
		return len(ty.AttributeTypes())
	default:
		return 1
	}
}

func clampInt64(i int64) int {
	switch {
	case i <= 0:
		return 0
	case i >= math.MaxInt:
		return math.MaxInt
	default:
		return int(i)
	}
}

// countFloat counts integral floats as their clamped value; fractions,
// NaN and infinities count as 1.
func countFloat(f float64) int {
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return 1
	}
	switch {
	case f <= 0:
		return 0
	case f >= float64(math.MaxInt):
		return math.MaxInt
	default:
		return int(f)
	}
}
