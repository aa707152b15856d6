package abi

import "math"

// CoerceToInt64 handles JSON and YAML decoded numbers and the Go integer types.
// Floats are accepted only when they hold an exact integer.
func CoerceToInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v >= float64(math.MinInt64) && v < float64(math.MaxInt64) && v == math.Trunc(v) {
			return int64(v), true
		}
	case float32:
		f := float64(v)
		if f >= float64(math.MinInt64) && f < float64(math.MaxInt64) && f == math.Trunc(f) {
			return int64(f), true
		}
	}
	return 0, false
}

// CoerceToFloat64 accepts any Go numeric type.
func CoerceToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}
