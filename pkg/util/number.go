package util

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToNumber coerces a decoded JSON value to a finite float64. Numbers and
// numeric strings are accepted; anything else reports false.
func ToNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToNumberOrNaN is ToNumber with NaN standing in for "not a number"
func ToNumberOrNaN(v interface{}) float64 {
	if f, ok := ToNumber(v); ok {
		return f
	}
	return math.NaN()
}

// ToID coerces v to a positive whole identifier
func ToID(v interface{}) (uint, bool) {
	f, ok := ToNumber(v)
	if !ok || f < 1 || f != math.Trunc(f) || f > math.MaxUint32 {
		return 0, false
	}
	return uint(f), true
}
