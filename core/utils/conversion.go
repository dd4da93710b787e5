package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ToString renders a decoded record scalar as text. Nil becomes "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToFloat converts a decoded record scalar to float64.
// Numbers written as text are parsed; anything else yields 0.
func ToFloat(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// ToInt converts a decoded record scalar to int, truncating fractions.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		return int(ToFloat(v))
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
		return int(ToFloat(v))
	default:
		return int(ToFloat(v))
	}
}

// ToBool converts a decoded record scalar to bool.
// Extracted records spell flags as true/false, 1/0 or numbers.
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true"
	default:
		return ToFloat(v) != 0
	}
}
