package character

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// MaxMagnitude bounds every coerced integer to [-MaxMagnitude, MaxMagnitude]
// so sums of sheet values cannot overflow.
const MaxMagnitude = 1_000_000_000

// Int coerces a loosely typed record value to an integer.
//
// Missing values, non-numeric strings and unsupported types become 0.
// Strings are read like a leading-integer parse, so "12abc" is 12 and
// "3.9" is 3. Floats truncate toward zero. Results saturate at
// MaxMagnitude.
func Int(value any) int {
	return bound(rawInt(value))
}

func bound(n int) int {
	if n > MaxMagnitude {
		return MaxMagnitude
	}
	if n < -MaxMagnitude {
		return -MaxMagnitude
	}
	return n
}

func rawInt(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(min(v, MaxMagnitude))
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(min(v, MaxMagnitude))
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(max(min(n, MaxMagnitude), -MaxMagnitude))
		}
		if f, err := v.Float64(); err == nil {
			return floatToInt(f)
		}
		return 0
	case string:
		return leadingInt(v)
	default:
		return 0
	}
}

func floatToInt(value float64) int {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return int(math.Trunc(math.Max(math.Min(value, MaxMagnitude), -MaxMagnitude)))
}

func leadingInt(value string) int {
	s := strings.TrimSpace(value)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			if s[0] == '-' {
				return -MaxMagnitude
			}
			return MaxMagnitude
		}
		return 0
	}
	return n
}

// String coerces a record value to a string, returning fallback when the
// value is missing.
func String(value any, fallback string) string {
	switch v := value.(type) {
	case nil:
		return fallback
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fallback
	}
}

// Bool coerces a record value to a boolean. Only true, "true" and non-zero
// numbers are truthy.
func Bool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	case nil:
		return false
	default:
		return Int(v) != 0
	}
}
