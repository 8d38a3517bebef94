package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString renders a scanned SQL value as a string. Drivers hand back
// []byte, string, or typed numerics depending on the column.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// truthy strings accepted by CockroachDB for boolean settings and by
// SHOW GRANTS for the grantable column.
var truthy = map[string]struct{}{
	"true": {}, "t": {}, "yes": {}, "y": {}, "1": {}, "on": {},
}

// ToBool interprets a scanned SQL value as a boolean. Strings use the
// truthy table (true/t/yes/y/1/on, case-insensitive); anything else is
// false.
func ToBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		_, ok := truthy[strings.ToLower(strings.TrimSpace(t))]
		return ok
	case []byte:
		return ToBool(string(t))
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return false
	}
}

// Truthy reports whether s is one of CockroachDB's accepted boolean
// true spellings.
func Truthy(s string) bool {
	_, ok := truthy[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// ToInt interprets a scanned SQL value as an int64. Bools coerce to
// 0/1; unparsable values return ok=false.
func ToInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return int64(f), true
	case []byte:
		return ToInt(string(t))
	default:
		return 0, false
	}
}
