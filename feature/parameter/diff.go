package parameter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"crdb-admin/core/database"
	"crdb-admin/core/utils"
)

// ValuesEqual compares a desired setting value against the value the
// cluster reports, dispatching on the setting's type code. Unknown
// type codes compare as strings.
func ValuesEqual(t SettingType, desired any, current string) bool {
	switch t {
	case TypeByteSize:
		return ByteSizesEqual(utils.ToString(desired), current)
	case TypeDuration:
		return DurationsEqual(utils.ToString(desired), current)
	case TypeBoolean:
		return boolsEqual(desired, current)
	case TypeInteger:
		return integersEqual(desired, current)
	case TypeFloat:
		return floatsEqual(desired, current)
	default:
		return strings.TrimSpace(utils.ToString(desired)) == strings.TrimSpace(current)
	}
}

func boolsEqual(desired any, current string) bool {
	var want bool
	switch v := desired.(type) {
	case bool:
		want = v
	default:
		want = utils.Truthy(utils.ToString(v))
	}
	return want == utils.Truthy(current)
}

// integersEqual coerces bools to 0/1 the way the cluster does; values
// neither side can parse fall back to string equality.
func integersEqual(desired any, current string) bool {
	want, wok := utils.ToInt(desired)
	have, hok := utils.ToInt(current)
	if wok && hok {
		return want == have
	}
	return strings.TrimSpace(utils.ToString(desired)) == strings.TrimSpace(current)
}

func floatsEqual(desired any, current string) bool {
	want, werr := strconv.ParseFloat(strings.TrimSpace(utils.ToString(desired)), 64)
	have, herr := strconv.ParseFloat(strings.TrimSpace(current), 64)
	if werr != nil || herr != nil {
		return strings.TrimSpace(utils.ToString(desired)) == strings.TrimSpace(current)
	}
	epsilon := math.Max(math.Abs(want), math.Abs(have)) * 1e-7
	if epsilon < 1e-7 {
		epsilon = 1e-7
	}
	return math.Abs(want-have) <= epsilon
}

// RenderValue renders a desired value as a SQL literal for SET.
func RenderValue(v any) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case string:
		return database.QuoteLiteral(t)
	default:
		return utils.ToString(v)
	}
}

// SetStatement renders the SET statement for a setting in the scope.
func SetStatement(scope Scope, name string, value any) string {
	if scope == ScopeSession {
		return fmt.Sprintf("SET %s = %s", name, RenderValue(value))
	}
	return fmt.Sprintf("SET CLUSTER SETTING %s = %s", name, RenderValue(value))
}

// ResetStatement renders the RESET statement for a setting.
func ResetStatement(scope Scope, name string) string {
	if scope == ScopeSession {
		return "RESET " + name
	}
	return "RESET CLUSTER SETTING " + name
}

// ShowStatement renders the SHOW statement reading a setting's value.
func ShowStatement(scope Scope, name string) string {
	if scope == ScopeSession {
		return "SHOW " + name
	}
	return "SHOW CLUSTER SETTING " + name
}
