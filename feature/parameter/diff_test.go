package parameter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValuesEqualByType(t *testing.T) {
	tests := []struct {
		name    string
		typ     SettingType
		desired any
		current string
		want    bool
	}{
		{"duration equal", TypeDuration, "90m", "1h30m0s", true},
		{"duration differs", TypeDuration, "5m", "400s", false},
		{"byte size equal", TypeByteSize, "64MiB", "64 MiB", true},
		{"byte size differs", TypeByteSize, "64MiB", "32MiB", false},
		{"byte size no unit conversion", TypeByteSize, "1GiB", "1024MiB", false},
		{"bool true spellings", TypeBoolean, true, "on", true},
		{"bool string desired", TypeBoolean, "yes", "true", true},
		{"bool differs", TypeBoolean, false, "true", false},
		{"integer equal", TypeInteger, 8, "8", true},
		{"integer bool coercion", TypeInteger, true, "1", true},
		{"integer differs", TypeInteger, 8, "9", false},
		{"integer unparsable falls back", TypeInteger, "abc", "abc", true},
		{"float within epsilon", TypeFloat, 0.1, "0.1", true},
		{"float differs", TypeFloat, 0.1, "0.2", false},
		{"string exact", TypeString, "on", "on", true},
		{"unknown type string compare", SettingType(""), "90m", "1h30m0s", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValuesEqual(tt.typ, tt.desired, tt.current))
		})
	}
}

func TestRenderValue(t *testing.T) {
	assert.Equal(t, "true", RenderValue(true))
	assert.Equal(t, "false", RenderValue(false))
	assert.Equal(t, "'64MiB'", RenderValue("64MiB"))
	assert.Equal(t, "'it''s'", RenderValue("it's"))
	assert.Equal(t, "8", RenderValue(int64(8)))
	assert.Equal(t, "0.5", RenderValue(0.5))
}

func TestStatements(t *testing.T) {
	assert.Equal(t, "SET CLUSTER SETTING kv.rangefeed.enabled = true",
		SetStatement(ScopeCluster, "kv.rangefeed.enabled", true))
	assert.Equal(t, "SET application_name = 'batch'",
		SetStatement(ScopeSession, "application_name", "batch"))
	assert.Equal(t, "RESET CLUSTER SETTING kv.rangefeed.enabled",
		ResetStatement(ScopeCluster, "kv.rangefeed.enabled"))
	assert.Equal(t, "RESET application_name",
		ResetStatement(ScopeSession, "application_name"))
	assert.Equal(t, "SHOW CLUSTER SETTING kv.rangefeed.enabled",
		ShowStatement(ScopeCluster, "kv.rangefeed.enabled"))
}

func TestProfilesMerge(t *testing.T) {
	custom := map[string]Profile{
		"edge":  {"kv.closed_timestamp.target_duration": "200ms"},
		"oltp":  {"sql.defaults.distsql": "auto"},
	}
	all := Profiles(custom)

	assert.Contains(t, all, "oltp")
	assert.Contains(t, all, "olap")
	assert.Contains(t, all, "edge")
	// Custom profiles shadow built-ins of the same name.
	assert.Equal(t, "auto", all["oltp"]["sql.defaults.distsql"])
	// The built-in map itself stays untouched.
	assert.Equal(t, "on", builtinProfiles["oltp"]["sql.defaults.distsql"])
}

func TestResolveParametersExplicitWins(t *testing.T) {
	resolved, err := ResolveParameters("oltp", nil, map[string]any{
		"kv.closed_timestamp.target_duration": "2s",
	})
	assert.NoError(t, err)
	assert.Equal(t, "2s", resolved["kv.closed_timestamp.target_duration"])
	assert.Equal(t, "on", resolved["sql.defaults.distsql"])
}

func TestResolveParametersUnknownProfile(t *testing.T) {
	_, err := ResolveParameters("warp_speed", nil, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "warp_speed")
	assert.Contains(t, err.Error(), "oltp")
}
