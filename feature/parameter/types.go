package parameter

import (
	"context"
	"database/sql"
	"regexp"

	"go.uber.org/zap"
)

// SettingType is the cluster's type code for a setting, from
// crdb_internal.cluster_settings.
type SettingType string

const (
	TypeBoolean  SettingType = "b"
	TypeDuration SettingType = "d"
	TypeFloat    SettingType = "f"
	TypeInteger  SettingType = "i"
	TypeByteSize SettingType = "z"
	TypeString   SettingType = "s"
)

// Scope selects cluster-wide settings or session variables.
type Scope string

const (
	ScopeCluster Scope = "cluster"
	ScopeSession Scope = "session"
)

// Byte-size rate settings some versions report as strings; forcing the
// type keeps "64MiB" vs "64 MiB" from flapping.
var forcedByteSize = []string{
	"kv.snapshot_rebalance.max_rate",
	"kv.snapshot_recovery.max_rate",
	"kv.bulk_io_write.max_rate",
}

// SettingTypes reads the cluster's setting type codes. A failed read is
// not fatal: comparisons degrade to string equality, except the forced
// byte-size settings which always keep their type.
func SettingTypes(ctx context.Context, db *sql.DB, logger *zap.Logger) map[string]SettingType {
	types := map[string]SettingType{}

	rows, err := db.QueryContext(ctx,
		"SELECT variable, type FROM crdb_internal.cluster_settings")
	if err != nil {
		logger.Warn("failed to read setting types, falling back to string comparison", zap.Error(err))
	} else {
		defer rows.Close()
		for rows.Next() {
			var name, code string
			if err := rows.Scan(&name, &code); err != nil {
				logger.Warn("failed to scan setting type row", zap.Error(err))
				break
			}
			types[name] = SettingType(code)
		}
		if err := rows.Err(); err != nil {
			logger.Warn("setting type read interrupted", zap.Error(err))
		}
	}

	for _, name := range forcedByteSize {
		types[name] = TypeByteSize
	}
	return types
}

// settingNamePattern validates setting names before they are
// interpolated into SHOW/SET statements, which take no placeholders.
var settingNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9._-]*$`)

// ValidSettingName reports whether name is a safe setting identifier.
func ValidSettingName(name string) bool {
	return settingNamePattern.MatchString(name)
}
