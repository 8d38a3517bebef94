package parameter

import (
	"fmt"
	"sort"
)

// Profile is a named bundle of setting values for a workload shape.
type Profile map[string]any

// builtinProfiles are the shipped workload profiles. Callers never see
// this map directly; Profiles() hands out copies.
var builtinProfiles = map[string]Profile{
	"oltp": {
		"sql.defaults.distsql":                 "on",
		"kv.rangefeed.enabled":                 true,
		"kv.closed_timestamp.target_duration":  "1s",
		"server.time_until_store_dead":         "5m",
	},
	"olap": {
		"sql.defaults.distsql":                 "on",
		"kv.closed_timestamp.target_duration":  "3s",
		"server.time_until_store_dead":         "10m",
	},
	"hybrid": {
		"sql.defaults.distsql":                 "on",
		"kv.rangefeed.enabled":                 true,
		"kv.closed_timestamp.target_duration":  "3s",
		"server.time_until_store_dead":         "7m",
	},
	"low_latency": {
		"sql.defaults.distsql":                 "on",
		"kv.closed_timestamp.target_duration":  "300ms",
		"server.time_until_store_dead":         "1m",
	},
	"high_throughput": {
		"sql.defaults.distsql":             "on",
		"kv.snapshot_rebalance.max_rate":   "64MiB",
		"kv.snapshot_recovery.max_rate":    "64MiB",
	},
	"web_application": {
		"sql.defaults.distsql":       "auto",
		"server.web_session_timeout": "2h",
		"kv.rangefeed.enabled":       true,
	},
	"batch_processing": {
		"sql.defaults.distsql":           "on",
		"kv.snapshot_rebalance.max_rate": "64MiB",
		"kv.bulk_io_write.max_rate":      "512MiB",
	},
}

// Profiles returns the built-in profiles merged with custom ones.
// Custom profiles shadow built-ins of the same name.
func Profiles(custom map[string]Profile) map[string]Profile {
	all := make(map[string]Profile, len(builtinProfiles)+len(custom))
	for name, p := range builtinProfiles {
		cp := make(Profile, len(p))
		for k, v := range p {
			cp[k] = v
		}
		all[name] = cp
	}
	for name, p := range custom {
		all[name] = p
	}
	return all
}

// ResolveParameters combines a profile's settings with explicit
// parameters; explicit values win. An unknown profile name is an
// error naming the available profiles.
func ResolveParameters(profile string, custom map[string]Profile, explicit map[string]any) (map[string]any, error) {
	resolved := map[string]any{}

	if profile != "" {
		all := Profiles(custom)
		p, ok := all[profile]
		if !ok {
			names := make([]string, 0, len(all))
			for n := range all {
				names = append(names, n)
			}
			sort.Strings(names)
			return nil, fmt.Errorf("profile %q not found, available profiles: %v", profile, names)
		}
		for k, v := range p {
			resolved[k] = v
		}
	}

	for k, v := range explicit {
		resolved[k] = v
	}
	return resolved, nil
}
