package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"crdb-admin/core/database"
	"crdb-admin/core/logger"
	"crdb-admin/core/server"
	"crdb-admin/core/storage"
)

// Config aggregates the configuration of every subsystem.
type Config struct {
	Server   server.Config   `mapstructure:"server"`
	Database database.Config `mapstructure:"database"`
	Storage  storage.Config  `mapstructure:"storage"`
	Logger   logger.Config   `mapstructure:"logger"`
}

// Load reads configuration from the environment. A .env file, when
// present, overrides the process environment. Defaults come from the
// `default` struct tags; env vars use the upper-cased dotted path with
// dots replaced by underscores (e.g. DATABASE_SSL_MODE).
func Load() (*Config, error) {
	// Missing .env is fine; env vars and defaults still apply.
	_ = godotenv.Overload()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindValues(v, reflect.TypeOf(Config{}), "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// bindValues walks the config struct and registers each leaf field with
// viper, so AutomaticEnv sees it and the default tag applies when no
// env var is set.
func bindValues(v *viper.Viper, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, field.Type, key)
			continue
		}

		if def, ok := field.Tag.Lookup("default"); ok {
			v.SetDefault(key, def)
		}
		// BindEnv makes AutomaticEnv pick the key up even when only
		// the default is set.
		_ = v.BindEnv(key)
	}
}
