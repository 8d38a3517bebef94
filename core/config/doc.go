// Package config loads the toolkit configuration from the environment
// via viper, with defaults declared as struct tags on the subsystem
// config types.
package config
