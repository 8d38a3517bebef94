package server

// Config holds configuration for the HTTP facade.
type Config struct {
	// Port the facade listens on.
	Port int `mapstructure:"port" default:"8080"`
	// APIKey protects the facade endpoints. Empty disables the check,
	// for local use only.
	APIKey string `mapstructure:"api_key" default:""`
}
