package storage

// Config holds configuration for the object storage client used to
// verify backup destinations.
type Config struct {
	// Endpoint is the S3-compatible endpoint host[:port].
	Endpoint string `mapstructure:"endpoint" default:""`
	// AccessKey authenticates against the endpoint.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey authenticates against the endpoint.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL toggles TLS for the endpoint connection.
	UseSSL bool `mapstructure:"use_ssl" default:"true"`
	// Region is the bucket region, when the endpoint requires one.
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds each storage call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Enabled reports whether destination verification is configured.
func (c Config) Enabled() bool {
	return c.Endpoint != ""
}
