package database

// Config holds configuration for the CockroachDB connection.
type Config struct {
	// Host is the cluster host address.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the SQL port of the cluster.
	Port int `mapstructure:"port" default:"26257"`
	// User is the SQL user.
	User string `mapstructure:"user" default:"root"`
	// Password is the SQL user password.
	Password string `mapstructure:"password" default:""`
	// Name is the database to connect to.
	Name string `mapstructure:"name" default:"defaultdb"`
	// SSLMode is the TLS mode (disable, allow, prefer, require, verify-ca, verify-full).
	SSLMode string `mapstructure:"ssl_mode" default:"verify-full"`
	// SSLCert is the path to the client certificate file.
	SSLCert string `mapstructure:"ssl_cert" default:""`
	// SSLKey is the path to the client private key file.
	SSLKey string `mapstructure:"ssl_key" default:""`
	// SSLRootCert is the path to the CA certificate file.
	SSLRootCert string `mapstructure:"ssl_root_cert" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
