package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL wire protocol driver, used for CockroachDB
)

// Connect establishes a connection to a CockroachDB cluster.
// It returns a *sql.DB handle or an error if the connection fails.
func Connect(cfg Config) (*sql.DB, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	db, err := sql.Open("postgres", connectionString(cfg, timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each module invocation performs a handful of sequential statements,
	// so the pool stays small.
	db.SetMaxIdleConns(2)
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cluster: %w", Categorize(err))
	}

	return db, nil
}

// connectionString builds a lib/pq keyword/value DSN.
// The application_name identifies our sessions in SHOW SESSIONS output.
func connectionString(cfg Config, timeout int) string {
	parts := []string{
		fmt.Sprintf("host=%s", cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		fmt.Sprintf("user='%s'", cfg.User),
		fmt.Sprintf("dbname=%s", cfg.Name),
		fmt.Sprintf("connect_timeout=%d", timeout),
		"application_name=crdb-admin",
	}

	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password='%s'", cfg.Password))
	}
	if cfg.SSLMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", cfg.SSLMode))
	}
	if cfg.SSLCert != "" {
		parts = append(parts, fmt.Sprintf("sslcert=%s", cfg.SSLCert))
	}
	if cfg.SSLKey != "" {
		parts = append(parts, fmt.Sprintf("sslkey=%s", cfg.SSLKey))
	}
	if cfg.SSLRootCert != "" {
		parts = append(parts, fmt.Sprintf("sslrootcert=%s", cfg.SSLRootCert))
	}

	return strings.Join(parts, " ")
}
