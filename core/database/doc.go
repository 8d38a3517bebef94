// Package database provides the CockroachDB connection, catalog
// existence checks, and categorized error handling shared by all
// modules. CockroachDB speaks the PostgreSQL wire protocol, so the
// connection is built on database/sql with the lib/pq driver.
package database
