package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
)

// Existence checks against the cluster catalog. All of them take the
// shared *sql.DB so module services and their sqlmock tests use the
// same code path.

// DatabaseExists reports whether a database with the given name exists.
func DatabaseExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	return existsQuery(ctx, db, "SELECT 1 FROM pg_database WHERE datname = $1", name)
}

// RoleExists reports whether a role (user) with the given name exists.
func RoleExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	return existsQuery(ctx, db, "SELECT 1 FROM pg_roles WHERE rolname = $1", name)
}

// TableExists reports whether a base table exists in the given schema.
func TableExists(ctx context.Context, db *sql.DB, schema, name string) (bool, error) {
	return existsQuery(ctx, db,
		"SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2 AND table_type = 'BASE TABLE'",
		schema, name)
}

// ViewExists reports whether a view exists in the given schema.
func ViewExists(ctx context.Context, db *sql.DB, schema, name string) (bool, error) {
	return existsQuery(ctx, db,
		"SELECT 1 FROM information_schema.views WHERE table_schema = $1 AND table_name = $2",
		schema, name)
}

// SequenceExists reports whether a sequence exists in the given schema.
func SequenceExists(ctx context.Context, db *sql.DB, schema, name string) (bool, error) {
	return existsQuery(ctx, db,
		"SELECT 1 FROM information_schema.sequences WHERE sequence_schema = $1 AND sequence_name = $2",
		schema, name)
}

// SchemaExists reports whether a schema exists in the current database.
func SchemaExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	return existsQuery(ctx, db,
		"SELECT 1 FROM information_schema.schemata WHERE schema_name = $1", name)
}

// IndexExists reports whether an index with the given name exists on
// the table. SHOW INDEXES cannot take a placeholder for the table, so
// the identifier is validated before interpolation.
func IndexExists(ctx context.Context, db *sql.DB, table, index string) (bool, error) {
	if !ValidIdentifier(table) {
		return false, NewError(CategorySyntax, fmt.Sprintf("invalid table name %q", table))
	}
	query := fmt.Sprintf("SELECT 1 FROM [SHOW INDEXES FROM %s] WHERE index_name = $1", table)
	return existsQuery(ctx, db, query, index)
}

func existsQuery(ctx context.Context, db *sql.DB, query string, args ...any) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, Categorize(err)
	}
	return true, nil
}

var versionPattern = regexp.MustCompile(`CockroachDB\s+CCL\s+v?([\d.]+\d)|CockroachDB\s+v?([\d.]+\d)`)

// Version returns the full version banner and the parsed version number
// of the connected cluster.
func Version(ctx context.Context, db *sql.DB) (full, number string, err error) {
	if err = db.QueryRowContext(ctx, "SELECT version()").Scan(&full); err != nil {
		return "", "", Categorize(err)
	}
	if m := versionPattern.FindStringSubmatch(full); m != nil {
		if m[1] != "" {
			number = m[1]
		} else {
			number = m[2]
		}
	}
	return full, number, nil
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// ValidIdentifier reports whether s is a safe SQL identifier, optionally
// schema-qualified. Used before interpolating names into statements
// that cannot take placeholders (DDL, SHOW).
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// QuoteLiteral renders s as a single-quoted SQL string literal.
func QuoteLiteral(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}
