package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/utils"
)

// Request runs one arbitrary statement with positional arguments.
type Request struct {
	Query string `json:"query"`
	Args  []any  `json:"args,omitempty"`
}

// Result is the module payload.
type Result struct {
	Changed      bool             `json:"changed"`
	Queries      []string         `json:"queries"`
	Columns      []string         `json:"columns,omitempty"`
	Rows         []map[string]any `json:"rows,omitempty"`
	RowsAffected int64            `json:"rows_affected"`
}

// Service runs ad-hoc statements, the escape hatch for anything the
// typed modules do not cover.
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService returns a query service.
func NewService(db *sql.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// statements treated as reads: they never mark the result changed.
var readPrefixes = []string{"SELECT", "SHOW", "EXPLAIN", "WITH"}

// Run executes the statement. Reads return rows; writes return the
// affected row count and mark the result changed when anything was
// touched. DDL always counts as a change.
func (s *Service) Run(ctx context.Context, req Request, checkMode bool) (*Result, error) {
	stmt := strings.TrimSpace(req.Query)
	if stmt == "" {
		return nil, fmt.Errorf("query is required")
	}

	result := &Result{Queries: []string{stmt}}

	if isRead(stmt) {
		rows, err := s.db.QueryContext(ctx, stmt, req.Args...)
		if err != nil {
			return nil, database.Categorize(err)
		}
		defer rows.Close()
		if err := collectRows(rows, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	if checkMode {
		// A write in check mode is reported, not run.
		result.Changed = true
		return result, nil
	}

	res, err := s.db.ExecContext(ctx, stmt, req.Args...)
	if err != nil {
		return nil, database.Categorize(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// DDL has no row count; it still changed the cluster.
		result.Changed = true
		return result, nil
	}
	result.RowsAffected = affected
	result.Changed = affected > 0 || isDDL(stmt)
	return result, nil
}

func isRead(stmt string) bool {
	upper := strings.ToUpper(stmt)
	for _, p := range readPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

func isDDL(stmt string) bool {
	upper := strings.ToUpper(stmt)
	for _, p := range []string{"CREATE", "DROP", "ALTER", "TRUNCATE", "GRANT", "REVOKE"} {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

func collectRows(rows *sql.Rows, result *Result) error {
	cols, err := rows.Columns()
	if err != nil {
		return database.Categorize(err)
	}
	result.Columns = cols

	holders := make([]any, len(cols))
	for i := range holders {
		holders[i] = new(any)
	}
	for rows.Next() {
		if err := rows.Scan(holders...); err != nil {
			return database.Categorize(err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			v := *(holders[i].(*any))
			if b, ok := v.([]byte); ok {
				v = utils.ToString(b)
			}
			row[c] = v
		}
		result.Rows = append(result.Rows, row)
	}
	return rows.Err()
}
