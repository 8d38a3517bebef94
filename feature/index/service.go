package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/reconcile"
)

// Request asks for an index to exist (or not) on a table.
type Request struct {
	Name    string   `json:"name"`
	Table   string   `json:"table"`
	State   string   `json:"state"` // present or absent
	Columns []string `json:"columns,omitempty"`
	Unique  bool     `json:"unique,omitempty"`
	Storing []string `json:"storing,omitempty"`
	Where   string   `json:"where,omitempty"`
}

// Result is the module payload.
type Result struct {
	Changed bool     `json:"changed"`
	Queries []string `json:"queries"`
	Exists  bool     `json:"exists"`
}

// Service reconciles secondary indexes.
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService returns an index service.
func NewService(db *sql.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Reconcile creates or drops the index as needed. Existence is probed
// via SHOW INDEXES, so the table must exist either way.
func (s *Service) Reconcile(ctx context.Context, req Request, checkMode bool) (*Result, error) {
	if !database.ValidIdentifier(req.Name) || !database.ValidIdentifier(req.Table) {
		return nil, database.NewError(database.CategorySyntax,
			fmt.Sprintf("invalid index reference %s ON %s", req.Name, req.Table))
	}
	for _, col := range append(append([]string{}, req.Columns...), req.Storing...) {
		if !database.ValidIdentifier(col) {
			return nil, database.NewError(database.CategorySyntax,
				fmt.Sprintf("invalid column name %q", col))
		}
	}
	if req.State != "present" && req.State != "absent" {
		return nil, fmt.Errorf("state must be present or absent, got %q", req.State)
	}
	if req.State == "present" && len(req.Columns) == 0 {
		return nil, fmt.Errorf("columns are required to create index %s", req.Name)
	}

	exists, err := database.IndexExists(ctx, s.db, req.Table, req.Name)
	if err != nil {
		return nil, err
	}

	var decision reconcile.Decision
	switch req.State {
	case "present":
		if !exists {
			decision.Append(createStatement(req))
		}
	case "absent":
		if exists {
			decision.Append(fmt.Sprintf("DROP INDEX %s@%s", req.Table, req.Name))
		}
	}

	if _, err := reconcile.Apply(ctx, s.db, decision, checkMode); err != nil {
		return nil, err
	}

	finalExists := req.State == "present"
	if checkMode {
		finalExists = exists
	}
	return &Result{
		Changed: decision.Changed,
		Queries: decision.Statements,
		Exists:  finalExists,
	}, nil
}

func createStatement(req Request) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if req.Unique {
		b.WriteString("UNIQUE ")
	}
	fmt.Fprintf(&b, "INDEX %s ON %s (%s)", req.Name, req.Table, strings.Join(req.Columns, ", "))
	if len(req.Storing) > 0 {
		fmt.Fprintf(&b, " STORING (%s)", strings.Join(req.Storing, ", "))
	}
	if req.Where != "" {
		fmt.Fprintf(&b, " WHERE %s", req.Where)
	}
	return b.String()
}
