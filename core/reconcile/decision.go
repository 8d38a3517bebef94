package reconcile

import (
	"context"
	"database/sql"

	"crdb-admin/core/database"
)

// Decision is the outcome of comparing desired state against a live
// snapshot: whether anything must change and the exact statements that
// would make it so, in execution order.
type Decision struct {
	Changed    bool     `json:"changed"`
	Statements []string `json:"statements,omitempty"`
}

// Append records a statement and marks the decision as changed.
func (d *Decision) Append(stmt string) {
	d.Changed = true
	d.Statements = append(d.Statements, stmt)
}

// Merge folds another decision into this one, preserving order.
func (d *Decision) Merge(other Decision) {
	if other.Changed {
		d.Changed = true
	}
	d.Statements = append(d.Statements, other.Statements...)
}

// Execer is the statement executor Apply needs; *sql.DB and *sql.Tx
// both satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Apply executes the decision's statements in order and returns the
// ones actually executed. In check mode nothing runs and the returned
// slice is empty: a statement only counts as executed when the cluster
// accepted it.
func Apply(ctx context.Context, db Execer, d Decision, checkMode bool) ([]string, error) {
	if checkMode || !d.Changed {
		return nil, nil
	}

	executed := make([]string, 0, len(d.Statements))
	for _, stmt := range d.Statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return executed, database.Categorize(err)
		}
		executed = append(executed, stmt)
	}
	return executed, nil
}
