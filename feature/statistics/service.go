package statistics

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/utils"
)

// Request asks for table statistics with a given name over a column
// set to exist.
type Request struct {
	Name    string   `json:"name"`
	Table   string   `json:"table"`
	Columns []string `json:"columns,omitempty"`
	// AsOfSystemTime collects statistics from a historical snapshot,
	// off the hot path.
	AsOfSystemTime string `json:"as_of_system_time,omitempty"`
	// Throttling slows collection, 0..1.
	Throttling float64 `json:"throttling,omitempty"`
	// HistogramBuckets overrides the histogram resolution.
	HistogramBuckets int `json:"histogram_buckets,omitempty"`
}

// Result is the module payload.
type Result struct {
	Changed bool     `json:"changed"`
	Queries []string `json:"queries"`
}

// Service reconciles table statistics.
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService returns a statistics service.
func NewService(db *sql.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Reconcile creates the statistics unless statistics with the same name
// already cover the same column set.
func (s *Service) Reconcile(ctx context.Context, req Request, checkMode bool) (*Result, error) {
	if !database.ValidIdentifier(req.Name) || !database.ValidIdentifier(req.Table) {
		return nil, database.NewError(database.CategorySyntax,
			fmt.Sprintf("invalid statistics reference %s ON %s", req.Name, req.Table))
	}
	if req.Throttling < 0 || req.Throttling > 1 {
		return nil, fmt.Errorf("throttling must be between 0 and 1, got %v", req.Throttling)
	}

	current, err := s.exists(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &Result{Queries: []string{}}
	if current {
		return result, nil
	}

	stmt := createStatement(req)
	result.Changed = true
	result.Queries = append(result.Queries, stmt)
	if checkMode {
		result.Changed = false
		return result, nil
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return nil, database.Categorize(err)
	}
	return result, nil
}

// exists checks SHOW STATISTICS for a statistic of the same name on the
// same column set.
func (s *Service) exists(ctx context.Context, req Request) (bool, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT statistics_name, column_names FROM [SHOW STATISTICS FOR TABLE %s]", req.Table))
	if err != nil {
		return false, database.Categorize(err)
	}
	defer rows.Close()

	want := columnKey(req.Columns)
	for rows.Next() {
		var name, cols any
		if err := rows.Scan(&name, &cols); err != nil {
			return false, database.Categorize(err)
		}
		if utils.ToString(name) != req.Name {
			continue
		}
		if len(req.Columns) == 0 || columnKey(parseColumnList(utils.ToString(cols))) == want {
			return true, nil
		}
	}
	return false, rows.Err()
}

// parseColumnList splits the cluster's "{col1,col2}" rendering.
func parseColumnList(s string) []string {
	s = strings.Trim(strings.TrimSpace(s), "{}")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func columnKey(cols []string) string {
	sorted := append([]string{}, cols...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func createStatement(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE STATISTICS %s", req.Name)
	if len(req.Columns) > 0 {
		fmt.Fprintf(&b, " ON %s", strings.Join(req.Columns, ", "))
	}
	fmt.Fprintf(&b, " FROM %s", req.Table)
	if req.AsOfSystemTime != "" {
		fmt.Fprintf(&b, " AS OF SYSTEM TIME '%s'", req.AsOfSystemTime)
	}

	var with []string
	if req.Throttling > 0 {
		with = append(with, fmt.Sprintf("THROTTLING %g", req.Throttling))
	}
	if req.HistogramBuckets > 0 {
		with = append(with, fmt.Sprintf("HISTOGRAM_BUCKETS %d", req.HistogramBuckets))
	}
	if len(with) > 0 {
		fmt.Fprintf(&b, " WITH OPTIONS %s", strings.Join(with, " "))
	}
	return b.String()
}
