package info

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/utils"
)

// Subset names one gatherable slice of cluster facts.
type Subset string

const (
	SubsetCluster   Subset = "cluster"
	SubsetDatabases Subset = "databases"
	SubsetTables    Subset = "tables"
	SubsetRoles     Subset = "roles"
	SubsetSettings  Subset = "settings"
	SubsetIndexes   Subset = "indexes"
)

var allSubsets = []Subset{
	SubsetCluster, SubsetDatabases, SubsetTables,
	SubsetRoles, SubsetSettings, SubsetIndexes,
}

// Request selects which subsets to gather; empty means all.
type Request struct {
	Gather []Subset `json:"gather,omitempty"`
	// IncludeSizes adds approximate per-table sizes, which costs one
	// SHOW RANGES per table.
	IncludeSizes bool `json:"include_sizes,omitempty"`
}

// Cluster holds version facts.
type Cluster struct {
	Version     string `json:"version"`
	VersionFull string `json:"version_full"`
}

// Table is one table fact row.
type Table struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
	// SizeMiB is approximate, from range sizes; only set when sizes
	// were requested.
	SizeMiB float64 `json:"size_mib,omitempty"`
}

// Role is one role fact row.
type Role struct {
	Name  string `json:"name"`
	Login bool   `json:"login"`
}

// Index is one index fact row.
type Index struct {
	Table  string `json:"table"`
	Name   string `json:"name"`
	Unique bool   `json:"unique"`
}

// Result is the module payload. Info gathering never changes state.
type Result struct {
	Changed   bool              `json:"changed"`
	Cluster   *Cluster          `json:"cluster,omitempty"`
	Databases []string          `json:"databases,omitempty"`
	Tables    []Table           `json:"tables,omitempty"`
	Roles     []Role            `json:"roles,omitempty"`
	Settings  map[string]string `json:"settings,omitempty"`
	Indexes   []Index           `json:"indexes,omitempty"`
}

// Service gathers cluster facts.
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService returns an info service.
func NewService(db *sql.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Gather collects the requested subsets.
func (s *Service) Gather(ctx context.Context, req Request) (*Result, error) {
	subsets := req.Gather
	if len(subsets) == 0 {
		subsets = allSubsets
	}

	result := &Result{}
	for _, subset := range subsets {
		var err error
		switch subset {
		case SubsetCluster:
			err = s.gatherCluster(ctx, result)
		case SubsetDatabases:
			err = s.gatherDatabases(ctx, result)
		case SubsetTables:
			err = s.gatherTables(ctx, result, req.IncludeSizes)
		case SubsetRoles:
			err = s.gatherRoles(ctx, result)
		case SubsetSettings:
			err = s.gatherSettings(ctx, result)
		case SubsetIndexes:
			err = s.gatherIndexes(ctx, result)
		default:
			err = fmt.Errorf("unknown gather subset %q", subset)
		}
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Service) gatherCluster(ctx context.Context, result *Result) error {
	full, number, err := database.Version(ctx, s.db)
	if err != nil {
		return err
	}
	result.Cluster = &Cluster{Version: number, VersionFull: full}
	return nil
}

func (s *Service) gatherDatabases(ctx context.Context, result *Result) error {
	rows, err := s.db.QueryContext(ctx, "SELECT datname FROM pg_database ORDER BY datname")
	if err != nil {
		return database.Categorize(err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return database.Categorize(err)
		}
		result.Databases = append(result.Databases, name)
	}
	return rows.Err()
}

func (s *Service) gatherTables(ctx context.Context, result *Result, includeSizes bool) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT table_schema, table_name FROM information_schema.tables WHERE table_type = 'BASE TABLE' ORDER BY table_schema, table_name")
	if err != nil {
		return database.Categorize(err)
	}
	defer rows.Close()

	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.Schema, &t.Name); err != nil {
			return database.Categorize(err)
		}
		result.Tables = append(result.Tables, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if !includeSizes {
		return nil
	}
	for i, t := range result.Tables {
		size, err := s.tableSizeMiB(ctx, t.Schema+"."+t.Name)
		if err != nil {
			// Size is best effort; a table dropped mid-gather is fine.
			s.logger.Debug("failed to size table", zap.String("table", t.Name), zap.Error(err))
			continue
		}
		result.Tables[i].SizeMiB = size
	}
	return nil
}

func (s *Service) tableSizeMiB(ctx context.Context, ref string) (float64, error) {
	if !database.ValidIdentifier(ref) {
		return 0, database.NewError(database.CategorySyntax,
			fmt.Sprintf("invalid table reference %q", ref))
	}
	var size sql.NullFloat64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT sum(range_size_mb) FROM [SHOW RANGES FROM TABLE %s WITH DETAILS]", ref)).Scan(&size)
	if err != nil {
		return 0, database.Categorize(err)
	}
	return size.Float64, nil
}

func (s *Service) gatherRoles(ctx context.Context, result *Result) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT rolname, rolcanlogin FROM pg_roles ORDER BY rolname")
	if err != nil {
		return database.Categorize(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name  string
			login any
		)
		if err := rows.Scan(&name, &login); err != nil {
			return database.Categorize(err)
		}
		result.Roles = append(result.Roles, Role{Name: name, Login: utils.ToBool(login)})
	}
	return rows.Err()
}

func (s *Service) gatherSettings(ctx context.Context, result *Result) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT variable, value FROM crdb_internal.cluster_settings")
	if err != nil {
		return database.Categorize(err)
	}
	defer rows.Close()

	result.Settings = map[string]string{}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return database.Categorize(err)
		}
		result.Settings[name] = value
	}
	return rows.Err()
}

func (s *Service) gatherIndexes(ctx context.Context, result *Result) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT table_name, index_name, non_unique FROM information_schema.statistics ORDER BY table_name, index_name")
	if err != nil {
		return database.Categorize(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			table, name string
			nonUnique   any
		)
		if err := rows.Scan(&table, &name, &nonUnique); err != nil {
			return database.Categorize(err)
		}
		result.Indexes = append(result.Indexes, Index{
			Table: table, Name: name, Unique: !utils.ToBool(nonUnique),
		})
	}
	return rows.Err()
}
