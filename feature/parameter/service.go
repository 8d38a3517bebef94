package parameter

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/utils"
)

// Request is one parameter reconciliation request.
type Request struct {
	// Parameters maps setting name to desired value; nil means RESET.
	Parameters map[string]any `json:"parameters,omitempty"`
	// Profile names a built-in or custom profile to apply; explicit
	// Parameters override the profile's values.
	Profile string `json:"profile,omitempty"`
	// CustomProfiles are caller-defined profiles, shadowing built-ins.
	CustomProfiles map[string]Profile `json:"custom_profiles,omitempty"`
	// Scope is cluster (default) or session.
	Scope Scope `json:"scope,omitempty"`
	// ResetAll resets every setting in scope to its default.
	ResetAll bool `json:"reset_all,omitempty"`
}

// Result is the module payload.
type Result struct {
	Changed    bool           `json:"changed"`
	Queries    []string       `json:"queries"`
	Parameters map[string]any `json:"parameters"`
	Reset      []string       `json:"reset,omitempty"`
	Profile    string         `json:"profile,omitempty"`
}

// Service reconciles cluster settings and session variables.
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService returns a parameter service.
func NewService(db *sql.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Reconcile evaluates each desired setting against SHOW output and
// issues SET/RESET only for real differences. Settings are processed in
// sorted name order so runs are deterministic. An unknown setting fails
// the whole invocation.
func (s *Service) Reconcile(ctx context.Context, req Request, checkMode bool) (*Result, error) {
	if req.Scope == "" {
		req.Scope = ScopeCluster
	}
	if req.ResetAll && (req.Profile != "" || len(req.Parameters) > 0) {
		return nil, fmt.Errorf("reset_all excludes parameters and profile")
	}
	if !req.ResetAll && req.Profile == "" && len(req.Parameters) == 0 {
		return nil, fmt.Errorf("one of parameters, profile or reset_all is required")
	}

	result := &Result{
		Parameters: map[string]any{},
		Queries:    []string{},
		Profile:    req.Profile,
	}

	if req.ResetAll {
		return s.resetAll(ctx, req.Scope, result, checkMode)
	}

	desired, err := ResolveParameters(req.Profile, req.CustomProfiles, req.Parameters)
	if err != nil {
		return nil, err
	}

	var types map[string]SettingType
	if req.Scope == ScopeCluster {
		types = SettingTypes(ctx, s.db, s.logger)
	}

	names := make([]string, 0, len(desired))
	for name := range desired {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !ValidSettingName(name) {
			return nil, database.NewError(database.CategorySyntax,
				fmt.Sprintf("invalid setting name %q", name))
		}

		value := desired[name]
		if value == nil {
			stmt := ResetStatement(req.Scope, name)
			if !checkMode {
				if _, err := s.db.ExecContext(ctx, stmt); err != nil {
					return nil, database.Categorize(err)
				}
			}
			result.Changed = true
			result.Queries = append(result.Queries, stmt)
			result.Reset = append(result.Reset, name)
			continue
		}

		current, err := s.show(ctx, req.Scope, name)
		if err != nil {
			return nil, err
		}

		if ValuesEqual(types[name], value, current) {
			continue
		}

		stmt := SetStatement(req.Scope, name, value)
		if !checkMode {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return nil, database.Categorize(err)
			}
		}
		result.Changed = true
		result.Queries = append(result.Queries, stmt)
		result.Parameters[name] = value
	}

	return result, nil
}

func (s *Service) show(ctx context.Context, scope Scope, name string) (string, error) {
	var raw any
	if err := s.db.QueryRowContext(ctx, ShowStatement(scope, name)).Scan(&raw); err != nil {
		err = database.Categorize(err)
		if database.IsUnknownSetting(err) || database.IsNotFound(err) {
			return "", database.NewError(database.CategoryUnknownSetting,
				fmt.Sprintf("unknown setting %q", name))
		}
		return "", err
	}
	return utils.ToString(raw), nil
}

// resetAll resets everything in scope. The cluster has no single
// statement for it, so every non-default setting is reset one by one.
func (s *Service) resetAll(ctx context.Context, scope Scope, result *Result, checkMode bool) (*Result, error) {
	if scope == ScopeSession {
		stmt := "RESET ALL"
		if !checkMode {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return nil, database.Categorize(err)
			}
		}
		result.Changed = true
		result.Queries = append(result.Queries, stmt)
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT variable FROM crdb_internal.cluster_settings WHERE value != default_value")
	if err != nil {
		return nil, database.Categorize(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, database.Categorize(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Categorize(err)
	}
	sort.Strings(names)

	for _, name := range names {
		stmt := ResetStatement(scope, name)
		if !checkMode {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return nil, database.Categorize(err)
			}
		}
		result.Changed = true
		result.Queries = append(result.Queries, stmt)
		result.Reset = append(result.Reset, name)
	}
	return result, nil
}
