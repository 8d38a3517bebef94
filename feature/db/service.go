package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/reconcile"
)

// Request asks for a database to exist (or not), optionally owned by a
// specific role.
type Request struct {
	Name  string `json:"name"`
	State string `json:"state"` // present or absent
	Owner string `json:"owner,omitempty"`
}

// Result is the module payload.
type Result struct {
	Changed bool     `json:"changed"`
	Queries []string `json:"queries"`
	Exists  bool     `json:"exists"`
}

// Service reconciles database existence and ownership.
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService returns a db service.
func NewService(db *sql.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Reconcile creates or drops the database as needed.
func (s *Service) Reconcile(ctx context.Context, req Request, checkMode bool) (*Result, error) {
	if !database.ValidIdentifier(req.Name) {
		return nil, database.NewError(database.CategorySyntax,
			fmt.Sprintf("invalid database name %q", req.Name))
	}
	if req.State != "present" && req.State != "absent" {
		return nil, fmt.Errorf("state must be present or absent, got %q", req.State)
	}

	exists, err := database.DatabaseExists(ctx, s.db, req.Name)
	if err != nil {
		return nil, err
	}

	var decision reconcile.Decision
	switch req.State {
	case "present":
		if !exists {
			decision.Append("CREATE DATABASE " + req.Name)
		}
		if req.Owner != "" {
			changed, err := s.ownerDiffers(ctx, req, exists)
			if err != nil {
				return nil, err
			}
			if changed {
				if !database.ValidIdentifier(req.Owner) {
					return nil, database.NewError(database.CategorySyntax,
						fmt.Sprintf("invalid owner %q", req.Owner))
				}
				decision.Append(fmt.Sprintf("ALTER DATABASE %s OWNER TO %s", req.Name, req.Owner))
			}
		}
	case "absent":
		if exists {
			decision.Append("DROP DATABASE " + req.Name)
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

// ownerDiffers checks current ownership. A database being created this
// run always needs the ALTER; the owner role must exist either way.
func (s *Service) ownerDiffers(ctx context.Context, req Request, exists bool) (bool, error) {
	roleExists, err := database.RoleExists(ctx, s.db, req.Owner)
	if err != nil {
		return false, err
	}
	if !roleExists {
		return false, database.NewError(database.CategoryNotFound,
			fmt.Sprintf("role %q does not exist", req.Owner))
	}
	if !exists {
		return true, nil
	}

	var owner string
	err = s.db.QueryRowContext(ctx,
		"SELECT pg_get_userbyid(datdba) FROM pg_database WHERE datname = $1",
		req.Name).Scan(&owner)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, database.Categorize(err)
	}
	return owner != req.Owner, nil
}
