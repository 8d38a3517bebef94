package privilege

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/reconcile"
)

// Service reconciles privileges on one object for a set of roles.
type Service struct {
	db     *sql.DB
	reader *Reader
	logger *zap.Logger
}

// NewService returns a privilege service.
func NewService(db *sql.DB, logger *zap.Logger) *Service {
	return &Service{db: db, reader: NewReader(db, logger), logger: logger}
}

// Result is the module payload.
type Result struct {
	Changed bool               `json:"changed"`
	Queries []string           `json:"queries"`
	Grants  map[string][]Grant `json:"grants"`
}

// Reconcile drives one privilege request. In check mode the decision is
// evaluated but nothing executes; Changed still reports whether a
// change would be made.
func (s *Service) Reconcile(ctx context.Context, req Request, checkMode bool) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	// Column-level privileges parse but cannot be reconciled reliably:
	// the snapshot readers report them inconsistently across versions.
	// Reject before touching the cluster.
	for _, p := range req.Privileges {
		if columnQualified(p) {
			return nil, database.NewError(database.CategoryUnsupported,
				fmt.Sprintf("column-level privilege %q is not supported", p))
		}
	}

	if err := s.checkRolesExist(ctx, req.Roles); err != nil {
		return nil, err
	}
	if err := s.checkObjectExists(ctx, req); err != nil {
		return nil, err
	}

	snap, err := s.reader.Read(ctx, req)
	if err != nil {
		return nil, err
	}

	// Schema grants can be served stale through the general read path;
	// re-read right before deciding so the decision sees current state.
	if req.ObjectType == ObjectSchema {
		if snap, err = s.reader.Read(ctx, req); err != nil {
			return nil, err
		}
	}

	decision := Decide(req, snap)

	executed, err := reconcile.Apply(ctx, s.db, decision, checkMode)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Changed: decision.Changed,
		Queries: decision.Statements,
		Grants:  snap,
	}
	if len(executed) > 0 {
		// Report the state after the change, not the stale snapshot.
		after, err := s.reader.Read(ctx, req)
		if err != nil {
			return nil, err
		}
		result.Grants = after
	}
	if result.Grants == nil {
		result.Grants = Snapshot{}
	}
	return result, nil
}

func (s *Service) checkRolesExist(ctx context.Context, roles []string) error {
	for _, role := range roles {
		exists, err := database.RoleExists(ctx, s.db, role)
		if err != nil {
			return err
		}
		if !exists {
			return database.NewError(database.CategoryNotFound,
				fmt.Sprintf("role %q does not exist", role))
		}
	}
	return nil
}

func (s *Service) checkObjectExists(ctx context.Context, req Request) error {
	schema := req.Schema
	if schema == "" {
		schema = "public"
	}

	var (
		exists bool
		err    error
	)
	switch req.ObjectType {
	case ObjectDatabase:
		exists, err = database.DatabaseExists(ctx, s.db, req.ObjectName)
	case ObjectSchema:
		exists, err = database.SchemaExists(ctx, s.db, req.ObjectName)
	case ObjectTable:
		exists, err = database.TableExists(ctx, s.db, schema, req.ObjectName)
	case ObjectView:
		exists, err = database.ViewExists(ctx, s.db, schema, req.ObjectName)
	case ObjectSequence:
		exists, err = database.SequenceExists(ctx, s.db, schema, req.ObjectName)
	default:
		// Types and functions have no cheap catalog probe here; let the
		// grant read surface a NotFound instead.
		return nil
	}
	if err != nil {
		return err
	}
	if !exists {
		return database.NewError(database.CategoryNotFound,
			fmt.Sprintf("%s %q does not exist", req.ObjectType, req.ObjectName))
	}
	return nil
}
