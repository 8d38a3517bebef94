package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/reconcile"
	"crdb-admin/feature/privilege"
)

// Request asks for a role to exist (or not) with login, password and
// database-privilege shorthand ("db:priv1,priv2").
type Request struct {
	Name     string `json:"name"`
	State    string `json:"state"` // present or absent
	Login    bool   `json:"login,omitempty"`
	Password string `json:"password,omitempty"`
	Priv     string `json:"priv,omitempty"`
}

// Result is the module payload.
type Result struct {
	Changed bool     `json:"changed"`
	Queries []string `json:"queries"`
	Exists  bool     `json:"exists"`
}

// Service reconciles roles.
type Service struct {
	db     *sql.DB
	reader *privilege.Reader
	logger *zap.Logger
}

// NewService returns a user service.
func NewService(db *sql.DB, logger *zap.Logger) *Service {
	return &Service{db: db, reader: privilege.NewReader(db, logger), logger: logger}
}

// Reconcile creates or drops the role and converges the shorthand
// database grants.
func (s *Service) Reconcile(ctx context.Context, req Request, checkMode bool) (*Result, error) {
	if !database.ValidIdentifier(req.Name) {
		return nil, database.NewError(database.CategorySyntax,
			fmt.Sprintf("invalid role name %q", req.Name))
	}
	if req.State != "present" && req.State != "absent" {
		return nil, fmt.Errorf("state must be present or absent, got %q", req.State)
	}

	exists, err := database.RoleExists(ctx, s.db, req.Name)
	if err != nil {
		return nil, err
	}

	var decision reconcile.Decision
	switch req.State {
	case "present":
		if !exists {
			decision.Append(createRoleStatement(req))
		}
		if req.Priv != "" {
			grant, err := s.grantDecision(ctx, req, exists)
			if err != nil {
				return nil, err
			}
			decision.Merge(grant)
		}
	case "absent":
		if exists {
			decision.Append("DROP ROLE " + req.Name)
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

func createRoleStatement(req Request) string {
	stmt := "CREATE ROLE " + req.Name
	if req.Login {
		stmt += " LOGIN"
	}
	if req.Password != "" {
		stmt += " PASSWORD " + database.QuoteLiteral(req.Password)
	}
	return stmt
}

// grantDecision converges the "db:priv1,priv2" shorthand through the
// privilege diff engine. A role created in this run has no grants yet,
// so the snapshot read is skipped for it.
func (s *Service) grantDecision(ctx context.Context, req Request, roleExists bool) (reconcile.Decision, error) {
	var decision reconcile.Decision

	dbName, privList, ok := strings.Cut(req.Priv, ":")
	if !ok || dbName == "" || privList == "" {
		return decision, fmt.Errorf("priv must be of the form db:priv1,priv2, got %q", req.Priv)
	}

	privs := strings.Split(privList, ",")
	for i := range privs {
		privs[i] = strings.TrimSpace(privs[i])
	}

	dbExists, err := database.DatabaseExists(ctx, s.db, dbName)
	if err != nil {
		return decision, err
	}
	if !dbExists {
		return decision, database.NewError(database.CategoryNotFound,
			fmt.Sprintf("database %q does not exist", dbName))
	}

	preq := privilege.Request{
		State:      privilege.StateGrant,
		Privileges: privs,
		ObjectType: privilege.ObjectDatabase,
		ObjectName: dbName,
		Roles:      []string{req.Name},
	}

	snap := privilege.Snapshot{}
	if roleExists {
		if snap, err = s.reader.Read(ctx, preq); err != nil {
			return decision, err
		}
	}
	return privilege.Decide(preq, snap), nil
}
