package privilege

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/utils"
)

// snapshot read outcome. An empty result and a failed read are
// different things: empty means "no grants", failed means "unknown".
type readOutcome int

const (
	readOK readOutcome = iota
	readEmpty
	readFailed
)

// Reader reads the current grants on one object, filtered to the roles
// a request cares about.
type Reader struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReader returns a grant snapshot reader.
func NewReader(db *sql.DB, logger *zap.Logger) *Reader {
	return &Reader{db: db, logger: logger}
}

// Read returns the grants the request's roles hold on the request's
// object. SHOW GRANTS is the primary strategy; when it errors or comes
// back empty, information_schema.role_table_grants is consulted for
// relation objects. Both strategies failing yields a read error, never
// an empty snapshot.
func (r *Reader) Read(ctx context.Context, req Request) (Snapshot, error) {
	snap, outcome := r.showGrants(ctx, req)
	if outcome == readOK {
		return snap, nil
	}

	fallback, fbOutcome := r.infoSchemaGrants(ctx, req)
	switch {
	case fbOutcome == readOK:
		return fallback, nil
	case outcome == readEmpty || fbOutcome == readEmpty:
		// At least one strategy answered; the object simply has no
		// grants for these roles.
		return Snapshot{}, nil
	default:
		return nil, database.NewError(database.CategoryRead,
			fmt.Sprintf("failed to read grants on %s: both SHOW GRANTS and information_schema failed", req.ObjectRef()))
	}
}

func (r *Reader) showGrants(ctx context.Context, req Request) (Snapshot, readOutcome) {
	query := "SHOW GRANTS ON " + req.ObjectRef()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Debug("SHOW GRANTS failed, trying information_schema",
			zap.String("object", req.ObjectRef()), zap.Error(err))
		return nil, readFailed
	}
	defer rows.Close()

	return r.collect(rows, req.Roles)
}

// infoSchemaGrants is the fallback for relation objects. Other object
// kinds have no information_schema grants table, so the fallback
// reports a failed read for them.
func (r *Reader) infoSchemaGrants(ctx context.Context, req Request) (Snapshot, readOutcome) {
	switch req.ObjectType {
	case ObjectTable, ObjectView, ObjectSequence:
	default:
		return nil, readFailed
	}

	schema := req.Schema
	if schema == "" {
		schema = "public"
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT grantee, privilege_type, is_grantable FROM information_schema.role_table_grants WHERE table_schema = $1 AND table_name = $2",
		schema, req.ObjectName)
	if err != nil {
		r.logger.Debug("information_schema fallback failed",
			zap.String("object", req.ObjectRef()), zap.Error(err))
		return nil, readFailed
	}
	defer rows.Close()

	return r.collect(rows, req.Roles)
}

// collect normalizes every row into (role, grant) pairs and unions them
// into a snapshot, keeping only the requested roles.
func (r *Reader) collect(rows *sql.Rows, roles []string) (Snapshot, readOutcome) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, readFailed
	}

	wanted := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		wanted[role] = struct{}{}
	}

	snap := Snapshot{}
	holders := make([]any, len(cols))
	for i := range holders {
		holders[i] = new(any)
	}

	for rows.Next() {
		if err := rows.Scan(holders...); err != nil {
			return nil, readFailed
		}
		values := make([]any, len(cols))
		for i, h := range holders {
			values[i] = *(h.(*any))
		}

		role, grant, ok := normalizeGrantRow(cols, values)
		if !ok {
			continue
		}
		if _, want := wanted[role]; !want {
			continue
		}
		snap.add(role, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, readFailed
	}

	if len(snap) == 0 {
		return snap, readEmpty
	}
	return snap, readOK
}

// normalizeGrantRow extracts (role, grant) from one grants row. Known
// column names win; otherwise position heuristics cover the row shapes
// the cluster produces:
//
//	6 columns: database_name, schema_name, relation_name, grantee, privilege_type, is_grantable
//	5 columns: database_name, schema_name, grantee, privilege_type, is_grantable
//	4 columns: database_name, grantee, privilege_type, is_grantable
//	3 columns: name, grantee, privilege_type (no grantable column)
func normalizeGrantRow(cols []string, values []any) (string, Grant, bool) {
	byName := map[string]any{}
	for i, c := range cols {
		byName[strings.ToLower(c)] = values[i]
	}

	if g, ok := byName["grantee"]; ok {
		if p, ok := byName["privilege_type"]; ok {
			grantable := false
			if v, ok := byName["is_grantable"]; ok {
				grantable = utils.ToBool(v)
			}
			return rowString(g), Grant{Privilege: strings.ToUpper(rowString(p)), Grantable: grantable}, rowString(g) != ""
		}
	}

	switch {
	case len(values) >= 6:
		return rowString(values[3]), Grant{
			Privilege: strings.ToUpper(rowString(values[4])),
			Grantable: utils.ToBool(values[5]),
		}, true
	case len(values) == 5:
		return rowString(values[2]), Grant{
			Privilege: strings.ToUpper(rowString(values[3])),
			Grantable: utils.ToBool(values[4]),
		}, true
	case len(values) == 4:
		return rowString(values[1]), Grant{
			Privilege: strings.ToUpper(rowString(values[2])),
			Grantable: utils.ToBool(values[3]),
		}, true
	case len(values) == 3:
		return rowString(values[1]), Grant{
			Privilege: strings.ToUpper(rowString(values[2])),
		}, true
	}
	return "", Grant{}, false
}

func rowString(v any) string {
	return strings.TrimSpace(utils.ToString(v))
}
