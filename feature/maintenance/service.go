package maintenance

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/utils"
)

// Request drives one maintenance operation.
type Request struct {
	// Operation is gc_ttl, node_status, cancel_query or cancel_session.
	Operation string `json:"operation"`
	// Target names the database or table for gc_ttl.
	Target string `json:"target,omitempty"`
	// TTLSeconds is the desired garbage collection TTL.
	TTLSeconds int `json:"ttl_seconds,omitempty"`
	// ID is the query or session id to cancel.
	ID string `json:"id,omitempty"`
}

// NodeStatus is one row of node liveness info.
type NodeStatus struct {
	ID      int64  `json:"id"`
	Address string `json:"address"`
	Build   string `json:"build"`
	Live    bool   `json:"is_live"`
}

// Result is the module payload.
type Result struct {
	Changed bool         `json:"changed"`
	Queries []string     `json:"queries"`
	TTL     int          `json:"ttl_seconds,omitempty"`
	Nodes   []NodeStatus `json:"nodes,omitempty"`
}

// Service runs cluster maintenance operations.
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService returns a maintenance service.
func NewService(db *sql.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Run dispatches the requested operation.
func (s *Service) Run(ctx context.Context, req Request, checkMode bool) (*Result, error) {
	switch req.Operation {
	case "gc_ttl":
		return s.gcTTL(ctx, req, checkMode)
	case "node_status":
		return s.nodeStatus(ctx)
	case "cancel_query":
		return s.cancel(ctx, "QUERY", req.ID, checkMode)
	case "cancel_session":
		return s.cancel(ctx, "SESSION", req.ID, checkMode)
	default:
		return nil, fmt.Errorf("unknown maintenance operation %q", req.Operation)
	}
}

var gcTTLPattern = regexp.MustCompile(`gc\.ttlseconds\s*=\s*(\d+)`)

// gcTTL converges the garbage collection TTL of a database or table by
// diffing against the current zone configuration.
func (s *Service) gcTTL(ctx context.Context, req Request, checkMode bool) (*Result, error) {
	if !database.ValidIdentifier(req.Target) {
		return nil, database.NewError(database.CategorySyntax,
			fmt.Sprintf("invalid gc_ttl target %q", req.Target))
	}
	if req.TTLSeconds <= 0 {
		return nil, fmt.Errorf("ttl_seconds must be positive, got %d", req.TTLSeconds)
	}

	var raw string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT raw_config_sql FROM [SHOW ZONE CONFIGURATION FOR TABLE %s]", req.Target)).Scan(&raw)
	if err != nil {
		return nil, database.Categorize(err)
	}

	current := 0
	if m := gcTTLPattern.FindStringSubmatch(raw); m != nil {
		current, _ = strconv.Atoi(m[1])
	}

	result := &Result{Queries: []string{}, TTL: current}
	if current == req.TTLSeconds {
		return result, nil
	}

	stmt := fmt.Sprintf("ALTER TABLE %s CONFIGURE ZONE USING gc.ttlseconds = %d",
		req.Target, req.TTLSeconds)
	result.Changed = true
	result.Queries = append(result.Queries, stmt)
	if checkMode {
		result.Changed = false
		return result, nil
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return nil, database.Categorize(err)
	}
	result.TTL = req.TTLSeconds
	return result, nil
}

func (s *Service) nodeStatus(ctx context.Context) (*Result, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT node_id, address, build_tag, is_live FROM crdb_internal.gossip_nodes")
	if err != nil {
		return nil, database.Categorize(err)
	}
	defer rows.Close()

	result := &Result{Queries: []string{}}
	for rows.Next() {
		var (
			id             int64
			address, build string
			live           any
		)
		if err := rows.Scan(&id, &address, &build, &live); err != nil {
			return nil, database.Categorize(err)
		}
		result.Nodes = append(result.Nodes, NodeStatus{
			ID: id, Address: address, Build: build, Live: utils.ToBool(live),
		})
	}
	return result, rows.Err()
}

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

func (s *Service) cancel(ctx context.Context, kind, id string, checkMode bool) (*Result, error) {
	if !idPattern.MatchString(id) {
		return nil, database.NewError(database.CategorySyntax,
			fmt.Sprintf("invalid %s id %q", kind, id))
	}

	stmt := fmt.Sprintf("CANCEL %s '%s'", kind, id)
	result := &Result{Changed: true, Queries: []string{stmt}}
	if checkMode {
		result.Changed = false
		return result, nil
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return nil, database.Categorize(err)
	}
	return result, nil
}
