package table

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/reconcile"
)

// Column is one column definition for CREATE TABLE.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable,omitempty"`
	Default    string `json:"default,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
}

// Partition declares the table's partitioning scheme.
type Partition struct {
	// Kind is hash, list or range.
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`
	// Buckets applies to hash partitioning.
	Buckets int `json:"buckets,omitempty"`
	// Partitions applies to list and range partitioning.
	Partitions []PartitionSpec `json:"partitions,omitempty"`
}

// PartitionSpec is one named list/range partition.
type PartitionSpec struct {
	Name string `json:"name"`
	// Values holds list values, or exactly [from, to] for range.
	Values []string `json:"values"`
}

// Request asks for a table to exist (or not) with the given shape.
type Request struct {
	Name      string     `json:"name"`
	Schema    string     `json:"schema,omitempty"`
	State     string     `json:"state"` // present or absent
	Columns   []Column   `json:"columns,omitempty"`
	Partition *Partition `json:"partition,omitempty"`
}

// Result is the module payload.
type Result struct {
	Changed bool     `json:"changed"`
	Queries []string `json:"queries"`
	Exists  bool     `json:"exists"`
}

// Service reconciles table existence. Shape changes to an existing
// table are out of scope; only create and drop are reconciled.
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService returns a table service.
func NewService(db *sql.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Reconcile creates or drops the table as needed.
func (s *Service) Reconcile(ctx context.Context, req Request, checkMode bool) (*Result, error) {
	if req.Schema == "" {
		req.Schema = "public"
	}
	if !database.ValidIdentifier(req.Name) || !database.ValidIdentifier(req.Schema) {
		return nil, database.NewError(database.CategorySyntax,
			fmt.Sprintf("invalid table name %q.%q", req.Schema, req.Name))
	}
	if req.State != "present" && req.State != "absent" {
		return nil, fmt.Errorf("state must be present or absent, got %q", req.State)
	}

	exists, err := database.TableExists(ctx, s.db, req.Schema, req.Name)
	if err != nil {
		return nil, err
	}

	var decision reconcile.Decision
	switch req.State {
	case "present":
		if !exists {
			stmt, err := createStatement(req)
			if err != nil {
				return nil, err
			}
			decision.Append(stmt)
		}
	case "absent":
		if exists {
			decision.Append(fmt.Sprintf("DROP TABLE %s.%s", req.Schema, req.Name))
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

func createStatement(req Request) (string, error) {
	if len(req.Columns) == 0 {
		return "", fmt.Errorf("columns are required to create table %s", req.Name)
	}

	defs := make([]string, 0, len(req.Columns)+1)
	var pk []string
	for _, col := range req.Columns {
		if !database.ValidIdentifier(col.Name) {
			return "", database.NewError(database.CategorySyntax,
				fmt.Sprintf("invalid column name %q", col.Name))
		}
		def := col.Name + " " + col.Type
		if !col.Nullable {
			def += " NOT NULL"
		}
		if col.Default != "" {
			def += " DEFAULT " + col.Default
		}
		defs = append(defs, def)
		if col.PrimaryKey {
			pk = append(pk, col.Name)
		}
	}
	if len(pk) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	}

	stmt := fmt.Sprintf("CREATE TABLE %s.%s (%s)", req.Schema, req.Name, strings.Join(defs, ", "))

	if req.Partition != nil {
		clause, err := partitionClause(*req.Partition)
		if err != nil {
			return "", err
		}
		stmt += " " + clause
	}
	return stmt, nil
}

func partitionClause(p Partition) (string, error) {
	cols := strings.Join(p.Columns, ", ")
	switch p.Kind {
	case "hash":
		if p.Buckets <= 0 {
			return "", fmt.Errorf("hash partitioning requires a positive bucket count")
		}
		return fmt.Sprintf("PARTITION ALL BY HASH (%s) WITH (bucket_count = %d)", cols, p.Buckets), nil
	case "list":
		parts := make([]string, 0, len(p.Partitions))
		for _, spec := range p.Partitions {
			parts = append(parts, fmt.Sprintf("PARTITION %s VALUES IN (%s)",
				spec.Name, strings.Join(spec.Values, ", ")))
		}
		return fmt.Sprintf("PARTITION BY LIST (%s) (%s)", cols, strings.Join(parts, ", ")), nil
	case "range":
		parts := make([]string, 0, len(p.Partitions))
		for _, spec := range p.Partitions {
			if len(spec.Values) != 2 {
				return "", fmt.Errorf("range partition %s needs exactly [from, to]", spec.Name)
			}
			parts = append(parts, fmt.Sprintf("PARTITION %s VALUES FROM (%s) TO (%s)",
				spec.Name, spec.Values[0], spec.Values[1]))
		}
		return fmt.Sprintf("PARTITION BY RANGE (%s) (%s)", cols, strings.Join(parts, ", ")), nil
	default:
		return "", fmt.Errorf("unknown partition kind %q", p.Kind)
	}
}
