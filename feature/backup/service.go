package backup

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crdb-admin/core/database"
	"crdb-admin/core/storage"
	"crdb-admin/core/utils"
)

// Request drives one backup, restore or list operation.
type Request struct {
	// Operation is backup, restore or list.
	Operation string `json:"operation"`
	// URI is the destination (backup) or source (restore, list).
	URI string `json:"uri"`
	// Databases and Tables select what to back up or restore; both
	// empty means a full cluster backup.
	Databases []string `json:"databases,omitempty"`
	Tables    []string `json:"tables,omitempty"`
	// AsOfSystemTime backs up at a historical timestamp.
	AsOfSystemTime string `json:"as_of_system_time,omitempty"`
	// IncrementalFrom lists prior backup URIs for an incremental backup.
	IncrementalFrom []string `json:"incremental_from,omitempty"`
	// KMSURI encrypts the backup with a KMS-managed key.
	KMSURI string `json:"kms_uri,omitempty"`
	// EncryptionPassphrase encrypts the backup with a passphrase.
	EncryptionPassphrase string `json:"encryption_passphrase,omitempty"`
	// Detached runs the job in the background; the result carries its id.
	Detached bool `json:"detached,omitempty"`
	// UniqueSubPath appends a timestamp+id sub-path so repeated runs
	// never collide.
	UniqueSubPath bool `json:"unique_sub_path,omitempty"`
	// VerifyDestination checks the s3 bucket exists before backing up.
	VerifyDestination bool `json:"verify_destination,omitempty"`
}

// Result is the module payload.
type Result struct {
	Changed bool     `json:"changed"`
	Queries []string `json:"queries"`
	// Destination is the redacted URI actually used.
	Destination string `json:"destination,omitempty"`
	// JobID is set for detached operations.
	JobID int64 `json:"job_id,omitempty"`
	// Backups lists paths found by the list operation.
	Backups []string `json:"backups,omitempty"`
}

// Service runs backup, restore and list operations.
type Service struct {
	db     *sql.DB
	store  storage.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewService returns a backup service. store may be nil when
// destination verification is not configured.
func NewService(db *sql.DB, store storage.Client, logger *zap.Logger) *Service {
	return &Service{db: db, store: store, logger: logger, now: time.Now}
}

// Run dispatches the requested operation.
func (s *Service) Run(ctx context.Context, req Request, checkMode bool) (*Result, error) {
	dest, err := ParseDestination(req.URI)
	if err != nil {
		return nil, err
	}

	switch req.Operation {
	case "backup":
		return s.backup(ctx, req, dest, checkMode)
	case "restore":
		return s.restore(ctx, req, dest, checkMode)
	case "list":
		return s.list(ctx, dest)
	default:
		return nil, fmt.Errorf("operation must be backup, restore or list, got %q", req.Operation)
	}
}

func (s *Service) backup(ctx context.Context, req Request, dest *Destination, checkMode bool) (*Result, error) {
	if req.VerifyDestination && dest.Scheme == "s3" {
		if s.store == nil {
			return nil, fmt.Errorf("destination verification requested but storage is not configured")
		}
		ok, err := s.store.BucketExists(ctx, dest.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to verify destination bucket: %w", err)
		}
		if !ok {
			return nil, database.NewError(database.CategoryNotFound,
				fmt.Sprintf("destination bucket %q does not exist", dest.Bucket))
		}
	}

	if req.UniqueSubPath {
		sub := fmt.Sprintf("backup-%s-%s",
			s.now().UTC().Format("20060102T150405"), uuid.NewString()[:8])
		dest = dest.WithSubPath(sub)
	}

	stmt := s.backupStatement(req, dest)
	result := &Result{
		Changed:     true,
		Queries:     []string{redactStatement(stmt, dest)},
		Destination: dest.String(),
	}
	if checkMode {
		result.Changed = false
		return result, nil
	}

	if req.Detached {
		var jobID int64
		if err := s.db.QueryRowContext(ctx, stmt).Scan(&jobID); err != nil {
			return nil, database.Categorize(err)
		}
		result.JobID = jobID
		return result, nil
	}

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return nil, database.Categorize(err)
	}
	return result, nil
}

func (s *Service) backupStatement(req Request, dest *Destination) string {
	var b strings.Builder
	b.WriteString("BACKUP")
	if target := targetClause(req); target != "" {
		b.WriteString(" " + target)
	}
	fmt.Fprintf(&b, " INTO '%s'", dest.URI())
	if req.AsOfSystemTime != "" {
		fmt.Fprintf(&b, " AS OF SYSTEM TIME '%s'", req.AsOfSystemTime)
	}
	if len(req.IncrementalFrom) > 0 {
		quoted := make([]string, len(req.IncrementalFrom))
		for i, u := range req.IncrementalFrom {
			quoted[i] = "'" + u + "'"
		}
		fmt.Fprintf(&b, " INCREMENTAL FROM %s", strings.Join(quoted, ", "))
	}

	var with []string
	if req.KMSURI != "" {
		with = append(with, fmt.Sprintf("kms = '%s'", req.KMSURI))
	}
	if req.EncryptionPassphrase != "" {
		with = append(with, fmt.Sprintf("encryption_passphrase = %s",
			database.QuoteLiteral(req.EncryptionPassphrase)))
	}
	if req.Detached {
		with = append(with, "detached")
	}
	if len(with) > 0 {
		fmt.Fprintf(&b, " WITH %s", strings.Join(with, ", "))
	}
	return b.String()
}

// restore is idempotent on the target: when every requested database or
// table already exists, nothing runs and changed stays false.
func (s *Service) restore(ctx context.Context, req Request, dest *Destination, checkMode bool) (*Result, error) {
	allExist, err := s.restoreTargetsExist(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &Result{Queries: []string{}, Destination: dest.String()}
	if allExist {
		return result, nil
	}

	var b strings.Builder
	b.WriteString("RESTORE")
	if target := targetClause(req); target != "" {
		b.WriteString(" " + target)
	}
	fmt.Fprintf(&b, " FROM LATEST IN '%s'", dest.URI())
	var with []string
	if req.EncryptionPassphrase != "" {
		with = append(with, fmt.Sprintf("encryption_passphrase = %s",
			database.QuoteLiteral(req.EncryptionPassphrase)))
	}
	if req.Detached {
		with = append(with, "detached")
	}
	if len(with) > 0 {
		fmt.Fprintf(&b, " WITH %s", strings.Join(with, ", "))
	}
	stmt := b.String()

	result.Changed = true
	result.Queries = append(result.Queries, redactStatement(stmt, dest))
	if checkMode {
		result.Changed = false
		return result, nil
	}

	if req.Detached {
		var jobID int64
		if err := s.db.QueryRowContext(ctx, stmt).Scan(&jobID); err != nil {
			return nil, database.Categorize(err)
		}
		result.JobID = jobID
		return result, nil
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return nil, database.Categorize(err)
	}
	return result, nil
}

func (s *Service) restoreTargetsExist(ctx context.Context, req Request) (bool, error) {
	if len(req.Databases) == 0 && len(req.Tables) == 0 {
		// Full cluster restore only works into an empty cluster; let
		// the cluster decide.
		return false, nil
	}
	for _, name := range req.Databases {
		exists, err := database.DatabaseExists(ctx, s.db, name)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
	}
	for _, ref := range req.Tables {
		schema, name := "public", ref
		if parts := strings.SplitN(ref, ".", 2); len(parts) == 2 {
			schema, name = parts[0], parts[1]
		}
		exists, err := database.TableExists(ctx, s.db, schema, name)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}

func (s *Service) list(ctx context.Context, dest *Destination) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SHOW BACKUPS IN '%s'", dest.URI()))
	if err != nil {
		return nil, database.Categorize(err)
	}
	defer rows.Close()

	result := &Result{Queries: []string{}, Destination: dest.String()}
	for rows.Next() {
		var path any
		if err := rows.Scan(&path); err != nil {
			return nil, database.Categorize(err)
		}
		result.Backups = append(result.Backups, utils.ToString(path))
	}
	if err := rows.Err(); err != nil {
		return nil, database.Categorize(err)
	}
	return result, nil
}

func targetClause(req Request) string {
	switch {
	case len(req.Databases) > 0:
		return "DATABASE " + strings.Join(req.Databases, ", ")
	case len(req.Tables) > 0:
		return "TABLE " + strings.Join(req.Tables, ", ")
	default:
		return ""
	}
}

// redactStatement swaps the raw destination for its redacted form so
// reported queries never leak credentials.
func redactStatement(stmt string, dest *Destination) string {
	return strings.ReplaceAll(stmt, dest.URI(), dest.String())
}
