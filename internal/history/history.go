// Package history persists one row per merge job so past runs can be
// inspected after the fact. Storage is SQLite; a nil *Store disables
// recording without branching at call sites.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale databases are rejected rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Job kinds.
const (
	KindPreview = "preview"
	KindFinal   = "final"
)

// Job outcomes.
const (
	OutcomeRunning   = "running"
	OutcomeSucceeded = "succeeded"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Job is one recorded merge run.
type Job struct {
	ID              int64
	Kind            string
	Inputs          []string
	OutputPath      string
	Codec           string
	Outcome         string
	Message         string
	ErrorText       string
	StartedAt       time.Time
	FinishedAt      time.Time
	DurationSeconds float64
}

// Finished reports whether the job reached a terminal outcome.
func (j Job) Finished() bool {
	return j.Outcome != OutcomeRunning
}

// Store manages merge history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history: database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("history: check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("history: read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("history: create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("history: record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit schema: %w", err)
	}
	return nil
}

// RecordStart inserts a running job row and returns its id. A nil store
// records nothing and returns id 0.
func (s *Store) RecordStart(ctx context.Context, kind string, inputs []string, outputPath, codec string) (int64, error) {
	if s == nil {
		return 0, nil
	}
	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return 0, fmt.Errorf("history: marshal inputs: %w", err)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(ctx,
		`INSERT INTO merge_jobs (kind, inputs_json, output_path, codec, outcome, started_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		kind, string(inputsJSON), nullableString(outputPath), nullableString(codec), OutcomeRunning, timestamp)
	if err != nil {
		return 0, fmt.Errorf("history: insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: last insert id: %w", err)
	}
	return id, nil
}

// RecordOutcome finalizes a job row with its terminal outcome. The duration
// is derived from the recorded start time. A nil store or zero id is a
// no-op.
func (s *Store) RecordOutcome(ctx context.Context, id int64, outcome, message, errorText string) error {
	if s == nil || id == 0 {
		return nil
	}
	var startedAt string
	err := s.db.QueryRowContext(ctx, "SELECT started_at FROM merge_jobs WHERE id = ?", id).Scan(&startedAt)
	if err != nil {
		return fmt.Errorf("history: load job %d: %w", id, err)
	}

	finished := time.Now().UTC()
	duration := 0.0
	if started, parseErr := time.Parse(time.RFC3339Nano, startedAt); parseErr == nil {
		duration = finished.Sub(started).Seconds()
		if duration < 0 {
			duration = 0
		}
	}

	return s.execWithoutResultRetry(ctx,
		`UPDATE merge_jobs
         SET outcome = ?, message = ?, error = ?, finished_at = ?, duration_seconds = ?
         WHERE id = ?`,
		outcome, nullableString(message), nullableString(errorText),
		finished.Format(time.RFC3339Nano), duration, id)
}

// Recent returns the newest jobs, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Job, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, inputs_json, output_path, codec, outcome, message, error,
                started_at, finished_at, duration_seconds
         FROM merge_jobs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	jobs := make([]Job, 0, limit)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate rows: %w", err)
	}
	return jobs, nil
}

// GetByID loads a single job row.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, inputs_json, output_path, codec, outcome, message, error,
                started_at, finished_at, duration_seconds
         FROM merge_jobs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("history: query job %d: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("history: iterate rows: %w", err)
		}
		return nil, nil
	}
	job, err := scanJob(rows)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func scanJob(rows *sql.Rows) (Job, error) {
	var (
		job        Job
		inputsJSON string
		outputPath sql.NullString
		codec      sql.NullString
		message    sql.NullString
		errorText  sql.NullString
		startedAt  string
		finishedAt sql.NullString
	)
	if err := rows.Scan(&job.ID, &job.Kind, &inputsJSON, &outputPath, &codec,
		&job.Outcome, &message, &errorText, &startedAt, &finishedAt,
		&job.DurationSeconds); err != nil {
		return Job{}, fmt.Errorf("history: scan job: %w", err)
	}
	if err := json.Unmarshal([]byte(inputsJSON), &job.Inputs); err != nil {
		return Job{}, fmt.Errorf("history: decode inputs for job %d: %w", job.ID, err)
	}
	job.OutputPath = outputPath.String
	job.Codec = codec.String
	job.Message = message.String
	job.ErrorText = errorText.String
	if parsed, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		job.StartedAt = parsed
	}
	if finishedAt.Valid {
		if parsed, err := time.Parse(time.RFC3339Nano, finishedAt.String); err == nil {
			job.FinishedAt = parsed
		}
	}
	return job, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
