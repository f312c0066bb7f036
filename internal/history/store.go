// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records past analyses in a SQLite database so results can
// be listed, revisited and exported.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citecheck/pkg/types"
)

const (
	dbFile       = "history.db"
	defaultLimit = 20

	// timeLayout is fixed-width so created_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned by Get when no run has the requested ID.
var ErrNotFound = errors.New("history run not found")

// Run is one recorded analysis.
type Run struct {
	ID        string        `json:"id" yaml:"id"`
	Document  string        `json:"document" yaml:"document"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	Summary   types.Summary `json:"summary" yaml:"summary"`

	// Report is populated by Get and the exporters; List leaves it empty.
	Report *types.Report `json:"report,omitempty" yaml:"report,omitempty"`
}

// NewRun wraps a report for saving.
func NewRun(document string, report types.Report) Run {
	return Run{
		Document: document,
		Summary:  report.Summary,
		Report:   &report,
	}
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates dir/history.db and its schema.
func Open(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			created_at TEXT NOT NULL,
			status TEXT NOT NULL,
			status_message TEXT,
			total_errors INTEGER,
			total_missing INTEGER,
			total_uncited INTEGER,
			report TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores run, assigning an ID and timestamp when they are unset.
func (s *Store) Save(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	report := types.Report{Summary: run.Summary}
	if run.Report != nil {
		report = *run.Report
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, document, created_at, status, status_message,
			total_errors, total_missing, total_uncited, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Document, run.CreatedAt.UTC().Format(timeLayout),
		string(run.Summary.OverallStatus), run.Summary.StatusMessage,
		run.Summary.TotalErrors, run.Summary.TotalMissing, run.Summary.TotalUncited,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return nil
}

// List returns up to limit runs, newest first, without their reports.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, created_at, status, status_message,
			total_errors, total_missing, total_uncited
		 FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows, false)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run with the given ID, including its report.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, document, created_at, status, status_message,
			total_errors, total_missing, total_uncited, report
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner, withReport bool) (Run, error) {
	var (
		run        Run
		createdAt  string
		status     string
		message    sql.NullString
		reportJSON string
	)
	dest := []any{
		&run.ID, &run.Document, &createdAt, &status, &message,
		&run.Summary.TotalErrors, &run.Summary.TotalMissing, &run.Summary.TotalUncited,
	}
	if withReport {
		dest = append(dest, &reportJSON)
	}
	if err := sc.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing timestamp of run %s: %w", run.ID, err)
	}
	run.CreatedAt = t
	run.Summary.OverallStatus = types.OverallStatus(status)
	run.Summary.StatusMessage = message.String

	if withReport {
		var report types.Report
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			return Run{}, fmt.Errorf("decoding report of run %s: %w", run.ID, err)
		}
		run.Report = &report
	}
	return run, nil
}
