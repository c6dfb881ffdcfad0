// Package history records check runs so their results can be compared over time.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/doctor/check"
	"github.com/teranos/doctor/errors"
)

// DefaultListLimit is used when List is given a non-positive limit.
const DefaultListLimit = 20

// Run is one recorded check.
type Run struct {
	ID           string    `json:"id" yaml:"id" toml:"id"`
	Source       string    `json:"source" yaml:"source" toml:"source"`
	StartedAt    time.Time `json:"started_at" yaml:"started_at" toml:"started_at"`
	FinishedAt   time.Time `json:"finished_at" yaml:"finished_at" toml:"finished_at"`
	Declarations int       `json:"declarations" yaml:"declarations" toml:"declarations"`
	Files        int       `json:"files" yaml:"files" toml:"files"`
	Messages     int       `json:"messages" yaml:"messages" toml:"messages"`
}

// NewRun builds a run record from a finished check.
// source names where declarations came from: a manifest path or extractor command.
func NewRun(source string, started time.Time, summary check.Summary) Run {
	return Run{
		ID:           uuid.NewString(),
		Source:       source,
		StartedAt:    started.UTC(),
		FinishedAt:   started.Add(summary.Duration).UTC(),
		Declarations: summary.Declarations,
		Files:        summary.Files,
		Messages:     summary.Messages,
	}
}

// Duration is how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists runs in the runs table.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates a store over a migrated database. logger may be nil.
func NewStore(db *sql.DB, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{db: db, logger: logger}
}

// Record inserts run. An empty ID is filled in.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	} else if _, err := uuid.Parse(run.ID); err != nil {
		return errors.Wrapf(errors.ErrInvalidRequest, "run id %q: %v", run.ID, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, started_at, finished_at, declarations, files, messages)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.StartedAt, run.FinishedAt, run.Declarations, run.Files, run.Messages)
	if err != nil {
		return errors.Wrapf(err, "failed to record run %s", run.ID)
	}

	s.logger.Debugw("Recorded run", "id", run.ID, "messages", run.Messages)
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, started_at, finished_at, declarations, files, messages
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.StartedAt, &r.FinishedAt, &r.Declarations, &r.Files, &r.Messages); err != nil {
			return nil, errors.Wrap(err, "failed to scan run")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns the run with the given id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, started_at, finished_at, declarations, files, messages
		FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Source, &r.StartedAt, &r.FinishedAt, &r.Declarations, &r.Files, &r.Messages)
	if err == sql.ErrNoRows {
		return Run{}, errors.NewNotFoundError("run %s", id)
	}
	if err != nil {
		return Run{}, errors.Wrapf(err, "failed to get run %s", id)
	}
	return r, nil
}
