package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"filesorter/internal/domain"
	"filesorter/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// migrations[i] upgrades a database at version i to i+1.
var migrations = []string{schemaSQL}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var (
	ErrSchemaMismatch = errors.New("history schema version mismatch")
	ErrRunNotFound    = errors.New("run not found")
	ErrAlreadyUndone  = errors.New("run already undone")
)

type Run struct {
	ID         string
	Folder     string
	Recursive  bool
	Mode       domain.Mode
	Locale     domain.Locale
	StartedAt  time.Time
	FinishedAt time.Time
	Moved      int
	Errors     int
	Skipped    int
	Unchanged  int
	UndoneAt   time.Time
}

func (run Run) Finished() bool {
	return !run.FinishedAt.IsZero()
}

func (run Run) Undone() bool {
	return !run.UndoneAt.IsZero()
}

type Move struct {
	ID          int64
	RunID       string
	Source      string
	Destination string
	MovedAt     time.Time
}

// Store persists runs and moves in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

// migrate brings the database up to len(migrations), tracking progress in
// SQLite's user_version header field.
func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read history version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("%w: database is at version %d, newest known is %d (delete %s to reset history)",
			ErrSchemaMismatch, version, len(migrations), s.path)
	}
	for ; version < len(migrations); version++ {
		if err := s.step(ctx, version); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) step(ctx context.Context, from int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, migrations[from]); err != nil {
		return fmt.Errorf("migrate history to version %d: %w", from+1, err)
	}
	// PRAGMA statements take no bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", from+1)); err != nil {
		return fmt.Errorf("set history version %d: %w", from+1, err)
	}
	return tx.Commit()
}

func (s *Store) BeginRun(ctx context.Context, run services.RunInfo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, folder, recursive, mode, locale, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Folder, boolToInt(run.Recursive), string(run.Mode), string(run.Locale), formatTime(run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *Store) RecordMove(ctx context.Context, runID string, outcome services.MoveOutcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO moves (run_id, source, destination, moved_at) VALUES (?, ?, ?, ?)`,
		runID, outcome.Source, outcome.Destination, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert move: %w", err)
	}
	return nil
}

func (s *Store) FinishRun(ctx context.Context, summary services.Summary) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, moved = ?, errors = ?, skipped = ?, unchanged = ? WHERE id = ?`,
		formatTime(time.Now()), summary.Moved, summary.Errors, summary.Skipped, summary.Unchanged, summary.RunID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, summary.RunID)
	}
	return nil
}

// ListRuns returns the newest runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// LatestUndoable returns the newest finished run that has not been undone.
func (s *Store) LatestUndoable(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs
         WHERE finished_at IS NOT NULL AND undone_at IS NULL AND moved > 0
         ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: nothing to undo", ErrRunNotFound)
	}
	return run, err
}

func (s *Store) Moves(ctx context.Context, runID string) ([]Move, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, source, destination, moved_at FROM moves WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var move Move
		var movedAt string
		if err := rows.Scan(&move.ID, &move.RunID, &move.Source, &move.Destination, &movedAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		move.MovedAt = parseTime(movedAt)
		moves = append(moves, move)
	}
	return moves, rows.Err()
}

func (s *Store) MarkUndone(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET undone_at = ? WHERE id = ? AND undone_at IS NULL`, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("mark run undone: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyUndone, id)
	}
	return nil
}

const runColumns = `id, folder, recursive, mode, locale, started_at, finished_at, moved, errors, skipped, unchanged, undone_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		recursive  int
		mode       string
		locale     string
		startedAt  string
		finishedAt sql.NullString
		undoneAt   sql.NullString
	)
	err := row.Scan(&run.ID, &run.Folder, &recursive, &mode, &locale, &startedAt, &finishedAt,
		&run.Moved, &run.Errors, &run.Skipped, &run.Unchanged, &undoneAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Recursive = recursive != 0
	run.Mode = domain.Mode(mode)
	run.Locale = domain.Locale(locale)
	run.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = parseTime(finishedAt.String)
	}
	if undoneAt.Valid {
		run.UndoneAt = parseTime(undoneAt.String)
	}
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
