// Package history keeps a local log of finished runs in SQLite so the
// CLI can show what ran, when, and how it ended.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/joss/codecell/internal/events"
	"github.com/joss/codecell/internal/logging"
	"github.com/joss/codecell/internal/project"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	window_id   TEXT    NOT NULL,
	language    TEXT    NOT NULL,
	exit_code   INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs (created_at DESC);
`

// Entry is one recorded run.
type Entry struct {
	ID         int64
	WindowID   string
	Language   project.Type
	ExitCode   int
	DurationMs int64
	CreatedAt  time.Time
}

// Stats summarizes the run log.
type Stats struct {
	Total      int
	Failed     int
	ByLanguage map[string]int
}

// Store is a SQLite-backed run log. Safe for concurrent use.
type Store struct {
	db  *sql.DB
	log *logging.Logger
}

// Open opens (or creates) the run log at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db, log: logging.New("history")}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun appends a finished run. Failures are logged, not surfaced:
// a broken history file must never break a run.
func (s *Store) RecordRun(windowID string, lang project.Type, r events.Result) {
	_, err := s.db.Exec(
		`INSERT INTO runs (window_id, language, exit_code, duration_ms, created_at) VALUES (?, ?, ?, ?, ?)`,
		windowID, string(lang), r.ExitCode, r.DurationMs, time.Now().UTC(),
	)
	if err != nil {
		s.log.Warn("record_failed", map[string]any{"window": windowID}, err)
	}
}

// Recent returns the newest entries, up to limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, window_id, language, exit_code, duration_ms, created_at
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var lang string
		if err := rows.Scan(&e.ID, &e.WindowID, &lang, &e.ExitCode, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.Language = project.Type(lang)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates the full run log.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByLanguage: make(map[string]int)}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN exit_code != 0 THEN 1 ELSE 0 END), 0) FROM runs`)
	if err := row.Scan(&stats.Total, &stats.Failed); err != nil {
		return Stats{}, fmt.Errorf("aggregate runs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT language, COUNT(*) FROM runs GROUP BY language`)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate languages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lang string
		var n int
		if err := rows.Scan(&lang, &n); err != nil {
			return Stats{}, fmt.Errorf("scan language count: %w", err)
		}
		stats.ByLanguage[lang] = n
	}
	return stats, rows.Err()
}
