// Package eventlog records agent run events in a SQLite database: one row
// per run start, iteration, tool call, and terminal transition. The writer
// side is wired into the agent loop; the reader side serves `helix logs`
// and the dashboard.
package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SchemaDDL creates the events table. Idempotent.
const SchemaDDL = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	task       TEXT NOT NULL DEFAULT '',
	type       TEXT NOT NULL,
	tool       TEXT NOT NULL DEFAULT '',
	detail     TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%S', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);
CREATE INDEX IF NOT EXISTS idx_events_type ON events(type);
`

// Event is a single row from the run event log.
type Event struct {
	ID        int64
	RunID     string
	Task      string
	Type      string
	Tool      string
	Detail    string
	CreatedAt time.Time
}

// DefaultDBPath returns the standard location of the event database.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".helix", "events.db")
}

// openDB opens a SQLite database with production-safe defaults: WAL
// journal mode and a 5-second busy timeout, verified with a ping.
func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode on %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout on %s: %w", path, err)
	}
	return db, nil
}

// parseCreatedAt handles both SQLite timestamp formats seen in the wild.
func parseCreatedAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at: %w", err)
	}
	return t, nil
}

// --- Writer ---

// Writer appends events for one run. It satisfies the agent loop's
// Recorder interface. Record failures are swallowed: the event log is
// observability, never a reason to fail a run.
type Writer struct {
	db    *sql.DB
	runID string
	task  string
}

// NewWriter opens (creating if needed) the event database at path and
// scopes a writer to the given run ID and task name.
func NewWriter(path, runID, task string) (*Writer, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(context.Background(), SchemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init event schema: %w", err)
	}
	return &Writer{db: db, runID: runID, task: task}, nil
}

// Record appends one event. Errors are dropped by design, and recording
// after Close is a no-op.
func (w *Writer) Record(ctx context.Context, eventType, tool, detail string) {
	if w.db == nil {
		return
	}
	_, _ = w.db.ExecContext(ctx,
		`INSERT INTO events (run_id, task, type, tool, detail) VALUES (?, ?, ?, ?, ?)`,
		w.runID, w.task, eventType, tool, detail,
	)
}

// Close releases the database connection. Safe to call multiple times.
func (w *Writer) Close() error {
	if w.db != nil {
		db := w.db
		w.db = nil
		return db.Close()
	}
	return nil
}

// --- Reader ---

// QueryOpts filters an event query. Zero value returns everything, newest
// first.
type QueryOpts struct {
	RunID     string
	EventType string
	Limit     int
}

// Reader provides read-only access to the run event log.
type Reader struct {
	db *sql.DB
}

// NewReader opens the event database in read-only mode with WAL, erroring
// if it does not exist yet.
func NewReader(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("event database not found: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open event database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping event database: %w", err)
	}
	return &Reader{db: db}, nil
}

// Close releases the database connection. Safe to call multiple times.
func (r *Reader) Close() error {
	if r.db != nil {
		db := r.db
		r.db = nil
		return db.Close()
	}
	return nil
}

// Query retrieves events matching opts, newest first.
func (r *Reader) Query(ctx context.Context, opts QueryOpts) ([]Event, error) {
	query, args := buildQuery(opts)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var createdAt string
		if err := rows.Scan(&e.ID, &e.RunID, &e.Task, &e.Type, &e.Tool, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.CreatedAt, err = parseCreatedAt(createdAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// buildQuery constructs the SQL and arguments from opts.
func buildQuery(opts QueryOpts) (string, []any) {
	var conditions []string
	var args []any

	query := "SELECT id, run_id, task, type, tool, detail, created_at FROM events WHERE 1=1"

	if opts.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, opts.RunID)
	}
	if opts.EventType != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, opts.EventType)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id DESC"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	return query, args
}

// RunSummary condenses one run for listings.
type RunSummary struct {
	RunID     string
	Task      string
	Outcome   string // detail of the run_finished event, "" if still running
	StartedAt time.Time
}

// Runs lists recent runs, newest first.
func (r *Reader) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
SELECT e.run_id, e.task, e.created_at,
       COALESCE((SELECT detail FROM events f
                 WHERE f.run_id = e.run_id AND f.type = 'run_finished'
                 ORDER BY f.id DESC LIMIT 1), '')
FROM events e
WHERE e.type = 'run_started'
ORDER BY e.id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var s RunSummary
		var createdAt string
		if err := rows.Scan(&s.RunID, &s.Task, &createdAt, &s.Outcome); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if s.StartedAt, err = parseCreatedAt(createdAt); err != nil {
			return nil, err
		}
		runs = append(runs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
