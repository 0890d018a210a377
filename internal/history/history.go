// Package history keeps a record of genicons runs in a SQLite database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Mavwarf/genicons/internal/icons"
	"github.com/Mavwarf/genicons/internal/paths"

	_ "modernc.org/sqlite"
)

// Conversion is the stored outcome of one spec.
type Conversion struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Size   int    `json:"size"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Run is one invocation of genicons.
type Run struct {
	ID          int64        `json:"-"`
	Time        time.Time    `json:"time"`
	Renderer    string       `json:"renderer"`
	Dir         string       `json:"dir"`
	ExitCode    int          `json:"exit_code"`
	Conversions []Conversion `json:"conversions"`
}

// Generated returns how many conversions produced a file.
func (r Run) Generated() int {
	n := 0
	for _, c := range r.Conversions {
		if c.Status == icons.StatusGenerated.String() {
			n++
		}
	}
	return n
}

// FromReport flattens a conversion report into a Run stamped with the
// current time.
func FromReport(renderer, dir string, exitCode int, rep icons.Report) Run {
	run := Run{
		Time:     time.Now(),
		Renderer: renderer,
		Dir:      dir,
		ExitCode: exitCode,
	}
	for _, o := range rep.Outcomes {
		c := Conversion{
			Input:  o.Spec.Input,
			Output: o.Spec.Output,
			Size:   o.Spec.Size,
			Status: o.Status.String(),
		}
		if o.Err != nil {
			c.Detail = o.Err.Error()
		}
		run.Conversions = append(run.Conversions, c)
	}
	return run
}

// SQLiteStore stores runs in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite database at path and creates
// its tables.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// PRAGMAs are per connection; one connection keeps foreign keys on.
	db.SetMaxOpenConns(1)

	// Set PRAGMAs before any DDL.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	ddl := `
CREATE TABLE IF NOT EXISTS runs (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp  TEXT    NOT NULL,
    renderer   TEXT    NOT NULL,
    dir        TEXT    NOT NULL,
    exit_code  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS conversions (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id  INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq     INTEGER NOT NULL,
    input   TEXT    NOT NULL,
    output  TEXT    NOT NULL,
    size    INTEGER NOT NULL,
    status  TEXT    NOT NULL,
    detail  TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Record stores run and its conversions in one transaction. Timestamps are
// stored in UTC so text order matches time order.
func (s *SQLiteStore) Record(run Run) error {
	if run.Time.IsZero() {
		run.Time = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (timestamp, renderer, dir, exit_code) VALUES (?, ?, ?, ?)`,
		run.Time.UTC().Format(time.RFC3339), run.Renderer, run.Dir, run.ExitCode,
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, c := range run.Conversions {
		if _, err := tx.Exec(
			`INSERT INTO conversions (run_id, seq, input, output, size, status, detail)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i+1, c.Input, c.Output, c.Size, c.Status, c.Detail,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Runs returns the newest limit runs, newest first. limit <= 0 returns all.
func (s *SQLiteStore) Runs(limit int) ([]Run, error) {
	query := `SELECT id, timestamp, renderer, dir, exit_code FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.Renderer, &r.Dir, &r.ExitCode); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("run %d: bad timestamp %q: %w", r.ID, ts, err)
		}
		r.Time = t
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range runs {
		convs, err := s.conversions(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Conversions = convs
	}
	return runs, nil
}

func (s *SQLiteStore) conversions(runID int64) ([]Conversion, error) {
	rows, err := s.db.Query(
		`SELECT input, output, size, status, detail FROM conversions
		 WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []Conversion
	for rows.Next() {
		var c Conversion
		if err := rows.Scan(&c.Input, &c.Output, &c.Size, &c.Status, &c.Detail); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// Clean removes runs older than days days and returns how many were removed.
func (s *SQLiteStore) Clean(days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days).UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM runs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
