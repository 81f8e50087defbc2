// Package store persists link check results and run history in a local
// SQLite database, so repeated runs against the same guide skip URLs
// that were verified recently.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tsawler/stylemark/linkcheck"
)

// Store is a SQLite-backed link cache and run log. It implements
// [linkcheck.Cache]. Safe for concurrent use.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

var _ linkcheck.Cache = (*Store)(nil)

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	linksTable := `
	CREATE TABLE IF NOT EXISTS links (
		url TEXT PRIMARY KEY,
		code INTEGER DEFAULT 0,
		ok INTEGER NOT NULL,
		error TEXT DEFAULT '',
		checked_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_links_checked ON links(checked_at);
	`

	runsTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		findings INTEGER DEFAULT 0,
		broken INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	for _, table := range []string{linksTable, runsTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Get returns the cached result for url if it was checked within ttl.
// Implements [linkcheck.Cache].
func (s *Store) Get(url string, ttl time.Duration) (linkcheck.LinkResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		code      int
		ok        int
		errMsg    string
		checkedAt int64
	)
	row := s.db.QueryRow("SELECT code, ok, error, checked_at FROM links WHERE url = ?", url)
	if err := row.Scan(&code, &ok, &errMsg, &checkedAt); err != nil {
		return linkcheck.LinkResult{}, false
	}
	if time.Since(time.Unix(checkedAt, 0)) > ttl {
		return linkcheck.LinkResult{}, false
	}

	res := linkcheck.LinkResult{URL: url, Code: code, Err: errMsg}
	switch {
	case errMsg != "":
		res.Status = linkcheck.StatusErrored
	case ok == 1:
		res.Status = linkcheck.StatusOK
	default:
		res.Status = linkcheck.StatusBroken
	}
	return res, true
}

// Put stores a result, replacing any previous row for the URL.
// Implements [linkcheck.Cache].
func (s *Store) Put(result linkcheck.LinkResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := 0
	if result.Status == linkcheck.StatusOK {
		ok = 1
	}
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO links (url, code, ok, error, checked_at) VALUES (?, ?, ?, ?, ?)",
		result.URL, result.Code, ok, result.Err, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store link result: %w", err)
	}
	return nil
}

// PruneLinks deletes cached results older than ttl and returns how many
// rows went away.
func (s *Store) PruneLinks(ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-ttl).Unix()
	res, err := s.db.Exec("DELETE FROM links WHERE checked_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune links: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Run is one recorded lint or link check run.
type Run struct {
	ID       string
	Kind     string // "lint" or "links"
	Source   string
	Started  time.Time
	Findings int
	Broken   int
}

// RecordRun appends a run to the history.
func (s *Store) RecordRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO runs (id, kind, source, started_at, findings, broken) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID, run.Kind, run.Source, run.Started.Unix(), run.Findings, run.Broken,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecentRuns returns the n most recent runs, newest first.
func (s *Store) RecentRuns(n int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		n = 10
	}
	rows, err := s.db.Query(
		"SELECT id, kind, source, started_at, findings, broken FROM runs ORDER BY started_at DESC, id LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started int64
		if err := rows.Scan(&r.ID, &r.Kind, &r.Source, &started, &r.Findings, &r.Broken); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Started = time.Unix(started, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
