package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) the state database.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		path TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		written INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		failed INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Fingerprint(ctx context.Context, path string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var fp string
	err := s.db.QueryRowContext(ctx, "SELECT fingerprint FROM pages WHERE path = ?", path).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query fingerprint: %w", err)
	}
	return fp, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, path, fp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (path, fingerprint, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET fingerprint = excluded.fingerprint, updated_at = excluded.updated_at`,
		path, fp, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert fingerprint: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Prune(ctx context.Context, keep []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin prune: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "CREATE TEMP TABLE IF NOT EXISTS keep_pages (path TEXT PRIMARY KEY)"); err != nil {
		return nil, fmt.Errorf("create keep table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM keep_pages"); err != nil {
		return nil, fmt.Errorf("reset keep table: %w", err)
	}
	for _, p := range keep {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO keep_pages (path) VALUES (?)", p); err != nil {
			return nil, fmt.Errorf("insert keep path: %w", err)
		}
	}

	rows, err := tx.QueryContext(ctx, "SELECT path FROM pages WHERE path NOT IN (SELECT path FROM keep_pages) ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("select stale pages: %w", err)
	}
	var removed []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan stale page: %w", err)
		}
		removed = append(removed, p)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close stale rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stale pages: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE path NOT IN (SELECT path FROM keep_pages)"); err != nil {
		return nil, fmt.Errorf("prune pages: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit prune: %w", err)
	}
	return removed, nil
}

func (s *SQLiteStore) RecordBuild(ctx context.Context, rec BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, started_at, duration_ms, written, skipped, failed) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Started.UnixMilli(), rec.Duration.Milliseconds(), rec.Written, rec.Skipped, rec.Failed,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LastBuild(ctx context.Context) (BuildRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rec        BuildRecord
		startedMS  int64
		durationMS int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, started_at, duration_ms, written, skipped, failed FROM builds ORDER BY started_at DESC, rowid DESC LIMIT 1",
	).Scan(&rec.ID, &startedMS, &durationMS, &rec.Written, &rec.Skipped, &rec.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildRecord{}, false, nil
	}
	if err != nil {
		return BuildRecord{}, false, fmt.Errorf("query last build: %w", err)
	}
	rec.Started = time.UnixMilli(startedMS)
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	return rec, true, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
