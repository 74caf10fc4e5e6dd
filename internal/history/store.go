// Package history keeps an opt-in journal of sent control messages so
// repeated diagnostic runs can be compared after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one journaled send.
type Entry struct {
	ID          int64
	Endpoint    string
	Destination string
	Status      string
	Action      string
	Payload     string // JSON payload frame as transmitted
	SentAt      time.Time
}

// Store implements the journal on SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection for SQLite
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db, logger: logger}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sends (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		endpoint    TEXT NOT NULL,
		destination TEXT NOT NULL,
		status      TEXT NOT NULL,
		action      TEXT NOT NULL,
		payload     TEXT NOT NULL,
		sent_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_sends_time ON sends(sent_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record journals one send.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sends (endpoint, destination, status, action, payload, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Endpoint, entry.Destination, entry.Status, entry.Action, entry.Payload, entry.SentAt,
	)
	return err
}

// Recent returns the last N sends, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, endpoint, destination, status, action, payload, sent_at
		 FROM sends ORDER BY sent_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Endpoint, &e.Destination, &e.Status, &e.Action, &e.Payload, &e.SentAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
