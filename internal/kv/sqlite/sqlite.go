package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv"
)

// Schema creates the slots table.
const Schema = `
CREATE TABLE IF NOT EXISTS slots (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implements kv.Store for SQLite.
type SQLiteStore struct {
	db    *sql.DB
	quota int64
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file. quota <= 0 disables the limit.
func New(dbPath string, quota int64) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, quota, func(db *sql.DB) error {
		_, err := db.Exec(Schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema.
func NewWithSetup(dbPath string, quota int64, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db, quota: quota}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get retrieves a slot by key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query slot: %w", err)
	}
	return value, true, nil
}

// Set upserts a slot, enforcing the quota across all slots.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if s.quota > 0 {
		var used int64
		query := `
			SELECT COALESCE(SUM(length(CAST(key AS BLOB)) + length(CAST(value AS BLOB))), 0)
			FROM slots
			WHERE key <> ?
		`
		if err := tx.QueryRowContext(ctx, query, key).Scan(&used); err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if used+kv.Footprint(key, value) > s.quota {
			return kv.ErrQuotaExceeded
		}
	}

	query := `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
		if isFull(err) {
			return kv.ErrQuotaExceeded
		}
		return fmt.Errorf("upsert slot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isFull(err) {
			return kv.ErrQuotaExceeded
		}
		return fmt.Errorf("commit slot: %w", err)
	}
	return nil
}

// Remove deletes a slot.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

// isFull reports whether the database file or disk ran out of space.
func isFull(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrFull
}
