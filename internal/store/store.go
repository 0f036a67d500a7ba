// Package store persists journal rows in a SQLite database. It is a loader
// collaborator: the analytics engine never touches it, it only consumes the
// rows FetchAll returns.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store wraps the SQLite database holding journal entries.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS journal_entries (
	je_id            TEXT NOT NULL,
	date             TEXT,
	account          TEXT,
	description      TEXT,
	debit            TEXT NOT NULL DEFAULT '0',
	credit           TEXT NOT NULL DEFAULT '0',
	category         TEXT,
	transaction_type TEXT,
	customer_vendor  TEXT,
	payment_method   TEXT,
	reference        TEXT,
	PRIMARY KEY (je_id, date, account, debit, credit)
);
CREATE TABLE IF NOT EXISTS import_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	file_name   TEXT NOT NULL,
	row_count   INTEGER NOT NULL,
	imported_at TEXT NOT NULL
);`

// Open opens (creating if needed) the database at path and ensures the
// schema. WAL mode keeps the serve command's concurrent readers happy.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// transaction runs fn inside a transaction, rolling back on error.
func (s *Store) transaction(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
