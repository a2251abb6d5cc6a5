package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteLockStore persists lock flags so a restart doesn't lose the user's
// lock intent. Only locked paths are stored; absence means unlocked.
type SqliteLockStore struct {
	db *sql.DB
}

// NewSqliteLockStore opens (or creates) the lock database at path.
func NewSqliteLockStore(path string) (*SqliteLockStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SqliteLockStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS file_locks (
			path TEXT PRIMARY KEY,
			locked_at TEXT NOT NULL
		);
	`)
	return err
}

// Load returns all persisted lock flags.
func (s *SqliteLockStore) Load() (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT path FROM file_locks`)
	if err != nil {
		return nil, fmt.Errorf("querying file locks: %w", err)
	}
	defer rows.Close()

	flags := make(map[string]bool)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning file lock row: %w", err)
		}
		flags[path] = true
	}
	return flags, rows.Err()
}

// Set writes one flag through: locked inserts the path, unlocked deletes it.
func (s *SqliteLockStore) Set(path string, locked bool) error {
	if locked {
		_, err := s.db.Exec(
			`INSERT INTO file_locks (path, locked_at) VALUES (?, ?)
			 ON CONFLICT(path) DO UPDATE SET locked_at = excluded.locked_at`,
			path, time.Now().Format(time.RFC3339),
		)
		return err
	}
	_, err := s.db.Exec(`DELETE FROM file_locks WHERE path = ?`, path)
	return err
}

// Close closes the underlying database.
func (s *SqliteLockStore) Close() error {
	return s.db.Close()
}
