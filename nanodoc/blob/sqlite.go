package blob

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps every blob as one row of a single SQLite database.
//
// Table:
//
//	blobs(name TEXT PRIMARY KEY, data BLOB NOT NULL)
type SQLiteStore struct {
	db      *sql.DB
	builder *sqlBuilder
}

// NewSQLiteStore opens (creating if needed) the database at dbPath
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create blobs table: %w", err)
	}
	return &SQLiteStore{db: db, builder: newSQLBuilder()}, nil
}

// Exists implements Store.Exists
func (s *SQLiteStore) Exists(name string) (bool, error) {
	query, args, err := s.builder.buildCount(name)
	if err != nil {
		return false, err
	}
	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check blob %s: %w", name, err)
	}
	return count > 0, nil
}

// Read implements Store.Read
func (s *SQLiteStore) Read(name string) ([]byte, error) {
	query, args, err := s.builder.buildSelect(name)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = s.db.QueryRow(query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

// Write implements Store.Write
func (s *SQLiteStore) Write(name string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	query, args, err := s.builder.buildUpsert(name, data)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	return nil
}

// Delete implements Store.Delete
func (s *SQLiteStore) Delete(name string) error {
	query, args, err := s.builder.buildDelete(name)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return nil
}

// Close implements Store.Close
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
