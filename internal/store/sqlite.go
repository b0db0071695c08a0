package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/andyrewlee/carousel/internal/logging"
)

// SQLite persists offsets in a single-table sqlite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS offsets (
			key               TEXT PRIMARY KEY,
			offset_px         DOUBLE NOT NULL,
			updated_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create offsets table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// SavedOffset implements viewport.OffsetStore. Query errors count as no value.
func (s *SQLite) SavedOffset(key string) (float64, bool) {
	var v float64
	err := s.db.QueryRow(`SELECT offset_px FROM offsets WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, false
	}
	if err != nil {
		logging.Warn("Failed to read offset %q: %v", key, err)
		return 0, false
	}
	if !validOffset(v) {
		return 0, false
	}
	return v, true
}

// SaveOffset implements viewport.OffsetStore.
func (s *SQLite) SaveOffset(key string, offset float64) error {
	if !validOffset(offset) {
		return fmt.Errorf("invalid offset %v", offset)
	}
	_, err := s.db.Exec(`
		INSERT INTO offsets (key, offset_px, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET offset_px = excluded.offset_px, updated_at = CURRENT_TIMESTAMP
	`, key, offset)
	if err != nil {
		return fmt.Errorf("save offset %q: %w", key, err)
	}
	return nil
}

// Keys returns every stored key, oldest update first.
func (s *SQLite) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM offsets ORDER BY updated_at, key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close implements Store.
func (s *SQLite) Close() error { return s.db.Close() }
