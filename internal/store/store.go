// Package store persists exams and attempts in a key-value table backed by
// SQLite. The wider system sees only Get, Set, and GetByPrefix; the typed
// wrappers in exam.go marshal records to JSON under prefixed keys.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the store at the given path.
// Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Set upserts a value under key.
func (s *Store) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = ?`,
		key, value, time.Now(), value, time.Now(),
	)
	return err
}

// Get returns the value for key, or nil when the key is missing.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return value, err
}

// KV is one key-value pair returned by GetByPrefix.
type KV struct {
	Key   string
	Value []byte
}

// GetByPrefix returns all pairs whose key starts with prefix, ordered by key.
func (s *Store) GetByPrefix(prefix string) ([]KV, error) {
	rows, err := s.db.Query(
		`SELECT key, value FROM kv WHERE key >= ? AND key < ? ORDER BY key`,
		prefix, prefix+"\xff",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []KV
	for rows.Next() {
		var kv KV
		if err := rows.Scan(&kv.Key, &kv.Value); err != nil {
			return nil, err
		}
		pairs = append(pairs, kv)
	}
	return pairs, rows.Err()
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// SetMeta stores a small metadata string under the meta: prefix.
func (s *Store) SetMeta(name, value string) error {
	return s.Set("meta:"+name, []byte(value))
}

// GetMeta returns a metadata string, or empty string when missing.
func (s *Store) GetMeta(name string) (string, error) {
	v, err := s.Get("meta:" + name)
	if err != nil {
		return "", err
	}
	return string(v), nil
}
