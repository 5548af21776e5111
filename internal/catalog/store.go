// Package catalog keeps the advisory suggestion lists offered while
// filling the form (species, varieties, formats, exporters, vessels,
// suppliers). Values are suggestions only; nothing is validated
// against them.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Suggestion fields recognized by the store.
var Fields = []string{"especie", "variedad", "formato", "exporta", "nave", "destinatario"}

type Store struct {
	conn *sql.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	s := &Store{conn: conn}
	if err := s.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS suggestions (
  field TEXT NOT NULL,
  value TEXT NOT NULL,
  source TEXT NOT NULL DEFAULT 'seed',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(field, value)
);
CREATE INDEX IF NOT EXISTS idx_suggestions_field ON suggestions(field);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := s.conn.Exec(schema)
	return err
}

func ValidField(fieldName string) bool {
	for _, f := range Fields {
		if f == fieldName {
			return true
		}
	}
	return false
}

// Upsert stores suggestion values for a field, upper-cased and
// deduplicated. Returns how many values were written.
func (s *Store) Upsert(fieldName string, values []string, source string) (int, error) {
	if !ValidField(fieldName) {
		return 0, fmt.Errorf("unknown suggestion field: %s", fieldName)
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO suggestions (field, value, source) VALUES (?, ?, ?)
ON CONFLICT(field, value) DO UPDATE SET source = excluded.source
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	seen := map[string]struct{}{}
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		if _, err := stmt.Exec(fieldName, v, source); err != nil {
			return 0, err
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// Suggest returns stored values for a field starting with the given
// prefix, case-insensitively, in alphabetical order.
func (s *Store) Suggest(fieldName, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := strings.ToUpper(strings.TrimSpace(prefix)) + "%"
	rows, err := s.conn.Query(`
SELECT value FROM suggestions WHERE field = ? AND value LIKE ? ORDER BY value LIMIT ?
`, fieldName, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// List returns every stored value for a field.
func (s *Store) List(fieldName string) ([]string, error) {
	rows, err := s.conn.Query(`SELECT value FROM suggestions WHERE field = ? ORDER BY value`, fieldName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) SetMetadata(key, value string) error {
	_, err := s.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (s *Store) GetMetadata(key string) (*string, error) {
	var value string
	err := s.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
