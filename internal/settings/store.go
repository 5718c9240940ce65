package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// DefaultTransitionSeconds is used until the user tunes the transition
// length.
const DefaultTransitionSeconds = 5

const keyTransitionSeconds = "transition_seconds"

// Store persists user-tunable settings in a local SQLite database at
// dir/settings.db.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the settings database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating settings dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "settings.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening settings db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating settings table: %w", err)
	}

	return &Store{db: db}, nil
}

// TransitionSeconds returns the configured transition length in seconds.
// Unset or unreadable values fall back to the default rather than
// failing a generation request.
func (s *Store) TransitionSeconds() (int, error) {
	raw, err := s.get(keyTransitionSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultTransitionSeconds, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return DefaultTransitionSeconds, nil
	}
	return n, nil
}

// SetTransitionSeconds stores the transition length. Zero disables
// transitions; negative values are rejected.
func (s *Store) SetTransitionSeconds(n int) error {
	if n < 0 {
		return fmt.Errorf("transition seconds must be >= 0, got %d", n)
	}
	return s.set(keyTransitionSeconds, strconv.Itoa(n))
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	return value, err
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, value,
	)
	return err
}

// Close closes the settings database.
func (s *Store) Close() error {
	return s.db.Close()
}
