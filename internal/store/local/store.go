// Package local provides the durable on-device storage tiers: the
// canonical working-copy record, the versioned cache envelope and the
// theme preference, all in a single SQLite key-value table.
package local

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/domain"
	_ "modernc.org/sqlite"
)

const (
	// KeyGroups is the record holding the serialized working copy.
	KeyGroups = "websiteSaverGroups"
	// KeyCache is the record holding the cache envelope.
	KeyCache = "websiteSaverCache"
	// KeyTheme is the record holding the theme preference.
	KeyTheme = "websiteSaverTheme"

	probeKey = "__websaver_probe__"
)

var (
	// ErrStorageUnavailable means the local store cannot be written
	// (disk full, permissions, locked file). Callers warn once and keep
	// operating memory-only.
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// ErrStorageCorrupt means a stored record failed to parse or
	// validate. Treated as absent: the caller reseeds the default
	// collection and persists it.
	ErrStorageCorrupt = errors.New("local storage corrupt")
)

// Store manages the SQLite database holding all local tiers.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (or creates) the store at dbPath.
// Use ":memory:" for an in-memory database (useful for testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrStorageUnavailable, err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create schema: %v", ErrStorageUnavailable, err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) setKV(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, value, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) getKV(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return value, true, nil
}

func (s *Store) deleteKV(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// IsAvailable probes storage viability with a trivial write/delete.
// Called once at startup before relying on the store.
func (s *Store) IsAvailable() bool {
	if err := s.setKV(probeKey, "1"); err != nil {
		return false
	}
	return s.deleteKV(probeKey) == nil
}

// Save serializes and writes the whole collection. Every mutation goes
// through here: there is no per-group granularity.
func (s *Store) Save(c domain.Collection) error {
	cl := c.Clone()
	cl.Normalize()
	data, err := json.Marshal(cl)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrStorageUnavailable, err)
	}
	return s.setKV(KeyGroups, string(data))
}

// Load returns the previously saved collection. A missing record
// returns (nil, false, nil); a corrupt one returns ErrStorageCorrupt so
// the caller can reseed defaults.
func (s *Store) Load() (domain.Collection, bool, error) {
	raw, ok, err := s.getKV(KeyGroups)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	var c domain.Collection
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, false, fmt.Errorf("%w: parse: %v", ErrStorageCorrupt, err)
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStorageCorrupt, err)
	}
	return c, true, nil
}

// SaveTheme persists the theme preference ("light" or "dark").
func (s *Store) SaveTheme(theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("invalid theme %q", theme)
	}
	return s.setKV(KeyTheme, theme)
}

// LoadTheme returns the saved theme preference, defaulting to "light".
func (s *Store) LoadTheme() (string, error) {
	theme, ok, err := s.getKV(KeyTheme)
	if err != nil {
		return "", err
	}
	if !ok || (theme != "light" && theme != "dark") {
		return "light", nil
	}
	return theme, nil
}
