// Package credentials persists the API keys the tool needs in a sqlite
// key/value table inside the profile directory.
package credentials

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/v0xg/limboscrape/internal/logging"
	_ "modernc.org/sqlite"
)

const (
	// DBFile is the credential database file name inside a profile.
	DBFile = "credentials.db"

	keyPrefix = "limboscrape."
)

// Name identifies one stored secret.
type Name string

const (
	Scrape       Name = "scrape"
	LLMPrimary   Name = "llm_primary"
	LLMSecondary Name = "llm_secondary"
)

// Names lists every known credential in display order.
var Names = []Name{Scrape, LLMPrimary, LLMSecondary}

// ParseName converts user input to a Name.
func ParseName(s string) (Name, error) {
	for _, n := range Names {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown credential: %s (supported: scrape, llm_primary, llm_secondary)", s)
}

// EnvVar is the environment variable consulted when nothing is stored.
func (n Name) EnvVar() string {
	switch n {
	case Scrape:
		return "FIRECRAWL_API_KEY"
	case LLMPrimary:
		return "OPENROUTER_API_KEY"
	case LLMSecondary:
		return "PERPLEXITY_API_KEY"
	}
	return ""
}

func (n Name) key() string {
	return keyPrefix + string(n)
}

// StoreError represents errors accessing the credential database.
type StoreError struct {
	Path string
	Op   string // "open", "init", "save", "delete", "list"
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("credential store error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store is a durable key/value store for credentials.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens or creates the credential database in profileDir.
func Open(profileDir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(profileDir, 0700); err != nil {
		return nil, &StoreError{Path: profileDir, Op: "open", Err: err}
	}
	path := filepath.Join(profileDir, DBFile)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		_ = db.Close()
		return nil, &StoreError{Path: path, Op: "init", Err: err}
	}

	return &Store{db: db, path: path, logger: logging.OrDiscard(logger)}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save writes value under name, replacing any previous value.
func (s *Store) Save(name Name, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, name.key(), value)
	if err != nil {
		return &StoreError{Path: s.path, Op: "save", Err: err}
	}
	s.logger.Debug("credential saved", "name", name)
	return nil
}

// Get returns the value for name. Lookup failures are logged and reported
// as absence. When nothing is stored the name's environment variable is used.
func (s *Store) Get(name Name) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, name.key()).Scan(&value)
	switch {
	case err == nil:
		if value != "" {
			return value, true
		}
	case errors.Is(err, sql.ErrNoRows):
	default:
		s.logger.Warn("credential lookup failed", "name", name, "error", err)
	}

	if env := name.EnvVar(); env != "" {
		if v := os.Getenv(env); v != "" {
			return v, true
		}
	}
	return "", false
}

// Has reports whether a value is available for name.
func (s *Store) Has(name Name) bool {
	_, ok := s.Get(name)
	return ok
}

// Delete removes the stored value for name. Deleting an absent name is not an error.
func (s *Store) Delete(name Name) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, name.key()); err != nil {
		return &StoreError{Path: s.path, Op: "delete", Err: err}
	}
	return nil
}

// Status reports which credentials are available.
func (s *Store) Status() map[Name]bool {
	status := make(map[Name]bool, len(Names))
	for _, n := range Names {
		status[n] = s.Has(n)
	}
	return status
}

// Stored lists the names that have a value in the database itself,
// ignoring environment fallbacks.
func (s *Store) Stored() ([]Name, error) {
	rows, err := s.db.Query(`SELECT key FROM kv`)
	if err != nil {
		return nil, &StoreError{Path: s.path, Op: "list", Err: err}
	}
	defer rows.Close()

	var names []Name
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, &StoreError{Path: s.path, Op: "list", Err: err}
		}
		if name, ok := strings.CutPrefix(key, keyPrefix); ok {
			names = append(names, Name(name))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Path: s.path, Op: "list", Err: err}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names, nil
}
