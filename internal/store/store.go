package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// builder renders SQLite-flavoured statements.
var builder = entsql.Dialect(dialect.SQLite)

// Store is the SQLite backend.
type Store struct {
	db *sql.DB
}

var _ Backend = (*Store)(nil)

// pragmas are applied to every pooled connection through the DSN.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(ON)",
	"synchronous(NORMAL)",
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the schema if needed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ProfileRepo returns a ProfileRepo backed by this store.
func (s *Store) ProfileRepo() ProfileRepo {
	return &profileRepo{db: s.db}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db}
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	parts := make([]string, len(pragmas))
	for i, p := range pragmas {
		parts[i] = "_pragma=" + p
	}
	return dsn + sep + strings.Join(parts, "&")
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id                  TEXT PRIMARY KEY,
		level               INTEGER NOT NULL DEFAULT 1,
		coins               INTEGER NOT NULL DEFAULT 0,
		points              INTEGER NOT NULL DEFAULT 0,
		owned_accessories   TEXT NOT NULL DEFAULT '[]',
		last_rewarded_level INTEGER NOT NULL DEFAULT 0,
		updated_at          TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reward_grants (
		id                   TEXT PRIMARY KEY,
		sequence             INTEGER NOT NULL UNIQUE,
		profile_id           TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		levels               TEXT NOT NULL,
		coins                INTEGER NOT NULL DEFAULT 0,
		accessories          TEXT NOT NULL DEFAULT '[]',
		extra_points         INTEGER NOT NULL DEFAULT 0,
		extra_study_time_min INTEGER NOT NULL DEFAULT 0,
		source               TEXT NOT NULL,
		granted_at           TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_grants_profile ON reward_grants(profile_id, sequence);

	CREATE TABLE IF NOT EXISTS focus_sessions (
		id             TEXT PRIMARY KEY,
		sequence       INTEGER NOT NULL UNIQUE,
		profile_id     TEXT NOT NULL,
		phase          TEXT NOT NULL,
		seconds        INTEGER NOT NULL,
		cycle          INTEGER NOT NULL DEFAULT 0,
		skipped        INTEGER NOT NULL DEFAULT 0,
		points_awarded INTEGER NOT NULL DEFAULT 0,
		completed_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_focus_profile ON focus_sessions(profile_id, sequence);

	CREATE TABLE IF NOT EXISTS history_sequence (
		id       INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL
	);
	INSERT OR IGNORE INTO history_sequence (id, next_val) VALUES (1, 1);
	`
	_, err := db.Exec(schema)
	return err
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PAWFOCUS_DB environment variable
// 2. $XDG_DATA_HOME/pawfocus/pawfocus.db
// 3. ~/.local/share/pawfocus/pawfocus.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PAWFOCUS_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome, err := DataHome()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dataHome, "pawfocus.db")
	return p, EnsureDir(p)
}

// DataHome returns the pawfocus data directory ($XDG_DATA_HOME/pawfocus or
// ~/.local/share/pawfocus). It does not create it.
func DataHome() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "pawfocus"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
