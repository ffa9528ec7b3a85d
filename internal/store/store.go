package store

import (
	"database/sql"
	"fmt"

	"github.com/rnwolfe/prio/internal/config"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the prio database at the configured path.
func Open() (*DB, error) {
	paths := config.GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating data dirs: %w", err)
	}
	return OpenAt(paths.DBFile)
}

// OpenAt opens (or creates) a database file at path and migrates it.
func OpenAt(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the raw sql.DB for direct queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate applies the schema to conn. It is idempotent and is exported so
// packages can build in-memory databases with the real schema in tests.
func Migrate(conn *sql.DB) error {
	return (&DB{conn: conn}).migrate()
}

// migration is one named schema step. Steps run in order, once each, and
// are recorded in schema_migrations.
type migration struct {
	name string
	sql  string
}

var migrations = []migration{
	// Dependencies are a JSON array of task ids.
	{"create_tasks", `CREATE TABLE tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		due_date TEXT,
		estimated_hours INTEGER NOT NULL DEFAULT 2,
		importance INTEGER NOT NULL DEFAULT 5,
		dependencies TEXT NOT NULL DEFAULT '[]',
		done INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		completed_at DATETIME
	)`},
	{"index_tasks_done", `CREATE INDEX idx_tasks_done ON tasks(done)`},
	{"add_tasks_notes", `ALTER TABLE tasks ADD COLUMN notes TEXT NOT NULL DEFAULT ''`},
}

func (db *DB) migrate() error {
	if _, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied int
		if err := db.conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, m.name).Scan(&applied); err != nil {
			return err
		}
		if applied > 0 {
			continue
		}
		if err := db.apply(m); err != nil {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
	}
	return nil
}

func (db *DB) apply(m migration) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (name) VALUES (?)`, m.name); err != nil {
		return err
	}
	return tx.Commit()
}
