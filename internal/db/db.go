package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with necbquery-specific helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens the corpus database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory corpus database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Each pool connection would get its own empty in-memory database.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Path returns the filesystem path of the database.
func (d *DB) Path() string { return d.path }

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full corpus schema. Field names are load-bearing:
// downstream tooling reads these tables directly, so renames are breaking.
const schema = `
CREATE TABLE IF NOT EXISTS sections (
    id TEXT PRIMARY KEY,
    vintage TEXT NOT NULL,
    section_number TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    page_number INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sections_vintage ON sections(vintage);
CREATE INDEX IF NOT EXISTS idx_sections_number ON sections(section_number);

CREATE TABLE IF NOT EXISTS tables (
    id TEXT PRIMARY KEY,
    vintage TEXT NOT NULL,
    table_number TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    headers TEXT NOT NULL DEFAULT '[]',
    page_number INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_tables_vintage ON tables(vintage);
CREATE INDEX IF NOT EXISTS idx_tables_number ON tables(vintage, table_number);

CREATE TABLE IF NOT EXISTS table_rows (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    table_id TEXT NOT NULL REFERENCES tables(id) ON DELETE CASCADE,
    row_data TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_table_rows_table ON table_rows(table_id);

CREATE TABLE IF NOT EXISTS requirements (
    id TEXT PRIMARY KEY,
    vintage TEXT NOT NULL,
    section TEXT NOT NULL DEFAULT '',
    requirement_type TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    value TEXT NOT NULL DEFAULT '',
    unit TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_requirements_vintage ON requirements(vintage);
CREATE INDEX IF NOT EXISTS idx_requirements_type ON requirements(requirement_type);

CREATE VIRTUAL TABLE IF NOT EXISTS search_index USING fts5(
    vintage,
    content_type,
    title,
    content,
    unit_id UNINDEXED
);
`
