package db

import (
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Verify tables exist by counting each one.
	tables := []string{"sections", "tables", "table_rows", "requirements", "search_index"}
	for _, table := range tables {
		var count int
		if err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestFullTextIndexMatches(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	_, err = d.Exec(
		`INSERT INTO search_index (vintage, content_type, title, content, unit_id)
		 VALUES ('2020', 'section', 'Building Envelope', 'thermal transmittance of above-grade walls', 'sec-1')`)
	if err != nil {
		t.Fatalf("inserting index entry: %v", err)
	}

	var unitID string
	err = d.QueryRow(
		`SELECT unit_id FROM search_index WHERE search_index MATCH ?`, `"transmittance"`).Scan(&unitID)
	if err != nil {
		t.Fatalf("matching: %v", err)
	}
	if unitID != "sec-1" {
		t.Errorf("unit_id = %q, want sec-1", unitID)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	d, err := Open(dir + "/nested/corpus.db")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer d.Close()

	if d.Path() != dir+"/nested/corpus.db" {
		t.Errorf("Path() = %q", d.Path())
	}
}
