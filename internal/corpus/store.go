package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/northbuild/necbquery/internal/db"
)

// Store provides read and bulk-replace access to the corpus database.
// All read paths are safe for concurrent use.
type Store struct {
	db *db.DB
}

// NewStore wraps an open corpus database.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// LookupSections returns sections of a vintage, optionally narrowed by a
// section-number pattern and/or title pattern (substring match). Results
// are ordered by section number for determinism.
func (s *Store) LookupSections(ctx context.Context, vintage, sectionPattern, titlePattern string, limit int) ([]Section, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, vintage, section_number, title, content, page_number
		FROM sections WHERE vintage = ?`
	args := []any{vintage}

	if sectionPattern != "" {
		query += " AND section_number LIKE ?"
		args = append(args, "%"+sectionPattern+"%")
	}
	if titlePattern != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+titlePattern+"%")
	}
	query += " ORDER BY section_number, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	var out []Section
	for rows.Next() {
		var sec Section
		if err := rows.Scan(&sec.ID, &sec.Vintage, &sec.SectionNumber, &sec.Title, &sec.Content, &sec.PageNumber); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// NormalizeTableNumber reduces a loosely-formatted table reference to its
// bare number: "Table 3.2.2.2." and "3.2.2.2" normalize identically.
func NormalizeTableNumber(raw string) string {
	n := strings.TrimSpace(raw)
	if len(n) >= 5 && strings.EqualFold(n[:5], "table") {
		n = strings.TrimSpace(n[5:])
	}
	return strings.TrimRight(n, ".")
}

// LookupTable fetches one table by exact (normalized) number. When the
// same number appears more than once, the lowest page wins so the main
// text is preferred over appendices. Returns ErrNotFound on a miss.
func (s *Store) LookupTable(ctx context.Context, vintage, tableNumber string) (*Table, error) {
	want := NormalizeTableNumber(tableNumber)
	if want == "" {
		return nil, fmt.Errorf("lookup table %q: %w", tableNumber, ErrNotFound)
	}

	// Stored numbers only vary in framing ("3.2.2.2.", "Table 3.2.2.2"),
	// so the exact forms are enumerable and the lookup stays on
	// idx_tables_number instead of scanning the vintage.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, vintage, table_number, title, headers, page_number
		 FROM tables
		 WHERE vintage = ? AND table_number IN (?, ?, ?, ?)
		 ORDER BY page_number ASC, id ASC`,
		vintage, want, want+".", "Table "+want, "Table "+want+".")
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	// Drain the cursor before querying table_rows below: an open result
	// set holds its pool connection, and in-memory stores only have one.
	var tbl *Table
	for rows.Next() {
		var t Table
		var headersJSON string
		if err := rows.Scan(&t.ID, &t.Vintage, &t.TableNumber, &t.Title, &headersJSON, &t.PageNumber); err != nil {
			return nil, fmt.Errorf("scanning table: %w", err)
		}
		if tbl != nil || NormalizeTableNumber(t.TableNumber) != want {
			continue
		}
		if err := json.Unmarshal([]byte(headersJSON), &t.Headers); err != nil {
			return nil, fmt.Errorf("decoding headers for table %s: %w", t.ID, err)
		}
		tbl = &t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if tbl == nil {
		return nil, fmt.Errorf("lookup table %q vintage %s: %w", tableNumber, vintage, ErrNotFound)
	}

	rowRows, err := s.db.QueryContext(ctx,
		`SELECT row_data FROM table_rows WHERE table_id = ? ORDER BY id`, tbl.ID)
	if err != nil {
		return nil, fmt.Errorf("querying table rows: %w", err)
	}
	defer rowRows.Close()

	for rowRows.Next() {
		var rowJSON string
		if err := rowRows.Scan(&rowJSON); err != nil {
			return nil, fmt.Errorf("scanning table row: %w", err)
		}
		var row []string
		if err := json.Unmarshal([]byte(rowJSON), &row); err != nil {
			return nil, fmt.Errorf("decoding row for table %s: %w", tbl.ID, err)
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, rowRows.Err()
}

// LookupRequirements returns requirements filtered by any combination of
// type, vintage, and section.
func (s *Store) LookupRequirements(ctx context.Context, requirementType, vintage, section string, limit int) ([]Requirement, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, vintage, section, requirement_type, description, value, unit
		FROM requirements WHERE 1=1`
	var args []any

	if requirementType != "" {
		query += " AND requirement_type = ?"
		args = append(args, requirementType)
	}
	if vintage != "" {
		query += " AND vintage = ?"
		args = append(args, vintage)
	}
	if section != "" {
		query += " AND section = ?"
		args = append(args, section)
	}
	query += " ORDER BY vintage, section, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying requirements: %w", err)
	}
	defer rows.Close()

	var out []Requirement
	for rows.Next() {
		var r Requirement
		if err := rows.Scan(&r.ID, &r.Vintage, &r.Section, &r.RequirementType, &r.Description, &r.Value, &r.Unit); err != nil {
			return nil, fmt.Errorf("scanning requirement: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CompareRequirements groups requirements of one type by vintage.
// Vintages with no matching rows map to an empty slice, so callers can
// tell "edition checked, nothing extracted" from "edition not checked".
func (s *Store) CompareRequirements(ctx context.Context, requirementType string, vintages []string) (map[string][]Requirement, error) {
	if len(vintages) == 0 {
		vintages = KnownVintages
	}

	out := make(map[string][]Requirement, len(vintages))
	for _, v := range vintages {
		reqs, err := s.LookupRequirements(ctx, requirementType, v, "", 0)
		if err != nil {
			return nil, err
		}
		if reqs == nil {
			reqs = []Requirement{}
		}
		out[v] = reqs
	}
	return out, nil
}

// KeywordSearch runs a full-text query against the search index. The
// raw query is tokenized and each token quoted, so punctuation in user
// input cannot break FTS5 syntax; tokens are OR-ed to keep expanded
// queries from over-constraining. Rank is 1-based by bm25 relevance,
// ties broken by unit ID ascending.
func (s *Store) KeywordSearch(ctx context.Context, query, vintage string, kind Kind, limit int) ([]KeywordHit, error) {
	if limit <= 0 {
		limit = 20
	}

	match := buildMatchExpr(query)
	if match == "" {
		return nil, nil
	}

	sqlQuery := `SELECT unit_id, vintage, content_type, title, content
		FROM search_index
		WHERE search_index MATCH ?`
	args := []any{match}

	if vintage != "" {
		sqlQuery += " AND vintage = ?"
		args = append(args, vintage)
	}
	if kind != "" {
		sqlQuery += " AND content_type = ?"
		args = append(args, string(kind))
	}
	sqlQuery += " ORDER BY bm25(search_index), unit_id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("full-text query: %w", err)
	}
	defer rows.Close()

	var hits []KeywordHit
	rank := 0
	for rows.Next() {
		var h KeywordHit
		var contentType string
		if err := rows.Scan(&h.UnitID, &h.Vintage, &contentType, &h.Title, &h.Content); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		rank++
		h.Rank = rank
		h.Kind = Kind(contentType)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// buildMatchExpr quotes each whitespace-separated token and joins them
// with OR. Embedded double quotes are doubled per FTS5 string rules.
func buildMatchExpr(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, `""`)
		quoted = append(quoted, `"`+f+`"`)
	}
	return strings.Join(quoted, " OR ")
}

// GetUnit resolves a unit ID to its full document unit across all three
// backing tables. Returns ErrInconsistent when the ID is unknown: only
// index entries hold unit IDs, so an unresolvable ID means the index
// and the corpus have desynced.
func (s *Store) GetUnit(ctx context.Context, vintage, unitID string) (*DocumentUnit, error) {
	var sec Section
	err := s.db.QueryRowContext(ctx,
		`SELECT id, vintage, section_number, title, content, page_number
		 FROM sections WHERE id = ? AND vintage = ?`, unitID, vintage).
		Scan(&sec.ID, &sec.Vintage, &sec.SectionNumber, &sec.Title, &sec.Content, &sec.PageNumber)
	if err == nil {
		u := sectionUnit(sec)
		return &u, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("resolving unit %s: %w", unitID, err)
	}

	var tbl Table
	var headersJSON string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, vintage, table_number, title, headers, page_number
		 FROM tables WHERE id = ? AND vintage = ?`, unitID, vintage).
		Scan(&tbl.ID, &tbl.Vintage, &tbl.TableNumber, &tbl.Title, &headersJSON, &tbl.PageNumber)
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(headersJSON), &tbl.Headers); jsonErr != nil {
			return nil, fmt.Errorf("decoding headers for table %s: %w", tbl.ID, jsonErr)
		}
		u := tableUnit(tbl)
		return &u, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("resolving unit %s: %w", unitID, err)
	}

	var req Requirement
	err = s.db.QueryRowContext(ctx,
		`SELECT id, vintage, section, requirement_type, description, value, unit
		 FROM requirements WHERE id = ? AND vintage = ?`, unitID, vintage).
		Scan(&req.ID, &req.Vintage, &req.Section, &req.RequirementType, &req.Description, &req.Value, &req.Unit)
	if err == nil {
		u := requirementUnit(req)
		return &u, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("resolving unit %s: %w", unitID, err)
	}

	return nil, fmt.Errorf("unit %s vintage %s: %w", unitID, vintage, ErrInconsistent)
}

// Units returns every document unit of a vintage in stable ID order.
// The vector indexer consumes this to (re)build the semantic index.
func (s *Store) Units(ctx context.Context, vintage string) ([]DocumentUnit, error) {
	var units []DocumentUnit

	secs, err := s.LookupSections(ctx, vintage, "", "", 1<<30)
	if err != nil {
		return nil, err
	}
	for _, sec := range secs {
		units = append(units, sectionUnit(sec))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, vintage, table_number, title, headers, page_number
		 FROM tables WHERE vintage = ? ORDER BY id`, vintage)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var tableIDs []string
	tableByID := map[string]*Table{}
	for rows.Next() {
		var t Table
		var headersJSON string
		if err := rows.Scan(&t.ID, &t.Vintage, &t.TableNumber, &t.Title, &headersJSON, &t.PageNumber); err != nil {
			return nil, fmt.Errorf("scanning table: %w", err)
		}
		if err := json.Unmarshal([]byte(headersJSON), &t.Headers); err != nil {
			return nil, fmt.Errorf("decoding headers for table %s: %w", t.ID, err)
		}
		tableIDs = append(tableIDs, t.ID)
		tableByID[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range tableIDs {
		t := tableByID[id]
		if err := s.loadRows(ctx, t); err != nil {
			return nil, err
		}
		units = append(units, tableUnit(*t))
	}

	reqs, err := s.LookupRequirements(ctx, "", vintage, "", 1<<30)
	if err != nil {
		return nil, err
	}
	for _, r := range reqs {
		units = append(units, requirementUnit(r))
	}

	return units, nil
}

func (s *Store) loadRows(ctx context.Context, t *Table) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row_data FROM table_rows WHERE table_id = ? ORDER BY id`, t.ID)
	if err != nil {
		return fmt.Errorf("querying rows for table %s: %w", t.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rowJSON string
		if err := rows.Scan(&rowJSON); err != nil {
			return fmt.Errorf("scanning table row: %w", err)
		}
		var row []string
		if err := json.Unmarshal([]byte(rowJSON), &row); err != nil {
			return fmt.Errorf("decoding row for table %s: %w", t.ID, err)
		}
		t.Rows = append(t.Rows, row)
	}
	return rows.Err()
}

func sectionUnit(sec Section) DocumentUnit {
	return DocumentUnit{
		ID:      sec.ID,
		Vintage: sec.Vintage,
		Kind:    KindSection,
		Locator: sec.SectionNumber,
		Title:   sec.Title,
		Body:    sec.Content,
		Page:    sec.PageNumber,
	}
}

func tableUnit(t Table) DocumentUnit {
	return DocumentUnit{
		ID:      t.ID,
		Vintage: t.Vintage,
		Kind:    KindTable,
		Locator: t.TableNumber,
		Title:   t.Title,
		Body:    flattenTable(t),
		Page:    t.PageNumber,
	}
}

func requirementUnit(r Requirement) DocumentUnit {
	body := r.Description
	if r.Value != "" {
		body += " " + r.Value
	}
	if r.Unit != "" {
		body += " " + r.Unit
	}
	return DocumentUnit{
		ID:      r.ID,
		Vintage: r.Vintage,
		Kind:    KindRequirement,
		Locator: r.Section,
		Title:   r.RequirementType,
		Body:    body,
	}
}

// flattenTable renders a table as searchable text: title, then the
// header row, then each data row space-joined.
func flattenTable(t Table) string {
	var sb strings.Builder
	sb.WriteString(t.Title)
	if len(t.Headers) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(t.Headers, " "))
	}
	for _, row := range t.Rows {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(row, " "))
	}
	return sb.String()
}

// ReplaceVintage swaps in a complete edition atomically: inside one
// transaction the vintage's previous rows and index entries are dropped
// and the snapshot inserted. Readers see the old edition until commit.
func (s *Store) ReplaceVintage(ctx context.Context, snap VintageSnapshot) error {
	if snap.Vintage == "" {
		return fmt.Errorf("replace vintage: empty vintage")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM table_rows WHERE table_id IN (SELECT id FROM tables WHERE vintage = ?)`,
		`DELETE FROM tables WHERE vintage = ?`,
		`DELETE FROM sections WHERE vintage = ?`,
		`DELETE FROM requirements WHERE vintage = ?`,
		`DELETE FROM search_index WHERE vintage = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, snap.Vintage); err != nil {
			return fmt.Errorf("clearing vintage %s: %w", snap.Vintage, err)
		}
	}

	for _, sec := range snap.Sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (id, vintage, section_number, title, content, page_number)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			sec.ID, snap.Vintage, sec.SectionNumber, sec.Title, sec.Content, sec.PageNumber); err != nil {
			return fmt.Errorf("inserting section %s: %w", sec.ID, err)
		}
		u := sectionUnit(sec)
		if err := insertIndexEntry(ctx, tx, snap.Vintage, u); err != nil {
			return err
		}
	}

	for _, t := range snap.Tables {
		headersJSON, err := json.Marshal(t.Headers)
		if err != nil {
			return fmt.Errorf("encoding headers for table %s: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tables (id, vintage, table_number, title, headers, page_number)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, snap.Vintage, t.TableNumber, t.Title, string(headersJSON), t.PageNumber); err != nil {
			return fmt.Errorf("inserting table %s: %w", t.ID, err)
		}
		for _, row := range t.Rows {
			rowJSON, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("encoding row for table %s: %w", t.ID, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO table_rows (table_id, row_data) VALUES (?, ?)`,
				t.ID, string(rowJSON)); err != nil {
				return fmt.Errorf("inserting row for table %s: %w", t.ID, err)
			}
		}
		u := tableUnit(t)
		if err := insertIndexEntry(ctx, tx, snap.Vintage, u); err != nil {
			return err
		}
	}

	for _, r := range snap.Requirements {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO requirements (id, vintage, section, requirement_type, description, value, unit)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, snap.Vintage, r.Section, r.RequirementType, r.Description, r.Value, r.Unit); err != nil {
			return fmt.Errorf("inserting requirement %s: %w", r.ID, err)
		}
		u := requirementUnit(r)
		if err := insertIndexEntry(ctx, tx, snap.Vintage, u); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing vintage %s: %w", snap.Vintage, err)
	}
	return nil
}

func insertIndexEntry(ctx context.Context, tx *sql.Tx, vintage string, u DocumentUnit) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO search_index (vintage, content_type, title, content, unit_id)
		 VALUES (?, ?, ?, ?, ?)`,
		vintage, string(u.Kind), u.Title, u.Body, u.ID)
	if err != nil {
		return fmt.Errorf("indexing unit %s: %w", u.ID, err)
	}
	return nil
}
