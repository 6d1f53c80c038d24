// Package ingest decodes corpus snapshots produced by the external
// scraping pipeline. The pipeline itself lives elsewhere; this package
// only consumes its JSON dump format.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/northbuild/necbquery/internal/corpus"
)

// snapshotFile mirrors the scraper's dump format.
type snapshotFile struct {
	Vintage  string `json:"vintage"`
	Sections []struct {
		ID            string `json:"id"`
		SectionNumber string `json:"section_number"`
		Title         string `json:"title"`
		Content       string `json:"content"`
		PageNumber    int    `json:"page_number"`
	} `json:"sections"`
	Tables []struct {
		ID          string     `json:"id"`
		TableNumber string     `json:"table_number"`
		Title       string     `json:"title"`
		Headers     []string   `json:"headers"`
		Rows        [][]string `json:"rows"`
		PageNumber  int        `json:"page_number"`
	} `json:"tables"`
	Requirements []struct {
		ID              string `json:"id"`
		Section         string `json:"section"`
		RequirementType string `json:"requirement_type"`
		Description     string `json:"description"`
		Value           string `json:"value"`
		Unit            string `json:"unit"`
	} `json:"requirements"`
}

// ReadSnapshot decodes one vintage snapshot from r.
func ReadSnapshot(r io.Reader) (*corpus.VintageSnapshot, error) {
	var f snapshotFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if f.Vintage == "" {
		return nil, fmt.Errorf("snapshot has no vintage")
	}

	snap := &corpus.VintageSnapshot{Vintage: f.Vintage}
	for _, s := range f.Sections {
		snap.Sections = append(snap.Sections, corpus.Section{
			ID:            s.ID,
			Vintage:       f.Vintage,
			SectionNumber: s.SectionNumber,
			Title:         s.Title,
			Content:       s.Content,
			PageNumber:    s.PageNumber,
		})
	}
	for _, t := range f.Tables {
		snap.Tables = append(snap.Tables, corpus.Table{
			ID:          t.ID,
			Vintage:     f.Vintage,
			TableNumber: t.TableNumber,
			Title:       t.Title,
			Headers:     t.Headers,
			Rows:        t.Rows,
			PageNumber:  t.PageNumber,
		})
	}
	for _, r := range f.Requirements {
		snap.Requirements = append(snap.Requirements, corpus.Requirement{
			ID:              r.ID,
			Vintage:         f.Vintage,
			Section:         r.Section,
			RequirementType: r.RequirementType,
			Description:     r.Description,
			Value:           r.Value,
			Unit:            r.Unit,
		})
	}
	return snap, nil
}

// ReadSnapshotFile decodes one vintage snapshot from a file path.
func ReadSnapshotFile(path string) (*corpus.VintageSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}
