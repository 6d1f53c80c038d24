package vectordb

import "strconv"

// Document is one embedded corpus unit with its copied metadata.
type Document struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  DocumentMetadata
}

// DocumentMetadata mirrors the corpus fields downstream tools read from
// search results, so semantic hits carry the same annotations as
// keyword hits.
type DocumentMetadata struct {
	Vintage       string
	Type          string
	Title         string
	PageNumber    int
	SectionNumber string
	TableNumber   string
}

// SearchResult pairs a document with its similarity score and rank.
// Rank is 1-based in decreasing cosine similarity.
type SearchResult struct {
	Document   Document
	Similarity float32
	Rank       int
}

// metadataToMap converts DocumentMetadata to a flat map[string]string for chromem.
func metadataToMap(m DocumentMetadata) map[string]string {
	return map[string]string{
		"vintage":        m.Vintage,
		"type":           m.Type,
		"title":          m.Title,
		"page_number":    strconv.Itoa(m.PageNumber),
		"section_number": m.SectionNumber,
		"table_number":   m.TableNumber,
	}
}

// mapToMetadata converts a flat map[string]string back to DocumentMetadata.
func mapToMetadata(m map[string]string) DocumentMetadata {
	page, _ := strconv.Atoi(m["page_number"])
	return DocumentMetadata{
		Vintage:       m["vintage"],
		Type:          m["type"],
		Title:         m["title"],
		PageNumber:    page,
		SectionNumber: m["section_number"],
		TableNumber:   m["table_number"],
	}
}
