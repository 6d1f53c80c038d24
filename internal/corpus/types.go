package corpus

// Kind categorizes a document unit within a vintage.
type Kind string

const (
	KindSection     Kind = "section"
	KindTable       Kind = "table"
	KindRequirement Kind = "requirement"
)

// KnownVintages lists the code editions the corpus may contain.
var KnownVintages = []string{"2011", "2015", "2017", "2020"}

// IsKnownVintage reports whether v is a recognized code edition.
func IsKnownVintage(v string) bool {
	for _, kv := range KnownVintages {
		if kv == v {
			return true
		}
	}
	return false
}

// Section is one numbered section of the code text.
type Section struct {
	ID            string
	Vintage       string
	SectionNumber string
	Title         string
	Content       string
	PageNumber    int
}

// Table is a numbered table with its header row and data rows.
type Table struct {
	ID          string
	Vintage     string
	TableNumber string
	Title       string
	Headers     []string
	Rows        [][]string
	PageNumber  int
}

// Requirement is a single extracted requirement with a typed value.
type Requirement struct {
	ID              string
	Vintage         string
	Section         string
	RequirementType string
	Description     string
	Value           string
	Unit            string
}

// DocumentUnit is the smallest indexed entity: a section, table, or
// requirement flattened to searchable text. Units are immutable; a
// vintage is only ever replaced wholesale, never patched row by row.
type DocumentUnit struct {
	ID      string
	Vintage string
	Kind    Kind
	Locator string // section or table number; requirement section reference
	Title   string
	Body    string
	Page    int
}

// VintageSnapshot is the complete contents of one code edition, as
// produced by the external scraping pipeline.
type VintageSnapshot struct {
	Vintage      string
	Sections     []Section
	Tables       []Table
	Requirements []Requirement
}

// KeywordHit is one ranked full-text match. Rank is 1-based in
// descending lexical relevance; ties are broken by unit ID ascending.
type KeywordHit struct {
	UnitID  string
	Vintage string
	Kind    Kind
	Title   string
	Content string
	Rank    int
}
