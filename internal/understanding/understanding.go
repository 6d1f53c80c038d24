// Package understanding turns free-text queries into structured hints
// and an expanded query. Extraction is rule and lookup based, never a
// model call: the same input always produces the same output, and a
// query with nothing recognizable yields empty fields, not an error.
package understanding

import (
	"regexp"
	"sort"
	"strings"
)

// Entities holds the structured hints extracted from a query. Absent
// entities are zero values.
type Entities struct {
	Query        string
	Location     string
	ClimateZone  string
	HDD          int
	Province     string
	BuildingType string
	Concepts     []string // matched colloquial concepts, sorted
	Terms        []string // canonical expansion terms, insertion-ordered, deduplicated
	Vintage      string   // advisory vintage mention, e.g. "2020"
}

var vintagePattern = regexp.MustCompile(`\b(2011|2015|2017|2020)\b`)

// Understand extracts entities from a natural-language query.
func Understand(query string) Entities {
	lower := strings.ToLower(query)

	e := Entities{Query: query}

	if city, info := extractLocation(lower); city != "" {
		e.Location = titleCase(city)
		e.ClimateZone = info.Zone
		e.HDD = info.HDD
		e.Province = info.Province
	}

	e.BuildingType = extractBuildingType(lower)
	e.Concepts, e.Terms = extractConcepts(lower)

	if m := vintagePattern.FindStringSubmatch(lower); m != nil {
		e.Vintage = m[1]
	}

	e.Terms = append(e.Terms, entityTerms(e)...)
	e.Terms = dedupe(e.Terms)

	return e
}

// ExpandedQuery returns the original query text followed by every
// expansion term, space-joined with duplicates removed. Both search
// legs consume this instead of the raw query.
func (e Entities) ExpandedQuery() string {
	parts := append([]string{e.Query}, e.Terms...)
	return strings.Join(dedupe(parts), " ")
}

// extractLocation finds the first gazetteer city mentioned in the
// query. Cities are checked in sorted order so ties are deterministic.
func extractLocation(query string) (string, ClimateInfo) {
	cities := make([]string, 0, len(climateZones))
	for city := range climateZones {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	for _, city := range cities {
		if strings.Contains(query, city) {
			return city, climateZones[city]
		}
	}
	return "", ClimateInfo{}
}

func extractBuildingType(query string) string {
	types := make([]string, 0, len(buildingTypes))
	for bt := range buildingTypes {
		types = append(types, bt)
	}
	sort.Strings(types)

	for _, bt := range types {
		if strings.Contains(query, bt) {
			return bt
		}
	}
	for _, bt := range types {
		for _, syn := range buildingTypes[bt] {
			if strings.Contains(query, syn) {
				return bt
			}
		}
	}
	return ""
}

// extractConcepts scans for colloquial concept phrases and their
// synonyms, returning matched concepts (sorted) and the canonical
// terms they expand to (insertion order, deduplicated).
func extractConcepts(query string) (concepts, terms []string) {
	keys := make([]string, 0, len(conceptSynonyms))
	for c := range conceptSynonyms {
		keys = append(keys, c)
	}
	sort.Strings(keys)

	seen := map[string]bool{}
	for _, concept := range keys {
		matched := strings.Contains(query, concept)
		if !matched {
			for _, syn := range conceptSynonyms[concept] {
				if strings.Contains(query, strings.ToLower(syn)) {
					matched = true
					break
				}
			}
		}
		if !matched {
			continue
		}
		if !seen[concept] {
			seen[concept] = true
			concepts = append(concepts, concept)
		}
		terms = append(terms, conceptSynonyms[concept]...)
	}
	return concepts, dedupe(terms)
}

// entityTerms derives extra expansion terms from non-concept entities:
// climate-zone wording, the HDD table range, and building-type
// synonyms.
func entityTerms(e Entities) []string {
	var terms []string
	if e.ClimateZone != "" {
		terms = append(terms, "Zone "+e.ClimateZone, "Climate Zone "+e.ClimateZone)
	}
	if e.HDD > 0 {
		terms = append(terms, hddRange(e.HDD))
	}
	if e.BuildingType != "" {
		terms = append(terms, e.BuildingType)
		terms = append(terms, buildingTypes[e.BuildingType]...)
	}
	return terms
}

// titleCase uppercases the first letter of each space-separated word.
// Gazetteer keys are plain ASCII, so byte-level casing is enough.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
