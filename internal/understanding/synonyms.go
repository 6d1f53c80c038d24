package understanding

// conceptSynonyms maps colloquial phrases to the canonical terminology
// the code actually uses. A phrase may expand to several canonical
// terms, and several phrases may share canonical terms.
var conceptSynonyms = map[string][]string{
	// Fenestration / windows
	"window":      {"fenestration", "glazing", "glass", "FDWR", "window-to-wall ratio"},
	"window area": {"fenestration area", "glazing area", "FDWR", "fenestration-door-wall ratio"},
	"glass":       {"glazing", "fenestration", "transparent elements"},
	// Thermal properties
	"insulation": {"thermal resistance", "RSI", "R-value", "thermal transmittance", "U-value"},
	"r-value":    {"RSI", "thermal resistance", "insulation value"},
	"u-value":    {"thermal transmittance", "heat transfer coefficient"},
	"thermal":    {"heat transfer", "insulation", "envelope performance"},
	// Building envelope
	"wall":  {"above-grade wall", "exterior wall", "building envelope"},
	"roof":  {"ceiling", "attic", "building envelope"},
	"floor": {"slab", "below-grade", "building envelope"},
	// Lighting
	"lighting": {"lighting power density", "LPD", "illumination", "luminaire"},
	"light":    {"lighting power", "LPD", "luminaire"},
	// HVAC
	"hvac":        {"heating", "cooling", "ventilation", "mechanical systems"},
	"heating":     {"furnace", "boiler", "heat pump", "thermal equipment"},
	"cooling":     {"chiller", "air conditioning", "cooling equipment"},
	"ventilation": {"fresh air", "outdoor air", "air changes"},
}

// buildingTypes maps each code building classification to the everyday
// phrasings that should resolve to it.
var buildingTypes = map[string][]string{
	"office":     {"office building", "commercial office", "workspace"},
	"retail":     {"store", "shop", "commercial retail", "mercantile"},
	"school":     {"educational", "classroom", "university", "college"},
	"warehouse":  {"storage", "distribution", "industrial"},
	"hotel":      {"motel", "lodging", "accommodation", "hospitality"},
	"restaurant": {"food service", "dining", "cafeteria"},
	"hospital":   {"healthcare", "medical", "clinic"},
	"apartment":  {"residential", "multi-unit residential", "MURB"},
	"assembly":   {"auditorium", "theatre", "arena", "convention center"},
}
