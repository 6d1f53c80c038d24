package understanding

// ClimateInfo is the fixed classification for a recognized location.
// Zone and HDD figures follow NECB 2020 Appendix C.
type ClimateInfo struct {
	Zone     string
	HDD      int
	Province string
}

// climateZones maps lowercase Canadian city names to their climate
// classification. Lookup is plain substring matching against the query.
var climateZones = map[string]ClimateInfo{
	// Alberta
	"calgary":        {Zone: "7A", HDD: 5000, Province: "AB"},
	"edmonton":       {Zone: "7B", HDD: 5120, Province: "AB"},
	"red deer":       {Zone: "7B", HDD: 5500, Province: "AB"},
	"lethbridge":     {Zone: "6", HDD: 4700, Province: "AB"},
	"grande prairie": {Zone: "8", HDD: 5900, Province: "AB"},
	// British Columbia
	"vancouver":     {Zone: "4", HDD: 3000, Province: "BC"},
	"victoria":      {Zone: "4", HDD: 2700, Province: "BC"},
	"kelowna":       {Zone: "5", HDD: 3500, Province: "BC"},
	"prince george": {Zone: "7B", HDD: 5400, Province: "BC"},
	"fort st. john": {Zone: "8", HDD: 6200, Province: "BC"},
	// Ontario
	"toronto":     {Zone: "5", HDD: 3900, Province: "ON"},
	"ottawa":      {Zone: "6", HDD: 4500, Province: "ON"},
	"windsor":     {Zone: "5", HDD: 3400, Province: "ON"},
	"thunder bay": {Zone: "7A", HDD: 5500, Province: "ON"},
	"sudbury":     {Zone: "6", HDD: 4900, Province: "ON"},
	// Quebec
	"montreal":       {Zone: "6", HDD: 4400, Province: "QC"},
	"quebec city":    {Zone: "6", HDD: 4900, Province: "QC"},
	"sherbrooke":     {Zone: "6", HDD: 4700, Province: "QC"},
	"trois-rivieres": {Zone: "6", HDD: 4800, Province: "QC"},
	// Atlantic
	"halifax":       {Zone: "6", HDD: 4200, Province: "NS"},
	"st. john's":    {Zone: "6", HDD: 4800, Province: "NL"},
	"fredericton":   {Zone: "6", HDD: 4500, Province: "NB"},
	"charlottetown": {Zone: "6", HDD: 4400, Province: "PE"},
	// Prairies
	"winnipeg":  {Zone: "7A", HDD: 5700, Province: "MB"},
	"regina":    {Zone: "7A", HDD: 5600, Province: "SK"},
	"saskatoon": {Zone: "7B", HDD: 6000, Province: "SK"},
	// Territories
	"whitehorse":  {Zone: "8", HDD: 6580, Province: "YT"},
	"yellowknife": {Zone: "8", HDD: 8300, Province: "NT"},
	"iqaluit":     {Zone: "8", HDD: 11000, Province: "NU"},
}

// hddRange maps a heating-degree-day figure to the range wording used
// by the code's envelope tables.
func hddRange(hdd int) string {
	switch {
	case hdd < 3000:
		return "< 3000"
	case hdd < 4000:
		return "3000 to 3999"
	case hdd < 5000:
		return "4000 to 4999"
	case hdd < 6000:
		return "5000 to 5999"
	case hdd < 7000:
		return "6000 to 6999"
	default:
		return ">= 7000"
	}
}
