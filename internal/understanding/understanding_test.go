package understanding

import (
	"reflect"
	"strings"
	"testing"
)

func TestUnderstand_Location(t *testing.T) {
	e := Understand("What are the wall insulation requirements for Winnipeg?")

	if e.Location != "Winnipeg" {
		t.Errorf("location = %q, want Winnipeg", e.Location)
	}
	if e.ClimateZone != "7A" {
		t.Errorf("climate zone = %q, want 7A", e.ClimateZone)
	}
	if e.HDD != 5700 {
		t.Errorf("HDD = %d, want 5700", e.HDD)
	}
	if e.Province != "MB" {
		t.Errorf("province = %q, want MB", e.Province)
	}

	// Location-derived expansion terms.
	wantTerms := []string{"Zone 7A", "Climate Zone 7A", "5000 to 5999"}
	for _, want := range wantTerms {
		found := false
		for _, term := range e.Terms {
			if term == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("terms missing %q: %v", want, e.Terms)
		}
	}
}

func TestUnderstand_MultiWordCity(t *testing.T) {
	e := Understand("fenestration limits in quebec city for a school")
	if e.Location != "Quebec City" {
		t.Errorf("location = %q, want Quebec City", e.Location)
	}
	if e.BuildingType != "school" {
		t.Errorf("building type = %q, want school", e.BuildingType)
	}
}

func TestUnderstand_BuildingTypeSynonym(t *testing.T) {
	e := Understand("lighting rules for a store")
	if e.BuildingType != "retail" {
		t.Errorf("building type = %q, want retail (via synonym)", e.BuildingType)
	}
}

func TestUnderstand_Concepts(t *testing.T) {
	e := Understand("how much window area is allowed")

	joined := strings.Join(e.Concepts, ",")
	if !strings.Contains(joined, "window") {
		t.Errorf("concepts = %v, want window matched", e.Concepts)
	}

	found := false
	for _, term := range e.Terms {
		if term == "fenestration" {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("terms missing canonical expansion fenestration: %v", e.Terms)
	}
}

func TestUnderstand_Vintage(t *testing.T) {
	e := Understand("u-value limits in NECB 2017")
	if e.Vintage != "2017" {
		t.Errorf("vintage = %q, want 2017", e.Vintage)
	}

	e = Understand("u-value limits")
	if e.Vintage != "" {
		t.Errorf("vintage = %q, want empty", e.Vintage)
	}
}

func TestUnderstand_NothingRecognized(t *testing.T) {
	e := Understand("zzz qqq xyzzy")

	if e.Location != "" || e.ClimateZone != "" || e.HDD != 0 || e.BuildingType != "" {
		t.Errorf("expected empty entities, got %+v", e)
	}
	if len(e.Concepts) != 0 || len(e.Terms) != 0 {
		t.Errorf("expected no expansion, got concepts=%v terms=%v", e.Concepts, e.Terms)
	}
	if e.ExpandedQuery() != "zzz qqq xyzzy" {
		t.Errorf("expanded query = %q, want the original", e.ExpandedQuery())
	}
}

func TestUnderstand_Deterministic(t *testing.T) {
	const q = "window and wall insulation for an office in toronto, NECB 2020"
	first := Understand(q)
	for i := 0; i < 10; i++ {
		again := Understand(q)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\nfirst: %+v\nagain: %+v", i, first, again)
		}
	}
}

func TestExpandedQuery_Dedupes(t *testing.T) {
	e := Entities{
		Query: "insulation",
		Terms: []string{"thermal resistance", "insulation", "RSI", "RSI"},
	}
	got := e.ExpandedQuery()
	want := "insulation thermal resistance RSI"
	if got != want {
		t.Errorf("ExpandedQuery() = %q, want %q", got, want)
	}
}

func TestHDDRange(t *testing.T) {
	tests := []struct {
		hdd  int
		want string
	}{
		{2700, "< 3000"},
		{3000, "3000 to 3999"},
		{3999, "3000 to 3999"},
		{4500, "4000 to 4999"},
		{5700, "5000 to 5999"},
		{6580, "6000 to 6999"},
		{8300, ">= 7000"},
	}
	for _, tt := range tests {
		if got := hddRange(tt.hdd); got != tt.want {
			t.Errorf("hddRange(%d) = %q, want %q", tt.hdd, got, tt.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"winnipeg", "Winnipeg"},
		{"quebec city", "Quebec City"},
		{"fort st. john", "Fort St. John"},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
