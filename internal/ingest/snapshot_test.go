package ingest

import (
	"strings"
	"testing"
)

const sampleSnapshot = `{
  "vintage": "2020",
  "sections": [
    {
      "id": "sec-1",
      "section_number": "3.2.2.2",
      "title": "Thermal Characteristics",
      "content": "Assemblies shall conform to the listed transmittance values.",
      "page_number": 41
    }
  ],
  "tables": [
    {
      "id": "tbl-1",
      "table_number": "Table 3.2.2.2.",
      "title": "Maximum Overall Thermal Transmittance",
      "headers": ["Assembly", "Zone 6"],
      "rows": [["Walls", "0.247"], ["Roofs", "0.183"]],
      "page_number": 42
    }
  ],
  "requirements": [
    {
      "id": "req-1",
      "section": "3.2.2.2",
      "requirement_type": "u_value",
      "description": "Maximum wall transmittance, Zone 6",
      "value": "0.247",
      "unit": "W/(m2*K)"
    }
  ]
}`

func TestReadSnapshot(t *testing.T) {
	snap, err := ReadSnapshot(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	if snap.Vintage != "2020" {
		t.Errorf("vintage = %q, want 2020", snap.Vintage)
	}
	if len(snap.Sections) != 1 || len(snap.Tables) != 1 || len(snap.Requirements) != 1 {
		t.Fatalf("counts = %d/%d/%d, want 1/1/1",
			len(snap.Sections), len(snap.Tables), len(snap.Requirements))
	}

	sec := snap.Sections[0]
	if sec.Vintage != "2020" {
		t.Errorf("section vintage not stamped: %q", sec.Vintage)
	}
	if sec.SectionNumber != "3.2.2.2" || sec.PageNumber != 41 {
		t.Errorf("section = %+v", sec)
	}

	tbl := snap.Tables[0]
	if len(tbl.Headers) != 2 || len(tbl.Rows) != 2 {
		t.Errorf("table shape = %d headers, %d rows", len(tbl.Headers), len(tbl.Rows))
	}
	if tbl.Rows[0][1] != "0.247" {
		t.Errorf("row data = %v", tbl.Rows[0])
	}

	req := snap.Requirements[0]
	if req.RequirementType != "u_value" || req.Value != "0.247" || req.Unit != "W/(m2*K)" {
		t.Errorf("requirement = %+v", req)
	}
}

func TestReadSnapshot_MissingVintage(t *testing.T) {
	_, err := ReadSnapshot(strings.NewReader(`{"sections": []}`))
	if err == nil {
		t.Fatal("expected an error for a snapshot without a vintage")
	}
}

func TestReadSnapshot_Malformed(t *testing.T) {
	_, err := ReadSnapshot(strings.NewReader(`{"vintage": `))
	if err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestReadSnapshotFile_Missing(t *testing.T) {
	_, err := ReadSnapshotFile(t.TempDir() + "/absent.json")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
