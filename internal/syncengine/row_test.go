package syncengine

import "testing"

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Class Price":  "class price",
		"class_price":  "class price",
		"CLASS-PRICE":  "class price",
		"  Special ID": "special id",
		"class__name":  "class name",
	}
	for input, want := range cases {
		if got := normalizeHeader(input); got != want {
			t.Fatalf("normalizeHeader(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCanonicalizeResolvesSynonyms(t *testing.T) {
	row := Row{
		"Special ID":  " CR01 ",
		"Class Price": "10.50",
		"Group":       "premium",
		"Mystery":     "dropped",
	}

	record := canonicalize(row)
	if record[fieldSpecialID] != "CR01" {
		t.Fatalf("special id = %q", record[fieldSpecialID])
	}
	if record[fieldClassPrice] != "10.50" {
		t.Fatalf("price = %q", record[fieldClassPrice])
	}
	if record[fieldQuality] != "premium" {
		t.Fatalf("quality = %q", record[fieldQuality])
	}
	if _, ok := record["Mystery"]; ok {
		t.Fatal("unrecognized column should be dropped")
	}
}

func TestParseDecimalCell(t *testing.T) {
	if got := parseDecimalCell("1,250.75"); got == nil || got.String() != "1250.75" {
		t.Fatalf("thousands separator: got %v", got)
	}
	if got := parseDecimalCell("  "); got != nil {
		t.Fatalf("blank should be nil, got %v", got)
	}
	if got := parseDecimalCell("on request"); got != nil {
		t.Fatalf("unparseable should be nil, got %v", got)
	}
}

func TestParseIntCell(t *testing.T) {
	if got := parseIntCell("42"); got == nil || *got != 42 {
		t.Fatalf("got %v", got)
	}
	if got := parseIntCell("4.2"); got != nil {
		t.Fatalf("non-integer should be nil, got %v", got)
	}
	if got := parseIntCell(""); got != nil {
		t.Fatalf("blank should be nil, got %v", got)
	}
}
