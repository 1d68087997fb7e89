package station

import (
	"testing"

	"github.com/gaugeworks/riverwatch/internal/extract"
)

func strptr(s string) *string { return &s }

func stations(names ...string) []extract.Record {
	out := make([]extract.Record, 0, len(names))
	for _, n := range names {
		out = append(out, extract.Record{Station: n})
	}
	return out
}

func TestSelect_NoFilterReturnsFirst(t *testing.T) {
	records := stations("Alpha Creek", "Beta River", "Gamma Bend")
	idx, outcome := Select(records, nil)
	if outcome != Selected || idx != 0 {
		t.Fatalf("expected first record selected, got idx=%d outcome=%v", idx, outcome)
	}
}

func TestSelect_FilterFirstMatchCaseInsensitive(t *testing.T) {
	records := stations("Alpha Creek", "Oxenford Weir", "Beta Weir")
	idx, outcome := Select(records, strptr("weir"))
	if outcome != Selected {
		t.Fatalf("expected a match, got %v", outcome)
	}
	if records[idx].Station != "Oxenford Weir" {
		t.Fatalf("expected first match in document order, got %q", records[idx].Station)
	}
}

func TestSelect_FilterNoMatch(t *testing.T) {
	records := stations("Alpha Creek", "Beta River")
	idx, outcome := Select(records, strptr("delta"))
	if outcome != NoMatch || idx != -1 {
		t.Fatalf("expected no match, got idx=%d outcome=%v", idx, outcome)
	}
}

func TestSelect_EmptyFilterMatchesEverything(t *testing.T) {
	// An empty filter string is a substring of any name; it must behave as
	// "select first", not as "no filter configured".
	records := stations("Alpha Creek", "Beta River")
	idx, outcome := Select(records, strptr(""))
	if outcome != Selected || idx != 0 {
		t.Fatalf("empty filter must select the first record, got idx=%d outcome=%v", idx, outcome)
	}
}

func TestSelect_EmptySet(t *testing.T) {
	if idx, outcome := Select(nil, nil); outcome != EmptySet || idx != -1 {
		t.Fatalf("nil records without filter: idx=%d outcome=%v", idx, outcome)
	}
	if idx, outcome := Select(nil, strptr("weir")); outcome != EmptySet || idx != -1 {
		t.Fatalf("nil records with filter: idx=%d outcome=%v", idx, outcome)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	records := stations("Alpha Weir", "Beta Weir")
	i1, _ := Select(records, strptr("weir"))
	i2, _ := Select(records, strptr("weir"))
	if i1 != i2 {
		t.Fatalf("selection must be stable, got %d then %d", i1, i2)
	}
}

func TestOutcomeString(t *testing.T) {
	cases := map[Outcome]string{
		Selected: "selected",
		NoMatch:  "no match",
		EmptySet: "empty set",
	}
	for o, want := range cases {
		if o.String() != want {
			t.Fatalf("Outcome(%d).String() = %q, want %q", o, o.String(), want)
		}
	}
}
