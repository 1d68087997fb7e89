package extract

import (
	"math"
	"strconv"
	"strings"
)

// Record is one river-station reading recovered from a bulletin table row.
// It is a plain value; callers must not mutate records they did not build.
type Record struct {
	Station   string
	Timestamp string
	Height    float64
	Trend     string
	Status    string
	// Annotation is out-of-band text recovered from a METADATA comment in
	// the row. Empty means the row carried no annotation.
	Annotation string
}

// parseRecord builds a Record from one row's cell strings. A row with fewer
// than six cells, or whose height cell does not parse to a finite number,
// is rejected whole; there is no partial record.
func parseRecord(cells []string, annotation string) (Record, bool) {
	if len(cells) < 6 {
		return Record{}, false
	}
	height, ok := parseHeight(cells[2])
	if !ok {
		return Record{}, false
	}
	// cells[4] is not part of the record; the sixth column carries the
	// station status.
	return Record{
		Station:    strings.TrimSpace(cells[0]),
		Timestamp:  strings.TrimSpace(cells[1]),
		Height:     height,
		Trend:      strings.TrimSpace(cells[3]),
		Status:     strings.TrimSpace(cells[5]),
		Annotation: annotation,
	}, true
}

// parseHeight normalizes raw height text like "1,234.5m" and parses it.
// Thousands separators and metre suffixes are stripped before parsing.
func parseHeight(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "m", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
