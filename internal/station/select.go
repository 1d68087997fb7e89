// Package station resolves which extracted record is the active reading.
package station

import (
	"strings"

	"github.com/gaugeworks/riverwatch/internal/extract"
)

// Outcome classifies the result of resolving a station filter against a
// record set. NoMatch and EmptySet are logged differently but consumers
// treat both as "no active reading".
type Outcome int

const (
	Selected Outcome = iota
	NoMatch
	EmptySet
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case NoMatch:
		return "no match"
	case EmptySet:
		return "empty set"
	default:
		return "unknown"
	}
}

// Select picks one record out of records. A nil filter selects the first
// record. A non-nil filter selects the first record whose station name
// contains the filter text, case-insensitively; document order breaks ties.
// The empty string is a valid filter that matches every station, which is
// not the same as having no filter configured at all.
//
// The returned index is -1 unless the outcome is Selected. Select is pure:
// the same inputs always yield the same index.
func Select(records []extract.Record, filter *string) (int, Outcome) {
	if len(records) == 0 {
		return -1, EmptySet
	}
	if filter == nil {
		return 0, Selected
	}
	needle := strings.ToLower(*filter)
	for i, r := range records {
		if strings.Contains(strings.ToLower(r.Station), needle) {
			return i, Selected
		}
	}
	return -1, NoMatch
}
