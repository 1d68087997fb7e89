package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gaugeworks/riverwatch/internal/extract"
	"github.com/gaugeworks/riverwatch/internal/poll"
	"github.com/gaugeworks/riverwatch/internal/station"
)

func TestWritePDF(t *testing.T) {
	reading := extract.Record{Station: "Oxenford Weir", Timestamp: "01/03 09:05", Height: 2.45, Trend: "rising", Status: "minor"}
	st := poll.State{
		Reading:   &reading,
		Stations:  []extract.Record{reading, {Station: "Alpha Creek", Timestamp: "01/03 09:00", Height: 1.2, Trend: "steady", Status: "ok"}},
		Outcome:   station.Selected,
		UpdatedAt: time.Now(),
		Available: true,
	}

	path := filepath.Join(t.TempDir(), "snapshot.pdf")
	if err := WritePDF(path, st, "River Height", "m"); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(b) < 4 || string(b[:4]) != "%PDF" {
		t.Fatalf("output does not look like a PDF (%d bytes)", len(b))
	}
}

func TestWritePDF_NoReading(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := WritePDF(path, poll.State{Outcome: station.EmptySet}, "River Height", "m"); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat output: %v", err)
	}
}
