// Package report renders a point-in-time snapshot of the extracted
// readings, for one-shot runs that want a file instead of a server.
package report

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaugeworks/riverwatch/internal/poll"
)

// WritePDF renders the snapshot as a simple table PDF: a header naming the
// selected reading, then one row per extracted station.
func WritePDF(path string, st poll.State, name, unit string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if st.Reading != nil && st.Available {
		line := fmt.Sprintf("Selected: %s at %.2f%s (%s, %s)",
			st.Reading.Station, st.Reading.Height, unit, st.Reading.Trend, st.Reading.Status)
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
		if st.Reading.Annotation != "" {
			pdf.CellFormat(0, 6, st.Reading.Annotation, "", 1, "L", false, 0, "")
		}
	} else {
		pdf.CellFormat(0, 6, "No active reading ("+st.Outcome.String()+")", "", 1, "L", false, 0, "")
	}
	if !st.UpdatedAt.IsZero() {
		pdf.CellFormat(0, 6, "Updated "+st.UpdatedAt.Format(time.RFC1123), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{70, 35, 30, 25, 30}
	headers := []string{"Station", "Observed", "Height (" + unit + ")", "Trend", "Status"}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range st.Stations {
		pdf.CellFormat(widths[0], 6, r.Station, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Timestamp, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%.2f", r.Height), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Trend, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.Status, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	return pdf.OutputFileAndClose(path)
}
