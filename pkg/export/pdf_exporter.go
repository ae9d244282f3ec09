package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders seating charts as landscape A4 documents.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// RenderSeatingChart draws the classroom as a grid of numbered cells with
// the given column count. Occupied seats carry the student's name under the
// seat number; empty seats stay blank.
func (e *PDFExporter) RenderSeatingChart(title string, seatCount, columns int, occupants map[int]string) ([]byte, error) {
	if seatCount <= 0 {
		return nil, fmt.Errorf("seating chart requires at least one seat")
	}
	if columns <= 0 {
		columns = 8
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	cellWidth := 277.0 / float64(columns)
	const cellHeight = 16.0

	for seat := 1; seat <= seatCount; seat++ {
		pdf.SetFont("Arial", "B", 9)
		x, y := pdf.GetXY()
		pdf.Rect(x, y, cellWidth, cellHeight, "D")
		pdf.CellFormat(cellWidth, 6, fmt.Sprintf("%d", seat), "", 2, "C", false, 0, "")
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(cellWidth, 6, occupants[seat], "", 0, "C", false, 0, "")
		pdf.SetXY(x+cellWidth, y)
		if seat%columns == 0 {
			pdf.SetXY(10, y+cellHeight)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render seating chart: %w", err)
	}
	return buf.Bytes(), nil
}
