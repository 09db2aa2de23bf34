// Package pdf renders the shopping list report into a downloadable document.
package pdf

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

// Document is the structured report handed over by the aggregator: the core
// produces the lines, this package only draws them.
type Document struct {
	FileName  string
	Title     string
	UserLabel string
	Lines     []string
}

// Render draws the document on a single-column A4 page and returns the PDF
// bytes. An empty Lines slice produces a valid document with an empty body.
func Render(doc Document) ([]byte, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle(doc.Title, true)
	p.AddPage()

	p.SetFont("Helvetica", "B", 18)
	p.CellFormat(0, 12, doc.Title, "", 1, "C", false, 0, "")

	p.SetFont("Helvetica", "", 12)
	p.CellFormat(0, 10, doc.UserLabel, "", 1, "L", false, 0, "")
	p.Ln(4)

	for _, line := range doc.Lines {
		p.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
