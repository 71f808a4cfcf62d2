package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Block is one piece of a document, rendered in order. Exactly one of
// Heading, Paragraph or Table is set.
type Block struct {
	Heading   string
	Paragraph string
	Table     *Table
}

// Document is a printable content artifact: a title, subtitle lines
// shown under it, then an ordered sequence of blocks.
type Document struct {
	Title    string
	Subtitle []string
	Blocks   []Block
}

// PDFExporter renders a Document into an A4 PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF bytes for a document.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if doc.Title == "" {
		return nil, fmt.Errorf("pdf requires a title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 9, doc.Title, "", "C", false)
	if len(doc.Subtitle) > 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 6, strings.Join(doc.Subtitle, "  |  "), "", "C", false)
	}
	pdf.Ln(4)

	for _, block := range doc.Blocks {
		switch {
		case block.Heading != "":
			pdf.SetFont("Arial", "B", 12)
			pdf.MultiCell(0, 8, block.Heading, "", "L", false)
			pdf.Ln(1)
		case block.Paragraph != "":
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5.5, block.Paragraph, "", "L", false)
			pdf.Ln(2)
		case block.Table != nil:
			e.renderTable(pdf, block.Table)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) renderTable(pdf *gofpdf.Fpdf, table *Table) {
	if len(table.Headers) == 0 {
		return
	}
	if table.Caption != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 7, table.Caption, "", "L", false)
	}

	colWidth := 190.0 / float64(len(table.Headers))
	pdf.SetFont("Arial", "B", 9)
	for _, header := range table.Headers {
		pdf.CellFormat(colWidth, 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range table.Rows {
		// Row height grows with the tallest wrapped cell.
		lines := 1
		for _, header := range table.Headers {
			n := len(pdf.SplitText(row[header], colWidth-2))
			if n > lines {
				lines = n
			}
		}
		height := float64(lines) * 4.5
		x, y := pdf.GetXY()
		for _, header := range table.Headers {
			pdf.Rect(x, y, colWidth, height, "D")
			pdf.SetXY(x+1, y+0.5)
			pdf.MultiCell(colWidth-2, 4.5, row[header], "", "L", false)
			x += colWidth
			pdf.SetXY(x, y)
		}
		pdf.SetXY(pdf.GetX()-190.0, y+height)
		pdf.SetX(10)
	}
	pdf.Ln(3)
}
