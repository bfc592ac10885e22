package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10.0
	portraitWidth = 210.0
	landscapeWide = 297.0
)

// PDFExporter renders a Document as a print-ready A4 sheet.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) ContentType() string { return "application/pdf" }

func (e *PDFExporter) Extension() string { return "pdf" }

func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if err := doc.validate("pdf"); err != nil {
		return nil, err
	}

	orientation, pageWidth := "P", portraitWidth
	if doc.Landscape {
		orientation, pageWidth = "L", landscapeWide
	}
	usable := pageWidth - 2*pdfMargin

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pdfMargin, 15, pdfMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, tr(doc.Title), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "", 10)
	for _, line := range doc.Subtitles {
		pdf.CellFormat(0, 6, tr(line), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	widths := columnWidths(doc, usable)
	fontSize := 9.0
	if len(doc.Headers) > 12 {
		fontSize = 6.5
	}

	pdf.SetFont("Arial", "B", fontSize)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range doc.Headers {
		pdf.CellFormat(widths[i], 7, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", fontSize)
	for _, row := range doc.Rows {
		row = padRow(row, len(doc.Headers))
		for i, value := range row {
			align := "C"
			if widths[i] >= 30 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, tr(value), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if doc.Signatures != nil {
		renderSignatures(pdf, tr, *doc.Signatures, usable)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderSignatures(pdf *gofpdf.Fpdf, tr func(string) string, sig Signatures, usable float64) {
	half := usable / 2
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)

	lines := len(sig.Left.Heading)
	if len(sig.Right.Heading) > lines {
		lines = len(sig.Right.Heading)
	}
	for i := 0; i < lines; i++ {
		pdf.CellFormat(half, 5, tr(lineAt(sig.Left.Heading, i)), "", 0, "C", false, 0, "")
		pdf.CellFormat(half, 5, tr(lineAt(sig.Right.Heading, i)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(18)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(half, 5, tr(sig.Left.DisplayName()), "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 5, tr(sig.Right.DisplayName()), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(half, 5, tr(sig.Left.DisplayNIP()), "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 5, tr(sig.Right.DisplayNIP()), "", 1, "C", false, 0, "")
}

func columnWidths(doc Document, usable float64) []float64 {
	if len(doc.ColumnWidths) == len(doc.Headers) {
		return doc.ColumnWidths
	}
	widths := make([]float64, len(doc.Headers))
	even := usable / float64(len(doc.Headers))
	for i := range widths {
		widths[i] = even
	}
	return widths
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
