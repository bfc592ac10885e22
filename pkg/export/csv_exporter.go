package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders the table part of a Document as delimited text.
type CSVExporter struct {
	comma rune
}

// NewCSVExporter builds a CSV exporter; a zero comma falls back to ';'.
func NewCSVExporter(comma rune) *CSVExporter {
	if comma == 0 {
		comma = ';'
	}
	return &CSVExporter{comma: comma}
}

func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

func (e *CSVExporter) Extension() string { return "csv" }

// Render writes the headers and rows. Headings and signatures have no CSV form and are skipped.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	if err := doc.validate("csv"); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	writer.Comma = e.comma
	if err := writer.Write(doc.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range doc.Rows {
		if err := writer.Write(padRow(row, len(doc.Headers))); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func padRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func errNoHeaders(kind string) error {
	return fmt.Errorf("%s requires at least one header", kind)
}
