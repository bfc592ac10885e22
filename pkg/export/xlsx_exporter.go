package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Absensi"

// XLSXExporter renders a Document into a single-sheet workbook.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *XLSXExporter) Extension() string { return "xlsx" }

func (e *XLSXExporter) Render(doc Document) ([]byte, error) {
	if err := doc.validate("xlsx"); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	if doc.Title != "" {
		if err := setRow(f, row, []string{doc.Title}); err != nil {
			return nil, err
		}
		row++
	}
	for _, line := range doc.Subtitles {
		if err := setRow(f, row, []string{line}); err != nil {
			return nil, err
		}
		row++
	}
	if row > 1 {
		row++
	}

	headerRow := row
	if err := setRow(f, row, doc.Headers); err != nil {
		return nil, err
	}
	row++
	for _, values := range doc.Rows {
		if err := setRow(f, row, padRow(values, len(doc.Headers))); err != nil {
			return nil, err
		}
		row++
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(doc.Headers), headerRow)
	if err := f.SetCellStyle(xlsxSheet, first, last, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	if doc.Signatures != nil {
		if err := writeSignatures(f, row+1, len(doc.Headers), *doc.Signatures); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeSignatures(f *excelize.File, row, width int, sig Signatures) error {
	rightCol := width - 2
	if rightCol < 2 {
		rightCol = 2
	}
	left := append(append([]string{}, sig.Left.Heading...), "", "", sig.Left.DisplayName(), sig.Left.DisplayNIP())
	right := append(append([]string{}, sig.Right.Heading...), "", "", sig.Right.DisplayName(), sig.Right.DisplayNIP())
	for i := 0; i < len(left) || i < len(right); i++ {
		if i < len(left) {
			if err := setCell(f, 2, row+i, left[i]); err != nil {
				return err
			}
		}
		if i < len(right) {
			if err := setCell(f, rightCol, row+i, right[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	for i, v := range values {
		if err := setCell(f, i+1, row, v); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}
