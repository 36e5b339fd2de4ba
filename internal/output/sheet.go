package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet name used for xlsx output.
const DefaultSheet = "Report"

// CSVFormatter writes Data as RFC 4180 CSV with a header row.
type CSVFormatter struct{}

// Format implements the Formatter interface for CSV output.
func (f *CSVFormatter) Format(w io.Writer, data any) error {
	tableData, ok := ToData(data)
	if !ok {
		return fmt.Errorf("csv output requires tabular data, got %T", data)
	}

	writer := csv.NewWriter(w)
	if len(tableData.Headers) > 0 {
		if err := writer.Write(tableData.Headers); err != nil {
			return err
		}
	}
	if err := writer.WriteAll(tableData.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// XLSXFormatter writes Data as a single-sheet workbook with a styled header row.
type XLSXFormatter struct {
	Sheet      string
	ColumnWide float64
}

// Format implements the Formatter interface for xlsx output.
func (f *XLSXFormatter) Format(w io.Writer, data any) error {
	tableData, ok := ToData(data)
	if !ok {
		return fmt.Errorf("xlsx output requires tabular data, got %T", data)
	}

	book, err := f.Workbook(tableData)
	if err != nil {
		return err
	}
	defer func() { _ = book.Close() }()

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Workbook builds the excelize file for the given data.
func (f *XLSXFormatter) Workbook(data Data) (*excelize.File, error) {
	sheet := f.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	width := f.ColumnWide
	if width <= 0 {
		width = 24
	}

	book := excelize.NewFile()
	// NewFile starts with Sheet1; rename it so the workbook has one sheet.
	if err := book.SetSheetName(book.GetSheetName(0), sheet); err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := book.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for i, header := range data.Headers {
		cellName, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			_ = book.Close()
			return nil, err
		}
		if err := book.SetCellValue(sheet, cellName, header); err != nil {
			_ = book.Close()
			return nil, err
		}
		if err := book.SetCellStyle(sheet, cellName, cellName, headerStyle); err != nil {
			_ = book.Close()
			return nil, err
		}
	}

	first := 1
	if len(data.Headers) > 0 {
		first = 2
	}
	for r, row := range data.Rows {
		for c, value := range row {
			cellName, err := excelize.CoordinatesToCellName(c+1, r+first)
			if err != nil {
				_ = book.Close()
				return nil, err
			}
			if err := book.SetCellStr(sheet, cellName, value); err != nil {
				_ = book.Close()
				return nil, err
			}
		}
	}

	columns := len(data.Headers)
	for _, row := range data.Rows {
		columns = max(columns, len(row))
	}
	if columns > 0 {
		last, err := excelize.ColumnNumberToName(columns)
		if err != nil {
			_ = book.Close()
			return nil, err
		}
		if err := book.SetColWidth(sheet, "A", last, width); err != nil {
			_ = book.Close()
			return nil, err
		}
	}

	return book, nil
}
